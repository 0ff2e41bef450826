package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/analyzer"
	"github.com/ludo-technologies/pyplag/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleCompareFiles handles the compare_files tool
func (h *HandlerSet) HandleCompareFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	pathA, ok := args["path_a"].(string)
	if !ok || pathA == "" {
		return mcp.NewToolResultError("path_a parameter is required and must be a string"), nil
	}
	pathB, ok := args["path_b"].(string)
	if !ok || pathB == "" {
		return mcp.NewToolResultError("path_b parameter is required and must be a string"), nil
	}

	cfg := h.deps.Config()
	precision := cfg.Scoring.Precision
	if p, ok := args["precision"].(float64); ok {
		precision = int(p)
	}
	if precision < 1 || precision > 10 {
		return mcp.NewToolResultError("precision must be between 1 and 10"), nil
	}

	svc := service.NewPlagiarismService(nil)
	formA, err := svc.Analyze(ctx, pathA)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	formB, err := svc.Analyze(ctx, pathB)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	value, err := analyzer.SimilarityWithPrecision(ctx, formA.Text, formB.Text, precision)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	score := domain.SimilarityScore(value)

	responseData := map[string]interface{}{
		"path_a":             pathA,
		"path_b":             pathB,
		"score":              score,
		"band":               domain.BandOf(score),
		"flagged":            value >= cfg.Scoring.Threshold,
		"threshold":          cfg.Scoring.Threshold,
		"canonical_length_a": len(formA.Text),
		"canonical_length_b": len(formB.Text),
	}
	if show, ok := args["show_canonical"].(bool); ok && show {
		responseData["canonical_a"] = formA.Text
		responseData["canonical_b"] = formB.Text
	}

	return jsonResult(responseData)
}

// HandleScorePairs handles the score_pairs tool
func (h *HandlerSet) HandleScorePairs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	useCase, err := h.deps.BuildPlagiarismUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create scorer: %v", err)), nil
	}

	var pairs []domain.FilePair
	if raw, ok := args["pairs"].([]interface{}); ok && len(raw) > 0 {
		pairs, err = parsePairs(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else if pairsFile, ok := args["pairs_file"].(string); ok && pairsFile != "" {
		if _, err := os.Stat(pairsFile); os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", pairsFile)), nil
		}
		pairs, err = useCase.ReadPairsFile(pairsFile)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		return mcp.NewToolResultError("pairs or pairs_file parameter is required"), nil
	}

	req := h.deps.BaseRequest()
	req.Pairs = pairs
	req.MinScore = 0
	if threshold, ok := args["threshold"].(float64); ok {
		req.Threshold = threshold
	}
	if policy, ok := args["on_error"].(string); ok && policy != "" {
		req.OnError = domain.ErrorPolicy(policy)
	}

	result, err := useCase.Execute(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}

	switch outputMode {
	case "full":
		return jsonResult(result)
	default:
		return jsonResult(formatBatchSummary(result, 0))
	}
}

// HandleCrossCompare handles the cross_compare tool
func (h *HandlerSet) HandleCrossCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	files, err := h.deps.fileReader.CollectPythonFiles([]string{path})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}
	if len(files) < 2 {
		return mcp.NewToolResultError(fmt.Sprintf("need at least two Python files, found %d", len(files))), nil
	}

	req := h.deps.BaseRequest()
	req.Pairs = service.AllPairs(files)
	req.SortByScore = true
	// a cross run should report every pair it can
	req.OnError = domain.ErrorPolicySentinel
	if minScore, ok := args["min_score"].(float64); ok {
		req.MinScore = minScore
	}

	maxResults := 0
	if mr, ok := args["max_results"].(float64); ok && mr > 0 {
		maxResults = int(mr)
	}

	useCase, err := h.deps.BuildPlagiarismUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create scorer: %v", err)), nil
	}

	result, err := useCase.Execute(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cross comparison failed: %v", err)), nil
	}

	summary := formatBatchSummary(result, maxResults)
	summary["files"] = len(files)
	summary["pairs"] = formatPairs(result.Results, result.Precision, maxResults)
	return jsonResult(summary)
}

// parsePairs converts the pairs argument into file pairs
func parsePairs(raw []interface{}) ([]domain.FilePair, error) {
	pairs := make([]domain.FilePair, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pair %d must be an object with path_a and path_b", i+1)
		}
		pathA, _ := obj["path_a"].(string)
		pathB, _ := obj["path_b"].(string)
		if pathA == "" || pathB == "" {
			return nil, fmt.Errorf("pair %d must set path_a and path_b", i+1)
		}
		pairs = append(pairs, domain.FilePair{Index: i, PathA: pathA, PathB: pathB})
	}
	return pairs, nil
}

// formatBatchSummary keeps statistics and the flagged or failed pairs
func formatBatchSummary(result *domain.PlagiarismResponse, maxResults int) map[string]interface{} {
	var notable []*domain.PairResult
	for _, r := range result.Results {
		if r.Flagged || r.IsError() {
			notable = append(notable, r)
		}
	}

	return map[string]interface{}{
		"success":       result.Success,
		"threshold":     result.Threshold,
		"statistics":    result.Statistics,
		"flagged_pairs": formatPairs(notable, result.Precision, maxResults),
		"duration_ms":   result.Duration,
	}
}

// formatPairs flattens pair results for tool output
func formatPairs(results []*domain.PairResult, precision, maxResults int) []map[string]interface{} {
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	pairs := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"index":   r.Pair.Index + 1,
			"path_a":  r.Pair.PathA,
			"path_b":  r.Pair.PathB,
			"score":   r.Score.Format(precision),
			"band":    domain.BandOf(r.Score),
			"flagged": r.Flagged,
		}
		if r.IsError() {
			entry["error"] = r.Error
		}
		pairs = append(pairs, entry)
	}
	return pairs
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
