package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all pyplag MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	// Tool 1: compare_files - direct comparison of two files
	s.AddTool(mcp.NewTool("compare_files",
		mcp.WithDescription("Score the structural similarity of two Python files (0.0-1.0). Documentation, comments and the order of top-level and class-level declarations do not affect the score."),
		mcp.WithString("path_a",
			mcp.Required(),
			mcp.Description("Path to the first Python file")),
		mcp.WithString("path_b",
			mcp.Required(),
			mcp.Description("Path to the second Python file")),
		mcp.WithNumber("precision",
			mcp.Description("Decimal digits kept in the score, 1-10 (default: 3)")),
		mcp.WithBoolean("show_canonical",
			mcp.Description("Include both canonical streams in the result (default: false)")),
	), h.HandleCompareFiles)

	// Tool 2: score_pairs - batch scoring
	s.AddTool(mcp.NewTool("score_pairs",
		mcp.WithDescription("Score a batch of Python file pairs and flag likely plagiarism. Results keep input order."),
		mcp.WithArray("pairs",
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path_a": map[string]any{"type": "string"},
					"path_b": map[string]any{"type": "string"},
				},
				"required": []string{"path_a", "path_b"},
			}),
			mcp.Description("Pairs to score. Either pairs or pairs_file is required")),
		mcp.WithString("pairs_file",
			mcp.Description("Path to a pairs list with one \"<pathA> <pathB>\" per line")),
		mcp.WithNumber("threshold",
			mcp.Description("Flag pairs scoring at or above this value (default: 0.8)")),
		mcp.WithString("on_error",
			mcp.Enum("abort", "sentinel"),
			mcp.Description("abort stops at the first failing pair; sentinel scores it -1 (default: abort)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary returns statistics and flagged pairs; full returns every pair (default: summary)")),
	), h.HandleScorePairs)

	// Tool 3: cross_compare - all pairs under a path
	s.AddTool(mcp.NewTool("cross_compare",
		mcp.WithDescription("Compare every pair of Python files under a directory or glob, highest scores first"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory, file glob (e.g. submissions/**/*.py) or file")),
		mcp.WithNumber("min_score",
			mcp.Description("Hide pairs scoring below this value (default: 0.0)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum pairs returned, 0 = all (default: 0)")),
	), h.HandleCrossCompare)
}
