package domain

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"
)

// SimilarityScore is a normalized similarity in [0,1]. SentinelScore marks
// a pair that could not be scored.
type SimilarityScore float64

// SentinelScore is reported for failed pairs under the sentinel error policy
const SentinelScore SimilarityScore = -1

// Format renders the score with digits fractional digits
func (s SimilarityScore) Format(digits int) string {
	return strconv.FormatFloat(float64(s), 'f', digits, 64)
}

// String renders the score with the default precision
func (s SimilarityScore) String() string {
	return s.Format(DefaultScorePrecision)
}

// ErrorPolicy decides what a batch does when a pair fails
type ErrorPolicy string

const (
	// ErrorPolicyAbort stops the batch at the first failing pair
	ErrorPolicyAbort ErrorPolicy = "abort"
	// ErrorPolicySentinel records SentinelScore for the pair and continues
	ErrorPolicySentinel ErrorPolicy = "sentinel"
)

// PairStatus is the outcome of scoring one pair
type PairStatus string

const (
	PairStatusOK    PairStatus = "ok"
	PairStatusError PairStatus = "error"
)

// FilePair is one input line of a pairs list
type FilePair struct {
	Index int    `json:"index" yaml:"index"`
	Line  int    `json:"line,omitempty" yaml:"line,omitempty"`
	PathA string `json:"path_a" yaml:"path_a"`
	PathB string `json:"path_b" yaml:"path_b"`
}

// String returns "pathA pathB"
func (p FilePair) String() string {
	return fmt.Sprintf("%s %s", p.PathA, p.PathB)
}

// PairResult is the score of one pair
type PairResult struct {
	Pair       FilePair        `json:"pair" yaml:"pair"`
	Score      SimilarityScore `json:"score" yaml:"score"`
	Flagged    bool            `json:"flagged" yaml:"flagged"`
	Status     PairStatus      `json:"status" yaml:"status"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
	LengthA    int             `json:"canonical_length_a" yaml:"canonical_length_a"`
	LengthB    int             `json:"canonical_length_b" yaml:"canonical_length_b"`
	DurationMs int64           `json:"duration_ms" yaml:"duration_ms"`
}

// IsError reports whether the pair failed
func (r *PairResult) IsError() bool {
	return r.Status == PairStatusError
}

// PlagiarismStatistics summarizes a batch
type PlagiarismStatistics struct {
	TotalPairs         int     `json:"total_pairs" yaml:"total_pairs"`
	ScoredPairs        int     `json:"scored_pairs" yaml:"scored_pairs"`
	FlaggedPairs       int     `json:"flagged_pairs" yaml:"flagged_pairs"`
	ErrorPairs         int     `json:"error_pairs" yaml:"error_pairs"`
	FilesCanonicalized int     `json:"files_canonicalized" yaml:"files_canonicalized"`
	MeanScore          float64 `json:"mean_score" yaml:"mean_score"`
	MaxScore           float64 `json:"max_score" yaml:"max_score"`
	MinScore           float64 `json:"min_score" yaml:"min_score"`
}

// PlagiarismRequest represents a request to score a batch of pairs
type PlagiarismRequest struct {
	// Input parameters
	Pairs []FilePair `json:"pairs"`

	// Scoring configuration
	Threshold float64 `json:"threshold"`
	Precision int     `json:"precision"`
	MinScore  float64 `json:"min_score"`

	// Batch configuration
	Workers     int           `json:"workers"`
	PairTimeout time.Duration `json:"pair_timeout"`
	OnError     ErrorPolicy   `json:"on_error"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputPath   string       `json:"output_path"`
	OutputWriter io.Writer    `json:"-"`
	ShowProgress bool         `json:"show_progress"`
	ShowDetails  bool         `json:"show_details"`
	SortByScore  bool         `json:"sort_by_score"`
	NoOpen       bool         `json:"no_open"`

	// Persistence
	SQLitePath string `json:"sqlite_path"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// PlagiarismResponse represents the scores of a batch in input order
type PlagiarismResponse struct {
	Results     []*PairResult         `json:"results" yaml:"results"`
	Statistics  *PlagiarismStatistics `json:"statistics" yaml:"statistics"`
	Threshold   float64               `json:"threshold" yaml:"threshold"`
	Precision   int                   `json:"precision" yaml:"precision"`
	Duration    int64                 `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string                `json:"generated_at" yaml:"generated_at"`
	Version     string                `json:"version" yaml:"version"`
	Success     bool                  `json:"success" yaml:"success"`
}

// CanonicalFile is the canonical form of one source file
type CanonicalFile struct {
	Path     string `json:"path" yaml:"path"`
	Text     string `json:"canonical" yaml:"canonical"`
	Rendered string `json:"rendered" yaml:"rendered"`
	Length   int    `json:"length" yaml:"length"`
}

// PlagiarismService scores file pairs
type PlagiarismService interface {
	// Score reads both files and returns their similarity
	Score(ctx context.Context, pathA, pathB string) (SimilarityScore, error)

	// Compare scores every pair of the request
	Compare(ctx context.Context, req *PlagiarismRequest) (*PlagiarismResponse, error)

	// Canonicalize returns the canonical form of one file
	Canonicalize(ctx context.Context, path string) (*CanonicalFile, error)
}

// PlagiarismOutputFormatter writes batch results
type PlagiarismOutputFormatter interface {
	// Write formats response according to format
	Write(response *PlagiarismResponse, format OutputFormat, writer io.Writer) error
}

// PairReader parses a pairs list
type PairReader interface {
	// ReadPairs parses one pair per line
	ReadPairs(reader io.Reader) ([]FilePair, error)
}

// ResultStore persists batch results
type ResultStore interface {
	// SaveRun stores a response and returns the run id
	SaveRun(ctx context.Context, response *PlagiarismResponse) (int64, error)

	// Close releases the store
	Close() error
}

// PlagiarismConfigurationLoader loads batch defaults from config files
type PlagiarismConfigurationLoader interface {
	// LoadConfig loads configuration from path, or discovers one when empty
	LoadConfig(path string) (*PlagiarismRequest, error)

	// LoadDefaultConfig returns built-in defaults
	LoadDefaultConfig() *PlagiarismRequest
}

// Validate validates a plagiarism request
func (req *PlagiarismRequest) Validate() error {
	if len(req.Pairs) == 0 {
		return NewValidationError("no file pairs to compare")
	}

	for _, pair := range req.Pairs {
		if pair.PathA == "" || pair.PathB == "" {
			return NewValidationError(fmt.Sprintf("pair %d has an empty path", pair.Index+1))
		}
	}

	if req.Threshold < 0.0 || req.Threshold > 1.0 {
		return NewValidationError("threshold must be between 0.0 and 1.0")
	}

	if req.MinScore < 0.0 || req.MinScore > 1.0 {
		return NewValidationError("min_score must be between 0.0 and 1.0")
	}

	if req.Precision < 1 || req.Precision > 10 {
		return NewValidationError("precision must be between 1 and 10")
	}

	if req.Workers < 0 {
		return NewValidationError("workers must be >= 0")
	}

	if req.PairTimeout < 0 {
		return NewValidationError("pair_timeout must be >= 0")
	}

	switch req.OnError {
	case ErrorPolicyAbort, ErrorPolicySentinel:
	default:
		return NewValidationError(fmt.Sprintf("on_error must be %q or %q", ErrorPolicyAbort, ErrorPolicySentinel))
	}

	return nil
}

// DefaultPlagiarismRequest returns a default plagiarism request
func DefaultPlagiarismRequest() *PlagiarismRequest {
	return &PlagiarismRequest{
		Threshold:    DefaultFlagThreshold,
		Precision:    DefaultScorePrecision,
		OnError:      ErrorPolicyAbort,
		OutputFormat: OutputFormatText,
		ShowProgress: true,
	}
}

// NewPlagiarismStatistics computes statistics over results
func NewPlagiarismStatistics(results []*PairResult) *PlagiarismStatistics {
	stats := &PlagiarismStatistics{TotalPairs: len(results)}

	sum := 0.0
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.IsError() {
			stats.ErrorPairs++
			continue
		}
		score := float64(r.Score)
		if stats.ScoredPairs == 0 || score > stats.MaxScore {
			stats.MaxScore = score
		}
		if stats.ScoredPairs == 0 || score < stats.MinScore {
			stats.MinScore = score
		}
		stats.ScoredPairs++
		sum += score
		if r.Flagged {
			stats.FlaggedPairs++
		}
	}

	if stats.ScoredPairs > 0 {
		stats.MeanScore = sum / float64(stats.ScoredPairs)
	}
	return stats
}
