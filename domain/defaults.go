package domain

import "github.com/ludo-technologies/pyplag/internal/constants"

// Scoring defaults
const (
	// DefaultScorePrecision is the number of decimal digits kept in a score
	DefaultScorePrecision = 3

	// DefaultFlagThreshold is the score at or above which a pair is flagged
	// as likely plagiarism.
	DefaultFlagThreshold = constants.DefaultHighSimilarityThreshold

	// DefaultMinScore keeps every pair in reports
	DefaultMinScore = 0.0
)

// Batch defaults
const (
	// DefaultWorkers of 0 means one worker per CPU
	DefaultWorkers = 0

	// DefaultPairTimeoutSeconds of 0 disables the per-pair timeout
	DefaultPairTimeoutSeconds = 0

	// DefaultErrorPolicy aborts the batch at the first failing pair
	DefaultErrorPolicy = ErrorPolicyAbort
)

// Output defaults
const (
	DefaultOutputFormat = OutputFormatText
	DefaultShowProgress = true
)

// SimilarityBand classifies a score for reports
type SimilarityBand string

const (
	BandIdentical SimilarityBand = "identical"
	BandHigh      SimilarityBand = "high"
	BandModerate  SimilarityBand = "moderate"
	BandLow       SimilarityBand = "low"
	BandError     SimilarityBand = "error"
)

// BandOf returns the band of a score
func BandOf(score SimilarityScore) SimilarityBand {
	switch s := float64(score); {
	case s < 0:
		return BandError
	case s >= constants.DefaultIdenticalThreshold:
		return BandIdentical
	case s >= constants.DefaultHighSimilarityThreshold:
		return BandHigh
	case s >= constants.DefaultModerateSimilarityThreshold:
		return BandModerate
	default:
		return BandLow
	}
}
