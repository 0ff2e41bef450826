package constants

// Similarity bands used to classify pair scores in reports.
// A score belongs to the highest band whose threshold it reaches.
const (
	// DefaultIdenticalThreshold marks pairs whose canonical forms are
	// identical or differ by a handful of characters.
	DefaultIdenticalThreshold = 0.95

	// DefaultHighSimilarityThreshold marks likely plagiarism. It is also the
	// default flag threshold.
	DefaultHighSimilarityThreshold = 0.80

	// DefaultModerateSimilarityThreshold marks pairs worth a manual look.
	DefaultModerateSimilarityThreshold = 0.60
)

// SimilarityBandNames provides human-readable names for similarity bands
var SimilarityBandNames = map[string]string{
	"identical": "Identical",
	"high":      "High",
	"moderate":  "Moderate",
	"low":       "Low",
	"error":     "Error",
}
