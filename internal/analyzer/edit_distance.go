package analyzer

import (
	"context"
	"strconv"
)

// scorePrecision is the number of decimal digits kept in a score
const scorePrecision = 3

// EditDistance computes the unit-cost Levenshtein distance between a and b
// over bytes. It uses two rolling rows and checks ctx once per row.
func EditDistance(ctx context.Context, a, b string) (int, error) {
	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	m := len(a)
	n := len(b)

	if m == 0 {
		return n, nil
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)

	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	for j := 1; j <= n; j++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		curr[0] = j
		for i := 1; i <= m; i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1]
				continue
			}

			curr[i] = 1 + min3(
				prev[i],   // deletion
				curr[i-1], // insertion
				prev[i-1], // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m], nil
}

// Similarity returns the normalized edit similarity of two canonical texts,
// rounded to three decimal digits. Two empty texts are identical.
func Similarity(ctx context.Context, a, b string) (float64, error) {
	return SimilarityWithPrecision(ctx, a, b, scorePrecision)
}

// SimilarityWithPrecision is Similarity rounded to digits decimal digits
func SimilarityWithPrecision(ctx context.Context, a, b string, digits int) (float64, error) {
	longest := maxInt(len(a), len(b))
	if longest == 0 {
		return 1.0, nil
	}

	distance, err := EditDistance(ctx, a, b)
	if err != nil {
		return 0, err
	}

	return roundScore(float64(longest-distance)/float64(longest), digits), nil
}

// roundScore rounds x to digits decimal places, half to even on the exact
// binary value
func roundScore(x float64, digits int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', digits, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}

// min3 returns the minimum of three integers
func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
