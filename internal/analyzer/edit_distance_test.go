package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{"both empty", "", "", 0},
		{"one empty", "", "abc", 3},
		{"identical", "abc", "abc", 0},
		{"classic", "kitten", "sitting", 3},
		{"shifted", "flaw", "lawn", 2},
		{"substitution only", "abc", "abd", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := EditDistance(context.Background(), tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)

			reverse, err := EditDistance(context.Background(), tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, d, reverse)
		})
	}
}

func TestEditDistanceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EditDistance(ctx, strings.Repeat("a", 100), strings.Repeat("b", 100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"both empty", "", "", 1.0},
		{"identical", "deffreturn1", "deffreturn1", 1.0},
		{"one empty", "abc", "", 0.0},
		{"classic", "kitten", "sitting", 0.571},
		{"renamed function", "deffreturn1", "defgreturn2", 0.818},
		{"disjoint", "aaa", "bbb", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Similarity(context.Background(), tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, score)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5714285714, 0.571},
		{0.0625, 0.062},
		{2.675, 2.67},
		{1.0, 1.0},
		{0.0, 0.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, roundScore(tt.input, 3), "round(%v)", tt.input)
	}
}

func TestSimilarityWithPrecision(t *testing.T) {
	// 4/7 = 0.571428...
	ctx := context.Background()

	score, err := SimilarityWithPrecision(ctx, "abcdefg", "abcdxyz", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.6, score)

	score, err = SimilarityWithPrecision(ctx, "abcdefg", "abcdxyz", 5)
	require.NoError(t, err)
	assert.Equal(t, 0.57143, score)

	score, err = SimilarityWithPrecision(ctx, "", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}
