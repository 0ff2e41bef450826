package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResponse() *domain.PlagiarismResponse {
	results := []*domain.PairResult{
		{Pair: domain.FilePair{Index: 0, PathA: "a.py", PathB: "b.py"}, Score: 1, Flagged: true, Status: domain.PairStatusOK},
		{Pair: domain.FilePair{Index: 1, PathA: "a.py", PathB: "c.py"}, Score: 0.5, Status: domain.PairStatusOK},
		{Pair: domain.FilePair{Index: 2, PathA: "<x>.py", PathB: "d.py"}, Score: domain.SentinelScore, Status: domain.PairStatusError, Error: "parse failed"},
	}
	return &domain.PlagiarismResponse{
		Results:     results,
		Statistics:  domain.NewPlagiarismStatistics(results),
		Threshold:   0.8,
		Precision:   3,
		GeneratedAt: "2026-01-02T03:04:05Z",
		Version:     "dev",
	}
}

func TestPlagiarismFormatter_TextScores(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormatText, &buf))
	assert.Equal(t, "1.000\n0.500\n-1.000\n", buf.String())
}

func TestPlagiarismFormatter_TextScoresPrecision(t *testing.T) {
	resp := sampleResponse()
	resp.Precision = 2

	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(resp, domain.OutputFormatText, &buf))
	assert.Equal(t, "1.00\n0.50\n-1.00\n", buf.String())
}

func TestPlagiarismFormatter_TextDetails(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewPlagiarismFormatter().WithDetails(true).WithFormatUtils(NewPlainFormatUtils())
	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatText, &buf))

	out := buf.String()
	assert.Contains(t, out, "Plagiarism Report")
	assert.Contains(t, out, "FILE A")
	assert.Contains(t, out, "identical")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Flagged:")
	assert.Contains(t, out, "1 (threshold 0.800)")
	assert.NotContains(t, out, "\x1b[")
}

func TestPlagiarismFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormatJSON, &buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	results := decoded["results"].([]any)
	require.Len(t, results, 3)
	first := results[0].(map[string]any)
	assert.Equal(t, 1.0, first["score"])
	assert.Equal(t, true, first["flagged"])
	assert.Equal(t, "parse failed", results[2].(map[string]any)["error"])
}

func TestPlagiarismFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormatYAML, &buf))

	var decoded struct {
		Statistics struct {
			FlaggedPairs int `yaml:"flagged_pairs"`
			ErrorPairs   int `yaml:"error_pairs"`
		} `yaml:"statistics"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.Statistics.FlaggedPairs)
	assert.Equal(t, 1, decoded.Statistics.ErrorPairs)
}

func TestPlagiarismFormatter_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormatCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"index", "path_a", "path_b", "score", "flagged", "status", "error"}, records[0])
	assert.Equal(t, []string{"1", "a.py", "b.py", "1.000", "true", "ok", ""}, records[1])
	assert.Equal(t, []string{"3", "<x>.py", "d.py", "-1.000", "false", "error", "parse failed"}, records[3])
}

func TestPlagiarismFormatter_HTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormatHTML, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "&lt;x&gt;.py")
	assert.Contains(t, out, `class="flagged"`)
	assert.Contains(t, out, "band-identical")
}

func TestPlagiarismFormatter_UnsupportedFormat(t *testing.T) {
	err := NewPlagiarismFormatter().Write(sampleResponse(), domain.OutputFormat("xml"), &bytes.Buffer{})
	assert.Equal(t, domain.ErrCodeUnsupportedFormat, domain.ErrorCode(err))
}

func TestFormatUtils_FormatScore(t *testing.T) {
	plain := NewPlainFormatUtils()
	assert.Equal(t, "0.818", plain.FormatScore(0.818, 3))
	assert.Equal(t, "error", plain.FormatScore(domain.SentinelScore, 3))

	colored := &FormatUtils{}
	assert.Contains(t, colored.FormatScore(0.99, 3), "\x1b[")
}
