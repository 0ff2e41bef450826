package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/olekukonko/tablewriter"
)

// PlagiarismFormatterImpl writes batch results in every supported format
type PlagiarismFormatterImpl struct {
	utils       *FormatUtils
	showDetails bool
}

// NewPlagiarismFormatter creates a formatter. Text output is the plain one
// score per line list unless details are enabled.
func NewPlagiarismFormatter() *PlagiarismFormatterImpl {
	return &PlagiarismFormatterImpl{utils: NewFormatUtils()}
}

// WithDetails switches text output to the table report
func (f *PlagiarismFormatterImpl) WithDetails(details bool) *PlagiarismFormatterImpl {
	f.showDetails = details
	return f
}

// WithFormatUtils replaces the text styling helpers
func (f *PlagiarismFormatterImpl) WithFormatUtils(utils *FormatUtils) *PlagiarismFormatterImpl {
	f.utils = utils
	return f
}

// Write formats response according to format
func (f *PlagiarismFormatterImpl) Write(response *domain.PlagiarismResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		if f.showDetails {
			return f.writeDetails(response, writer)
		}
		return f.writeScores(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatHTML:
		return writeHTMLReport(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeScores writes one score per line in input order
func (f *PlagiarismFormatterImpl) writeScores(response *domain.PlagiarismResponse, writer io.Writer) error {
	var buf bytes.Buffer
	for _, r := range response.Results {
		buf.WriteString(r.Score.Format(precisionOf(response)))
		buf.WriteByte('\n')
	}
	if _, err := writer.Write(buf.Bytes()); err != nil {
		return domain.NewOutputError("failed to write scores", err)
	}
	return nil
}

// writeDetails writes a table of every pair followed by a summary
func (f *PlagiarismFormatterImpl) writeDetails(response *domain.PlagiarismResponse, writer io.Writer) error {
	var buf bytes.Buffer
	digits := precisionOf(response)

	buf.WriteString(f.utils.FormatMainHeader("Plagiarism Report"))
	buf.WriteString(RenderPairTable(response.Results, digits, f.utils))

	stats := response.Statistics
	if stats != nil {
		buf.WriteString(f.utils.FormatSectionHeader("Summary"))
		buf.WriteString(f.utils.FormatLabel("Pairs", stats.TotalPairs))
		buf.WriteString(f.utils.FormatLabel("Files", stats.FilesCanonicalized))
		buf.WriteString(f.utils.FormatLabel("Flagged", fmt.Sprintf("%d (threshold %s)", stats.FlaggedPairs,
			domain.SimilarityScore(response.Threshold).Format(digits))))
		buf.WriteString(f.utils.FormatLabel("Errors", stats.ErrorPairs))
		if stats.ScoredPairs > 0 {
			buf.WriteString(f.utils.FormatLabel("Mean score", strconv.FormatFloat(stats.MeanScore, 'f', digits, 64)))
			buf.WriteString(f.utils.FormatLabel("Max score", strconv.FormatFloat(stats.MaxScore, 'f', digits, 64)))
		}
		buf.WriteString(f.utils.FormatLabel("Duration", f.utils.FormatDuration(response.Duration)))
	}

	if _, err := writer.Write(buf.Bytes()); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// RenderPairTable renders results as an aligned table
func RenderPairTable(results []*domain.PairResult, digits int, utils *FormatUtils) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"#", "File A", "File B", "Score", "Band", "Flag"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
	})

	for _, r := range results {
		flag := ""
		if r.Flagged {
			flag = "*"
		}
		table.Append([]string{
			strconv.Itoa(r.Pair.Index + 1),
			r.Pair.PathA,
			r.Pair.PathB,
			utils.FormatScore(r.Score, digits),
			utils.FormatBand(domain.BandOf(r.Score)),
			flag,
		})
	}

	table.Render()
	return tableBuffer.String()
}

// writeCSV writes one record per pair
func (f *PlagiarismFormatterImpl) writeCSV(response *domain.PlagiarismResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	digits := precisionOf(response)

	if err := w.Write([]string{"index", "path_a", "path_b", "score", "flagged", "status", "error"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, r := range response.Results {
		record := []string{
			strconv.Itoa(r.Pair.Index + 1),
			r.Pair.PathA,
			r.Pair.PathB,
			r.Score.Format(digits),
			strconv.FormatBool(r.Flagged),
			string(r.Status),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV", err)
	}
	return nil
}

func precisionOf(response *domain.PlagiarismResponse) int {
	if response.Precision > 0 {
		return response.Precision
	}
	return domain.DefaultScorePrecision
}
