package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ludo-technologies/pyplag/domain"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes indented JSON for the given value to the writer
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// WriteYAML writes YAML for the given value to the writer
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth = 40
	LabelWidth  = 22
)

// FormatUtils provides shared formatting for the text reports
type FormatUtils struct {
	noColor bool
}

// NewFormatUtils creates a new format utilities instance
func NewFormatUtils() *FormatUtils {
	return &FormatUtils{noColor: color.NoColor}
}

// NewPlainFormatUtils creates format utilities that never emit color
func NewPlainFormatUtils() *FormatUtils {
	return &FormatUtils{noColor: true}
}

// FormatMainHeader formats a report title with an underline
func (f *FormatUtils) FormatMainHeader(title string) string {
	return fmt.Sprintf("%s\n%s\n", f.bold(title), strings.Repeat("=", HeaderWidth))
}

// FormatSectionHeader formats a section title
func (f *FormatUtils) FormatSectionHeader(title string) string {
	return fmt.Sprintf("\n%s\n%s\n", f.bold(title), strings.Repeat("-", len(title)))
}

// FormatLabel formats a label/value line
func (f *FormatUtils) FormatLabel(label string, value interface{}) string {
	return fmt.Sprintf("%-*s %v\n", LabelWidth, label+":", value)
}

// FormatDuration formats milliseconds for display
func (f *FormatUtils) FormatDuration(durationMs int64) string {
	return fmt.Sprintf("%dms", durationMs)
}

// FormatScore renders score colored by its similarity band
func (f *FormatUtils) FormatScore(score domain.SimilarityScore, digits int) string {
	text := score.Format(digits)
	if score == domain.SentinelScore {
		text = "error"
	}
	if f.noColor {
		return text
	}
	return bandColor(domain.BandOf(score)).Sprint(text)
}

// FormatBand renders the band name colored
func (f *FormatUtils) FormatBand(band domain.SimilarityBand) string {
	if f.noColor {
		return string(band)
	}
	return bandColor(band).Sprint(string(band))
}

func (f *FormatUtils) bold(s string) string {
	if f.noColor {
		return s
	}
	return color.New(color.Bold).Sprint(s)
}

func bandColor(band domain.SimilarityBand) *color.Color {
	var c *color.Color
	switch band {
	case domain.BandIdentical, domain.BandError:
		c = color.New(color.FgRed, color.Bold)
	case domain.BandHigh:
		c = color.New(color.FgRed)
	case domain.BandModerate:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgGreen)
	}
	// FormatUtils decides whether color is wanted
	c.EnableColor()
	return c
}
