package service

import (
	"strings"

	"github.com/ludo-technologies/pyplag/domain"
)

// OutputFormatResolver resolves the report format from command line flags
type OutputFormatResolver struct{}

// NewOutputFormatResolver creates a new resolver
func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates the shorthand format flags and returns the selected
// format. At most one of html/json/csv/yaml may be true; when none is set
// fallback is used.
func (r *OutputFormatResolver) Determine(html, json, csv, yaml bool, fallback domain.OutputFormat) (domain.OutputFormat, error) {
	selected := make([]domain.OutputFormat, 0, 1)
	if html {
		selected = append(selected, domain.OutputFormatHTML)
	}
	if json {
		selected = append(selected, domain.OutputFormatJSON)
	}
	if csv {
		selected = append(selected, domain.OutputFormatCSV)
	}
	if yaml {
		selected = append(selected, domain.OutputFormatYAML)
	}

	switch len(selected) {
	case 0:
		if fallback == "" {
			return domain.OutputFormatText, nil
		}
		return domain.ParseOutputFormat(string(fallback))
	case 1:
		return selected[0], nil
	default:
		return "", domain.NewInvalidInputError("only one output format flag can be specified", nil)
	}
}

// FromPath infers a format from an output file extension; text otherwise
func (r *OutputFormatResolver) FromPath(path string) domain.OutputFormat {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return domain.OutputFormatText
	}
	switch strings.ToLower(path[idx+1:]) {
	case "json":
		return domain.OutputFormatJSON
	case "yaml", "yml":
		return domain.OutputFormatYAML
	case "csv":
		return domain.OutputFormatCSV
	case "html", "htm":
		return domain.OutputFormatHTML
	default:
		return domain.OutputFormatText
	}
}

// Extension returns the file extension written for format
func (r *OutputFormatResolver) Extension(format domain.OutputFormat) string {
	if format == domain.OutputFormatText {
		return "txt"
	}
	return string(format)
}
