package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pyplag/domain"
)

// FileOutputWriter writes reports to files or provided writers and
// optionally opens HTML reports in a browser
type FileOutputWriter struct {
	status  io.Writer
	opener  func(url string) error
	verbose bool
}

// NewFileOutputWriter creates a new FileOutputWriter. Status lines go to
// status, typically stderr.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status, opener: OpenBrowser, verbose: true}
}

// SetQuiet suppresses the "report generated" status line
func (w *FileOutputWriter) SetQuiet(quiet bool) {
	w.verbose = !quiet
}

// Write implements domain.ReportWriter. A non-empty outputPath is created
// or truncated before writeFunc runs.
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, noOpen bool, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if err := writeFunc(writer); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}

	if err := writeFunc(file); err != nil {
		file.Close()
		return domain.NewOutputError("failed to write output", err)
	}
	if err := file.Close(); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to close output file: %s", outputPath), err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}

	if format == domain.OutputFormatHTML && !noOpen && w.opener != nil {
		if err := w.opener("file://" + absPath); err != nil {
			fmt.Fprintf(w.status, "Warning: Could not open browser: %v\n", err)
		} else if w.verbose {
			fmt.Fprintf(w.status, "HTML report generated and opened: %s\n", absPath)
			return nil
		}
	}

	if w.verbose {
		fmt.Fprintf(w.status, "%s report generated: %s\n", strings.ToUpper(string(format)), absPath)
	}
	return nil
}
