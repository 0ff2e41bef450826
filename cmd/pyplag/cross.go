package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyplag/service"
)

// CrossCommand compares every pair of discovered files
type CrossCommand struct {
	options  *batchOptions
	output   string
	exclude  []string
	unsorted bool
}

// NewCrossCommand creates a new cross command
func NewCrossCommand() *CrossCommand {
	return &CrossCommand{options: newBatchOptions()}
}

// CreateCobraCommand creates the cobra command for all-pairs comparison
func (c *CrossCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cross <path|glob>...",
		Short: "Compare every pair of Python files",
		Long: `Compare every unordered pair of Python files found under the given
paths. A path may be a file, a directory (searched recursively) or a glob
such as "submissions/**/*.py".

Results are sorted by score, highest first. The report goes to stdout
unless --output is set; the output format is taken from the file extension
when no format flag is given.

Examples:
  # Compare all submissions and show a table
  pyplag cross --details submissions/

  # Only show suspicious pairs
  pyplag cross --min-score 0.8 "submissions/**/*.py"

  # Write an HTML report
  pyplag cross -o report.html submissions/`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runCross,
	}

	c.options.addFlags(cmd)
	c.options.addMinScoreFlag(cmd)
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write the report to this file")
	cmd.Flags().StringSliceVar(&c.exclude, "exclude", nil, "Glob patterns of files to skip")
	cmd.Flags().BoolVar(&c.unsorted, "unsorted", false, "Keep discovery order instead of sorting by score")

	return cmd
}

// runCross executes the cross command
func (c *CrossCommand) runCross(cmd *cobra.Command, args []string) error {
	files, err := service.NewFileReader(c.exclude...).CollectPythonFiles(args)
	if err != nil {
		return err
	}
	if len(files) < 2 {
		return fmt.Errorf("need at least two Python files to compare, found %d", len(files))
	}

	req, err := c.options.loadRequest(cmd)
	if err != nil {
		return err
	}
	req.Pairs = service.AllPairs(files)
	req.SortByScore = !c.unsorted

	if c.output != "" {
		if !c.formatFlagSet(cmd) {
			req.OutputFormat = service.NewOutputFormatResolver().FromPath(c.output)
		}
		req.OutputPath = c.output
	} else {
		req.OutputWriter = cmd.OutOrStdout()
	}

	if isVerbose(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Comparing %d files (%d pairs)\n", len(files), len(req.Pairs))
	}

	useCase, err := newPlagiarismUseCase(cmd, req)
	if err != nil {
		return fmt.Errorf("failed to create plagiarism use case: %w", err)
	}

	response, err := useCase.Execute(context.Background(), *req)
	if err != nil {
		return err
	}

	if isVerbose(cmd) {
		printPairLines(cmd, response)
	}
	return nil
}

// formatFlagSet reports whether any output format flag was given
func (c *CrossCommand) formatFlagSet(cmd *cobra.Command) bool {
	for _, name := range []string{"format", "html", "json", "csv", "yaml"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// NewCrossCmd creates and returns the cross cobra command
func NewCrossCmd() *cobra.Command {
	return NewCrossCommand().CreateCobraCommand()
}
