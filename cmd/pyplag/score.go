package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyplag/domain"
)

// ScoreCommand scores every pair of a pairs list
type ScoreCommand struct {
	options *batchOptions
}

// NewScoreCommand creates a new score command
func NewScoreCommand() *ScoreCommand {
	return &ScoreCommand{options: newBatchOptions()}
}

// CreateCobraCommand creates the cobra command for batch scoring
func (s *ScoreCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <pairs-file> <output-file>",
		Short: "Score every pair of a pairs list",
		Long: `Score every pair listed in a pairs file.

The pairs file holds one pair per line, two paths separated by a single
space. Blank lines are skipped. The output file is created or truncated and
receives one score per line, in input order, with three decimal digits.

Examples:
  # Score pairs.txt into scores.txt
  pyplag score pairs.txt scores.txt

  # Keep going past unparseable files (they score -1)
  pyplag score --on-error sentinel pairs.txt scores.txt

  # Write a JSON report and keep the run in a SQLite database
  pyplag score --json --sqlite runs.db pairs.txt report.json`,
		Args: cobra.ExactArgs(2),
		RunE: s.runScore,
	}

	s.options.addFlags(cmd)

	return cmd
}

// runScore executes the score command
func (s *ScoreCommand) runScore(cmd *cobra.Command, args []string) error {
	pairsPath, outputPath := args[0], args[1]

	req, err := s.options.loadRequest(cmd)
	if err != nil {
		return err
	}
	req.OutputPath = outputPath
	// one line per input pair, in input order
	req.MinScore = 0
	req.SortByScore = false

	useCase, err := newPlagiarismUseCase(cmd, req)
	if err != nil {
		return fmt.Errorf("failed to create plagiarism use case: %w", err)
	}

	response, err := useCase.ExecuteFile(context.Background(), pairsPath, *req)
	if err != nil {
		return err
	}

	if isVerbose(cmd) {
		printPairLines(cmd, response)
	}
	return nil
}

// printPairLines writes one status line per pair to stderr
func printPairLines(cmd *cobra.Command, response *domain.PlagiarismResponse) {
	w := cmd.ErrOrStderr()
	for _, r := range response.Results {
		if r.IsError() {
			fmt.Fprintf(w, "pair %d: %s -> error: %s\n", r.Pair.Index+1, r.Pair, r.Error)
			continue
		}
		fmt.Fprintf(w, "pair %d: %s -> %s\n", r.Pair.Index+1, r.Pair, r.Score.Format(response.Precision))
	}
	if stats := response.Statistics; stats != nil {
		fmt.Fprintf(w, "%d pairs, %d flagged, %d errors in %dms\n",
			stats.TotalPairs, stats.FlaggedPairs, stats.ErrorPairs, response.Duration)
	}
}

// NewScoreCmd creates and returns the score cobra command
func NewScoreCmd() *cobra.Command {
	return NewScoreCommand().CreateCobraCommand()
}
