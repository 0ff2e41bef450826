package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/analyzer"
	"github.com/ludo-technologies/pyplag/internal/config"
	"github.com/ludo-technologies/pyplag/internal/parser"
	"github.com/ludo-technologies/pyplag/service"
)

// CompareCommand compares two files directly
type CompareCommand struct {
	threshold     float64
	precision     int
	showCanonical bool
	showRendered  bool
	showTree      bool
	details       bool
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	defaults := config.DefaultConfig()
	return &CompareCommand{
		threshold: defaults.Scoring.Threshold,
		precision: defaults.Scoring.Precision,
	}
}

// CreateCobraCommand creates the cobra command for a direct comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <file-a> <file-b>",
		Short: "Compare two Python files",
		Long: `Compare two Python files and print their similarity score.

Use --show-rendered to see each file after normalization and
--show-canonical to see the exact character stream that is scored.

Examples:
  # Print the score
  pyplag compare a.py b.py

  # Show why two files score the way they do
  pyplag compare --details --show-rendered a.py b.py`,
		Args: cobra.ExactArgs(2),
		RunE: c.runCompare,
	}

	cmd.Flags().Float64VarP(&c.threshold, config.FlagThreshold, "t", c.threshold,
		"Flag the pair at or above this score (0.0-1.0)")
	cmd.Flags().IntVar(&c.precision, config.FlagPrecision, c.precision,
		"Decimal digits kept in the score (1-10)")
	cmd.Flags().BoolVar(&c.showCanonical, "show-canonical", false, "Print both canonical streams")
	cmd.Flags().BoolVar(&c.showRendered, "show-rendered", false, "Print both normalized sources")
	cmd.Flags().BoolVar(&c.showTree, "show-tree", false, "Print both normalized statement trees")
	cmd.Flags().BoolVarP(&c.details, "details", "d", false, "Print a table with band and flag")

	return cmd
}

// runCompare executes the compare command
func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	if c.precision < 1 || c.precision > 10 {
		return domain.NewConfigError("precision must be between 1 and 10", nil)
	}
	if c.threshold < 0 || c.threshold > 1 {
		return domain.NewConfigError("threshold must be between 0.0 and 1.0", nil)
	}

	ctx := context.Background()
	svc := service.NewPlagiarismService(nil)

	formA, err := svc.Analyze(ctx, args[0])
	if err != nil {
		return err
	}
	formB, err := svc.Analyze(ctx, args[1])
	if err != nil {
		return err
	}

	score, err := analyzer.SimilarityWithPrecision(ctx, formA.Text, formB.Text, c.precision)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	utils := service.NewFormatUtils()

	if c.showTree {
		fmt.Fprint(out, utils.FormatSectionHeader(args[0]))
		formA.Tree.Accept(parser.NewPrinterVisitor(out))
		fmt.Fprint(out, utils.FormatSectionHeader(args[1]))
		formB.Tree.Accept(parser.NewPrinterVisitor(out))
	}
	if c.showRendered {
		fmt.Fprint(out, utils.FormatSectionHeader(args[0]))
		fmt.Fprintln(out, formA.Rendered)
		fmt.Fprint(out, utils.FormatSectionHeader(args[1]))
		fmt.Fprintln(out, formB.Rendered)
	}
	if c.showCanonical {
		fmt.Fprint(out, utils.FormatSectionHeader("Canonical"))
		fmt.Fprintf(out, "%s\n%s\n", formA.Text, formB.Text)
	}

	if !c.details {
		fmt.Fprintln(out, domain.SimilarityScore(score).Format(c.precision))
		return nil
	}

	result := &domain.PairResult{
		Pair:    domain.FilePair{PathA: args[0], PathB: args[1]},
		Score:   domain.SimilarityScore(score),
		Flagged: score >= c.threshold,
		Status:  domain.PairStatusOK,
		LengthA: len(formA.Text),
		LengthB: len(formB.Text),
	}
	fmt.Fprint(out, service.RenderPairTable([]*domain.PairResult{result}, c.precision, utils))
	fmt.Fprint(out, utils.FormatLabel("Canonical lengths", fmt.Sprintf("%d / %d", result.LengthA, result.LengthB)))

	statsA, statsB := parser.NewStatisticsVisitor(), parser.NewStatisticsVisitor()
	formA.Tree.Accept(statsA)
	formB.Tree.Accept(statsB)
	fmt.Fprint(out, utils.FormatLabel("Statements", fmt.Sprintf("%d / %d", statsA.TotalNodes, statsB.TotalNodes)))
	fmt.Fprint(out, utils.FormatLabel("Max depth", fmt.Sprintf("%d / %d", statsA.MaxDepth, statsB.MaxDepth)))
	return nil
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
