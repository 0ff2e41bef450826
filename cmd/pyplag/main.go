package main

import (
	"os"

	"github.com/ludo-technologies/pyplag/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pyplag",
		Short: "Structural plagiarism detection for Python submissions",
		Long: `pyplag scores pairs of Python files for structural similarity.

Each file is parsed, documentation is stripped, top-level and class-level
declarations are put into a canonical order, and the resulting token stream
is compared with a normalized edit distance. Renamed comments, reordered
functions and rewritten docstrings do not hide copied code.

Commands:
  • score    score a pairs list and write one score per line
  • compare  compare two files and show their canonical forms
  • cross    compare every pair of files found under paths or globs`,
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Global flags
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	root.AddCommand(NewScoreCmd())
	root.AddCommand(NewCompareCmd())
	root.AddCommand(NewCrossCmd())
	root.AddCommand(NewInitCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err, isVerbose(rootCmd))
		os.Exit(1)
	}
}

// isVerbose reads the global --verbose flag
func isVerbose(cmd *cobra.Command) bool {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}
