package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ludo-technologies/pyplag/service"
)

// printError writes a categorized error with recovery suggestions
func printError(w io.Writer, err error, verbose bool) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(w, "%s %s\n", red.Sprint("Error:"), categorized.Message)
	fmt.Fprintf(w, "  %v\n", err)

	if !verbose {
		return
	}

	fmt.Fprintf(w, "\nSuggestions (%s):\n", categorized.Category)
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", suggestion)
	}
}
