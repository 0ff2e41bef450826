package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/pyplag/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface. Domain
// error codes decide the category; message patterns are the fallback for
// errors from libraries.
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() *ErrorCategorizerImpl {
	return &ErrorCategorizerImpl{
		codes: map[string]domain.ErrorCategory{
			domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
			domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
			domain.ErrCodeParseError:        domain.ErrorCategoryParse,
			domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
			domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
			domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
			domain.ErrCodeTimeout:           domain.ErrorCategoryTimeout,
		},
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorPatterns lists fallback patterns in match order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"deadline",
			"context canceled",
			"timed out",
		}},
		{domain.ErrorCategoryParse, []string{
			"parse",
			"syntax",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"toml",
			"yaml",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no such file",
			"file not found",
			"cannot access",
			"permission denied",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
		}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := domain.ErrorCategoryUnknown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		category = domain.ErrorCategoryTimeout
	} else if code := domain.ErrorCode(err); code != "" {
		if c, ok := ec.codes[code]; ok {
			category = c
		}
	}

	if category == domain.ErrorCategoryUnknown {
		errMsg := strings.ToLower(err.Error())
		for _, cp := range ec.patterns {
			if containsAnyPattern(errMsg, cp.patterns) {
				category = cp.category
				break
			}
		}
	}

	return &domain.CategorizedError{
		Category: category,
		Message:  ec.getCategoryMessage(category),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that every path in the pairs list exists and is readable",
			"Each non-blank line must be \"<pathA> <pathB>\" separated by one space",
			"Relative paths are resolved from the current directory",
		},
		domain.ErrorCategoryParse: {
			"The file is not valid Python even after keyword repair",
			"Try: python -m py_compile <file> to locate the syntax error",
			"Use --on-error sentinel to score the remaining pairs",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: pyplag init to generate a valid config file",
			"Check for syntax errors in .pyplag.toml or pyproject.toml",
		},
		domain.ErrorCategoryTimeout: {
			"Increase --pair-timeout or set it to 0 to disable the limit",
			"Very long files make the edit distance quadratic in their size",
		},
		domain.ErrorCategoryOutput: {
			"Ensure the output directory exists and is writable",
			"Use --format text|json|yaml|csv|html",
		},
		domain.ErrorCategoryProcessing: {
			"Run with --verbose for per-pair details",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read input files or pairs list",
		domain.ErrorCategoryParse:      "A source file could not be parsed",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Scoring timed out",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while scoring pairs",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
