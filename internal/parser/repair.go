package parser

import "regexp"

// RepairRule is one textual rewrite of the repair stage
type RepairRule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply rewrites every match of the rule in source
func (r RepairRule) Apply(source string) string {
	return r.Pattern.ReplaceAllString(source, r.Replace)
}

// DefaultRepairRules returns the standard repair table in application order.
//
// The first four rules turn disguised docstrings into real ones and drop
// comment and blank lines. The rest rename reserved words used as
// identifiers (`for = 5`, `obj.in`, `x = def`) by appending "p".
func DefaultRepairRules() []RepairRule {
	return []RepairRule{
		{
			Name:    "comment-docstring",
			Pattern: regexp.MustCompile(`(?m)^([ \t]*)#.*"""`),
			Replace: `${1}"""`,
		},
		{
			Name:    "strip-comment-lines",
			Pattern: regexp.MustCompile(`(?m)^[ \t]*#.*`),
			Replace: ``,
		},
		{
			Name:    "strip-blank-lines",
			Pattern: regexp.MustCompile(`(?m)^[ \t]*\n`),
			Replace: ``,
		},
		{
			Name:    "empty-class-body",
			Pattern: regexp.MustCompile(`(?m)^(class .+:\n)([^ \t])`),
			Replace: "${1}    \"\"\"\"\"\"\n${2}",
		},
		{
			Name:    "keyword-before-punct",
			Pattern: regexp.MustCompile(`\b(in|for|is|del|def|return)\b( *[.,=:])`),
			Replace: `${1}p${2}`,
		},
		{
			Name:    "keyword-before-bracket",
			Pattern: regexp.MustCompile(`\b(in|for|is|del|def)\b([()[\]])`),
			Replace: `${1}p${2}`,
		},
		{
			Name:    "def-before-bracket",
			Pattern: regexp.MustCompile(`\b(def)\b( +[()[\]])`),
			Replace: `${1}p${2}`,
		},
		{
			Name:    "return-before-closer",
			Pattern: regexp.MustCompile(`\b(return)\b( *[)\]])`),
			Replace: `${1}p${2}`,
		},
		{
			Name:    "keyword-after-assign",
			Pattern: regexp.MustCompile(`(= *)\b(in|is|for|del|def|return)\b`),
			Replace: `${1}${2}p`,
		},
	}
}

// Preprocessor applies an ordered table of repair rules
type Preprocessor struct {
	rules []RepairRule
}

// NewPreprocessor creates a preprocessor over rules. With no rules it uses
// DefaultRepairRules.
func NewPreprocessor(rules ...RepairRule) *Preprocessor {
	if len(rules) == 0 {
		rules = DefaultRepairRules()
	}
	return &Preprocessor{rules: rules}
}

// Preprocess applies each rule in order
func (p *Preprocessor) Preprocess(source string) string {
	for _, rule := range p.rules {
		source = rule.Apply(source)
	}
	return source
}

var defaultPreprocessor = NewPreprocessor()

// Preprocess repairs source with the default rule table
func Preprocess(source string) string {
	return defaultPreprocessor.Preprocess(source)
}
