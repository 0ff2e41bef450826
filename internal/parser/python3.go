package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// pythonKeywords are the hard keywords of Python 3
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// checkPython3 rejects constructs the tree-sitter grammar accepts for
// compatibility but Python 3 does not
func (p *Parser) checkPython3(root *sitter.Node, source []byte) error {
	return p.WalkTree(root, func(node *sitter.Node) error {
		if reason := python3Violation(node, source); reason != "" {
			return fmt.Errorf("%w (line %d): %s", ErrSyntax, pointLine(node.StartPoint()), reason)
		}
		return nil
	})
}

func python3Violation(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "print_statement":
		return "print statement"
	case "exec_statement":
		return "exec statement"
	case "integer":
		return integerViolation(node.Content(source))
	case "named_expression":
		if parent := node.Parent(); parent != nil && parent.Type() == "expression_statement" {
			return "unparenthesized assignment expression"
		}
	case "attribute":
		if node.ChildCount() > 0 {
			name := node.Child(int(node.ChildCount()) - 1).Content(source)
			if pythonKeywords[name] {
				return fmt.Sprintf("keyword %q used as attribute name", name)
			}
		}
	case "comparison_operator":
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "<>" {
				return "<> operator"
			}
		}
	case "string":
		return bytesViolation(node.Content(source))
	}
	return ""
}

// integerViolation rejects long suffixes and leading-zero decimals
func integerViolation(text string) string {
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "l") {
		return "long integer suffix"
	}
	if strings.HasSuffix(lower, "j") || len(lower) < 2 || lower[0] != '0' {
		return ""
	}
	digits := strings.ReplaceAll(lower, "_", "")
	for _, c := range digits {
		if c < '0' || c > '9' {
			return ""
		}
	}
	if strings.Trim(digits, "0") != "" {
		return "leading zeros in decimal integer literal"
	}
	return ""
}

// bytesViolation rejects non-ASCII characters inside bytes literals
func bytesViolation(text string) string {
	quote := strings.IndexAny(text, `'"`)
	if quote < 0 || !strings.ContainsAny(text[:quote], "bB") {
		return ""
	}
	for i := quote; i < len(text); i++ {
		if text[i] >= 0x80 {
			return "bytes can only contain ASCII literal characters"
		}
	}
	return ""
}
