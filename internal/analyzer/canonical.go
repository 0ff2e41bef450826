package analyzer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/ludo-technologies/pyplag/internal/parser"
)

const indentUnit = "    "

// CanonicalSerializer renders normalized statement trees to text
type CanonicalSerializer struct{}

// NewCanonicalSerializer creates a new serializer
func NewCanonicalSerializer() *CanonicalSerializer {
	return &CanonicalSerializer{}
}

// Render renders the tree as source-like text: tokens separated by spaces,
// one statement per line, nested suites indented. Literals are printed by
// value.
func (s *CanonicalSerializer) Render(root *parser.Node) string {
	if root == nil {
		return ""
	}

	var sb strings.Builder
	if root.Type == parser.NodeModule {
		s.renderStatements(&sb, root.Body, 0)
	} else {
		s.renderStatement(&sb, root, 0)
	}
	return sb.String()
}

// Canonicalize renders the tree and reduces it to lowercase ASCII letters
// and digits
func (s *CanonicalSerializer) Canonicalize(root *parser.Node) string {
	return s.Reduce(s.Render(root))
}

// Reduce lowercases text and drops everything but ASCII letters and digits
func (s *CanonicalSerializer) Reduce(text string) string {
	// A Caser is stateful and must not be shared between goroutines.
	lowered := cases.Lower(language.Und).String(text)

	var sb strings.Builder
	sb.Grow(len(lowered))
	for i := 0; i < len(lowered); i++ {
		c := lowered[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func (s *CanonicalSerializer) renderStatements(sb *strings.Builder, stmts []*parser.Node, depth int) {
	for _, stmt := range stmts {
		s.renderStatement(sb, stmt, depth)
	}
}

// renderStatement writes one statement, its nested blocks and its body
func (s *CanonicalSerializer) renderStatement(sb *strings.Builder, stmt *parser.Node, depth int) {
	line := make([]string, 0, len(stmt.Segments))
	flush := func() {
		if len(line) == 0 {
			return
		}
		sb.WriteString(strings.Repeat(indentUnit, depth))
		sb.WriteString(strings.Join(line, " "))
		sb.WriteByte('\n')
		line = line[:0]
	}

	segments := stmt.Segments
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		switch {
		case seg.IsBlock:
			flush()
			s.renderStatements(sb, seg.Block, depth+1)
		case seg.Kind == parser.TokenString:
			run := []string{seg.Text}
			for i+1 < len(segments) && !segments[i+1].IsBlock && segments[i+1].Kind == parser.TokenString {
				i++
				run = append(run, segments[i].Text)
			}
			line = append(line, renderStrings(run))
		default:
			line = append(line, renderToken(seg))
		}
	}
	flush()

	s.renderStatements(sb, stmt.Body, depth+1)
}

// renderToken renders a single non-string token
func renderToken(seg parser.Segment) string {
	switch seg.Kind {
	case parser.TokenIdentifier:
		return norm.NFKC.String(seg.Text)
	case parser.TokenInteger:
		return renderInteger(seg.Text)
	case parser.TokenFloat:
		return renderFloat(seg.Text)
	default:
		return seg.Text
	}
}
