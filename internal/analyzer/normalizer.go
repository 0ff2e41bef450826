package analyzer

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/pyplag/internal/parser"
)

// Normalizer canonicalizes statement trees so that declaration order and
// docstrings do not affect comparison.
//
// Every declaration scope (module, class, function) loses its docstring
// statements and has its body regrouped by DeclarationKind. Blocks of other
// compound statements are normalized recursively but keep their order.
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the canonical form of root. The input tree is not
// modified.
func (n *Normalizer) Normalize(root *parser.Node) *parser.Node {
	if root == nil {
		return nil
	}
	return n.normalizeNode(root)
}

// normalizeNode builds the canonical copy of one statement
func (n *Normalizer) normalizeNode(node *parser.Node) *parser.Node {
	result := &parser.Node{
		Type:     node.Type,
		Name:     node.Name,
		Module:   node.Module,
		Location: node.Location,
		Segments: make([]parser.Segment, 0, len(node.Segments)),
	}

	for _, seg := range node.Segments {
		if seg.IsBlock {
			seg = parser.Block(n.normalizeStatements(seg.Block))
		}
		result.Segments = append(result.Segments, seg)
	}

	body := n.normalizeStatements(node.Body)
	if node.IsScope() {
		body = reorderDeclarations(stripDocstrings(body))
	}
	result.Body = body

	return result
}

func (n *Normalizer) normalizeStatements(stmts []*parser.Node) []*parser.Node {
	result := make([]*parser.Node, 0, len(stmts))
	for _, stmt := range stmts {
		if stmt != nil {
			result = append(result, n.normalizeNode(stmt))
		}
	}
	return result
}

// stripDocstrings drops every docstring statement from a scope body
func stripDocstrings(body []*parser.Node) []*parser.Node {
	result := make([]*parser.Node, 0, len(body))
	for _, stmt := range body {
		if !IsDocstring(stmt) {
			result = append(result, stmt)
		}
	}
	return result
}

// reorderDeclarations groups a body into kind buckets, sorts each
// reorderable bucket by its key and concatenates them in bucket order
func reorderDeclarations(body []*parser.Node) []*parser.Node {
	var buckets [declarationKindCount][]*parser.Node
	for _, stmt := range body {
		kind := KindOf(stmt)
		buckets[kind] = append(buckets[kind], stmt)
	}

	result := make([]*parser.Node, 0, len(body))
	for i := range buckets {
		kind := DeclarationKind(i)
		bucket := buckets[i]
		if kind.Reorderable() {
			sortBucket(kind, bucket)
		}
		result = append(result, bucket...)
	}
	return result
}

func sortBucket(kind DeclarationKind, bucket []*parser.Node) {
	keys := make(map[*parser.Node]string, len(bucket))
	for _, stmt := range bucket {
		keys[stmt], _ = kind.SortKey(stmt)
	}
	sort.SliceStable(bucket, func(i, j int) bool {
		return keys[bucket[i]] < keys[bucket[j]]
	})
}

// IsDocstring reports whether stmt is an expression statement consisting of
// a plain string literal (or an implicit concatenation of them). f-strings
// and bytes are not docstrings.
func IsDocstring(stmt *parser.Node) bool {
	if stmt == nil || stmt.Type != parser.NodeExpr || len(stmt.Segments) == 0 {
		return false
	}

	hasString := false
	for _, seg := range stmt.Segments {
		switch {
		case seg.IsBlock:
			return false
		case seg.Kind == parser.TokenString:
			prefix := strings.ToLower(stringPrefix(seg.Text))
			if strings.ContainsAny(prefix, "fb") {
				return false
			}
			hasString = true
		case seg.Text == "(" || seg.Text == ")":
		default:
			return false
		}
	}
	return hasString
}
