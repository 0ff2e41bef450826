package parser

import (
	"fmt"
	"strings"
)

// NodeType represents the type of a statement node
type NodeType string

// Statement node types the normalizer distinguishes. Every other statement
// keeps its tree-sitter type (e.g. "if_statement", "assignment").
const (
	NodeModule           NodeType = "Module"
	NodeClassDef         NodeType = "ClassDef"
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeImport           NodeType = "Import"
	NodeImportFrom       NodeType = "ImportFrom"
	NodeExpr             NodeType = "Expr"
)

// TokenKind classifies a source token for rendering
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenIdentifier
	TokenString
	TokenInteger
	TokenFloat
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Segment is one element of a statement in source order: either a token or
// a nested block of statements (the suite of an if/for/while/try/with/match
// clause). Exactly one of Text and Block is meaningful, as told by IsBlock.
type Segment struct {
	Kind    TokenKind
	Text    string
	Block   []*Node
	IsBlock bool
}

// Token creates a token segment
func Token(kind TokenKind, text string) Segment {
	return Segment{Kind: kind, Text: text}
}

// Block creates a nested block segment
func Block(stmts []*Node) Segment {
	return Segment{Block: stmts, IsBlock: true}
}

// Node is a statement of the statement tree.
//
// Declaration scopes (Module, ClassDef, FunctionDef, AsyncFunctionDef) keep
// their header tokens (decorators included) in Segments and their suite in
// Body. Other statements keep all tokens and nested blocks in Segments.
type Node struct {
	Type     NodeType
	Name     string // class or function name
	Module   string // first imported module for Import, source module for ImportFrom
	Segments []Segment
	Body     []*Node
	Location Location
}

// NewNode creates a new statement node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Segments: []Segment{},
		Body:     []*Node{},
	}
}

// AddToBody adds a statement to the body
func (n *Node) AddToBody(node *Node) {
	if node != nil {
		n.Body = append(n.Body, node)
	}
}

// AddToken appends a token segment
func (n *Node) AddToken(kind TokenKind, text string) {
	n.Segments = append(n.Segments, Token(kind, text))
}

// AddBlock appends a nested block segment
func (n *Node) AddBlock(stmts []*Node) {
	n.Segments = append(n.Segments, Block(stmts))
}

// IsScope reports whether the node is a declaration scope whose body the
// normalizer canonicalizes.
func (n *Node) IsScope() bool {
	switch n.Type {
	case NodeModule, NodeClassDef, NodeFunctionDef, NodeAsyncFunctionDef:
		return true
	default:
		return false
	}
}

// Children returns the direct child statements: the body of a scope followed
// by the statements of nested blocks in source order.
func (n *Node) Children() []*Node {
	children := make([]*Node, 0, len(n.Body))
	for _, seg := range n.Segments {
		if seg.IsBlock {
			children = append(children, seg.Block...)
		}
	}
	children = append(children, n.Body...)
	return children
}

// Tokens returns the text of the token segments of this statement only,
// without descending into blocks or the body.
func (n *Node) Tokens() []string {
	tokens := make([]string, 0, len(n.Segments))
	for _, seg := range n.Segments {
		if !seg.IsBlock {
			tokens = append(tokens, seg.Text)
		}
	}
	return tokens
}

// String returns a string representation of the node
func (n *Node) String() string {
	switch {
	case n.Name != "":
		return fmt.Sprintf("%s(%s)", n.Type, n.Name)
	case n.Module != "":
		return fmt.Sprintf("%s(%s)", n.Type, n.Module)
	case n.Type == NodeModule:
		return string(n.Type)
	default:
		return fmt.Sprintf("%s(%s)", n.Type, strings.Join(n.Tokens(), " "))
	}
}

// Copy creates a deep copy of the node
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}

	copied := &Node{
		Type:     n.Type,
		Name:     n.Name,
		Module:   n.Module,
		Location: n.Location,
		Segments: make([]Segment, len(n.Segments)),
		Body:     copyStatements(n.Body),
	}

	for i, seg := range n.Segments {
		if seg.IsBlock {
			seg.Block = copyStatements(seg.Block)
		}
		copied.Segments[i] = seg
	}

	return copied
}

// Equal reports whether two trees have the same structure and tokens.
// Locations are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Type != other.Type || n.Name != other.Name || n.Module != other.Module {
		return false
	}
	if len(n.Segments) != len(other.Segments) || len(n.Body) != len(other.Body) {
		return false
	}
	for i, seg := range n.Segments {
		o := other.Segments[i]
		if seg.IsBlock != o.IsBlock || seg.Kind != o.Kind || seg.Text != o.Text {
			return false
		}
		if seg.IsBlock && !statementsEqual(seg.Block, o.Block) {
			return false
		}
	}
	return statementsEqual(n.Body, other.Body)
}

func copyStatements(stmts []*Node) []*Node {
	copied := make([]*Node, 0, len(stmts))
	for _, stmt := range stmts {
		if stmt != nil {
			copied = append(copied, stmt.Copy())
		}
	}
	return copied
}

func statementsEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
