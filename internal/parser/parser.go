package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned when the source is not valid Python.
var ErrSyntax = errors.New("syntax errors found in source code")

// Parser provides Python code parsing capabilities using tree-sitter.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
	AST        *Node
}

// Parse parses Python source code and builds the statement tree.
// It fails with ErrSyntax when tree-sitter reports error or missing nodes,
// or when the tree holds constructs the grammar accepts but Python 3
// rejects. No partial tree is returned.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		line := firstErrorLine(rootNode)
		if line > 0 {
			return nil, fmt.Errorf("%w (line %d)", ErrSyntax, line)
		}
		return nil, ErrSyntax
	}

	if err := p.checkPython3(rootNode, source); err != nil {
		return nil, err
	}

	ast, err := NewASTBuilder(source).Build(tree)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   rootNode,
		SourceCode: source,
		AST:        ast,
	}, nil
}

// WalkTree traverses the concrete syntax tree and calls the visitor function for each node
func (p *Parser) WalkTree(node *sitter.Node, visitor func(*sitter.Node) error) error {
	if err := visitor(node); err != nil {
		return err
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if err := p.WalkTree(child, visitor); err != nil {
			return err
		}
	}

	return nil
}

// firstErrorLine returns the 1-based line of the first error or missing
// node, or 0 when none can be located.
func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return pointLine(node.StartPoint())
	}
	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if line := firstErrorLine(child); line > 0 {
			return line
		}
	}
	return 0
}
