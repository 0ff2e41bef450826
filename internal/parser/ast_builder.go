package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder converts tree-sitter parse trees to the statement tree
type ASTBuilder struct {
	source []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{
		source: source,
	}
}

// Build converts a tree-sitter tree to the statement tree rooted at a Module
func (b *ASTBuilder) Build(tree *sitter.Tree) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("root node is nil")
	}
	if rootNode.Type() != "module" {
		return nil, fmt.Errorf("unexpected root node type: %s", rootNode.Type())
	}

	return b.buildModule(rootNode), nil
}

// buildModule builds the module node
func (b *ASTBuilder) buildModule(tsNode *sitter.Node) *Node {
	node := NewNode(NodeModule)
	node.Location = b.getLocation(tsNode)
	node.Body = b.buildStatements(tsNode)
	return node
}

// buildStatements builds every statement child of a module or block
func (b *ASTBuilder) buildStatements(tsNode *sitter.Node) []*Node {
	stmts := []*Node{}

	childCount := int(tsNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if stmt := b.buildStatement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

// buildStatement builds one statement node
func (b *ASTBuilder) buildStatement(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "function_definition":
		return b.buildFunctionDef(tsNode, nil)
	case "class_definition":
		return b.buildClassDef(tsNode, nil)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "import_from_statement":
		return b.buildImportFromStatement(tsNode)
	case "future_import_statement":
		return b.buildFutureImportStatement(tsNode)
	case "expression_statement":
		return b.buildGenericStatement(tsNode, NodeExpr)
	default:
		return b.buildGenericStatement(tsNode, NodeType(tsNode.Type()))
	}
}

// buildFunctionDef builds a function definition node. Decorator tokens, if
// any, are placed before the def header.
func (b *ASTBuilder) buildFunctionDef(tsNode *sitter.Node, decorators []Segment) *Node {
	node := NewNode(NodeFunctionDef)
	node.Location = b.getLocation(tsNode)

	// Check if it's async
	if b.hasChildOfType(tsNode, "async") {
		node.Type = NodeAsyncFunctionDef
	}

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = b.getNodeText(nameNode)
	}

	node.Segments = append(node.Segments, decorators...)
	b.buildScope(tsNode, node)
	return node
}

// buildClassDef builds a class definition node
func (b *ASTBuilder) buildClassDef(tsNode *sitter.Node, decorators []Segment) *Node {
	node := NewNode(NodeClassDef)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = b.getNodeText(nameNode)
	}

	node.Segments = append(node.Segments, decorators...)
	b.buildScope(tsNode, node)
	return node
}

// buildScope splits a definition into header tokens and its body
func (b *ASTBuilder) buildScope(tsNode *sitter.Node, node *Node) {
	childCount := int(tsNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		if tsNode.FieldNameForChild(i) == "body" {
			node.Body = b.buildStatements(child)
			continue
		}
		b.collectSegments(child, node)
	}
}

// buildDecoratedDefinition builds a decorated function or class
func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node) *Node {
	holder := NewNode("decorators")
	var definition *sitter.Node

	childCount := int(tsNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "function_definition", "class_definition":
			definition = child
		default:
			b.collectSegments(child, holder)
		}
	}

	if definition == nil {
		return b.buildGenericStatement(tsNode, NodeType(tsNode.Type()))
	}

	var node *Node
	if definition.Type() == "class_definition" {
		node = b.buildClassDef(definition, holder.Segments)
	} else {
		node = b.buildFunctionDef(definition, holder.Segments)
	}
	node.Location = b.getLocation(tsNode)
	return node
}

// buildImportStatement builds an import statement node. Module holds the
// first imported dotted name.
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := b.buildGenericStatement(tsNode, NodeImport)

	childCount := int(tsNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil || tsNode.FieldNameForChild(i) != "name" {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			node.Module = b.dottedName(child)
		case "aliased_import":
			if nameChild := b.getChildByFieldName(child, "name"); nameChild != nil {
				node.Module = b.dottedName(nameChild)
			}
		}
		if node.Module != "" {
			break
		}
	}

	return node
}

// buildImportFromStatement builds an import from statement node. Module is
// empty for "from . import x".
func (b *ASTBuilder) buildImportFromStatement(tsNode *sitter.Node) *Node {
	node := b.buildGenericStatement(tsNode, NodeImportFrom)

	moduleNode := b.getChildByFieldName(tsNode, "module_name")
	if moduleNode == nil {
		return node
	}

	if moduleNode.Type() == "relative_import" {
		for i := 0; i < int(moduleNode.ChildCount()); i++ {
			child := moduleNode.Child(i)
			if child != nil && child.Type() == "dotted_name" {
				node.Module = b.dottedName(child)
			}
		}
	} else {
		node.Module = b.dottedName(moduleNode)
	}

	return node
}

// buildFutureImportStatement builds "from __future__ import x", which
// tree-sitter models separately.
func (b *ASTBuilder) buildFutureImportStatement(tsNode *sitter.Node) *Node {
	node := b.buildGenericStatement(tsNode, NodeImportFrom)
	node.Module = "__future__"
	return node
}

// buildGenericStatement builds a statement that keeps all of its tokens and
// nested blocks
func (b *ASTBuilder) buildGenericStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)
	b.collectSegments(tsNode, node)
	return node
}

// collectSegments appends the tokens of tsNode to node in source order.
// Blocks become nested statement lists; literals are kept whole.
func (b *ASTBuilder) collectSegments(tsNode *sitter.Node, node *Node) {
	if b.isTrivia(tsNode) {
		return
	}

	switch tsNode.Type() {
	case "block":
		node.AddBlock(b.buildStatements(tsNode))
		return
	case "string":
		node.AddToken(TokenString, b.getNodeText(tsNode))
		return
	case "integer":
		node.AddToken(TokenInteger, b.getNodeText(tsNode))
		return
	case "float":
		node.AddToken(TokenFloat, b.getNodeText(tsNode))
		return
	case "identifier":
		node.AddToken(TokenIdentifier, b.getNodeText(tsNode))
		return
	}

	childCount := int(tsNode.ChildCount())
	if childCount == 0 {
		if text := b.getNodeText(tsNode); text != "" {
			node.AddToken(TokenPlain, text)
		}
		return
	}

	for i := 0; i < childCount; i++ {
		if child := tsNode.Child(i); child != nil {
			b.collectSegments(child, node)
		}
	}
}

// dottedName returns a dotted name without interior whitespace
func (b *ASTBuilder) dottedName(tsNode *sitter.Node) string {
	return strings.Join(strings.Fields(b.getNodeText(tsNode)), "")
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	startPoint := tsNode.StartPoint()
	endPoint := tsNode.EndPoint()

	return Location{
		StartLine: pointLine(startPoint),
		StartCol:  pointColumn(startPoint),
		EndLine:   pointLine(endPoint),
		EndCol:    pointColumn(endPoint),
	}
}

// getNodeText gets the text content of a node
func (b *ASTBuilder) getNodeText(tsNode *sitter.Node) string {
	return tsNode.Content(b.source)
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	return tsNode.ChildByFieldName(fieldName)
}

// hasChildOfType checks if a node has a child of a specific type
func (b *ASTBuilder) hasChildOfType(tsNode *sitter.Node, childType string) bool {
	childCount := int(tsNode.ChildCount())
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == childType {
			return true
		}
	}
	return false
}

// isTrivia checks if a node is trivia (comments, line continuations)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" || nodeType == "line_continuation"
}

// pointLine converts a tree-sitter row to a 1-based line number
func pointLine(p sitter.Point) int {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return 0
	}
	return row + 1
}

// pointColumn converts a tree-sitter column to int
func pointColumn(p sitter.Point) int {
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		return 0
	}
	return col
}
