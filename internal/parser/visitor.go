package parser

import (
	"fmt"
	"io"
	"strings"
)

// Visitor defines the interface for visiting statement nodes
type Visitor interface {
	// Visit is called for each statement in the tree
	// Return false to skip the statement's children
	Visit(node *Node) bool
}

// Accept implements the visitor pattern for statement nodes
func (n *Node) Accept(visitor Visitor) {
	if n == nil {
		return
	}

	if !visitor.Visit(n) {
		return
	}

	for _, child := range n.Children() {
		child.Accept(visitor)
	}
}

// FuncVisitor is a visitor that uses a function
type FuncVisitor struct {
	fn func(*Node) bool
}

// NewFuncVisitor creates a visitor from a function
func NewFuncVisitor(fn func(*Node) bool) *FuncVisitor {
	return &FuncVisitor{fn: fn}
}

// Visit implements the Visitor interface
func (v *FuncVisitor) Visit(node *Node) bool {
	return v.fn(node)
}

// PrinterVisitor prints the statement tree, one statement per line
type PrinterVisitor struct {
	writer io.Writer
	indent int
	prefix string
}

// NewPrinterVisitor creates a visitor that prints the tree
func NewPrinterVisitor(w io.Writer) *PrinterVisitor {
	return &PrinterVisitor{
		writer: w,
		prefix: "  ",
	}
}

// Visit implements the Visitor interface
func (v *PrinterVisitor) Visit(node *Node) bool {
	fmt.Fprint(v.writer, strings.Repeat(v.prefix, v.indent))

	switch {
	case node.Name != "":
		fmt.Fprintf(v.writer, "%s: %s\n", node.Type, node.Name)
	case node.Module != "":
		fmt.Fprintf(v.writer, "%s: %s\n", node.Type, node.Module)
	default:
		fmt.Fprintf(v.writer, "%s\n", node.Type)
	}

	v.indent++
	for _, child := range node.Children() {
		child.Accept(v)
	}
	v.indent--

	return false // children handled above
}

// StatisticsVisitor collects statement counts
type StatisticsVisitor struct {
	NodeCounts map[NodeType]int
	TotalNodes int
	MaxDepth   int
	curDepth   int
}

// NewStatisticsVisitor creates a visitor that collects statistics
func NewStatisticsVisitor() *StatisticsVisitor {
	return &StatisticsVisitor{
		NodeCounts: make(map[NodeType]int),
	}
}

// Visit implements the Visitor interface
func (v *StatisticsVisitor) Visit(node *Node) bool {
	v.TotalNodes++
	v.NodeCounts[node.Type]++

	v.curDepth++
	if v.curDepth > v.MaxDepth {
		v.MaxDepth = v.curDepth
	}

	for _, child := range node.Children() {
		child.Accept(v)
	}

	v.curDepth--
	return false
}
