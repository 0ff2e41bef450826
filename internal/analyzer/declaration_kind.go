package analyzer

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ludo-technologies/pyplag/internal/parser"
)

// DeclarationKind groups sibling statements for canonical ordering.
// The constant order is the bucket order of a normalized body.
type DeclarationKind int

const (
	KindImport DeclarationKind = iota
	KindImportFrom
	KindClassDef
	KindAsyncFunctionDef
	KindFunctionDef
	KindOther
)

// declarationKindCount is the number of buckets
const declarationKindCount = int(KindOther) + 1

// String returns the kind name
func (k DeclarationKind) String() string {
	switch k {
	case KindImport:
		return "Import"
	case KindImportFrom:
		return "ImportFrom"
	case KindClassDef:
		return "ClassDef"
	case KindAsyncFunctionDef:
		return "AsyncFunctionDef"
	case KindFunctionDef:
		return "FunctionDef"
	default:
		return "Other"
	}
}

// KindOf classifies a statement
func KindOf(node *parser.Node) DeclarationKind {
	switch node.Type {
	case parser.NodeImport:
		return KindImport
	case parser.NodeImportFrom:
		return KindImportFrom
	case parser.NodeClassDef:
		return KindClassDef
	case parser.NodeAsyncFunctionDef:
		return KindAsyncFunctionDef
	case parser.NodeFunctionDef:
		return KindFunctionDef
	default:
		return KindOther
	}
}

// sortKeyFuncs maps each reorderable kind to its sort key. KindOther has no
// entry and is never reordered.
var sortKeyFuncs = map[DeclarationKind]func(*parser.Node) string{
	KindImport:           moduleKey,
	KindImportFrom:       moduleKey,
	KindClassDef:         nameKey,
	KindAsyncFunctionDef: nameKey,
	KindFunctionDef:      nameKey,
}

// SortKey returns the ordering key of node within its bucket and whether
// the kind is reordered at all.
func (k DeclarationKind) SortKey(node *parser.Node) (string, bool) {
	fn, ok := sortKeyFuncs[k]
	if !ok {
		return "", false
	}
	return fn(node), true
}

// Reorderable reports whether statements of this kind are sorted
func (k DeclarationKind) Reorderable() bool {
	_, ok := sortKeyFuncs[k]
	return ok
}

func moduleKey(node *parser.Node) string {
	return foldKey(node.Module)
}

func nameKey(node *parser.Node) string {
	return foldKey(node.Name)
}

// foldKey removes underscores and case folds s
func foldKey(s string) string {
	return cases.Fold().String(strings.ReplaceAll(s, "_", ""))
}
