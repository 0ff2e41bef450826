// Package parser provides the Python front end of pyplag.
//
// It wraps the tree-sitter Go bindings to parse Python source code and
// converts the concrete syntax tree into a statement tree: declaration
// scopes (module, class, function) own an ordered body, every other
// statement keeps its source tokens and nested blocks. The statement tree is
// what the normalizer reorders and the canonical serializer renders.
//
// The package also hosts the lexical repair stage that runs before parsing.
// Repair is a table of regular-expression rules applied in order, so new
// evasion patterns can be added without touching the parser.
//
// Basic usage:
//
//	source := parser.Preprocess(raw)
//	p := parser.New()
//	result, err := p.Parse(ctx, []byte(source))
//	if err != nil {
//	    // errors.Is(err, parser.ErrSyntax) for invalid input
//	}
//	// result.AST is the *parser.Node of kind NodeModule
package parser
