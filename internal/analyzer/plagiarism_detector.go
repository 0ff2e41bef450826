package analyzer

import (
	"context"
	"fmt"
	"sync"

	"github.com/ludo-technologies/pyplag/internal/parser"
)

// CanonicalForm is the result of running one source through the pipeline
type CanonicalForm struct {
	// Text is the lowercase alphanumeric stream used for scoring
	Text string
	// Rendered is the normalized tree printed as source-like text
	Rendered string
	// Tree is the normalized statement tree
	Tree *parser.Node
}

// PlagiarismDetector runs the repair, parse, normalize and serialize stages
// and scores canonical texts. It is safe for concurrent use; each call
// borrows its own tree-sitter parser.
type PlagiarismDetector struct {
	preprocessor *parser.Preprocessor
	normalizer   *Normalizer
	serializer   *CanonicalSerializer
	parsers      sync.Pool
}

// NewPlagiarismDetector creates a detector with the default repair rules
func NewPlagiarismDetector() *PlagiarismDetector {
	return NewPlagiarismDetectorWithRules(parser.DefaultRepairRules()...)
}

// NewPlagiarismDetectorWithRules creates a detector over a custom repair table
func NewPlagiarismDetectorWithRules(rules ...parser.RepairRule) *PlagiarismDetector {
	return &PlagiarismDetector{
		preprocessor: parser.NewPreprocessor(rules...),
		normalizer:   NewNormalizer(),
		serializer:   NewCanonicalSerializer(),
		parsers: sync.Pool{
			New: func() any { return parser.New() },
		},
	}
}

// Analyze returns the canonical form of source
func (d *PlagiarismDetector) Analyze(ctx context.Context, source []byte) (*CanonicalForm, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repaired := d.preprocessor.Preprocess(string(source))

	p := d.parsers.Get().(*parser.Parser)
	result, err := p.Parse(ctx, []byte(repaired))
	d.parsers.Put(p)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	tree := d.normalizer.Normalize(result.AST)
	rendered := d.serializer.Render(tree)

	return &CanonicalForm{
		Text:     d.serializer.Reduce(rendered),
		Rendered: rendered,
		Tree:     tree,
	}, nil
}

// Canonicalize returns the canonical text of source
func (d *PlagiarismDetector) Canonicalize(ctx context.Context, source []byte) (string, error) {
	form, err := d.Analyze(ctx, source)
	if err != nil {
		return "", err
	}
	return form.Text, nil
}

// CompareSources canonicalizes both sources and returns their similarity
func (d *PlagiarismDetector) CompareSources(ctx context.Context, a, b []byte) (float64, error) {
	textA, err := d.Canonicalize(ctx, a)
	if err != nil {
		return 0, err
	}
	textB, err := d.Canonicalize(ctx, b)
	if err != nil {
		return 0, err
	}
	return d.CompareCanonical(ctx, textA, textB)
}

// CompareCanonical scores two canonical texts
func (d *PlagiarismDetector) CompareCanonical(ctx context.Context, a, b string) (float64, error) {
	return Similarity(ctx, a, b)
}

// CompareCanonicalWithPrecision scores two canonical texts rounded to digits
func (d *PlagiarismDetector) CompareCanonicalWithPrecision(ctx context.Context, a, b string, digits int) (float64, error) {
	return SimilarityWithPrecision(ctx, a, b, digits)
}
