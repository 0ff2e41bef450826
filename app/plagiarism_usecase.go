package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/pyplag/domain"
)

// StoreOpener opens the result store at path
type StoreOpener func(path string) (domain.ResultStore, error)

// PlagiarismUseCase orchestrates batch scoring: read pairs, score, report
// and optionally persist
type PlagiarismUseCase struct {
	service      domain.PlagiarismService
	pairReader   domain.PairReader
	formatter    domain.PlagiarismOutputFormatter
	reportWriter domain.ReportWriter
	openStore    StoreOpener
}

// NewPlagiarismUseCase creates a new plagiarism use case
func NewPlagiarismUseCase(
	service domain.PlagiarismService,
	pairReader domain.PairReader,
	formatter domain.PlagiarismOutputFormatter,
	reportWriter domain.ReportWriter,
	openStore StoreOpener,
) *PlagiarismUseCase {
	return &PlagiarismUseCase{
		service:      service,
		pairReader:   pairReader,
		formatter:    formatter,
		reportWriter: reportWriter,
		openStore:    openStore,
	}
}

// ReadPairsFile parses the pairs list at path
func (uc *PlagiarismUseCase) ReadPairsFile(path string) ([]domain.FilePair, error) {
	if uc.pairReader == nil {
		return nil, fmt.Errorf("pair reader is not configured")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	defer file.Close()

	pairs, err := uc.pairReader.ReadPairs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs list %s: %w", path, err)
	}
	return pairs, nil
}

// ExecuteFile reads the pairs list at pairsPath into req and runs Execute
func (uc *PlagiarismUseCase) ExecuteFile(ctx context.Context, pairsPath string, req domain.PlagiarismRequest) (*domain.PlagiarismResponse, error) {
	pairs, err := uc.ReadPairsFile(pairsPath)
	if err != nil {
		return nil, err
	}
	req.Pairs = pairs
	return uc.Execute(ctx, req)
}

// Execute scores every pair of req and writes the report. An output file
// is created or truncated before scoring starts, so a failed batch leaves
// it empty.
func (uc *PlagiarismUseCase) Execute(ctx context.Context, req domain.PlagiarismRequest) (*domain.PlagiarismResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.OutputPath != "" {
		if err := truncateOutput(req.OutputPath); err != nil {
			return nil, err
		}
	}

	response, err := uc.service.Compare(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	if err := uc.writeReport(response, req); err != nil {
		return response, err
	}

	if req.SQLitePath != "" {
		if err := uc.persist(ctx, req.SQLitePath, response); err != nil {
			return response, err
		}
	}

	return response, nil
}

// Compare scores two files directly
func (uc *PlagiarismUseCase) Compare(ctx context.Context, pathA, pathB string) (domain.SimilarityScore, error) {
	score, err := uc.service.Score(ctx, pathA, pathB)
	if err != nil {
		return 0, fmt.Errorf("failed to compare %s and %s: %w", pathA, pathB, err)
	}
	return score, nil
}

// Canonicalize returns the canonical form of one file
func (uc *PlagiarismUseCase) Canonicalize(ctx context.Context, path string) (*domain.CanonicalFile, error) {
	file, err := uc.service.Canonicalize(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize %s: %w", path, err)
	}
	return file, nil
}

func (uc *PlagiarismUseCase) writeReport(response *domain.PlagiarismResponse, req domain.PlagiarismRequest) error {
	if req.OutputPath == "" && req.OutputWriter == nil {
		return domain.NewOutputError("no valid output writer specified", nil)
	}

	return uc.reportWriter.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, req.NoOpen, func(w io.Writer) error {
		return uc.formatter.Write(response, req.OutputFormat, w)
	})
}

// truncateOutput creates path or empties an existing file
func truncateOutput(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", path), err)
	}
	if err := file.Close(); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to close output file: %s", path), err)
	}
	return nil
}

func (uc *PlagiarismUseCase) persist(ctx context.Context, path string, response *domain.PlagiarismResponse) error {
	if uc.openStore == nil {
		return domain.NewOutputError("result store is not configured", nil)
	}

	store, err := uc.openStore(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to open result store %s", path), err)
	}
	defer store.Close()

	if _, err := store.SaveRun(ctx, response); err != nil {
		return domain.NewOutputError("failed to save run", err)
	}
	return nil
}

// PlagiarismUseCaseBuilder provides a builder pattern for creating PlagiarismUseCase
type PlagiarismUseCaseBuilder struct {
	service      domain.PlagiarismService
	pairReader   domain.PairReader
	formatter    domain.PlagiarismOutputFormatter
	reportWriter domain.ReportWriter
	openStore    StoreOpener
}

// NewPlagiarismUseCaseBuilder creates a new builder
func NewPlagiarismUseCaseBuilder() *PlagiarismUseCaseBuilder {
	return &PlagiarismUseCaseBuilder{}
}

// WithService sets the plagiarism service
func (b *PlagiarismUseCaseBuilder) WithService(service domain.PlagiarismService) *PlagiarismUseCaseBuilder {
	b.service = service
	return b
}

// WithPairReader sets the pairs list reader
func (b *PlagiarismUseCaseBuilder) WithPairReader(pairReader domain.PairReader) *PlagiarismUseCaseBuilder {
	b.pairReader = pairReader
	return b
}

// WithFormatter sets the output formatter
func (b *PlagiarismUseCaseBuilder) WithFormatter(formatter domain.PlagiarismOutputFormatter) *PlagiarismUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithReportWriter sets the report writer
func (b *PlagiarismUseCaseBuilder) WithReportWriter(reportWriter domain.ReportWriter) *PlagiarismUseCaseBuilder {
	b.reportWriter = reportWriter
	return b
}

// WithStoreOpener sets how result stores are opened
func (b *PlagiarismUseCaseBuilder) WithStoreOpener(openStore StoreOpener) *PlagiarismUseCaseBuilder {
	b.openStore = openStore
	return b
}

// Build creates the PlagiarismUseCase with the configured dependencies
func (b *PlagiarismUseCaseBuilder) Build() (*PlagiarismUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("plagiarism service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.reportWriter == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	// pairReader and openStore are optional; their operations fail without them
	return NewPlagiarismUseCase(
		b.service,
		b.pairReader,
		b.formatter,
		b.reportWriter,
		b.openStore,
	), nil
}
