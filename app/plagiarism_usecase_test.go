package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlagiarismService struct {
	mock.Mock
}

func (m *mockPlagiarismService) Score(ctx context.Context, pathA, pathB string) (domain.SimilarityScore, error) {
	args := m.Called(ctx, pathA, pathB)
	return args.Get(0).(domain.SimilarityScore), args.Error(1)
}

func (m *mockPlagiarismService) Compare(ctx context.Context, req *domain.PlagiarismRequest) (*domain.PlagiarismResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlagiarismResponse), args.Error(1)
}

func (m *mockPlagiarismService) Canonicalize(ctx context.Context, path string) (*domain.CanonicalFile, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CanonicalFile), args.Error(1)
}

type mockPairReader struct {
	mock.Mock
}

func (m *mockPairReader) ReadPairs(reader io.Reader) ([]domain.FilePair, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(string(data))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FilePair), args.Error(1)
}

type mockFormatter struct {
	mock.Mock
}

func (m *mockFormatter) Write(response *domain.PlagiarismResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	if args.Error(0) == nil {
		_, _ = io.WriteString(writer, "formatted\n")
	}
	return args.Error(0)
}

// passThroughWriter hands the provided writer to writeFunc
type passThroughWriter struct{}

func (passThroughWriter) Write(writer io.Writer, _ string, _ domain.OutputFormat, _ bool, writeFunc func(io.Writer) error) error {
	return writeFunc(writer)
}

type mockResultStore struct {
	mock.Mock
}

func (m *mockResultStore) SaveRun(ctx context.Context, response *domain.PlagiarismResponse) (int64, error) {
	args := m.Called(ctx, response)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockResultStore) Close() error {
	return m.Called().Error(0)
}

func testRequest(out io.Writer) domain.PlagiarismRequest {
	req := *domain.DefaultPlagiarismRequest()
	req.Pairs = []domain.FilePair{{PathA: "a.py", PathB: "b.py"}}
	req.OutputWriter = out
	req.ShowProgress = false
	return req
}

func buildUseCase(t *testing.T, svc *mockPlagiarismService, formatter *mockFormatter, opener StoreOpener) *PlagiarismUseCase {
	t.Helper()
	uc, err := NewPlagiarismUseCaseBuilder().
		WithService(svc).
		WithPairReader(&mockPairReader{}).
		WithFormatter(formatter).
		WithReportWriter(passThroughWriter{}).
		WithStoreOpener(opener).
		Build()
	require.NoError(t, err)
	return uc
}

func TestPlagiarismUseCase_Execute(t *testing.T) {
	response := &domain.PlagiarismResponse{Results: []*domain.PairResult{{Score: 0.9}}}

	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.AnythingOfType("*domain.PlagiarismRequest")).Return(response, nil)
	formatter := &mockFormatter{}
	formatter.On("Write", response, domain.OutputFormatText, mock.Anything).Return(nil)

	var out bytes.Buffer
	got, err := buildUseCase(t, svc, formatter, nil).Execute(context.Background(), testRequest(&out))
	require.NoError(t, err)
	assert.Same(t, response, got)
	assert.Equal(t, "formatted\n", out.String())

	svc.AssertExpectations(t)
	formatter.AssertExpectations(t)
}

func TestPlagiarismUseCase_ExecuteScoringFailureWritesNothing(t *testing.T) {
	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.Anything).Return(nil, domain.NewParseError("b.py", errors.New("syntax")))
	formatter := &mockFormatter{}

	var out bytes.Buffer
	_, err := buildUseCase(t, svc, formatter, nil).Execute(context.Background(), testRequest(&out))
	require.Error(t, err)
	assert.True(t, domain.IsParseError(err))
	assert.Empty(t, out.String())
	formatter.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlagiarismUseCase_ExecuteFailureTruncatesOutputFile(t *testing.T) {
	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.Anything).Return(nil, domain.NewParseError("b.py", errors.New("syntax")))
	formatter := &mockFormatter{}

	outputPath := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(outputPath, []byte("0.999\n0.888\n"), 0644))

	req := testRequest(nil)
	req.OutputPath = outputPath

	_, err := buildUseCase(t, svc, formatter, nil).Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, domain.IsParseError(err))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Empty(t, string(data), "scores of an earlier run must not survive an aborted batch")
	formatter.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlagiarismUseCase_ExecuteOutputFileNotCreatable(t *testing.T) {
	svc := &mockPlagiarismService{}
	formatter := &mockFormatter{}

	req := testRequest(nil)
	req.OutputPath = filepath.Join(t.TempDir(), "missing", "scores.txt")

	_, err := buildUseCase(t, svc, formatter, nil).Execute(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
	svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
}

func TestPlagiarismUseCase_ExecuteValidation(t *testing.T) {
	svc := &mockPlagiarismService{}
	req := testRequest(io.Discard)
	req.Pairs = nil

	_, err := buildUseCase(t, svc, &mockFormatter{}, nil).Execute(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	svc.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything)
}

func TestPlagiarismUseCase_ExecutePersists(t *testing.T) {
	response := &domain.PlagiarismResponse{}
	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.Anything).Return(response, nil)
	formatter := &mockFormatter{}
	formatter.On("Write", response, domain.OutputFormatText, mock.Anything).Return(nil)

	store := &mockResultStore{}
	store.On("SaveRun", mock.Anything, response).Return(int64(7), nil)
	store.On("Close").Return(nil)

	var openedPath string
	opener := func(path string) (domain.ResultStore, error) {
		openedPath = path
		return store, nil
	}

	req := testRequest(io.Discard)
	req.SQLitePath = "runs.db"
	_, err := buildUseCase(t, svc, formatter, opener).Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "runs.db", openedPath)
	store.AssertExpectations(t)
}

func TestPlagiarismUseCase_ExecuteStoreFailure(t *testing.T) {
	response := &domain.PlagiarismResponse{}
	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.Anything).Return(response, nil)
	formatter := &mockFormatter{}
	formatter.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	opener := func(string) (domain.ResultStore, error) { return nil, errors.New("read-only filesystem") }

	req := testRequest(io.Discard)
	req.SQLitePath = "runs.db"
	got, err := buildUseCase(t, svc, formatter, opener).Execute(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
	assert.Same(t, response, got, "the report was already written")
}

func TestPlagiarismUseCase_ExecuteFile(t *testing.T) {
	pairsPath := filepath.Join(t.TempDir(), "pairs.txt")
	require.NoError(t, os.WriteFile(pairsPath, []byte("x.py y.py\n"), 0644))

	pairs := []domain.FilePair{{Index: 0, Line: 1, PathA: "x.py", PathB: "y.py"}}
	reader := &mockPairReader{}
	reader.On("ReadPairs", "x.py y.py\n").Return(pairs, nil)

	response := &domain.PlagiarismResponse{}
	svc := &mockPlagiarismService{}
	svc.On("Compare", mock.Anything, mock.MatchedBy(func(req *domain.PlagiarismRequest) bool {
		return len(req.Pairs) == 1 && req.Pairs[0].PathA == "x.py"
	})).Return(response, nil)
	formatter := &mockFormatter{}
	formatter.On("Write", response, domain.OutputFormatText, mock.Anything).Return(nil)

	uc, err := NewPlagiarismUseCaseBuilder().
		WithService(svc).
		WithPairReader(reader).
		WithFormatter(formatter).
		WithReportWriter(passThroughWriter{}).
		Build()
	require.NoError(t, err)

	req := testRequest(io.Discard)
	req.Pairs = nil
	_, err = uc.ExecuteFile(context.Background(), pairsPath, req)
	require.NoError(t, err)
	reader.AssertExpectations(t)
	svc.AssertExpectations(t)

	_, err = uc.ExecuteFile(context.Background(), pairsPath+".missing", req)
	assert.True(t, domain.IsFileAccessError(err))
}

func TestPlagiarismUseCase_CompareAndCanonicalize(t *testing.T) {
	svc := &mockPlagiarismService{}
	svc.On("Score", mock.Anything, "a.py", "b.py").Return(domain.SimilarityScore(0.818), nil)
	svc.On("Score", mock.Anything, "a.py", "gone.py").Return(domain.SimilarityScore(0), domain.NewFileNotFoundError("gone.py", nil))
	svc.On("Canonicalize", mock.Anything, "a.py").Return(&domain.CanonicalFile{Path: "a.py", Text: "deffreturn1"}, nil)

	uc := buildUseCase(t, svc, &mockFormatter{}, nil)
	ctx := context.Background()

	score, err := uc.Compare(ctx, "a.py", "b.py")
	require.NoError(t, err)
	assert.Equal(t, domain.SimilarityScore(0.818), score)

	_, err = uc.Compare(ctx, "a.py", "gone.py")
	require.Error(t, err)
	assert.True(t, domain.IsFileAccessError(err))
	assert.True(t, strings.Contains(err.Error(), "gone.py"))

	file, err := uc.Canonicalize(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, "deffreturn1", file.Text)
}

func TestPlagiarismUseCaseBuilder_RequiresDependencies(t *testing.T) {
	_, err := NewPlagiarismUseCaseBuilder().Build()
	assert.Error(t, err)

	_, err = NewPlagiarismUseCaseBuilder().WithService(&mockPlagiarismService{}).Build()
	assert.Error(t, err)

	_, err = NewPlagiarismUseCaseBuilder().
		WithService(&mockPlagiarismService{}).
		WithFormatter(&mockFormatter{}).
		Build()
	assert.Error(t, err)
}
