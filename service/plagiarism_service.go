package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/analyzer"
	"github.com/ludo-technologies/pyplag/internal/version"
)

// PlagiarismServiceImpl implements the domain.PlagiarismService interface
type PlagiarismServiceImpl struct {
	detector *analyzer.PlagiarismDetector
	reader   *FileReaderImpl
	progress domain.ProgressManager
}

// NewPlagiarismService creates a new plagiarism service.
// progress can be nil; the service then reports no progress.
func NewPlagiarismService(progress domain.ProgressManager) *PlagiarismServiceImpl {
	if progress == nil {
		progress = NoOpProgressManager{}
	}
	return &PlagiarismServiceImpl{
		detector: analyzer.NewPlagiarismDetector(),
		reader:   NewFileReader(),
		progress: progress,
	}
}

// Score reads both files and returns their similarity
func (s *PlagiarismServiceImpl) Score(ctx context.Context, pathA, pathB string) (domain.SimilarityScore, error) {
	formA, err := s.analyzeFile(ctx, pathA)
	if err != nil {
		return 0, err
	}
	formB, err := s.analyzeFile(ctx, pathB)
	if err != nil {
		return 0, err
	}

	score, err := s.detector.CompareCanonical(ctx, formA.Text, formB.Text)
	if err != nil {
		return 0, err
	}
	return domain.SimilarityScore(score), nil
}

// Canonicalize returns the canonical form of one file
func (s *PlagiarismServiceImpl) Canonicalize(ctx context.Context, path string) (*domain.CanonicalFile, error) {
	form, err := s.analyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &domain.CanonicalFile{
		Path:     path,
		Text:     form.Text,
		Rendered: form.Rendered,
		Length:   len(form.Text),
	}, nil
}

// Analyze returns the full canonical form of one file, tree included
func (s *PlagiarismServiceImpl) Analyze(ctx context.Context, path string) (*analyzer.CanonicalForm, error) {
	return s.analyzeFile(ctx, path)
}

func (s *PlagiarismServiceImpl) analyzeFile(ctx context.Context, path string) (*analyzer.CanonicalForm, error) {
	source, err := s.reader.ReadSource(path)
	if err != nil {
		return nil, err
	}
	form, err := s.detector.Analyze(ctx, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.NewParseError(path, err)
	}
	return form, nil
}

// Compare scores every pair of the request. Results are in input order
// unless SortByScore is set. Under the abort policy the first failing pair
// fails the batch; under the sentinel policy it is reported with
// SentinelScore and the batch continues.
func (s *PlagiarismServiceImpl) Compare(ctx context.Context, req *domain.PlagiarismRequest) (*domain.PlagiarismResponse, error) {
	if req == nil {
		return nil, domain.NewInvalidInputError("plagiarism request cannot be nil", nil)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	paths := make([]string, 0, 2*len(req.Pairs))
	for _, pair := range req.Pairs {
		paths = append(paths, pair.PathA, pair.PathB)
	}

	cache, err := PopulateCanonicalCache(ctx, s.detector, s.reader, paths, req.Workers)
	if err != nil {
		return nil, fmt.Errorf("canonicalization cancelled: %w", err)
	}

	results, err := s.scorePairs(ctx, req, cache)
	if err != nil {
		return nil, err
	}

	stats := domain.NewPlagiarismStatistics(results)
	stats.FilesCanonicalized = cache.Len()

	return &domain.PlagiarismResponse{
		Results:     filterAndSort(results, req),
		Statistics:  stats,
		Threshold:   req.Threshold,
		Precision:   req.Precision,
		Duration:    time.Since(startTime).Milliseconds(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Success:     stats.ErrorPairs == 0,
	}, nil
}

// scorePairs runs one task per pair on the parallel executor
func (s *PlagiarismServiceImpl) scorePairs(ctx context.Context, req *domain.PlagiarismRequest, cache *CanonicalCache) ([]*domain.PairResult, error) {
	results := make([]*domain.PairResult, len(req.Pairs))

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(req.Workers)
	executor.SetTimeout(req.PairTimeout)

	if req.ShowProgress {
		s.progress.Initialize(len(req.Pairs))
		s.progress.Start()
	}
	var done atomic.Int64

	tasks := make([]domain.ExecutableTask, len(req.Pairs))
	for i, pair := range req.Pairs {
		tasks[i] = NewSimpleTask(fmt.Sprintf("pair %d", pair.Index+1), func(taskCtx context.Context) error {
			defer func() {
				if req.ShowProgress {
					s.progress.Update(int(done.Add(1)), len(req.Pairs))
				}
			}()

			result, err := s.scorePair(taskCtx, pair, cache, req)
			if err == nil {
				results[i] = result
				return nil
			}

			if req.OnError == domain.ErrorPolicyAbort {
				return fmt.Errorf("pair %d (%s): %w", pair.Index+1, pair, err)
			}
			results[i] = &domain.PairResult{
				Pair:   pair,
				Score:  domain.SentinelScore,
				Status: domain.PairStatusError,
				Error:  err.Error(),
			}
			return nil
		})
	}

	err := executor.Execute(ctx, tasks)
	if req.ShowProgress {
		s.progress.Complete(err == nil)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// scorePair compares the cached canonical texts of one pair
func (s *PlagiarismServiceImpl) scorePair(ctx context.Context, pair domain.FilePair, cache *CanonicalCache, req *domain.PlagiarismRequest) (*domain.PairResult, error) {
	start := time.Now()

	entryA, err := lookupEntry(cache, pair.PathA)
	if err != nil {
		return nil, err
	}
	entryB, err := lookupEntry(cache, pair.PathB)
	if err != nil {
		return nil, err
	}

	score, err := s.detector.CompareCanonicalWithPrecision(ctx, entryA.Form.Text, entryB.Form.Text, req.Precision)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == context.DeadlineExceeded {
			return nil, domain.NewTimeoutError(fmt.Sprintf("comparison exceeded %v", req.PairTimeout), err)
		}
		return nil, err
	}

	return &domain.PairResult{
		Pair:       pair,
		Score:      domain.SimilarityScore(score),
		Flagged:    score >= req.Threshold,
		Status:     domain.PairStatusOK,
		LengthA:    len(entryA.Form.Text),
		LengthB:    len(entryB.Form.Text),
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

func lookupEntry(cache *CanonicalCache, path string) (*CanonicalEntry, error) {
	entry, ok := cache.Get(path)
	if !ok {
		return nil, fmt.Errorf("no canonical form cached for %s", path)
	}
	if entry.Err != nil {
		return nil, entry.Err
	}
	return entry, nil
}

// filterAndSort applies MinScore and SortByScore; error pairs always stay
func filterAndSort(results []*domain.PairResult, req *domain.PlagiarismRequest) []*domain.PairResult {
	if req.MinScore <= 0 && !req.SortByScore {
		return results
	}

	filtered := make([]*domain.PairResult, 0, len(results))
	for _, r := range results {
		if !r.IsError() && float64(r.Score) < req.MinScore {
			continue
		}
		filtered = append(filtered, r)
	}

	if req.SortByScore {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Score > filtered[j].Score
		})
	}
	return filtered
}
