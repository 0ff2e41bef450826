package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	"golang.org/x/sync/errgroup"
)

// ParallelExecutorImpl implements the ParallelExecutor interface on an
// errgroup. The first failing task cancels the others.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.GOMAXPROCS(0),
	}
}

// Execute runs tasks in parallel. When a per-task timeout is set each task
// runs under its own deadline and a missed deadline becomes a TIMEOUT error.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	if len(tasks) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if pe.maxConcurrency > 0 {
		g.SetLimit(pe.maxConcurrency)
	}

	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("task %s cancelled: %w", task.Name(), err)
			}
			return pe.run(gctx, task)
		})
	}

	return g.Wait()
}

// run executes one task under the per-task timeout
func (pe *ParallelExecutorImpl) run(ctx context.Context, task domain.ExecutableTask) error {
	if pe.timeout <= 0 {
		return task.Execute(ctx)
	}

	taskCtx, cancel := context.WithTimeout(ctx, pe.timeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err != nil && !domain.IsTimeoutError(err) && taskCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return domain.NewTimeoutError(fmt.Sprintf("task %s exceeded %v", task.Name(), pe.timeout), err)
	}
	return err
}

// SetMaxConcurrency sets the maximum number of concurrent tasks; values
// below one mean one per CPU
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	if max <= 0 {
		max = runtime.GOMAXPROCS(0)
	}
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for each task; zero disables it
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// SimpleTask is a basic implementation of ExecutableTask
type SimpleTask struct {
	name    string
	execute func(context.Context) error
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, execute func(context.Context) error) *SimpleTask {
	return &SimpleTask{
		name:    name,
		execute: execute,
	}
}

// Name returns the name of the task
func (t *SimpleTask) Name() string {
	return t.name
}

// Execute runs the task
func (t *SimpleTask) Execute(ctx context.Context) error {
	if t.execute == nil {
		return fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
