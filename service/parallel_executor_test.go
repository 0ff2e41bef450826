package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelExecutor_RunsAllTasks(t *testing.T) {
	var count atomic.Int32
	tasks := make([]domain.ExecutableTask, 20)
	for i := range tasks {
		tasks[i] = NewSimpleTask("task", func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(3)
	require.NoError(t, executor.Execute(context.Background(), tasks))
	assert.Equal(t, int32(20), count.Load())
}

func TestParallelExecutor_RespectsConcurrencyLimit(t *testing.T) {
	var running, peak atomic.Int32
	tasks := make([]domain.ExecutableTask, 12)
	for i := range tasks {
		tasks[i] = NewSimpleTask("task", func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			return nil
		})
	}

	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)
	require.NoError(t, executor.Execute(context.Background(), tasks))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestParallelExecutor_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	tasks := []domain.ExecutableTask{
		NewSimpleTask("ok", func(context.Context) error { return nil }),
		NewSimpleTask("bad", func(context.Context) error { return boom }),
	}

	err := NewParallelExecutor().Execute(context.Background(), tasks)
	assert.ErrorIs(t, err, boom)
}

func TestParallelExecutor_PerTaskTimeout(t *testing.T) {
	tasks := []domain.ExecutableTask{
		NewSimpleTask("slow", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	}

	executor := NewParallelExecutor()
	executor.SetTimeout(10 * time.Millisecond)
	err := executor.Execute(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, domain.IsTimeoutError(err))
	assert.Contains(t, err.Error(), "slow")
}

func TestParallelExecutor_Empty(t *testing.T) {
	assert.NoError(t, NewParallelExecutor().Execute(context.Background(), nil))
}

func TestSimpleTask_NilFunction(t *testing.T) {
	err := NewSimpleTask("empty", nil).Execute(context.Background())
	assert.Error(t, err)
}
