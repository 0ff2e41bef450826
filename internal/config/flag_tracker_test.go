package config

import (
	"sync"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagTracker_Basic(t *testing.T) {
	ft := NewFlagTracker()
	assert.False(t, ft.WasSet("threshold"))

	ft.Set("threshold")
	assert.True(t, ft.WasSet("threshold"))
	assert.Equal(t, 1, ft.Count())
}

func TestFlagTracker_WithInitialFlags(t *testing.T) {
	initial := map[string]bool{"workers": true, "format": false}
	ft := NewFlagTrackerWithFlags(initial)

	assert.True(t, ft.WasSet("workers"))
	assert.False(t, ft.WasSet("format"))
	assert.Equal(t, 1, ft.Count())

	initial["sqlite"] = true
	assert.False(t, ft.WasSet("sqlite"))

	assert.NotPanics(t, func() { NewFlagTrackerWithFlags(nil).Set("x") })
}

func TestFlagTracker_FromFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("score", pflag.ContinueOnError)
	fs.Float64(FlagThreshold, 0.8, "")
	fs.Int(FlagWorkers, 0, "")
	fs.String(FlagFormat, "text", "")

	require.NoError(t, fs.Parse([]string{"--workers", "4", "--format=json"}))

	ft := NewFlagTrackerFromFlagSet(fs)
	assert.True(t, ft.WasSet(FlagWorkers))
	assert.True(t, ft.WasSet(FlagFormat))
	assert.False(t, ft.WasSet(FlagThreshold))

	assert.Equal(t, 0, NewFlagTrackerFromFlagSet(nil).Count())
}

func TestFlagTracker_Names(t *testing.T) {
	ft := NewFlagTracker()
	ft.Set("a")
	ft.Set("b")

	names := ft.Names()
	assert.Len(t, names, 2)

	names["c"] = true
	assert.False(t, ft.WasSet("c"))
}

func TestFlagTracker_ConcurrentReadWrite(t *testing.T) {
	ft := NewFlagTracker()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if j%2 == 0 {
					ft.Set("even")
				} else {
					ft.Set("odd")
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				_ = ft.WasSet("even")
				_ = ft.Names()
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 2, ft.Count())
}

func TestFlagTracker_MergeMethods(t *testing.T) {
	ft := NewFlagTracker()
	ft.Set("explicit")

	assert.Equal(t, "override", ft.MergeString("base", "override", "explicit"))
	assert.Equal(t, "base", ft.MergeString("base", "override", "notset"))
	assert.Equal(t, 20, ft.MergeInt(10, 20, "explicit"))
	assert.Equal(t, 10, ft.MergeInt(10, 20, "notset"))
	assert.False(t, ft.MergeBool(true, false, "explicit"))
	assert.True(t, ft.MergeBool(true, false, "notset"))
	assert.Equal(t, 2.5, ft.MergeFloat64(1.5, 2.5, "explicit"))
	assert.Equal(t, 1.5, ft.MergeFloat64(1.5, 2.5, "notset"))
}

func TestFlagTracker_Apply(t *testing.T) {
	base := DefaultConfig()
	base.Scoring.Threshold = 0.9
	base.Batch.Workers = 2

	ft := NewFlagTrackerWithFlags(map[string]bool{
		FlagWorkers:    true,
		FlagNoProgress: true,
		FlagSQLite:     true,
	})

	merged := ft.Apply(base, Overrides{
		Threshold:  0.5,
		Workers:    8,
		NoProgress: true,
		SQLitePath: "runs.db",
	})

	assert.Equal(t, 0.9, merged.Scoring.Threshold, "unset flag keeps file value")
	assert.Equal(t, 8, merged.Batch.Workers)
	assert.False(t, merged.Output.ShowProgress)
	assert.Equal(t, "runs.db", merged.Output.SQLitePath)
	assert.Equal(t, 2, base.Batch.Workers, "base is not modified")
}

func BenchmarkFlagTracker_WasSet(b *testing.B) {
	ft := NewFlagTracker()
	ft.Set("flag1")
	ft.Set("flag2")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = ft.WasSet("flag2")
		}
	})
}
