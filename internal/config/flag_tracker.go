package config

import (
	"sync"

	"github.com/spf13/pflag"
)

// Flag names that override configuration keys
const (
	FlagThreshold   = "threshold"
	FlagPrecision   = "precision"
	FlagMinScore    = "min-score"
	FlagWorkers     = "workers"
	FlagPairTimeout = "pair-timeout"
	FlagOnError     = "on-error"
	FlagFormat      = "format"
	FlagNoProgress  = "no-progress"
	FlagSQLite      = "sqlite"
)

// FlagTracker records which command line flags were set explicitly so
// that only those override values loaded from configuration files
type FlagTracker struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFlagTracker creates an empty tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{
		flags: make(map[string]bool),
	}
}

// NewFlagTrackerWithFlags creates a tracker holding a copy of flags
func NewFlagTrackerWithFlags(flags map[string]bool) *FlagTracker {
	copied := make(map[string]bool, len(flags))
	for name, set := range flags {
		if set {
			copied[name] = true
		}
	}
	return &FlagTracker{flags: copied}
}

// NewFlagTrackerFromFlagSet tracks every flag of fs the user changed
func NewFlagTrackerFromFlagSet(fs *pflag.FlagSet) *FlagTracker {
	ft := NewFlagTracker()
	if fs == nil {
		return ft
	}
	fs.Visit(func(f *pflag.Flag) {
		ft.flags[f.Name] = true
	})
	return ft
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(flagName string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.flags[flagName] = true
}

// WasSet checks if a flag was explicitly set
func (ft *FlagTracker) WasSet(flagName string) bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return ft.flags[flagName]
}

// Names returns a copy of the tracked flag set
func (ft *FlagTracker) Names() map[string]bool {
	ft.mu.RLock()
	defer ft.mu.RUnlock()

	result := make(map[string]bool, len(ft.flags))
	for k, v := range ft.flags {
		result[k] = v
	}
	return result
}

// Count returns the number of explicitly set flags
func (ft *FlagTracker) Count() int {
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	return len(ft.flags)
}

// MergeString returns override when flagName was set
func (ft *FlagTracker) MergeString(base, override, flagName string) string {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeInt returns override when flagName was set
func (ft *FlagTracker) MergeInt(base, override int, flagName string) int {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeBool returns override when flagName was set
func (ft *FlagTracker) MergeBool(base, override bool, flagName string) bool {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// MergeFloat64 returns override when flagName was set
func (ft *FlagTracker) MergeFloat64(base, override float64, flagName string) float64 {
	if ft.WasSet(flagName) {
		return override
	}
	return base
}

// Overrides carries the raw command line values of the override flags
type Overrides struct {
	Threshold          float64
	Precision          int
	MinScore           float64
	Workers            int
	PairTimeoutSeconds int
	OnError            string
	Format             string
	NoProgress         bool
	SQLitePath         string
}

// Apply returns a copy of base with every explicitly set flag applied
func (ft *FlagTracker) Apply(base *Config, o Overrides) *Config {
	merged := *base

	merged.Scoring.Threshold = ft.MergeFloat64(base.Scoring.Threshold, o.Threshold, FlagThreshold)
	merged.Scoring.Precision = ft.MergeInt(base.Scoring.Precision, o.Precision, FlagPrecision)
	merged.Scoring.MinScore = ft.MergeFloat64(base.Scoring.MinScore, o.MinScore, FlagMinScore)

	merged.Batch.Workers = ft.MergeInt(base.Batch.Workers, o.Workers, FlagWorkers)
	merged.Batch.PairTimeoutSeconds = ft.MergeInt(base.Batch.PairTimeoutSeconds, o.PairTimeoutSeconds, FlagPairTimeout)
	merged.Batch.OnError = ft.MergeString(base.Batch.OnError, o.OnError, FlagOnError)

	merged.Output.Format = ft.MergeString(base.Output.Format, o.Format, FlagFormat)
	merged.Output.ShowProgress = ft.MergeBool(base.Output.ShowProgress, !o.NoProgress, FlagNoProgress)
	merged.Output.SQLitePath = ft.MergeString(base.Output.SQLitePath, o.SQLitePath, FlagSQLite)

	return &merged
}
