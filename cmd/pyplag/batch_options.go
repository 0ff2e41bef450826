package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/pyplag/app"
	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/config"
	"github.com/ludo-technologies/pyplag/internal/store"
	"github.com/ludo-technologies/pyplag/service"
)

// batchOptions holds the flags shared by the batch commands
type batchOptions struct {
	configFile string

	// Scoring
	threshold float64
	precision int
	minScore  float64

	// Batch
	workers     int
	pairTimeout int
	onError     string

	// Output
	format     string
	html       bool
	json       bool
	csv        bool
	yaml       bool
	noOpen     bool
	noProgress bool
	details    bool
	sqlitePath string
}

func newBatchOptions() *batchOptions {
	defaults := config.DefaultConfig()
	return &batchOptions{
		threshold:   defaults.Scoring.Threshold,
		precision:   defaults.Scoring.Precision,
		minScore:    defaults.Scoring.MinScore,
		workers:     defaults.Batch.Workers,
		pairTimeout: defaults.Batch.PairTimeoutSeconds,
		onError:     defaults.Batch.OnError,
		format:      defaults.Output.Format,
	}
}

// addFlags registers the shared flags on cmd
func (o *batchOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configFile, "config", "c", "",
		"Path to configuration file (toml, yaml or json)")

	cmd.Flags().Float64VarP(&o.threshold, config.FlagThreshold, "t", o.threshold,
		"Flag pairs scoring at or above this value (0.0-1.0)")
	cmd.Flags().IntVar(&o.precision, config.FlagPrecision, o.precision,
		"Decimal digits kept in every score (1-10)")

	cmd.Flags().IntVarP(&o.workers, config.FlagWorkers, "j", o.workers,
		"Concurrent comparisons (0 = one per CPU)")
	cmd.Flags().IntVar(&o.pairTimeout, config.FlagPairTimeout, o.pairTimeout,
		"Seconds allowed per pair (0 = no limit)")
	cmd.Flags().StringVar(&o.onError, config.FlagOnError, o.onError,
		"Failing pair policy: abort or sentinel")

	cmd.Flags().StringVarP(&o.format, config.FlagFormat, "f", o.format,
		"Output format: text, json, yaml, csv, html")
	cmd.Flags().BoolVar(&o.html, "html", false, "Shorthand for --format html")
	cmd.Flags().BoolVar(&o.json, "json", false, "Shorthand for --format json")
	cmd.Flags().BoolVar(&o.csv, "csv", false, "Shorthand for --format csv")
	cmd.Flags().BoolVar(&o.yaml, "yaml", false, "Shorthand for --format yaml")
	cmd.Flags().BoolVar(&o.noOpen, "no-open", false, "Don't auto-open HTML in browser")
	cmd.Flags().BoolVar(&o.noProgress, config.FlagNoProgress, false, "Disable the progress bar")
	cmd.Flags().BoolVarP(&o.details, "details", "d", false,
		"Write a table with bands, flags and a summary instead of bare scores")
	cmd.Flags().StringVar(&o.sqlitePath, config.FlagSQLite, "",
		"Persist the run to this SQLite database")

	_ = cmd.Flags().MarkHidden(config.FlagPrecision)
}

// addMinScoreFlag registers --min-score for commands that filter results
func (o *batchOptions) addMinScoreFlag(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.minScore, config.FlagMinScore, o.minScore,
		"Hide pairs scoring below this value (0.0-1.0)")
}

// loadRequest merges configuration and explicitly set flags into a request
// without pairs
func (o *batchOptions) loadRequest(cmd *cobra.Command) (*domain.PlagiarismRequest, error) {
	loader := service.NewPlagiarismConfigurationLoader()
	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())

	req, err := loader.LoadConfigWithFlags(o.configFile, tracker, config.Overrides{
		Threshold:          o.threshold,
		Precision:          o.precision,
		MinScore:           o.minScore,
		Workers:            o.workers,
		PairTimeoutSeconds: o.pairTimeout,
		OnError:            o.onError,
		Format:             o.format,
		NoProgress:         o.noProgress,
		SQLitePath:         o.sqlitePath,
	})
	if err != nil {
		return nil, err
	}

	format, err := service.NewOutputFormatResolver().Determine(o.html, o.json, o.csv, o.yaml, req.OutputFormat)
	if err != nil {
		return nil, err
	}
	req.OutputFormat = format
	req.NoOpen = o.noOpen
	req.ShowDetails = o.details
	req.ConfigPath = o.configFile

	if req.ShowProgress && !service.IsInteractiveEnvironment() {
		req.ShowProgress = false
	}

	return req, nil
}

// newPlagiarismUseCase wires the batch use case for cmd
func newPlagiarismUseCase(cmd *cobra.Command, req *domain.PlagiarismRequest) (*app.PlagiarismUseCase, error) {
	var progress domain.ProgressManager = service.NoOpProgressManager{}
	if req.ShowProgress {
		pm := service.NewProgressManager()
		pm.SetWriter(cmd.ErrOrStderr())
		if cmd.Name() == "cross" {
			pm.SetDescription("Cross-comparing")
		}
		progress = pm
	}

	reportWriter := service.NewFileOutputWriter(cmd.ErrOrStderr())
	reportWriter.SetQuiet(!isVerbose(cmd) && req.OutputFormat != domain.OutputFormatHTML)

	return app.NewPlagiarismUseCaseBuilder().
		WithService(service.NewPlagiarismService(progress)).
		WithPairReader(service.NewPairReader()).
		WithFormatter(service.NewPlagiarismFormatter().WithDetails(req.ShowDetails)).
		WithReportWriter(reportWriter).
		WithStoreOpener(openResultStore).
		Build()
}

// openResultStore opens and migrates the SQLite result store
func openResultStore(path string) (domain.ResultStore, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
