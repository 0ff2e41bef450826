package mcp

import (
	"io"

	"github.com/ludo-technologies/pyplag/app"
	"github.com/ludo-technologies/pyplag/domain"
	"github.com/ludo-technologies/pyplag/internal/config"
	"github.com/ludo-technologies/pyplag/internal/store"
	"github.com/ludo-technologies/pyplag/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader *service.FileReaderImpl
	pairReader *service.PairReaderImpl
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		pairReader: service.NewPairReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the config file the snapshot came from (empty for defaults).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BaseRequest converts the configuration snapshot into a request without
// pairs. Reports are rendered as JSON into io.Discard; handlers use the
// returned response instead.
func (d *Dependencies) BaseRequest() *domain.PlagiarismRequest {
	req := service.ConfigToRequest(d.config)
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ShowProgress = false
	req.NoOpen = true
	req.ConfigPath = d.configPath
	return req
}

// BuildPlagiarismUseCase assembles a fresh PlagiarismUseCase without
// progress output.
func (d *Dependencies) BuildPlagiarismUseCase() (*app.PlagiarismUseCase, error) {
	reportWriter := service.NewFileOutputWriter(io.Discard)
	reportWriter.SetQuiet(true)

	return app.NewPlagiarismUseCaseBuilder().
		WithService(service.NewPlagiarismService(nil)).
		WithPairReader(d.pairReader).
		WithFormatter(service.NewPlagiarismFormatter()).
		WithReportWriter(reportWriter).
		WithStoreOpener(func(path string) (domain.ResultStore, error) {
			s, err := store.Open(path)
			if err != nil {
				return nil, err
			}
			return s, nil
		}).
		Build()
}
