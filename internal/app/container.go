package app

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/iop/assets"
	"github.com/doeshing/iop/internal/application/completion"
	"github.com/doeshing/iop/internal/application/doctor"
	"github.com/doeshing/iop/internal/application/query"
	"github.com/doeshing/iop/internal/application/screening"
	"github.com/doeshing/iop/internal/domain"
	"github.com/doeshing/iop/internal/infrastructure/ai"
	"github.com/doeshing/iop/internal/infrastructure/cache"
	"github.com/doeshing/iop/internal/infrastructure/config"
	contextcollector "github.com/doeshing/iop/internal/infrastructure/context"
	"github.com/doeshing/iop/internal/infrastructure/executor"
	"github.com/doeshing/iop/internal/infrastructure/history"
	"github.com/doeshing/iop/internal/infrastructure/security"
	"github.com/doeshing/iop/internal/pkg/logger"
	"github.com/doeshing/iop/internal/ports"
)

// Options carries the terminal adapters built by the CLI layer.
type Options struct {
	Verbose   bool
	Sink      ports.OutputSink
	Prompter  ports.Prompter
	Clipboard ports.Clipboard
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config       domain.Config
	Environment  domain.Environment
	ConfigLoader *config.FileLoader
	CacheStore   ports.CacheRepository
	HistoryStore ports.HistoryRepository
	Transport    *ai.HTTPTransport
	Security     ports.SecurityService
	Logger       ports.Logger

	sink      ports.OutputSink
	prompter  ports.Prompter
	clipboard ports.Clipboard
}

// BuildContainer loads the configuration and constructs the dependency graph.
// It does not resolve the API key; NewQueryService does.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.New(opts.Verbose)
	transport := ai.NewHTTPTransport(nil)

	cfgLoader := config.NewFileLoader("", opts.Prompter, transport, opts.Sink)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	env, err := contextcollector.NewBasicCollector().Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect environment: %w", err)
	}

	guardrail, err := security.NewGuardrail(cfg.Security)
	if err != nil {
		log.Warn("guardrail rules unusable, falling back to defaults", map[string]interface{}{"error": err.Error()})
		guardrail, err = security.NewGuardrail(domain.SecuritySettings{Enabled: cfg.Security.Enabled})
		if err != nil {
			return nil, err
		}
	}

	return &Container{
		Config:       cfg,
		Environment:  env,
		ConfigLoader: cfgLoader,
		CacheStore:   cache.NewSQLiteCache(),
		HistoryStore: history.NewSQLiteStore(),
		Transport:    transport,
		Security:     guardrail,
		Logger:       log,
		sink:         opts.Sink,
		prompter:     opts.Prompter,
		clipboard:    opts.Clipboard,
	}, nil
}

// NewQueryService resolves the API key and assembles the confirmation pipeline.
func (c *Container) NewQueryService(ctx context.Context) (*query.Service, error) {
	key, err := c.ConfigLoader.ResolveKey(ctx)
	if err != nil {
		return nil, err
	}

	prompts, err := ai.NewPromptTemplate(assets.SystemPromptTemplate, c.Environment.OS)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt: %w", err)
	}

	wd := c.Environment.WorkingDir
	if wd == "" {
		wd, _ = os.Getwd()
	}

	client := &completion.Client{
		Config:    c.Config,
		APIKey:    key,
		Cache:     c.CacheStore,
		Transport: c.Transport,
		Prompts:   prompts,
		Logger:    c.Logger,
	}

	return &query.Service{
		Config:      c.Config,
		Environment: c.Environment,
		Completer:   client,
		Screener:    screening.NewScreener(c.Config, c.sink),
		Security:    c.Security,
		Executor:    executor.NewLocalExecutor(),
		Scripts:     executor.NewFileScriptWriter(wd),
		Clipboard:   c.clipboard,
		Prompter:    c.prompter,
		Sink:        c.sink,
		History:     c.HistoryStore,
		Logger:      c.Logger,
	}, nil
}

// NewDoctorService assembles the diagnostics for the doctor command. It never prompts.
func (c *Container) NewDoctorService() *doctor.Service {
	return &doctor.Service{
		Config:      c.Config,
		ConfigPath:  c.ConfigLoader.Path(),
		Keys:        c.ConfigLoader,
		Security:    c.Security,
		Environment: contextcollector.NewBasicCollector(),
		Cache:       c.CacheStore,
		History:     c.HistoryStore,
		Clipboard:   c.clipboard,
	}
}
