package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/user/shopchat/internal/agents"
	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/currency"
	"github.com/user/shopchat/internal/errors"
	"github.com/user/shopchat/internal/llm"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/observability"
	"github.com/user/shopchat/internal/products"
	"github.com/user/shopchat/internal/prompts"
	"github.com/user/shopchat/internal/tools"
)

// App holds the long-lived collaborators shared by serve and ask
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Prompts   *prompts.Manager
	Caller    *agents.FunctionCaller
	Converter *currency.Client
	Catalog   *products.Catalog
	Recorder  *observability.Recorder // nil when metrics are disabled
}

// InitLogger creates the logger for CLI commands.
//
// The console core is always enabled. verbose lowers the console level to
// debug; debug adds caller information. A file core is added only when
// cfg.LogDir is set. The caller is responsible for calling logger.Sync().
func InitLogger(cfg config.LoggingConfig, debug bool, verbose bool) (*logging.Logger, error) {
	consoleLevel := cfg.ConsoleLevel
	if verbose {
		consoleLevel = "debug"
	}

	logger, err := logging.NewLogger(&logging.Config{
		LogDir:         cfg.LogDir,
		FileLevel:      logging.LevelFromString(cfg.FileLevel),
		ConsoleLevel:   logging.LevelFromString(consoleLevel),
		EnableCaller:   debug,
		ConsoleEnabled: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// BuildApp wires the LLM client, prompts, catalog and currency client from
// cfg. withMetrics attaches a prometheus Recorder to the LLM client and the
// orchestrator.
func BuildApp(cfg *config.Config, logger *logging.Logger, withMetrics bool) (*App, error) {
	client, err := llm.NewFactory(nil).CreateClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if err := requireToolSupport(client); err != nil {
		return nil, err
	}

	var recorder *observability.Recorder
	var metrics agents.Metrics
	if withMetrics {
		recorder = observability.NewRecorder()
		metrics = recorder
		client = observability.InstrumentClient(client, recorder)
	}

	pm, err := prompts.NewManager(cfg.Chatbot.PromptsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	mode, err := tools.ParseSchemaMode(cfg.Chatbot.SchemaMode)
	if err != nil {
		return nil, err
	}

	searcher := agents.NewItemSearcher(client, pm, logger.Named("item_searcher"))
	searcher.MaxTokens = cfg.LLM.GetMaxTokens()
	searcher.Temperature = cfg.LLM.Temperature

	catalog, err := products.LoadCatalog(cfg.Catalog.CSVPath, searcher)
	if err != nil {
		return nil, err
	}

	caller := agents.NewFunctionCaller(client, pm, logger.Named("function_caller"), agents.FunctionCallerConfig{
		MaxRounds:   cfg.Chatbot.GetMaxToolRounds(),
		SchemaMode:  mode,
		MaxTokens:   cfg.LLM.GetMaxTokens(),
		Temperature: cfg.LLM.Temperature,
		Metrics:     metrics,
	})

	logger.Info("Application initialized",
		logging.String("provider", client.GetProvider()),
		logging.String("model", cfg.LLM.Model),
		logging.Int("products", catalog.Len()),
		logging.Int("prompt_overrides", len(pm.ListOverrides())),
		logging.String("schema_mode", string(mode)),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Prompts:   pm,
		Caller:    caller,
		Converter: currency.NewClient(cfg.Currency, logger.Named("currency")),
		Catalog:   catalog,
		Recorder:  recorder,
	}, nil
}

// requireToolSupport rejects providers that cannot take tool definitions
func requireToolSupport(client llm.LLMClient) error {
	if !client.SupportsTools() {
		return errors.NewConfigurationError(fmt.Sprintf("LLM provider '%s' does not support tool calling", client.GetProvider()))
	}
	return nil
}

// Registry builds the tool registry offered to the model
func (a *App) Registry() (*tools.Registry, error) {
	return tools.NewRegistry(
		tools.NewConvertCurrenciesTool(a.Converter),
		tools.NewSearchProductsTool(a.Catalog),
	)
}

// ReadinessChecks reports whether the catalog and prompts are usable
func (a *App) ReadinessChecks() map[string]observability.HealthCheckFunc {
	return map[string]observability.HealthCheckFunc{
		"catalog": func(ctx context.Context) error {
			if a.Catalog.Len() == 0 {
				return fmt.Errorf("catalog is empty")
			}
			return nil
		},
		"prompts": func(ctx context.Context) error {
			return a.Prompts.Validate()
		},
	}
}

type userMessager interface {
	GetUserMessage() string
}

// HandleCommandError prints the detailed message of application errors to
// stderr and returns err unchanged so the exit code is preserved
func HandleCommandError(err error) error {
	if err == nil {
		return nil
	}

	var um userMessager
	if stderrors.As(err, &um) {
		fmt.Fprintf(os.Stderr, "%s\n", um.GetUserMessage())
	}
	return err
}

// loadConfig loads and validates the configuration named by --config
func loadConfig(cliOverrides map[string]interface{}) (*config.Config, error) {
	cfg, err := config.Load(configFile, cliOverrides)
	if err != nil {
		return nil, HandleCommandError(err)
	}
	return cfg, nil
}
