package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/config"
	"github.com/bobmcallan/toolgate/internal/handlers"
	"github.com/bobmcallan/toolgate/internal/mcp"
	"github.com/bobmcallan/toolgate/internal/tools"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds all application components and dependencies.
type App struct {
	Config   *config.Config
	Logger   *common.Logger
	Registry *prometheus.Registry
	Metrics  *tools.Metrics
	Gateway  *tools.Gateway

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("running in dev mode, do not use in production")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = tools.NewMetrics(a.Registry)

	// Upstream calls are bounded per call by gateway.upstream_timeout.
	client := &http.Client{}

	gw, err := tools.NewBuiltinGateway(cfg, client, logger, a.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	a.Gateway = gw

	a.initHandlers()

	logger.Info().
		Int("tools", len(gw.Tools())).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Config.Gateway.Name, a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Gateway, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Config, a.Gateway, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
