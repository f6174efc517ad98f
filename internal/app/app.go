package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/registry"
	"github.com/specialistvlad/tickgrid/internal/telemetry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	cfg       *Config
	logger    *slog.Logger
	registry  *registry.Registry
	model     *config.Model
	converter config.Converter

	world     *ecs.World
	resources *ecs.Resources
	host      *pipeline.Pipeline
	executor  executor.Executor
	telemetry *telemetry.Client
	dial      func(context.Context, telemetry.Options) (*telemetry.Client, error)

	ready      bool
	frames     atomic.Uint64
	httpServer *http.Server
}

// NewApp loads the grid, registers modules and validates every configured
// job. Configuration errors are fatal and panic; cmd/cli turns them into a
// clean exit. Without explicit modules the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "runners", len(model.Runners))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "job_types", reg.Types())

	if err := reg.Validate(ctx, model, converter); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:      outW,
		cfg:       cfg,
		logger:    logger,
		registry:  reg,
		model:     model,
		converter: converter,
		world:     ecs.NewWorld(),
		resources: ecs.NewResources(),
		dial:      telemetry.Connect,
	}
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry { return a.registry }

// Model returns the loaded grid.
func (a *App) Model() *config.Model { return a.model }

// World returns the host world.
func (a *App) World() *ecs.World { return a.world }

// Resources returns the host resources.
func (a *App) Resources() *ecs.Resources { return a.resources }

// Frames returns the number of completed host frames.
func (a *App) Frames() uint64 { return a.frames.Load() }

// Close releases the telemetry connection and stops the health check server.
func (a *App) Close(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.telemetry != nil {
		a.telemetry.Close()
		a.logger.Debug("Telemetry client closed.")
	}
	return a.closeHealthCheckServer(ctx)
}
