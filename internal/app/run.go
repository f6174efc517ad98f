package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/driver"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/telemetry"
	"github.com/specialistvlad/tickgrid/modules/counter"
	"github.com/specialistvlad/tickgrid/modules/print"
)

// Setup connects telemetry, creates the host resources, places every
// configured runner and registers the driver in the host update stage.
// A failing Setup closes the telemetry client it connected.
func (a *App) Setup(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.ready {
		return errors.New("app is already set up")
	}
	defer func() {
		if err != nil && a.telemetry != nil {
			a.telemetry.Close()
			a.telemetry = nil
		}
	}()

	if t := a.model.Telemetry; t != nil {
		client, err := a.dial(ctx, telemetry.Options{URL: t.URL, Namespace: t.Namespace, InsecureSkipVerify: t.InsecureSkipVerify})
		if err != nil {
			return fmt.Errorf("failed to connect telemetry: %w", err)
		}
		a.telemetry = client
		ecs.InsertResource(a.resources, client)
	}

	ecs.InsertResource(a.resources, &ecs.Time{})
	ecs.InsertResource(a.resources, print.NewOutput(a.outW))
	ecs.InsertResource(a.resources, counter.NewCounters())

	for _, def := range a.model.Runners {
		switch def.Placement {
		case config.PlacementResource:
			handle, err := a.buildRunner(ctx, def)
			if err != nil {
				return err
			}
			ecs.InsertResource(a.resources, handle)
			a.logger.Info("Singleton runner placed.", "runner", def.Name)
		case config.PlacementEntity:
			for range def.Count {
				handle, err := a.buildRunner(ctx, def)
				if err != nil {
					return err
				}
				e := a.world.Spawn(handle)
				a.logger.Debug("Entity runner spawned.", "runner", def.Name, "entity", e.String())
			}
			a.logger.Info("Entity runners placed.", "runner", def.Name, "count", def.Count)
		default:
			return fmt.Errorf("runner '%s': unsupported placement %q", def.Name, def.Placement)
		}
	}

	a.host = pipeline.NewDefault().AddJobToStage(pipeline.Update, driver.NewSystem())
	a.executor = executor.NewParallel(a.cfg.WorkerCount)
	a.ready = true
	a.logger.Debug("App setup complete.", "entities", a.world.Len())
	return nil
}

// Step advances the frame clock by delta and runs the host pipeline once.
func (a *App) Step(ctx context.Context, delta time.Duration) error {
	return a.step(ctx, func(clock *ecs.Time) { clock.Advance(delta) })
}

func (a *App) step(ctx context.Context, advance func(*ecs.Time)) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if !a.ready {
		return errors.New("app is not set up")
	}
	if clock, ok := ecs.Resource[ecs.Time](a.resources); ok {
		advance(clock)
	}
	err := a.executor.Run(ctx, a.host, a.world, a.resources)
	a.frames.Add(1)
	if err != nil {
		return fmt.Errorf("frame %d: %w", a.frames.Load(), err)
	}
	return nil
}

// Run sets the app up and drives frames from a ticker, measuring the real
// time between them, until Frames is reached or ctx is cancelled. A failing
// frame stops the loop.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	defer func() {
		if err := a.Close(context.Background()); err != nil {
			a.logger.Error("App shutdown failed.", "error", err)
		}
	}()
	if err := a.Setup(ctx); err != nil {
		return err
	}

	if a.cfg.HealthcheckPort > 0 {
		a.startHealthCheckServer(ctx, a.cfg.HealthcheckPort)
	}

	a.logger.Info("Starting frame loop.", "interval", a.cfg.FrameInterval.String(), "frames", a.cfg.Frames)
	ticker := time.NewTicker(a.cfg.FrameInterval)
	defer ticker.Stop()

	if clock, ok := ecs.Resource[ecs.Time](a.resources); ok {
		clock.Start(time.Now())
	}
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Frame loop stopped.", "frames", a.Frames(), "reason", ctx.Err())
			return nil
		case now := <-ticker.C:
			if err := a.step(ctx, func(clock *ecs.Time) { clock.Update(now) }); err != nil {
				return err
			}
			if a.cfg.Frames > 0 && a.Frames() >= uint64(a.cfg.Frames) {
				a.logger.Info("Frame loop finished.", "frames", a.Frames())
				return nil
			}
		}
	}
}
