package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/llmstream/logger"
	"github.com/kbukum/llmstream/observability"
)

// App holds the typed config and shared infrastructure of one command run.
// The type parameter C is the config type.
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	// Metrics is nil until EnableTelemetry succeeds with telemetry enabled.
	Metrics *observability.Metrics

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp applies config defaults, validates the config and initializes the
// logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 5 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.SetGlobalLogger(logger.New(&base.Logging, base.Name))
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// EnableTelemetry installs OTLP trace and metric exporters when cfg.Enabled
// is set and registers their shutdown as OnStop hooks. It is a no-op
// otherwise.
func (a *App[C]) EnableTelemetry(ctx context.Context, cfg observability.Config) error {
	if !cfg.Enabled {
		return nil
	}
	cfg.ApplyDefaults(a.Name)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("telemetry config: %w", err)
	}

	tp, err := observability.InitTracer(ctx, cfg)
	if err != nil {
		return err
	}
	a.OnStop(tp.Shutdown)

	mp, err := observability.InitMeter(ctx, cfg)
	if err != nil {
		return err
	}
	a.OnStop(mp.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(a.Name))
	if err != nil {
		return err
	}
	a.Metrics = metrics

	a.Logger.Debug("telemetry enabled", map[string]interface{}{
		"endpoint":    cfg.Endpoint,
		"sample_rate": cfg.SampleRate,
	})
	return nil
}

// RunTask runs OnStart hooks, then task, then OnStop hooks. SIGINT and
// SIGTERM cancel the context passed to task. The task error takes
// precedence over a shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("received signal, canceling", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooksReverse(ctx, a.onStop); err != nil {
		a.Logger.Error("shutdown hook failed", logger.ErrorFields("shutdown", err))
		return err
	}
	return nil
}
