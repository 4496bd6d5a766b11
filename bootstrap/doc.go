// Package bootstrap runs a finite command with the shared llmstream setup:
// typed config defaults and validation, logger initialization, optional
// OpenTelemetry export, signal-driven cancellation and ordered shutdown hooks.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	if err := app.EnableTelemetry(ctx, cfg.Telemetry); err != nil {
//	    return err
//	}
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return streamOnce(ctx, app.Metrics)
//	})
package bootstrap
