// Package app provides the main application structure and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-ltc-stamp/internal/convert"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

// Application represents the main application with its lifecycle.
type Application struct {
	app     *fx.App
	service *convert.Service
	logger  *zap.Logger
}

// New creates a new Application with the provided modules and options.
func New(modules ...fx.Option) *Application {
	a := &Application{}

	options := append(modules,
		fx.Populate(&a.service, &a.logger),
		fx.Invoke(registerLifecycleHooks),
	)
	a.app = fx.New(options...)

	return a
}

// Err returns any error encountered while building the dependency graph.
func (a *Application) Err() error {
	return a.app.Err()
}

// Convert starts the application, converts every path and stops it again.
// The application is stopped even when ctx is cancelled mid-batch.
func (a *Application) Convert(ctx context.Context, paths []string, reporter timecode.ProgressReporter) ([]*convert.Result, error) {
	if err := a.app.Err(); err != nil {
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, a.app.StartTimeout())
	defer cancel()
	if err := a.app.Start(startCtx); err != nil {
		return nil, fmt.Errorf("start application: %w", err)
	}

	results, convErr := a.service.ConvertAll(ctx, paths, reporter)

	stopCtx, cancelStop := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancelStop()
	if err := a.app.Stop(stopCtx); err != nil {
		return results, errors.Join(convErr, fmt.Errorf("stop application: %w", err))
	}

	return results, convErr
}

// registerLifecycleHooks sets up the application lifecycle hooks.
func registerLifecycleHooks(lc fx.Lifecycle, svc *convert.Service, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			tc := svc.TimecodeConfig()
			logger.Info("Application started",
				zap.Stringer("frame_rate", tc.FrameRate),
				zap.Bool("drop_frame", tc.DropFrame),
				zap.Stringer("signal_shape", tc.Shape),
				zap.Float64("volume", tc.Volume))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Application stopped")

			return nil
		},
	})
}
