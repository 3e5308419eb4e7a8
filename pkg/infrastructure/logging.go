// Package infrastructure provides reusable infrastructure components for Go applications.
package infrastructure

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter routes Fx's own events and printer output to a zap logger
// using structured fields. Successful events log at debug level so a normal
// CLI run stays quiet; failures log at error level.
type FxLoggerAdapter struct {
	logger *zap.Logger
}

// NewFxLoggerAdapter creates a new Fx logger adapter that implements fxevent.Logger.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger.Named("fx")}
}

// NewFxPrinter creates a new Fx printer adapter that implements fx.Printer.
func NewFxPrinter(logger *zap.Logger) fx.Printer {
	return &FxLoggerAdapter{logger: logger.Named("fx")}
}

// LogEvent implements fxevent.Logger.
func (p *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		p.logger.Debug("OnStart hook executing", zap.String("caller", e.CallerName), zap.String("function", e.FunctionName))
	case *fxevent.OnStartExecuted:
		p.result("OnStart hook", e.Err, zap.String("caller", e.CallerName), zap.String("function", e.FunctionName), zap.Duration("runtime", e.Runtime))
	case *fxevent.OnStopExecuting:
		p.logger.Debug("OnStop hook executing", zap.String("caller", e.CallerName), zap.String("function", e.FunctionName))
	case *fxevent.OnStopExecuted:
		p.result("OnStop hook", e.Err, zap.String("caller", e.CallerName), zap.String("function", e.FunctionName), zap.Duration("runtime", e.Runtime))
	case *fxevent.Supplied:
		p.result("supplied", e.Err, zap.String("type", e.TypeName), zap.String("module", e.ModuleName))
	case *fxevent.Provided:
		p.result("provided", e.Err, zap.Strings("types", e.OutputTypeNames), zap.String("module", e.ModuleName))
	case *fxevent.Decorated:
		p.result("decorated", e.Err, zap.Strings("types", e.OutputTypeNames), zap.String("module", e.ModuleName))
	case *fxevent.Invoking:
		p.logger.Debug("invoking", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		p.result("invoked", e.Err, zap.String("function", e.FunctionName))
	case *fxevent.Stopping:
		p.logger.Debug("stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		p.result("stopped", e.Err)
	case *fxevent.RollingBack:
		p.logger.Error("start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		p.result("rolled back", e.Err)
	case *fxevent.Started:
		p.result("started", e.Err)
	case *fxevent.LoggerInitialized:
		p.result("logger initialized", e.Err, zap.String("constructor", e.ConstructorName))
	default:
		p.logger.Debug("unhandled fx event", zap.String("event", fmt.Sprintf("%T", event)))
	}
}

// Printf implements fx.Printer.
func (p *FxLoggerAdapter) Printf(format string, args ...any) {
	p.logger.Sugar().Debugf(format, args...)
}

func (p *FxLoggerAdapter) result(msg string, err error, fields ...zap.Field) {
	if err != nil {
		p.logger.Error(msg+" failed", append(fields, zap.Error(err))...)
		return
	}
	p.logger.Debug(msg, fields...)
}
