package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/greeting-service/internal/http/routes"
	"github.com/janisto/greeting-service/internal/platform/config"
	"github.com/janisto/greeting-service/internal/platform/logging"
	"github.com/janisto/greeting-service/internal/platform/server"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := logging.Err(); err != nil {
		logging.LogError(ctx, "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.LogError(ctx, "load config", err)
		return 1
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.LogError(ctx, "set log level", err)
		return 1
	}

	app := fx.New(options(cfg))

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		logging.LogError(ctx, "server start failed", err, zap.String("addr", cfg.Addr()))
		return 1
	}

	sig := <-app.Wait()
	logging.LogInfo(ctx, "shutdown signal received",
		zap.String("signal", fmt.Sprint(sig.Signal)),
		zap.Int("exitCode", sig.ExitCode),
	)

	stopCtx, cancelStop := context.WithTimeout(ctx, app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		logging.LogError(ctx, "server shutdown error", err)
		return 1
	}
	return sig.ExitCode
}

// options composes the application from its configuration.
func options(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg, server.BuildInfo{Version: Version}),
		fx.Provide(logging.Logger),
		fx.WithLogger(newEventLogger),
		fx.StopTimeout(cfg.ShutdownTimeout),
		server.Module,
		fx.Invoke(routes.Register),
	)
}

// newEventLogger routes fx lifecycle events through zap at debug level.
func newEventLogger(log *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: log.Named("fx")}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
}
