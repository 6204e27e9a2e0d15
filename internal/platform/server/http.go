package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/janisto/greeting-service/internal/platform/config"
)

const (
	readTimeout       = 5 * time.Second
	readHeaderTimeout = 2 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 64 << 10 // 64 KB
)

// NewHTTPServer builds the *http.Server and binds its lifetime to lc. The
// listener is opened in OnStart, so a bind failure aborts application start.
// After start, srv.Addr holds the bound address.
func NewHTTPServer(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg config.Config,
	router *chi.Mux,
	logger *zap.Logger,
) *http.Server {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lcfg net.ListenConfig
			ln, err := lcfg.Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr, err)
			}
			srv.Addr = ln.Addr().String()
			logger.Info("server listening", zap.String("addr", srv.Addr))

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("serve failed", zap.Error(err), zap.String("addr", srv.Addr))
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Error("request shutdown", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down server", zap.String("addr", srv.Addr))
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			logger.Info("server exited")
			return nil
		},
	})

	return srv
}
