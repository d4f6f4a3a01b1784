// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/owntone/go-libretune-server/internal/api"
	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/artwork"
	"github.com/owntone/go-libretune-server/internal/browse"
	"github.com/owntone/go-libretune-server/internal/config"
	"github.com/owntone/go-libretune-server/internal/database"
	"github.com/owntone/go-libretune-server/internal/eventwait"
	"github.com/owntone/go-libretune-server/internal/external"
	"github.com/owntone/go-libretune-server/internal/logging"
	"github.com/owntone/go-libretune-server/internal/middleware"
)

// unconfiguredTranscoder reports External for every request. It stands in
// for the out-of-scope transcoder when the server is run without one: the
// catalog, browse, and protocol layers all work without it, and a client
// that tries to stream simply gets a clean failure instead of a nil
// pointer.
type unconfiguredTranscoder struct{}

func (unconfiguredTranscoder) StreamItem(_ context.Context, _ int64, _ string) (io.ReadCloser, error) {
	return nil, apperr.New(apperr.External, errors.New("no transcoder configured"))
}

func main() {
	var cfgPath string
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("library", cfg.Library.Name).Int("port", cfg.Library.Port).Msg("starting server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open catalog")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing catalog")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	artStore, err := artwork.Open(ctx, &cfg.Artwork)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open artwork cache")
	}
	defer func() {
		if err := artStore.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing artwork cache")
		}
	}()

	engine := browse.NewEngine()
	updates := eventwait.NewHub()
	transcoder := external.NewCircuitBreakerTranscoder(unconfiguredTranscoder{})

	server := api.NewServer(db, engine, artStore, updates, transcoder, cfg.Library.Name)

	router := chi.NewRouter()
	router.Use(middleware.CORS(middleware.ChiConfig{CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins}))
	router.Use(middleware.RateLimit(middleware.ChiConfig{
		RateLimitRequests: cfg.HTTP.RateLimitRequests,
		RateLimitWindow:   cfg.HTTP.RateLimitWindow,
	}))
	router.Use(adapt(middleware.RequestID))
	router.Use(adapt(middleware.Compression))
	router.Use(adapt(middleware.PrometheusMetrics))
	server.Mount(router)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Library.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming responses can run indefinitely
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("error during graceful shutdown")
	}

	logging.Info().Msg("server stopped")
}

// adapt lifts a middleware written as func(http.HandlerFunc) http.HandlerFunc
// (internal/middleware's shape) into the func(http.Handler) http.Handler shape
// chi's Router.Use expects.
func adapt(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}
