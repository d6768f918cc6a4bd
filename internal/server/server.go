// Package server boots the catalog API: configuration, database,
// cache, storage, log sinks, then the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bazario/catalog/config"
	"github.com/bazario/catalog/internal/kernel"
	"github.com/bazario/catalog/pkg/cache"
	"github.com/bazario/catalog/pkg/database"
	"github.com/bazario/catalog/pkg/logger"
	"github.com/bazario/catalog/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Start boots every subsystem and serves until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if sink := logger.EnableMongoSink(); sink != nil {
		defer sink.Close()
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("server: connect database: %w", err)
	}

	// Redis is optional; without it tokens simply cannot be revoked
	// before they expire.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, token revocation disabled", "error", err)
	}

	storage.Connect()

	k := kernel.New(database.DB, storage.Use(config.StorageDefault()))

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("server: shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
