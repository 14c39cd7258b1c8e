package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/payout-simulator/internal/logging"
	"github.com/iwvelando/payout-simulator/internal/server"
	"github.com/iwvelando/payout-simulator/internal/store"
	"github.com/iwvelando/payout-simulator/internal/store/memory"
	"github.com/iwvelando/payout-simulator/internal/store/sqlite"
	"github.com/iwvelando/payout-simulator/pkg/constants"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func openStore(path string) (store.Store, error) {
	if path == server.MemoryDatabase {
		return memory.New(), nil
	}
	return sqlite.New(path)
}

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override, e.g. :8080")
	dbPath := flag.String("db", "", "SQLite database path override (\"memory\" keeps data in process)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := openStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open scenario store",
			zap.String("op", "main"),
			zap.String("database", cfg.DatabasePath),
			zap.Error(err),
		)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close scenario store", zap.String("op", "main"), zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      server.NewHandler(logger, st, cfg.UploadSizeBytes(), version, cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("database", cfg.DatabasePath),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serveErr:
		if ok {
			logger.Error("server failed", zap.String("op", "main"), zap.Error(err))
			return
		}
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("op", "main"), zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.String("op", "main"), zap.Error(err))
		return
	}
	logger.Info("server stopped", zap.String("op", "main"))
}
