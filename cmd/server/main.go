// Package main - Entry point for the payout-calc HTTP server
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

	"go.uber.org/zap"

	"payout-calc/api"
	"payout-calc/internal/config"
	"payout-calc/internal/logging"
)

const version = "1.0.0"

const shutdownTimeout = 15 * time.Second

func main() {
	cfgPath := flag.String("config", "", "config file, JSON or .hcl (default is $HOME/.payout-calc.json)")
	addr := flag.String("addr", "", "server address (overrides server.addr)")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	srv := api.NewServer(version, cfg, logging.Named("api")).HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("payout-calc server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", version),
			zap.Float64("flat_rate", cfg.Rates.FlatRate),
			zap.Float64("tds_rate", cfg.Rates.TDSRate),
			zap.Float64("tcs_rate", cfg.Rates.TCSRate))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		logging.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("shutdown failed", zap.Error(err))
		}
	}
}

func loadConfig(path, addr string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
