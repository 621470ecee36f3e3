package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loker/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		defer func() { _ = log.Sync() }()

		addr, err := app.ListenAddr(cfg.App.HTTPPort)
		if err != nil {
			return fmt.Errorf("invalid HTTP port: %w", err)
		}

		bootstrap, cleanup, err := app.Bootstrap(cfg)
		if err != nil {
			return fmt.Errorf("bootstrap app: %w", err)
		}
		defer func() {
			if err := cleanup(); err != nil {
				log.Warn("cleanup error", zap.Error(err))
			}
		}()

		errCh := make(chan error, 1)
		go func() {
			log.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.App.Environment))
			errCh <- bootstrap.Fiber.Listen(addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-sigCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
				log.Warn("shutdown error", zap.Error(err))
			}
		}
		return nil
	},
}
