package app

import (
	"context"
	"fmt"
	"strings"

	"loker/internal/config"
	"loker/internal/delivery/http/middleware"
	"loker/internal/delivery/http/routes"
	v1 "loker/internal/delivery/http/routes/v1"
	applog "loker/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber  *fiber.App
	Logger *zap.Logger
}

func New(cfg config.Config, deps v1.Deps) *App {
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	logger := applog.OrNop(deps.Logger)

	registerGlobalMiddleware(f, logger)
	routes.NewRegistry(deps).Register(f)

	return &App{Fiber: f, Logger: logger}
}

// Bootstrap wires the container into an App and starts the websocket hub.
// The returned cleanup stops the hub and releases every connection.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(cfg, v1.Deps{
		Config: cfg,
		DB:     c.DB,
		Redis:  c.Redis,
		Hub:    c.Hub,
		Logger: c.Logger,
	})

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(logger.Named("http"))
	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
