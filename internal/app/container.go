package app

import (
	"context"
	"errors"
	"time"

	"loker/internal/config"
	"loker/internal/database"
	dbpostgres "loker/internal/database/postgres"
	"loker/internal/infrastructure/tokenstore"
	"loker/internal/logger"
	"loker/internal/ws"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Redis  *redis.Client
	Hub    *ws.Hub
}

func NewContainer(cfg config.Config) (*Container, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := tokenstore.Connect(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Redis:  rdb,
		Hub:    ws.NewHub(log.Named("hub")),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
