package v1

import (
	"loker/internal/config"
	"loker/internal/database"
	"loker/internal/delivery/http/handler"
	"loker/internal/delivery/http/middleware"
	"loker/internal/domain/account"
	"loker/internal/infrastructure/persistence/postgres"
	"loker/internal/infrastructure/tokenstore"
	applog "loker/internal/logger"
	"loker/internal/pkg/jwt"
	"loker/internal/repository"
	"loker/internal/usecase"
	"loker/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the long-lived resources the API is built on. The caller owns
// their lifecycle, including running Hub.
type Deps struct {
	Config config.Config
	DB     database.DB
	Redis  *redis.Client
	Hub    *ws.Hub
	Logger *zap.Logger
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}
	logger := applog.OrNop(d.Logger)
	cfg := d.Config

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	accountRepo := postgres.NewAccountRepository(d.DB)
	jobRepo := repository.NewPostgresJobRepository(d.DB)
	candidateRepo := repository.NewPostgresCandidateRepository(d.DB)
	appRepo := repository.NewPostgresApplicationRepository(d.DB)
	assetRepo := repository.NewPostgresAssetRepository(d.DB)
	locationRepo := repository.NewPostgresLocationRepository(d.DB)
	tokens := tokenstore.NewRedisStore(d.Redis, logger.Named("tokenstore"))

	authUC := usecase.NewAuthUsecase(accountRepo, jwtSvc)
	feedUC := usecase.NewJobFeedUsecase(jobRepo, candidateRepo, appRepo, cfg.Feed.DefaultPageSize, cfg.Feed.MaxPageSize, logger.Named("feed"))
	matchUC := usecase.NewMatchUsecase(jobRepo, candidateRepo)
	savedUC := usecase.NewSavedJobsUsecase(candidateRepo, jobRepo, logger.Named("saved_jobs"))
	appUC := usecase.NewApplicationUsecase(appRepo, jobRepo, candidateRepo, d.Hub, logger.Named("applications"))
	assetUC := usecase.NewAssetAccessUsecase(assetRepo, appRepo, tokens, usecase.AssetLinkConfig{
		StorageBaseURL: cfg.Assets.StorageBaseURL,
		PublicBaseURL:  cfg.App.PublicBaseURL,
		DefaultTTL:     cfg.Assets.DefaultLinkTTL,
		MaxTTL:         cfg.Assets.MaxLinkTTL,
	}, logger.Named("assets"))
	locationUC := usecase.NewLocationUsecase(locationRepo.Directory())

	authHandler := handler.NewAuthHandler(authUC)
	feedHandler := handler.NewJobFeedHandler(feedUC)
	matchHandler := handler.NewMatchHandler(matchUC)
	savedHandler := handler.NewSavedJobsHandler(savedUC)
	appHandler := handler.NewApplicationHandler(appUC)
	assetHandler := handler.NewAssetHandler(assetUC)
	locationHandler := handler.NewLocationHandler(locationUC)
	wsHandler := ws.NewHandler(d.Hub, jwtSvc, ws.RoomPolicy{Applications: appUC}, logger.Named("ws"))

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	assetHandler.RegisterPublicRoutes(r)
	locationHandler.RegisterRoutes(r)
	r.Get("/ws", wsHandler.HandleWS)

	protected := r.Group("", authMw.Middleware())
	assetHandler.RegisterRoutes(protected)

	candidates := protected.Group("", middleware.RequireRole(account.RoleCandidate))
	feedHandler.RegisterRoutes(candidates)
	matchHandler.RegisterRoutes(candidates)
	savedHandler.RegisterRoutes(candidates)
	appHandler.RegisterRoutes(candidates)
}
