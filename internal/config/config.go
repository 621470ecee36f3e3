package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Assets   AssetsConfig
	Feed     FeedConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	PublicBaseURL string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type AssetsConfig struct {
	StorageBaseURL string
	DefaultLinkTTL time.Duration
	MaxLinkTTL     time.Duration
}

type FeedConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type LogConfig struct {
	Level  string
	Format string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)
	v.SetDefault("ASSET_LINK_TTL", 5*time.Minute)
	v.SetDefault("ASSET_LINK_MAX_TTL", time.Hour)
	v.SetDefault("FEED_PAGE_SIZE", 10)
	v.SetDefault("FEED_MAX_PAGE_SIZE", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   opt("APP_ENV"),
		HTTPPort:      opt("HTTP_PORT"),
		PublicBaseURL: strings.TrimRight(req("PUBLIC_BASE_URL"), "/"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                req("DB_PORT"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Assets = AssetsConfig{
		StorageBaseURL: strings.TrimRight(req("ASSET_STORAGE_BASE_URL"), "/"),
		DefaultLinkTTL: v.GetDuration("ASSET_LINK_TTL"),
		MaxLinkTTL:     v.GetDuration("ASSET_LINK_MAX_TTL"),
	}

	cfg.Feed = FeedConfig{
		DefaultPageSize: v.GetInt("FEED_PAGE_SIZE"),
		MaxPageSize:     v.GetInt("FEED_MAX_PAGE_SIZE"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL")),
		Format: strings.ToLower(opt("LOG_FORMAT")),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if cfg.Assets.DefaultLinkTTL <= 0 || cfg.Assets.MaxLinkTTL < cfg.Assets.DefaultLinkTTL {
		return Config{}, fmt.Errorf("invalid asset link ttl: default=%s max=%s", cfg.Assets.DefaultLinkTTL, cfg.Assets.MaxLinkTTL)
	}
	if cfg.Feed.DefaultPageSize <= 0 || cfg.Feed.MaxPageSize < cfg.Feed.DefaultPageSize {
		return Config{}, fmt.Errorf("invalid feed page size: default=%d max=%d", cfg.Feed.DefaultPageSize, cfg.Feed.MaxPageSize)
	}

	return cfg, nil
}
