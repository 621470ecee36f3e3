// Package tokenstore keeps temporary asset access tokens in Redis. Each
// token is a JSON record that expires with the token, plus a per-asset
// sorted set scored by expiry used to find the latest still-valid token.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"loker/internal/config"
	"loker/internal/domain/asset"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	tokenKeyPrefix = "asset:token:"
	indexKeyPrefix = "asset:tokens:"
)

// Connect opens a client and pings it.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger, now: time.Now}
}

// WithClock replaces the time source Save uses to derive key lifetimes. It
// should be the same clock the issuer stamps ExpiresAt with.
func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	if now != nil {
		s.now = now
	}
	return s
}

func tokenKey(id string) string {
	return tokenKeyPrefix + id
}

func indexKey(assetID uuid.UUID) string {
	return indexKeyPrefix + assetID.String()
}

// Save writes the token record and indexes it under its asset. Tokens that
// are already expired are rejected.
func (s *RedisStore) Save(ctx context.Context, t asset.AccessToken) error {
	ttl := t.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("token %s already expired", t.ID)
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}

	idx := indexKey(t.AssetID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(t.ID), b, ttl)
	pipe.ZAdd(ctx, idx, redis.Z{Score: float64(t.ExpiresAt.UnixMilli()), Member: t.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	// The index lives as long as its longest-lived member.
	cur, err := s.client.PTTL(ctx, idx).Result()
	if err != nil {
		s.logger.Warn("read token index ttl failed", zap.String("asset_id", t.AssetID.String()), zap.Error(err))
		return nil
	}
	if cur < ttl {
		if err := s.client.PExpire(ctx, idx, ttl).Err(); err != nil {
			s.logger.Warn("extend token index ttl failed", zap.String("asset_id", t.AssetID.String()), zap.Error(err))
		}
	}
	return nil
}

// Get loads a token by id. Expiry is not checked here.
func (s *RedisStore) Get(ctx context.Context, id string) (asset.AccessToken, bool, error) {
	b, err := s.client.Get(ctx, tokenKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return asset.AccessToken{}, false, nil
		}
		return asset.AccessToken{}, false, err
	}
	var t asset.AccessToken
	if err := json.Unmarshal(b, &t); err != nil {
		return asset.AccessToken{}, false, fmt.Errorf("decode token %s: %w", id, err)
	}
	return t, true, nil
}

// LatestValid returns the token for assetID with the latest expiry after
// now. Index members whose expiry has passed are pruned on the way.
func (s *RedisStore) LatestValid(ctx context.Context, assetID uuid.UUID, now time.Time) (asset.AccessToken, bool, error) {
	key := indexKey(assetID)
	cutoff := strconv.FormatInt(now.UnixMilli(), 10)

	if err := s.client.ZRemRangeByScore(ctx, key, "-inf", cutoff).Err(); err != nil {
		s.logger.Warn("prune token index failed", zap.String("asset_id", assetID.String()), zap.Error(err))
	}

	ids, err := s.client.ZRevRangeByScore(ctx, key, &redis.ZRangeBy{Min: "(" + cutoff, Max: "+inf"}).Result()
	if err != nil {
		return asset.AccessToken{}, false, err
	}
	for _, id := range ids {
		t, ok, err := s.Get(ctx, id)
		if err != nil {
			return asset.AccessToken{}, false, err
		}
		if ok && t.ValidAt(now) {
			return t, true, nil
		}
	}
	return asset.AccessToken{}, false, nil
}
