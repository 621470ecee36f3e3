package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"loker/internal/domain/account"
	"loker/internal/domain/asset"
	"loker/internal/metrics"
	"loker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultLinkTTL = 5 * time.Minute

// AccessTokenStore persists temporary links. Get and LatestValid report a
// miss through the bool, not an error.
type AccessTokenStore interface {
	Save(ctx context.Context, t asset.AccessToken) error
	Get(ctx context.Context, id string) (asset.AccessToken, bool, error)
	LatestValid(ctx context.Context, assetID uuid.UUID, now time.Time) (asset.AccessToken, bool, error)
}

type Viewer struct {
	ID   uuid.UUID
	Role account.Role
}

type LinkRequest struct {
	Viewer  Viewer
	AssetID uuid.UUID
	// TTL zero means the default.
	TTL   time.Duration
	Reuse bool
}

// AccessLink has a nil TokenID and ExpiresAt for public avatars.
type AccessLink struct {
	URL       string
	TokenID   *string
	ExpiresAt *time.Time
}

type AssetAccessUsecase interface {
	CanView(ctx context.Context, v Viewer, a asset.Asset) (bool, error)
	BuildAccessLink(ctx context.Context, req LinkRequest) (AccessLink, error)
	ResolveToken(ctx context.Context, tokenID string) (string, error)
}

type AssetLinkConfig struct {
	// StorageBaseURL prefixes storage refs for direct links.
	StorageBaseURL string
	// PublicBaseURL prefixes temporary link paths.
	PublicBaseURL string
	DefaultTTL    time.Duration
	MaxTTL        time.Duration
}

type AssetAccess struct {
	assets repository.AssetRepository
	apps   repository.ApplicationRepository
	tokens AccessTokenStore
	cfg    AssetLinkConfig
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewAssetAccessUsecase(assets repository.AssetRepository, apps repository.ApplicationRepository, tokens AccessTokenStore, cfg AssetLinkConfig, logger *zap.Logger) *AssetAccess {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultLinkTTL
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = time.Hour
	}
	cfg.StorageBaseURL = strings.TrimRight(cfg.StorageBaseURL, "/")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetAccess{
		assets: assets,
		apps:   apps,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (u *AssetAccess) CanView(ctx context.Context, v Viewer, a asset.Asset) (bool, error) {
	if v.ID != uuid.Nil && v.ID == a.OwnerID {
		return true, nil
	}
	if a.IsPublicAvatar() {
		return true, nil
	}
	if v.Role != account.RoleOrganization || v.ID == uuid.Nil {
		return false, nil
	}
	ok, err := u.apps.HasOrganizationLink(ctx, a.OwnerID, v.ID)
	if err != nil {
		return false, dependency("check application link", err)
	}
	return ok, nil
}

func (u *AssetAccess) BuildAccessLink(ctx context.Context, req LinkRequest) (AccessLink, error) {
	if req.AssetID == uuid.Nil {
		return AccessLink{}, invalid("asset id is required")
	}
	ttl := req.TTL
	if ttl == 0 {
		ttl = u.cfg.DefaultTTL
	}
	if ttl < time.Second || ttl > u.cfg.MaxTTL {
		return AccessLink{}, invalid("ttl must be between 1s and %s", u.cfg.MaxTTL)
	}

	a, err := u.assets.GetAsset(ctx, req.AssetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AccessLink{}, ErrNotFound
		}
		return AccessLink{}, dependency("load asset", err)
	}

	ok, err := u.CanView(ctx, req.Viewer, a)
	if err != nil {
		return AccessLink{}, err
	}
	if !ok {
		metrics.AssetLinks.WithLabelValues("forbidden").Inc()
		return AccessLink{}, ErrForbidden
	}

	if a.IsPublicAvatar() {
		metrics.AssetLinks.WithLabelValues("public").Inc()
		return AccessLink{URL: u.directURL(a)}, nil
	}

	now := u.now()
	if req.Reuse {
		t, found, err := u.tokens.LatestValid(ctx, a.ID, now)
		if err != nil {
			return AccessLink{}, dependency("find access token", err)
		}
		if found && t.ValidAt(now) {
			metrics.AssetLinks.WithLabelValues("reused").Inc()
			return u.tokenLink(t), nil
		}
	}

	t := asset.AccessToken{
		ID:         u.newID(),
		AssetID:    a.ID,
		IssuerID:   req.Viewer.ID,
		IssuerRole: string(req.Viewer.Role),
		ExpiresAt:  now.Add(ttl).UTC(),
	}
	if err := u.tokens.Save(ctx, t); err != nil {
		return AccessLink{}, dependency("save access token", err)
	}
	metrics.AssetLinks.WithLabelValues("issued").Inc()
	u.logger.Info("asset token issued",
		zap.String("asset_id", a.ID.String()),
		zap.String("issuer_id", req.Viewer.ID.String()),
		zap.String("issuer_role", t.IssuerRole),
		zap.Time("expires_at", t.ExpiresAt),
	)
	return u.tokenLink(t), nil
}

// ResolveToken returns the storage URL behind a temporary link.
func (u *AssetAccess) ResolveToken(ctx context.Context, tokenID string) (string, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return "", ErrNotFound
	}
	t, found, err := u.tokens.Get(ctx, tokenID)
	if err != nil {
		return "", dependency("load access token", err)
	}
	if !found || !t.ValidAt(u.now()) {
		return "", ErrNotFound
	}

	a, err := u.assets.GetAsset(ctx, t.AssetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", dependency("load asset", err)
	}
	return u.directURL(a), nil
}

func (u *AssetAccess) directURL(a asset.Asset) string {
	return u.cfg.StorageBaseURL + "/" + strings.TrimLeft(a.StorageRef, "/")
}

func (u *AssetAccess) tokenLink(t asset.AccessToken) AccessLink {
	id := t.ID
	exp := t.ExpiresAt
	return AccessLink{
		URL:       u.cfg.PublicBaseURL + "/api/v1/assets/temp/" + id,
		TokenID:   &id,
		ExpiresAt: &exp,
	}
}
