package asset

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAvatar    Kind = "avatar"
	KindCV        Kind = "cv"
	KindPortfolio Kind = "portfolio"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Asset struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Kind       Kind
	StorageRef string
	Visibility Visibility
	CreatedAt  time.Time
}

// IsPublicAvatar is the only case that is served without a token.
func (a Asset) IsPublicAvatar() bool {
	return a.Kind == KindAvatar && a.Visibility == VisibilityPublic
}

// AccessToken is a temporary link to a private asset. ID is the public
// token; nothing else is signed.
type AccessToken struct {
	ID         string    `json:"id"`
	AssetID    uuid.UUID `json:"asset_id"`
	IssuerID   uuid.UUID `json:"issuer_id"`
	IssuerRole string    `json:"issuer_role"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (t AccessToken) ValidAt(now time.Time) bool {
	return t.ExpiresAt.After(now)
}
