package dto

import "time"

// AssetLinkResponse carries a null token for public assets.
type AssetLinkResponse struct {
	URL       string     `json:"url"`
	TokenID   *string    `json:"token_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}
