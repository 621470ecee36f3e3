package dto

import (
	"time"

	"loker/internal/domain/account"

	"github.com/google/uuid"
)

type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAccountResponse(a account.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Email: a.Email, Role: string(a.Role), CreatedAt: a.CreatedAt}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	Account AccountResponse `json:"account"`
	TokenResponse
}
