package usecase

import (
	"context"
	"errors"

	"loker/internal/domain/account"
	"loker/internal/pkg/jwt"
	ucauth "loker/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, string, string, error)
	Login(ctx context.Context, in ucauth.LoginInput) (account.Account, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	authSvc  *ucauth.Service
	accounts account.Repository
	jwt      jwt.Service
}

func NewAuthUsecase(accounts account.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(accounts), accounts: accounts, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, string, string, error) {
	a, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return account.Account{}, "", "", err
	}
	access, refresh, err := u.issue(a)
	if err != nil {
		return account.Account{}, "", "", err
	}
	return a, access, refresh, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (account.Account, string, string, error) {
	a, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return account.Account{}, "", "", err
	}
	access, refresh, err := u.issue(a)
	if err != nil {
		return account.Account{}, "", "", err
	}
	return a, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	a, err := u.accounts.GetAccountByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	return u.issue(a)
}

func (u *Auth) issue(a account.Account) (string, string, error) {
	access, err := u.jwt.GenerateAccessToken(a.ID, a.Email, string(a.Role))
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(a.ID, string(a.Role))
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}
