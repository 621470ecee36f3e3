package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loker/internal/domain/account"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Email       string
	Password    string
	Role        account.Role
	DisplayName string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	accounts account.Repository
	now      func() time.Time
}

func NewService(accounts account.Repository) *Service {
	return &Service{accounts: accounts, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (account.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return account.Account{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return account.Account{}, ErrInvalidInput
	}
	if !in.Role.Valid() {
		return account.Account{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return account.Account{}, ErrInvalidInput
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return account.Account{}, ErrInternal
	}
	if exists {
		return account.Account{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return account.Account{}, ErrInternal
	}

	a := account.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.accounts.CreateAccount(ctx, a, name); err != nil {
		exists, exErr := s.accounts.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return account.Account{}, ErrEmailAlreadyRegistered
		}
		return account.Account{}, ErrInternal
	}

	return sanitizeAccount(a), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (account.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return account.Account{}, ErrInvalidCredentials
	}
	if in.Password == "" {
		return account.Account{}, ErrInvalidCredentials
	}

	a, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrInvalidCredentials
		}
		return account.Account{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)); err != nil {
		return account.Account{}, ErrInvalidCredentials
	}

	return sanitizeAccount(a), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitizeAccount(a account.Account) account.Account {
	a.PasswordHash = ""
	return a
}
