package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

type Repository interface {
	CreateAccount(ctx context.Context, a Account, displayName string) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
