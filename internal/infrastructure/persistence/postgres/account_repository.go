package postgres

import (
	"context"
	"errors"
	"fmt"

	"loker/internal/database"
	"loker/internal/domain/account"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrEmailTaken = errors.New("email already registered")

type AccountRepository struct {
	db database.DB
}

func NewAccountRepository(db database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts the account and its role profile row in one
// transaction. displayName becomes the candidate full name or the
// organization name.
func (r *AccountRepository) CreateAccount(ctx context.Context, a account.Account, displayName string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Email, a.PasswordHash, string(a.Role), a.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}

	switch a.Role {
	case account.RoleCandidate:
		_, err = tx.Exec(ctx, `INSERT INTO candidates (id, full_name) VALUES ($1, $2)`, a.ID, displayName)
	case account.RoleOrganization:
		_, err = tx.Exec(ctx, `INSERT INTO organizations (id, name) VALUES ($1, $2)`, a.ID, displayName)
	default:
		err = fmt.Errorf("unsupported role %q", a.Role)
	}
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at FROM accounts WHERE id = $1`,
		id,
	)
	return scanAccount(row)
}

func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at FROM accounts WHERE email = $1`,
		email,
	)
	return scanAccount(row)
}

func (r *AccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`,
		email,
	).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func scanAccount(row database.Row) (account.Account, error) {
	var (
		a    account.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	a.Role = account.Role(role)
	return a, nil
}
