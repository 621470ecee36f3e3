package account

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate    Role = "candidate"
	RoleOrganization Role = "organization"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleOrganization
}

type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
