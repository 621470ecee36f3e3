package usecase

import (
	"errors"
	"fmt"

	"loker/internal/domain/quota"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("already exists")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// QuotaExceededError carries what a client needs to explain the limit.
type QuotaExceededError struct {
	CurrentCount int
	MaxAllowed   int
	Subscription quota.Tier
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %d/%d on %s plan", e.CurrentCount, e.MaxAllowed, quota.Label(e.Subscription))
}

func newQuotaExceeded(tier quota.Tier, current, max int) *QuotaExceededError {
	return &QuotaExceededError{CurrentCount: current, MaxAllowed: max, Subscription: tier}
}

// DependencyError wraps a failed store call. It matches ErrInternal and
// keeps the underlying message for logs.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrInternal
}

func dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
