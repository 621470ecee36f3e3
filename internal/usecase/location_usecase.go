package usecase

import (
	"context"
	"errors"
	"strings"

	"loker/internal/domain/location"
)

type LocationUsecase interface {
	Lookup(ctx context.Context, level, id string) (location.Area, error)
}

type LocationDirectory struct {
	dir *location.Directory
}

func NewLocationUsecase(dir *location.Directory) *LocationDirectory {
	return &LocationDirectory{dir: dir}
}

func (u *LocationDirectory) Lookup(ctx context.Context, level, id string) (location.Area, error) {
	lv, err := location.ParseLevel(level)
	if err != nil {
		return location.Area{}, invalid("unknown location level %q", level)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return location.Area{}, invalid("location id is required")
	}

	a, err := u.dir.Lookup(ctx, lv, id)
	if err != nil {
		if errors.Is(err, location.ErrAreaNotFound) {
			return location.Area{}, ErrNotFound
		}
		if errors.Is(err, location.ErrUnknownLevel) {
			return location.Area{}, invalid("unknown location level %q", level)
		}
		return location.Area{}, dependency("lookup location", err)
	}
	return a, nil
}
