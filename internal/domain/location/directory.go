package location

import (
	"context"
	"errors"
)

var ErrAreaNotFound = errors.New("area not found")

type LookupFunc func(ctx context.Context, id string) (Area, error)

// Directory resolves an area by level through a fixed dispatch table, one
// lookup function per level.
type Directory struct {
	lookups map[Level]LookupFunc
}

func NewDirectory(province, regency, district LookupFunc) *Directory {
	return &Directory{lookups: map[Level]LookupFunc{
		LevelProvince: province,
		LevelRegency:  regency,
		LevelDistrict: district,
	}}
}

func (d *Directory) Lookup(ctx context.Context, level Level, id string) (Area, error) {
	fn, ok := d.lookups[level]
	if !ok || fn == nil {
		return Area{}, ErrUnknownLevel
	}
	a, err := fn(ctx, id)
	if err != nil {
		return Area{}, err
	}
	a.Level = level
	return a, nil
}
