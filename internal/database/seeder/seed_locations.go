package seeder

import (
	"context"
	"fmt"

	"loker/internal/database"
	"loker/internal/domain/location"
)

type insertAreaFunc func(ctx context.Context, tx database.Tx, a location.Area) error

// areaInserters is keyed by level; parents must be seeded before children,
// so areas are applied in provinceFirst order.
var areaInserters = map[location.Level]insertAreaFunc{
	location.LevelProvince: func(ctx context.Context, tx database.Tx, a location.Area) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO provinces (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Name)
		return err
	},
	location.LevelRegency: func(ctx context.Context, tx database.Tx, a location.Area) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO regencies (id, province_id, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.ParentID, a.Name)
		return err
	},
	location.LevelDistrict: func(ctx context.Context, tx database.Tx, a location.Area) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO districts (id, regency_id, name) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.ParentID, a.Name)
		return err
	},
}

var provinceFirst = []location.Level{location.LevelProvince, location.LevelRegency, location.LevelDistrict}

type LocationsSeeder struct {
	Areas []location.Area
}

func (LocationsSeeder) Name() string { return "locations" }

func (s LocationsSeeder) Seed(ctx context.Context, tx database.Tx) error {
	byLevel := make(map[location.Level][]location.Area, len(provinceFirst))
	for _, a := range s.Areas {
		if _, ok := areaInserters[a.Level]; !ok {
			return fmt.Errorf("area %s: %w", a.ID, location.ErrUnknownLevel)
		}
		byLevel[a.Level] = append(byLevel[a.Level], a)
	}

	for _, lvl := range provinceFirst {
		insert := areaInserters[lvl]
		for _, a := range byLevel[lvl] {
			if err := insert(ctx, tx, a); err != nil {
				return fmt.Errorf("%s %s: %w", lvl, a.ID, err)
			}
		}
	}
	return nil
}

func DefaultAreas() []location.Area {
	return []location.Area{
		{ID: "31", Name: "DKI Jakarta", Level: location.LevelProvince},
		{ID: "32", Name: "Jawa Barat", Level: location.LevelProvince},
		{ID: "3171", Name: "Kota Jakarta Selatan", Level: location.LevelRegency, ParentID: "31"},
		{ID: "3273", Name: "Kota Bandung", Level: location.LevelRegency, ParentID: "32"},
		{ID: "317101", Name: "Jagakarsa", Level: location.LevelDistrict, ParentID: "3171"},
		{ID: "317102", Name: "Pasar Minggu", Level: location.LevelDistrict, ParentID: "3171"},
		{ID: "327301", Name: "Coblong", Level: location.LevelDistrict, ParentID: "3273"},
	}
}
