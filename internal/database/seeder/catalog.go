package seeder

import (
	"context"
	"fmt"

	"loker/internal/database"
)

type CatalogEntry struct {
	ID   string
	Name string
}

// Catalog fills an (id, name) lookup table such as skills or industries.
// Table is a trusted identifier from this package, never user input.
type Catalog struct {
	Table   string
	Entries []CatalogEntry
}

func (c Catalog) Name() string { return c.Table }

func (c Catalog) Seed(ctx context.Context, tx database.Tx) error {
	q := fmt.Sprintf(`INSERT INTO %s (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, c.Table)
	for _, e := range c.Entries {
		if _, err := tx.Exec(ctx, q, e.ID, e.Name); err != nil {
			return fmt.Errorf("%s %s: %w", c.Table, e.ID, err)
		}
	}
	return nil
}

func Skills() Catalog {
	return Catalog{Table: "skills", Entries: []CatalogEntry{
		{ID: "go", Name: "Go"},
		{ID: "javascript", Name: "JavaScript"},
		{ID: "typescript", Name: "TypeScript"},
		{ID: "postgresql", Name: "PostgreSQL"},
		{ID: "mongodb", Name: "MongoDB"},
		{ID: "redis", Name: "Redis"},
		{ID: "docker", Name: "Docker"},
		{ID: "figma", Name: "Figma"},
		{ID: "accounting", Name: "Accounting"},
		{ID: "copywriting", Name: "Copywriting"},
	}}
}

func Industries() Catalog {
	return Catalog{Table: "industries", Entries: []CatalogEntry{
		{ID: "technology", Name: "Technology"},
		{ID: "finance", Name: "Finance"},
		{ID: "retail", Name: "Retail"},
		{ID: "manufacturing", Name: "Manufacturing"},
		{ID: "education", Name: "Education"},
		{ID: "healthcare", Name: "Healthcare"},
	}}
}
