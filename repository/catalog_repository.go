package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"snaplaw-backend/models"
)

// CatalogRepository loads the risk pattern catalog from Postgres. The table
// is static configuration data seeded by cmd/seed-catalog; it is read once
// at process start and never written by the server.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// LoadCatalog reads all risk patterns ordered by id
func (r *CatalogRepository) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, category, severity, phrases, explanation_template
		FROM risk_patterns
		ORDER BY id`)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to query risk patterns: %w", err)
	}
	defer rows.Close()

	var catalog models.Catalog
	for rows.Next() {
		var p models.RiskPattern
		var category, severity string
		if err := rows.Scan(&p.ID, &p.Title, &category, &severity, &p.Phrases, &p.ExplanationTemplate); err != nil {
			return models.Catalog{}, fmt.Errorf("failed to scan risk pattern: %w", err)
		}
		p.Category = models.Category(category)
		p.Severity = models.Severity(severity)
		catalog.Patterns = append(catalog.Patterns, p)
	}
	if err := rows.Err(); err != nil {
		return models.Catalog{}, fmt.Errorf("error iterating risk patterns: %w", err)
	}
	return catalog, nil
}

// EnsureSchema creates the risk_patterns table if it does not exist
func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS risk_patterns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			severity TEXT NOT NULL,
			phrases TEXT[] NOT NULL,
			explanation_template TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create risk_patterns table: %w", err)
	}
	return nil
}

// Seed upserts the given catalog into the table
func (r *CatalogRepository) Seed(ctx context.Context, catalog models.Catalog) error {
	for _, p := range catalog.Patterns {
		_, err := r.db.Exec(ctx, `
			INSERT INTO risk_patterns (id, title, category, severity, phrases, explanation_template)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				category = EXCLUDED.category,
				severity = EXCLUDED.severity,
				phrases = EXCLUDED.phrases,
				explanation_template = EXCLUDED.explanation_template`,
			p.ID, p.Title, string(p.Category), string(p.Severity), p.Phrases, p.ExplanationTemplate)
		if err != nil {
			return fmt.Errorf("failed to seed pattern %s: %w", p.ID, err)
		}
	}
	return nil
}
