package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/softwarescout/backend/internal/domain"
)

// CatalogRepository reads categories, tools and comparisons
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a catalog repository
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetCategory returns the category with slug, or nil when there is none
func (r *CatalogRepository) GetCategory(ctx context.Context, slug string) (*domain.Category, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, `SELECT id, slug, name, created_at FROM categories WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", slug, err)
	}
	c := row.toDomain()
	return &c, nil
}

// ListCategoriesWithCounts returns every category with its tool count, by name
func (r *CatalogRepository) ListCategoriesWithCounts(ctx context.Context) ([]domain.CategoryWithCount, error) {
	query := `
		SELECT c.id, c.slug, c.name, c.created_at, COUNT(t.id) AS tool_count
		FROM categories c
		LEFT JOIN tools t ON t.category_slug = c.slug
		GROUP BY c.id, c.slug, c.name, c.created_at
		ORDER BY c.name`

	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]domain.CategoryWithCount, len(rows))
	for i, row := range rows {
		out[i] = domain.CategoryWithCount{Category: row.toDomain(), ToolCount: row.ToolCount}
	}
	return out, nil
}

// GetToolsByCategory returns a category's tools in insertion order
func (r *CatalogRepository) GetToolsByCategory(ctx context.Context, categorySlug string) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE category_slug = $1 ORDER BY created_at, slug`

	var rows []toolRow
	if err := r.db.SelectContext(ctx, &rows, query, categorySlug); err != nil {
		return nil, fmt.Errorf("failed to get tools for category %s: %w", categorySlug, err)
	}
	return toolsFromRows(rows), nil
}

// GetTool returns the tool with slug, or nil when there is none
func (r *CatalogRepository) GetTool(ctx context.Context, slug string) (*domain.Tool, error) {
	var row toolRow
	err := r.db.GetContext(ctx, &row, `SELECT `+toolColumns+` FROM tools WHERE slug = $1`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tool %s: %w", slug, err)
	}
	t := row.toDomain()
	return &t, nil
}

// GetToolsBySlugs returns the tools whose slug is in slugs, in insertion order
func (r *CatalogRepository) GetToolsBySlugs(ctx context.Context, slugs []string) ([]domain.Tool, error) {
	if len(slugs) == 0 {
		return []domain.Tool{}, nil
	}

	query := `SELECT ` + toolColumns + ` FROM tools WHERE slug = ANY($1) ORDER BY created_at, slug`

	var rows []toolRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(slugs)); err != nil {
		return nil, fmt.Errorf("failed to get tools by slug: %w", err)
	}
	return toolsFromRows(rows), nil
}

// GetAlternatives returns up to limit other tools of the tool's category
func (r *CatalogRepository) GetAlternatives(ctx context.Context, tool *domain.Tool, limit int) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + `
		FROM tools
		WHERE category_slug = $1 AND slug <> $2
		ORDER BY created_at, slug
		LIMIT $3`

	var rows []toolRow
	if err := r.db.SelectContext(ctx, &rows, query, tool.CategorySlug, tool.Slug, limit); err != nil {
		return nil, fmt.Errorf("failed to get alternatives for %s: %w", tool.Slug, err)
	}
	return toolsFromRows(rows), nil
}

// SearchTools matches pattern, an escaped ILIKE pattern, against name and description
func (r *CatalogRepository) SearchTools(ctx context.Context, pattern string, limit int) ([]domain.Tool, error) {
	query := `SELECT ` + toolColumns + `
		FROM tools
		WHERE name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY name
		LIMIT $2`

	var rows []toolRow
	if err := r.db.SelectContext(ctx, &rows, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("failed to search tools: %w", err)
	}
	return toolsFromRows(rows), nil
}

// ListToolSlugs returns every tool slug, sorted
func (r *CatalogRepository) ListToolSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, `SELECT slug FROM tools ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("failed to list tool slugs: %w", err)
	}
	return slugs, nil
}

// ListCategorySlugs returns every category slug, sorted
func (r *CatalogRepository) ListCategorySlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, `SELECT slug FROM categories ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("failed to list category slugs: %w", err)
	}
	return slugs, nil
}

// GetComparison returns the comparison of a against b in that order, or nil
func (r *CatalogRepository) GetComparison(ctx context.Context, toolASlug, toolBSlug string) (*domain.Comparison, error) {
	query := `
		SELECT id, tool_a_slug, tool_b_slug, category_slug, tool_a_overview, tool_b_overview,
			feature_comparison, pricing_comparison, verdict, created_at
		FROM comparisons
		WHERE tool_a_slug = $1 AND tool_b_slug = $2`

	var row comparisonRow
	err := r.db.GetContext(ctx, &row, query, toolASlug, toolBSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison %s-vs-%s: %w", toolASlug, toolBSlug, err)
	}
	c := row.toDomain()
	return &c, nil
}

// ListComparisonPairs returns the slug pair of every comparison
func (r *CatalogRepository) ListComparisonPairs(ctx context.Context) ([]domain.ComparisonPair, error) {
	pairs := []domain.ComparisonPair{}
	query := `SELECT tool_a_slug, tool_b_slug FROM comparisons ORDER BY tool_a_slug, tool_b_slug`
	if err := r.db.SelectContext(ctx, &pairs, query); err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	return pairs, nil
}
