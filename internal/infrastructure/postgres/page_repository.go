package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/softwarescout/backend/internal/domain"
)

// PageRepository stores generated industry pages
type PageRepository struct {
	db *sqlx.DB
}

// NewPageRepository creates a page repository
func NewPageRepository(db *sqlx.DB) *PageRepository {
	return &PageRepository{db: db}
}

// GetIndustryPage returns the page with slug, or nil when there is none
func (r *PageRepository) GetIndustryPage(ctx context.Context, slug string) (*domain.IndustryPage, error) {
	query := `
		SELECT slug, software_category, industry, title, meta_description, intro, buying_guide,
			recommendations, faq, created_at, updated_at
		FROM industry_pages
		WHERE slug = $1`

	var row pageRow
	err := r.db.GetContext(ctx, &row, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get industry page %s: %w", slug, err)
	}

	page, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode industry page %s: %w", slug, err)
	}
	return page, nil
}

// UpsertIndustryPage inserts the page or replaces the one with the same slug.
// created_at survives a replace.
func (r *PageRepository) UpsertIndustryPage(ctx context.Context, page *domain.IndustryPage) error {
	recs := page.Recommendations
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	recommendations, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}
	faqs := page.FAQ
	if faqs == nil {
		faqs = []domain.FAQ{}
	}
	faq, err := json.Marshal(faqs)
	if err != nil {
		return fmt.Errorf("failed to encode faq: %w", err)
	}

	query := `
		INSERT INTO industry_pages (
			slug, software_category, industry, title, meta_description, intro, buying_guide,
			recommendations, faq, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (slug) DO UPDATE SET
			software_category = EXCLUDED.software_category,
			industry = EXCLUDED.industry,
			title = EXCLUDED.title,
			meta_description = EXCLUDED.meta_description,
			intro = EXCLUDED.intro,
			buying_guide = EXCLUDED.buying_guide,
			recommendations = EXCLUDED.recommendations,
			faq = EXCLUDED.faq,
			updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		page.Slug, page.SoftwareCategory, page.Industry, page.Title, page.MetaDescription,
		page.Intro, page.BuyingGuide, recommendations, faq,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert industry page %s: %w", page.Slug, err)
	}
	return nil
}

// ListIndustryPageSlugs returns every page slug, sorted
func (r *PageRepository) ListIndustryPageSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, `SELECT slug FROM industry_pages ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("failed to list industry page slugs: %w", err)
	}
	return slugs, nil
}

// ListIndustryPageRefs returns a listing entry for every page, sorted by slug
func (r *PageRepository) ListIndustryPageRefs(ctx context.Context) ([]domain.IndustryPageRef, error) {
	refs := []domain.IndustryPageRef{}
	query := `SELECT slug, software_category, industry, title, updated_at FROM industry_pages ORDER BY slug`
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("failed to list industry pages: %w", err)
	}
	return refs, nil
}

// ListRelatedPages returns up to limit other pages of the same category
func (r *PageRepository) ListRelatedPages(
	ctx context.Context,
	categorySlug, excludeSlug string,
	limit int,
) ([]domain.IndustryPageRef, error) {
	refs := []domain.IndustryPageRef{}
	query := `
		SELECT slug, software_category, industry, title, updated_at
		FROM industry_pages
		WHERE software_category = $1 AND slug <> $2
		ORDER BY slug
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &refs, query, categorySlug, excludeSlug, limit); err != nil {
		return nil, fmt.Errorf("failed to list related pages for %s: %w", excludeSlug, err)
	}
	return refs, nil
}

// CountIndustryPages counts the pages of a category, or all pages when categorySlug is empty
func (r *PageRepository) CountIndustryPages(ctx context.Context, categorySlug string) (int, error) {
	var (
		count int
		err   error
	)
	if categorySlug == "" {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM industry_pages`)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM industry_pages WHERE software_category = $1`, categorySlug)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count industry pages: %w", err)
	}
	return count, nil
}
