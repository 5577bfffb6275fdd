package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/softwarescout/backend/internal/domain"
)

// ClickRepository records outbound tool clicks
type ClickRepository struct {
	db *sqlx.DB
}

// NewClickRepository creates a click repository
func NewClickRepository(db *sqlx.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// InsertClick stores one click
func (r *ClickRepository) InsertClick(ctx context.Context, click *domain.Click) error {
	query := `
		INSERT INTO clicks (tool_slug, user_agent, referer, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		click.ToolSlug,
		nullString(click.UserAgent),
		nullString(click.Referer),
		nullString(click.IPAddress),
		click.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}
	return nil
}
