package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/softwarescout/backend/internal/domain"
)

// LeadRepository stores buyer leads
type LeadRepository struct {
	db *sqlx.DB
}

// NewLeadRepository creates a lead repository
func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// InsertLead stores a new lead
func (r *LeadRepository) InsertLead(ctx context.Context, lead *domain.Lead) error {
	matched := lead.MatchedTools
	if matched == nil {
		matched = []domain.MatchedTool{}
	}
	matchedJSON, err := json.Marshal(matched)
	if err != nil {
		return fmt.Errorf("failed to encode matched tools: %w", err)
	}

	requirements := lead.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	query := `
		INSERT INTO leads (
			id, software_category, industry, company_name, company_size, budget, requirements,
			matched_tools, name, email, phone, source_page, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.ExecContext(ctx, query,
		lead.ID,
		lead.SoftwareCategory,
		nullString(lead.Industry),
		nullString(lead.CompanyName),
		nullString(lead.CompanySize),
		nullString(string(lead.Budget)),
		pq.Array(requirements),
		matchedJSON,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		nullString(lead.SourcePage),
		string(lead.Status),
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

// ListLeads returns leads matching filter ordered by creation time
func (r *LeadRepository) ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, error) {
	var (
		conditions []string
		args       []any
	)
	argIndex := 1

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("software_category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(filter.Status))
		argIndex++
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY created_at %s LIMIT $%d", order, argIndex)
	args = append(args, filter.Limit)

	var rows []leadRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	leads := make([]domain.Lead, len(rows))
	for i, row := range rows {
		leads[i] = row.toDomain()
	}
	return leads, nil
}

// GetLead returns the lead with id, or nil when there is none
func (r *LeadRepository) GetLead(ctx context.Context, id string) (*domain.Lead, error) {
	var row leadRow
	err := r.db.GetContext(ctx, &row, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead %s: %w", id, err)
	}
	lead := row.toDomain()
	return &lead, nil
}

// UpdateLeadStatus sets a lead's status
func (r *LeadRepository) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE leads SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update lead %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}
