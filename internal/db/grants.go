package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kvnochieng52/upgis/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid grant status transition")
	ErrNotDisbursable    = errors.New("grant is not approved for disbursement")
)

const grantCols = `g.id, g.household_id, h.name, g.grant_type, g.amount_requested, g.amount_approved,
	g.purpose, g.status, g.submitted_at, g.reviewed_at, g.reviewed_by, g.created_at, g.updated_at`

func scanGrant(scan func(dest ...interface{}) error) (models.GrantApplication, error) {
	var g models.GrantApplication
	err := scan(
		&g.ID, &g.HouseholdID, &g.HouseholdName, &g.GrantType, &g.AmountRequested, &g.AmountApproved,
		&g.Purpose, &g.Status, &g.SubmittedAt, &g.ReviewedAt, &g.ReviewedBy, &g.CreatedAt, &g.UpdatedAt,
	)
	return g, err
}

type GrantListParams struct {
	HouseholdID *uuid.UUID
	Status      string
	GrantType   string
	Limit       int
	Offset      int
}

func buildGrantWhere(params GrantListParams) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.HouseholdID != nil {
		where += fmt.Sprintf(" AND g.household_id = $%d", argIdx)
		args = append(args, *params.HouseholdID)
		argIdx++
	}
	if params.Status != "" {
		where += fmt.Sprintf(" AND g.status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.GrantType != "" {
		where += fmt.Sprintf(" AND g.grant_type = $%d", argIdx)
		args = append(args, params.GrantType)
		argIdx++
	}

	return where, args
}

func (s *Store) ListGrants(ctx context.Context, params GrantListParams) ([]models.GrantApplication, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}

	where, args := buildGrantWhere(params)
	sql := fmt.Sprintf(
		"SELECT %s FROM grant_applications g JOIN households h ON h.id = g.household_id %s ORDER BY g.created_at DESC LIMIT $%d OFFSET $%d",
		grantCols, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var grants []models.GrantApplication
	for rows.Next() {
		g, err := scanGrant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		grants = append(grants, g)
	}
	if grants == nil {
		grants = []models.GrantApplication{}
	}
	return grants, rows.Err()
}

func (s *Store) GetGrant(ctx context.Context, id uuid.UUID) (*models.GrantApplication, error) {
	sql := fmt.Sprintf("SELECT %s FROM grant_applications g JOIN households h ON h.id = g.household_id WHERE g.id = $1", grantCols)
	g, err := scanGrant(s.pool.QueryRow(ctx, sql, id).Scan)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	return &g, nil
}

func (s *Store) CreateGrant(ctx context.Context, g models.GrantApplication) (*models.GrantApplication, error) {
	g.Status = models.GrantStatusDraft
	err := s.pool.QueryRow(ctx, `
		INSERT INTO grant_applications (household_id, grant_type, amount_requested, purpose, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, g.HouseholdID, g.GrantType, g.AmountRequested, g.Purpose, g.Status).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &g, nil
}

// TransitionGrant moves a grant to a new status after validating the move.
// Review transitions stamp the reviewer; submission stamps submitted_at.
func (s *Store) TransitionGrant(ctx context.Context, id uuid.UUID, to string, reviewerID *uuid.UUID, amountApproved *float64) (*models.GrantApplication, error) {
	current, err := s.GetGrant(ctx, id)
	if err != nil {
		return nil, err
	}

	if !models.ValidGrantTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	sql := transitionUpdateSQL(to)
	if sql == "" {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	now := time.Now().UTC()
	var tag pgconn.CommandTag
	switch to {
	case models.GrantStatusSubmitted:
		tag, err = s.pool.Exec(ctx, sql, id, to, now, current.Status)
	case models.GrantStatusApproved:
		tag, err = s.pool.Exec(ctx, sql, id, to, now, reviewerID, amountApproved, current.Status)
	default:
		tag, err = s.pool.Exec(ctx, sql, id, to, now, reviewerID, current.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// A concurrent transition moved the grant between our read and the
		// update; the status guard made this one a no-op.
		return nil, fmt.Errorf("%w: grant is no longer %s", ErrInvalidTransition, current.Status)
	}

	return s.GetGrant(ctx, id)
}

// transitionUpdateSQL returns the UPDATE for a target status. Every
// statement guards on the expected current status so concurrent
// transitions cannot both win: the loser matches zero rows.
func transitionUpdateSQL(to string) string {
	switch to {
	case models.GrantStatusSubmitted:
		return "UPDATE grant_applications SET status = $2, submitted_at = $3, updated_at = NOW() WHERE id = $1 AND status = $4"
	case models.GrantStatusApproved:
		return "UPDATE grant_applications SET status = $2, reviewed_at = $3, reviewed_by = $4, amount_approved = COALESCE($5, amount_requested), updated_at = NOW() WHERE id = $1 AND status = $6"
	case models.GrantStatusRejected, models.GrantStatusUnderReview:
		return "UPDATE grant_applications SET status = $2, reviewed_at = $3, reviewed_by = $4, updated_at = NOW() WHERE id = $1 AND status = $5"
	}
	return ""
}

// DisburseGrant records a disbursement for an approved grant and marks the
// grant disbursed, in one transaction.
func (s *Store) DisburseGrant(ctx context.Context, d models.GrantDisbursement) (*models.GrantDisbursement, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	if err := tx.QueryRow(ctx, "SELECT status FROM grant_applications WHERE id = $1 FOR UPDATE", d.GrantID).Scan(&status); err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	if status != models.GrantStatusApproved {
		return nil, fmt.Errorf("%w: status is %s", ErrNotDisbursable, status)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO grant_disbursements (grant_id, amount, method, reference, disbursed_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, disbursed_at
	`, d.GrantID, d.Amount, d.Method, d.Reference, d.DisbursedBy).Scan(&d.ID, &d.DisbursedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE grant_applications SET status = $2, updated_at = NOW() WHERE id = $1",
		d.GrantID, models.GrantStatusDisbursed); err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}

	return &d, nil
}
