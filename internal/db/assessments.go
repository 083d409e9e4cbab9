package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/kvnochieng52/upgis/internal/models"
)

// SaveAssessment persists an engine result for later dashboards and
// history views. payload is the full ScoreResult or QualificationResult.
func (s *Store) SaveAssessment(ctx context.Context, a models.Assessment, payload interface{}) (*models.Assessment, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding assessment payload: %w", err)
	}
	a.Result = raw

	err = s.pool.QueryRow(ctx, `
		INSERT INTO assessments (household_id, kind, total_score, eligibility_level, qualified, result, assessed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, a.HouseholdID, a.Kind, a.TotalScore, a.EligibilityLevel, a.Qualified, raw, a.AssessedBy).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	return &a, nil
}

// ListAssessments returns a household's assessment history, newest first.
func (s *Store) ListAssessments(ctx context.Context, householdID uuid.UUID, limit int) ([]models.Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, household_id, kind, total_score, eligibility_level, qualified, result, assessed_by, created_at
		FROM assessments
		WHERE household_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, householdID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []models.Assessment
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(
			&a.ID, &a.HouseholdID, &a.Kind, &a.TotalScore, &a.EligibilityLevel,
			&a.Qualified, &a.Result, &a.AssessedBy, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if assessments == nil {
		assessments = []models.Assessment{}
	}
	return assessments, rows.Err()
}

// EligibilityDashboard aggregates the latest eligibility assessment per
// household for the program dashboard.
type EligibilityDashboard struct {
	TotalHouseholds    int            `json:"total_households"`
	AssessedHouseholds int            `json:"assessed_households"`
	EligibleCount      int            `json:"eligible_count"`
	EligibilityRate    float64        `json:"eligibility_rate"`
	AverageScore       float64        `json:"average_score"`
	LevelCounts        map[string]int `json:"level_counts"`
}

func (s *Store) GetEligibilityDashboard(ctx context.Context) (*EligibilityDashboard, error) {
	dash := &EligibilityDashboard{LevelCounts: map[string]int{}}

	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM households").Scan(&dash.TotalHouseholds); err != nil {
		return nil, fmt.Errorf("count households: %w", err)
	}

	// Latest eligibility assessment per household.
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (household_id) eligibility_level, total_score
		FROM assessments
		WHERE kind = 'eligibility'
		ORDER BY household_id, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregate assessments: %w", err)
	}
	defer rows.Close()

	var scoreSum float64
	for rows.Next() {
		var level string
		var score float64
		if err := rows.Scan(&level, &score); err != nil {
			return nil, err
		}
		dash.AssessedHouseholds++
		dash.LevelCounts[level]++
		scoreSum += score
		if level == "highly_eligible" || level == "eligible" {
			dash.EligibleCount++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if dash.AssessedHouseholds > 0 {
		dash.AverageScore = roundTwo(scoreSum / float64(dash.AssessedHouseholds))
		dash.EligibilityRate = roundTwo(float64(dash.EligibleCount) / float64(dash.AssessedHouseholds) * 100)
	}

	return dash, nil
}

func roundTwo(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetStats returns headline counts for the public stats endpoint.
func (s *Store) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := []struct {
		key string
		sql string
	}{
		{"households", "SELECT COUNT(*) FROM households"},
		{"villages", "SELECT COUNT(*) FROM villages"},
		{"program_area_villages", "SELECT COUNT(*) FROM villages WHERE is_program_area = true"},
		{"assessments", "SELECT COUNT(*) FROM assessments"},
		{"grants", "SELECT COUNT(*) FROM grant_applications"},
		{"disbursed_grants", "SELECT COUNT(*) FROM grant_applications WHERE status = 'disbursed'"},
		{"training_sessions", "SELECT COUNT(*) FROM training_sessions"},
		{"savings_groups", "SELECT COUNT(*) FROM savings_groups"},
	}
	for _, c := range counts {
		var n int
		if err := s.pool.QueryRow(ctx, c.sql).Scan(&n); err != nil {
			return nil, fmt.Errorf("stats %s: %w", c.key, err)
		}
		stats[c.key] = n
	}

	grantStatus := map[string]int{}
	rows, err := s.pool.Query(ctx, "SELECT status, COUNT(*) FROM grant_applications GROUP BY status")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if scanErr := rows.Scan(&status, &count); scanErr == nil {
				grantStatus[status] = count
			}
		}
	}
	stats["grant_status_counts"] = grantStatus

	return stats, nil
}

// ListBatchCandidates loads snapshots for a batch assessment. With no IDs
// given it takes every household up to the limit.
func (s *Store) ListBatchCandidates(ctx context.Context, ids []uuid.UUID, limit int) ([]uuid.UUID, error) {
	if len(ids) > 0 {
		return ids, nil
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, "SELECT id FROM households ORDER BY created_at ASC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
