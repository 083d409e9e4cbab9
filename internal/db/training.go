package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Store) CreateTrainingSession(ctx context.Context, ts models.TrainingSession) (*models.TrainingSession, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO training_sessions (title, module, village_id, trainer_name, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, ts.Title, ts.Module, ts.VillageID, ts.TrainerName, ts.ScheduledAt).Scan(&ts.ID, &ts.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &ts, nil
}

func (s *Store) GetTrainingSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	var ts models.TrainingSession
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, module, village_id, trainer_name, scheduled_at, created_at
		FROM training_sessions WHERE id = $1
	`, id).Scan(&ts.ID, &ts.Title, &ts.Module, &ts.VillageID, &ts.TrainerName, &ts.ScheduledAt, &ts.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	return &ts, nil
}

func (s *Store) ListTrainingSessions(ctx context.Context, limit int) ([]models.TrainingSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, module, village_id, trainer_name, scheduled_at, created_at
		FROM training_sessions ORDER BY scheduled_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		var ts models.TrainingSession
		if err := rows.Scan(&ts.ID, &ts.Title, &ts.Module, &ts.VillageID, &ts.TrainerName, &ts.ScheduledAt, &ts.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, ts)
	}
	if sessions == nil {
		sessions = []models.TrainingSession{}
	}
	return sessions, rows.Err()
}

// RecordAttendance upserts one household's attendance for a session.
func (s *Store) RecordAttendance(ctx context.Context, a models.TrainingAttendance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO training_attendance (session_id, household_id, attended)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, household_id) DO UPDATE SET
			attended = EXCLUDED.attended,
			recorded_at = NOW()
	`, a.SessionID, a.HouseholdID, a.Attended)
	if err != nil {
		return fmt.Errorf("attendance upsert failed: %w", err)
	}
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]models.TrainingAttendance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, household_id, attended, recorded_at
		FROM training_attendance WHERE session_id = $1 ORDER BY recorded_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TrainingAttendance
	for rows.Next() {
		var a models.TrainingAttendance
		if err := rows.Scan(&a.SessionID, &a.HouseholdID, &a.Attended, &a.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	if records == nil {
		records = []models.TrainingAttendance{}
	}
	return records, rows.Err()
}

// ReminderRecipient is a household phone contact for training reminders.
type ReminderRecipient struct {
	HouseholdID   uuid.UUID
	HouseholdName string
	PhoneNumber   string
}

// ListReminderRecipients returns households with a phone number in the
// session's village, or all households with phones for program-wide
// sessions.
func (s *Store) ListReminderRecipients(ctx context.Context, sessionID uuid.UUID) ([]ReminderRecipient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.name, h.phone_number
		FROM households h
		JOIN training_sessions ts ON ts.id = $1
		WHERE h.phone_number != ''
		  AND (ts.village_id IS NULL OR h.village_id = ts.village_id)
		ORDER BY h.name
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []ReminderRecipient
	for rows.Next() {
		var r ReminderRecipient
		if err := rows.Scan(&r.HouseholdID, &r.HouseholdName, &r.PhoneNumber); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
