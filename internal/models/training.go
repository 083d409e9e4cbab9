package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingSession is a scheduled training event households attend.
type TrainingSession struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Module      string     `json:"module"`
	VillageID   *uuid.UUID `json:"village_id,omitempty"`
	TrainerName string     `json:"trainer_name"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TrainingAttendance marks a household's presence at a session.
type TrainingAttendance struct {
	SessionID   uuid.UUID `json:"session_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Attended    bool      `json:"attended"`
	RecordedAt  time.Time `json:"recorded_at"`
}
