package models

import (
	"time"

	"github.com/google/uuid"
)

// Savings group kinds: business savings groups pool enterprise capital,
// village savings and loan associations run rotating credit.
const (
	GroupTypeBusinessSavings = "bsg"
	GroupTypeVillageSavings  = "vsla"
)

// Savings group member roles.
const (
	GroupRoleChair     = "chair"
	GroupRoleTreasurer = "treasurer"
	GroupRoleSecretary = "secretary"
	GroupRoleMember    = "member"
)

// SavingsGroup is a household collective with pooled savings.
type SavingsGroup struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	GroupType    string     `json:"group_type"`
	VillageID    *uuid.UUID `json:"village_id,omitempty"`
	MeetingDay   string     `json:"meeting_day"`
	TotalSavings float64    `json:"total_savings"`
	MemberCount  int        `json:"member_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SavingsGroupMember links a household into a group.
type SavingsGroupMember struct {
	GroupID     uuid.UUID `json:"group_id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}
