package models

import (
	"time"

	"github.com/google/uuid"
)

// Grant types in the UPG model: seed business grants fund the initial
// enterprise, performance recognition grants reward milestone progress.
const (
	GrantTypeSeedBusiness           = "sb_grant"
	GrantTypePerformanceRecognition = "pr_grant"
)

// Grant application statuses.
const (
	GrantStatusDraft       = "draft"
	GrantStatusSubmitted   = "submitted"
	GrantStatusUnderReview = "under_review"
	GrantStatusApproved    = "approved"
	GrantStatusRejected    = "rejected"
	GrantStatusDisbursed   = "disbursed"
)

// grantTransitions defines the allowed status moves. Disbursal happens
// through the disbursement endpoint, not a direct status change.
var grantTransitions = map[string][]string{
	GrantStatusDraft:       {GrantStatusSubmitted},
	GrantStatusSubmitted:   {GrantStatusUnderReview, GrantStatusRejected},
	GrantStatusUnderReview: {GrantStatusApproved, GrantStatusRejected},
	GrantStatusApproved:    {GrantStatusRejected},
}

// ValidGrantTransition reports whether a grant may move between statuses.
func ValidGrantTransition(from, to string) bool {
	for _, allowed := range grantTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidGrantType reports whether the type is one of the known grant kinds.
func ValidGrantType(t string) bool {
	return t == GrantTypeSeedBusiness || t == GrantTypePerformanceRecognition
}

// GrantApplication tracks a household's grant through its lifecycle.
type GrantApplication struct {
	ID              uuid.UUID  `json:"id"`
	HouseholdID     uuid.UUID  `json:"household_id"`
	HouseholdName   string     `json:"household_name,omitempty"`
	GrantType       string     `json:"grant_type"`
	AmountRequested float64    `json:"amount_requested"`
	AmountApproved  *float64   `json:"amount_approved,omitempty"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *uuid.UUID `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Disbursement methods.
const (
	DisbursementMethodMpesa = "mpesa"
	DisbursementMethodBank  = "bank"
	DisbursementMethodCash  = "cash"
)

// GrantDisbursement records money leaving the program for an approved grant.
type GrantDisbursement struct {
	ID          uuid.UUID  `json:"id"`
	GrantID     uuid.UUID  `json:"grant_id"`
	Amount      float64    `json:"amount"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	DisbursedBy *uuid.UUID `json:"disbursed_by,omitempty"`
	DisbursedAt time.Time  `json:"disbursed_at"`
}
