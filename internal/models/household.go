package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Household is a registered household in the UPG program.
type Household struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	VillageID      uuid.UUID       `json:"village_id"`
	VillageName    string          `json:"village_name,omitempty"`
	HeadFirstName  string          `json:"head_first_name"`
	HeadMiddleName string          `json:"head_middle_name"`
	HeadLastName   string          `json:"head_last_name"`
	HeadIDNumber   string          `json:"head_id_number"`
	PhoneNumber    string          `json:"phone_number"`
	GPSLatitude    *float64        `json:"gps_latitude"`
	GPSLongitude   *float64        `json:"gps_longitude"`
	MonthlyIncome  *float64        `json:"monthly_income"`
	Assets         map[string]bool `json:"assets"`
	HasElectricity bool            `json:"has_electricity"`
	HasCleanWater  bool            `json:"has_clean_water"`
	Location       string          `json:"location"`
	ConsentGiven   bool            `json:"consent_given"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HeadFullName joins the non-empty head name parts.
func (h Household) HeadFullName() string {
	full := ""
	for _, part := range []string{h.HeadFirstName, h.HeadMiddleName, h.HeadLastName} {
		if part == "" {
			continue
		}
		if full != "" {
			full += " "
		}
		full += part
	}
	return full
}

// Member relationships to the household head.
const (
	RelationshipHead   = "head"
	RelationshipSpouse = "spouse"
	RelationshipChild  = "child"
	RelationshipOther  = "other"
)

// HouseholdMember is one person in a household roster.
type HouseholdMember struct {
	ID                 uuid.UUID `json:"id"`
	HouseholdID        uuid.UUID `json:"household_id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Gender             string    `json:"gender"`
	Age                int       `json:"age"`
	RelationshipToHead string    `json:"relationship_to_head"`
	EducationLevel     string    `json:"education_level"`
	IsDisabled         bool      `json:"is_disabled"`
	PhoneNumber        string    `json:"phone_number"`
	CreatedAt          time.Time `json:"created_at"`
}

// Village is a program geography unit.
type Village struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	District         string    `json:"district"`
	Subcounty        string    `json:"subcounty"`
	DistanceToMarket int       `json:"distance_to_market"`
	IsProgramArea    bool      `json:"is_program_area"`
	CreatedAt        time.Time `json:"created_at"`
}

// PPIScore is an externally-assessed Poverty Probability Index record.
// Lower score = poorer household.
type PPIScore struct {
	ID             uuid.UUID `json:"id"`
	HouseholdID    uuid.UUID `json:"household_id"`
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	AssessmentDate time.Time `json:"assessment_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// Assessment kinds.
const (
	AssessmentKindEligibility   = "eligibility"
	AssessmentKindQualification = "qualification"
)

// Assessment is a persisted scoring or qualification run. Result holds the
// full engine output as JSON; the scalar columns are denormalized for
// list views and dashboard aggregates.
type Assessment struct {
	ID               uuid.UUID       `json:"id"`
	HouseholdID      uuid.UUID       `json:"household_id"`
	Kind             string          `json:"kind"`
	TotalScore       float64         `json:"total_score"`
	EligibilityLevel string          `json:"eligibility_level"`
	Qualified        *bool           `json:"qualified,omitempty"`
	Result           json.RawMessage `json:"result"`
	AssessedBy       *uuid.UUID      `json:"assessed_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}
