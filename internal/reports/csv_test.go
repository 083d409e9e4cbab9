package reports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"

	"github.com/kvnochieng52/upgis/internal/eligibility"
)

func TestWriteBatchCSV(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	results := []eligibility.BatchResult{
		{HouseholdID: id1, HouseholdName: "Achieng Family", TotalScore: 92.5, EligibilityLevel: eligibility.LevelHighlyEligible, Eligible: true},
		{HouseholdID: id2, HouseholdName: "Otieno, \"Senior\"", TotalScore: 38, EligibilityLevel: eligibility.LevelNotEligible, Eligible: false},
	}

	var buf bytes.Buffer
	if err := WriteBatchCSV(&buf, results); err != nil {
		t.Fatalf("WriteBatchCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "household_id" || rows[0][2] != "total_score" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != id1.String() || rows[1][2] != "92.50" || rows[1][4] != "true" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "Otieno, \"Senior\"" {
		t.Fatalf("quoting lost, got %q", rows[2][1])
	}
	if rows[2][3] != "not_eligible" {
		t.Fatalf("unexpected level: %v", rows[2])
	}
}

func TestWriteBatchCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBatchCSV(&buf, nil); err != nil {
		t.Fatalf("WriteBatchCSV failed: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected header only, got %v (err %v)", rows, err)
	}
}
