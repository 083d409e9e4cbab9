package eligibility

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestBatchAssessment_SortsByScoreDescending(t *testing.T) {
	wealthy := Snapshot{
		LatestPPIScore: intPtr(95),
		MonthlyIncome:  floatPtr(60000),
		Assets:         map[string]bool{"car": true, "television": true, "refrigerator": true},
		HasElectricity: true,
		HasCleanWater:  true,
		TotalMembers:   2,
	}
	middling := Snapshot{LatestPPIScore: intPtr(55), MonthlyIncome: floatPtr(6000)}

	inputs := []BatchInput{
		{HouseholdID: uuid.New(), HouseholdName: "wealthy", Snapshot: wealthy},
		{HouseholdID: uuid.New(), HouseholdName: "ultra-poor", Snapshot: ultraPoorSnapshot()},
		{HouseholdID: uuid.New(), HouseholdName: "middling", Snapshot: middling},
	}

	results, err := BatchAssessment(context.Background(), inputs)
	if err != nil {
		t.Fatalf("batch assessment failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].TotalScore > results[i-1].TotalScore {
			t.Fatalf("results not sorted descending: %v", results)
		}
	}
	if results[0].HouseholdName != "ultra-poor" {
		t.Fatalf("expected ultra-poor first, got %s", results[0].HouseholdName)
	}
	if !results[0].Eligible {
		t.Fatal("top scorer must be eligible")
	}
}

func TestBatchAssessment_TiesKeepInputOrder(t *testing.T) {
	s := ultraPoorSnapshot()
	inputs := []BatchInput{
		{HouseholdID: uuid.New(), HouseholdName: "first", Snapshot: s},
		{HouseholdID: uuid.New(), HouseholdName: "second", Snapshot: s},
		{HouseholdID: uuid.New(), HouseholdName: "third", Snapshot: s},
	}

	results, err := BatchAssessment(context.Background(), inputs)
	if err != nil {
		t.Fatalf("batch assessment failed: %v", err)
	}

	for i, expected := range []string{"first", "second", "third"} {
		if results[i].HouseholdName != expected {
			t.Fatalf("tie order broken at %d: expected %s, got %s", i, expected, results[i].HouseholdName)
		}
	}
}

func TestBatchAssessment_EmptyInput(t *testing.T) {
	results, err := BatchAssessment(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %v", results)
	}
}

func TestBatchAssessment_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []BatchInput{{HouseholdID: uuid.New(), Snapshot: Snapshot{}}}
	if _, err := BatchAssessment(ctx, inputs); err == nil {
		t.Fatal("expected context error")
	}
}

func TestQuickCheck(t *testing.T) {
	if !QuickCheck(ultraPoorSnapshot()) {
		t.Fatal("ultra-poor household must pass the quick check")
	}
	if QuickCheck(Snapshot{LatestPPIScore: intPtr(95), MonthlyIncome: floatPtr(60000), HasElectricity: true, HasCleanWater: true, TotalMembers: 2, Assets: map[string]bool{"car": true}}) {
		t.Fatal("wealthy household must fail the quick check")
	}
}
