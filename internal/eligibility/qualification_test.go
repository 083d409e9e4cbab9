package eligibility

import (
	"reflect"
	"testing"
	"time"
)

func TestRunQualification_EligibleWithAllChecksQualifies(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := ultraPoorSnapshot()
	s.Village.IsProgramArea = boolPtr(true)

	result := RunQualification(s, now)

	if !result.FinalQualification.Qualified {
		t.Fatalf("expected qualified, got %+v", result.FinalQualification)
	}
	if result.FinalQualification.Status != StatusQualified {
		t.Fatalf("expected status qualified, got %s", result.FinalQualification.Status)
	}
	if result.FinalQualification.QualificationLevel != string(LevelHighlyEligible) {
		t.Fatalf("expected level highly_eligible, got %s", result.FinalQualification.QualificationLevel)
	}
	if result.FinalQualification.PriorityScore != result.EligibilityAssessment.TotalScore {
		t.Fatal("priority score must equal the assessment total")
	}
	if !result.AssessmentDate.Equal(now) {
		t.Fatalf("expected assessment date %s, got %s", now, result.AssessmentDate)
	}
	if len(result.NextSteps) == 0 || result.NextSteps[0] != "Proceed with program enrollment" {
		t.Fatalf("unexpected next steps: %v", result.NextSteps)
	}
}

func TestRunQualification_MissingConsentNeedsReview(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := ultraPoorSnapshot()
	s.ConsentGiven = false
	s.Village.IsProgramArea = boolPtr(true)

	result := RunQualification(s, now)

	if result.FinalQualification.Qualified {
		t.Fatal("expected not qualified")
	}
	if result.FinalQualification.Status != StatusNeedsReview {
		t.Fatalf("expected needs_review, got %s", result.FinalQualification.Status)
	}
	if result.FinalQualification.QualificationLevel != "conditional" {
		t.Fatalf("expected conditional level, got %s", result.FinalQualification.QualificationLevel)
	}
	expected := []string{CheckConsentAndCommitment}
	if !reflect.DeepEqual(result.FinalQualification.BlockingFactors, expected) {
		t.Fatalf("expected blocking factors %v, got %v", expected, result.FinalQualification.BlockingFactors)
	}
}

func TestRunQualification_OutsideProgramAreaIsBlocking(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := ultraPoorSnapshot()
	s.Village.IsProgramArea = boolPtr(false)
	s.ConsentGiven = false

	result := RunQualification(s, now)

	if result.QualificationChecks[CheckGeographicEligibility] {
		t.Fatal("expected geographic check to fail")
	}
	expected := []string{CheckGeographicEligibility, CheckConsentAndCommitment}
	if !reflect.DeepEqual(result.FinalQualification.BlockingFactors, expected) {
		t.Fatalf("blocking factors must follow gate order: got %v", result.FinalQualification.BlockingFactors)
	}
}

func TestRunQualification_UnclassifiedVillageDefaultsInArea(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := ultraPoorSnapshot()
	s.Village.IsProgramArea = nil

	result := RunQualification(s, now)
	if !result.QualificationChecks[CheckGeographicEligibility] {
		t.Fatal("unclassified village must default to in-area")
	}

	s.Village = nil
	result = RunQualification(s, now)
	if !result.QualificationChecks[CheckGeographicEligibility] {
		t.Fatal("missing village must default to in-area")
	}
}

func TestRunQualification_NotEligibleIsNotQualified(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s := Snapshot{
		LatestPPIScore: intPtr(95),
		MonthlyIncome:  floatPtr(60000),
		Assets:         map[string]bool{"car": true, "television": true, "refrigerator": true},
		HasElectricity: true,
		HasCleanWater:  true,
		TotalMembers:   2,
		ConsentGiven:   true,
	}

	result := RunQualification(s, now)

	if result.FinalQualification.Status != StatusNotQualified {
		t.Fatalf("expected not_qualified, got %s", result.FinalQualification.Status)
	}
	if result.FinalQualification.BlockingFactors != nil {
		t.Fatalf("not_qualified carries no blocking factors, got %v", result.FinalQualification.BlockingFactors)
	}
	if len(result.NextSteps) == 0 || result.NextSteps[0] != "Refer to alternative programs" {
		t.Fatalf("unexpected next steps: %v", result.NextSteps)
	}
}

func TestRunQualification_StubGatesAlwaysPass(t *testing.T) {
	result := RunQualification(Snapshot{}, time.Now())

	if !result.QualificationChecks[CheckProgramCapacity] {
		t.Fatal("capacity gate is stubbed to pass")
	}
	if !result.QualificationChecks[CheckPreviousParticipation] {
		t.Fatal("participation gate is stubbed to pass")
	}
}
