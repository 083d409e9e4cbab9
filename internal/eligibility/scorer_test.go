package eligibility

import (
	"math"
	"reflect"
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

// ultraPoorSnapshot is the reference household where every category
// scores 100: PPI 15, income 2000 KES, no assets, female head aged 60
// with a disabled member and dependency ratio 2, remote village 25km
// from the nearest market with no electricity or clean water, nine
// members, three children under five, head never schooled.
func ultraPoorSnapshot() Snapshot {
	return Snapshot{
		LatestPPIScore:       intPtr(15),
		MonthlyIncome:        floatPtr(2000),
		Assets:               map[string]bool{},
		HeadGender:           "female",
		HeadAge:              60,
		DisabledMembersCount: 1,
		IsSingleParent:       true,
		TotalMembers:         9,
		WorkingMembersCount:  3,
		Location:             "remote rural area",
		Village:              &VillageInfo{DistanceToMarket: 25},
		HasElectricity:       false,
		HasCleanWater:        false,
		ChildrenUnder5Count:  3,
		HeadEducationLevel:   "none",
		ConsentGiven:         true,
	}
}

func TestScore_UltraPoorHouseholdScoresFullMarks(t *testing.T) {
	result := Score(ultraPoorSnapshot())

	for _, cat := range categoryOrder {
		if result.CategoryScores[cat] != 100 {
			t.Fatalf("category %s: expected 100, got %v", cat, result.CategoryScores[cat])
		}
	}
	if result.TotalScore != 100.00 {
		t.Fatalf("expected total 100.00, got %v", result.TotalScore)
	}
	if result.EligibilityLevel != LevelHighlyEligible {
		t.Fatalf("expected highly_eligible, got %s", result.EligibilityLevel)
	}
	if len(result.ImprovementAreas) != 0 {
		t.Fatalf("expected no improvement areas, got %v", result.ImprovementAreas)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := ultraPoorSnapshot()
	first := Score(s)
	second := Score(s)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated scoring diverged:\n%+v\n%+v", first, second)
	}
}

func TestScore_EmptySnapshotStaysInRange(t *testing.T) {
	result := Score(Snapshot{})

	for _, cat := range categoryOrder {
		score := result.CategoryScores[cat]
		if score < 0 || score > 100 {
			t.Fatalf("category %s out of range: %v", cat, score)
		}
	}
	if result.TotalScore < 0 || result.TotalScore > 100 {
		t.Fatalf("total out of range: %v", result.TotalScore)
	}
}

func TestScore_MissingPPIDefaultsToNeutral(t *testing.T) {
	result := Score(Snapshot{})
	if result.CategoryScores[CategoryPovertyIndex] != 50 {
		t.Fatalf("expected neutral 50 for missing PPI, got %v", result.CategoryScores[CategoryPovertyIndex])
	}
}

func TestScore_PovertyIndexMonotonicity(t *testing.T) {
	poorer := Score(Snapshot{LatestPPIScore: intPtr(10)})
	richer := Score(Snapshot{LatestPPIScore: intPtr(90)})

	if poorer.CategoryScores[CategoryPovertyIndex] <= richer.CategoryScores[CategoryPovertyIndex] {
		t.Fatalf("PPI 10 must outscore PPI 90: got %v vs %v",
			poorer.CategoryScores[CategoryPovertyIndex],
			richer.CategoryScores[CategoryPovertyIndex])
	}
}

func TestScore_IncomeBands(t *testing.T) {
	tests := []struct {
		income   float64
		expected float64
	}{
		{2000, 100},
		{2500, 100},
		{2501, 80},
		{5000, 80},
		{7500, 60},
		{10000, 40},
		{10001, 20},
	}

	for _, tt := range tests {
		result := Score(Snapshot{MonthlyIncome: floatPtr(tt.income)})
		if got := result.CategoryScores[CategoryIncomeLevel]; got != tt.expected {
			t.Fatalf("income %v: expected %v, got %v", tt.income, tt.expected, got)
		}
	}
}

func TestScore_AssetTiers(t *testing.T) {
	tests := []struct {
		name     string
		assets   map[string]bool
		expected float64
	}{
		{"no assets", nil, 100},
		{"one basic", map[string]bool{"radio": true}, 80},
		{"three basic", map[string]bool{"radio": true, "bicycle": true, "mobile_phone": true}, 60},
		{"one productive", map[string]bool{"land": true}, 60},
		{"three productive", map[string]bool{"land": true, "livestock": true, "business_equipment": true}, 30},
		{"one luxury", map[string]bool{"television": true}, 30},
		{"three luxury", map[string]bool{"car": true, "motorcycle": true, "television": true}, 10},
		{"unowned flags ignored", map[string]bool{"radio": false, "car": false}, 100},
	}

	for _, tt := range tests {
		result := Score(Snapshot{Assets: tt.assets})
		if got := result.CategoryScores[CategoryAssetOwnership]; got != tt.expected {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestScore_SocialFactorsClampedAt100(t *testing.T) {
	s := Snapshot{
		HeadGender:           "female",
		HeadAge:              70,
		DisabledMembersCount: 2,
		IsSingleParent:       true,
		TotalMembers:         10,
		WorkingMembersCount:  1,
	}

	result := Score(s)
	if result.CategoryScores[CategorySocialFactors] != 100 {
		t.Fatalf("expected clamp to 100, got %v", result.CategoryScores[CategorySocialFactors])
	}
}

func TestScore_GeographicKeywordIsCaseInsensitive(t *testing.T) {
	base := Score(Snapshot{HasElectricity: true, HasCleanWater: true})
	remote := Score(Snapshot{Location: "Remote Highlands", HasElectricity: true, HasCleanWater: true})

	diff := remote.CategoryScores[CategoryGeographic] - base.CategoryScores[CategoryGeographic]
	if diff != 20 {
		t.Fatalf("expected +20 remote bonus, got %v", diff)
	}
}

func TestScore_SmallHouseholdDemographicPenalty(t *testing.T) {
	result := Score(Snapshot{TotalMembers: 2, HeadEducationLevel: "tertiary"})
	if got := result.CategoryScores[CategoryDemographic]; got != 40 {
		t.Fatalf("expected 40 for a two-person household, got %v", got)
	}
}

func TestScore_ImprovementAreasListLowCategories(t *testing.T) {
	// High PPI, high income, significant assets: poverty, income and
	// asset categories all land below 60.
	s := Snapshot{
		LatestPPIScore: intPtr(90),
		MonthlyIncome:  floatPtr(50000),
		Assets:         map[string]bool{"car": true, "television": true, "refrigerator": true},
		HasElectricity: true,
		HasCleanWater:  true,
		TotalMembers:   2,
	}

	result := Score(s)
	expected := []string{
		improvementHints[CategoryPovertyIndex],
		improvementHints[CategoryIncomeLevel],
		improvementHints[CategoryAssetOwnership],
		improvementHints[CategoryGeographic],
		improvementHints[CategoryDemographic],
	}
	if !reflect.DeepEqual(result.ImprovementAreas, expected) {
		t.Fatalf("expected %v, got %v", expected, result.ImprovementAreas)
	}
}

func TestWeights_SumToOne(t *testing.T) {
	var sum float64
	for _, cat := range categoryOrder {
		sum += Weights[cat]
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights must sum to 1.0, got %v", sum)
	}
	if len(Weights) != len(categoryOrder) {
		t.Fatalf("every category needs a weight: %d weights for %d categories", len(Weights), len(categoryOrder))
	}
}

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		total    float64
		expected Level
	}{
		{100, LevelHighlyEligible},
		{80.0, LevelHighlyEligible},
		{79.99, LevelEligible},
		{60.0, LevelEligible},
		{59.99, LevelMarginallyEligible},
		{40.0, LevelMarginallyEligible},
		{39.99, LevelNotEligible},
		{0, LevelNotEligible},
	}

	for _, tt := range tests {
		if got := bandFor(tt.total); got != tt.expected {
			t.Fatalf("total %v: expected %s, got %s", tt.total, tt.expected, got)
		}
	}
}

func TestEligibleForProgram(t *testing.T) {
	if !EligibleForProgram(LevelHighlyEligible, "graduation") {
		t.Fatal("highly_eligible must pass graduation")
	}
	if !EligibleForProgram(LevelEligible, "graduation") {
		t.Fatal("eligible must pass graduation")
	}
	if EligibleForProgram(LevelMarginallyEligible, "graduation") {
		t.Fatal("marginally_eligible must not pass graduation")
	}
	if !EligibleForProgram(LevelMarginallyEligible, "general") {
		t.Fatal("marginally_eligible must pass general")
	}
	if EligibleForProgram(LevelNotEligible, "general") {
		t.Fatal("not_eligible must not pass general")
	}
	if EligibleForProgram(LevelHighlyEligible, "unknown_program") {
		t.Fatal("unknown program types are never eligible")
	}
}
