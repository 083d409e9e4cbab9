package eligibility

import (
	"math"
	"strings"
)

// Level is an eligibility band derived from the weighted total score.
type Level string

const (
	LevelHighlyEligible     Level = "highly_eligible"
	LevelEligible           Level = "eligible"
	LevelMarginallyEligible Level = "marginally_eligible"
	LevelNotEligible        Level = "not_eligible"
)

// Category names one of the six scoring dimensions.
type Category string

const (
	CategoryPovertyIndex   Category = "poverty_index"
	CategoryIncomeLevel    Category = "income_level"
	CategoryAssetOwnership Category = "asset_ownership"
	CategorySocialFactors  Category = "social_factors"
	CategoryGeographic     Category = "geographic"
	CategoryDemographic    Category = "demographic"
)

// categoryOrder fixes the evaluation order so repeated runs produce
// identical improvement-area lists.
var categoryOrder = []Category{
	CategoryPovertyIndex,
	CategoryIncomeLevel,
	CategoryAssetOwnership,
	CategorySocialFactors,
	CategoryGeographic,
	CategoryDemographic,
}

// Weights must sum to 1.0 so the weighted total stays within [0,100].
var Weights = map[Category]float64{
	CategoryPovertyIndex:   0.30,
	CategoryIncomeLevel:    0.25,
	CategoryAssetOwnership: 0.15,
	CategorySocialFactors:  0.15,
	CategoryGeographic:     0.10,
	CategoryDemographic:    0.05,
}

// Kenya poverty line figures, KES per month.
const (
	extremePovertyLine = 2500
	povertyLine        = 5000
)

// Asset tiers ordered by value. Fewer assets means higher eligibility.
var (
	basicAssets      = []string{"bicycle", "radio", "mobile_phone"}
	productiveAssets = []string{"livestock", "land", "business_equipment"}
	luxuryAssets     = []string{"car", "motorcycle", "television", "refrigerator"}
)

var remoteLocationHints = []string{"remote", "rural", "isolated"}

// VillageInfo carries the geographic attributes of a household's village.
// IsProgramArea is nil when the village has not been classified yet; the
// qualification gate treats that as in-area.
type VillageInfo struct {
	DistanceToMarket int
	IsProgramArea    *bool
}

// Snapshot is a read-only view of a household at assessment time. The
// caller assembles it from stored records; the scorer never mutates it.
// Optional attributes are pointers, where nil means "unknown" and is
// substituted with a documented neutral default. Value fields follow
// their zero-value semantics (0, false, empty).
type Snapshot struct {
	// LatestPPIScore is the most recent Poverty Probability Index score
	// (0-100, lower = poorer). nil scores the neutral default of 50.
	LatestPPIScore *int
	// MonthlyIncome in KES. nil is treated as no recorded income.
	MonthlyIncome *float64
	// Assets maps asset name to ownership.
	Assets map[string]bool

	HeadGender           string
	HeadAge              int
	DisabledMembersCount int
	IsSingleParent       bool
	TotalMembers         int
	WorkingMembersCount  int

	// Location is a free-text classification hint ("remote rural area").
	Location       string
	Village        *VillageInfo
	HasElectricity bool
	HasCleanWater  bool

	ChildrenUnder5Count int
	HeadEducationLevel  string

	ConsentGiven bool
}

// ScoreResult is the immutable outcome of a comprehensive scoring pass.
// All fields are plain data so callers can persist or serialize it as-is.
type ScoreResult struct {
	TotalScore       float64              `json:"total_score"`
	EligibilityLevel Level                `json:"eligibility_level"`
	CategoryScores   map[Category]float64 `json:"category_scores"`
	Recommendation   string               `json:"recommendation"`
	ImprovementAreas []string             `json:"improvement_areas"`
}

var recommendations = map[Level]string{
	LevelHighlyEligible:     "Highly recommended for immediate enrollment. This household meets all criteria for ultra-poor graduation program.",
	LevelEligible:           "Recommended for enrollment. This household would benefit significantly from the UPG program.",
	LevelMarginallyEligible: "Consider for enrollment based on program capacity. May need additional assessment of specific vulnerabilities.",
	LevelNotEligible:        "Not recommended for ultra-poor graduation program. Consider referral to other appropriate programs.",
}

var improvementHints = map[Category]string{
	CategoryPovertyIndex:   "Consider updated PPI assessment",
	CategoryIncomeLevel:    "Income documentation may need verification",
	CategoryAssetOwnership: "Asset assessment may need review",
	CategorySocialFactors:  "Social vulnerability factors need assessment",
	CategoryGeographic:     "Geographic accessibility factors",
	CategoryDemographic:    "Demographic characteristics assessment",
}

// Score computes the comprehensive eligibility score for a household
// snapshot. It is pure and deterministic: no I/O, no clock, no errors.
// Every category score is clamped to [0,100] and the weighted total is
// rounded to two decimals.
func Score(s Snapshot) ScoreResult {
	scores := map[Category]float64{
		CategoryPovertyIndex:   scorePovertyIndex(s),
		CategoryIncomeLevel:    scoreIncomeLevel(s),
		CategoryAssetOwnership: scoreAssetOwnership(s),
		CategorySocialFactors:  scoreSocialFactors(s),
		CategoryGeographic:     scoreGeographicFactors(s),
		CategoryDemographic:    scoreDemographicFactors(s),
	}

	var total float64
	for _, cat := range categoryOrder {
		total += scores[cat] * Weights[cat]
	}
	total = math.Round(total*100) / 100

	level := bandFor(total)

	var areas []string
	for _, cat := range categoryOrder {
		if scores[cat] < 60 {
			areas = append(areas, improvementHints[cat])
		}
	}

	return ScoreResult{
		TotalScore:       total,
		EligibilityLevel: level,
		CategoryScores:   scores,
		Recommendation:   recommendations[level],
		ImprovementAreas: areas,
	}
}

// bandFor partitions the total score against the fixed thresholds.
// Evaluated top-down, first match wins.
func bandFor(total float64) Level {
	switch {
	case total >= 80:
		return LevelHighlyEligible
	case total >= 60:
		return LevelEligible
	case total >= 40:
		return LevelMarginallyEligible
	default:
		return LevelNotEligible
	}
}

// EligibleForProgram reports whether a band qualifies for a program type.
// Unknown program types are not eligible rather than an error.
func EligibleForProgram(level Level, programType string) bool {
	switch programType {
	case "graduation":
		return level == LevelHighlyEligible || level == LevelEligible
	case "general":
		return level != LevelNotEligible
	}
	return false
}

// QuickCheck is a screening shortcut: eligible for the graduation program.
func QuickCheck(s Snapshot) bool {
	return EligibleForProgram(Score(s).EligibilityLevel, "graduation")
}

// scorePovertyIndex bands the PPI score. Lower PPI = higher poverty =
// higher eligibility score.
func scorePovertyIndex(s Snapshot) float64 {
	if s.LatestPPIScore == nil {
		return 50
	}
	ppi := *s.LatestPPIScore
	switch {
	case ppi <= 20:
		return 100
	case ppi <= 40:
		return 80
	case ppi <= 60:
		return 60
	case ppi <= 80:
		return 30
	default:
		return 10
	}
}

func scoreIncomeLevel(s Snapshot) float64 {
	var income float64
	if s.MonthlyIncome != nil {
		income = *s.MonthlyIncome
	}
	switch {
	case income <= extremePovertyLine:
		return 100
	case income <= povertyLine:
		return 80
	case income <= povertyLine*1.5:
		return 60
	case income <= povertyLine*2:
		return 40
	default:
		return 20
	}
}

func scoreAssetOwnership(s Snapshot) float64 {
	countOwned := func(names []string) int {
		n := 0
		for _, name := range names {
			if s.Assets[name] {
				n++
			}
		}
		return n
	}

	basic := countOwned(basicAssets)
	productive := countOwned(productiveAssets)
	luxury := countOwned(luxuryAssets)

	switch {
	case luxury > 2:
		return 10
	case luxury > 0 || productive > 2:
		return 30
	case productive > 0 || basic > 2:
		return 60
	case basic > 0:
		return 80
	default:
		return 100
	}
}

func scoreSocialFactors(s Snapshot) float64 {
	score := 50.0

	if s.HeadGender == "female" {
		score += 15
	}

	if s.HeadAge >= 65 {
		score += 10
	} else if s.HeadAge >= 55 {
		score += 5
	}

	if s.DisabledMembersCount > 0 {
		score += 15
	}

	if s.IsSingleParent {
		score += 10
	}

	dependencyRatio := float64(s.TotalMembers-s.WorkingMembersCount) / float64(max(s.WorkingMembersCount, 1))
	switch {
	case dependencyRatio >= 3:
		score += 15
	case dependencyRatio >= 2:
		score += 10
	case dependencyRatio >= 1:
		score += 5
	}

	return math.Min(score, 100)
}

func scoreGeographicFactors(s Snapshot) float64 {
	score := 50.0

	location := strings.ToLower(s.Location)
	for _, hint := range remoteLocationHints {
		if strings.Contains(location, hint) {
			score += 20
			break
		}
	}

	if s.Village != nil {
		switch d := s.Village.DistanceToMarket; {
		case d > 20:
			score += 15
		case d > 10:
			score += 10
		case d > 5:
			score += 5
		}
	}

	if !s.HasElectricity {
		score += 10
	}
	if !s.HasCleanWater {
		score += 15
	}

	return math.Min(score, 100)
}

func scoreDemographicFactors(s Snapshot) float64 {
	score := 50.0

	switch {
	case s.TotalMembers >= 8:
		score += 20
	case s.TotalMembers >= 6:
		score += 15
	case s.TotalMembers >= 4:
		score += 10
	case s.TotalMembers <= 2:
		score -= 10
	}

	switch {
	case s.ChildrenUnder5Count >= 3:
		score += 15
	case s.ChildrenUnder5Count >= 2:
		score += 10
	case s.ChildrenUnder5Count >= 1:
		score += 5
	}

	switch s.HeadEducationLevel {
	case "none", "primary_incomplete":
		score += 15
	case "primary_complete":
		score += 10
	case "secondary_incomplete":
		score += 5
	}

	return math.Min(math.Max(score, 0), 100)
}
