package eligibility

import "time"

// Qualification gate names. Every gate must pass for final acceptance.
const (
	CheckGeographicEligibility = "geographic_eligibility"
	CheckProgramCapacity       = "program_capacity"
	CheckPreviousParticipation = "previous_participation"
	CheckConsentAndCommitment  = "consent_and_commitment"
)

// checkOrder fixes gate evaluation order so blocking factors are reported
// deterministically.
var checkOrder = []string{
	CheckGeographicEligibility,
	CheckProgramCapacity,
	CheckPreviousParticipation,
	CheckConsentAndCommitment,
}

// Qualification statuses.
const (
	StatusQualified    = "qualified"
	StatusNeedsReview  = "needs_review"
	StatusNotQualified = "not_qualified"
)

// FinalQualification is the accept/review/reject decision for a household.
type FinalQualification struct {
	Qualified          bool     `json:"qualified"`
	QualificationLevel string   `json:"qualification_level"`
	PriorityScore      float64  `json:"priority_score"`
	Status             string   `json:"status"`
	BlockingFactors    []string `json:"blocking_factors,omitempty"`
}

// QualificationResult combines the eligibility assessment with the hard
// gates and the resulting decision.
type QualificationResult struct {
	EligibilityAssessment ScoreResult        `json:"eligibility_assessment"`
	QualificationChecks   map[string]bool    `json:"qualification_checks"`
	FinalQualification    FinalQualification `json:"final_qualification"`
	NextSteps             []string           `json:"next_steps"`
	AssessmentDate        time.Time          `json:"assessment_date"`
}

// RunQualification scores the household and applies the four qualification
// gates. The caller supplies the assessment timestamp so the function stays
// deterministic under test.
func RunQualification(s Snapshot, now time.Time) QualificationResult {
	assessment := Score(s)

	checks := map[string]bool{
		CheckGeographicEligibility: checkGeographicEligibility(s),
		CheckProgramCapacity:       checkProgramCapacity(s),
		CheckPreviousParticipation: checkPreviousParticipation(s),
		CheckConsentAndCommitment:  s.ConsentGiven,
	}

	final := makeFinalDecision(assessment, checks)

	return QualificationResult{
		EligibilityAssessment: assessment,
		QualificationChecks:   checks,
		FinalQualification:    final,
		NextSteps:             nextSteps(final),
		AssessmentDate:        now,
	}
}

// checkGeographicEligibility passes when the household's village is flagged
// as a program target area. Unclassified villages default to in-area.
func checkGeographicEligibility(s Snapshot) bool {
	if s.Village != nil && s.Village.IsProgramArea != nil {
		return *s.Village.IsProgramArea
	}
	return true
}

// checkProgramCapacity should compare active enrollment against program
// caps. Capacity tracking is not implemented yet, so the gate passes
// unconditionally; do not treat the constant result as a business rule.
func checkProgramCapacity(Snapshot) bool {
	return true
}

// checkPreviousParticipation should look up participation history in
// similar programs. History tracking is not implemented yet, so the gate
// passes unconditionally; do not treat the constant result as a business
// rule.
func checkPreviousParticipation(Snapshot) bool {
	return true
}

func makeFinalDecision(assessment ScoreResult, checks map[string]bool) FinalQualification {
	isEligible := EligibleForProgram(assessment.EligibilityLevel, "graduation")

	allPass := true
	var blocking []string
	for _, name := range checkOrder {
		if !checks[name] {
			allPass = false
			blocking = append(blocking, name)
		}
	}

	switch {
	case isEligible && allPass:
		return FinalQualification{
			Qualified:          true,
			QualificationLevel: string(assessment.EligibilityLevel),
			PriorityScore:      assessment.TotalScore,
			Status:             StatusQualified,
		}
	case isEligible:
		return FinalQualification{
			Qualified:          false,
			QualificationLevel: "conditional",
			PriorityScore:      assessment.TotalScore,
			Status:             StatusNeedsReview,
			BlockingFactors:    blocking,
		}
	default:
		return FinalQualification{
			Qualified:          false,
			QualificationLevel: StatusNotQualified,
			PriorityScore:      assessment.TotalScore,
			Status:             StatusNotQualified,
		}
	}
}

func nextSteps(final FinalQualification) []string {
	switch {
	case final.Qualified:
		return []string{
			"Proceed with program enrollment",
			"Complete household registration",
			"Assign to mentor",
			"Schedule initial training sessions",
		}
	case final.Status == StatusNeedsReview:
		return []string{
			"Address blocking factors",
			"Complete additional assessments",
			"Obtain required documentation",
			"Resubmit for qualification review",
		}
	default:
		return []string{
			"Refer to alternative programs",
			"Provide resource information",
			"Consider re-assessment in future",
		}
	}
}
