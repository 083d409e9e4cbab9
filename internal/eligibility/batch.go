package eligibility

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxBatchWorkers bounds the parallel map. Each score is O(1), so a small
// pool is plenty.
const maxBatchWorkers = 8

// BatchInput names a household snapshot for batch assessment.
type BatchInput struct {
	HouseholdID   uuid.UUID
	HouseholdName string
	Snapshot      Snapshot
}

// BatchResult is one row of a batch eligibility report.
type BatchResult struct {
	HouseholdID      uuid.UUID `json:"household_id"`
	HouseholdName    string    `json:"household_name"`
	TotalScore       float64   `json:"total_score"`
	EligibilityLevel Level     `json:"eligibility_level"`
	Eligible         bool      `json:"eligible"`
}

// BatchAssessment scores every household and returns the results sorted by
// total score descending. Scoring is parallelized; ties keep the relative
// order of the input.
func BatchAssessment(ctx context.Context, households []BatchInput) ([]BatchResult, error) {
	results := make([]BatchResult, len(households))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBatchWorkers)
	for i := range households {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			r := Score(households[i].Snapshot)
			results[i] = BatchResult{
				HouseholdID:      households[i].HouseholdID,
				HouseholdName:    households[i].HouseholdName,
				TotalScore:       r.TotalScore,
				EligibilityLevel: r.EligibilityLevel,
				Eligible:         EligibleForProgram(r.EligibilityLevel, "graduation"),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	return results, nil
}
