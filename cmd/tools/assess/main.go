// Batch eligibility report for the terminal. Scores every registered
// household (or up to -limit) and prints a ranked table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kvnochieng52/upgis/internal/db"
	"github.com/kvnochieng52/upgis/internal/eligibility"
)

func main() {
	limit := flag.Int("limit", 100, "maximum households to assess")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)

	ids, err := store.ListBatchCandidates(ctx, nil, *limit)
	if err != nil {
		log.Fatal(err)
	}

	inputs := make([]eligibility.BatchInput, 0, len(ids))
	for _, id := range ids {
		snapshot, household, err := store.LoadSnapshot(ctx, id)
		if err != nil {
			log.Printf("Skipping %s: %v", id, err)
			continue
		}
		inputs = append(inputs, eligibility.BatchInput{
			HouseholdID:   id,
			HouseholdName: household.Name,
			Snapshot:      snapshot,
		})
	}

	results, err := eligibility.BatchAssessment(ctx, inputs)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Household", "Score", "Level", "Eligible"})

	for i, r := range results {
		eligible := "no"
		if r.Eligible {
			eligible = "yes"
		}
		t.AppendRow(table.Row{i + 1, r.HouseholdName, fmt.Sprintf("%.2f", r.TotalScore), string(r.EligibilityLevel), eligible})
	}
	t.Render()
}
