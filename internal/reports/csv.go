// Package reports renders assessment results for export.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kvnochieng52/upgis/internal/eligibility"
)

// WriteBatchCSV streams batch assessment results as CSV, one row per
// household, preserving the input order.
func WriteBatchCSV(w io.Writer, results []eligibility.BatchResult) error {
	cw := csv.NewWriter(w)

	header := []string{"household_id", "household_name", "total_score", "eligibility_level", "eligible"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.HouseholdID.String(),
			r.HouseholdName,
			strconv.FormatFloat(r.TotalScore, 'f', 2, 64),
			string(r.EligibilityLevel),
			strconv.FormatBool(r.Eligible),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
