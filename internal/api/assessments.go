package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/auth"
	"github.com/kvnochieng52/upgis/internal/eligibility"
	"github.com/kvnochieng52/upgis/internal/models"
	"github.com/kvnochieng52/upgis/internal/reports"
)

// handleComputeEligibility scores the household from its stored records
// without persisting anything. Useful for previewing before a formal
// assessment run.
func (s *Server) handleComputeEligibility(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	snapshot, _, err := s.Store.LoadSnapshot(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	return c.JSON(http.StatusOK, eligibility.Score(snapshot))
}

// handleRunAssessment scores the household and persists the result.
func (s *Server) handleRunAssessment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}
	ctx := c.Request().Context()

	snapshot, _, err := s.Store.LoadSnapshot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	result := eligibility.Score(snapshot)

	record := models.Assessment{
		HouseholdID:      id,
		Kind:             models.AssessmentKindEligibility,
		TotalScore:       result.TotalScore,
		EligibilityLevel: string(result.EligibilityLevel),
	}
	if userID, uidErr := auth.GetUserIDFromContext(c); uidErr == nil {
		record.AssessedBy = &userID
	}

	saved, err := s.Store.SaveAssessment(ctx, record, result)
	if err != nil {
		c.Logger().Errorf("Failed to save assessment: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"assessment_id": saved.ID,
		"result":        result,
	})
}

// handleRunQualification runs the full qualification decision and persists it.
func (s *Server) handleRunQualification(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}
	ctx := c.Request().Context()

	snapshot, _, err := s.Store.LoadSnapshot(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	result := eligibility.RunQualification(snapshot, time.Now().UTC())

	qualified := result.FinalQualification.Qualified
	record := models.Assessment{
		HouseholdID:      id,
		Kind:             models.AssessmentKindQualification,
		TotalScore:       result.EligibilityAssessment.TotalScore,
		EligibilityLevel: string(result.EligibilityAssessment.EligibilityLevel),
		Qualified:        &qualified,
	}
	if userID, uidErr := auth.GetUserIDFromContext(c); uidErr == nil {
		record.AssessedBy = &userID
	}

	saved, err := s.Store.SaveAssessment(ctx, record, result)
	if err != nil {
		c.Logger().Errorf("Failed to save qualification: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"assessment_id": saved.ID,
		"result":        result,
	})
}

func (s *Server) handleListAssessments(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	assessments, err := s.Store.ListAssessments(c.Request().Context(), id, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, assessments)
}

type batchRequest struct {
	HouseholdIDs []uuid.UUID `json:"household_ids"`
	Limit        int         `json:"limit"`
}

// handleBatchAssessment scores a set of households (or all registered
// households when none are named) and returns a ranked report. Pass
// ?format=csv for an export.
func (s *Server) handleBatchAssessment(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	ctx := c.Request().Context()

	ids, err := s.Store.ListBatchCandidates(ctx, req.HouseholdIDs, req.Limit)
	if err != nil {
		c.Logger().Errorf("Failed to list batch candidates: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	inputs := make([]eligibility.BatchInput, 0, len(ids))
	for _, id := range ids {
		snapshot, household, err := s.Store.LoadSnapshot(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
		inputs = append(inputs, eligibility.BatchInput{
			HouseholdID:   id,
			HouseholdName: household.Name,
			Snapshot:      snapshot,
		})
	}

	results, err := eligibility.BatchAssessment(ctx, inputs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="batch_assessment.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return reports.WriteBatchCSV(c.Response(), results)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleEligibilityDashboard(c echo.Context) error {
	dashboard, err := s.Store.GetEligibilityDashboard(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to build eligibility dashboard: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, dashboard)
}
