package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/auth"
	"github.com/kvnochieng52/upgis/internal/db"
	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Server) handleListGrants(c echo.Context) error {
	params := db.GrantListParams{
		Status:    c.QueryParam("status"),
		GrantType: c.QueryParam("grant_type"),
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		params.Limit = l
	}
	if v := c.QueryParam("household_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
		}
		params.HouseholdID = &id
	}

	grants, err := s.Store.ListGrants(c.Request().Context(), params)
	if err != nil {
		c.Logger().Errorf("Failed to list grants: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, grants)
}

func (s *Server) handleGetGrant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	g, err := s.Store.GetGrant(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, g)
}

func (s *Server) handleCreateGrant(c echo.Context) error {
	var g models.GrantApplication
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if g.HouseholdID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Household ID is required"})
	}
	if !models.ValidGrantType(g.GrantType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown grant type"})
	}
	if g.AmountRequested <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Amount requested must be positive"})
	}
	g.Purpose = s.sanitizer.Sanitize(g.Purpose)

	created, err := s.Store.CreateGrant(c.Request().Context(), g)
	if err != nil {
		c.Logger().Errorf("Failed to create grant: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

type grantTransitionRequest struct {
	Status         string   `json:"status"`
	AmountApproved *float64 `json:"amount_approved"`
}

func (s *Server) handleGrantTransition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	var req grantTransitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Status is required"})
	}

	var reviewerID *uuid.UUID
	if userID, uidErr := auth.GetUserIDFromContext(c); uidErr == nil {
		reviewerID = &userID
	}

	updated, err := s.Store.TransitionGrant(c.Request().Context(), id, req.Status, reviewerID, req.AmountApproved)
	if err != nil {
		if errors.Is(err, db.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to transition grant: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, updated)
}

type disburseRequest struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

func (s *Server) handleDisburseGrant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	var req disburseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Amount must be positive"})
	}
	switch req.Method {
	case models.DisbursementMethodMpesa, models.DisbursementMethodBank, models.DisbursementMethodCash:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown disbursement method"})
	}

	d := models.GrantDisbursement{
		GrantID:   id,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
	}
	if userID, uidErr := auth.GetUserIDFromContext(c); uidErr == nil {
		d.DisbursedBy = &userID
	}
	ctx := c.Request().Context()

	created, err := s.Store.DisburseGrant(ctx, d)
	if err != nil {
		if errors.Is(err, db.ErrNotDisbursable) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to disburse grant: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	// Best effort SMS to the household; the disbursement is already committed.
	if s.Notify != nil {
		if grant, gErr := s.Store.GetGrant(ctx, id); gErr == nil {
			if household, hErr := s.Store.GetHousehold(ctx, grant.HouseholdID); hErr == nil && household.PhoneNumber != "" {
				_ = s.Notify.Send(ctx, household.PhoneNumber, "grant_disbursed", map[string]string{
					"household": household.Name,
					"amount":    strconv.FormatFloat(created.Amount, 'f', 2, 64),
					"method":    created.Method,
					"reference": created.Reference,
				})
			}
		}
	}

	return c.JSON(http.StatusCreated, created)
}
