package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/db"
	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Server) handleListHouseholds(c echo.Context) error {
	params := db.HouseholdListParams{
		Query:       c.QueryParam("q"),
		ConsentOnly: c.QueryParam("consent_only") == "true",
		Limit:       20,
	}
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		params.Limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		params.Offset = o
	}
	if v := c.QueryParam("village_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid village ID"})
		}
		params.VillageID = &id
	}

	result, err := s.Store.ListHouseholds(c.Request().Context(), params)
	if err != nil {
		c.Logger().Errorf("Failed to list households: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetHousehold(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	h, err := s.Store.GetHousehold(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, h)
}

func (s *Server) handleCreateHousehold(c echo.Context) error {
	var h models.Household
	if err := c.Bind(&h); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(h.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Household name is required"})
	}
	if h.VillageID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Village ID is required"})
	}
	h.Notes = s.sanitizer.Sanitize(h.Notes)

	created, err := s.Store.CreateHousehold(c.Request().Context(), h)
	if err != nil {
		c.Logger().Errorf("Failed to create household: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateHousehold(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	current, err := s.Store.GetHousehold(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	// Bind over the current record so omitted fields keep their values.
	h := *current
	if err := c.Bind(&h); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	h.ID = id
	h.Notes = s.sanitizer.Sanitize(h.Notes)

	updated, err := s.Store.UpdateHousehold(c.Request().Context(), h)
	if err != nil {
		c.Logger().Errorf("Failed to update household: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteHousehold(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	if err := s.Store.DeleteHousehold(c.Request().Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListMembers(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	members, err := s.Store.ListMembers(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, members)
}

func (s *Server) handleAddMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	var m models.HouseholdMember
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	m.HouseholdID = id
	if m.RelationshipToHead == "" {
		m.RelationshipToHead = models.RelationshipOther
	}

	created, err := s.Store.AddMember(c.Request().Context(), m)
	if err != nil {
		c.Logger().Errorf("Failed to add member: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleAddPPIScore(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid household ID"})
	}

	var p models.PPIScore
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if p.Score < 0 || p.Score > 100 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Score must be between 0 and 100"})
	}
	p.HouseholdID = id
	if p.AssessmentDate.IsZero() {
		p.AssessmentDate = time.Now().UTC()
	}

	created, err := s.Store.AddPPIScore(c.Request().Context(), p)
	if err != nil {
		c.Logger().Errorf("Failed to record PPI score: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleListVillages(c echo.Context) error {
	villages, err := s.Store.ListVillages(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, villages)
}

func (s *Server) handleCreateVillage(c echo.Context) error {
	var v models.Village
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(v.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Village name is required"})
	}

	created, err := s.Store.CreateVillage(c.Request().Context(), v)
	if err != nil {
		c.Logger().Errorf("Failed to create village: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}
