package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Server) handleListGroups(c echo.Context) error {
	groups, err := s.Store.ListSavingsGroups(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(c echo.Context) error {
	var g models.SavingsGroup
	if err := c.Bind(&g); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(g.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Group name is required"})
	}
	if g.GroupType == "" {
		g.GroupType = models.GroupTypeBusinessSavings
	}
	if g.GroupType != models.GroupTypeBusinessSavings && g.GroupType != models.GroupTypeVillageSavings {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown group type"})
	}

	created, err := s.Store.CreateSavingsGroup(c.Request().Context(), g)
	if err != nil {
		c.Logger().Errorf("Failed to create savings group: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleAddGroupMember(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid group ID"})
	}

	var m models.SavingsGroupMember
	if err := c.Bind(&m); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if m.HouseholdID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Household ID is required"})
	}
	m.GroupID = groupID
	if m.Role == "" {
		m.Role = models.GroupRoleMember
	}

	if err := s.Store.AddGroupMember(c.Request().Context(), m); err != nil {
		c.Logger().Errorf("Failed to add group member: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) handleListGroupMembers(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid group ID"})
	}

	members, err := s.Store.ListGroupMembers(c.Request().Context(), groupID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, members)
}

type savingsUpdateRequest struct {
	TotalSavings float64 `json:"total_savings"`
}

func (s *Server) handleUpdateGroupSavings(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid group ID"})
	}

	var req savingsUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.TotalSavings < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Total savings cannot be negative"})
	}

	if err := s.Store.UpdateGroupSavings(c.Request().Context(), groupID, req.TotalSavings); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.NoContent(http.StatusNoContent)
}
