package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Server) handleListTrainings(c echo.Context) error {
	limit := 50
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	sessions, err := s.Store.ListTrainingSessions(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleCreateTraining(c echo.Context) error {
	var ts models.TrainingSession
	if err := c.Bind(&ts); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if strings.TrimSpace(ts.Title) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}
	if ts.ScheduledAt.IsZero() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Scheduled time is required"})
	}

	created, err := s.Store.CreateTrainingSession(c.Request().Context(), ts)
	if err != nil {
		c.Logger().Errorf("Failed to create training session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusCreated, created)
}

type attendanceRequest struct {
	HouseholdID uuid.UUID `json:"household_id"`
	Attended    bool      `json:"attended"`
}

func (s *Server) handleRecordAttendance(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session ID"})
	}

	var req attendanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.HouseholdID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Household ID is required"})
	}

	a := models.TrainingAttendance{
		SessionID:   sessionID,
		HouseholdID: req.HouseholdID,
		Attended:    req.Attended,
	}
	if err := s.Store.RecordAttendance(c.Request().Context(), a); err != nil {
		c.Logger().Errorf("Failed to record attendance: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) handleListAttendance(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session ID"})
	}

	attendance, err := s.Store.ListAttendance(c.Request().Context(), sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, attendance)
}

// handleSendReminders texts every household with a phone number in the
// session's village. Failures are counted, not fatal.
func (s *Server) handleSendReminders(c echo.Context) error {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session ID"})
	}
	if s.Notify == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "SMS is not configured"})
	}
	ctx := c.Request().Context()

	session, err := s.Store.GetTrainingSession(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	recipients, err := s.Store.ListReminderRecipients(ctx, sessionID)
	if err != nil {
		c.Logger().Errorf("Failed to list reminder recipients: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	sent, failed := 0, 0
	for _, r := range recipients {
		err := s.Notify.Send(ctx, r.PhoneNumber, "training_reminder", map[string]string{
			"household": r.HouseholdName,
			"title":     session.Title,
			"date":      session.ScheduledAt.Format("2 Jan 2006 15:04"),
		})
		if err != nil {
			failed++
			continue
		}
		sent++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"recipients": len(recipients),
		"sent":       sent,
		"failed":     failed,
	})
}
