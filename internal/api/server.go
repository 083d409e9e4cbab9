package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kvnochieng52/upgis/internal/audit"
	"github.com/kvnochieng52/upgis/internal/auth"
	"github.com/kvnochieng52/upgis/internal/db"
	"github.com/kvnochieng52/upgis/internal/notify"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Notify      *notify.Service

	sanitizer *bluemonday.Policy
}

func NewServer(pool *pgxpool.Pool, notifier *notify.Service) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		DB:          pool,
		Store:       db.NewStore(pool),
		AuthService: auth.NewService(pool),
		Echo:        e,
		Notify:      notifier,
		sanitizer:   bluemonday.StrictPolicy(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Everything below requires a valid token. Mutations are audited.
	auditLogger := audit.NewLogger(s.DB)
	authed := api.Group("", auth.Middleware, auditLogger.Middleware)

	// Read access for all staff roles, including county executives.
	authed.GET("/stats", s.handleGetStats)
	authed.GET("/dashboard/eligibility", s.handleEligibilityDashboard)
	authed.GET("/villages", s.handleListVillages)
	authed.GET("/households", s.handleListHouseholds)
	authed.GET("/households/:id", s.handleGetHousehold)
	authed.GET("/households/:id/members", s.handleListMembers)
	authed.GET("/households/:id/assessments", s.handleListAssessments)
	authed.GET("/households/:id/eligibility", s.handleComputeEligibility)
	authed.GET("/grants", s.handleListGrants)
	authed.GET("/grants/:id", s.handleGetGrant)
	authed.GET("/trainings", s.handleListTrainings)
	authed.GET("/trainings/:id/attendance", s.handleListAttendance)
	authed.GET("/groups", s.handleListGroups)
	authed.GET("/groups/:id/members", s.handleListGroupMembers)

	// Field data entry: associates and above.
	field := authed.Group("", auth.RequireRoles(auth.RoleFieldAssociate, auth.RoleMEStaff, auth.RoleICTAdmin))
	field.POST("/villages", s.handleCreateVillage)
	field.POST("/households", s.handleCreateHousehold)
	field.PATCH("/households/:id", s.handleUpdateHousehold)
	field.POST("/households/:id/members", s.handleAddMember)
	field.POST("/households/:id/ppi", s.handleAddPPIScore)
	field.POST("/households/:id/assessment", s.handleRunAssessment)
	field.POST("/households/:id/qualification", s.handleRunQualification)
	field.POST("/assessments/batch", s.handleBatchAssessment)
	field.POST("/grants", s.handleCreateGrant)
	field.POST("/trainings", s.handleCreateTraining)
	field.POST("/trainings/:id/attendance", s.handleRecordAttendance)
	field.POST("/trainings/:id/reminders", s.handleSendReminders)
	field.POST("/groups", s.handleCreateGroup)
	field.POST("/groups/:id/members", s.handleAddGroupMember)
	field.PATCH("/groups/:id/savings", s.handleUpdateGroupSavings)

	// Review and destructive operations: M&E staff and admins only.
	review := authed.Group("", auth.RequireRoles(auth.RoleMEStaff, auth.RoleICTAdmin))
	review.DELETE("/households/:id", s.handleDeleteHousehold)
	review.PATCH("/grants/:id/status", s.handleGrantTransition)
	review.POST("/grants/:id/disburse", s.handleDisburseGrant)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and a password of at least 8 characters are required"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		switch err {
		case auth.ErrUserExists:
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case auth.ErrInvalidRole:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
