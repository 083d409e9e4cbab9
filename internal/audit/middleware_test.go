package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFirstSegment(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/households/:id/assessment", "households"},
		{"/grants", "grants"},
		{"/", ""},
		{"", ""},
		{"//stats", "stats"},
	}
	for _, tc := range cases {
		if got := firstSegment(tc.path); got != tc.want {
			t.Fatalf("firstSegment(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestEntitySegment(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/v1/households/:id/assessment", "households"},
		{"/api/v1/grants/:id/disburse", "grants"},
		{"/api/v1/trainings/:id/reminders", "trainings"},
		{"/api/v1/auth/signup", "auth"},
		{"/households/:id", "households"},
		{"/health", "health"},
		{"/api/v1", ""},
	}
	for _, tc := range cases {
		if got := entitySegment(tc.path); got != tc.want {
			t.Fatalf("entitySegment(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

// The entity must name the resource even though every audited route is
// registered under the /api/v1 group, where c.Path() carries the prefix.
func TestEntitySegment_GroupRegisteredRoute(t *testing.T) {
	e := echo.New()
	g := e.Group("/api/v1")

	var got string
	g.POST("/households/:id/assessment", func(c echo.Context) error {
		got = entitySegment(c.Path())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/households/42/assessment", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got != "households" {
		t.Fatalf("entity for a group-registered households route = %q, want %q", got, "households")
	}
}
