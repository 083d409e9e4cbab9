package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleICTAdmin, RoleMEStaff, RoleFieldAssociate, RoleCountyExecutive} {
		if !ValidRole(role) {
			t.Fatalf("role %q should be valid", role)
		}
	}
	if ValidRole("superuser") {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	guarded := RequireRoles(RoleICTAdmin, RoleMEStaff)(handler)

	run := func(role string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(string(RoleKey), role)
		return guarded(c)
	}

	if err := run(RoleMEStaff); err != nil {
		t.Fatalf("allowed role rejected: %v", err)
	}

	err := run(RoleFieldAssociate)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed role, got %v", err)
	}

	err = run("")
	httpErr, ok = err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing role, got %v", err)
	}
}
