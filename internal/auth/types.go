package auth

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles, from most to least privileged. County executives get
// read-only access to reports and dashboards.
const (
	RoleICTAdmin        = "ict_admin"
	RoleMEStaff         = "me_staff"
	RoleFieldAssociate  = "field_associate"
	RoleCountyExecutive = "county_executive"
)

func ValidRole(role string) bool {
	switch role {
	case RoleICTAdmin, RoleMEStaff, RoleFieldAssociate, RoleCountyExecutive:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
