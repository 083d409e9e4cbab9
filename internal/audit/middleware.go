// Package audit records mutating API requests to the audit_logs table.
package audit

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/kvnochieng52/upgis/internal/auth"
)

type Logger struct {
	db *pgxpool.Pool
}

func NewLogger(db *pgxpool.Pool) *Logger {
	return &Logger{db: db}
}

// Middleware writes one audit row per mutating request after the handler
// runs. Reads are not logged. A failed insert never fails the request.
func (l *Logger) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		method := c.Request().Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return err
		}

		status := c.Response().Status
		if err != nil {
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		var userID *uuid.UUID
		if id, uidErr := auth.GetUserIDFromContext(c); uidErr == nil {
			userID = &id
		}

		entity := entitySegment(c.Path())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, insErr := l.db.Exec(ctx, `
			INSERT INTO audit_logs (user_id, action, path, entity, status_code, remote_ip)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, userID, method, c.Request().URL.Path, entity, status, c.RealIP())
		if insErr != nil {
			log.Printf("audit insert failed: %v", insErr)
		}

		return err
	}
}

// apiPrefix is the route group all audited endpoints live under. It has
// to be stripped before extracting the entity, or every row would read
// "api".
const apiPrefix = "/api/v1"

// entitySegment extracts the resource name from a registered route path,
// e.g. "households" from "/api/v1/households/:id/assessment".
func entitySegment(path string) string {
	return firstSegment(strings.TrimPrefix(path, apiPrefix))
}

// firstSegment extracts the leading route segment, e.g. "households"
// from "/households/:id/assessment".
func firstSegment(path string) string {
	start := 0
	for start < len(path) && path[start] == '/' {
		start++
	}
	end := start
	for end < len(path) && path[end] != '/' {
		end++
	}
	return path[start:end]
}
