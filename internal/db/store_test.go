package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kvnochieng52/upgis/internal/models"
)

func TestBuildHouseholdWhere_Empty(t *testing.T) {
	where, args := buildHouseholdWhere(HouseholdListParams{})

	if where != "WHERE 1=1" {
		t.Fatalf("empty params should produce a bare clause, got: %s", where)
	}
	if len(args) != 0 {
		t.Fatalf("empty params should bind no args, got %d", len(args))
	}
}

func TestBuildHouseholdWhere_AllFilters(t *testing.T) {
	vid := uuid.New()
	where, args := buildHouseholdWhere(HouseholdListParams{
		Query:       "wanjiku",
		VillageID:   &vid,
		ConsentOnly: true,
	})

	mustContain := []string{
		"h.name ILIKE",
		"h.head_first_name ILIKE",
		"h.head_last_name ILIKE",
		"h.village_id = $2",
		"h.consent_given = true",
	}
	for _, token := range mustContain {
		if !strings.Contains(where, token) {
			t.Fatalf("clause missing token %q: %s", token, where)
		}
	}

	// The search term binds once and is reused across the name columns.
	if len(args) != 2 {
		t.Fatalf("expected 2 bound args, got %d: %v", len(args), args)
	}
	if args[0] != "wanjiku" {
		t.Fatalf("first arg should be the search term, got %v", args[0])
	}
	if args[1] != vid {
		t.Fatalf("second arg should be the village id, got %v", args[1])
	}
}

func TestBuildHouseholdWhere_ConsentBindsNoArg(t *testing.T) {
	where, args := buildHouseholdWhere(HouseholdListParams{ConsentOnly: true})

	if !strings.Contains(where, "h.consent_given = true") {
		t.Fatalf("consent filter missing: %s", where)
	}
	if len(args) != 0 {
		t.Fatalf("consent filter must not bind args, got %d", len(args))
	}
}

func TestBuildGrantWhere_PlaceholdersStaySequential(t *testing.T) {
	hid := uuid.New()
	where, args := buildGrantWhere(GrantListParams{
		HouseholdID: &hid,
		Status:      "approved",
		GrantType:   "sb_grant",
	})

	mustContain := []string{
		"g.household_id = $1",
		"g.status = $2",
		"g.grant_type = $3",
	}
	for _, token := range mustContain {
		if !strings.Contains(where, token) {
			t.Fatalf("clause missing token %q: %s", token, where)
		}
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 bound args, got %d", len(args))
	}
}

func TestPPIScoreFromScan(t *testing.T) {
	score, err := ppiScoreFromScan(42, nil)
	if err != nil {
		t.Fatalf("successful scan must not error: %v", err)
	}
	if score == nil || *score != 42 {
		t.Fatalf("expected score 42, got %v", score)
	}

	// No PPI record yet: the scorer has a neutral default, not an error.
	score, err = ppiScoreFromScan(0, pgx.ErrNoRows)
	if err != nil {
		t.Fatalf("missing record must not error: %v", err)
	}
	if score != nil {
		t.Fatalf("missing record must yield nil, got %v", *score)
	}

	// Anything else must surface, otherwise a transient failure would
	// silently score the household at the neutral default.
	queryErr := errors.New("connection reset")
	score, err = ppiScoreFromScan(0, queryErr)
	if err == nil {
		t.Fatal("query failure must propagate, not default to nil score")
	}
	if !errors.Is(err, queryErr) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
	if score != nil {
		t.Fatalf("failed scan must not yield a score, got %v", *score)
	}
}

func TestTransitionUpdateSQL_GuardsCurrentStatus(t *testing.T) {
	targets := []string{
		models.GrantStatusSubmitted,
		models.GrantStatusUnderReview,
		models.GrantStatusApproved,
		models.GrantStatusRejected,
	}
	for _, to := range targets {
		sql := transitionUpdateSQL(to)
		if sql == "" {
			t.Fatalf("no update statement for target status %s", to)
		}
		// Every transition guards on the expected current status so two
		// concurrent moves cannot both match the row.
		if !strings.Contains(sql, "AND status = $") {
			t.Fatalf("%s update is missing the status guard: %s", to, sql)
		}
		if !strings.Contains(sql, "updated_at = NOW()") {
			t.Fatalf("%s update must stamp updated_at: %s", to, sql)
		}
	}

	if sql := transitionUpdateSQL(models.GrantStatusDisbursed); sql != "" {
		t.Fatalf("disbursal must go through DisburseGrant, got statement: %s", sql)
	}
	if sql := transitionUpdateSQL("unheard_of"); sql != "" {
		t.Fatalf("unknown status must have no statement, got: %s", sql)
	}
}

func TestBuildGrantWhere_StatusOnly(t *testing.T) {
	where, args := buildGrantWhere(GrantListParams{Status: "disbursed"})

	if !strings.Contains(where, "g.status = $1") {
		t.Fatalf("status filter should take the first placeholder: %s", where)
	}
	if len(args) != 1 || args[0] != "disbursed" {
		t.Fatalf("unexpected args: %v", args)
	}
}
