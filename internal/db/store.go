package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvnochieng52/upgis/internal/eligibility"
	"github.com/kvnochieng52/upgis/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type HouseholdListParams struct {
	Query       string     // matches household name or head names
	VillageID   *uuid.UUID
	ConsentOnly bool
	Limit       int
	Offset      int
}

type HouseholdListResult struct {
	Households []models.Household `json:"households"`
	Total      int                `json:"total"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// householdCols is the column list shared by every household query.
// Joined against villages for the display name.
const householdCols = `h.id, h.name, h.village_id, v.name, h.head_first_name, h.head_middle_name,
	h.head_last_name, h.head_id_number, h.phone_number, h.gps_latitude, h.gps_longitude,
	h.monthly_income, h.assets, h.has_electricity, h.has_clean_water, h.location,
	h.consent_given, h.notes, h.created_at, h.updated_at`

func scanHousehold(scan func(dest ...interface{}) error) (models.Household, error) {
	var h models.Household
	var assetsRaw []byte

	err := scan(
		&h.ID, &h.Name, &h.VillageID, &h.VillageName, &h.HeadFirstName, &h.HeadMiddleName,
		&h.HeadLastName, &h.HeadIDNumber, &h.PhoneNumber, &h.GPSLatitude, &h.GPSLongitude,
		&h.MonthlyIncome, &assetsRaw, &h.HasElectricity, &h.HasCleanWater, &h.Location,
		&h.ConsentGiven, &h.Notes, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return h, err
	}

	if len(assetsRaw) > 0 {
		_ = json.Unmarshal(assetsRaw, &h.Assets)
	}
	if h.Assets == nil {
		h.Assets = map[string]bool{}
	}

	return h, nil
}

// buildHouseholdWhere assembles the filter clause and positional args for
// household listings.
func buildHouseholdWhere(params HouseholdListParams) (string, []interface{}) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Query != "" {
		where += fmt.Sprintf(` AND (h.name ILIKE '%%' || $%d || '%%'
			OR h.head_first_name ILIKE '%%' || $%d || '%%'
			OR h.head_last_name ILIKE '%%' || $%d || '%%')`, argIdx, argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.VillageID != nil {
		where += fmt.Sprintf(" AND h.village_id = $%d", argIdx)
		args = append(args, *params.VillageID)
		argIdx++
	}
	if params.ConsentOnly {
		where += " AND h.consent_given = true"
	}

	return where, args
}

func (s *Store) ListHouseholds(ctx context.Context, params HouseholdListParams) (*HouseholdListResult, error) {
	where, args := buildHouseholdWhere(params)

	var total int
	countSQL := "SELECT COUNT(*) FROM households h JOIN villages v ON v.id = h.village_id " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	selectSQL := fmt.Sprintf(
		"SELECT %s FROM households h JOIN villages v ON v.id = h.village_id %s ORDER BY h.created_at DESC LIMIT $%d OFFSET $%d",
		householdCols, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var households []models.Household
	for rows.Next() {
		h, err := scanHousehold(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if households == nil {
		households = []models.Household{}
	}

	return &HouseholdListResult{
		Households: households,
		Total:      total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}, nil
}

func (s *Store) GetHousehold(ctx context.Context, id uuid.UUID) (*models.Household, error) {
	sql := fmt.Sprintf("SELECT %s FROM households h JOIN villages v ON v.id = h.village_id WHERE h.id = $1", householdCols)
	row := s.pool.QueryRow(ctx, sql, id)

	h, err := scanHousehold(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}

	return &h, nil
}

func (s *Store) CreateHousehold(ctx context.Context, h models.Household) (*models.Household, error) {
	assets, err := json.Marshal(nonNilAssets(h.Assets))
	if err != nil {
		return nil, fmt.Errorf("encoding assets: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO households (
			name, village_id, head_first_name, head_middle_name, head_last_name,
			head_id_number, phone_number, gps_latitude, gps_longitude, monthly_income,
			assets, has_electricity, has_clean_water, location, consent_given, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`,
		h.Name, h.VillageID, h.HeadFirstName, h.HeadMiddleName, h.HeadLastName,
		h.HeadIDNumber, h.PhoneNumber, h.GPSLatitude, h.GPSLongitude, h.MonthlyIncome,
		assets, h.HasElectricity, h.HasCleanWater, h.Location, h.ConsentGiven, h.Notes,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	return &h, nil
}

func (s *Store) UpdateHousehold(ctx context.Context, h models.Household) (*models.Household, error) {
	assets, err := json.Marshal(nonNilAssets(h.Assets))
	if err != nil {
		return nil, fmt.Errorf("encoding assets: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE households SET
			name = $2, village_id = $3, head_first_name = $4, head_middle_name = $5,
			head_last_name = $6, head_id_number = $7, phone_number = $8,
			gps_latitude = $9, gps_longitude = $10, monthly_income = $11, assets = $12,
			has_electricity = $13, has_clean_water = $14, location = $15,
			consent_given = $16, notes = $17, updated_at = NOW()
		WHERE id = $1
	`,
		h.ID, h.Name, h.VillageID, h.HeadFirstName, h.HeadMiddleName,
		h.HeadLastName, h.HeadIDNumber, h.PhoneNumber,
		h.GPSLatitude, h.GPSLongitude, h.MonthlyIncome, assets,
		h.HasElectricity, h.HasCleanWater, h.Location,
		h.ConsentGiven, h.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("not found: %s", h.ID)
	}

	return s.GetHousehold(ctx, h.ID)
}

func (s *Store) DeleteHousehold(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM households WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("not found: %s", id)
	}
	return nil
}

func nonNilAssets(assets map[string]bool) map[string]bool {
	if assets == nil {
		return map[string]bool{}
	}
	return assets
}

// Members

func (s *Store) AddMember(ctx context.Context, m models.HouseholdMember) (*models.HouseholdMember, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO household_members (
			household_id, first_name, last_name, gender, age,
			relationship_to_head, education_level, is_disabled, phone_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		m.HouseholdID, m.FirstName, m.LastName, m.Gender, m.Age,
		m.RelationshipToHead, m.EducationLevel, m.IsDisabled, m.PhoneNumber,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &m, nil
}

func (s *Store) ListMembers(ctx context.Context, householdID uuid.UUID) ([]models.HouseholdMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, household_id, first_name, last_name, gender, age,
		       relationship_to_head, education_level, is_disabled, phone_number, created_at
		FROM household_members
		WHERE household_id = $1
		ORDER BY created_at ASC
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.HouseholdMember
	for rows.Next() {
		var m models.HouseholdMember
		if err := rows.Scan(
			&m.ID, &m.HouseholdID, &m.FirstName, &m.LastName, &m.Gender, &m.Age,
			&m.RelationshipToHead, &m.EducationLevel, &m.IsDisabled, &m.PhoneNumber, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// PPI scores

func (s *Store) AddPPIScore(ctx context.Context, p models.PPIScore) (*models.PPIScore, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO ppi_scores (household_id, name, score, assessment_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.HouseholdID, p.Name, p.Score, p.AssessmentDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &p, nil
}

func (s *Store) latestPPIScore(ctx context.Context, householdID uuid.UUID) (*int, error) {
	var score int
	err := s.pool.QueryRow(ctx, `
		SELECT score FROM ppi_scores
		WHERE household_id = $1
		ORDER BY assessment_date DESC, created_at DESC
		LIMIT 1
	`, householdID).Scan(&score)
	return ppiScoreFromScan(score, err)
}

// ppiScoreFromScan maps a missing PPI record to nil: the scorer has a
// neutral default for it. Any other query failure must surface, otherwise
// a transient error would silently score the household at the default.
func ppiScoreFromScan(score int, err error) (*int, error) {
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading ppi score: %w", err)
	}
	return &score, nil
}

func (s *Store) getVillage(ctx context.Context, id uuid.UUID) (*models.Village, error) {
	var v models.Village
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, district, subcounty, distance_to_market, is_program_area, created_at
		FROM villages WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.District, &v.Subcounty, &v.DistanceToMarket, &v.IsProgramArea, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("village not found: %w", err)
	}
	return &v, nil
}

func (s *Store) ListVillages(ctx context.Context) ([]models.Village, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, district, subcounty, distance_to_market, is_program_area, created_at
		FROM villages ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villages []models.Village
	for rows.Next() {
		var v models.Village
		if err := rows.Scan(&v.ID, &v.Name, &v.District, &v.Subcounty, &v.DistanceToMarket, &v.IsProgramArea, &v.CreatedAt); err != nil {
			return nil, err
		}
		villages = append(villages, v)
	}
	return villages, rows.Err()
}

func (s *Store) CreateVillage(ctx context.Context, v models.Village) (*models.Village, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO villages (name, district, subcounty, distance_to_market, is_program_area)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, v.Name, v.District, v.Subcounty, v.DistanceToMarket, v.IsProgramArea).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &v, nil
}

// LoadSnapshot assembles the scoring input for one household from its
// stored record, member roster, latest PPI score and village.
func (s *Store) LoadSnapshot(ctx context.Context, householdID uuid.UUID) (eligibility.Snapshot, *models.Household, error) {
	h, err := s.GetHousehold(ctx, householdID)
	if err != nil {
		return eligibility.Snapshot{}, nil, err
	}

	members, err := s.ListMembers(ctx, householdID)
	if err != nil {
		return eligibility.Snapshot{}, nil, fmt.Errorf("loading members: %w", err)
	}

	ppi, err := s.latestPPIScore(ctx, householdID)
	if err != nil {
		return eligibility.Snapshot{}, nil, err
	}

	village, err := s.getVillage(ctx, h.VillageID)
	if err != nil {
		return eligibility.Snapshot{}, nil, err
	}

	return models.BuildSnapshot(*h, members, ppi, village), h, nil
}
