package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kvnochieng52/upgis/internal/models"
)

func (s *Store) CreateSavingsGroup(ctx context.Context, g models.SavingsGroup) (*models.SavingsGroup, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO savings_groups (name, group_type, village_id, meeting_day, total_savings)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, g.Name, g.GroupType, g.VillageID, g.MeetingDay, g.TotalSavings).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}
	return &g, nil
}

func (s *Store) ListSavingsGroups(ctx context.Context) ([]models.SavingsGroup, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.id, g.name, g.group_type, g.village_id, g.meeting_day, g.total_savings,
		       COUNT(m.household_id), g.created_at
		FROM savings_groups g
		LEFT JOIN savings_group_members m ON m.group_id = g.id
		GROUP BY g.id
		ORDER BY g.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.SavingsGroup
	for rows.Next() {
		var g models.SavingsGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupType, &g.VillageID, &g.MeetingDay, &g.TotalSavings, &g.MemberCount, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if groups == nil {
		groups = []models.SavingsGroup{}
	}
	return groups, rows.Err()
}

func (s *Store) AddGroupMember(ctx context.Context, m models.SavingsGroupMember) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO savings_group_members (group_id, household_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, household_id) DO UPDATE SET role = EXCLUDED.role
	`, m.GroupID, m.HouseholdID, m.Role)
	if err != nil {
		return fmt.Errorf("member upsert failed: %w", err)
	}
	return nil
}

func (s *Store) ListGroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.SavingsGroupMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT group_id, household_id, role, joined_at
		FROM savings_group_members
		WHERE group_id = $1
		ORDER BY joined_at
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.SavingsGroupMember
	for rows.Next() {
		var m models.SavingsGroupMember
		if err := rows.Scan(&m.GroupID, &m.HouseholdID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if members == nil {
		members = []models.SavingsGroupMember{}
	}
	return members, rows.Err()
}

func (s *Store) UpdateGroupSavings(ctx context.Context, groupID uuid.UUID, totalSavings float64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE savings_groups SET total_savings = $2 WHERE id = $1",
		groupID, totalSavings)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("not found: %s", groupID)
	}
	return nil
}
