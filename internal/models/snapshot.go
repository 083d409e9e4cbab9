package models

import "github.com/kvnochieng52/upgis/internal/eligibility"

// BuildSnapshot assembles the scorer's read-only input from stored
// records. Derived counts follow the program definitions: working age is
// 16-64, children are under 5, and a single-parent household is a head
// with children but no spouse on the roster.
func BuildSnapshot(h Household, members []HouseholdMember, latestPPI *int, village *Village) eligibility.Snapshot {
	s := eligibility.Snapshot{
		LatestPPIScore: latestPPI,
		MonthlyIncome:  h.MonthlyIncome,
		Assets:         h.Assets,
		Location:       h.Location,
		HasElectricity: h.HasElectricity,
		HasCleanWater:  h.HasCleanWater,
		ConsentGiven:   h.ConsentGiven,
		TotalMembers:   len(members),
	}

	var spouses, children int
	for _, m := range members {
		if m.Age < 5 {
			s.ChildrenUnder5Count++
		}
		if m.Age >= 16 && m.Age <= 64 {
			s.WorkingMembersCount++
		}
		if m.IsDisabled {
			s.DisabledMembersCount++
		}
		switch m.RelationshipToHead {
		case RelationshipHead:
			s.HeadGender = m.Gender
			s.HeadAge = m.Age
			s.HeadEducationLevel = m.EducationLevel
		case RelationshipSpouse:
			spouses++
		case RelationshipChild:
			children++
		}
	}
	s.IsSingleParent = children > 0 && spouses == 0

	if village != nil {
		inArea := village.IsProgramArea
		s.Village = &eligibility.VillageInfo{
			DistanceToMarket: village.DistanceToMarket,
			IsProgramArea:    &inArea,
		}
	}

	return s
}
