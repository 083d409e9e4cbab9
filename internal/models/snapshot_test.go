package models

import "testing"

func TestBuildSnapshot_DerivedCounts(t *testing.T) {
	income := 3000.0
	h := Household{
		MonthlyIncome: &income,
		Assets:        map[string]bool{"radio": true},
		Location:      "remote",
		HasCleanWater: true,
		ConsentGiven:  true,
	}
	members := []HouseholdMember{
		{Gender: "female", Age: 58, RelationshipToHead: RelationshipHead, EducationLevel: "primary_complete"},
		{Gender: "male", Age: 3, RelationshipToHead: RelationshipChild},
		{Gender: "female", Age: 4, RelationshipToHead: RelationshipChild},
		{Gender: "male", Age: 17, RelationshipToHead: RelationshipChild, IsDisabled: true},
		{Gender: "female", Age: 80, RelationshipToHead: RelationshipOther},
	}
	ppi := 35

	s := BuildSnapshot(h, members, &ppi, nil)

	if s.TotalMembers != 5 {
		t.Fatalf("expected 5 members, got %d", s.TotalMembers)
	}
	if s.ChildrenUnder5Count != 2 {
		t.Fatalf("expected 2 children under 5, got %d", s.ChildrenUnder5Count)
	}
	if s.WorkingMembersCount != 2 {
		t.Fatalf("expected 2 working-age members, got %d", s.WorkingMembersCount)
	}
	if s.DisabledMembersCount != 1 {
		t.Fatalf("expected 1 disabled member, got %d", s.DisabledMembersCount)
	}
	if s.HeadGender != "female" || s.HeadAge != 58 || s.HeadEducationLevel != "primary_complete" {
		t.Fatalf("head attributes not derived: %+v", s)
	}
	if !s.IsSingleParent {
		t.Fatal("head with children and no spouse is a single parent")
	}
	if s.LatestPPIScore == nil || *s.LatestPPIScore != 35 {
		t.Fatal("latest PPI not carried over")
	}
	if s.Village != nil {
		t.Fatal("no village record means no village info")
	}
}

func TestBuildSnapshot_SpousePresentIsNotSingleParent(t *testing.T) {
	members := []HouseholdMember{
		{Gender: "male", Age: 40, RelationshipToHead: RelationshipHead},
		{Gender: "female", Age: 38, RelationshipToHead: RelationshipSpouse},
		{Gender: "male", Age: 10, RelationshipToHead: RelationshipChild},
	}

	s := BuildSnapshot(Household{}, members, nil, nil)
	if s.IsSingleParent {
		t.Fatal("household with a spouse is not single-parent")
	}
	if s.LatestPPIScore != nil {
		t.Fatal("missing PPI must stay nil")
	}
}

func TestBuildSnapshot_VillageCarriesProgramAreaFlag(t *testing.T) {
	v := Village{DistanceToMarket: 12, IsProgramArea: false}

	s := BuildSnapshot(Household{}, nil, nil, &v)
	if s.Village == nil {
		t.Fatal("expected village info")
	}
	if s.Village.DistanceToMarket != 12 {
		t.Fatalf("expected distance 12, got %d", s.Village.DistanceToMarket)
	}
	if s.Village.IsProgramArea == nil || *s.Village.IsProgramArea {
		t.Fatal("program-area flag must be carried through as false")
	}
}

func TestHeadFullName_SkipsEmptyParts(t *testing.T) {
	h := Household{HeadFirstName: "Akai", HeadLastName: "Lokwang"}
	if got := h.HeadFullName(); got != "Akai Lokwang" {
		t.Fatalf("expected %q, got %q", "Akai Lokwang", got)
	}
}

func TestValidGrantTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{GrantStatusDraft, GrantStatusSubmitted, true},
		{GrantStatusSubmitted, GrantStatusUnderReview, true},
		{GrantStatusUnderReview, GrantStatusApproved, true},
		{GrantStatusUnderReview, GrantStatusRejected, true},
		{GrantStatusApproved, GrantStatusDisbursed, false},
		{GrantStatusDraft, GrantStatusApproved, false},
		{GrantStatusRejected, GrantStatusSubmitted, false},
		{GrantStatusDisbursed, GrantStatusApproved, false},
	}

	for _, tt := range tests {
		if got := ValidGrantTransition(tt.from, tt.to); got != tt.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}
