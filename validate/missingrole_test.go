package validate

import (
	"testing"

	"github.com/go-mapedit/mapedit"
)

func TestMissingRoleFlagsBlankRoleOnMultipolygon(t *testing.T) {
	r := MissingRole{}
	rel := mapedit.NewRelation("1", []mapedit.Member{
		{ID: "w1", Kind: mapedit.WayKind, Role: "outer"},
		{ID: "w2", Kind: mapedit.WayKind, Role: "  "},
	}, mapedit.Tags{"type": "multipolygon"})
	issues := r.Check(rel, mapedit.NewGraph())
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1", issues)
	}
	if issues[0].EntityIDs[1] != "w2" {
		t.Fatalf("issues[0].EntityIDs = %v, want second entry w2", issues[0].EntityIDs)
	}
}

func TestMissingRoleIgnoresNonMultipolygonRelation(t *testing.T) {
	r := MissingRole{}
	rel := mapedit.NewRelation("1", []mapedit.Member{
		{ID: "w1", Kind: mapedit.WayKind, Role: ""},
	}, mapedit.Tags{"type": "route"})
	issues := r.Check(rel, mapedit.NewGraph())
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none for a non-multipolygon relation", issues)
	}
}

func TestMissingRoleIgnoresNonRelationEntity(t *testing.T) {
	r := MissingRole{}
	issues := r.Check(mapedit.NewWay("1", nil, nil), mapedit.NewGraph())
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none for a non-relation entity", issues)
	}
}
