package actions

import (
	"testing"

	"github.com/go-mapedit/mapedit"
)

func TestRestrictTurnBuildsRestrictionRelation(t *testing.T) {
	g := mapedit.NewGraph()
	turn := Turn{From: "10", Via: []mapedit.ID{"5"}, ViaKind: mapedit.NodeKind, To: "11"}
	next := RestrictTurn{Turn: turn, Kind: "no_left_turn", RelationID: "900"}.Apply(g)

	rel, ok := entity[mapedit.Relation](next, "900")
	if !ok {
		t.Fatal("expected restriction relation to exist")
	}
	if v, _ := rel.Tags().Get("type"); v != "restriction" {
		t.Fatalf("type = %v, want restriction", v)
	}
	if v, _ := rel.Tags().Get("restriction"); v != "no_left_turn" {
		t.Fatalf("restriction = %v, want no_left_turn", v)
	}
	wantMembers := []mapedit.Member{
		{ID: "10", Kind: mapedit.WayKind, Role: "from"},
		{ID: "5", Kind: mapedit.NodeKind, Role: "via"},
		{ID: "11", Kind: mapedit.WayKind, Role: "to"},
	}
	if len(rel.Members) != len(wantMembers) {
		t.Fatalf("Members = %+v, want %+v", rel.Members, wantMembers)
	}
	for i, m := range rel.Members {
		if m != wantMembers[i] {
			t.Fatalf("Members[%d] = %+v, want %+v", i, m, wantMembers[i])
		}
	}
}

func TestUnrestrictTurnRemovesRelation(t *testing.T) {
	g := mapedit.NewGraph()
	rel := mapedit.NewRelation("900", nil, mapedit.Tags{"type": "restriction"})
	g = mustReplace(t, g, rel)

	next := UnrestrictTurn{RestrictionID: "900"}.Apply(g)
	if next.HasEntity("900") != nil {
		t.Fatal("expected restriction relation removed")
	}
}
