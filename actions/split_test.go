package actions

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func buildOpenWayGraph(t *testing.T) *mapedit.Graph {
	t.Helper()
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{0, 0.01}, nil))
	g = mustReplace(t, g, mapedit.NewNode("3", orb.Point{0, 0.03}, nil))
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2", "3"}, mapedit.Tags{"highway": "residential"})
	return mustReplace(t, g, w)
}

func TestSplitOpenWayKeepsHistoryOnLongestPieceByDefault(t *testing.T) {
	g := buildOpenWayGraph(t)

	a := Split{NodeIDs: []mapedit.ID{"2"}, NewWayIDs: []mapedit.ID{"-1"}}
	if reason := a.Disabled(g); reason != "" {
		t.Fatalf("Disabled() = %q, want eligible", reason)
	}
	next := a.Apply(g)

	kept, ok := entity[mapedit.Way](next, "10")
	if !ok {
		t.Fatal("expected original way id 10 to still exist")
	}
	if !idsEqual(kept.Nodes, []mapedit.ID{"2", "3"}) {
		t.Fatalf("kept way Nodes = %v, want [2 3] (the longer piece)", kept.Nodes)
	}

	newWay, ok := entity[mapedit.Way](next, "-1")
	if !ok {
		t.Fatal("expected new piece at id -1")
	}
	if !idsEqual(newWay.Nodes, []mapedit.ID{"1", "2"}) {
		t.Fatalf("new way Nodes = %v, want [1 2]", newWay.Nodes)
	}
	if v, _ := newWay.Tags().Get("highway"); v != "residential" {
		t.Fatalf("new piece should inherit tags, got %v", newWay.Tags())
	}
}

func TestSplitOpenWayKeepHistoryOnFirst(t *testing.T) {
	g := buildOpenWayGraph(t)

	a := Split{NodeIDs: []mapedit.ID{"2"}, NewWayIDs: []mapedit.ID{"-1"}, KeepHistoryOn: "first"}
	next := a.Apply(g)

	kept, ok := entity[mapedit.Way](next, "10")
	if !ok {
		t.Fatal("expected original way id 10 to still exist")
	}
	if !idsEqual(kept.Nodes, []mapedit.ID{"1", "2"}) {
		t.Fatalf("kept way Nodes = %v, want [1 2] (the first piece)", kept.Nodes)
	}
}

func TestSplitDisabledWithoutASplittableWay(t *testing.T) {
	g := mapedit.NewGraph()
	a := Split{NodeIDs: []mapedit.ID{"nope"}}
	if reason := a.Disabled(g); reason != "not_eligible" {
		t.Fatalf("Disabled() = %q, want not_eligible", reason)
	}
}

func buildClosedWayGraph(t *testing.T) *mapedit.Graph {
	t.Helper()
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewNode("a", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("b", orb.Point{0, 0.01}, nil))
	g = mustReplace(t, g, mapedit.NewNode("c", orb.Point{0.01, 0.01}, nil))
	g = mustReplace(t, g, mapedit.NewNode("d", orb.Point{0.01, 0}, nil))
	w := mapedit.NewWay("20", []mapedit.ID{"a", "b", "c", "d", "a"}, mapedit.Tags{"building": "yes"})
	return mustReplace(t, g, w)
}

func TestSplitClosedWayPicksOppositeNodeAsPartner(t *testing.T) {
	g := buildClosedWayGraph(t)

	a := Split{NodeIDs: []mapedit.ID{"a"}, NewWayIDs: []mapedit.ID{"-1"}}
	if reason := a.Disabled(g); reason != "" {
		t.Fatalf("Disabled() = %q, want eligible", reason)
	}
	next := a.Apply(g)

	p1, ok1 := entity[mapedit.Way](next, "20")
	p2, ok2 := entity[mapedit.Way](next, "-1")
	if !ok1 || !ok2 {
		t.Fatal("expected both pieces to exist")
	}

	both := [][]mapedit.ID{p1.Nodes, p2.Nodes}
	foundACArc := false
	for _, nodes := range both {
		if containsID(nodes, "a") && containsID(nodes, "c") && len(nodes) == 3 {
			foundACArc = true
		}
	}
	if !foundACArc {
		t.Fatalf("expected a 3-node arc between a and c (opposite corners), got pieces %v and %v", p1.Nodes, p2.Nodes)
	}
}

func TestSplitWrapsAreaWayInMultipolygonWhenNoParentRelation(t *testing.T) {
	g := buildClosedWayGraph(t)
	cfg := mapedit.Config{AreaKeys: mapedit.AreaKeys{"building": {}}}
	seq := mapedit.NewSequence(mapedit.RelationKind)

	a := Split{NodeIDs: []mapedit.ID{"a"}, NewWayIDs: []mapedit.ID{"-1"}, Config: cfg, RelationSeq: seq}
	next := a.Apply(g)

	found := false
	for _, id := range next.IDs() {
		if rel, ok := entity[mapedit.Relation](next, id); ok && rel.IsMultipolygon() {
			found = true
			if len(rel.Members) != 2 {
				t.Fatalf("expected 2 outer members, got %d", len(rel.Members))
			}
			for _, m := range rel.Members {
				if m.Role != "outer" {
					t.Fatalf("expected outer role, got %v", m.Role)
				}
			}
		}
	}
	if !found {
		t.Fatal("expected a wrapping multipolygon relation to be created")
	}
}

func TestSplitMigratesOldStyleMultipolygonOuterTags(t *testing.T) {
	g := buildClosedWayGraph(t)
	w, _ := entity[mapedit.Way](g, "20")
	w = w.WithTags(mapedit.Tags{"building": "yes"}).(mapedit.Way)
	g = mustReplace(t, g, w)

	rel := mapedit.NewRelation("100", []mapedit.Member{{ID: "20", Kind: mapedit.WayKind, Role: "outer"}}, mapedit.Tags{"type": "multipolygon"})
	g = mustReplace(t, g, rel)

	a := Split{NodeIDs: []mapedit.ID{"a"}, NewWayIDs: []mapedit.ID{"-1"}}
	next := a.Apply(g)

	gotRel, ok := entity[mapedit.Relation](next, "100")
	if !ok {
		t.Fatal("expected relation 100 to still exist")
	}
	if v, _ := gotRel.Tags().Get("building"); v != "yes" {
		t.Fatalf("expected building=yes migrated onto relation, got %v", gotRel.Tags())
	}
	if len(gotRel.Members) != 2 {
		t.Fatalf("expected both pieces to be members, got %+v", gotRel.Members)
	}
}
