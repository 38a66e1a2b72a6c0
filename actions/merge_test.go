package actions

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func TestMergeFoldsPointTagsOntoWayAndRemovesFreestandingPoint(t *testing.T) {
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, mapedit.NewNode("p", orb.Point{5, 5}, mapedit.Tags{"shop": "bakery"}))
	g = mustReplace(t, g, mapedit.NewWay("10", []mapedit.ID{"1", "2"}, mapedit.Tags{"highway": "residential"}))

	a := Merge{IDs: []mapedit.ID{"10", "p"}}
	if reason := a.Disabled(g); reason != "" {
		t.Fatalf("Disabled() = %q, want eligible", reason)
	}
	next := a.Apply(g)

	w, _ := entity[mapedit.Way](next, "10")
	if v, _ := w.Tags().Get("shop"); v != "bakery" {
		t.Fatalf("expected shop=bakery merged onto way, got %v", w.Tags())
	}
	if v, _ := w.Tags().Get("highway"); v != "residential" {
		t.Fatalf("expected original way tags preserved, got %v", w.Tags())
	}
	if next.HasEntity("p") != nil {
		t.Fatal("expected freestanding point removed")
	}
}

func TestMergeKeepsPointThatIsAlreadyAWayVertex(t *testing.T) {
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, mapedit.Tags{"shop": "bakery"}))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, mapedit.NewWay("10", []mapedit.ID{"1", "2"}, nil))

	next := Merge{IDs: []mapedit.ID{"10", "1"}}.Apply(g)
	if next.HasEntity("1") == nil {
		t.Fatal("expected vertex node to remain, its coordinates must not move")
	}
}

func TestMergeDisabledWhenSelectionContainsARelation(t *testing.T) {
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewWay("10", []mapedit.ID{"1", "2"}, nil))
	g = mustReplace(t, g, mapedit.NewRelation("100", nil, nil))

	a := Merge{IDs: []mapedit.ID{"10", "100"}}
	if reason := a.Disabled(g); reason != "not_eligible" {
		t.Fatalf("Disabled() = %q, want not_eligible", reason)
	}
}

func TestMergeDisabledWithMultipleWays(t *testing.T) {
	g := mapedit.NewGraph()
	g = mustReplace(t, g, mapedit.NewWay("10", []mapedit.ID{"1", "2"}, nil))
	g = mustReplace(t, g, mapedit.NewWay("11", []mapedit.ID{"3", "4"}, nil))
	g = mustReplace(t, g, mapedit.NewNode("p", orb.Point{0, 0}, nil))

	a := Merge{IDs: []mapedit.ID{"10", "11", "p"}}
	if reason := a.Disabled(g); reason != "not_eligible" {
		t.Fatalf("Disabled() = %q, want not_eligible", reason)
	}
}
