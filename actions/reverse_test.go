package actions

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func TestReverseWayTagsAndNodeOrder(t *testing.T) {
	g := mapedit.NewGraph()
	n1 := mapedit.NewNode("1", orb.Point{0, 0}, nil)
	n2 := mapedit.NewNode("2", orb.Point{1, 1}, nil)
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2"}, mapedit.Tags{
		"highway":      "residential",
		"oneway":       "yes",
		"direction":    "NE",
		"cycleway:left": "lane",
	})
	g = mustReplace(t, g, n1)
	g = mustReplace(t, g, n2)
	g = mustReplace(t, g, w)

	next := Reverse{EntityID: "10", Options: ReverseOptions{ReverseOneway: true}}.Apply(g)
	got, _ := entity[mapedit.Way](next, "10")

	want := mapedit.Tags{
		"highway":        "residential",
		"oneway":         "-1",
		"direction":      "SW",
		"cycleway:right": "lane",
	}
	if !tagsEqual(got.Tags(), want) {
		t.Fatalf("Tags() = %v, want %v", got.Tags(), want)
	}
	if !idsEqual(got.Nodes, []mapedit.ID{"2", "1"}) {
		t.Fatalf("Nodes = %v, want [2 1]", got.Nodes)
	}
}

func TestReverseWithoutReverseOnewayLeavesOnewayUntouched(t *testing.T) {
	g := mapedit.NewGraph()
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2"}, mapedit.Tags{"oneway": "yes"})
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, w)

	next := Reverse{EntityID: "10"}.Apply(g)
	got, _ := entity[mapedit.Way](next, "10")
	if v, _ := got.Tags().Get("oneway"); v != "yes" {
		t.Fatalf("oneway = %v, want unchanged yes", v)
	}
}

func TestReverseTurnLanesExempt(t *testing.T) {
	g := mapedit.NewGraph()
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2"}, mapedit.Tags{"turn:lanes:backward": "left"})
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, w)

	next := Reverse{EntityID: "10"}.Apply(g)
	got, _ := entity[mapedit.Way](next, "10")
	if v, ok := got.Tags().Get("turn:lanes:backward"); !ok || v != "left" {
		t.Fatalf("expected turn:lanes:backward untouched, got %v", got.Tags())
	}
}

func TestReverseAbsoluteDirectionOnNodeRotatesDegrees(t *testing.T) {
	g := mapedit.NewGraph()
	n1 := mapedit.NewNode("1", orb.Point{0, 0}, mapedit.Tags{"direction": "90"})
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2"}, nil)
	g = mustReplace(t, g, n1)
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, w)

	next := Reverse{EntityID: "1"}.Apply(g)
	got, _ := entity[mapedit.Node](next, "1")
	if v, _ := got.Tags().Get("direction"); v != "270" {
		t.Fatalf("direction = %v, want 270", v)
	}
}

func TestReverseSwapsParentRelationRole(t *testing.T) {
	g := mapedit.NewGraph()
	w := mapedit.NewWay("10", []mapedit.ID{"1", "2"}, nil)
	rel := mapedit.NewRelation("100", []mapedit.Member{{ID: "10", Kind: mapedit.WayKind, Role: "forward"}}, nil)
	g = mustReplace(t, g, mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = mustReplace(t, g, mapedit.NewNode("2", orb.Point{1, 1}, nil))
	g = mustReplace(t, g, w)
	g = mustReplace(t, g, rel)

	next := Reverse{EntityID: "10"}.Apply(g)
	got, _ := entity[mapedit.Relation](next, "100")
	if got.Members[0].Role != "backward" {
		t.Fatalf("Role = %v, want backward", got.Members[0].Role)
	}
}
