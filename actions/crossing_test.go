package actions

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func TestSyncCrossingTagsFromWayToNode(t *testing.T) {
	g := mapedit.NewGraph()
	n := mapedit.NewNode("n", orb.Point{0, 0}, mapedit.Tags{"highway": "crossing"})
	w := mapedit.NewWay("w", []mapedit.ID{"n"}, mapedit.Tags{
		"highway":             "footway",
		"crossing":            "unmarked",
		"crossing:markings":   "zebra",
	})
	g = mustReplace(t, g, n)
	g = mustReplace(t, g, w)

	next := SyncCrossingTags{ID: "w"}.Apply(g)

	gotNode, _ := entity[mapedit.Node](next, "n")
	if v, _ := gotNode.Tags().Get("crossing:markings"); v != "zebra" {
		t.Fatalf("node crossing:markings = %v, want zebra", v)
	}
	if v, _ := gotNode.Tags().Get("crossing"); v != "marked" {
		t.Fatalf("node crossing = %v, want marked (markings present)", v)
	}

	gotWay, _ := entity[mapedit.Way](next, "w")
	if v, _ := gotWay.Tags().Get("crossing"); v != "marked" {
		t.Fatalf("way crossing = %v, want marked", v)
	}
}

func TestSyncCrossingTagsFromNodeSetsUnmarkedWithoutMarkings(t *testing.T) {
	g := mapedit.NewGraph()
	n := mapedit.NewNode("n", orb.Point{0, 0}, mapedit.Tags{"highway": "crossing"})
	w := mapedit.NewWay("w", []mapedit.ID{"n"}, mapedit.Tags{"footway": "crossing", "highway": "footway"})
	g = mustReplace(t, g, n)
	g = mustReplace(t, g, w)

	next := SyncCrossingTags{ID: "n"}.Apply(g)

	gotWay, _ := entity[mapedit.Way](next, "w")
	if v, _ := gotWay.Tags().Get("crossing"); v != "unmarked" {
		t.Fatalf("way crossing = %v, want unmarked (no markings known)", v)
	}
}

func TestSyncCrossingTagsSetsFootwayWhenMissing(t *testing.T) {
	g := mapedit.NewGraph()
	n := mapedit.NewNode("n", orb.Point{0, 0}, mapedit.Tags{"highway": "crossing"})
	w := mapedit.NewWay("w", []mapedit.ID{"n"}, mapedit.Tags{"highway": "footway"})
	g = mustReplace(t, g, n)
	g = mustReplace(t, g, w)

	next := SyncCrossingTags{ID: "w"}.Apply(g)

	gotWay, _ := entity[mapedit.Way](next, "w")
	if v, _ := gotWay.Tags().Get("footway"); v != "crossing" {
		t.Fatalf("footway = %v, want crossing", v)
	}
}

func TestSyncCrossingTagsNoopWithoutCrossingNode(t *testing.T) {
	g := mapedit.NewGraph()
	n := mapedit.NewNode("n", orb.Point{0, 0}, nil)
	w := mapedit.NewWay("w", []mapedit.ID{"n"}, mapedit.Tags{"highway": "footway"})
	g = mustReplace(t, g, n)
	g = mustReplace(t, g, w)

	next := SyncCrossingTags{ID: "w"}.Apply(g)
	if next != g {
		t.Fatal("expected no-op when the way has no highway=crossing node")
	}
}
