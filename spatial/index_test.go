package spatial

import (
	"sort"
	"testing"

	"github.com/go-mapedit/mapedit"
)

func idSet(ids []mapedit.ID) map[mapedit.ID]bool {
	out := make(map[mapedit.ID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func TestIndexSearchFindsOverlapping(t *testing.T) {
	idx := NewIndex()
	idx.Replace("default", map[mapedit.ID]BBox{
		"1": {MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		"2": {MinX: 20, MinY: 20, MaxX: 30, MaxY: 30},
		"3": {MinX: 5, MinY: 5, MaxX: 15, MaxY: 15},
	})

	got := idSet(idx.Search("default", BBox{MinX: 0, MinY: 0, MaxX: 6, MaxY: 6}))
	if !got["1"] || !got["3"] || got["2"] {
		t.Fatalf("unexpected search result: %v", got)
	}
}

func TestIndexSearchUnknownNamespace(t *testing.T) {
	idx := NewIndex()
	if got := idx.Search("missing", BBox{MaxX: 1, MaxY: 1}); got != nil {
		t.Fatalf("expected nil for unknown namespace, got %v", got)
	}
}

func TestIndexRemove(t *testing.T) {
	idx := NewIndex()
	idx.Replace("default", map[mapedit.ID]BBox{
		"1": {MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
	})
	idx.Remove("default", "1")
	if idx.Has("default", "1") {
		t.Fatal("expected id to be removed")
	}
	if got := idx.Search("default", BBox{MinX: -1, MinY: -1, MaxX: 2, MaxY: 2}); len(got) != 0 {
		t.Fatalf("expected empty search after remove, got %v", got)
	}
}

func TestIndexBulkLoadManyEntries(t *testing.T) {
	idx := NewIndex()
	boxes := make(map[mapedit.ID]BBox)
	for i := 0; i < 500; i++ {
		x := float64(i)
		boxes[mapedit.ID(sprintID(i))] = BBox{MinX: x, MinY: x, MaxX: x + 1, MaxY: x + 1}
	}
	idx.Replace("default", boxes)

	got := idx.Search("default", BBox{MinX: 250, MinY: 250, MaxX: 251, MaxY: 251})
	if len(got) == 0 {
		t.Fatal("expected at least one match in dense bulk load")
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
}

func sprintID(i int) string {
	digits := [20]byte{}
	pos := len(digits)
	if i == 0 {
		return "0"
	}
	for i > 0 {
		pos--
		digits[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(digits[pos:])
}

func TestBBoxIntersectsTouchingEdge(t *testing.T) {
	a := BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := BBox{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}
	if !a.Intersects(b) {
		t.Fatal("expected touching boxes to intersect")
	}
	c := BBox{MinX: 11, MinY: 11, MaxX: 20, MaxY: 20}
	if a.Intersects(c) {
		t.Fatal("expected disjoint boxes not to intersect")
	}
}

func TestBBoxUnion(t *testing.T) {
	a := BBox{MinX: 0, MinY: 5, MaxX: 10, MaxY: 15}
	b := BBox{MinX: -5, MinY: 0, MaxX: 3, MaxY: 20}
	u := a.Union(b)
	want := BBox{MinX: -5, MinY: 0, MaxX: 10, MaxY: 20}
	if u != want {
		t.Fatalf("Union() = %+v, want %+v", u, want)
	}
}
