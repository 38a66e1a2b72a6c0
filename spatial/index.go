// Package spatial implements a bounding-box index keyed by entity id,
// reconciled against a graph's changes through mapedit.Difference rather
// than rebuilt from scratch on every query.
//
// The index itself is a small bulk-loaded structure in the spirit of an
// STR (sort-tile-recursive) R-tree: entries are sorted into roughly
// sqrt(n/leafSize) vertical stripes, each stripe sliced into leaves holding
// a bounded number of entries, and search scans leaf bounding boxes before
// scanning entries within a matching leaf. No R-tree library appears
// anywhere in the example corpus this project draws from, so this is
// hand-rolled rather than grounded on a dependency; see the design notes
// for that justification.
package spatial

import (
	"sort"
	"sync"

	"github.com/go-mapedit/mapedit"
)

// BBox is an axis-aligned bounding box in projected world-pixel coordinates.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether b and o overlap (including touching at an
// edge).
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: min64(b.MinX, o.MinX), MinY: min64(b.MinY, o.MinY),
		MaxX: max64(b.MaxX, o.MaxX), MaxY: max64(b.MaxY, o.MaxY),
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

const leafSize = 16

type entry struct {
	id  mapedit.ID
	box BBox
}

// namespace holds one indexID's entries and its bulk-loaded leaves.
type namespace struct {
	boxes  map[mapedit.ID]BBox
	leaves []leaf
	dirty  bool
}

type leaf struct {
	box     BBox
	entries []entry
}

// Index is a collection of independently-queried namespaces (e.g. one per
// map layer), safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]*namespace
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{namespaces: make(map[string]*namespace)}
}

func (idx *Index) namespaceFor(indexID string) *namespace {
	ns, ok := idx.namespaces[indexID]
	if !ok {
		ns = &namespace{boxes: make(map[mapedit.ID]BBox)}
		idx.namespaces[indexID] = ns
	}
	return ns
}

// Has reports whether entityID currently has a box recorded in indexID.
func (idx *Index) Has(indexID string, entityID mapedit.ID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ns, ok := idx.namespaces[indexID]
	if !ok {
		return false
	}
	_, ok = ns.boxes[entityID]
	return ok
}

// Replace installs or updates the bounding boxes in boxes for indexID and
// marks it for rebuild on the next Search.
func (idx *Index) Replace(indexID string, boxes map[mapedit.ID]BBox) {
	if len(boxes) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	ns := idx.namespaceFor(indexID)
	for id, box := range boxes {
		ns.boxes[id] = box
	}
	ns.dirty = true
}

// Remove drops entityID from indexID.
func (idx *Index) Remove(indexID string, entityID mapedit.ID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	ns, ok := idx.namespaces[indexID]
	if !ok {
		return
	}
	delete(ns.boxes, entityID)
	ns.dirty = true
}

// Search returns every entity id in indexID whose box intersects box.
func (idx *Index) Search(indexID string, box BBox) []mapedit.ID {
	idx.mu.Lock()
	ns, ok := idx.namespaces[indexID]
	if !ok {
		idx.mu.Unlock()
		return nil
	}
	if ns.dirty {
		bulkLoad(ns)
	}
	leaves := ns.leaves
	idx.mu.Unlock()

	var out []mapedit.ID
	for _, lf := range leaves {
		if !lf.box.Intersects(box) {
			continue
		}
		for _, e := range lf.entries {
			if e.box.Intersects(box) {
				out = append(out, e.id)
			}
		}
	}
	return out
}

// GetIndex returns the current entity-id → box snapshot for indexID, for
// callers that want direct access (diagnostics, tests) rather than a range
// search.
func (idx *Index) GetIndex(indexID string) map[mapedit.ID]BBox {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ns, ok := idx.namespaces[indexID]
	if !ok {
		return nil
	}
	out := make(map[mapedit.ID]BBox, len(ns.boxes))
	for id, box := range ns.boxes {
		out[id] = box
	}
	return out
}

// bulkLoad rebuilds ns.leaves via sort-tile-recursive bulk loading: entries
// sorted by center-x into ceil(sqrt(ceil(n/leafSize))) stripes of equal size
// (the last may be shorter), each stripe sorted by center-y and sliced into
// leaves of at most leafSize entries.
func bulkLoad(ns *namespace) {
	entries := make([]entry, 0, len(ns.boxes))
	for id, box := range ns.boxes {
		entries = append(entries, entry{id: id, box: box})
	}
	ns.dirty = false
	if len(entries) == 0 {
		ns.leaves = nil
		return
	}

	centerX := func(e entry) float64 { return (e.box.MinX + e.box.MaxX) / 2 }
	centerY := func(e entry) float64 { return (e.box.MinY + e.box.MaxY) / 2 }

	sort.Slice(entries, func(i, j int) bool { return centerX(entries[i]) < centerX(entries[j]) })

	stripeCount := isqrt((len(entries) + leafSize - 1) / leafSize)
	if stripeCount < 1 {
		stripeCount = 1
	}
	stripeSize := (len(entries) + stripeCount - 1) / stripeCount

	var leaves []leaf
	for start := 0; start < len(entries); start += stripeSize {
		end := start + stripeSize
		if end > len(entries) {
			end = len(entries)
		}
		stripe := entries[start:end]
		sort.Slice(stripe, func(i, j int) bool { return centerY(stripe[i]) < centerY(stripe[j]) })
		for i := 0; i < len(stripe); i += leafSize {
			j := i + leafSize
			if j > len(stripe) {
				j = len(stripe)
			}
			group := append([]entry{}, stripe[i:j]...)
			box := group[0].box
			for _, e := range group[1:] {
				box = box.Union(e.box)
			}
			leaves = append(leaves, leaf{box: box, entries: group})
		}
	}
	ns.leaves = leaves
}

func isqrt(n int) int {
	if n < 1 {
		return 1
	}
	r := 1
	for r*r < n {
		r++
	}
	return r
}
