package actions

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/go-mapedit/mapedit"
)

// Split divides one or more ways at NodeIDs into two or more pieces.
//
// For an open way, every member of NodeIDs that is an interior node of the
// way becomes a split point, in way order. For a closed way, a single split
// node is paired with a partner chosen by splitArea: the node maximizing the
// ratio of along-the-ring distance to straight-line distance, which tends to
// pick the geometrically "opposite" point on the ring rather than an
// adjacent one.
type Split struct {
	NodeIDs []mapedit.ID
	// NewWayIDs supplies the ids for every resulting piece that does not
	// keep the original way's history, consumed in piece order.
	NewWayIDs []mapedit.ID
	// KeepHistoryOn selects which piece keeps the original way's id and
	// version: "longest" (the default if empty) keeps it on the longest
	// piece by length; "first" always keeps it on the first piece in
	// original node order.
	KeepHistoryOn string
	Config        mapedit.Config
	// RelationSeq mints the id for a wrapping multipolygon relation, needed
	// only when a split area way was not already part of one.
	RelationSeq *mapedit.Sequence
}

func (a Split) splitNodeSet() map[mapedit.ID]struct{} {
	set := make(map[mapedit.ID]struct{}, len(a.NodeIDs))
	for _, id := range a.NodeIDs {
		set[id] = struct{}{}
	}
	return set
}

// splittableWays returns, for every way touched by NodeIDs, the ordered
// indices within that way's node list at which it should split.
func (a Split) splittableWays(g *mapedit.Graph) map[mapedit.ID][]int {
	wanted := a.splitNodeSet()
	seenWays := make(map[mapedit.ID]struct{})
	out := make(map[mapedit.ID][]int)

	for _, nodeID := range a.NodeIDs {
		for _, wayID := range g.ParentWays(nodeID) {
			if _, done := seenWays[wayID]; done {
				continue
			}
			w, ok := entity[mapedit.Way](g, wayID)
			if !ok || len(w.Nodes) < 3 {
				continue
			}
			seenWays[wayID] = struct{}{}

			closed := mapedit.IsClosed(w)
			if closed {
				for i, id := range w.Nodes[:len(w.Nodes)-1] {
					if _, want := wanted[id]; want {
						if partner, ok := a.splitArea(g, w, i); ok {
							lo, hi := i, partner
							if lo > hi {
								lo, hi = hi, lo
							}
							out[wayID] = []int{lo, hi}
						}
						break
					}
				}
				continue
			}

			var splits []int
			for i := 1; i < len(w.Nodes)-1; i++ {
				if _, want := wanted[w.Nodes[i]]; want {
					splits = append(splits, i)
				}
			}
			if len(splits) > 0 {
				out[wayID] = splits
			}
		}
	}
	return out
}

func (a Split) Disabled(g *mapedit.Graph) string {
	if len(a.splittableWays(g)) == 0 {
		return "not_eligible"
	}
	return ""
}

// splitArea chooses a closed way's partner split node for the node at index
// atIndex: the node maximizing the ratio between the shorter along-the-ring
// distance and the straight-line distance to atIndex.
func (a Split) splitArea(g *mapedit.Graph, w mapedit.Way, atIndex int) (int, bool) {
	ring := w.Nodes[:len(w.Nodes)-1]
	n := len(ring)
	if n < 4 {
		return 0, false
	}

	locs := make([]orb.Point, n)
	ok := true
	for i, id := range ring {
		node, found := entity[mapedit.Node](g, id)
		if !found {
			ok = false
			break
		}
		locs[i] = node.Loc
	}
	if !ok {
		return 0, false
	}

	segLen := make([]float64, n)
	for i := 0; i < n; i++ {
		segLen[i] = geo.Distance(locs[i], locs[(i+1)%n])
	}

	best := -1
	bestRatio := 0.0
	for j := 0; j < n; j++ {
		if j == atIndex {
			continue
		}
		forward := sumRing(segLen, atIndex, j)
		backward := sumRing(segLen, j, atIndex)
		along := forward
		if backward < along {
			along = backward
		}
		straight := geo.Distance(locs[atIndex], locs[j])
		if straight == 0 {
			continue
		}
		ratio := along / straight
		if ratio > bestRatio {
			bestRatio = ratio
			best = j
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// sumRing sums segLen[from], segLen[from+1], ... up to (not including) to,
// wrapping around a ring of len(segLen) segments.
func sumRing(segLen []float64, from, to int) float64 {
	n := len(segLen)
	sum := 0.0
	for i := from; i != to; i = (i + 1) % n {
		sum += segLen[i]
	}
	return sum
}

func (a Split) Apply(g *mapedit.Graph) *mapedit.Graph {
	next := g
	pool := append([]mapedit.ID{}, a.NewWayIDs...)
	for wayID, splits := range a.splittableWays(g) {
		var consumed int
		next, consumed = a.splitOne(next, wayID, splits, pool)
		pool = pool[consumed:]
	}
	return next
}

func (a Split) splitOne(g *mapedit.Graph, wayID mapedit.ID, splits []int, pool []mapedit.ID) (*mapedit.Graph, int) {
	w, ok := entity[mapedit.Way](g, wayID)
	if !ok {
		return g, 0
	}

	pieces := partitionNodes(w.Nodes, splits)
	if len(pieces) < 2 {
		return g, 0
	}

	lengths := make([]float64, len(pieces))
	total := 0.0
	for i, piece := range pieces {
		lengths[i] = pieceLength(g, piece)
		total += lengths[i]
	}

	keepIndex := 0
	if a.KeepHistoryOn != "first" {
		for i, l := range lengths {
			if l > lengths[keepIndex] {
				keepIndex = i
			}
		}
	}

	newWayIDs := make([]mapedit.ID, len(pieces))
	consumed := 0
	for i := range pieces {
		if i == keepIndex {
			newWayIDs[i] = wayID
			continue
		}
		if consumed >= len(pool) {
			// Not enough ids supplied; leave this way unsplit.
			return g, consumed
		}
		newWayIDs[i] = pool[consumed]
		consumed++
	}

	stepCount, hasStepCount := w.Tags().Get("step_count")
	var stepCountTotal float64
	if hasStepCount {
		stepCountTotal, hasStepCount = parseFloat(stepCount)
	}

	next := g
	for i, piece := range pieces {
		tags := w.Tags()
		if hasStepCount && total > 0 {
			share := stepCountTotal * lengths[i] / total
			tags = tags.With("step_count", strconv.Itoa(int(share+0.5)))
		}
		var newWay mapedit.Way
		if i == keepIndex {
			newWay = w.WithNodes(piece)
			newWay = newWay.WithTags(tags).(mapedit.Way)
		} else {
			newWay = mapedit.NewWay(newWayIDs[i], piece, tags)
		}
		r, _ := next.Replace(newWay)
		next = r
	}

	via := sharedEndpoints(pieces)
	next = a.updateParentRelations(next, w, newWayIDs, pieces, via)
	next = a.wrapAreaIfNeeded(next, w, newWayIDs)

	return next, consumed
}

func parseFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// partitionNodes splits nodes at the given interior indices, each resulting
// piece sharing its boundary node with its neighbors so the pieces remain
// connected.
func partitionNodes(nodes []mapedit.ID, splits []int) [][]mapedit.ID {
	if len(splits) == 0 {
		return nil
	}
	var pieces [][]mapedit.ID
	start := 0
	for _, idx := range splits {
		if idx <= start || idx >= len(nodes) {
			continue
		}
		pieces = append(pieces, append([]mapedit.ID{}, nodes[start:idx+1]...))
		start = idx
	}
	pieces = append(pieces, append([]mapedit.ID{}, nodes[start:]...))
	return pieces
}

func pieceLength(g *mapedit.Graph, piece []mapedit.ID) float64 {
	total := 0.0
	var prev orb.Point
	have := false
	for _, id := range piece {
		n, ok := entity[mapedit.Node](g, id)
		if !ok {
			continue
		}
		if have {
			total += geo.Distance(prev, n.Loc)
		}
		prev, have = n.Loc, true
	}
	return total
}

// sharedEndpoints returns, for every pair of adjacent pieces, the boundary
// node connecting them, used as the InsertPair.Nodes hint for relation
// membership updates.
func sharedEndpoints(pieces [][]mapedit.ID) []mapedit.ID {
	var out []mapedit.ID
	for i := 0; i+1 < len(pieces); i++ {
		out = append(out, pieces[i][len(pieces[i])-1])
	}
	return out
}

// updateParentRelations rewrites every relation referencing the original way
// so that the split is reflected in its membership, per the role-specific
// rules for turn restrictions versus ordinary relations.
func (a Split) updateParentRelations(g *mapedit.Graph, original mapedit.Way, newWayIDs []mapedit.ID, pieces [][]mapedit.ID, via []mapedit.ID) *mapedit.Graph {
	originalID := original.ID()
	next := g
	for _, relID := range g.ParentRelations(originalID) {
		rel, ok := entity[mapedit.Relation](next, relID)
		if !ok {
			continue
		}

		if rel.IsRestriction() {
			next = a.updateRestrictionMembership(next, rel, originalID, newWayIDs, pieces)
			continue
		}

		if isOldStyleMultipolygonOuter(rel, originalID) {
			mergedTags := rel.Tags().Clone()
			if mergedTags == nil {
				mergedTags = mapedit.Tags{}
			}
			for k, v := range original.Tags() {
				if k == "type" {
					continue
				}
				mergedTags[k] = v
			}
			r, _ := next.Replace(rel.WithTags(mergedTags))
			next = r
		}

		for _, newID := range newWayIDs {
			if newID == originalID {
				continue
			}
			ip := InsertPair{OriginalID: originalID, InsertedID: newID, Nodes: via}
			r := AddMember{RelationID: relID, InsertPair: &ip}.Apply(next)
			next = r
		}
	}
	return next
}

// isOldStyleMultipolygonOuter reports whether rel is an old-style
// multipolygon (no tags of its own beyond type) whose sole outer member is
// wayID, meaning wayID's own tags describe the polygon and must migrate to
// rel once wayID stops being a single coherent ring.
func isOldStyleMultipolygonOuter(rel mapedit.Relation, wayID mapedit.ID) bool {
	if !rel.IsMultipolygon() {
		return false
	}
	outers := 0
	var only mapedit.ID
	for _, m := range rel.Members {
		if m.Role == "outer" {
			outers++
			only = m.ID
		}
	}
	if outers != 1 || only != wayID {
		return false
	}
	for k := range rel.Tags() {
		if k != "type" {
			return false
		}
	}
	return true
}

// updateRestrictionMembership applies the from/via/to-aware split rule: the
// from/to half connected to the restriction's via stays a member; if the
// split way itself is the via, every resulting piece becomes a via member so
// the restriction path remains intact.
func (a Split) updateRestrictionMembership(g *mapedit.Graph, rel mapedit.Relation, originalID mapedit.ID, newWayIDs []mapedit.ID, pieces [][]mapedit.ID) *mapedit.Graph {
	var role string
	var index int
	for i, m := range rel.Members {
		if m.ID == originalID {
			role, index = m.Role, i
			break
		}
	}

	viaNodeID := restrictionViaNode(rel)

	if role == "via" {
		next := g
		for _, newID := range newWayIDs {
			if newID == originalID {
				continue
			}
			ip := InsertPair{OriginalID: originalID, InsertedID: newID}
			r := AddMember{RelationID: rel.ID(), InsertPair: &ip}.Apply(next)
			next = r
		}
		return next
	}

	if viaNodeID == "" {
		return g
	}
	for i, piece := range pieces {
		if containsID(piece, viaNodeID) {
			r, _ := g.Replace(rel.WithMembers(replaceMemberID(rel.Members, index, newWayIDs[i])))
			return r
		}
	}
	return g
}

func restrictionViaNode(rel mapedit.Relation) mapedit.ID {
	for _, m := range rel.Members {
		if m.Role == "via" && m.Kind == mapedit.NodeKind {
			return m.ID
		}
	}
	return ""
}

func containsID(ids []mapedit.ID, id mapedit.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func replaceMemberID(members []mapedit.Member, index int, id mapedit.ID) []mapedit.Member {
	out := append([]mapedit.Member{}, members...)
	out[index].ID = id
	return out
}

// wrapAreaIfNeeded wraps both split halves of an area way in a new
// type=multipolygon relation, as outer members, if the original way was an
// area and was not already part of a multipolygon.
func (a Split) wrapAreaIfNeeded(g *mapedit.Graph, original mapedit.Way, newWayIDs []mapedit.ID) *mapedit.Graph {
	if a.Config.AreaKeys == nil || !a.Config.AreaKeys.IsArea(original.Tags()) {
		return g
	}
	if len(g.ParentRelations(original.ID())) > 0 || a.RelationSeq == nil {
		return g
	}

	members := make([]mapedit.Member, len(newWayIDs))
	for i, id := range newWayIDs {
		members[i] = mapedit.Member{ID: id, Kind: mapedit.WayKind, Role: "outer"}
	}
	relID := a.RelationSeq.Next()
	rel := mapedit.NewRelation(relID, members, mapedit.Tags{"type": "multipolygon"})
	next, _ := g.Replace(rel)
	return next
}
