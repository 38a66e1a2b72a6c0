package actions

import (
	"strings"

	"github.com/go-mapedit/mapedit"
)

// SyncCrossingTags propagates crossing:* tags and the footway=crossing tag
// between a crossing way and any of its nodes tagged highway=crossing, and
// sets the legacy crossing tag on both: crossing=marked when a
// crossing:markings value is known on either side, crossing=unmarked
// otherwise.
type SyncCrossingTags struct {
	ID mapedit.ID
}

func (a SyncCrossingTags) Apply(g *mapedit.Graph) *mapedit.Graph {
	e := g.HasEntity(a.ID)
	if e == nil {
		return g
	}

	var wayID mapedit.ID
	var crossingNodeIDs []mapedit.ID

	switch v := e.(type) {
	case mapedit.Way:
		wayID = v.ID()
		for _, nodeID := range v.Nodes {
			if n, ok := entity[mapedit.Node](g, nodeID); ok {
				if hv, _ := n.Tags().Get("highway"); hv == "crossing" {
					crossingNodeIDs = append(crossingNodeIDs, nodeID)
				}
			}
		}
	case mapedit.Node:
		if hv, _ := v.Tags().Get("highway"); hv != "crossing" {
			return g
		}
		for _, parentID := range g.ParentWays(v.ID()) {
			if w, ok := entity[mapedit.Way](g, parentID); ok {
				if fv, _ := w.Tags().Get("footway"); fv == "crossing" {
					wayID = parentID
					crossingNodeIDs = append(crossingNodeIDs, v.ID())
				}
			}
		}
	default:
		return g
	}

	if wayID == "" || len(crossingNodeIDs) == 0 {
		return g
	}

	next := g
	for _, nodeID := range crossingNodeIDs {
		next = a.syncPair(next, wayID, nodeID)
	}
	return next
}

func (a SyncCrossingTags) syncPair(g *mapedit.Graph, wayID, nodeID mapedit.ID) *mapedit.Graph {
	w, ok := entity[mapedit.Way](g, wayID)
	if !ok {
		return g
	}
	n, ok := entity[mapedit.Node](g, nodeID)
	if !ok {
		return g
	}

	wayTags := w.Tags().Clone()
	if wayTags == nil {
		wayTags = mapedit.Tags{}
	}
	nodeTags := n.Tags().Clone()
	if nodeTags == nil {
		nodeTags = mapedit.Tags{}
	}

	for key, value := range wayTags {
		if !strings.HasPrefix(key, "crossing:") {
			continue
		}
		if _, ok := nodeTags[key]; !ok {
			nodeTags[key] = value
		}
	}
	for key, value := range nodeTags {
		if !strings.HasPrefix(key, "crossing:") {
			continue
		}
		if _, ok := wayTags[key]; !ok {
			wayTags[key] = value
		}
	}

	legacy := "unmarked"
	if wayTags.Has("crossing:markings") || nodeTags.Has("crossing:markings") {
		legacy = "marked"
	}
	wayTags["crossing"] = legacy
	nodeTags["crossing"] = legacy

	if fv, _ := wayTags.Get("footway"); fv == "" {
		if hv, _ := wayTags.Get("highway"); hv == "footway" || hv == "cycleway" {
			wayTags["footway"] = "crossing"
		}
	}

	next, _ := g.Replace(w.WithTags(wayTags))
	next, _ = next.Replace(n.WithTags(nodeTags))
	return next
}
