package mapedit

// This file holds the entity model's derived predicates: small pure
// functions computed from an entity (and, where the predicate is relational,
// a Graph) rather than stored on the entity itself.

// IsClosed reports whether w is a ring: at least two nodes, first equal to
// last.
func IsClosed(w Way) bool {
	return len(w.Nodes) > 1 && w.Nodes[0] == w.Nodes[len(w.Nodes)-1]
}

// IsArea reports whether w should be rendered/edited as an area rather than
// a line: closed, and its tags match cfg's area-keys table.
func IsArea(w Way, cfg Config) bool {
	return IsClosed(w) && cfg.AreaKeys.IsArea(w.Tags())
}

// Affix reports how nodeID participates in the endpoints of an unclosed
// way: "prefix" if it is the first node, "suffix" if it is the last, and ""
// if it is an interior node, absent, or w is closed (a closed way has no
// distinguished endpoints).
func Affix(w Way, nodeID ID) string {
	if IsClosed(w) || len(w.Nodes) == 0 {
		return ""
	}
	switch nodeID {
	case w.Nodes[0]:
		return "prefix"
	case w.Nodes[len(w.Nodes)-1]:
		return "suffix"
	default:
		return ""
	}
}

// Geometry classifies entity's presentation type: a node with no parent way
// is a point, a node with at least one parent way is a vertex, an unclosed
// or non-area way is a line, a closed area-tagged way is an area, and a
// relation is always relation.
func Geometry(e Entity, g *Graph, cfg Config) string {
	switch v := e.(type) {
	case Node:
		if len(g.ParentWays(v.ID())) > 0 {
			return "vertex"
		}
		return "point"
	case Way:
		if IsArea(v, cfg) {
			return "area"
		}
		return "line"
	case Relation:
		return "relation"
	default:
		return ""
	}
}

// HasInterestingTags reports whether e carries any tag outside cfg's
// ignored set — the same descriptive-tags test the missingTag validator
// applies, exposed here so other callers (rendering, selection summaries)
// can share it.
func HasInterestingTags(e Entity, cfg Config) bool {
	for k := range e.Tags() {
		if !cfg.IgnoredTags[k] {
			return true
		}
	}
	return false
}

// IsOldMultipolygonOuterMember reports whether w is the sole outer member of
// a type=multipolygon relation whose own tags are degenerate (nothing but
// "type"), meaning w is still doing the tagging work current practice
// expects of the relation.
func IsOldMultipolygonOuterMember(w Way, g *Graph) bool {
	for _, relID := range g.ParentRelations(w.ID()) {
		rel, ok := g.HasEntity(relID).(Relation)
		if !ok || !rel.IsMultipolygon() {
			continue
		}
		outer := ""
		n := 0
		for _, m := range rel.Members {
			if m.Role == "outer" {
				n++
				outer = string(m.ID)
			}
		}
		if n != 1 || ID(outer) != w.ID() {
			continue
		}
		degenerate := true
		for k := range rel.Tags() {
			if k != "type" {
				degenerate = false
				break
			}
		}
		if degenerate {
			return true
		}
	}
	return false
}
