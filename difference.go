package mapedit

// Difference describes what changed between a base graph and a derived
// graph: the ids created, modified and deleted, each carrying enough detail
// for a consumer (the spatial index, a validator re-run, an egress adapter)
// to decide whether it needs to act without re-walking the whole graph.
//
// Grounded on the teacher engine's snapshot.Diff/PartialDiff, which compares
// two captured snapshots and reports created/updated/deleted node and edge
// ids; this type plays the same role for entity ids.
type Difference struct {
	Created  []ID
	Modified []ID
	Deleted  []ID
}

// IsEmpty reports whether the difference touches no ids at all.
func (d Difference) IsEmpty() bool {
	return len(d.Created) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0
}

// Changed is the set of every id touched by a Difference, created, modified
// or deleted alike; spatial resync and validator re-runs both only care
// whether an id needs to be revisited, not which bucket it fell in.
func (d Difference) Changed() []ID {
	out := make([]ID, 0, len(d.Created)+len(d.Modified)+len(d.Deleted))
	out = append(out, d.Created...)
	out = append(out, d.Modified...)
	out = append(out, d.Deleted...)
	return out
}

// Diff computes the Difference between from and to: every id present in to
// but absent from from is Created; every id present in both whose
// EntityHash differs is Modified; every id present in from but absent (or
// tombstoned) in to is Deleted.
//
// Diff only walks the overlay layers between from and to (it does not
// re-scan either graph's full base chain), so it is cheap to call after
// every single action application, mirroring how the teacher engine diffs
// two adjacent snapshots rather than recomputing a full graph comparison.
func Diff(from, to *Graph) Difference {
	touched := touchedIDs(from, to)
	var d Difference
	for id := range touched {
		oldEntity, oldErr := from.Entity(id)
		newEntity, newErr := to.Entity(id)
		switch {
		case oldErr != nil && newErr == nil:
			d.Created = append(d.Created, id)
		case oldErr == nil && newErr != nil:
			d.Deleted = append(d.Deleted, id)
		case oldErr == nil && newErr == nil:
			if ContentAddress(oldEntity) != ContentAddress(newEntity) {
				d.Modified = append(d.Modified, id)
			}
		}
	}
	return d
}

// touchedIDs collects every id recorded by an overlay layer between base and
// head (exclusive of base), walking head's base chain until it reaches base
// or runs out of overlays.
func touchedIDs(base, head *Graph) map[ID]struct{} {
	touched := make(map[ID]struct{})
	for cur := head; cur != nil && cur != base; cur = cur.base {
		for id := range cur.entities {
			touched[id] = struct{}{}
		}
	}
	return touched
}
