package ingest

import (
	"sync/atomic"

	"github.com/go-mapedit/mapedit"
)

// Store holds the current committed graph and applies incoming Batches to
// it. It is safe for concurrent use: Current is lock-free, and Apply
// serializes writers internally via a compare-and-swap retry loop so a slow
// local edit session and an ingest batch can race without corrupting either.
type Store struct {
	current atomic.Pointer[mapedit.Graph]
}

// NewStore returns a Store seeded with the given graph, which must already
// be committed.
func NewStore(g *mapedit.Graph) *Store {
	s := &Store{}
	s.current.Store(g)
	return s
}

// Current returns the store's most recently committed graph.
func (s *Store) Current() *mapedit.Graph {
	return s.current.Load()
}

// Apply folds b into the store's current graph via Rebase and commits the
// result, retrying against a fresh Current() if a concurrent Apply or local
// commit raced ahead of it. It returns the graph difference the batch
// produced, for the spatial index and validators to resync against.
func (s *Store) Apply(b Batch) (mapedit.Difference, error) {
	for {
		before := s.Current()
		overlay, err := before.Rebase(b.entities(), b.deletedIDs(), false)
		if err != nil {
			return mapedit.Difference{}, err
		}
		after := overlay.Commit()
		if !s.current.CompareAndSwap(before, after) {
			continue
		}
		return mapedit.Diff(before, after), nil
	}
}
