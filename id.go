package mapedit

import (
	"fmt"
	"strconv"
	"sync/atomic"
)

// ID identifies an entity. Server-assigned ids are plain positive decimal
// strings ("123"); locally-created, unsaved entities carry a "-" sentinel
// prefix ("-1", "-2", ...) so the two id spaces never collide, mirroring the
// convention OSM editors use for new-entity ids before they are uploaded.
type ID string

// IsLocal reports whether id was minted locally (not yet assigned a server
// id).
func (id ID) IsLocal() bool {
	return len(id) > 0 && id[0] == '-'
}

// Sequence mints local ids of a single kind. The zero value counts down from
// -1. Sequence is safe for concurrent use.
type Sequence struct {
	kind    Kind
	counter int64
}

// NewSequence returns a Sequence that mints local ids for the given kind.
func NewSequence(kind Kind) *Sequence {
	return &Sequence{kind: kind}
}

// Next returns the next unused local id for this sequence's kind.
func (s *Sequence) Next() ID {
	n := atomic.AddInt64(&s.counter, 1)
	return ID("-" + strconv.FormatInt(n, 10))
}

// Kind returns the entity kind this sequence mints ids for.
func (s *Sequence) Kind() Kind { return s.kind }

func (s *Sequence) String() string {
	return fmt.Sprintf("Sequence(%s, next=-%d)", s.kind, atomic.LoadInt64(&s.counter)+1)
}
