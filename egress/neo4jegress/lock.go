package neo4jegress

import "sync"

// graphWRMutex enforces that a consistency-sensitive read of the mirrored
// graph (a periodic reconciliation scan) excludes concurrent egress writes,
// while still letting multiple egress writers proceed concurrently against
// each other. The zero value is an unlocked mutex.
//
// Adapted verbatim from the teacher engine's graphWRMutex: observed Neo4j
// isolation behavior there allowed two concurrent transactions to read
// inconsistent interim states during a diff scan, so reads must be
// exclusive of writes even though writes need not be exclusive of each
// other.
type graphWRMutex sync.RWMutex

// WLock locks wr for writing. Multiple concurrent writers are permitted.
func (wr *graphWRMutex) WLock() { (*sync.RWMutex)(wr).RLock() }

// WUnlock undoes a single WLock call.
func (wr *graphWRMutex) WUnlock() { (*sync.RWMutex)(wr).RUnlock() }

// Lock locks wr exclusively for reading, blocking until no writer holds it.
func (wr *graphWRMutex) Lock() { (*sync.RWMutex)(wr).Lock() }

// Unlock undoes a single Lock call.
func (wr *graphWRMutex) Unlock() { (*sync.RWMutex)(wr).Unlock() }
