// Package ingest applies externally-sourced entity updates (an upstream OSM
// data sync, a collaborative-editing peer) into a mapedit.Graph without
// disturbing uncommitted local edits.
//
// Retargeted from the teacher library's eventsource.go/disassembler.go:
// where those decoded GraphChanged/ComponentChanged messages off a pubsub
// subscription and re-published derived notifications, this package decodes
// Record messages off a subscription and folds them into a Store's current
// graph via Graph.Rebase. There is no re-publish step; ingest is a one-way
// sink.
package ingest

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/go-mapedit/mapedit"
)

func init() {
	gob.Register(mapedit.Node{})
	gob.Register(mapedit.Way{})
	gob.Register(mapedit.Relation{})
}

// Record is the wire representation of a single entity update or deletion
// coming from an upstream source. Deleted is set when the entity at ID has
// been removed upstream; Entity is nil in that case.
type Record struct {
	ID      mapedit.ID
	Deleted bool
	Entity  mapedit.Entity
}

// Batch is a group of Records that should be applied to the graph together,
// corresponding to one upstream changeset.
type Batch struct {
	Records []Record
}

// EncodeBatch gob-encodes b for publication.
func EncodeBatch(b Batch) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBatch decodes a Batch previously produced by EncodeBatch.
func DecodeBatch(p []byte) (Batch, error) {
	var b Batch
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	return b, nil
}

// entities returns the non-deleted records' entities, for use with
// Graph.Rebase.
func (b Batch) entities() []mapedit.Entity {
	out := make([]mapedit.Entity, 0, len(b.Records))
	for _, r := range b.Records {
		if !r.Deleted {
			out = append(out, r.Entity)
		}
	}
	return out
}

// deletedIDs returns the ids of records marking an upstream deletion.
func (b Batch) deletedIDs() []mapedit.ID {
	var out []mapedit.ID
	for _, r := range b.Records {
		if r.Deleted {
			out = append(out, r.ID)
		}
	}
	return out
}
