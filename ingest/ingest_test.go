package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func TestBatchGobRoundTrip(t *testing.T) {
	tests := []struct {
		Name  string
		Value Batch
	}{
		{
			Name: "created node",
			Value: Batch{Records: []Record{
				{ID: "1", Entity: mapedit.NewNode("1", orb.Point{1, 2}, mapedit.Tags{"amenity": "cafe"})},
			}},
		},
		{
			Name: "deleted way",
			Value: Batch{Records: []Record{
				{ID: "10", Deleted: true},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			encoded, err := EncodeBatch(tt.Value)
			if err != nil {
				t.Fatalf("EncodeBatch: %v", err)
			}
			decoded, err := DecodeBatch(encoded)
			if err != nil {
				t.Fatalf("DecodeBatch: %v", err)
			}
			if diff := cmp.Diff(tt.Value, decoded); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreApplyCreatesEntity(t *testing.T) {
	store := NewStore(mapedit.NewGraph().Commit())

	n := mapedit.NewNode("1", orb.Point{1, 2}, mapedit.Tags{"amenity": "cafe"})
	diff, err := store.Apply(Batch{Records: []Record{{ID: n.ID(), Entity: n}}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(diff.Created) != 1 || diff.Created[0] != n.ID() {
		t.Errorf("diff.Created = %v, want [%v]", diff.Created, n.ID())
	}

	got, err := store.Current().Entity(n.ID())
	if err != nil {
		t.Fatalf("Entity(%v): %v", n.ID(), err)
	}
	if got.(mapedit.Node).Loc != n.Loc {
		t.Errorf("got.Loc = %v, want %v", got.(mapedit.Node).Loc, n.Loc)
	}
}

func TestStoreApplyDeletion(t *testing.T) {
	n := mapedit.NewNode("1", orb.Point{0, 0}, nil)
	seed, err := mapedit.NewGraph().Replace(n)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	store := NewStore(seed.Commit())

	diff, err := store.Apply(Batch{Records: []Record{{ID: n.ID(), Deleted: true}}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(diff.Deleted) != 1 || diff.Deleted[0] != n.ID() {
		t.Errorf("diff.Deleted = %v, want [%v]", diff.Deleted, n.ID())
	}
	if _, err := store.Current().Entity(n.ID()); err == nil {
		t.Errorf("Entity(%v) = nil error, want NotFoundError", n.ID())
	}
}

func TestStoreApplySkipsLocalEdit(t *testing.T) {
	n := mapedit.NewNode("1", orb.Point{0, 0}, nil)
	seed, err := mapedit.NewGraph().Replace(n)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	base := seed.Commit()

	// Simulate an in-progress local edit: an uncommitted overlay that has
	// touched n's id.
	localEdit, err := base.Replace(n.WithLoc(orb.Point{5, 5}))
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	upstream, err := localEdit.Rebase([]mapedit.Entity{n.WithLoc(orb.Point{9, 9})}, nil, false)
	if err != nil {
		t.Fatalf("Rebase: %v", err)
	}
	got, err := upstream.Entity(n.ID())
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if got.(mapedit.Node).Loc != (orb.Point{5, 5}) {
		t.Errorf("local edit was clobbered: Loc = %v, want {5 5}", got.(mapedit.Node).Loc)
	}
}
