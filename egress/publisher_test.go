package egress

import (
	"bytes"
	"context"
	"encoding/gob"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"gocloud.dev/pubsub/mempubsub"

	"github.com/go-mapedit/mapedit"
	"github.com/go-mapedit/mapedit/ingest"
)

func decodeRecord(t *testing.T, body []byte) ingest.Record {
	t.Helper()
	var rec ingest.Record
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return rec
}

func TestPublisherPublishesOneMessagePerAffectedEntity(t *testing.T) {
	ctx := context.Background()
	topic := mempubsub.NewTopic()
	defer topic.Shutdown(ctx)
	sub := mempubsub.NewSubscription(topic, time.Minute)
	defer sub.Shutdown(ctx)

	n1 := mapedit.NewNode("1", orb.Point{1, 2}, nil)
	n2 := mapedit.NewNode("2", orb.Point{3, 4}, nil)
	g, err := mapedit.NewGraph().Replace(n1)
	if err != nil {
		t.Fatalf("Replace n1: %v", err)
	}
	g, err = g.Replace(n2)
	if err != nil {
		t.Fatalf("Replace n2: %v", err)
	}
	committed := g.Commit()

	diff := mapedit.Difference{Created: []mapedit.ID{"1", "2"}}

	p := NewPublisher(topic)
	if err := p.Publish(ctx, committed, diff); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	seen := map[mapedit.ID]orb.Point{}
	for i := 0; i < 2; i++ {
		msg, err := sub.Receive(ctx)
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		rec := decodeRecord(t, msg.Body)
		if rec.Deleted {
			t.Errorf("record %s marked deleted, want upsert", rec.ID)
		}
		seen[rec.ID] = rec.Entity.(mapedit.Node).Loc
		msg.Ack()
	}
	if seen["1"] != n1.Loc || seen["2"] != n2.Loc {
		t.Errorf("seen = %v, want {1:%v 2:%v}", seen, n1.Loc, n2.Loc)
	}
}

func TestPublisherPublishesDeletionWithNoEntity(t *testing.T) {
	ctx := context.Background()
	topic := mempubsub.NewTopic()
	defer topic.Shutdown(ctx)
	sub := mempubsub.NewSubscription(topic, time.Minute)
	defer sub.Shutdown(ctx)

	g := mapedit.NewGraph().Commit()
	diff := mapedit.Difference{Deleted: []mapedit.ID{"7"}}

	p := NewPublisher(topic)
	if err := p.Publish(ctx, g, diff); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg, err := sub.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	rec := decodeRecord(t, msg.Body)
	msg.Ack()
	if !rec.Deleted || rec.ID != "7" || rec.Entity != nil {
		t.Errorf("rec = %+v, want {ID:7 Deleted:true Entity:nil}", rec)
	}
}

func TestPublisherSkipsEmptyDifference(t *testing.T) {
	ctx := context.Background()
	topic := mempubsub.NewTopic()
	defer topic.Shutdown(ctx)

	p := NewPublisher(topic)
	if err := p.Publish(ctx, mapedit.NewGraph().Commit(), mapedit.Difference{}); err != nil {
		t.Fatalf("Publish on empty difference: %v", err)
	}
}
