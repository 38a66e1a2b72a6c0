// Package egress re-publishes a mapedit.Graph commit's difference to
// downstream subscribers as individual entity-change messages on a pubsub
// topic. Each message body is one gob-encoded ingest.Record; ingest.Consumer
// decodes ingest.Batch messages, so it cannot read this topic directly.
package egress

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"gocloud.dev/pubsub"
	"golang.org/x/sync/errgroup"

	"github.com/go-mapedit/mapedit"
	"github.com/go-mapedit/mapedit/ingest"
)

// Publisher publishes a committed graph's difference to a pubsub topic, one
// message per affected entity.
//
// Grounded on the teacher library's disassembler: Publish plays the role of
// handleMessage, fanning the affected ids out across an errgroup instead of
// disassembler's one-goroutine-per-component loop, so that one failed
// publish doesn't silently drop its siblings — the rest still reach the
// topic, and Publish reports the first error once every goroutine has
// finished.
type Publisher struct {
	Sink *pubsub.Topic
}

// NewPublisher returns a Publisher that publishes to sink.
func NewPublisher(sink *pubsub.Topic) *Publisher {
	return &Publisher{Sink: sink}
}

// Publish re-publishes every id diff names as its own ingest.Record message:
// created and modified ids carry their current entity, looked up in g;
// deleted ids carry none.
func (p *Publisher) Publish(ctx context.Context, g *mapedit.Graph, diff mapedit.Difference) (err error) {
	if diff.IsEmpty() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "egress.Publish")
	defer span.End()
	defer func(start time.Time) {
		if err != nil {
			publishFailures.Add(ctx, 1)
			span.SetStatus(codes.Error, err.Error())
		}
		_ = time.Since(start)
	}(time.Now())

	var eg errgroup.Group
	for _, id := range diff.Created {
		id := id
		eg.Go(func() error { return p.publishUpsert(ctx, g, id) })
	}
	for _, id := range diff.Modified {
		id := id
		eg.Go(func() error { return p.publishUpsert(ctx, g, id) })
	}
	for _, id := range diff.Deleted {
		id := id
		eg.Go(func() error { return p.publishDelete(ctx, id) })
	}

	if err = eg.Wait(); err != nil {
		return fmt.Errorf("publish graph difference: %w", err)
	}
	return nil
}

func (p *Publisher) publishUpsert(ctx context.Context, g *mapedit.Graph, id mapedit.ID) error {
	e := g.HasEntity(id)
	if e == nil {
		return nil
	}
	return p.publish(ctx, ingest.Record{ID: id, Entity: e})
}

func (p *Publisher) publishDelete(ctx context.Context, id mapedit.ID) error {
	return p.publish(ctx, ingest.Record{ID: id, Deleted: true})
}

func (p *Publisher) publish(ctx context.Context, rec ingest.Record) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	if err := p.Sink.Send(ctx, &pubsub.Message{Body: buf.Bytes()}); err != nil {
		return fmt.Errorf("send record %s: %w", rec.ID, err)
	}
	return nil
}
