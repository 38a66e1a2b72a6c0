package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielorbach/go-component"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gocloud.dev/pubsub"
)

var tracer = otel.Tracer("github.com/go-mapedit/mapedit/ingest")

// Consumer receives Batch messages from a pubsub subscription and applies
// each one to a Store in order, acknowledging only once the batch has been
// folded into the graph.
//
// Grounded on the teacher library's disassembler: the same Receive/decode/
// handle/Ack loop driven by a component.Procedure's Exec method, but
// applying to a Store instead of fanning out re-published messages.
type Consumer struct {
	Source *pubsub.Subscription
	Store  *Store
}

// NewConsumer returns a component.Procedure that continuously applies
// Batches received from source to store.
func NewConsumer(source *pubsub.Subscription, store *Store) component.Procedure {
	return Consumer{Source: source, Store: store}
}

func (c Consumer) Exec(l *component.L) {
	logger := component.Logger(l.Context())
	for l.Continue() {
		msg, err := c.Source.Receive(l.GraceContext())
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return
			}
			panic("cannot receive messages from the pubsub service")
		}

		if err := c.handleMessage(l.GraceContext(), logger, msg); err != nil {
			logger.Error("Couldn't handle ingest batch", slog.Any("error", err))
			panic("cannot proceed to the next ingest batch due to failure")
		}

		msg.Ack()
	}
}

func (c Consumer) handleMessage(ctx context.Context, logger *slog.Logger, msg *pubsub.Message) (err error) {
	ctx, span := tracer.Start(ctx, "ingest.handleMessage", trace.WithAttributes(
		attribute.String("msg.id", msg.LoggableID),
	))
	defer span.End()

	defer func(start time.Time) {
		logger.Debug("Ingest batch handled", slog.Duration("elapsed", time.Since(start)), slog.Any("error", err))
	}(time.Now())

	batch, err := DecodeBatch(msg.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("decode batch: %w", err)
	}

	if len(batch.Records) == 0 {
		logger.Debug("Empty ingest batch, skipped")
		return nil
	}

	diff, err := c.Store.Apply(batch)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("apply batch: %w", err)
	}

	logger.Info("Ingest batch applied",
		slog.Int("created", len(diff.Created)),
		slog.Int("modified", len(diff.Modified)),
		slog.Int("deleted", len(diff.Deleted)),
	)
	return nil
}
