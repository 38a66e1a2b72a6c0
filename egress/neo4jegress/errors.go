package neo4jegress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielorbach/go-component"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// panicCorrupted reports that a Cypher write touched an unexpected number
// of nodes or edges, signalling that the mirrored graph in Neo4j has
// diverged from the invariants this writer maintains. Recovering from that
// state safely isn't possible from inside a single transaction, so we
// surface it loudly and stop.
//
// Grounded on the teacher engine's panicWithCorruptedGraph.
func panicCorrupted(ctx context.Context, reason string) {
	component.Logger(ctx).ErrorContext(ctx, "neo4j mirror diverged from graph invariants", slog.String("reason", reason))
	trace.SpanFromContext(ctx).SetStatus(codes.Error, reason)
	panic(fmt.Errorf("neo4jegress: mirrored graph violates invariants: %s", reason))
}
