package neo4jegress

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-mapedit/mapedit"
)

// Mirror keeps a Neo4j database in sync with a sequence of mapedit.Graph
// commits. Call Sync once per commit (whether produced by a local edit
// session or by the ingest adapter) with the difference that commit
// introduced.
type Mirror struct {
	driver neo4j.DriverWithContext
	mu     graphWRMutex
}

// NewMirror returns a Mirror that writes through driver.
func NewMirror(driver neo4j.DriverWithContext) *Mirror {
	return &Mirror{driver: driver}
}

// Sync applies diff against g into Neo4j within a single write transaction.
// Sync may be called concurrently by multiple commit producers; Reconcile
// excludes them all while it runs a consistency scan.
func (m *Mirror) Sync(ctx context.Context, g *mapedit.Graph, diff mapedit.Difference) (err error) {
	if diff.IsEmpty() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "neo4jegress.Sync")
	defer span.End()
	defer func(start time.Time) {
		if err != nil {
			mirrorWriteFailures.Add(ctx, 1)
			span.SetStatus(codes.Error, err.Error())
		}
		_ = time.Since(start)
	}(time.Now())

	m.mu.WLock()
	defer m.mu.WUnlock()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, NewWriter(tx).Apply(ctx, g, diff)
	})
	if err != nil {
		return fmt.Errorf("execute write: %w", err)
	}
	return nil
}

// Reconcile runs f with exclusive access over the mirror, excluding any
// concurrent Sync call. Use it for a periodic full consistency scan that
// compares the mirrored graph against a mapedit.Graph and repairs drift; f is supplied a
// read session bound to the same driver.
func (m *Mirror) Reconcile(ctx context.Context, f func(ctx context.Context, session neo4j.SessionWithContext) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	return f(ctx, session)
}
