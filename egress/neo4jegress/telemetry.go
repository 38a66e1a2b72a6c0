package neo4jegress

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/go-mapedit/mapedit/egress/neo4jegress")
var meter = otel.Meter("github.com/go-mapedit/mapedit/egress/neo4jegress")

var mirrorWriteFailures metric.Int64Counter

func init() {
	var err error
	mirrorWriteFailures, err = meter.Int64Counter(
		"neo4jegress_mirror_write_failures",
		metric.WithDescription("how many mirror write transactions have failed"),
	)
	if err != nil {
		panic(fmt.Sprintf("neo4jegress: failed to init 'neo4jegress_mirror_write_failures' instrument: %v", err))
	}
}
