package egress

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/go-mapedit/mapedit/egress")
var meter = otel.Meter("github.com/go-mapedit/mapedit/egress")

var publishFailures metric.Int64Counter

func init() {
	var err error
	publishFailures, err = meter.Int64Counter(
		"egress_publish_failures",
		metric.WithDescription("how many difference fan-outs had at least one entity fail to publish"),
	)
	if err != nil {
		panic(fmt.Sprintf("egress: failed to init 'egress_publish_failures' instrument: %v", err))
	}
}
