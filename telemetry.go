package mapedit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/go-mapedit/mapedit")
var meter = otel.Meter("github.com/go-mapedit/mapedit")

// actionKindAttr is the attribute key recording which action kind (move,
// split, merge, ...) a measurement belongs to, so actionApplyDuration can be
// sliced per action type as well as viewed in aggregate.
const actionKindAttr = "mapedit.action"

var (
	// actionApplyDuration measures the time spent computing an action's
	// resulting graph overlay (not including Commit).
	actionApplyDuration metric.Float64Histogram
	// actionApplyFailures counts actions that returned a non-nil error or
	// were found Disabled when the caller expected them to apply.
	actionApplyFailures metric.Int64Counter
	// spatialResyncDuration measures the time spent reconciling the spatial
	// index against a Difference.
	spatialResyncDuration metric.Float64Histogram
	// validatorRunDuration measures the time spent running one validator
	// function across its candidate entities.
	validatorRunDuration metric.Float64Histogram
)

func init() {
	var err error
	actionApplyDuration, err = meter.Float64Histogram(
		"mapedit.action.apply.duration",
		metric.WithDescription("Time spent computing an action's resulting graph overlay."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("mapedit: failed to init 'mapedit.action.apply.duration' instrument")
	}

	actionApplyFailures, err = meter.Int64Counter(
		"mapedit.action.apply.failures",
		metric.WithDescription("The number of action applications that failed or were disabled."),
	)
	if err != nil {
		panic("mapedit: failed to init 'mapedit.action.apply.failures' instrument")
	}

	spatialResyncDuration, err = meter.Float64Histogram(
		"mapedit.spatial.resync.duration",
		metric.WithDescription("Time spent reconciling the spatial index against a graph difference."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("mapedit: failed to init 'mapedit.spatial.resync.duration' instrument")
	}

	validatorRunDuration, err = meter.Float64Histogram(
		"mapedit.validate.run.duration",
		metric.WithDescription("Time spent running a single validator function over its candidate entities."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic("mapedit: failed to init 'mapedit.validate.run.duration' instrument")
	}
}

// measureActionApply records the outcome of applying an action of the given
// kind. Attribute sets are built once via attribute.NewSet per the otel
// metric package's guidance, rather than passed as loose KeyValues.
func measureActionApply(ctx context.Context, kind string, succeeded bool, d time.Duration) {
	attrs := attribute.NewSet(attribute.String(actionKindAttr, kind))
	if succeeded {
		actionApplyDuration.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributeSet(attrs))
	} else {
		actionApplyFailures.Add(ctx, 1, metric.WithAttributeSet(attrs))
	}
}

// measureSpatialResync records the duration of one spatial index resync
// pass.
func measureSpatialResync(ctx context.Context, d time.Duration) {
	spatialResyncDuration.Record(ctx, float64(d)/float64(time.Millisecond))
}

// measureValidatorRun records the duration of one validator function's pass,
// attributed by the validator's issue type so slow validators are easy to
// spot.
func measureValidatorRun(ctx context.Context, issueType string, d time.Duration) {
	attrs := attribute.NewSet(attribute.String("mapedit.validate.issue_type", issueType))
	validatorRunDuration.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributeSet(attrs))
}
