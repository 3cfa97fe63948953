package lazy

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	variantSingleThreaded = "single_threaded"
	variantConcurrent     = "concurrent"
)

// invoke runs supplier once and reports the run to the configured logger,
// tracer and metrics. It never touches the caller's state; a panic in the
// supplier keeps unwinding after being recorded.
func invoke[T any](o *options, id, variant string, supplier Supplier[T]) (res *computed[T], err error) {
	fields := []zap.Field{
		zap.String("lazy_id", id),
		zap.String("lazy_name", o.name),
		zap.String("variant", variant),
	}
	_, span := o.tracer.Start(context.Background(), "lazy.compute", trace.WithAttributes(
		attribute.String("lazy.id", id),
		attribute.String("lazy.name", o.name),
		attribute.String("lazy.variant", variant),
	))
	defer span.End()

	start := time.Now()
	outcome := outcomePanic
	defer func() {
		o.metrics.observe(variant, outcome, time.Since(start))
		if outcome == outcomePanic {
			span.SetStatus(codes.Error, "supplier panicked")
			o.logger.Error("lazy supplier panicked", fields...)
		}
	}()

	v, err := supplier()
	end := time.Now()
	fields = append(fields, zap.Duration("elapsed", end.Sub(start)))

	if err != nil {
		outcome = outcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Debug("lazy supplier failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	if isAbsent(v) {
		outcome = outcomeNullResult
		err = fmt.Errorf("%w: %T", ErrNullResult, v)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.Warn("lazy supplier produced a nil value", fields...)
		return nil, err
	}

	outcome = outcomeSuccess
	o.logger.Debug("lazy value computed", fields...)
	return &computed[T]{value: v, span: newTimeSpan(start, end)}, nil
}
