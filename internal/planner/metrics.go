package planner

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Generation outcomes recorded on itinerary.generations.
const (
	outcomeSuccess      = "success"
	outcomeWaiting      = "waiting"
	outcomeUnauthorized = "unauthorized"
	outcomeInProgress   = "in_progress"
	outcomeFailed       = "generation_failed"
	outcomeCancelled    = "cancelled"
	outcomeConflict     = "conflict"
	outcomePersistence  = "persistence_failed"
)

type instruments struct {
	generations metric.Int64Counter
	truncations metric.Int64Counter
}

func newInstruments(logger *slog.Logger) instruments {
	meter := otel.Meter("GO2GETHER_PLANNER/planner")
	fallback := noop.NewMeterProvider().Meter("planner")

	generations, err := meter.Int64Counter("itinerary.generations",
		metric.WithDescription("Itinerary generation attempts by outcome"))
	if err != nil {
		logger.Warn("failed to create generations counter", "error", err)
		generations, _ = fallback.Int64Counter("itinerary.generations")
	}
	truncations, err := meter.Int64Counter("itinerary.prompt.truncations",
		metric.WithDescription("Prompts that hit the size cap"))
	if err != nil {
		logger.Warn("failed to create truncations counter", "error", err)
		truncations, _ = fallback.Int64Counter("itinerary.prompt.truncations")
	}
	return instruments{generations: generations, truncations: truncations}
}

func (i instruments) generation(ctx context.Context, outcome string) {
	i.generations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
