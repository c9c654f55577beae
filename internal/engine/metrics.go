package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tesselate/tesselate/internal/engine"

func defaultMeter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	games     metric.Int64Counter
	rolls     metric.Int64Counter
	accepted  metric.Int64Counter
	rejected  metric.Int64Counter
	triangles metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)

	out.games, err = m.Int64Counter(
		"engine.games.started",
		metric.WithDescription("Boards generated by reset"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating games counter: %w", err)
	}

	out.rolls, err = m.Int64Counter(
		"engine.dice.rolls",
		metric.WithDescription("Accepted dice rolls"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rolls counter: %w", err)
	}

	out.accepted, err = m.Int64Counter(
		"engine.moves.accepted",
		metric.WithDescription("Edges placed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating accepted counter: %w", err)
	}

	out.rejected, err = m.Int64Counter(
		"engine.moves.rejected",
		metric.WithDescription("Moves rejected, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	out.triangles, err = m.Int64Counter(
		"engine.triangles.claimed",
		metric.WithDescription("Triangles claimed, by player"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating triangles counter: %w", err)
	}

	return &out, nil
}

func (m *metrics) gameStarted(pattern string) {
	m.games.Add(context.Background(), 1, metric.WithAttributes(attribute.String("pattern", pattern)))
}

func (m *metrics) rolled(p Player) {
	m.rolls.Add(context.Background(), 1, metric.WithAttributes(attribute.String("player", p.String())))
}

func (m *metrics) moveAccepted(p Player) {
	m.accepted.Add(context.Background(), 1, metric.WithAttributes(attribute.String("player", p.String())))
}

func (m *metrics) moveRejected(reason string) {
	m.rejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *metrics) triangleClaimed(p Player) {
	m.triangles.Add(context.Background(), 1, metric.WithAttributes(attribute.String("player", p.String())))
}
