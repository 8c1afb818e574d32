package analytics

import (
	"context"
	"fmt"

	"trading-journal/internal/models"
	"trading-journal/internal/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Ledger is the read side of the trade store the engine computes over.
type Ledger interface {
	// Trades returns the trades matching f. Implementations may return a
	// superset; the engine re-applies f.
	Trades(ctx context.Context, f Filter) ([]models.Trade, error)
	MemberExists(ctx context.Context, memberID uint) (bool, error)
}

// Engine computes trade performance analytics from a Ledger. It keeps no
// state between calls and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	ledger Ledger
}

// NewEngine creates a new analytics engine.
func NewEngine(logger *zap.Logger, ledger Ledger) *Engine {
	return &Engine{
		logger: logger.Named("analytics"),
		ledger: ledger,
	}
}

// Dashboard bundles every aggregate computed from one ledger snapshot.
type Dashboard struct {
	Filter     Filter
	Monthly    []MonthlyBucket
	Growth     []GrowthPoint
	Summary    Summary
	TopSymbols []SymbolRank
}

// MonthlyPerformance returns the monthly buckets for f, most recent month first.
func (e *Engine) MonthlyPerformance(ctx context.Context, f Filter) ([]MonthlyBucket, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.MonthlyPerformance")
	defer span.End()

	positions, err := e.positions(ctx, f)
	if err != nil {
		return nil, err
	}
	buckets, err := Monthly(positions)
	if err != nil {
		return nil, fmt.Errorf("monthly performance: %w", err)
	}
	if trace.Enabled() {
		span.SetAttributes(attribute.Stringer("filter", f), attribute.Int("buckets", len(buckets)))
	}
	return buckets, nil
}

// CapitalGrowth returns the cumulative realized profit curve for f.
func (e *Engine) CapitalGrowth(ctx context.Context, f Filter) ([]GrowthPoint, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.CapitalGrowth")
	defer span.End()

	positions, err := e.positions(ctx, f)
	if err != nil {
		return nil, err
	}
	points, err := Growth(positions)
	if err != nil {
		return nil, fmt.Errorf("capital growth: %w", err)
	}
	if trace.Enabled() {
		span.SetAttributes(attribute.Stringer("filter", f), attribute.Int("points", len(points)))
	}
	return points, nil
}

// TopSymbols ranks every symbol the member (or everyone, when nil) has closed
// trades in. Date bounds never apply.
func (e *Engine) TopSymbols(ctx context.Context, memberID *uint) ([]SymbolRank, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.TopSymbols")
	defer span.End()

	ranks, err := e.rankSymbols(ctx, Filter{MemberID: memberID})
	if err != nil {
		return nil, err
	}
	if trace.Enabled() {
		span.SetAttributes(attribute.Int("symbols", len(ranks)))
	}
	return ranks, nil
}

// rankSymbols ranks the member scope of f over all time.
func (e *Engine) rankSymbols(ctx context.Context, f Filter) ([]SymbolRank, error) {
	positions, err := e.positions(ctx, f.MemberOnly())
	if err != nil {
		return nil, err
	}
	ranks, err := RankSymbols(positions)
	if err != nil {
		return nil, fmt.Errorf("top symbols: %w", err)
	}
	return ranks, nil
}

// Dashboard computes monthly buckets, growth curve and summary from a single
// read of the ledger so the three always agree, plus the top n symbols.
func (e *Engine) Dashboard(ctx context.Context, f Filter, topN int) (*Dashboard, error) {
	ctx, span := trace.StartSpan(ctx, "analytics.Dashboard")
	defer span.End()

	positions, err := e.positions(ctx, f)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Filter: f}
	if d.Monthly, err = Monthly(positions); err != nil {
		return nil, fmt.Errorf("monthly performance: %w", err)
	}
	if d.Growth, err = Growth(positions); err != nil {
		return nil, fmt.Errorf("capital growth: %w", err)
	}
	if d.Summary, err = Summarize(d.Monthly, d.Growth, positions); err != nil {
		return nil, err
	}

	ranks, err := e.rankSymbols(ctx, f)
	if err != nil {
		return nil, err
	}
	d.TopSymbols = Top(ranks, topN)

	if trace.Enabled() {
		span.SetAttributes(
			attribute.Stringer("filter", f),
			attribute.Int("positions", len(positions)),
			attribute.Int("buckets", len(d.Monthly)),
		)
	}

	return d, nil
}

// positions reads the ledger once and returns the classified closed positions for f.
func (e *Engine) positions(ctx context.Context, f Filter) ([]Position, error) {
	l := e.logger.With(zap.Stringer("filter", f))

	if f.MemberID != nil {
		ok, err := e.ledger.MemberExists(ctx, *f.MemberID)
		if err != nil {
			return nil, fmt.Errorf("could not look up member %d: %w", *f.MemberID, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown member %d", ErrInvalidArgument, *f.MemberID)
		}
	}

	if f.Inverted() {
		l.Debug("Start date after end date, nothing to compute")
		return []Position{}, nil
	}

	trades, err := e.ledger.Trades(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("could not read trades: %w", err)
	}

	positions, err := Classify(f.Apply(trades))
	if err != nil {
		return nil, err
	}
	l.Debug("Classified trades", zap.Int("trades", len(trades)), zap.Int("closed", len(positions)))
	return positions, nil
}
