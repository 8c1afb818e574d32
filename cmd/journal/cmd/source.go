package cmd

import (
	"context"
	"fmt"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/api"
	"trading-journal/internal/client"
	"trading-journal/internal/database"
	"trading-journal/internal/ledger"
)

// source answers analytics queries either from the local database or from
// a journal server.
type source interface {
	MonthlyPerformance(ctx context.Context, f analytics.Filter) ([]api.MonthlyPerformance, error)
	CapitalGrowth(ctx context.Context, f analytics.Filter) ([]api.GrowthPoint, error)
	TopSymbols(ctx context.Context, memberID *uint, limit int) ([]api.SymbolRank, error)
	Dashboard(ctx context.Context, f analytics.Filter, rangePreset string, limit int) (*api.DashboardResponse, error)
}

var _ source = (*client.Client)(nil)

type localSource struct {
	engine *analytics.Engine
	loc    *time.Location
}

func openLedger() (*ledger.Ledger, error) {
	db, err := database.NewDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	return ledger.New(db, log), nil
}

func openSource() (source, error) {
	if remote() {
		c := cfg.Client
		if serverURL != "default" {
			c.BaseURL = serverURL
		}
		return client.New(&c, log), nil
	}

	l, err := openLedger()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, fmt.Errorf("analytics timezone: %w", err)
	}
	return &localSource{engine: analytics.NewEngine(log, l), loc: loc}, nil
}

func (s *localSource) MonthlyPerformance(ctx context.Context, f analytics.Filter) ([]api.MonthlyPerformance, error) {
	buckets, err := s.engine.MonthlyPerformance(ctx, f)
	if err != nil {
		return nil, err
	}
	return api.NewMonthlyPerformance(buckets), nil
}

func (s *localSource) CapitalGrowth(ctx context.Context, f analytics.Filter) ([]api.GrowthPoint, error) {
	points, err := s.engine.CapitalGrowth(ctx, f)
	if err != nil {
		return nil, err
	}
	return api.NewGrowthPoints(points), nil
}

func (s *localSource) TopSymbols(ctx context.Context, memberID *uint, limit int) ([]api.SymbolRank, error) {
	ranks, err := s.engine.TopSymbols(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return api.NewSymbolRanks(analytics.Top(ranks, limit)), nil
}

func (s *localSource) Dashboard(ctx context.Context, f analytics.Filter, rangePreset string, limit int) (*api.DashboardResponse, error) {
	f, err := f.WithRange(rangePreset, time.Now(), s.loc)
	if err != nil {
		return nil, err
	}
	d, err := s.engine.Dashboard(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	out := api.NewDashboard(d)
	return &out, nil
}
