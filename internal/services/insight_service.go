package services

import (
	"context"
	"fmt"
	"time"

	"grana/internal/cache"
	"grana/internal/core"
	"grana/internal/ledger"
)

const (
	insightCacheSize = 128
	insightCacheTTL  = 5 * time.Minute
)

// InsightService runs the scoring engine over ledger snapshots and memoizes
// the results. Every computed insight is a pure function of the snapshot and
// the clock, so one flush after each write keeps the cache honest.
type InsightService struct {
	snapshots ledger.SnapshotReader

	scores      *cache.Store[core.HealthScoreResult]
	summaries   *cache.Store[core.FinancialHealthSummary]
	alerts      *cache.Store[[]core.PaceAlert]
	projections *cache.Store[[]core.ProjectionPoint]
	overviews   *cache.Store[core.MonthOverview]
	worth       *cache.Store[core.Money]
}

func NewInsightService(snapshots ledger.SnapshotReader) *InsightService {
	return &InsightService{
		snapshots:   snapshots,
		scores:      cache.NewStore[core.HealthScoreResult](insightCacheSize, insightCacheTTL),
		summaries:   cache.NewStore[core.FinancialHealthSummary](insightCacheSize, insightCacheTTL),
		alerts:      cache.NewStore[[]core.PaceAlert](insightCacheSize, insightCacheTTL),
		projections: cache.NewStore[[]core.ProjectionPoint](insightCacheSize, insightCacheTTL),
		overviews:   cache.NewStore[core.MonthOverview](insightCacheSize, insightCacheTTL),
		worth:       cache.NewStore[core.Money](insightCacheSize, insightCacheTTL),
	}
}

// RegisterStores attaches every internal store to the janitor's sweep.
func (s *InsightService) RegisterStores(j *cache.Janitor) {
	j.Register(s.scores)
	j.Register(s.summaries)
	j.Register(s.alerts)
	j.Register(s.projections)
	j.Register(s.overviews)
	j.Register(s.worth)
}

// Invalidate empties every store. Wired to LedgerService.OnChange.
func (s *InsightService) Invalidate() {
	s.scores.Flush()
	s.summaries.Flush()
	s.alerts.Flush()
	s.projections.Flush()
	s.overviews.Flush()
	s.worth.Flush()
}

// HealthScore computes the 0-100 score as of now.
func (s *InsightService) HealthScore(ctx context.Context, now time.Time) (core.HealthScoreResult, error) {
	key := now.Format("2006-01")
	if cached, ok := s.scores.Get(key); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return core.HealthScoreResult{}, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.EvaluateHealth(snap.Transactions, snap.Config, now)
	s.scores.Put(key, result)
	return result, nil
}

// Summary computes the trailing three-month financial summary.
func (s *InsightService) Summary(ctx context.Context, now time.Time) (core.FinancialHealthSummary, error) {
	key := now.Format("2006-01")
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return core.FinancialHealthSummary{}, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.Summarize(snap.Transactions, snap.Config, now)
	s.summaries.Put(key, result)
	return result, nil
}

// PaceAlerts computes budget pace alerts. Keyed by day since pace moves with
// the calendar, not just the ledger.
func (s *InsightService) PaceAlerts(ctx context.Context, now time.Time) ([]core.PaceAlert, error) {
	key := now.Format("2006-01-02")
	if cached, ok := s.alerts.Get(key); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.BudgetPaceAlerts(snap.Transactions, snap.Config, now)
	s.alerts.Put(key, result)
	return result, nil
}

// Projection computes the forward balance projection.
func (s *InsightService) Projection(ctx context.Context, now time.Time, horizon int) ([]core.ProjectionPoint, error) {
	key := fmt.Sprintf("%s:%d", now.Format("2006-01"), horizon)
	if cached, ok := s.projections.Get(key); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.Project(snap.Transactions, snap.Config, now, horizon)
	s.projections.Put(key, result)
	return result, nil
}

// MonthOverview aggregates one month's totals and category breakdown.
func (s *InsightService) MonthOverview(ctx context.Context, month string) (core.MonthOverview, error) {
	if cached, ok := s.overviews.Get(month); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.BuildMonthOverview(snap.Transactions, month)
	s.overviews.Put(month, result)
	return result, nil
}

// NetWorth computes the patrimony total.
func (s *InsightService) NetWorth(ctx context.Context) (core.Money, error) {
	const key = "networth"
	if cached, ok := s.worth.Get(key); ok {
		return cached, nil
	}

	snap, err := s.snapshots.ReadSnapshot(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("read snapshot: %w", err)
	}

	result := core.NetWorth(snap.Transactions, snap.Config, snap.Goals)
	s.worth.Put(key, result)
	return result, nil
}
