package platforms

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

// LatestCache receives the freshest snapshot per campaign after each sync.
type LatestCache interface {
	SetLatest(ctx context.Context, snap models.MetricSnapshot) error
}

// CampaignSink persists campaign records discovered during a sync.
type CampaignSink interface {
	UpsertCampaign(ctx context.Context, c models.Campaign) error
}

// Syncer periodically pulls campaign lists and metrics from every platform
// adapter, records snapshots in the metrics store, and refreshes the
// latest-snapshot cache. Cache and Sink are optional; a failed snapshot write
// skips the campaign but never aborts the cycle.
type Syncer struct {
	Adapters []Adapter
	Store    metricstore.Store
	Cache    LatestCache
	Sink     CampaignSink
	Logger   *zap.Logger
	Metrics  observability.MetricsRegistry
	Interval time.Duration
}

// Run syncs once immediately and then on every tick until the context is
// cancelled.
func (s *Syncer) Run(ctx context.Context) {
	s.SyncOnce(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("platform sync stopped")
			return
		case <-ticker.C:
			s.SyncOnce(ctx)
		}
	}
}

// SyncOnce runs a single sync cycle across all adapters.
func (s *Syncer) SyncOnce(ctx context.Context) {
	start := time.Now()
	failed := false

	for _, adapter := range s.Adapters {
		platform := adapter.Platform()
		campaigns, err := adapter.ListCampaigns(ctx)
		if err != nil {
			s.Logger.Error("list campaigns failed",
				zap.String("platform", platform),
				zap.Error(err))
			failed = true
			continue
		}

		for _, c := range campaigns {
			if s.Sink != nil {
				if err := s.Sink.UpsertCampaign(ctx, c); err != nil {
					s.Logger.Error("upsert campaign failed",
						zap.String("campaign_id", c.ID),
						zap.Error(err))
					failed = true
				}
			}

			metrics, err := adapter.FetchMetrics(ctx, c.ID)
			if err != nil {
				s.Logger.Error("fetch metrics failed",
					zap.String("platform", platform),
					zap.String("campaign_id", c.ID),
					zap.Error(err))
				failed = true
				continue
			}

			snap := metrics.Snapshot()
			if err := s.Store.RecordSnapshot(ctx, snap); err != nil {
				s.Logger.Error("record snapshot failed",
					zap.String("campaign_id", c.ID),
					zap.Error(err))
				s.Metrics.IncrementStoreErrors()
				failed = true
				continue
			}
			s.Metrics.IncrementSnapshots(platform)

			if s.Cache != nil {
				if err := s.Cache.SetLatest(ctx, snap); err != nil {
					s.Logger.Warn("cache latest snapshot failed",
						zap.String("campaign_id", c.ID),
						zap.Error(err))
				}
			}
		}
	}

	outcome := "ok"
	if failed {
		outcome = "error"
	}
	s.Metrics.IncrementSyncCycles(outcome)
	s.Logger.Info("platform sync cycle finished",
		zap.String("outcome", outcome),
		zap.Duration("took", time.Since(start)))
}
