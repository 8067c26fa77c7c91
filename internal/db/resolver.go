package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

// PerformanceResolver resolves the latest point-in-time performance for a
// campaign: the Redis cache first, the metrics store on a miss, and the
// campaign record for the current budget. It backs the allocation engine's
// performance source and campaign directory.
type PerformanceResolver struct {
	Cache   *RedisCache
	Store   metricstore.Store
	PG      *Postgres
	Logger  *zap.Logger
	Metrics observability.MetricsRegistry
}

// LatestPerformance returns derived performance for one campaign. The boolean
// is false when no snapshot exists anywhere for the campaign.
func (r *PerformanceResolver) LatestPerformance(ctx context.Context, campaignID string) (models.CampaignPerformance, bool, error) {
	snap, ok, err := r.latestSnapshot(ctx, campaignID)
	if err != nil {
		return models.CampaignPerformance{}, false, err
	}
	if !ok {
		return models.CampaignPerformance{}, false, nil
	}

	derived := snap.Derive()
	perf := models.CampaignPerformance{
		CampaignID:  campaignID,
		ROAS:        derived.ROAS,
		CPA:         derived.CPA,
		Conversions: snap.Conversions,
	}

	campaign, err := r.PG.GetCampaign(ctx, campaignID)
	switch {
	case errors.Is(err, ErrCampaignNotFound):
		// Unknown current budget stays nil rather than defaulting to zero.
	case err != nil:
		r.Logger.Warn("campaign budget lookup failed",
			zap.String("campaign_id", campaignID),
			zap.Error(err))
	default:
		perf.CurrentBudget = campaign.DailyBudget
	}
	return perf, true, nil
}

// Campaigns lists the campaigns under management.
func (r *PerformanceResolver) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	return r.PG.LoadCampaigns(ctx)
}

func (r *PerformanceResolver) latestSnapshot(ctx context.Context, campaignID string) (models.MetricSnapshot, bool, error) {
	if r.Cache != nil {
		snap, hit, err := r.Cache.GetLatest(ctx, campaignID)
		if err != nil {
			r.Logger.Warn("latest snapshot cache read failed",
				zap.String("campaign_id", campaignID),
				zap.Error(err))
		} else if hit {
			r.Metrics.IncrementCacheLookups("hit")
			return snap, true, nil
		}
		r.Metrics.IncrementCacheLookups("miss")
	}

	snap, ok, err := r.Store.Latest(ctx, campaignID)
	if err != nil {
		r.Metrics.IncrementStoreErrors()
		return models.MetricSnapshot{}, false, fmt.Errorf("latest snapshot for %s: %w", campaignID, err)
	}
	if !ok {
		return models.MetricSnapshot{}, false, nil
	}

	if r.Cache != nil {
		if err := r.Cache.SetLatest(ctx, snap); err != nil {
			r.Logger.Warn("latest snapshot cache write failed",
				zap.String("campaign_id", campaignID),
				zap.Error(err))
		}
	}
	return snap, true, nil
}
