package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

const (
	trendWindowDays   = 14
	compareWindowDays = 7

	anomalyCTRTrigger   = 0.5
	anomalyCTRThreshold = 1.0
)

// Analyzer wraps the pure analytics functions with metrics-store access. A
// store failure is reported as the store_unavailable status on the result,
// never as an error: analysis requests always produce a typed answer.
type Analyzer struct {
	Store        metricstore.Store
	Logger       *zap.Logger
	Metrics      observability.MetricsRegistry
	QueryTimeout time.Duration
}

// NewAnalyzer creates an Analyzer backed by the given metrics store.
func NewAnalyzer(store metricstore.Store, logger *zap.Logger, metrics observability.MetricsRegistry, queryTimeout time.Duration) *Analyzer {
	return &Analyzer{
		Store:        store,
		Logger:       logger,
		Metrics:      metrics,
		QueryTimeout: queryTimeout,
	}
}

// AnalyzeCampaign produces the full performance analysis for one campaign
// over the trailing window of days.
func (a *Analyzer) AnalyzeCampaign(ctx context.Context, campaignID string, days int) models.PerformanceAnalysis {
	if a.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.QueryTimeout)
		defer cancel()
	}

	snaps, err := a.Store.Snapshots(ctx, campaignID, days)
	if err != nil {
		a.Logger.Warn("metrics store read failed",
			zap.String("campaign_id", campaignID),
			zap.Int("days", days),
			zap.Error(err))
		a.Metrics.IncrementStoreErrors()
		a.Metrics.IncrementAnalyses(models.StatusStoreUnavailable)
		return models.PerformanceAnalysis{
			CampaignID: campaignID,
			Status:     models.StatusStoreUnavailable,
			Message:    "metrics store unavailable",
		}
	}

	win := Aggregate(campaignID, snaps, days)
	if win.Status != models.StatusOK {
		a.Metrics.IncrementAnalyses(win.Status)
		return models.PerformanceAnalysis{
			CampaignID: campaignID,
			Status:     win.Status,
			Message:    win.Message,
		}
	}

	trends := ClassifyTrends(snaps)
	issues := DetectIssues(win.Metrics, trends)

	a.Metrics.IncrementAnalyses(models.StatusOK)
	return models.PerformanceAnalysis{
		CampaignID:    campaignID,
		Status:        models.StatusOK,
		Period:        fmt.Sprintf("%d days", days),
		DataPoints:    win.DataPoints,
		Aggregate:     win.Metrics,
		Trends:        trends,
		Issues:        issues,
		OverallHealth: HealthFor(len(issues)),
	}
}

// DetectTrends inspects a two-week window for named trends, anomalies, and a
// conservative next-week projection.
func (a *Analyzer) DetectTrends(ctx context.Context, campaignID string) models.TrendReport {
	analysis := a.AnalyzeCampaign(ctx, campaignID, trendWindowDays)

	report := models.TrendReport{
		CampaignID:     campaignID,
		DetectedTrends: []models.DetectedTrend{},
		Anomalies:      []models.Anomaly{},
	}
	if analysis.Status != models.StatusOK {
		report.Status = analysis.Status
		return report
	}

	if analysis.Trends.CTR == models.TrendDeclining {
		report.DetectedTrends = append(report.DetectedTrends, models.DetectedTrend{
			Type:           string(models.IssueAdFatigue),
			Severity:       models.PriorityMedium,
			Description:    "CTR declining over time, indicating possible ad fatigue",
			Recommendation: "Refresh ad creatives or test new variations",
		})
	}
	if analysis.Trends.CPA == models.TrendDeclining {
		report.DetectedTrends = append(report.DetectedTrends, models.DetectedTrend{
			Type:           string(models.IssueEfficiencyDrop),
			Severity:       models.PriorityHigh,
			Description:    "Cost per acquisition increasing",
			Recommendation: "Review targeting, optimize bids, or improve landing page",
		})
	}

	if analysis.Aggregate.AvgCTR < anomalyCTRTrigger {
		report.Anomalies = append(report.Anomalies, models.Anomaly{
			Type:      string(models.IssueLowCTR),
			Value:     analysis.Aggregate.AvgCTR,
			Threshold: anomalyCTRThreshold,
			Action:    "urgent_review_needed",
		})
	}

	if roas := analysis.Aggregate.ROAS; roas > 0 {
		// Conservative estimate.
		predicted := models.Round2(roas * 0.95)
		report.Predictions = models.Predictions{
			NextWeekROAS: &predicted,
			Confidence:   "medium",
		}
	}
	return report
}

// RecommendationsFor generates the prioritized recommendation report for one
// campaign over a one-week window.
func (a *Analyzer) RecommendationsFor(ctx context.Context, campaignID string) models.RecommendationReport {
	if a.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.QueryTimeout)
		defer cancel()
	}

	snaps, err := a.Store.Snapshots(ctx, campaignID, compareWindowDays)
	if err != nil {
		a.Logger.Warn("metrics store read failed",
			zap.String("campaign_id", campaignID),
			zap.Error(err))
		a.Metrics.IncrementStoreErrors()
		return models.RecommendationReport{CampaignID: campaignID, Recommendations: []models.Recommendation{}}
	}

	win := Aggregate(campaignID, snaps, compareWindowDays)
	trends := ClassifyTrends(snaps)
	return BuildReport(campaignID, Recommend(win, trends))
}

// CompareCampaigns analyzes each campaign over a one-week window and ranks
// them against each other. Entries keep request order.
func (a *Analyzer) CompareCampaigns(ctx context.Context, campaignIDs []string) models.ComparisonResult {
	entries := make([]models.CampaignComparison, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		analysis := a.AnalyzeCampaign(ctx, id, compareWindowDays)
		entries = append(entries, models.CampaignComparison{
			CampaignID: id,
			Status:     analysis.Status,
			Metrics:    analysis.Aggregate,
			Health:     analysis.OverallHealth,
		})
	}
	return Compare(entries)
}

// GroupSpec names one campaign group to roll up, usually a platform.
type GroupSpec struct {
	Name        string
	Label       string
	CampaignIDs []string
}

// CompareCampaignGroups aggregates each group's campaigns over a one-week
// window and rolls the groups up against each other.
func (a *Analyzer) CompareCampaignGroups(ctx context.Context, specs []GroupSpec) models.GroupComparison {
	groups := make([]Group, 0, len(specs))
	for _, spec := range specs {
		g := Group{Name: spec.Name, Label: spec.Label}
		for _, id := range spec.CampaignIDs {
			snaps, err := a.Store.Snapshots(ctx, id, compareWindowDays)
			if err != nil {
				a.Logger.Warn("metrics store read failed",
					zap.String("campaign_id", id),
					zap.Error(err))
				a.Metrics.IncrementStoreErrors()
				g.Windows = append(g.Windows, models.AggregateWindow{
					CampaignID: id,
					Status:     models.StatusStoreUnavailable,
				})
				continue
			}
			g.Windows = append(g.Windows, Aggregate(id, snaps, compareWindowDays))
		}
		groups = append(groups, g)
	}
	return CompareGroups(groups)
}
