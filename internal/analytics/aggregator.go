// Package analytics holds the performance analytics core: snapshot
// aggregation, trend classification, issue detection, recommendation
// generation, and cross-campaign comparison. Every function here is a pure
// computation over its inputs; the Analyzer service wraps them with the
// metrics-store reads they need.
package analytics

import "github.com/openbudget/adpilot/internal/models"

const insufficientDataMessage = "Not enough data for analysis"

// Aggregate reduces an ordered snapshot sequence for one campaign into an
// AggregateWindow. The sequence must already be filtered to the requested
// period. Ratios are derived from the summed totals, not averaged from
// per-snapshot ratios, and rounding happens once here at output.
//
// An empty sequence yields the insufficient_data status; callers must not
// treat that as a zero-valued success.
func Aggregate(campaignID string, snaps []models.MetricSnapshot, periodDays int) models.AggregateWindow {
	if len(snaps) == 0 {
		return models.AggregateWindow{
			CampaignID: campaignID,
			Status:     models.StatusInsufficientData,
			Message:    insufficientDataMessage,
			PeriodDays: periodDays,
		}
	}

	var impressions, clicks, conversions, cost float64
	for _, s := range snaps {
		impressions += s.Impressions
		clicks += s.Clicks
		conversions += s.Conversions
		cost += s.Cost
	}

	return models.AggregateWindow{
		CampaignID: campaignID,
		Status:     models.StatusOK,
		PeriodDays: periodDays,
		DataPoints: len(snaps),
		Metrics: models.AggregateMetrics{
			TotalImpressions:  models.Round0(impressions),
			TotalClicks:       models.Round0(clicks),
			TotalConversions:  models.Round0(conversions),
			TotalCost:         models.Round2(cost),
			AvgCTR:            models.Round2(models.Ratio(clicks, impressions) * 100),
			AvgCPC:            models.Round2(models.Ratio(cost, clicks)),
			AvgConversionRate: models.Round2(models.Ratio(conversions, clicks) * 100),
			AvgCPA:            models.Round2(models.Ratio(cost, conversions)),
			ROAS:              models.Round2(models.Ratio(conversions*models.AOV, cost)),
		},
	}
}
