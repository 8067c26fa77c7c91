package analytics

import "github.com/openbudget/adpilot/internal/models"

// ROAS thresholds for budget-posture recommendations. The two ranges are
// disjoint, so at most one of the pair fires.
const (
	roasIncreaseThreshold = 3.0
	roasReduceThreshold   = 1.0
)

// Recommend maps an aggregate window and its trend labels to the ordered
// recommendation list. Output order is part of the contract: issue-derived
// actions first, trend-derived second, budget posture last.
func Recommend(win models.AggregateWindow, trends models.Trends) []models.Recommendation {
	if win.Status != models.StatusOK {
		return nil
	}

	var recs []models.Recommendation

	for _, issue := range DetectIssues(win.Metrics, trends) {
		switch issue.Kind {
		case models.IssueLowCTR:
			recs = append(recs, models.Recommendation{
				Priority:       models.PriorityHigh,
				Action:         models.ActionImproveAdCopy,
				Description:    "Test new ad headlines and descriptions",
				ExpectedImpact: "+15-25% CTR improvement",
			})
		case models.IssueLowConversionRate:
			recs = append(recs, models.Recommendation{
				Priority:       models.PriorityHigh,
				Action:         models.ActionOptimizeLandingPage,
				Description:    "Review and optimize landing page experience",
				ExpectedImpact: "+20-30% conversion rate improvement",
			})
		case models.IssueAdFatigue:
			recs = append(recs, models.Recommendation{
				Priority:       models.PriorityMedium,
				Action:         models.ActionRefreshCreatives,
				Description:    "Rotate in new ad creatives",
				ExpectedImpact: "+10-20% CTR recovery",
			})
		}
	}

	// Trend-derived: a worsening cpa calls for tighter targeting.
	if trends.CPA == models.TrendDeclining {
		recs = append(recs, models.Recommendation{
			Priority:       models.PriorityHigh,
			Action:         models.ActionAdjustTargeting,
			Description:    "Refine audience targeting to improve efficiency",
			ExpectedImpact: "-15-25% CPA reduction",
		})
	}

	// Budget posture.
	switch {
	case win.Metrics.ROAS > roasIncreaseThreshold:
		recs = append(recs, models.Recommendation{
			Priority:       models.PriorityMedium,
			Action:         models.ActionIncreaseBudget,
			Description:    "Campaign performing well, consider increasing budget",
			ExpectedImpact: "Scale profitable campaign",
		})
	case win.Metrics.ROAS < roasReduceThreshold:
		recs = append(recs, models.Recommendation{
			Priority:       models.PriorityHigh,
			Action:         models.ActionReduceBudget,
			Description:    "Campaign underperforming, reduce budget or pause",
			ExpectedImpact: "Minimize losses",
		})
	}

	return recs
}

// BuildReport wraps a recommendation list with its priority counts.
func BuildReport(campaignID string, recs []models.Recommendation) models.RecommendationReport {
	high := 0
	for _, r := range recs {
		if r.Priority == models.PriorityHigh {
			high++
		}
	}
	return models.RecommendationReport{
		CampaignID:           campaignID,
		Recommendations:      recs,
		TotalRecommendations: len(recs),
		HighPriority:         high,
	}
}
