// Package allocation implements budget allocation across campaigns: the
// floor-constrained weighted allocator, the scenario simulator, and the
// Engine service that feeds both from live performance data.
package allocation

import (
	"errors"
	"fmt"

	"github.com/openbudget/adpilot/internal/models"
)

// minShare is the floor each campaign is guaranteed, as a fraction of the
// total budget.
const minShare = 0.10

var (
	// ErrInvalidRequest marks a structurally invalid allocation request.
	ErrInvalidRequest = errors.New("invalid allocation request")

	// ErrNoUsableCampaigns means none of the requested campaigns had any
	// performance data to weight by.
	ErrNoUsableCampaigns = errors.New("no performance data available for campaigns")
)

const equalWeightWarning = "minimum share exceeds total budget across campaigns, fell back to equal allocation"

// Allocate splits req.TotalBudget across the given campaigns. perf must be in
// request order and contain only campaigns that had performance data; weights
// are derived from it according to the goal, then adjusted so every campaign
// keeps at least the minimum share. With more than ten campaigns the floor
// cannot hold and the split falls back to pure equal weights with a warning.
func Allocate(req models.AllocationRequest, perf []models.CampaignPerformance) (models.AllocationResult, error) {
	if req.TotalBudget <= 0 {
		return models.AllocationResult{}, fmt.Errorf("%w: total budget must be positive", ErrInvalidRequest)
	}
	if len(req.CampaignIDs) == 0 {
		return models.AllocationResult{}, fmt.Errorf("%w: no campaign ids given", ErrInvalidRequest)
	}
	if len(perf) == 0 {
		return models.AllocationResult{}, ErrNoUsableCampaigns
	}

	goal := req.Goal
	if goal == "" {
		goal = models.DefaultGoal
	}

	result := models.AllocationResult{
		OptimizationGoal: goal,
		TotalBudget:      req.TotalBudget,
	}

	weights := rawWeights(goal, perf)
	adjusted, floored := applyFloor(weights)
	if !floored {
		result.Warnings = append(result.Warnings, equalWeightWarning)
	}

	var expectedConversions, expectedROAS float64
	for i, c := range perf {
		recommended := models.Round2(req.TotalBudget * adjusted[i])

		alloc := models.CampaignAllocation{
			CampaignID:        c.CampaignID,
			CurrentBudget:     c.CurrentBudget,
			RecommendedBudget: recommended,
			Weight:            models.Round1(adjusted[i] * 100),
			ROAS:              c.ROAS,
			CPA:               c.CPA,
		}
		if c.CurrentBudget != nil {
			change := models.Round2(recommended - *c.CurrentBudget)
			var pct float64
			if *c.CurrentBudget > 0 {
				pct = models.Round1((recommended - *c.CurrentBudget) / *c.CurrentBudget * 100)
			}
			alloc.Change = &change
			alloc.ChangePct = &pct

			switch {
			case change > 0:
				result.Summary.BudgetIncreases++
			case change < 0:
				result.Summary.BudgetDecreases++
			}
		}
		result.Allocations = append(result.Allocations, alloc)

		if c.CPA > 0 {
			expectedConversions += recommended / c.CPA
		}
		expectedROAS += adjusted[i] * c.ROAS
	}
	result.Summary.CampaignsOptimized = len(result.Allocations)
	result.ExpectedOutcomes = models.ExpectedOutcomes{
		TotalConversions: models.Round0(expectedConversions),
		AvgROAS:          models.Round2(expectedROAS),
		EstimatedRevenue: models.Round2(expectedConversions * models.AOV),
	}
	return result, nil
}

// rawWeights derives normalized per-campaign weights for the goal. Every
// branch degrades to equal weights when its driving metric sums to zero, so
// the returned weights always sum to one.
func rawWeights(goal models.Goal, perf []models.CampaignPerformance) []float64 {
	weights := make([]float64, len(perf))

	switch goal {
	case models.GoalMaximizeROAS:
		var total float64
		for _, c := range perf {
			total += c.ROAS
		}
		if total == 0 {
			return equalWeights(len(perf))
		}
		for i, c := range perf {
			weights[i] = c.ROAS / total
		}

	case models.GoalMinimizeCPA:
		// Inverse weighting: a lower cost per acquisition earns a larger
		// share. A non-positive cpa contributes nothing.
		inverse := make([]float64, len(perf))
		var total float64
		for i, c := range perf {
			if c.CPA > 0 {
				inverse[i] = 1 / c.CPA
				total += inverse[i]
			}
		}
		if total == 0 {
			return equalWeights(len(perf))
		}
		for i := range perf {
			weights[i] = inverse[i] / total
		}

	case models.GoalMaximizeConversions:
		var total float64
		for _, c := range perf {
			total += c.Conversions
		}
		if total == 0 {
			return equalWeights(len(perf))
		}
		for i, c := range perf {
			weights[i] = c.Conversions / total
		}

	default:
		return equalWeights(len(perf))
	}
	return weights
}

// applyFloor rescales raw weights so each campaign keeps at least minShare.
// The second return is false when the floor alone would exceed the whole
// budget, in which case the weights degrade to a pure equal split.
func applyFloor(weights []float64) ([]float64, bool) {
	remaining := 1.0 - minShare*float64(len(weights))
	if remaining < 0 {
		return equalWeights(len(weights)), false
	}

	adjusted := make([]float64, len(weights))
	for i, w := range weights {
		adjusted[i] = minShare + w*remaining
	}
	return adjusted, true
}

func equalWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}
	return weights
}
