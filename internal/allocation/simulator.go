package allocation

import (
	"fmt"

	"github.com/openbudget/adpilot/internal/models"
)

// Simulate projects the outcome of each hypothetical allocation scenario and
// picks the one with the highest expected ROAS. perfByID supplies the latest
// performance per campaign; scenario entries for campaigns with no usable cpa
// contribute neither conversions nor cost to the projection.
func Simulate(scenarios []models.Scenario, perfByID map[string]models.CampaignPerformance) models.SimulationResult {
	result := models.SimulationResult{
		Scenarios: make([]models.ScenarioOutcome, 0, len(scenarios)),
	}

	bestIdx := -1
	for i, sc := range scenarios {
		var conversions, cost float64
		for campaignID, budget := range sc.Allocations {
			perf, ok := perfByID[campaignID]
			if !ok || perf.CPA <= 0 {
				continue
			}
			conversions += budget / perf.CPA
			cost += budget
		}

		var roas float64
		if cost > 0 {
			roas = conversions * models.AOV / cost
		}

		outcome := models.ScenarioOutcome{
			Scenario:            sc.Name,
			TotalBudget:         sc.TotalBudget,
			ExpectedConversions: models.Round0(conversions),
			ExpectedROAS:        models.Round2(roas),
			ExpectedRevenue:     models.Round2(conversions * models.AOV),
		}
		result.Scenarios = append(result.Scenarios, outcome)

		if bestIdx < 0 || outcome.ExpectedROAS > result.Scenarios[bestIdx].ExpectedROAS {
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		result.Recommendation = "No clear winner"
		return result
	}
	result.BestScenario = result.Scenarios[bestIdx].Scenario
	result.Recommendation = fmt.Sprintf("Scenario '%s' provides the best ROAS", result.BestScenario)
	return result
}
