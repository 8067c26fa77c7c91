package models

// Goal selects which metric drives allocation weighting. An unrecognized goal
// falls back to equal-weight allocation rather than erroring.
type Goal string

const (
	GoalMaximizeROAS        Goal = "maximize_roas"
	GoalMinimizeCPA         Goal = "minimize_cpa"
	GoalMaximizeConversions Goal = "maximize_conversions"
)

// DefaultGoal applies when a request leaves the goal unset.
const DefaultGoal = GoalMaximizeROAS

// AllocationRequest asks for a budget split across a set of campaigns.
// Duplicate campaign ids are a caller error and are not deduplicated.
type AllocationRequest struct {
	TotalBudget float64  `json:"totalBudget"`
	CampaignIDs []string `json:"campaignIds"`
	Goal        Goal     `json:"goal,omitempty"`
}

// CampaignPerformance is the latest point-in-time performance the allocator
// consumes for one campaign. CurrentBudget is nil when unknown.
type CampaignPerformance struct {
	CampaignID    string   `json:"campaignId"`
	ROAS          float64  `json:"roas"`
	CPA           float64  `json:"cpa"`
	Conversions   float64  `json:"conversions"`
	CurrentBudget *float64 `json:"currentBudget"`
}

// CampaignAllocation is one campaign's slice of an allocation result.
// Change and ChangePct are nil when the current budget is unknown; Weight is
// the adjusted share expressed as a percentage.
type CampaignAllocation struct {
	CampaignID        string   `json:"campaignId"`
	CurrentBudget     *float64 `json:"currentBudget"`
	RecommendedBudget float64  `json:"recommendedBudget"`
	Change            *float64 `json:"change"`
	ChangePct         *float64 `json:"changePct"`
	Weight            float64  `json:"weight"`
	ROAS              float64  `json:"roas"`
	CPA               float64  `json:"cpa"`
}

// ExpectedOutcomes projects what the recommended allocation would deliver.
type ExpectedOutcomes struct {
	TotalConversions float64 `json:"totalConversions"`
	AvgROAS          float64 `json:"avgROAS"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
}

// AllocationSummary counts the direction of budget movement. Campaigns with
// an unknown current budget are excluded from both counts.
type AllocationSummary struct {
	CampaignsOptimized int `json:"campaignsOptimized"`
	BudgetIncreases    int `json:"budgetIncreases"`
	BudgetDecreases    int `json:"budgetDecreases"`
}

// AllocationResult is the full product of one allocation computation. It is
// computed fresh per request and never persisted by the core.
type AllocationResult struct {
	OptimizationGoal Goal                 `json:"optimizationGoal"`
	TotalBudget      float64              `json:"totalBudget"`
	Allocations      []CampaignAllocation `json:"allocations"`
	ExpectedOutcomes ExpectedOutcomes     `json:"expectedOutcomes"`
	Summary          AllocationSummary    `json:"summary"`
	Warnings         []string             `json:"warnings,omitempty"`
}

// Scenario is one user-supplied hypothetical allocation.
type Scenario struct {
	Name        string             `json:"name"`
	TotalBudget float64            `json:"totalBudget"`
	Allocations map[string]float64 `json:"allocations"`
}

// ScenarioOutcome projects the result of one scenario.
type ScenarioOutcome struct {
	Scenario            string  `json:"scenario"`
	TotalBudget         float64 `json:"totalBudget"`
	ExpectedConversions float64 `json:"expectedConversions"`
	ExpectedROAS        float64 `json:"expectedROAS"`
	ExpectedRevenue     float64 `json:"expectedRevenue"`
}

// SimulationResult ranks a batch of scenarios. BestScenario is the first
// scenario with the maximum expected ROAS, in input order.
type SimulationResult struct {
	Scenarios      []ScenarioOutcome `json:"scenarios"`
	BestScenario   string            `json:"bestScenario,omitempty"`
	Recommendation string            `json:"recommendation"`
}

// CampaignComparison carries one campaign's aggregate and health for ranking.
type CampaignComparison struct {
	CampaignID string           `json:"campaignId"`
	Status     string           `json:"status"`
	Metrics    AggregateMetrics `json:"metrics"`
	Health     Health           `json:"health"`
}

// ComparisonResult ranks campaigns by ROAS. Campaigns with zero ROAS are
// excluded from the ranking, not ranked last.
type ComparisonResult struct {
	Campaigns      []CampaignComparison `json:"campaigns"`
	BestPerformer  string               `json:"bestPerformer,omitempty"`
	WorstPerformer string               `json:"worstPerformer,omitempty"`
	Recommendation string               `json:"recommendation"`
}

// GroupRollup summarizes one named campaign group's mean performance.
type GroupRollup struct {
	AvgROAS   float64 `json:"avgROAS"`
	AvgCPA    float64 `json:"avgCPA"`
	Campaigns int     `json:"campaigns"`
}

// GroupComparison rolls up named campaign groups (typically one per platform)
// and recommends where additional budget should flow.
type GroupComparison struct {
	Groups         map[string]GroupRollup `json:"groups"`
	Recommendation string                 `json:"recommendation"`
}

// PlatformAllocation is a per-platform share of a portfolio recommendation.
type PlatformAllocation struct {
	Budget     float64 `json:"budget"`
	Percentage float64 `json:"percentage"`
}

// BudgetRecommendations is the portfolio-level allocation product: the
// per-campaign allocation plus platform rollups and standing guidance.
type BudgetRecommendations struct {
	TotalBudget         float64                       `json:"totalBudget"`
	PlatformAllocation  map[string]PlatformAllocation `json:"platformAllocation"`
	CampaignAllocations []CampaignAllocation          `json:"campaignAllocations"`
	ExpectedOutcomes    ExpectedOutcomes              `json:"expectedOutcomes"`
	KeyRecommendations  []string                      `json:"keyRecommendations"`
}
