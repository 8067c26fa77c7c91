package allocation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
)

// PerformanceSource resolves the latest point-in-time performance for one
// campaign. The boolean is false when no data exists for the campaign, which
// is not an error.
type PerformanceSource interface {
	LatestPerformance(ctx context.Context, campaignID string) (models.CampaignPerformance, bool, error)
}

// CampaignDirectory lists the campaigns under management.
type CampaignDirectory interface {
	Campaigns(ctx context.Context) ([]models.Campaign, error)
}

// Standing portfolio guidance attached to every budget recommendation.
var keyRecommendations = []string{
	"Focus budget on high-ROAS campaigns",
	"Maintain minimum spend on testing campaigns",
	"Review and adjust weekly based on performance",
}

// Engine feeds the pure allocation functions from live performance data.
type Engine struct {
	Source       PerformanceSource
	Directory    CampaignDirectory
	Logger       *zap.Logger
	Metrics      observability.MetricsRegistry
	QueryTimeout time.Duration
}

// NewEngine creates an Engine over the given performance source and campaign
// directory.
func NewEngine(source PerformanceSource, directory CampaignDirectory, logger *zap.Logger, metrics observability.MetricsRegistry, queryTimeout time.Duration) *Engine {
	return &Engine{
		Source:       source,
		Directory:    directory,
		Logger:       logger,
		Metrics:      metrics,
		QueryTimeout: queryTimeout,
	}
}

// Optimize resolves performance for the requested campaigns and allocates the
// budget across them. Campaigns without any performance data are dropped from
// the allocation; request order is preserved for the rest.
func (e *Engine) Optimize(ctx context.Context, req models.AllocationRequest) (models.AllocationResult, error) {
	if e.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.QueryTimeout)
		defer cancel()
	}

	perf := make([]models.CampaignPerformance, 0, len(req.CampaignIDs))
	for _, id := range req.CampaignIDs {
		p, ok, err := e.Source.LatestPerformance(ctx, id)
		if err != nil {
			return models.AllocationResult{}, fmt.Errorf("resolve performance for %s: %w", id, err)
		}
		if !ok {
			e.Logger.Debug("campaign has no performance data, skipping", zap.String("campaign_id", id))
			continue
		}
		perf = append(perf, p)
	}

	result, err := Allocate(req, perf)
	if err != nil {
		return models.AllocationResult{}, err
	}
	e.Metrics.IncrementAllocations(string(result.OptimizationGoal))
	return result, nil
}

// SimulateScenarios projects each hypothetical scenario against the latest
// campaign performance.
func (e *Engine) SimulateScenarios(ctx context.Context, scenarios []models.Scenario) (models.SimulationResult, error) {
	if e.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.QueryTimeout)
		defer cancel()
	}

	perfByID := make(map[string]models.CampaignPerformance)
	for _, sc := range scenarios {
		for id := range sc.Allocations {
			if _, seen := perfByID[id]; seen {
				continue
			}
			p, ok, err := e.Source.LatestPerformance(ctx, id)
			if err != nil {
				return models.SimulationResult{}, fmt.Errorf("resolve performance for %s: %w", id, err)
			}
			if ok {
				perfByID[id] = p
			}
		}
	}
	return Simulate(scenarios, perfByID), nil
}

// PortfolioRecommendations allocates the budget across every managed campaign
// toward maximum ROAS and rolls the result up per platform.
func (e *Engine) PortfolioRecommendations(ctx context.Context, totalBudget float64) (models.BudgetRecommendations, error) {
	campaigns, err := e.Directory.Campaigns(ctx)
	if err != nil {
		return models.BudgetRecommendations{}, fmt.Errorf("list campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		return models.BudgetRecommendations{}, ErrNoUsableCampaigns
	}

	platformByID := make(map[string]string, len(campaigns))
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
		platformByID[c.ID] = c.Platform
	}

	result, err := e.Optimize(ctx, models.AllocationRequest{
		TotalBudget: totalBudget,
		CampaignIDs: ids,
		Goal:        models.GoalMaximizeROAS,
	})
	if err != nil {
		return models.BudgetRecommendations{}, err
	}

	budgetByPlatform := make(map[string]float64)
	for _, alloc := range result.Allocations {
		budgetByPlatform[platformByID[alloc.CampaignID]] += alloc.RecommendedBudget
	}
	platformAllocation := make(map[string]models.PlatformAllocation, len(budgetByPlatform))
	for platform, budget := range budgetByPlatform {
		platformAllocation[platform] = models.PlatformAllocation{
			Budget:     models.Round2(budget),
			Percentage: models.Round1(budget / totalBudget * 100),
		}
	}

	return models.BudgetRecommendations{
		TotalBudget:         totalBudget,
		PlatformAllocation:  platformAllocation,
		CampaignAllocations: result.Allocations,
		ExpectedOutcomes:    result.ExpectedOutcomes,
		KeyRecommendations:  keyRecommendations,
	}, nil
}
