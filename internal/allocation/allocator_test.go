package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/openbudget/adpilot/internal/models"
)

func perf(id string, roas, cpa, conversions float64, budget *float64) models.CampaignPerformance {
	return models.CampaignPerformance{
		CampaignID:    id,
		ROAS:          roas,
		CPA:           cpa,
		Conversions:   conversions,
		CurrentBudget: budget,
	}
}

func budgetOf(v float64) *float64 { return &v }

func request(total float64, ids ...string) models.AllocationRequest {
	return models.AllocationRequest{TotalBudget: total, CampaignIDs: ids}
}

func TestAllocate_InvalidRequests(t *testing.T) {
	somePerf := []models.CampaignPerformance{perf("a", 1, 10, 5, nil)}

	if _, err := Allocate(request(0, "a"), somePerf); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("zero budget: want ErrInvalidRequest, got %v", err)
	}
	if _, err := Allocate(request(-100, "a"), somePerf); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("negative budget: want ErrInvalidRequest, got %v", err)
	}
	if _, err := Allocate(request(1000), somePerf); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("no ids: want ErrInvalidRequest, got %v", err)
	}
	if _, err := Allocate(request(1000, "a"), nil); !errors.Is(err, ErrNoUsableCampaigns) {
		t.Fatalf("no perf: want ErrNoUsableCampaigns, got %v", err)
	}
}

func TestAllocate_MaximizeROAS(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 4, 10, 100, budgetOf(500)),
		perf("b", 1, 25, 20, budgetOf(500)),
	}

	result, err := Allocate(request(1000, "a", "b"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	if result.OptimizationGoal != models.GoalMaximizeROAS {
		t.Fatalf("empty goal must default to maximize_roas, got %s", result.OptimizationGoal)
	}
	if len(result.Allocations) != 2 {
		t.Fatalf("want 2 allocations, got %d", len(result.Allocations))
	}

	a, b := result.Allocations[0], result.Allocations[1]
	if a.RecommendedBudget != 740 || b.RecommendedBudget != 260 {
		t.Fatalf("want 740/260, got %f/%f", a.RecommendedBudget, b.RecommendedBudget)
	}
	if a.Weight != 74 || b.Weight != 26 {
		t.Fatalf("want weights 74/26, got %f/%f", a.Weight, b.Weight)
	}

	if a.Change == nil || *a.Change != 240 {
		t.Fatalf("want change +240, got %v", a.Change)
	}
	if a.ChangePct == nil || *a.ChangePct != 48 {
		t.Fatalf("want change pct 48, got %v", a.ChangePct)
	}
	if b.Change == nil || *b.Change != -240 {
		t.Fatalf("want change -240, got %v", b.Change)
	}

	if result.Summary.CampaignsOptimized != 2 || result.Summary.BudgetIncreases != 1 || result.Summary.BudgetDecreases != 1 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}

	// 740/10 + 260/25 = 84.4 conversions.
	if result.ExpectedOutcomes.TotalConversions != 84 {
		t.Fatalf("want 84 conversions, got %f", result.ExpectedOutcomes.TotalConversions)
	}
	if result.ExpectedOutcomes.EstimatedRevenue != 4220 {
		t.Fatalf("want revenue 4220, got %f", result.ExpectedOutcomes.EstimatedRevenue)
	}
	// 0.74*4 + 0.26*1.
	if result.ExpectedOutcomes.AvgROAS != 3.22 {
		t.Fatalf("want avg roas 3.22, got %f", result.ExpectedOutcomes.AvgROAS)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", result.Warnings)
	}
}

func TestAllocate_MinimizeCPAInverseWeighting(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("cheap", 2, 10, 50, nil),
		perf("pricey", 2, 40, 50, nil),
	}
	req := request(1000, "cheap", "pricey")
	req.Goal = models.GoalMinimizeCPA

	result, err := Allocate(req, perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	// Inverse cpa weights 0.8/0.2 become 0.74/0.26 after the floor.
	if result.Allocations[0].RecommendedBudget != 740 {
		t.Fatalf("cheaper campaign should lead, got %f", result.Allocations[0].RecommendedBudget)
	}
	if result.Allocations[1].RecommendedBudget != 260 {
		t.Fatalf("want 260, got %f", result.Allocations[1].RecommendedBudget)
	}
}

func TestAllocate_MaximizeConversions(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 1, 10, 30, nil),
		perf("b", 1, 10, 10, nil),
	}
	req := request(1000, "a", "b")
	req.Goal = models.GoalMaximizeConversions

	result, err := Allocate(req, perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if result.Allocations[0].RecommendedBudget != 700 || result.Allocations[1].RecommendedBudget != 300 {
		t.Fatalf("want 700/300, got %f/%f",
			result.Allocations[0].RecommendedBudget, result.Allocations[1].RecommendedBudget)
	}
}

func TestAllocate_ZeroMetricSumFallsBackToEqual(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 0, 10, 5, nil),
		perf("b", 0, 10, 5, nil),
	}

	result, err := Allocate(request(1000, "a", "b"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if result.Allocations[0].RecommendedBudget != 500 || result.Allocations[1].RecommendedBudget != 500 {
		t.Fatalf("want even split, got %+v", result.Allocations)
	}
}

func TestAllocate_UnknownGoalUsesEqualWeights(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 4, 10, 100, nil),
		perf("b", 1, 25, 20, nil),
	}
	req := request(1000, "a", "b")
	req.Goal = models.Goal("maximize_vibes")

	result, err := Allocate(req, perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if result.Allocations[0].RecommendedBudget != 500 || result.Allocations[1].RecommendedBudget != 500 {
		t.Fatalf("want even split, got %+v", result.Allocations)
	}
}

func TestAllocate_TenCampaignsHitFloorExactly(t *testing.T) {
	var perfs []models.CampaignPerformance
	var ids []string
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		ids = append(ids, id)
		perfs = append(perfs, perf(id, float64(i+1), 10, 10, nil))
	}

	result, err := Allocate(request(1000, ids...), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for _, alloc := range result.Allocations {
		if alloc.RecommendedBudget != 100 {
			t.Fatalf("with ten campaigns every share is the floor, got %f for %s",
				alloc.RecommendedBudget, alloc.CampaignID)
		}
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("ten campaigns still fit the floor, warnings %v", result.Warnings)
	}
}

func TestAllocate_ElevenCampaignsFallBackToEqual(t *testing.T) {
	var perfs []models.CampaignPerformance
	var ids []string
	for i := 0; i < 11; i++ {
		id := string(rune('a' + i))
		ids = append(ids, id)
		perfs = append(perfs, perf(id, float64(i+1), 10, 10, nil))
	}

	result, err := Allocate(request(1100, ids...), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected the equal-allocation warning, got %v", result.Warnings)
	}
	for _, alloc := range result.Allocations {
		if alloc.RecommendedBudget != 100 {
			t.Fatalf("want equal 100 shares, got %f for %s", alloc.RecommendedBudget, alloc.CampaignID)
		}
	}
}

func TestAllocate_BudgetRoundTrip(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 3.7, 12.31, 101, nil),
		perf("b", 1.2, 44.09, 17, nil),
		perf("c", 0.4, 98.5, 3, nil),
	}

	result, err := Allocate(request(5000, "a", "b", "c"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	var total float64
	for _, alloc := range result.Allocations {
		total += alloc.RecommendedBudget
	}
	// Per-allocation rounding keeps the sum within a cent per campaign.
	if math.Abs(total-5000) > 0.01*float64(len(perfs)) {
		t.Fatalf("allocations sum %f too far from total 5000", total)
	}
}

func TestAllocate_UnknownBudgetSkipsChange(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("known", 2, 10, 20, budgetOf(0)),
		perf("unknown", 2, 10, 20, nil),
	}

	result, err := Allocate(request(1000, "known", "unknown"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	known := result.Allocations[0]
	if known.Change == nil || *known.Change != known.RecommendedBudget {
		t.Fatalf("change against a zero budget is the full amount, got %v", known.Change)
	}
	if known.ChangePct == nil || *known.ChangePct != 0 {
		t.Fatalf("change pct against a zero budget is 0, not nil, got %v", known.ChangePct)
	}

	unknown := result.Allocations[1]
	if unknown.Change != nil || unknown.ChangePct != nil {
		t.Fatalf("unknown budget must leave change fields nil, got %+v", unknown)
	}

	// Only the known-budget increase counts toward the summary.
	if result.Summary.BudgetIncreases != 1 || result.Summary.BudgetDecreases != 0 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
}

func TestAllocate_Idempotent(t *testing.T) {
	perfs := []models.CampaignPerformance{
		perf("a", 4, 10, 100, budgetOf(500)),
		perf("b", 1, 25, 20, budgetOf(500)),
	}

	first, err := Allocate(request(1000, "a", "b"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	second, err := Allocate(request(1000, "a", "b"), perfs)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	for i := range first.Allocations {
		if first.Allocations[i].RecommendedBudget != second.Allocations[i].RecommendedBudget {
			t.Fatalf("allocation must be deterministic: %+v vs %+v",
				first.Allocations[i], second.Allocations[i])
		}
	}
}
