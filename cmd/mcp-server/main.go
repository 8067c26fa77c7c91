package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/openbudget/adpilot/internal/allocation"
	"github.com/openbudget/adpilot/internal/analytics"
	"github.com/openbudget/adpilot/internal/db"
	"github.com/openbudget/adpilot/internal/metricstore"
	"github.com/openbudget/adpilot/internal/models"
	"github.com/openbudget/adpilot/internal/observability"
	"go.uber.org/zap"
)

type AnalyzeCampaignInput struct {
	CampaignID string `json:"campaign_id"`
	Days       int    `json:"days,omitempty"`
}

type AnalyzeCampaignOutput struct {
	Analysis models.PerformanceAnalysis `json:"analysis"`
}

type GetRecommendationsInput struct {
	CampaignID string `json:"campaign_id"`
}

type GetRecommendationsOutput struct {
	Report models.RecommendationReport `json:"report"`
}

type OptimizeBudgetInput struct {
	TotalBudget float64  `json:"total_budget"`
	CampaignIDs []string `json:"campaign_ids"`
	Goal        string   `json:"goal,omitempty"`
}

type OptimizeBudgetOutput struct {
	Result models.AllocationResult `json:"result"`
}

type SimulateScenariosInput struct {
	Scenarios []models.Scenario `json:"scenarios"`
}

type SimulateScenariosOutput struct {
	Result models.SimulationResult `json:"result"`
}

// AnalyticsServer holds the tool dependencies.
type AnalyticsServer struct {
	analyzer *analytics.Analyzer
	engine   *allocation.Engine
	logger   *zap.Logger
}

// AnalyzeCampaign implements the analyze_campaign tool.
func (s *AnalyticsServer) AnalyzeCampaign(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeCampaignInput) (*mcp.CallToolResult, AnalyzeCampaignOutput, error) {
	if input.CampaignID == "" {
		return nil, AnalyzeCampaignOutput{}, fmt.Errorf("campaign_id is required")
	}
	days := input.Days
	if days <= 0 {
		days = 7
	}
	analysis := s.analyzer.AnalyzeCampaign(ctx, input.CampaignID, days)
	return nil, AnalyzeCampaignOutput{Analysis: analysis}, nil
}

// GetRecommendations implements the get_recommendations tool.
func (s *AnalyticsServer) GetRecommendations(ctx context.Context, req *mcp.CallToolRequest, input GetRecommendationsInput) (*mcp.CallToolResult, GetRecommendationsOutput, error) {
	if input.CampaignID == "" {
		return nil, GetRecommendationsOutput{}, fmt.Errorf("campaign_id is required")
	}
	report := s.analyzer.RecommendationsFor(ctx, input.CampaignID)
	return nil, GetRecommendationsOutput{Report: report}, nil
}

// OptimizeBudget implements the optimize_budget tool.
func (s *AnalyticsServer) OptimizeBudget(ctx context.Context, req *mcp.CallToolRequest, input OptimizeBudgetInput) (*mcp.CallToolResult, OptimizeBudgetOutput, error) {
	result, err := s.engine.Optimize(ctx, models.AllocationRequest{
		TotalBudget: input.TotalBudget,
		CampaignIDs: input.CampaignIDs,
		Goal:        models.Goal(input.Goal),
	})
	if err != nil {
		return nil, OptimizeBudgetOutput{}, fmt.Errorf("optimize budget: %w", err)
	}
	return nil, OptimizeBudgetOutput{Result: result}, nil
}

// SimulateScenarios implements the simulate_scenarios tool.
func (s *AnalyticsServer) SimulateScenarios(ctx context.Context, req *mcp.CallToolRequest, input SimulateScenariosInput) (*mcp.CallToolResult, SimulateScenariosOutput, error) {
	if len(input.Scenarios) == 0 {
		return nil, SimulateScenariosOutput{}, fmt.Errorf("at least one scenario is required")
	}
	result, err := s.engine.SimulateScenarios(ctx, input.Scenarios)
	if err != nil {
		return nil, SimulateScenariosOutput{}, fmt.Errorf("simulate scenarios: %w", err)
	}
	return nil, SimulateScenariosOutput{Result: result}, nil
}

func main() {
	// Logger writes to stderr so it cannot corrupt the stdio transport.
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger = logger.Named("adpilot-mcp").With(zap.String("service", "adpilot-mcp"))

	logger.Info("Starting AdPilot MCP Server")

	postgresDSN := os.Getenv("POSTGRES_DSN")
	if postgresDSN == "" {
		logger.Fatal("POSTGRES_DSN environment variable is required")
	}

	pg, err := db.InitPostgres(postgresDSN, 10, 5, 30*time.Minute, 5*time.Minute)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()
	logger.Info("Connected to PostgreSQL")

	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	if clickhouseDSN == "" {
		clickhouseDSN = "clickhouse://default:@localhost:9000/default"
	}

	store, err := metricstore.InitClickHouse(clickhouseDSN, 25, 90)
	if err != nil {
		logger.Fatal("Failed to connect to ClickHouse", zap.Error(err))
	}
	defer store.Close()

	var cache *db.RedisCache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		cache, err = db.InitRedis(redisAddr, 5*time.Minute)
		if err != nil {
			logger.Warn("Redis unavailable, latest-snapshot cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	metrics := observability.NewNoOpRegistry()

	resolver := &db.PerformanceResolver{
		Cache:   cache,
		Store:   store,
		PG:      pg,
		Logger:  logger,
		Metrics: metrics,
	}

	analyticsServer := &AnalyticsServer{
		analyzer: analytics.NewAnalyzer(store, logger, metrics, 10*time.Second),
		engine:   allocation.NewEngine(resolver, resolver, logger, metrics, 10*time.Second),
		logger:   logger,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "adpilot",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_campaign",
		Description: "Analyze a campaign's recent performance: aggregate metrics, trends, issues and health",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"campaign_id": map[string]interface{}{
					"type":        "string",
					"description": "Campaign ID to analyze",
				},
				"days": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Analysis window in days (optional, defaults to 7)",
				},
			},
			"required": []string{"campaign_id"},
		},
	}, analyticsServer.AnalyzeCampaign)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Get optimization recommendations for a campaign based on its recent performance",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"campaign_id": map[string]interface{}{
					"type":        "string",
					"description": "Campaign ID to get recommendations for",
				},
			},
			"required": []string{"campaign_id"},
		},
	}, analyticsServer.GetRecommendations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "optimize_budget",
		Description: "Split a total budget across campaigns weighted by their performance",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"total_budget": map[string]interface{}{
					"type":        "number",
					"description": "Total budget to allocate",
				},
				"campaign_ids": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Campaign IDs to allocate across",
				},
				"goal": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"maximize_roas", "minimize_cpa", "maximize_conversions"},
					"description": "Optimization goal (optional, defaults to maximize_roas)",
				},
			},
			"required": []string{"total_budget", "campaign_ids"},
		},
	}, analyticsServer.OptimizeBudget)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "simulate_scenarios",
		Description: "Project expected outcomes for hypothetical budget allocations and pick the best scenario",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"scenarios": map[string]interface{}{
					"type":        "array",
					"description": "Scenarios to simulate",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":        map[string]interface{}{"type": "string"},
							"totalBudget": map[string]interface{}{"type": "number"},
							"allocations": map[string]interface{}{
								"type":                 "object",
								"additionalProperties": map[string]interface{}{"type": "number"},
								"description":          "Campaign ID to budget amount",
							},
						},
						"required": []string{"name", "allocations"},
					},
				},
			},
			"required": []string{"scenarios"},
		},
	}, analyticsServer.SimulateScenarios)

	stdioTransport := &mcp.StdioTransport{}

	var logBuffer bytes.Buffer
	loggingTransport := &mcp.LoggingTransport{
		Transport: stdioTransport,
		Writer:    &logBuffer,
	}

	logger.Info("MCP Server running via stdio")

	if err := server.Run(context.Background(), loggingTransport); err != nil {
		logger.Fatal("Server error", zap.Error(err), zap.String("mcp_logs", logBuffer.String()))
	}
}
