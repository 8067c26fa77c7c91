package models

// Analysis statuses. StatusInsufficientData and StatusStoreUnavailable are
// typed results, never faults: callers must not treat either as a zero-valued
// success, and the two remain distinguishable so that store outages do not
// silently masquerade as missing data.
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient_data"
	StatusStoreUnavailable = "store_unavailable"
)

// TrendLabel classifies the direction of one tracked signal.
type TrendLabel string

const (
	TrendImproving TrendLabel = "improving"
	TrendDeclining TrendLabel = "declining"
	TrendStable    TrendLabel = "stable"
)

// Signal names a tracked per-snapshot metric the trend classifier operates on.
type Signal string

const (
	SignalCTR Signal = "ctr"
	SignalCPA Signal = "cpa"
)

// IssueKind tags a detected performance problem. Issue detection emits tagged
// kinds so downstream consumers dispatch on the tag, not on substrings of the
// human-readable description.
type IssueKind string

const (
	IssueLowCTR            IssueKind = "low_ctr"
	IssueLowConversionRate IssueKind = "low_conversion_rate"
	IssueAdFatigue         IssueKind = "ad_fatigue"
	IssueEfficiencyDrop    IssueKind = "efficiency_drop"
)

// Description returns the human-readable explanation for an issue kind.
func (k IssueKind) Description() string {
	switch k {
	case IssueLowCTR:
		return "Low CTR - consider improving ad copy or targeting"
	case IssueLowConversionRate:
		return "Low conversion rate - review landing page and offer"
	case IssueAdFatigue:
		return "CTR declining - possible ad fatigue"
	case IssueEfficiencyDrop:
		return "CPA increasing - efficiency dropping"
	default:
		return string(k)
	}
}

// Issue pairs a tagged kind with its description for API responses.
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Description string    `json:"description"`
}

// Health classifies overall campaign condition by issue count.
type Health string

const (
	HealthGood           Health = "good"
	HealthNeedsAttention Health = "needs_attention"
	HealthCritical       Health = "critical"
)

// AggregateMetrics holds summed totals and the derived averages computed from
// those totals (never averages of per-snapshot averages). Counts are rounded
// to whole numbers, currency and ratio fields to two decimals.
type AggregateMetrics struct {
	TotalImpressions  float64 `json:"totalImpressions"`
	TotalClicks       float64 `json:"totalClicks"`
	TotalConversions  float64 `json:"totalConversions"`
	TotalCost         float64 `json:"totalCost"`
	AvgCTR            float64 `json:"avgCTR"`
	AvgCPC            float64 `json:"avgCPC"`
	AvgConversionRate float64 `json:"avgConversionRate"`
	AvgCPA            float64 `json:"avgCPA"`
	ROAS              float64 `json:"roas"`
}

// AggregateWindow is the result of reducing a campaign's snapshots over a
// time window. When no snapshots fall inside the window, Status is
// StatusInsufficientData and Metrics carries no meaning.
type AggregateWindow struct {
	CampaignID string           `json:"campaignId"`
	Status     string           `json:"status"`
	Message    string           `json:"message,omitempty"`
	PeriodDays int              `json:"periodDays"`
	DataPoints int              `json:"dataPoints"`
	Metrics    AggregateMetrics `json:"aggregateMetrics"`
}

// Trends holds the classified direction of each tracked signal.
type Trends struct {
	CTR TrendLabel `json:"ctr"`
	CPA TrendLabel `json:"cpa"`
}

// PerformanceAnalysis is the full analysis product for one campaign: the
// aggregate window plus trend labels, detected issues, and overall health.
type PerformanceAnalysis struct {
	CampaignID    string           `json:"campaignId"`
	Status        string           `json:"status"`
	Message       string           `json:"message,omitempty"`
	Period        string           `json:"period,omitempty"`
	DataPoints    int              `json:"dataPoints"`
	Aggregate     AggregateMetrics `json:"aggregateMetrics"`
	Trends        Trends           `json:"trends"`
	Issues        []Issue          `json:"issues"`
	OverallHealth Health           `json:"overallHealth,omitempty"`
}

// Recommendation priorities and action tokens. The literal strings are part
// of the consumer-facing contract and must not change.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

const (
	ActionImproveAdCopy       = "improve_ad_copy"
	ActionOptimizeLandingPage = "optimize_landing_page"
	ActionRefreshCreatives    = "refresh_creatives"
	ActionAdjustTargeting     = "adjust_targeting"
	ActionIncreaseBudget      = "increase_budget"
	ActionReduceBudget        = "reduce_budget"
)

// Recommendation is one prioritized advisory action. Recommendations are
// generated, never stored; list order follows generation order and is part of
// the contract.
type Recommendation struct {
	Priority       string `json:"priority"`
	Action         string `json:"action"`
	Description    string `json:"description"`
	ExpectedImpact string `json:"expectedImpact"`
}

// RecommendationReport wraps the ordered recommendation list for one campaign.
type RecommendationReport struct {
	CampaignID           string           `json:"campaignId"`
	Recommendations      []Recommendation `json:"recommendations"`
	TotalRecommendations int              `json:"totalRecommendations"`
	HighPriority         int              `json:"highPriority"`
}

// DetectedTrend is one entry in a trend-detection report.
type DetectedTrend struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// Anomaly flags a metric that crossed an alerting threshold.
type Anomaly struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

// Predictions carries forward-looking estimates derived from current metrics.
type Predictions struct {
	NextWeekROAS *float64 `json:"nextWeekROAS,omitempty"`
	Confidence   string   `json:"confidence,omitempty"`
}

// TrendReport is the product of trend detection over a two-week window.
type TrendReport struct {
	CampaignID     string          `json:"campaignId"`
	Status         string          `json:"status,omitempty"`
	DetectedTrends []DetectedTrend `json:"detectedTrends"`
	Anomalies      []Anomaly       `json:"anomalies"`
	Predictions    Predictions     `json:"predictions"`
}
