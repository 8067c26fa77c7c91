package models

import "math"

// AOV is the fixed average order value used to convert conversions into
// estimated revenue.
const AOV = 50.0

// MetricSnapshot is one observation of raw delivery counters for a campaign
// at a single instant. Snapshots are produced by platform adapters, owned by
// the metrics store, and immutable once recorded; the analytics core only
// reads them.
type MetricSnapshot struct {
	CampaignID  string  `json:"campaignId"`
	Timestamp   int64   `json:"timestamp"` // epoch seconds
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Cost        float64 `json:"cost"`
}

// DerivedMetrics are ratios computed from raw counters. They are never stored
// as truth and are always recomputed from a snapshot or an aggregate.
type DerivedMetrics struct {
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	ConversionRate float64 `json:"conversionRate"`
	CPA            float64 `json:"cpa"`
	ROAS           float64 `json:"roas"`
}

// Derive computes the ratio metrics for a single snapshot. Ratios with a zero
// denominator are defined as 0.
func (s MetricSnapshot) Derive() DerivedMetrics {
	return DerivedMetrics{
		CTR:            Round2(Ratio(s.Clicks, s.Impressions) * 100),
		CPC:            Round2(Ratio(s.Cost, s.Clicks)),
		ConversionRate: Round2(Ratio(s.Conversions, s.Clicks) * 100),
		CPA:            Round2(Ratio(s.Cost, s.Conversions)),
		ROAS:           Round2(Ratio(s.Conversions*AOV, s.Cost)),
	}
}

// Ratio divides num by den, defining division by zero as 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Round2 rounds to two decimal places (currency and ratio fields).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place (percentage fields).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round0 rounds to the nearest whole number (count fields).
func Round0(v float64) float64 {
	return math.Round(v)
}
