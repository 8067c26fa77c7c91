package analytics

import "github.com/openbudget/adpilot/internal/models"

// ClassifyTrend labels the direction of one signal over an ordered snapshot
// sequence by comparing the mean of the most recent snapshots against the
// mean of the oldest ones.
//
// The recent window is the last min(3, len) snapshots. The older window is
// the first 3 when at least 6 snapshots exist, otherwise the first half of
// the sequence (floor division). For cpa, zero values are filtered out before
// averaging: a zero cpa means no conversions, not a free acquisition. When a
// window ends up empty the trend is undefined and reported as stable.
//
// Note the inverted comparator for cpa: a falling cpa is an improvement.
func ClassifyTrend(snaps []models.MetricSnapshot, signal models.Signal) models.TrendLabel {
	if len(snaps) == 0 {
		return models.TrendStable
	}

	recentCount := len(snaps)
	if recentCount > 3 {
		recentCount = 3
	}
	recent := signalValues(snaps[len(snaps)-recentCount:], signal)

	var older []float64
	if len(snaps) >= 6 {
		older = signalValues(snaps[:3], signal)
	} else {
		older = signalValues(snaps[:len(snaps)/2], signal)
	}

	if signal == models.SignalCPA {
		recent = dropZeros(recent)
		older = dropZeros(older)
	}
	if len(recent) == 0 || len(older) == 0 {
		return models.TrendStable
	}

	recentMean := mean(recent)
	olderMean := mean(older)

	switch signal {
	case models.SignalCPA:
		// Lower cost per acquisition is better.
		switch {
		case recentMean < olderMean:
			return models.TrendImproving
		case recentMean > olderMean:
			return models.TrendDeclining
		}
	default:
		switch {
		case recentMean > olderMean:
			return models.TrendImproving
		case recentMean < olderMean:
			return models.TrendDeclining
		}
	}
	return models.TrendStable
}

// ClassifyTrends labels both tracked signals over the same sequence.
func ClassifyTrends(snaps []models.MetricSnapshot) models.Trends {
	return models.Trends{
		CTR: ClassifyTrend(snaps, models.SignalCTR),
		CPA: ClassifyTrend(snaps, models.SignalCPA),
	}
}

// signalValues derives the per-snapshot value of one signal.
func signalValues(snaps []models.MetricSnapshot, signal models.Signal) []float64 {
	out := make([]float64, 0, len(snaps))
	for _, s := range snaps {
		switch signal {
		case models.SignalCPA:
			out = append(out, models.Ratio(s.Cost, s.Conversions))
		default:
			out = append(out, models.Ratio(s.Clicks, s.Impressions)*100)
		}
	}
	return out
}

func dropZeros(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
