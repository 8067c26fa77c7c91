package analytics

import (
	"fmt"

	"github.com/openbudget/adpilot/internal/models"
)

// Compare ranks campaigns against each other by ROAS. Entries must be in
// request order; ties resolve to the first-seen entry. Campaigns with zero
// ROAS (or without usable data) are excluded from the ranking entirely, not
// ranked last.
func Compare(entries []models.CampaignComparison) models.ComparisonResult {
	result := models.ComparisonResult{Campaigns: entries}

	bestIdx, worstIdx := -1, -1
	for i, e := range entries {
		if e.Status != models.StatusOK || e.Metrics.ROAS <= 0 {
			continue
		}
		if bestIdx < 0 || e.Metrics.ROAS > entries[bestIdx].Metrics.ROAS {
			bestIdx = i
		}
		if worstIdx < 0 || e.Metrics.ROAS < entries[worstIdx].Metrics.ROAS {
			worstIdx = i
		}
	}

	if bestIdx < 0 || worstIdx < 0 {
		result.Recommendation = "Insufficient data for recommendation"
		return result
	}

	result.BestPerformer = entries[bestIdx].CampaignID
	result.WorstPerformer = entries[worstIdx].CampaignID
	result.Recommendation = fmt.Sprintf("Consider reallocating budget from %s to %s",
		result.WorstPerformer, result.BestPerformer)
	return result
}

// Group names one campaign group and the aggregate windows of its members.
// Name keys the rollup in the result; Label is the human-readable name used
// in the recommendation text and defaults to Name when empty. Windows without
// the ok status are excluded from the group means but still counted.
type Group struct {
	Name    string
	Label   string
	Windows []models.AggregateWindow
}

// CompareGroups rolls up each group's mean ROAS and CPA and recommends
// directing budget toward the group with the higher mean ROAS. Groups are
// evaluated in input order; an exact tie keeps the current allocation.
func CompareGroups(groups []Group) models.GroupComparison {
	rollups := make(map[string]models.GroupRollup, len(groups))

	bestIdx := -1
	var bestROAS float64
	tied := false
	for i, g := range groups {
		var roasSum, cpaSum float64
		usable := 0
		for _, w := range g.Windows {
			if w.Status == models.StatusOK {
				roasSum += w.Metrics.ROAS
				cpaSum += w.Metrics.AvgCPA
				usable++
			}
		}
		rollup := models.GroupRollup{Campaigns: len(g.Windows)}
		if usable > 0 {
			rollup.AvgROAS = models.Round2(roasSum / float64(usable))
			rollup.AvgCPA = models.Round2(cpaSum / float64(usable))
		}
		rollups[g.Name] = rollup

		switch {
		case bestIdx < 0 || rollup.AvgROAS > bestROAS:
			bestIdx = i
			bestROAS = rollup.AvgROAS
			tied = false
		case rollup.AvgROAS == bestROAS:
			tied = true
		}
	}

	rec := "Maintain current allocation"
	if bestIdx >= 0 && !tied && bestROAS > 0 {
		label := groups[bestIdx].Label
		if label == "" {
			label = groups[bestIdx].Name
		}
		rec = fmt.Sprintf("Allocate more budget to %s", label)
	}
	return models.GroupComparison{Groups: rollups, Recommendation: rec}
}
