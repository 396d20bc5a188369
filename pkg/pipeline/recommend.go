package pipeline

import (
	"fmt"
	"sort"
)

// fieldIssueThreshold is the number of critical issues on one field
// above which the field itself becomes the recommendation target.
const fieldIssueThreshold = 5

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// buildRecommendations derives actionable followups from the aggregated
// results. The returned slice is ordered high to low priority; ordering
// within a priority follows rule evaluation order for determinism.
func buildRecommendations(overall Overall, results map[string]ValidatorResult, critical []CriticalIssue) []Recommendation {
	var recs []Recommendation

	if overall.TotalRecords > 0 && overall.SuccessRate < 70 {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "overall",
			Message:  fmt.Sprintf("overall success rate %.1f%% is below 70%%", overall.SuccessRate),
			Action:   "resolve the blocking issues before attempting the import",
		})
	}

	for _, model := range sortedModels(results) {
		res := results[model]
		if res.Stats.TotalRecords == 0 {
			continue
		}

		if float64(res.Stats.ErrorCount) > float64(res.Stats.TotalRecords)*0.10 {
			recs = append(recs, Recommendation{
				Priority: PriorityHigh,
				Category: model,
				Message: fmt.Sprintf("%s records carry %d errors across %d records",
					model, res.Stats.ErrorCount, res.Stats.TotalRecords),
				Action: fmt.Sprintf("audit the %s source extract for a systematic defect", model),
			})
		}

		if res.Stats.SuccessRate < 80 {
			recs = append(recs, Recommendation{
				Priority: PriorityMedium,
				Category: model,
				Message:  fmt.Sprintf("%s success rate %.1f%% is below 80%%", model, res.Stats.SuccessRate),
				Action:   "fix the invalid records or exclude them from the import",
			})
		}

		if res.Stats.WarningCount > res.Stats.TotalRecords {
			recs = append(recs, Recommendation{
				Priority: PriorityLow,
				Category: model,
				Message: fmt.Sprintf("%s averages more than one warning per record (%d warnings, %d records)",
					model, res.Stats.WarningCount, res.Stats.TotalRecords),
				Action: "the data will import, but schedule a cleanup pass",
			})
		}
	}

	for _, fc := range fieldHotspots(critical) {
		recs = append(recs, Recommendation{
			Priority: PriorityHigh,
			Category: "field:" + fc.field,
			Message:  fmt.Sprintf("field %q fails on %d records", fc.field, fc.count),
			Action:   "check the field mapping and extraction logic; this is likely systematic, not bad data",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	return recs
}

type fieldCount struct {
	field string
	count int
}

// fieldHotspots returns fields named by more than fieldIssueThreshold
// critical issues, most frequent first.
func fieldHotspots(critical []CriticalIssue) []fieldCount {
	counts := make(map[string]int)
	for _, issue := range critical {
		if issue.Field != "" {
			counts[issue.Field]++
		}
	}

	var out []fieldCount
	for field, n := range counts {
		if n > fieldIssueThreshold {
			out = append(out, fieldCount{field: field, count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].field < out[j].field
	})
	return out
}

func sortedModels(results map[string]ValidatorResult) []string {
	models := make([]string, 0, len(results))
	for m := range results {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
