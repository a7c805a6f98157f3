package analytics

import (
	"fmt"
	"math"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// MaxCRI - верхняя граница индекса
const MaxCRI = 100

// CRIScore возвращает min(100, floor(сумма баллов))
func CRIScore(issues []*models.Issue) int {
	return int(math.Min(MaxCRI, math.Floor(sumScores(issues))))
}

// Summary собирает верхнюю строку аналитики.
// scoped - все обращения области сводки, highRiskPool - набор для подсчета high_risk_count.
func (a *Aggregator) Summary(scoped, highRiskPool []*models.Issue) models.Summary {
	return models.Summary{
		CRIScore:      CRIScore(openIssues(scoped)),
		HighRiskCount: a.HighRiskCount(highRiskPool),
		AvgResolution: AverageResolution(scoped),
		RepeatRate:    RepeatRate(scoped),
	}
}

// HighRiskCount считает открытые обращения с баллом выше порога
func (a *Aggregator) HighRiskCount(issues []*models.Issue) int {
	count := 0
	for _, issue := range issues {
		if !issue.IsResolved() && issue.SeverityScore > a.settings.HighRiskThreshold {
			count++
		}
	}
	return count
}

// AverageResolution возвращает среднее время закрытия в читаемом виде или "N/A"
func AverageResolution(issues []*models.Issue) string {
	var total float64
	count := 0
	for _, issue := range issues {
		if !issue.IsResolved() || issue.ResolvedAt == nil {
			continue
		}
		total += issue.ResolvedAt.Sub(issue.CreatedAt).Seconds()
		count++
	}
	if count == 0 {
		return "N/A"
	}
	return formatDuration(total / float64(count))
}

// RepeatRate возвращает долю повторных жалоб по парам (блок, категория)
func RepeatRate(issues []*models.Issue) string {
	if len(issues) == 0 {
		return "0%"
	}

	type pair struct{ block, category string }
	unique := make(map[pair]struct{})
	for _, issue := range issues {
		unique[pair{issue.Block, issue.Category}] = struct{}{}
	}

	rate := (1 - float64(len(unique))/float64(len(issues))) * 100
	return fmt.Sprintf("%d%%", int(math.Max(0, rate)))
}

func formatDuration(seconds float64) string {
	switch {
	case seconds < 3600:
		return fmt.Sprintf("%d mins", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	default:
		return fmt.Sprintf("%.1f days", seconds/86400)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
