package analytics

import (
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// Trend восстанавливает CRI на конец каждого из последних дней (UTC), от старых к новым.
// Снимок строится по текущему состоянию обращений, а не по журналу изменений,
// поэтому исправленные задним числом баллы и статусы искажают прошлые значения.
func (a *Aggregator) Trend(issues []*models.Issue) models.Trend {
	days := a.settings.TrendDays
	if days < 1 {
		days = 1
	}

	now := a.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	trend := models.Trend{
		Labels: make([]string, 0, days),
		Values: make([]int, 0, days),
	}
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		endOfDay := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

		trend.Labels = append(trend.Labels, day.Format("Mon"))
		trend.Values = append(trend.Values, CRIScore(activeAt(issues, endOfDay)))
	}
	return trend
}

// activeAt отбирает обращения, открытые на момент t
func activeAt(issues []*models.Issue, t time.Time) []*models.Issue {
	active := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.CreatedAt.After(t) {
			continue
		}
		if issue.IsResolved() && (issue.ResolvedAt == nil || !issue.ResolvedAt.After(t)) {
			continue
		}
		active = append(active, issue)
	}
	return active
}
