package analytics

import (
	"math"
	"sort"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// Escalation - обращение, чей балл изменился при пересчете
type Escalation struct {
	Issue         *models.Issue
	PreviousScore float64
}

// CrossedHighRisk сообщает, перешло ли обращение порог высокого риска при этом пересчете
func (e Escalation) CrossedHighRisk(threshold float64) bool {
	return e.PreviousScore <= threshold && e.Issue.SeverityScore > threshold
}

// Escalate пересчитывает балл каждого открытого обращения с доверием 1.0.
// Обращения, у которых балл изменился больше чем на EscalationDelta, обновляются на месте
// и возвращаются вызывающему для сохранения.
func (a *Aggregator) Escalate(issues []*models.Issue) []Escalation {
	now := a.now()
	var changed []Escalation
	for _, issue := range issues {
		if issue.IsResolved() {
			continue
		}
		score := a.scorer.ComputeRiskAt(issue, models.DefaultTrustScore, now)
		if math.Abs(score-issue.SeverityScore) > a.settings.EscalationDelta {
			changed = append(changed, Escalation{Issue: issue, PreviousScore: issue.SeverityScore})
			issue.SeverityScore = score
		}
	}
	return changed
}

// SortByScore упорядочивает обращения по убыванию балла
func SortByScore(issues []*models.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].SeverityScore > issues[j].SeverityScore
	})
}

// ScoreUpdates преобразует результат эскалации в набор обновлений для хранилища
func ScoreUpdates(escalations []Escalation) []models.ScoreUpdate {
	updates := make([]models.ScoreUpdate, 0, len(escalations))
	for _, e := range escalations {
		updates = append(updates, models.ScoreUpdate{ID: e.Issue.ID, SeverityScore: e.Issue.SeverityScore})
	}
	return updates
}
