package cri

import (
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// ApplyStatus переводит обращение в новый статус.
// Переходы не упорядочены: допускается любой статус из любого.
// При переходе в Resolved балл обнуляется, а resolved_at проставляется только один раз.
// Возвращает true, если обращение стало закрытым в результате этого вызова.
func ApplyStatus(issue *models.Issue, status models.IssueStatus, now time.Time) bool {
	wasResolved := issue.IsResolved()
	issue.Status = status

	if status != models.StatusResolved {
		return false
	}

	issue.SeverityScore = 0
	if issue.ResolvedAt == nil {
		resolvedAt := now
		issue.ResolvedAt = &resolvedAt
	}
	return !wasResolved
}
