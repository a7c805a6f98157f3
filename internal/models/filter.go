package models

import "github.com/google/uuid"

// IssueOrder - порядок сортировки выборки
type IssueOrder int

const (
	OrderByCreatedDesc IssueOrder = iota
	OrderByScoreDesc
)

// IssueFilter - условия выборки обращений. Пустые поля не ограничивают выборку.
type IssueFilter struct {
	District   string
	Block      string
	ReporterID *uuid.UUID
	OpenOnly   bool
	OrderBy    IssueOrder
	Limit      int
	Offset     int
}
