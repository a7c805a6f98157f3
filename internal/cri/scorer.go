package cri

import (
	"math"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// Scorer вычисляет балл риска обращения.
// Не имеет побочных эффектов: входное обращение никогда не изменяется.
type Scorer struct {
	tables Tables
	now    func() time.Time
}

// Option настраивает Scorer
type Option func(*Scorer)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// NewScorer создает Scorer с заданными таблицами
func NewScorer(tables Tables, opts ...Option) *Scorer {
	s := &Scorer{
		tables: tables.clone(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeRisk вычисляет балл риска на текущий момент
func (s *Scorer) ComputeRisk(issue *models.Issue, trustScore float64) float64 {
	return s.ComputeRiskAt(issue, trustScore, s.now())
}

// ComputeRiskAt вычисляет балл риска на момент now.
//
//	static = base * severity * location
//	time   = ln(hours + 1) * 2
//	score  = round((static + time) * trust, 2)
func (s *Scorer) ComputeRiskAt(issue *models.Issue, trustScore float64, now time.Time) float64 {
	base := lookup(s.tables.BaseRisk, issue.Category, DefaultBaseRisk)
	severity := lookup(s.tables.SeverityMultiplier, issue.SeverityLevel, DefaultSeverityMultiplier)
	location := lookup(s.tables.LocationMultiplier, issue.LocationContext, DefaultLocationMultiplier)

	staticRisk := base * severity * location
	timeEscalation := math.Log(HoursUnresolved(issue.CreatedAt, now)+1) * 2

	return round2((staticRisk + timeEscalation) * trustScore)
}

// HoursUnresolved возвращает возраст обращения в часах, не меньше нуля.
// Нулевое время создания считается нулевым возрастом.
func HoursUnresolved(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	return math.Max(0, now.Sub(createdAt).Hours())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
