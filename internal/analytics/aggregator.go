// Package analytics собирает сводные показатели CRI по загруженному набору обращений.
// Все функции работают над уже загруженными данными и не обращаются к хранилищу.
package analytics

import (
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/cri"
	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

// Settings - параметры агрегатора
type Settings struct {
	// EscalationDelta - минимальное изменение балла, при котором пересчет сохраняется
	EscalationDelta float64
	// HighRiskThreshold - балл, выше которого обращение считается высокорисковым
	HighRiskThreshold float64
	// ScopeHighRiskCount ограничивает high_risk_count областью сводки.
	// По умолчанию счетчик глобальный.
	ScopeHighRiskCount bool
	HotspotLimit       int
	TrendDays          int
}

// DefaultSettings возвращает стандартные параметры
func DefaultSettings() Settings {
	return Settings{
		EscalationDelta:   0.1,
		HighRiskThreshold: 70,
		HotspotLimit:      5,
		TrendDays:         7,
	}
}

// Aggregator строит сводки CRI и выполняет эскалацию при чтении
type Aggregator struct {
	scorer   *cri.Scorer
	pillars  PillarMap
	settings Settings
	now      func() time.Time
}

// Option настраивает Aggregator
type Option func(*Aggregator)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithPillars подменяет распределение категорий по направлениям
func WithPillars(pillars PillarMap) Option {
	return func(a *Aggregator) {
		a.pillars = pillars.clone()
	}
}

// NewAggregator создает агрегатор
func NewAggregator(scorer *cri.Scorer, settings Settings, opts ...Option) *Aggregator {
	a := &Aggregator{
		scorer:   scorer,
		pillars:  DefaultPillars(),
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Settings возвращает параметры агрегатора
func (a *Aggregator) Settings() Settings {
	return a.settings
}

// Build собирает полный пакет аналитики.
// scoped - все обращения области сводки (блок или весь набор), global - все обращения.
func (a *Aggregator) Build(scoped, global []*models.Issue) models.Analytics {
	highRiskPool := global
	if a.settings.ScopeHighRiskCount {
		highRiskPool = scoped
	}

	return models.Analytics{
		Summary:      a.Summary(scoped, highRiskPool),
		Pillars:      a.Pillars(scoped),
		Trend:        a.Trend(scoped),
		Hotspots:     a.Hotspots(global),
		Distribution: Distribution(global),
	}
}

// Distribution считает количество обращений по категориям без фильтрации
func Distribution(issues []*models.Issue) map[string]int {
	dist := make(map[string]int)
	for _, issue := range issues {
		dist[issue.Category]++
	}
	return dist
}

func openIssues(issues []*models.Issue) []*models.Issue {
	open := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.IsResolved() {
			open = append(open, issue)
		}
	}
	return open
}

func sumScores(issues []*models.Issue) float64 {
	var total float64
	for _, issue := range issues {
		total += issue.SeverityScore
	}
	return total
}
