package analytics

import (
	"math"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

const (
	PillarPublicSafety   = "Public Safety"
	PillarPublicHealth   = "Public Health"
	PillarInfrastructure = "Infrastructure"
	PillarGovernance     = "Governance"
)

// pillarOrder - порядок направлений в ответе
var pillarOrder = []string{PillarPublicSafety, PillarPublicHealth, PillarInfrastructure, PillarGovernance}

// PillarMap сопоставляет категорию направлению. Все прочие категории относятся к Governance.
type PillarMap map[string]string

// DefaultPillars возвращает стандартное распределение категорий
func DefaultPillars() PillarMap {
	return PillarMap{
		models.CategoryPothole:          PillarInfrastructure,
		models.CategoryElectricity:      PillarInfrastructure,
		models.CategoryWaterLeakage:     PillarPublicHealth,
		models.CategoryGarbage:          PillarPublicHealth,
		models.CategoryTrafficViolation: PillarPublicSafety,
		models.CategoryStrayAnimals:     PillarPublicSafety,
	}
}

// PillarOf возвращает направление для категории
func (p PillarMap) PillarOf(category string) string {
	if pillar, ok := p[category]; ok {
		return pillar
	}
	return PillarGovernance
}

func (p PillarMap) clone() PillarMap {
	dst := make(PillarMap, len(p))
	for k, v := range p {
		dst[k] = v
	}
	return dst
}

// Pillars суммирует открытый риск по направлениям
func (a *Aggregator) Pillars(issues []*models.Issue) []models.PillarRisk {
	sums := make(map[string]float64, len(pillarOrder))
	for _, issue := range openIssues(issues) {
		sums[a.pillars.PillarOf(issue.Category)] += issue.SeverityScore
	}

	var total float64
	for _, name := range pillarOrder {
		total += sums[name]
	}
	total = math.Max(total, 1)

	result := make([]models.PillarRisk, 0, len(pillarOrder))
	for _, name := range pillarOrder {
		result = append(result, models.PillarRisk{
			Name:    name,
			Risk:    round1(sums[name]),
			Percent: int(math.Round(sums[name] / total * 100)),
		})
	}
	return result
}
