package cri

import "github.com/Eusa190/FIXITY-CRI/internal/models"

// Значения по умолчанию для неизвестных ключей таблиц
const (
	DefaultBaseRisk           = 4.0
	DefaultSeverityMultiplier = 1.0
	DefaultLocationMultiplier = 1.0
)

// Пороги цветовой шкалы суммарного риска блока
const (
	RedThreshold    = 80.0
	OrangeThreshold = 50.0
)

const (
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorGreen  = "green"
)

// Tables - неизменяемые таблицы коэффициентов скоринга.
// Таблицы копируются при создании Scorer, поэтому изменение исходных карт после этого ни на что не влияет.
type Tables struct {
	BaseRisk           map[string]float64
	SeverityMultiplier map[string]float64
	LocationMultiplier map[string]float64
}

// DefaultTables возвращает стандартные коэффициенты CRI
func DefaultTables() Tables {
	return Tables{
		BaseRisk: map[string]float64{
			models.CategoryWaterLeakage:     6,
			models.CategoryPothole:          5,
			models.CategoryGarbage:          3,
			models.CategoryTrafficViolation: 2,
			models.CategoryOther:            4,
		},
		SeverityMultiplier: map[string]float64{
			models.SeverityLow:    1.0,
			models.SeverityMedium: 1.3,
			models.SeverityHigh:   1.7,
		},
		LocationMultiplier: map[string]float64{
			models.ContextSchool:      1.5,
			models.ContextHospital:    1.5,
			models.ContextHighway:     1.4,
			models.ContextResidential: 1.1,
			models.ContextCommercial:  1.2,
		},
	}
}

func (t Tables) clone() Tables {
	return Tables{
		BaseRisk:           cloneMap(t.BaseRisk),
		SeverityMultiplier: cloneMap(t.SeverityMultiplier),
		LocationMultiplier: cloneMap(t.LocationMultiplier),
	}
}

func cloneMap(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func lookup(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

// BandColor возвращает цвет блока по суммарному риску
func BandColor(totalRisk float64) string {
	switch {
	case totalRisk >= RedThreshold:
		return ColorRed
	case totalRisk >= OrangeThreshold:
		return ColorOrange
	default:
		return ColorGreen
	}
}
