package cri

import (
	"testing"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestScorer() *Scorer {
	return NewScorer(DefaultTables(), WithClock(func() time.Time { return testNow }))
}

func TestComputeRisk_PotholeHighSchool(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryPothole,
		SeverityLevel:   models.SeverityHigh,
		LocationContext: models.ContextSchool,
		CreatedAt:       testNow.Add(-10 * time.Hour),
	}

	score := scorer.ComputeRisk(issue, 1.0)

	// 5 * 1.7 * 1.5 = 12.75; ln(11) * 2 ≈ 4.796
	assert.Equal(t, 17.55, score)
}

func TestComputeRisk_UnknownCategoryFallsBackToDefaultBase(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        "Flooding",
		SeverityLevel:   models.SeverityHigh,
		LocationContext: models.ContextSchool,
		CreatedAt:       testNow.Add(-10 * time.Hour),
	}

	score := scorer.ComputeRisk(issue, 1.0)

	// 4 * 1.7 * 1.5 = 10.2
	assert.Equal(t, 15.0, score)
}

func TestComputeRisk_UnknownSeverityAndContext(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryWaterLeakage,
		SeverityLevel:   "catastrophic",
		LocationContext: "airport",
		CreatedAt:       testNow,
	}

	// 6 * 1.0 * 1.0, без временной составляющей
	assert.Equal(t, 6.0, scorer.ComputeRisk(issue, 1.0))
}

func TestComputeRisk_ZeroCreatedAt(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryGarbage,
		SeverityLevel:   models.SeverityMedium,
		LocationContext: models.ContextResidential,
	}

	// 3 * 1.3 * 1.1 = 4.29
	assert.Equal(t, 4.29, scorer.ComputeRisk(issue, 1.0))
}

func TestComputeRisk_CreatedInFuture(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryTrafficViolation,
		SeverityLevel:   models.SeverityLow,
		LocationContext: models.ContextOther,
		CreatedAt:       testNow.Add(5 * time.Hour),
	}

	assert.Equal(t, 2.0, scorer.ComputeRisk(issue, 1.0))
}

func TestComputeRisk_MonotonicInElapsedTime(t *testing.T) {
	scorer := newTestScorer()
	categories := []string{models.CategoryPothole, models.CategoryWaterLeakage, models.CategoryGarbage, models.CategoryTrafficViolation, models.CategoryStrayAnimals, "Unknown"}
	severities := []string{models.SeverityLow, models.SeverityMedium, models.SeverityHigh, ""}
	contexts := []string{models.ContextSchool, models.ContextHospital, models.ContextHighway, models.ContextResidential, models.ContextCommercial, models.ContextOther}
	ages := []time.Duration{0, time.Minute, time.Hour, 6 * time.Hour, 24 * time.Hour, 7 * 24 * time.Hour, 365 * 24 * time.Hour}

	for _, category := range categories {
		for _, severity := range severities {
			for _, context := range contexts {
				previous := -1.0
				for _, age := range ages {
					issue := &models.Issue{
						Category:        category,
						SeverityLevel:   severity,
						LocationContext: context,
						CreatedAt:       testNow.Add(-age),
					}
					score := scorer.ComputeRisk(issue, 1.0)
					assert.GreaterOrEqual(t, score, 0.0)
					assert.GreaterOrEqual(t, score, previous, "%s/%s/%s at %s", category, severity, context, age)
					previous = score
				}
			}
		}
	}
}

func TestComputeRisk_LinearInTrust(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryWaterLeakage,
		SeverityLevel:   models.SeverityHigh,
		LocationContext: models.ContextHospital,
		CreatedAt:       testNow.Add(-72 * time.Hour),
	}

	base := scorer.ComputeRisk(issue, 1.0)
	for _, trust := range []float64{0, 0.25, 0.5, 1.5, 2} {
		// Результат округляется до сотых, поэтому сравниваем с точностью округления
		assert.InDelta(t, trust*base, scorer.ComputeRisk(issue, trust), 0.01, "trust %v", trust)
	}
	assert.Equal(t, 0.0, scorer.ComputeRisk(issue, 0))
}

func TestComputeRisk_DoesNotMutateIssue(t *testing.T) {
	scorer := newTestScorer()
	issue := &models.Issue{
		Category:        models.CategoryPothole,
		SeverityLevel:   models.SeverityHigh,
		LocationContext: models.ContextSchool,
		Status:          models.StatusPending,
		SeverityScore:   3.5,
		CreatedAt:       testNow.Add(-time.Hour),
	}
	before := *issue

	scorer.ComputeRisk(issue, 1.0)

	assert.Equal(t, before, *issue)
}

func TestNewScorer_TablesAreCopied(t *testing.T) {
	tables := DefaultTables()
	scorer := NewScorer(tables, WithClock(func() time.Time { return testNow }))
	tables.BaseRisk[models.CategoryPothole] = 100

	issue := &models.Issue{Category: models.CategoryPothole, SeverityLevel: models.SeverityLow, LocationContext: models.ContextOther}

	assert.Equal(t, 5.0, scorer.ComputeRisk(issue, 1.0))
}

func TestBandColor(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{0, ColorGreen},
		{49.99, ColorGreen},
		{50, ColorOrange},
		{79.9, ColorOrange},
		{80, ColorRed},
		{85, ColorRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandColor(tt.total), "total %v", tt.total)
	}
}
