package analytics

import (
	"fmt"
	"sort"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

const dominantFallback = "General"

type hotspotAccumulator struct {
	block      string
	total      float64
	categories map[string]int
	oldest     *models.Issue
}

// Hotspots возвращает блоки с наибольшим суммарным открытым риском
func (a *Aggregator) Hotspots(issues []*models.Issue) []models.Hotspot {
	blocks := make(map[string]*hotspotAccumulator)
	for _, issue := range openIssues(issues) {
		acc, ok := blocks[issue.Block]
		if !ok {
			acc = &hotspotAccumulator{block: issue.Block, categories: make(map[string]int)}
			blocks[issue.Block] = acc
		}
		acc.total += issue.SeverityScore
		acc.categories[issue.Category]++
		if acc.oldest == nil || issue.CreatedAt.Before(acc.oldest.CreatedAt) {
			acc.oldest = issue
		}
	}

	ranked := make([]*hotspotAccumulator, 0, len(blocks))
	for _, acc := range blocks {
		ranked = append(ranked, acc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].block < ranked[j].block
	})
	if limit := a.settings.HotspotLimit; limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	now := a.now()
	hotspots := make([]models.Hotspot, 0, len(ranked))
	for _, acc := range ranked {
		duration := "0h"
		if acc.oldest != nil {
			duration = formatAge(now.Sub(acc.oldest.CreatedAt).Hours())
		}
		hotspots = append(hotspots, models.Hotspot{
			Area:         acc.block,
			CRI:          round1(acc.total),
			DominantRisk: dominantCategory(acc.categories),
			Duration:     duration,
		})
	}
	return hotspots
}

// dominantCategory выбирает самую частую категорию, при равенстве - первую по алфавиту
func dominantCategory(counts map[string]int) string {
	dominant := dominantFallback
	best := 0
	for category, count := range counts {
		if count > best || (count == best && category < dominant) {
			dominant = category
			best = count
		}
	}
	return dominant
}

// formatAge форматирует возраст как "Nd" или "Nh"
func formatAge(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	if days := int(hours / 24); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(hours))
}
