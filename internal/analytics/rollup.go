package analytics

import (
	"sort"

	"github.com/Eusa190/FIXITY-CRI/internal/cri"
	"github.com/Eusa190/FIXITY-CRI/internal/models"
)

type blockAccumulator struct {
	total     float64
	openCount int
	anchor    *models.Issue
}

// RollupBlocks группирует обращения района по блокам.
// Учитываются обращения в любом статусе: закрытые имеют нулевой балл и в сумму не вкладываются,
// а в issue_count попадают только открытые.
func (a *Aggregator) RollupBlocks(issues []*models.Issue) []models.BlockRisk {
	blocks := make(map[string]*blockAccumulator)
	for _, issue := range issues {
		acc, ok := blocks[issue.Block]
		if !ok {
			acc = &blockAccumulator{}
			blocks[issue.Block] = acc
		}
		acc.total += issue.SeverityScore
		if !issue.IsResolved() {
			acc.openCount++
		}
		if issue.Latitude != nil && issue.Longitude != nil {
			if acc.anchor == nil || issue.CreatedAt.Before(acc.anchor.CreatedAt) {
				acc.anchor = issue
			}
		}
	}

	result := make([]models.BlockRisk, 0, len(blocks))
	for name, acc := range blocks {
		risk := models.BlockRisk{
			Block:      name,
			CRI:        round1(acc.total),
			Color:      cri.BandColor(acc.total),
			IssueCount: acc.openCount,
		}
		if acc.anchor != nil {
			risk.Latitude = acc.anchor.Latitude
			risk.Longitude = acc.anchor.Longitude
		}
		result = append(result, risk)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Block < result[j].Block
	})
	return result
}

// ZeroBlocks возвращает известные блоки с нулевым риском.
// Используется, когда в районе еще нет ни одного обращения.
func ZeroBlocks(blocks []string) []models.BlockRisk {
	result := make([]models.BlockRisk, 0, len(blocks))
	for _, block := range blocks {
		result = append(result, models.BlockRisk{
			Block: block,
			CRI:   0,
			Color: cri.ColorGreen,
		})
	}
	return result
}
