package repository

import (
	"os"
	"testing"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := buildListQuery(models.IssueFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestBuildListQuery_AuthorityFilter(t *testing.T) {
	query, args := buildListQuery(models.IssueFilter{
		Block:    "Jatni",
		OpenOnly: true,
		OrderBy:  models.OrderByScoreDesc,
	})

	assert.Contains(t, query, "WHERE block = $1 AND status <> $2")
	assert.Contains(t, query, "ORDER BY severity_score DESC")
	assert.Equal(t, []any{"Jatni", models.StatusResolved}, args)
}

func TestBuildListQuery_Pagination(t *testing.T) {
	reporterID := uuid.New()
	query, args := buildListQuery(models.IssueFilter{
		District:   "Khordha",
		ReporterID: &reporterID,
		Limit:      50,
		Offset:     100,
	})

	assert.Contains(t, query, "WHERE district = $1 AND reporter_id = $2")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4;")
	assert.Equal(t, []any{"Khordha", reporterID, 50, 100}, args)
}

func TestIssueCacheKey(t *testing.T) {
	id := uuid.MustParse("6f1c1e0e-2d0a-4a8e-9a55-0d6b3c1e8f11")

	assert.Equal(t, "issue:6f1c1e0e-2d0a-4a8e-9a55-0d6b3c1e8f11", issueCacheKey(id))
}

func TestUpdateStatusQuery_KeepsResolvedAt(t *testing.T) {
	// Уже выставленное время закрытия сохраняется при любом последующем обновлении
	assert.Contains(t, updateStatusQuery, "resolved_at = COALESCE(resolved_at, $3)")
	assert.NotContains(t, updateStatusQuery, "resolved_at = $3")
	// Модель получает значение из БД, а не из памяти
	assert.Contains(t, updateStatusQuery, "RETURNING resolved_at, updated_at")
}

func TestInitMigration_ResolvedIssuesHaveZeroScore(t *testing.T) {
	data, err := os.ReadFile("../../migrations/000001_init.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(data), "CHECK (status <> 'Resolved' OR severity_score = 0)")
}
