package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/Eusa190/FIXITY-CRI/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const issueCacheTTL = 5 * time.Minute

const issueColumns = `
	id,
	reporter_id,
	title,
	description,
	category,
	severity_level,
	location_context,
	latitude,
	longitude,
	state,
	district,
	block,
	image_path,
	status,
	severity_score,
	created_at,
	resolved_at,
	updated_at`

type IssueRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIssueRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IssueRepository {
	return &IssueRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об обращении в бд
func (r *IssueRepository) Create(ctx context.Context, issue *models.Issue) error {
	query := `
		INSERT INTO issues (
			reporter_id, title, description, category, severity_level, location_context,
			latitude, longitude, state, district, block, image_path,
			status, severity_score, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		issue.ReporterID,
		issue.Title,
		issue.Description,
		issue.Category,
		issue.SeverityLevel,
		issue.LocationContext,
		issue.Latitude,
		issue.Longitude,
		issue.State,
		issue.District,
		issue.Block,
		issue.ImagePath,
		issue.Status,
		issue.SeverityScore,
		issue.CreatedAt,
	).Scan(&issue.ID, &issue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

// GetByID возвращает обращение по его UUID
func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	query := `SELECT` + issueColumns + ` FROM issues WHERE id = $1;`

	issue, err := scanIssue(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("issue with id %s: %w", id, service.ErrIssueNotFound)
		}
		return nil, fmt.Errorf("failed to get issue by id: %w", err)
	}
	return issue, nil
}

// updateStatusQuery не перезаписывает уже выставленное время закрытия
const updateStatusQuery = `
	UPDATE issues SET
		status = $1,
		severity_score = $2,
		resolved_at = COALESCE(resolved_at, $3),
		updated_at = NOW()
	WHERE id = $4
	RETURNING resolved_at, updated_at;
`

// UpdateStatus сохраняет статус, балл и время закрытия обращения.
// resolved_at в модели заменяется сохраненным значением.
func (r *IssueRepository) UpdateStatus(ctx context.Context, issue *models.Issue) error {
	err := r.db.QueryRow(ctx, updateStatusQuery,
		issue.Status,
		issue.SeverityScore,
		issue.ResolvedAt,
		issue.ID,
	).Scan(&issue.ResolvedAt, &issue.UpdatedAt)
	if err != nil {
		// Ни одна строка не обновлена, значит обращения с таким id не существует
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("issue with id %s: %w", issue.ID, service.ErrIssueNotFound)
		}
		return fmt.Errorf("failed to update issue status: %w", err)
	}
	return nil
}

// UpdateScores сохраняет пересчитанные баллы одним пакетом.
// Закрытые обращения не трогаются, даже если были закрыты после пересчета.
func (r *IssueRepository) UpdateScores(ctx context.Context, updates []models.ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query := `
		UPDATE issues SET
			severity_score = $1,
			updated_at = NOW()
		WHERE id = $2 AND status <> 'Resolved';
	`
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(query, u.SeverityScore, u.ID)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to update issue scores: %w", err)
		}
	}
	return nil
}

// ListIssues возвращает обращения по фильтру
func (r *IssueRepository) ListIssues(ctx context.Context, filter models.IssueFilter) ([]*models.Issue, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	issues := make([]*models.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return issues, nil
}

// buildListQuery собирает SELECT с условиями фильтра
func buildListQuery(filter models.IssueFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.District != "" {
		conditions = append(conditions, "district = "+arg(filter.District))
	}
	if filter.Block != "" {
		conditions = append(conditions, "block = "+arg(filter.Block))
	}
	if filter.ReporterID != nil {
		conditions = append(conditions, "reporter_id = "+arg(*filter.ReporterID))
	}
	if filter.OpenOnly {
		conditions = append(conditions, "status <> "+arg(models.StatusResolved))
	}

	var sb strings.Builder
	sb.WriteString("SELECT")
	sb.WriteString(issueColumns)
	sb.WriteString("\n\tFROM issues")
	if len(conditions) > 0 {
		sb.WriteString("\n\tWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	switch filter.OrderBy {
	case models.OrderByScoreDesc:
		sb.WriteString("\n\tORDER BY severity_score DESC, created_at ASC")
	default:
		sb.WriteString("\n\tORDER BY created_at DESC")
	}

	if filter.Limit > 0 {
		sb.WriteString("\n\tLIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}
	sb.WriteString(";")

	return sb.String(), args
}

// GetReporterTrust возвращает коэффициент доверия автора
func (r *IssueRepository) GetReporterTrust(ctx context.Context, reporterID uuid.UUID) (float64, error) {
	query := `SELECT trust_score FROM reporters WHERE id = $1;`

	var trust float64
	err := r.db.QueryRow(ctx, query, reporterID).Scan(&trust)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("reporter with id %s: %w", reporterID, service.ErrReporterNotFound)
		}
		return 0, fmt.Errorf("failed to get reporter trust: %w", err)
	}
	return trust, nil
}

// GetIssueFromCache пытается получить обращение из Redis
func (r *IssueRepository) GetIssueFromCache(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	val, err := r.redisClient.Get(ctx, issueCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue from cache: %w", err)
	}

	issue := &models.Issue{}
	if err := json.Unmarshal(val, issue); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issue from cache: %w", err)
	}
	return issue, nil
}

// SetIssueCache сохраняет обращение в Redis
func (r *IssueRepository) SetIssueCache(ctx context.Context, issue *models.Issue) error {
	val, err := json.Marshal(issue)
	if err != nil {
		return fmt.Errorf("failed to marshal issue for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, issueCacheKey(issue.ID), val, issueCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set issue in cache: %w", err)
	}
	return nil
}

// InvalidateIssueCache удаляет обращение из Redis кэша
func (r *IssueRepository) InvalidateIssueCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, issueCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate issue cache: %w", err)
	}
	return nil
}

func issueCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("issue:%s", id.String())
}

// scanIssue читает строку в порядке issueColumns
func scanIssue(row pgx.Row) (*models.Issue, error) {
	issue := &models.Issue{}
	err := row.Scan(
		&issue.ID,
		&issue.ReporterID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.SeverityLevel,
		&issue.LocationContext,
		&issue.Latitude,
		&issue.Longitude,
		&issue.State,
		&issue.District,
		&issue.Block,
		&issue.ImagePath,
		&issue.Status,
		&issue.SeverityScore,
		&issue.CreatedAt,
		&issue.ResolvedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return issue, nil
}
