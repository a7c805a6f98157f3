package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/analytics"
	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/Eusa190/FIXITY-CRI/internal/cri"
	"github.com/Eusa190/FIXITY-CRI/internal/locations"
	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/Eusa190/FIXITY-CRI/internal/webhook"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=issue.go -destination=mocks/mock_issue.go -package=mocks

// IssueRepository определяет контракт для работы с бд обращений
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	UpdateStatus(ctx context.Context, issue *models.Issue) error
	UpdateScores(ctx context.Context, updates []models.ScoreUpdate) error
	ListIssues(ctx context.Context, filter models.IssueFilter) ([]*models.Issue, error)
	GetReporterTrust(ctx context.Context, reporterID uuid.UUID) (float64, error)
	GetIssueFromCache(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	SetIssueCache(ctx context.Context, issue *models.Issue) error
	InvalidateIssueCache(ctx context.Context, id uuid.UUID) error
}

// IssueService определяет контракт бизнес-логики обращений и индекса CRI
type IssueService interface {
	CreateIssue(ctx context.Context, issue *models.Issue) error
	GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	ListIssues(ctx context.Context, page, pageSize int) ([]*models.Issue, error)
	ListReporterIssues(ctx context.Context, reporterID uuid.UUID) ([]*models.Issue, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IssueStatus) (*models.Issue, error)
	ListAuthorityIssues(ctx context.Context, block string) ([]*models.Issue, error)
	Rescore(ctx context.Context, block string) (int, error)
	GetDistrictRisk(ctx context.Context, district string) ([]models.BlockRisk, error)
	GetAnalytics(ctx context.Context, block string) (*models.Analytics, error)
	GetLocations() locations.Hierarchy
}

type issueService struct {
	repo       IssueRepository
	logger     *logrus.Logger
	cfg        *config.Config
	publisher  webhook.WebhookPublisher
	hierarchy  locations.Hierarchy
	scorer     *cri.Scorer
	aggregator *analytics.Aggregator
	now        func() time.Time
}

func NewIssueService(repo IssueRepository, logger *logrus.Logger, cfg *config.Config, publisher webhook.WebhookPublisher, hierarchy locations.Hierarchy) IssueService {
	s := &issueService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		hierarchy: hierarchy,
		now:       func() time.Time { return time.Now().UTC() },
	}

	clock := func() time.Time { return s.now() }
	s.scorer = cri.NewScorer(cri.DefaultTables(), cri.WithClock(clock))

	settings := analytics.DefaultSettings()
	settings.EscalationDelta = cfg.EscalationDelta
	settings.HighRiskThreshold = cfg.HighRiskThreshold
	settings.ScopeHighRiskCount = cfg.ScopeHighRiskCount
	s.aggregator = analytics.NewAggregator(s.scorer, settings, analytics.WithClock(clock))

	return s
}

// CreateIssue оценивает риск нового обращения и сохраняет его
func (s *issueService) CreateIssue(ctx context.Context, issue *models.Issue) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "CreateIssue",
		"category": issue.Category,
		"block":    issue.Block,
	})
	log.Info("Attempting to create a new issue")

	if issue.SeverityLevel == "" {
		issue.SeverityLevel = models.SeverityMedium
	}
	if issue.LocationContext == "" {
		issue.LocationContext = models.ContextResidential
	}
	issue.Status = models.StatusPending
	issue.ResolvedAt = nil
	issue.CreatedAt = s.now()

	trust, err := s.reporterTrust(ctx, issue.ReporterID)
	if err != nil {
		log.WithError(err).Error("Failed to get reporter trust score")
		return fmt.Errorf("service: could not create issue: %w", err)
	}
	issue.SeverityScore = s.scorer.ComputeRiskAt(issue, trust, issue.CreatedAt)

	if err := s.repo.Create(ctx, issue); err != nil {
		log.WithError(err).Error("Failed to create issue in repository")
		return fmt.Errorf("service: could not create issue: %w", err)
	}

	issuesCreated.WithLabelValues(analytics.DefaultPillars().PillarOf(issue.Category)).Inc()
	initialScores.Observe(issue.SeverityScore)
	s.publish(ctx, log, webhook.NewIssueEvent(webhook.EventIssueCreated, issue, issue.CreatedAt))

	log.WithFields(logrus.Fields{
		"issue_id":       issue.ID,
		"severity_score": issue.SeverityScore,
		"trust_score":    trust,
	}).Info("Issue created successfully")
	return nil
}

// reporterTrust возвращает коэффициент доверия автора; неизвестный автор получает 1.0
func (s *issueService) reporterTrust(ctx context.Context, reporterID *uuid.UUID) (float64, error) {
	if reporterID == nil {
		return models.DefaultTrustScore, nil
	}
	trust, err := s.repo.GetReporterTrust(ctx, *reporterID)
	if err != nil {
		if errors.Is(err, ErrReporterNotFound) {
			return models.DefaultTrustScore, nil
		}
		return 0, err
	}
	return trust, nil
}

// GetIssue получает обращение по ID, сначала из кеша
func (s *issueService) GetIssue(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "GetIssue",
		"issue_id": id,
	})
	log.Info("Fetching issue by ID")

	cached, err := s.repo.GetIssueFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read issue from cache")
	}
	if cached != nil {
		log.Debug("Issue served from cache")
		return cached, nil
	}

	issue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get issue in repository")
		return nil, fmt.Errorf("service: could not get issue: %w", err)
	}

	if err := s.repo.SetIssueCache(ctx, issue); err != nil {
		log.WithError(err).Warn("Failed to cache issue")
	}

	log.Info("Issue fetched successfully")
	return issue, nil
}

// ListIssues возвращает ленту обращений с пагинацией, новые первыми
func (s *issueService) ListIssues(ctx context.Context, page, pageSize int) ([]*models.Issue, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "issue",
		"method":    "ListIssues",
		"page":      page,
		"page_size": pageSize,
	})
	log.Info("Listing issues")

	issues, err := s.repo.ListIssues(ctx, models.IssueFilter{
		OrderBy: models.OrderByCreatedDesc,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		log.WithError(err).Error("Failed to list issues from repository")
		return nil, fmt.Errorf("service: could not list issues: %w", err)
	}

	log.WithField("count", len(issues)).Info("Issues listed successfully")
	return issues, nil
}

// ListReporterIssues возвращает обращения одного автора
func (s *issueService) ListReporterIssues(ctx context.Context, reporterID uuid.UUID) ([]*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "issue",
		"method":      "ListReporterIssues",
		"reporter_id": reporterID,
	})
	log.Info("Listing reporter issues")

	issues, err := s.repo.ListIssues(ctx, models.IssueFilter{
		ReporterID: &reporterID,
		OrderBy:    models.OrderByCreatedDesc,
	})
	if err != nil {
		log.WithError(err).Error("Failed to list reporter issues from repository")
		return nil, fmt.Errorf("service: could not list reporter issues: %w", err)
	}
	return issues, nil
}

// UpdateStatus меняет статус обращения. Переход в Resolved обнуляет балл и фиксирует время закрытия.
func (s *issueService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IssueStatus) (*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "UpdateStatus",
		"issue_id": id,
		"status":   status,
	})
	log.Info("Attempting to update issue status")

	issue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIssueNotFound) {
			log.WithError(err).Warn("Attempted to update a non-existent issue")
			return nil, fmt.Errorf("service: issue with id %s not found for update: %w", id, err)
		}
		log.WithError(err).Error("Failed to get issue for status update")
		return nil, fmt.Errorf("service: could not get issue for update: %w", err)
	}

	resolvedNow := cri.ApplyStatus(issue, status, s.now())

	if err := s.repo.UpdateStatus(ctx, issue); err != nil {
		log.WithError(err).Error("Failed to update issue status in repository")
		return nil, fmt.Errorf("service: could not update issue status: %w", err)
	}

	if err := s.repo.InvalidateIssueCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate issue cache")
	}

	eventType := webhook.EventIssueStatusChanged
	if resolvedNow {
		eventType = webhook.EventIssueResolved
		issuesResolved.Inc()
	}
	s.publish(ctx, log, webhook.NewIssueEvent(eventType, issue, s.now()))

	log.Info("Issue status updated successfully")
	return issue, nil
}

// ListAuthorityIssues возвращает открытые обращения блока, предварительно пересчитав их баллы.
// Чтение не свободно от побочных эффектов: изменившиеся баллы сохраняются.
// Параллельные запросы пишут одни и те же значения по принципу last-writer-wins.
func (s *issueService) ListAuthorityIssues(ctx context.Context, block string) ([]*models.Issue, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "issue",
		"method":  "ListAuthorityIssues",
		"block":   block,
	})
	log.Info("Listing unresolved issues for authority")

	issues, err := s.repo.ListIssues(ctx, models.IssueFilter{
		Block:    block,
		OpenOnly: true,
		OrderBy:  models.OrderByScoreDesc,
	})
	if err != nil {
		log.WithError(err).Error("Failed to list authority issues from repository")
		return nil, fmt.Errorf("service: could not list authority issues: %w", err)
	}

	if _, err := s.escalate(ctx, log, issues, "read"); err != nil {
		return nil, err
	}

	log.WithField("count", len(issues)).Info("Authority issues listed successfully")
	return issues, nil
}

// Rescore выполняет эскалацию вне запроса: для блока или, если блок пуст, для всех открытых обращений
func (s *issueService) Rescore(ctx context.Context, block string) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "issue",
		"method":  "Rescore",
		"block":   block,
	})
	log.Info("Rescoring unresolved issues")

	issues, err := s.repo.ListIssues(ctx, models.IssueFilter{Block: block, OpenOnly: true})
	if err != nil {
		log.WithError(err).Error("Failed to list issues for rescore")
		return 0, fmt.Errorf("service: could not list issues for rescore: %w", err)
	}

	changed, err := s.escalate(ctx, log, issues, "rescore")
	if err != nil {
		return 0, err
	}

	log.WithFields(logrus.Fields{"scanned": len(issues), "updated": changed}).Info("Rescore completed")
	return changed, nil
}

// escalate пересчитывает баллы, сохраняет изменившиеся и пересортировывает список
func (s *issueService) escalate(ctx context.Context, log *logrus.Entry, issues []*models.Issue, source string) (int, error) {
	escalations := s.aggregator.Escalate(issues)
	if len(escalations) == 0 {
		return 0, nil
	}

	if err := s.repo.UpdateScores(ctx, analytics.ScoreUpdates(escalations)); err != nil {
		log.WithError(err).Error("Failed to persist escalated scores")
		return 0, fmt.Errorf("service: could not persist escalated scores: %w", err)
	}
	escalationsPersisted.WithLabelValues(source).Add(float64(len(escalations)))

	threshold := s.aggregator.Settings().HighRiskThreshold
	for _, e := range escalations {
		if err := s.repo.InvalidateIssueCache(ctx, e.Issue.ID); err != nil {
			log.WithError(err).Warn("Failed to invalidate issue cache")
		}
		if e.CrossedHighRisk(threshold) {
			event := webhook.NewIssueEvent(webhook.EventIssueEscalated, e.Issue, s.now())
			previous := e.PreviousScore
			event.PreviousScore = &previous
			s.publish(ctx, log, event)
		}
	}

	analytics.SortByScore(issues)
	log.WithField("updated", len(escalations)).Info("Escalated scores persisted")
	return len(escalations), nil
}

// GetDistrictRisk возвращает риск по блокам района.
// Если обращений в районе нет, известные блоки возвращаются с нулевым риском.
func (s *issueService) GetDistrictRisk(ctx context.Context, district string) ([]models.BlockRisk, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "issue",
		"method":   "GetDistrictRisk",
		"district": district,
	})
	log.Info("Aggregating district risk")

	issues, err := s.repo.ListIssues(ctx, models.IssueFilter{District: district})
	if err != nil {
		log.WithError(err).Error("Failed to list district issues from repository")
		return nil, fmt.Errorf("service: could not aggregate district risk: %w", err)
	}

	if len(issues) == 0 {
		blocks, ok := s.hierarchy.Blocks(district)
		if !ok {
			log.Warn("District has no issues and is not in the location hierarchy")
			return []models.BlockRisk{}, nil
		}
		log.WithField("blocks", len(blocks)).Info("District has no issues, returning known blocks")
		return analytics.ZeroBlocks(blocks), nil
	}

	return s.aggregator.RollupBlocks(issues), nil
}

// GetAnalytics собирает аналитику для блока или, если блок пуст, для всей системы
func (s *issueService) GetAnalytics(ctx context.Context, block string) (*models.Analytics, error) {
	scope := "global"
	if block != "" {
		scope = "block"
	}
	log := s.logger.WithFields(logrus.Fields{
		"service": "issue",
		"method":  "GetAnalytics",
		"scope":   scope,
		"block":   block,
	})
	log.Info("Building analytics")

	started := time.Now()
	all, err := s.repo.ListIssues(ctx, models.IssueFilter{})
	if err != nil {
		log.WithError(err).Error("Failed to list issues for analytics")
		return nil, fmt.Errorf("service: could not build analytics: %w", err)
	}

	scoped := all
	if block != "" {
		scoped = filterByBlock(all, block)
	}

	result := s.aggregator.Build(scoped, all)
	analyticsDuration.WithLabelValues(scope).Observe(time.Since(started).Seconds())

	log.WithField("issues", len(scoped)).Info("Analytics built successfully")
	return &result, nil
}

// GetLocations возвращает административную иерархию
func (s *issueService) GetLocations() locations.Hierarchy {
	return s.hierarchy
}

// publish отправляет событие; ошибка публикации не прерывает операцию
func (s *issueService) publish(ctx context.Context, log *logrus.Entry, event webhook.WebhookEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish webhook event")
	}
}

func filterByBlock(issues []*models.Issue, block string) []*models.Issue {
	scoped := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Block == block {
			scoped = append(scoped, issue)
		}
	}
	return scoped
}
