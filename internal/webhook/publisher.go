package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Eusa190/FIXITY-CRI/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "webhook_events"
)

// Типы событий
const (
	EventIssueCreated       = "issue.created"
	EventIssueStatusChanged = "issue.status_changed"
	EventIssueResolved      = "issue.resolved"
	EventIssueEscalated     = "issue.escalated"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	Type          string             `json:"type"`
	IssueID       uuid.UUID          `json:"issue_id"`
	Category      string             `json:"category"`
	District      string             `json:"district"`
	Block         string             `json:"block"`
	Status        models.IssueStatus `json:"status"`
	SeverityScore float64            `json:"severity_score"`
	PreviousScore *float64           `json:"previous_score,omitempty"` // Балл до эскалации
	Timestamp     time.Time          `json:"timestamp"`
}

// NewIssueEvent собирает событие по текущему состоянию обращения
func NewIssueEvent(eventType string, issue *models.Issue, at time.Time) WebhookEvent {
	return WebhookEvent{
		Type:          eventType,
		IssueID:       issue.ID,
		Category:      issue.Category,
		District:      issue.District,
		Block:         issue.Block,
		Status:        issue.Status,
		SeverityScore: issue.SeverityScore,
		Timestamp:     at,
	}
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
