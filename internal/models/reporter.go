package models

import "github.com/google/uuid"

// DefaultTrustScore используется, если репортер неизвестен
const DefaultTrustScore = 1.0

// Reporter - автор обращений и его коэффициент доверия
type Reporter struct {
	ID         uuid.UUID `json:"id"`
	TrustScore float64   `json:"trust_score"`
}
