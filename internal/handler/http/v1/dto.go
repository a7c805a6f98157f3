package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateIssueRequest DTO для создания обращения
// @Description DTO для создания обращения
type CreateIssueRequest struct {
	ReporterID      string   `json:"reporter_id,omitempty" validate:"omitempty,uuid"`
	Title           string   `json:"title" validate:"required,min=3,max=255"`
	Description     string   `json:"description,omitempty" validate:"max=5000"`
	Category        string   `json:"category" validate:"required,max=100"`
	SeverityLevel   string   `json:"severity_level,omitempty" validate:"omitempty,oneof=low medium high"`
	LocationContext string   `json:"location_context,omitempty" validate:"max=50"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	State           string   `json:"state,omitempty" validate:"max=100"`
	District        string   `json:"district" validate:"required,max=100"`
	Block           string   `json:"block" validate:"required,max=100"`
	ImagePath       string   `json:"image_path,omitempty" validate:"max=512"`
}

// UpdateStatusRequest DTO для смены статуса обращения
// @Description DTO для смены статуса обращения
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof='Pending' 'In Progress' 'Resolved'"`
}

// IssueResponse DTO для ответа с информацией об обращении
// @Description DTO для ответа с информацией об обращении
type IssueResponse struct {
	ID              uuid.UUID  `json:"id"`
	ReporterID      *uuid.UUID `json:"reporter_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category"`
	SeverityLevel   string     `json:"severity_level"`
	LocationContext string     `json:"location_context"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	State           string     `json:"state,omitempty"`
	District        string     `json:"district"`
	Block           string     `json:"block"`
	ImagePath       *string    `json:"image_path,omitempty"`
	Status          string     `json:"status"`
	SeverityScore   float64    `json:"severity_score"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
