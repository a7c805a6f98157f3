package models

import (
	"time"

	"github.com/google/uuid"
)

// IssueStatus - статус обращения
type IssueStatus string

const (
	StatusPending    IssueStatus = "Pending"
	StatusInProgress IssueStatus = "In Progress"
	StatusResolved   IssueStatus = "Resolved"
)

// Категории обращений. Неизвестные категории сохраняются как есть.
const (
	CategoryPothole          = "Pothole"
	CategoryWaterLeakage     = "Water Leakage"
	CategoryGarbage          = "Garbage"
	CategoryTrafficViolation = "Traffic Violation"
	CategoryStrayAnimals     = "Stray Animals"
	CategoryElectricity      = "Electricity"
	CategoryOther            = "Other"
)

// Уровни серьезности
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Контекст места, где обнаружена проблема
const (
	ContextSchool      = "school"
	ContextHospital    = "hospital"
	ContextHighway     = "highway"
	ContextResidential = "residential"
	ContextCommercial  = "commercial"
	ContextOther       = "other"
)

// Issue - обращение гражданина
type Issue struct {
	ID              uuid.UUID   `json:"id"`
	ReporterID      *uuid.UUID  `json:"reporter_id,omitempty"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	SeverityLevel   string      `json:"severity_level"`
	LocationContext string      `json:"location_context"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	State           string      `json:"state"`
	District        string      `json:"district"`
	Block           string      `json:"block"`
	ImagePath       *string     `json:"image_path,omitempty"`
	Status          IssueStatus `json:"status"`
	SeverityScore   float64     `json:"severity_score"`
	CreatedAt       time.Time   `json:"created_at"`
	ResolvedAt      *time.Time  `json:"resolved_at,omitempty"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsResolved сообщает, закрыто ли обращение
func (i *Issue) IsResolved() bool {
	return i.Status == StatusResolved
}

// ScoreUpdate - пересчитанный балл риска для сохранения
type ScoreUpdate struct {
	ID            uuid.UUID
	SeverityScore float64
}
