package models

import (
	"time"

	"github.com/google/uuid"
)

// Link health states, written by the background link checker.
const (
	HealthUnknown = "unknown"
	HealthOK      = "ok"
	HealthBroken  = "broken"
)

// Project belongs to exactly one section. Projects carry no durable
// ordering field; rows are returned in insertion order (created_at, id).
type Project struct {
	ID          uuid.UUID `json:"id"`
	SectionID   uuid.UUID `json:"section_id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectRole string    `json:"project_role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Links    []ProjectLink `json:"links,omitempty"`
	Features []Feature     `json:"features,omitempty"`
}

// ProjectLink is an outbound link attached to a project. The URL is
// validated and reformatted at the boundary; unsafe schemes collapse to "".
type ProjectLink struct {
	ID              uuid.UUID  `json:"id"`
	ProjectID       uuid.UUID  `json:"project_id"`
	UserID          uuid.UUID  `json:"user_id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	HealthStatus    string     `json:"health_status"`
	HealthCheckedAt *time.Time `json:"health_checked_at"`
	HealthError     *string    `json:"health_error"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Feature is a free-form tag on a project.
type Feature struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
