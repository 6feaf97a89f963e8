package models

import (
	"time"

	"github.com/google/uuid"
)

// ViewEvent is an append-only record of a successful share resolution.
type ViewEvent struct {
	ID        uuid.UUID `json:"id"`
	ShareID   string    `json:"share_id"`
	ViewDate  time.Time `json:"view_date"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"user_agent"`
}

// ShareViewCount aggregates view events per share token for metrics scrapes.
type ShareViewCount struct {
	ShareID string
	Count   int64
}
