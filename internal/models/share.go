package models

import (
	"time"

	"github.com/google/uuid"
)

// Share is the public access record for a portfolio. At most one row
// exists per user. ShareID is either a generated UUID token or a
// user-chosen slug; rotating overwrites it in place, so old links die
// the instant the overwrite lands.
type Share struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ShareID   string    `json:"share_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
