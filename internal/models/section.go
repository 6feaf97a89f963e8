package models

import (
	"time"

	"github.com/google/uuid"
)

// Section groups projects within a portfolio. There is no explicit rank
// column: display order is created_at ascending, and reordering rewrites
// the timestamps of every section in the list.
type Section struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated when loading the full portfolio tree.
	Projects []Project `json:"projects,omitempty"`
}
