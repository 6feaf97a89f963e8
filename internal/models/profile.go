package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-account portfolio profile. It doubles as the
// authenticated principal: the OIDC subject maps 1:1 to a profile row.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Sub         string    `json:"sub"` // OIDC subject identifier
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Photo       string    `json:"photo"` // data URL or external URL
	Telephone   string    `json:"telephone"`
	RoleTitle   string    `json:"role"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	ShowEmail   bool      `json:"show_email"`
	ShowPhone   bool      `json:"show_phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
