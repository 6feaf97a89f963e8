package models

// PublicProfile is the sanitized, privacy-filtered projection of a profile
// for the read-only share view. Email and telephone are blanked when the
// owner has disabled them.
type PublicProfile struct {
	Name        string `json:"name"`
	Photo       string `json:"photo"`
	Email       string `json:"email,omitempty"`
	Telephone   string `json:"telephone,omitempty"`
	Role        string `json:"role"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// PublicPortfolio is the read-only tree a share token resolves to.
type PublicPortfolio struct {
	Profile  PublicProfile `json:"profile"`
	Sections []Section     `json:"sections"`
}

// AvailabilityResponse reports the outcome of a slug availability check.
type AvailabilityResponse struct {
	Slug   string `json:"slug"`
	Status string `json:"status"` // invalid | current | available | taken
}
