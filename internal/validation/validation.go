package validation

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// SlugPattern defines the valid custom-slug format: lowercase alphanumeric and hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	SlugMinLength  = 3
	SlugMaxLength  = 50
	TokenMaxLength = 64
)

// reservedSlugs are names that would collide with routes or look official.
var reservedSlugs = map[string]bool{
	"admin":     true,
	"api":       true,
	"auth":      true,
	"login":     true,
	"logout":    true,
	"signup":    true,
	"register":  true,
	"dashboard": true,
	"settings":  true,
	"profile":   true,
	"portfolio": true,
	"share":     true,
	"shared":    true,
	"static":    true,
	"metrics":   true,
	"healthz":   true,
	"www":       true,
	"mail":      true,
	"root":      true,
	"support":   true,
	"help":      true,
	"about":     true,
	"terms":     true,
	"privacy":   true,
}

// ReserveSlugs adds deployment-specific slugs to the reserved set. Called
// once at startup, before any request handling.
func ReserveSlugs(slugs []string) {
	for _, s := range slugs {
		if s = NormalizeSlug(s); s != "" {
			reservedSlugs[s] = true
		}
	}
}

// NormalizeSlug lowercases and trims a slug candidate so checks are
// case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateSlug checks a normalized custom-slug candidate against the format
// rules. Returns false with a human-readable reason on failure.
func ValidateSlug(slug string) (bool, string) {
	if len(slug) < SlugMinLength {
		return false, "slug must be at least 3 characters"
	}
	if len(slug) > SlugMaxLength {
		return false, "slug must be at most 50 characters"
	}
	if !SlugPattern.MatchString(slug) {
		return false, "slug may contain only lowercase letters, numbers, and hyphens"
	}
	if reservedSlugs[slug] {
		return false, "this slug is reserved"
	}
	return true, ""
}

// IsReservedSlug reports whether a slug is on the reserved list.
func IsReservedSlug(slug string) bool {
	return reservedSlugs[NormalizeSlug(slug)]
}

// ValidateShareToken is the cheap structural pre-check applied to incoming
// share tokens before any database round-trip. It accepts both generated
// UUID tokens and custom slugs.
func ValidateShareToken(token string) bool {
	if len(token) < SlugMinLength || len(token) > TokenMaxLength {
		return false
	}
	return SlugPattern.MatchString(token)
}

// allowedSchemes are the URL schemes a project link may carry.
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// ValidateAndFormatURL normalizes a user-supplied URL. Scheme-less input is
// assumed to be https. Anything that fails to parse or carries a scheme
// outside the allowlist collapses to the empty string, so a bad link
// renders as non-functional instead of erroring.
func ValidateAndFormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if !strings.Contains(raw, ":") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		return ""
	}
	u.Scheme = scheme

	if scheme == "http" || scheme == "https" {
		if u.Host == "" {
			return ""
		}
		if u.Path == "" {
			u.Path = "/"
		}
	}

	return u.String()
}

// ValidateHTTPURL checks that a URL is a well-formed http/https URL. The
// link health checker can only probe web links.
func ValidateHTTPURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF attacks against internal networks.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	if ip.IsPrivate() {
		return true
	}
	if ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints: AWS/GCP, then Azure
	if ip.Equal(net.ParseIP("169.254.169.254")) {
		return true
	}
	if ip.Equal(net.ParseIP("168.63.129.16")) {
		return true
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked, false if it's safe to access.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// If we can't resolve, be conservative and block
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForHealthCheck validates a URL is safe for health checking.
// Blocks private IPs, localhost, and cloud metadata endpoints.
func ValidateURLForHealthCheck(urlStr string) (bool, string) {
	valid, msg := ValidateHTTPURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
