package jobs

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"folio/internal/db"
	"folio/internal/models"
	"folio/internal/validation"
)

// HealthChecker performs background health checks on project links.
type HealthChecker struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
	batch    int
	client   *http.Client
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(database *db.DB, interval, maxAge time.Duration, batch int) *HealthChecker {
	return &HealthChecker{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
		batch:    batch,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background health check loop.
func (h *HealthChecker) Start(ctx context.Context) {
	log.Printf("Health checker started (interval: %v, maxAge: %v)", h.interval, h.maxAge)

	// Run immediately on start
	h.checkAll(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Health checker stopped")
			return
		case <-ticker.C:
			h.checkAll(ctx)
		}
	}
}

// checkAll checks all links whose last probe is stale.
func (h *HealthChecker) checkAll(ctx context.Context) {
	links, err := h.db.GetLinksNeedingHealthCheck(ctx, h.maxAge, h.batch)
	if err != nil {
		log.Printf("Health checker: failed to get links: %v", err)
		return
	}

	if len(links) == 0 {
		return
	}

	log.Printf("Health checker: checking %d links", len(links))

	for _, link := range links {
		select {
		case <-ctx.Done():
			return
		default:
		}

		status, errorMsg := h.checkURL(ctx, link.URL)
		if err := h.db.UpdateLinkHealthStatus(ctx, link.ID, status, errorMsg); err != nil {
			log.Printf("Health checker: failed to update link %s: %v", link.ID, err)
			continue
		}

		// Delay between checks to avoid overwhelming external servers
		time.Sleep(1 * time.Second)
	}
}

// checkURL performs a HEAD request to check if a URL is reachable.
// Validates URLs before making requests to prevent SSRF attacks. Non-HTTP
// schemes (mailto, tel) are never probed and stay at their current status.
func (h *HealthChecker) checkURL(ctx context.Context, url string) (string, *string) {
	if strings.HasPrefix(url, "mailto:") || strings.HasPrefix(url, "tel:") {
		return models.HealthUnknown, nil
	}

	if valid, msg := validation.ValidateURLForHealthCheck(url); !valid {
		return models.HealthBroken, &msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		errMsg := "invalid URL: " + err.Error()
		return models.HealthBroken, &errMsg
	}

	req.Header.Set("User-Agent", "Folio-HealthChecker/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		errMsg := "connection failed: " + err.Error()
		return models.HealthBroken, &errMsg
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errMsg := "HTTP " + resp.Status
		return models.HealthBroken, &errMsg
	}
	return models.HealthOK, nil
}
