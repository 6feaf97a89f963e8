package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"folio/internal/db"
)

var (
	shareViewsDesc = prometheus.NewDesc(
		"folio_share_views_total",
		"Total recorded portfolio views by share token",
		[]string{"share_id"},
		nil,
	)

	resolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_share_resolves_total",
			Help: "Share token resolution attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ShareViewCollector is a custom Prometheus collector that reads view counts
// from the database on each scrape.
type ShareViewCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ShareViewCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- shareViewsDesc
}

// Collect queries the database for per-share view counts and emits them as counters.
func (c *ShareViewCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.GetShareViewCounts(context.Background())
	if err != nil {
		slog.Error("failed to collect share view metrics", "error", err)
		return
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			shareViewsDesc,
			prometheus.CounterValue,
			float64(sc.Count),
			sc.ShareID,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ShareViewCollector{db: database})
		prometheus.MustRegister(resolveCounter)
	})
}

// RecordResolve counts one share token resolution attempt. Outcome is one of
// "hit", "miss", or "error".
func RecordResolve(outcome string) {
	resolveCounter.WithLabelValues(outcome).Inc()
}
