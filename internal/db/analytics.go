package db

import (
	"context"

	"folio/internal/models"
)

// InsertViewEvent appends a view record for a resolved share. Rows are
// never mutated or deleted by the application.
func (d *DB) InsertViewEvent(ctx context.Context, e *models.ViewEvent) error {
	query := `
		INSERT INTO portfolio_analytics (share_id, referrer, user_agent)
		VALUES ($1, $2, $3)
		RETURNING id, view_date
	`
	return d.Pool.QueryRow(ctx, query, e.ShareID, e.Referrer, e.UserAgent).Scan(&e.ID, &e.ViewDate)
}

// GetShareViewCounts aggregates total views per share token, for metrics scrapes.
func (d *DB) GetShareViewCounts(ctx context.Context) ([]models.ShareViewCount, error) {
	query := `
		SELECT share_id, COUNT(*)
		FROM portfolio_analytics
		GROUP BY share_id
	`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.ShareViewCount
	for rows.Next() {
		var c models.ShareViewCount
		if err := rows.Scan(&c.ShareID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountViewsByUser returns the total view count across all tokens the user's
// share row has carried, for the owner's own stats endpoint.
func (d *DB) CountViewsByUser(ctx context.Context, share *models.Share) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM portfolio_analytics WHERE share_id = $1`, share.ShareID).Scan(&n)
	return n, err
}
