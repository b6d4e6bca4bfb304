package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Zachkp/portfolio/internal/contact"
)

// Visit is one tracked page view. The client address is only ever stored
// hashed.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats summarises traffic and messages for the admin dashboard.
type Stats struct {
	TotalVisitors    int64             `json:"total_visitors"`
	UniqueVisitors   int64             `json:"unique_visitors"`
	VisitorsToday    int64             `json:"visitors_today"`
	VisitorsThisWeek int64             `json:"visitors_this_week"`
	TotalMessages    int64             `json:"total_messages"`
	TopPaths         []PathCount       `json:"top_paths"`
	RecentVisitors   []Visit           `json:"recent_visitors"`
	RecentMessages   []contact.Message `json:"recent_messages"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// RecordVisit stores one page view.
func (d *DB) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := d.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, formatTime(d.now()))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecentVisitors returns up to limit visits, newest first.
func (d *DB) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var (
			v  Visit
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = parseTime(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// CleanupVisitors deletes visits older than maxAge and reports how many
// were removed.
func (d *DB) CleanupVisitors(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := formatTime(d.now().Add(-maxAge))
	res, err := d.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	return res.RowsAffected()
}

// Stats gathers the dashboard numbers.
func (d *DB) Stats(ctx context.Context) (*Stats, error) {
	now := d.now()
	startOfDay := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)

	s := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&s.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&s.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&s.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(startOfDay)}},
		{&s.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{formatTime(now.Add(-7 * 24 * time.Hour))}},
		{&s.TotalMessages, `SELECT COUNT(*) FROM messages`, nil},
	}
	for _, c := range counts {
		if err := d.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("loading stats: %w", err)
		}
	}

	rows, err := d.QueryContext(ctx, `
		SELECT path, COUNT(*) AS n FROM visitors
		GROUP BY path ORDER BY n DESC, path ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("loading top paths: %w", err)
	}
	if s.TopPaths, err = scanPathCounts(rows); err != nil {
		return nil, err
	}

	if s.RecentVisitors, err = d.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if s.RecentMessages, err = d.RecentMessages(ctx, 10); err != nil {
		return nil, err
	}
	return s, nil
}

func scanPathCounts(rows *sql.Rows) ([]PathCount, error) {
	defer rows.Close()
	var out []PathCount
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, fmt.Errorf("scanning path count: %w", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading top paths: %w", err)
	}
	return out, nil
}
