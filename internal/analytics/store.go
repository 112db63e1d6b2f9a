package analytics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"database/sql"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS weekly_reports (
    week_start   TEXT PRIMARY KEY,
    generated_at TEXT NOT NULL,
    report       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS category_counts (
    week_start TEXT NOT NULL,
    category   TEXT NOT NULL,
    scheduled  INTEGER NOT NULL,
    recorded   INTEGER NOT NULL,
    PRIMARY KEY (week_start, category)
);
`

// Store persists weekly report history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore initializes or connects to the analytics database.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveReport records one weekly report and its per-category counts. Saving
// the same week again replaces the earlier rows.
func (s *Store) SaveReport(ctx context.Context, report Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO weekly_reports (week_start, generated_at, report) VALUES (?, ?, ?)`,
		report.WeekStart,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		report.Text,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_counts WHERE week_start = ?`, report.WeekStart); err != nil {
		return fmt.Errorf("clear counts: %w", err)
	}
	for _, line := range report.Counts {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO category_counts (week_start, category, scheduled, recorded) VALUES (?, ?, ?, ?)`,
			report.WeekStart,
			line.Category,
			line.Scheduled,
			line.Recorded,
		)
		if err != nil {
			return fmt.Errorf("insert count for %q: %w", line.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

// RecentReports returns up to limit stored reports, newest first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT week_start, generated_at, report FROM weekly_reports ORDER BY week_start DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var report Report
		var generated string
		if err := rows.Scan(&report.WeekStart, &generated, &report.Text); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, generated); err == nil {
			report.GeneratedAt = ts
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// CategoryCounts returns the stored per-category counts for a week.
func (s *Store) CategoryCounts(ctx context.Context, weekStart string) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT category, scheduled, recorded FROM category_counts WHERE week_start = ? ORDER BY category`,
		weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var count CategoryCount
		if err := rows.Scan(&count.Category, &count.Scheduled, &count.Recorded); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out = append(out, count)
	}
	return out, rows.Err()
}
