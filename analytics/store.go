package analytics

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore opens the analytics database and ensures the schema exists.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			visitor_id TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
		CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// SaveVisit stores a new visit. A missing ID is assigned here.
func (s *Store) SaveVisit(v *Visit) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.db.Exec(`
		INSERT INTO visits (id, visitor_id, browser, os, device, path, referrer, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.VisitorID, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.Timestamp.UTC())
	return err
}

// GetStats returns aggregated statistics for the given time range.
func (s *Store) GetStats(from, to time.Time) (*Stats, error) {
	stats := &Stats{
		Period:        from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
		TopPages:      []PageStat{},
		BrowserStats:  []DimensionStat{},
		DeviceStats:   []DimensionStat{},
		ReferrerStats: []DimensionStat{},
		DailyViews:    []DailyView{},
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT visitor_id)
		FROM visits WHERE timestamp >= ? AND timestamp < ?
	`, from, to).Scan(&stats.TotalViews, &stats.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	stats.TopPages, err = s.pageStats(from, to)
	if err != nil {
		return nil, err
	}

	for _, dim := range []struct {
		column string
		dest   *[]DimensionStat
	}{
		{"browser", &stats.BrowserStats},
		{"device", &stats.DeviceStats},
		{"referrer", &stats.ReferrerStats},
	} {
		rows, err := s.dimensionStats(dim.column, from, to)
		if err != nil {
			return nil, err
		}
		*dim.dest = rows
	}

	stats.DailyViews, err = s.dailyViews(from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Store) pageStats(from, to time.Time) ([]PageStat, error) {
	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS views
		FROM visits WHERE timestamp >= ? AND timestamp < ?
		GROUP BY path ORDER BY views DESC LIMIT 10
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	defer rows.Close()

	result := []PageStat{}
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) dimensionStats(column string, from, to time.Time) ([]DimensionStat, error) {
	// column comes from a fixed internal list, never from user input.
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT %s, COUNT(*) AS count
		FROM visits WHERE timestamp >= ? AND timestamp < ?
		GROUP BY %s ORDER BY count DESC LIMIT 10
	`, column, column), from, to)
	if err != nil {
		return nil, fmt.Errorf("%s stats: %w", column, err)
	}
	defer rows.Close()

	result := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) dailyViews(from, to time.Time) ([]DailyView, error) {
	rows, err := s.db.Query(`
		SELECT date(timestamp) AS day, COUNT(*) AS views
		FROM visits WHERE timestamp >= ? AND timestamp < ?
		GROUP BY day ORDER BY day
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer rows.Close()

	result := []DailyView{}
	for rows.Next() {
		var d DailyView
		if err := rows.Scan(&d.Date, &d.Views); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// CleanupOldVisits removes visits older than the retention period.
func (s *Store) CleanupOldVisits(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	if _, err := s.db.Exec("DELETE FROM visits WHERE timestamp < ?", cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.CleanupOldVisits(retentionDays)
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
