package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"multiplatform-example/backend/bridge"
)

// NewService creates a new history service. limit <= 0 uses DefaultLimit.
// signalPath may be empty to skip touching the signal file.
func NewService(db *sql.DB, limit int, signalPath string) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{db: db, limit: limit, signalPath: signalPath}
}

// Initialize creates the browser history table if it doesn't exist
func (s *Service) Initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS browser_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// Add stores entry, trims the inbox to the newest entries and touches the
// signal file
func (s *Service) Add(entry bridge.HistoryEntry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO browser_history (url, title, timestamp) VALUES (?, ?, ?)",
		entry.URL, entry.Title, int64(entry.Timestamp),
	)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}

	_, err = tx.Exec(
		"DELETE FROM browser_history WHERE id NOT IN (SELECT id FROM browser_history ORDER BY id DESC LIMIT ?)",
		s.limit,
	)
	if err != nil {
		return 0, fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	// the entry is committed; a missed signal only delays the UI until the
	// next drain
	if s.signalPath != "" {
		if err := touch(s.signalPath); err != nil {
			slog.Warn("Failed to signal history inbox", "path", s.signalPath, "error", err)
		}
	}
	return id, nil
}

// Since returns entries newer than afterID, oldest first
func (s *Service) Since(afterID int64) ([]StoredEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, url, title, timestamp, received_at FROM browser_history WHERE id > ? ORDER BY id ASC",
		afterID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]StoredEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastID returns the newest id in the inbox, or 0 when empty
func (s *Service) LastID() (int64, error) {
	var id sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(id) FROM browser_history").Scan(&id); err != nil {
		return 0, fmt.Errorf("query last id: %w", err)
	}
	return id.Int64, nil
}

// Recent returns the newest entries whose url or title starts with prefix
func (s *Service) Recent(prefix string) []StoredEntry {
	entries := make([]StoredEntry, 0)

	query := `SELECT id, url, title, timestamp, received_at FROM browser_history
		WHERE url LIKE ? COLLATE NOCASE OR title LIKE ? COLLATE NOCASE
		ORDER BY id DESC LIMIT 10`
	rows, err := s.db.Query(query, prefix+"%", prefix+"%")
	if err != nil {
		return entries
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}

	return entries
}

func scanEntry(rows *sql.Rows) (StoredEntry, error) {
	var (
		e  StoredEntry
		ts int64
	)
	if err := rows.Scan(&e.ID, &e.Entry.URL, &e.Entry.Title, &ts, &e.ReceivedAt); err != nil {
		return StoredEntry{}, fmt.Errorf("scan history entry: %w", err)
	}
	e.Entry.Timestamp = uint64(ts)
	return e, nil
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d", time.Now().UnixMilli()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
