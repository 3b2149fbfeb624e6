package history

import (
	"database/sql"
	"time"

	"multiplatform-example/backend/bridge"
)

// DefaultLimit is how many entries the inbox keeps
const DefaultLimit = 100

// SignalFileName is touched after every write so the UI process can drain
const SignalFileName = "history.signal"

// StoredEntry is a history entry as kept in the inbox
type StoredEntry struct {
	ID         int64               `json:"id"`
	Entry      bridge.HistoryEntry `json:"entry"`
	ReceivedAt time.Time           `json:"receivedAt"`
}

// Service handles the browser history inbox
type Service struct {
	db         *sql.DB
	limit      int
	signalPath string
}
