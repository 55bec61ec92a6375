package internal

import (
	"database/sql"
	"fmt"
	"time"
)

// Usage event statuses.
const (
	UsageStatusSuccess = "success"
	UsageStatusError   = "error"
)

// UsageEvent is one recorded message exchange event: one message, one event.
// The admin dashboard consumes these; this side only records them.
type UsageEvent struct {
	SessionID      string
	Namespace      string
	Role           string
	Model          string
	Status         string
	ContentLength  int
	ResponseTimeMs float64 // only set for assistant events
	CreatedAt      time.Time
}

// UsageLogger appends usage events to the usage_log table in the store's
// database
type UsageLogger struct {
	db *sql.DB
}

// NewUsageLogger creates a logger over an already-opened database
func NewUsageLogger(db *sql.DB) *UsageLogger {
	return &UsageLogger{db: db}
}

// Record appends one event. The caller decides whether a failure matters;
// the pipeline treats it as log-and-continue.
func (u *UsageLogger) Record(event UsageEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var responseTime sql.NullFloat64
	if event.Role == RoleAssistant {
		responseTime = sql.NullFloat64{Float64: event.ResponseTimeMs, Valid: true}
	}

	_, err := u.db.Exec(
		`INSERT INTO usage_log (session_id, namespace, role, model, status, content_length, response_time_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.SessionID, event.Namespace, event.Role, event.Model,
		event.Status, event.ContentLength, responseTime, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage event: %w", err)
	}
	return nil
}

// Since returns events recorded at or after the given time, oldest first
func (u *UsageLogger) Since(t time.Time) ([]UsageEvent, error) {
	rows, err := u.db.Query(
		`SELECT session_id, namespace, role, model, status, content_length, response_time_ms, created_at
		 FROM usage_log WHERE created_at >= ? ORDER BY created_at ASC`,
		t,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage events: %w", err)
	}
	defer rows.Close()

	var events []UsageEvent
	for rows.Next() {
		var event UsageEvent
		var model sql.NullString
		var responseTime sql.NullFloat64
		if err := rows.Scan(&event.SessionID, &event.Namespace, &event.Role, &model,
			&event.Status, &event.ContentLength, &responseTime, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan usage event: %w", err)
		}
		event.Model = model.String
		event.ResponseTimeMs = responseTime.Float64
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("usage event iteration failed: %w", err)
	}
	return events, nil
}
