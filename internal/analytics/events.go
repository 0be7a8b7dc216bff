// Package analytics records browse activity (queries, exports) so the
// content team can see what teachers actually look for. Logging is
// best-effort: a failed insert is warned about and never surfaces on the
// request path.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// Event kinds.
const (
	KindQuery   = "query"
	KindExport  = "export"
	KindWSQuery = "ws_query"
)

// Event is one recorded browse interaction.
type Event struct {
	Kind      string         `json:"kind"`
	Criteria  map[string]any `json:"criteria,omitempty"`
	Matched   int            `json:"matched"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventLogger defines event logging behavior.
type EventLogger interface {
	LogEvent(event Event) error
}

// NopEventLogger ignores all events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(Event) error {
	return nil
}

// MemoryEventLogger stores events in memory for tests.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{events: []Event{}}
}

func (l *MemoryEventLogger) LogEvent(event Event) error {
	if event.Kind == "" {
		return fmt.Errorf("event kind is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	return nil
}

func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event{}, l.events...)
}

// PostgresEventLogger inserts events into the browse_events table.
type PostgresEventLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLogger(pool *pgxpool.Pool) *PostgresEventLogger {
	return &PostgresEventLogger{pool: pool}
}

// Schema is the DDL for the browse_events table; applied by the operator,
// kept here so the logger and its migration cannot drift apart.
const Schema = `
CREATE TABLE IF NOT EXISTS browse_events (
	id         BIGSERIAL PRIMARY KEY,
	kind       TEXT NOT NULL,
	criteria   JSONB NOT NULL DEFAULT '{}'::jsonb,
	matched    INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func (l *PostgresEventLogger) LogEvent(event Event) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("event logger pool is nil")
	}
	if event.Kind == "" {
		return fmt.Errorf("event kind is required")
	}

	criteria := event.Criteria
	if criteria == nil {
		criteria = map[string]any{}
	}
	data, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("marshal event criteria: %w", err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	_, err = l.pool.Exec(ctx,
		`INSERT INTO browse_events (kind, criteria, matched, created_at)
		 VALUES ($1, $2::jsonb, $3, $4)`,
		event.Kind,
		string(data),
		event.Matched,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert browse event: %w", err)
	}

	slog.Debug("browse event logged", "kind", event.Kind, "matched", event.Matched)
	return nil
}
