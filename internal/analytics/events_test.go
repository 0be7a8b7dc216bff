package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/platform/database"
)

func TestMemoryEventLogger(t *testing.T) {
	logger := analytics.NewMemoryEventLogger()

	err := logger.LogEvent(analytics.Event{
		Kind:     analytics.KindQuery,
		Criteria: map[string]any{"grades": []string{"grade 6"}},
		Matched:  3,
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("Events() = %d events, want 1", len(events))
	}
	if events[0].Kind != analytics.KindQuery {
		t.Errorf("Kind = %q, want %q", events[0].Kind, analytics.KindQuery)
	}
	if events[0].Matched != 3 {
		t.Errorf("Matched = %d, want 3", events[0].Matched)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted")
	}
}

func TestMemoryEventLogger_RequiresKind(t *testing.T) {
	logger := analytics.NewMemoryEventLogger()
	if err := logger.LogEvent(analytics.Event{Matched: 1}); err == nil {
		t.Error("LogEvent() = nil error for event without kind")
	}
}

func TestNopEventLogger(t *testing.T) {
	var logger analytics.NopEventLogger
	if err := logger.LogEvent(analytics.Event{}); err != nil {
		t.Errorf("LogEvent() error = %v, want nil", err)
	}
}

func TestPostgresEventLogger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("browse"),
		tcpostgres.WithUsername("browse"),
		tcpostgres.WithPassword("browse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}

	db, err := database.New(ctx, url, 2, 1)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Pool.Exec(ctx, analytics.Schema); err != nil {
		t.Fatalf("applying schema: %v", err)
	}

	logger := analytics.NewPostgresEventLogger(db.Pool)
	err = logger.LogEvent(analytics.Event{
		Kind:     analytics.KindExport,
		Criteria: map[string]any{"types": []string{"document"}, "lang": "ne"},
		Matched:  12,
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	var kind string
	var matched int
	err = db.Pool.QueryRow(ctx,
		`SELECT kind, matched FROM browse_events ORDER BY id DESC LIMIT 1`).
		Scan(&kind, &matched)
	if err != nil {
		t.Fatalf("reading back event: %v", err)
	}
	if kind != analytics.KindExport || matched != 12 {
		t.Errorf("stored event = (%q, %d), want (%q, 12)", kind, matched, analytics.KindExport)
	}
}
