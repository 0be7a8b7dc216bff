package api_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/query"
)

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := strings.Replace(httpURL, "http://", "ws://", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func TestHandleWS_QueryRoundTrip(t *testing.T) {
	events := analytics.NewMemoryEventLogger()
	ts := newTestServer(t, events)
	conn := dialWS(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, conn, query.Criteria{Grades: []string{"grade 6"}}); err != nil {
		t.Fatalf("writing criteria: %v", err)
	}

	var body contentsResponse
	if err := wsjson.Read(ctx, conn, &body); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("Total = %d, want 2", body.Total)
	}
	if body.BatchSize != 9 {
		t.Errorf("BatchSize = %d, want default 9", body.BatchSize)
	}

	recorded := events.Events()
	if len(recorded) != 1 || recorded[0].Kind != analytics.KindWSQuery {
		t.Errorf("events = %v, want one ws_query event", recorded)
	}
}

func TestHandleWS_MalformedMessageKeepsSession(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A frame that is not JSON at all must get an error frame back, not a
	// connection close.
	if err := conn.Write(ctx, websocket.MessageText, []byte("not json at all")); err != nil {
		t.Fatalf("writing raw frame: %v", err)
	}
	var errFrame struct {
		Error string `json:"error"`
	}
	if err := wsjson.Read(ctx, conn, &errFrame); err != nil {
		t.Fatalf("reading error frame: %v", err)
	}
	if errFrame.Error == "" {
		t.Fatal("expected an error frame for a malformed message")
	}

	if err := wsjson.Write(ctx, conn, query.Criteria{}); err != nil {
		t.Fatalf("writing criteria after malformed frame: %v", err)
	}
	var body contentsResponse
	if err := wsjson.Read(ctx, conn, &body); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if body.Total != 3 {
		t.Errorf("Total = %d, want 3", body.Total)
	}
}

func TestHandleWS_InvalidCriteriaKeepsSession(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Bad criteria must come back as an error frame, not a close.
	if err := wsjson.Write(ctx, conn, query.Criteria{SortBy: "color"}); err != nil {
		t.Fatalf("writing criteria: %v", err)
	}
	var errFrame struct {
		Error string `json:"error"`
	}
	if err := wsjson.Read(ctx, conn, &errFrame); err != nil {
		t.Fatalf("reading error frame: %v", err)
	}
	if errFrame.Error == "" {
		t.Fatal("expected an error frame for invalid criteria")
	}

	// The session survives: a corrected message still answers.
	if err := wsjson.Write(ctx, conn, query.Criteria{}); err != nil {
		t.Fatalf("writing corrected criteria: %v", err)
	}
	var body contentsResponse
	if err := wsjson.Read(ctx, conn, &body); err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if body.Total != 3 {
		t.Errorf("Total = %d, want 3", body.Total)
	}
}
