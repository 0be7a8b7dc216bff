package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/query"
)

// wsError is an error frame sent for a rejected criteria message. The
// connection stays open so the renderer can correct and resend.
type wsError struct {
	Error string `json:"error"`
}

// handleWS runs the live-query channel: the renderer writes criteria JSON
// on every filter interaction and reads back the same payload as
// /api/contents.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server closing")

	ctx := r.Context()
	slog.Info("live query session started", "remote", r.RemoteAddr)

	for {
		// Read the raw frame and unmarshal by hand: wsjson closes the
		// connection on a decode failure, and a malformed message must get
		// an error frame with the session kept open.
		_, data, err := conn.Read(ctx)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		var c query.Criteria
		if err := json.Unmarshal(data, &c); err != nil {
			if writeErr := wsjson.Write(ctx, conn, wsError{Error: "malformed criteria message"}); writeErr != nil {
				return
			}
			continue
		}

		if err := s.answer(ctx, conn, c); err != nil {
			slog.Warn("live query session ended", "error", err)
			return
		}
	}
}

func (s *Server) answer(ctx context.Context, conn *websocket.Conn, c query.Criteria) error {
	res, err := query.Run(s.records, c)
	if err != nil {
		return wsjson.Write(ctx, conn, wsError{Error: err.Error()})
	}

	batch := c.BatchSize
	if batch == 0 {
		batch = defaultBatchSize
	}
	page := query.Page(res.Records, c.Start, batch)
	s.logEvent(analytics.KindWSQuery, c, res.Total)

	return wsjson.Write(ctx, conn, contentsResponse{
		Total:     res.Total,
		Start:     c.Start,
		BatchSize: batch,
		Records:   page,
		Facets:    res.Facets,
	})
}
