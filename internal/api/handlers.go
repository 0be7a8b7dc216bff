package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ole-nepal/epustakalaya-browser/internal/analytics"
	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
	"github.com/ole-nepal/epustakalaya-browser/internal/export"
	"github.com/ole-nepal/epustakalaya-browser/internal/query"
)

// defaultBatchSize matches the dashboard's 3x3 card grid.
const defaultBatchSize = 9

type contentsResponse struct {
	Total     int                     `json:"total"`
	Start     int                     `json:"start"`
	BatchSize int                     `json:"batch_size"`
	Records   []catalog.ContentRecord `json:"records"`
	Facets    map[string]int          `json:"facets"`
}

// criteriaFromQuery maps URL query parameters onto filter criteria.
// Repeatable params (grade, subject, chapter, type, source) OR together.
func criteriaFromQuery(v url.Values) (query.Criteria, error) {
	c := query.Criteria{
		Language:       query.Language(v.Get("lang")),
		Grades:         v["grade"],
		Subjects:       v["subject"],
		Chapters:       v["chapter"],
		Types:          v["type"],
		ContentSources: v["source"],
		Search:         v.Get("q"),
		SortBy:         v.Get("sort"),
		SortAscending:  v.Get("order") != "desc",
		BatchSize:      defaultBatchSize,
	}

	var err error
	if c.Start, err = intParam(v, "start", 0); err != nil {
		return c, err
	}
	if c.BatchSize, err = intParam(v, "batch", defaultBatchSize); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func intParam(v url.Values, key string, fallback int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", query.ErrInvalidCriteria, key, raw)
	}
	return n, nil
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := query.Run(s.records, c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	page := query.Page(res.Records, c.Start, c.BatchSize)
	s.logEvent(analytics.KindQuery, c, res.Total)

	writeJSON(w, http.StatusOK, contentsResponse{
		Total:     res.Total,
		Start:     c.Start,
		BatchSize: c.BatchSize,
		Records:   page,
		Facets:    res.Facets,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	lang := query.Language(r.URL.Query().Get("lang"))
	if !lang.Valid() {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: unknown language %q", query.ErrInvalidCriteria, lang))
		return
	}
	writeJSON(w, http.StatusOK, query.Enumerate(s.records, lang))
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	resolved := make(map[string]string)
	for _, key := range s.labels.Keys() {
		resolved[key] = s.labels.Lookup(key, lang)
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := query.Run(s.records, c)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.logEvent(analytics.KindExport, c, res.Total)

	switch format := r.URL.Query().Get("format"); format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.xlsx"`)
		err = export.XLSX(w, res.Records)
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.csv"`)
		err = export.CSV(w, res.Records)
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("%w: unknown export format %q", query.ErrInvalidCriteria, format))
		return
	}
	if err != nil {
		// The response is already streaming; all that is left is to log it.
		slog.Error("export failed", "error", err)
	}
}

func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errors.New("path parameter is required"))
		return
	}

	data, contentType := s.resolver.FetchOrPlaceholder(r.Context(), path)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"mode":     s.mode,
		"records":  len(s.records),
		"warnings": s.report.Warnings(),
	})
}
