// Package query filters, sorts, and paginates the flattened content
// records. It is stateless: every call works on a fresh projection of the
// caller's records and never mutates them, so the renderer can re-run a
// query on each interaction against the same shared slice.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
)

// ErrInvalidCriteria marks a query rejected at the call boundary, so
// callers can tell a bad query apart from one that matched nothing.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// SubjectAll is the selector value meaning "no subject filter".
const SubjectAll = "All"

// Criteria is one set of filter selections from the renderer.
//
// Within a category the selected values compose as OR; across categories
// as AND. An empty selection means "no filter" for every category,
// chapters included.
type Criteria struct {
	Language       Language `json:"language,omitempty"`
	Grades         []string `json:"grades,omitempty"`
	Subjects       []string `json:"subjects,omitempty"`
	Chapters       []string `json:"chapters,omitempty"`
	Types          []string `json:"types,omitempty"`
	ContentSources []string `json:"content_sources,omitempty"`
	Search         string   `json:"search,omitempty"`
	SortBy         string   `json:"sort_by,omitempty"`
	SortAscending  bool     `json:"sort_ascending,omitempty"`
	Start          int      `json:"start,omitempty"`
	BatchSize      int      `json:"batch_size,omitempty"`
}

// Result is the outcome of one query run. Records is the full filtered,
// sorted sequence (pagination is the caller's slice, see Page); Facets
// counts the matched records by content type and always sums to Total.
type Result struct {
	Records []catalog.ContentRecord `json:"records"`
	Total   int                     `json:"total"`
	Facets  map[string]int          `json:"facets"`
}

// Options are the distinct filter values available to the renderer's
// selectors, enumerated on language-projected data so the dropdowns never
// show mixed-language duplicates.
type Options struct {
	Grades         []string `json:"grades"`
	Subjects       []string `json:"subjects"`
	Chapters       []string `json:"chapters"`
	Types          []string `json:"types"`
	ContentSources []string `json:"content_sources"`
}

var sortKeys = []string{"title", "grade", "subject", "chapter"}

// Validate rejects out-of-domain criteria values.
func (c Criteria) Validate() error {
	if !c.Language.Valid() {
		return fmt.Errorf("%w: unknown language %q", ErrInvalidCriteria, c.Language)
	}
	if c.SortBy != "" && !slices.Contains(sortKeys, c.SortBy) {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, c.SortBy)
	}
	for _, t := range c.Types {
		if !slices.Contains(catalog.Types, t) {
			return fmt.Errorf("%w: unknown content type %q", ErrInvalidCriteria, t)
		}
	}
	if c.Start < 0 {
		return fmt.Errorf("%w: negative start %d", ErrInvalidCriteria, c.Start)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("%w: negative batch size %d", ErrInvalidCriteria, c.BatchSize)
	}
	return nil
}

// Run applies the criteria to records and returns the filtered view.
//
// Language projection of subject and chapter happens once, on a copy,
// before any filtering, so the filter values the renderer obtained from
// Options compare against the same projected strings.
func Run(records []catalog.ContentRecord, c Criteria) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	projected := project(records, c.Language)

	matched := make([]catalog.ContentRecord, 0, len(projected))
	for _, rec := range projected {
		if c.matches(rec) {
			matched = append(matched, rec)
		}
	}

	if c.SortBy != "" {
		sortRecords(matched, c.SortBy, c.SortAscending, c.Language)
	}

	facets := make(map[string]int)
	for _, rec := range matched {
		facets[rec.Type]++
	}

	return Result{Records: matched, Total: len(matched), Facets: facets}, nil
}

// Enumerate lists the distinct filter options on projected data, in
// record order.
func Enumerate(records []catalog.ContentRecord, lang Language) Options {
	projected := project(records, lang)

	opts := Options{
		Grades:         []string{},
		Subjects:       []string{},
		Chapters:       []string{},
		Types:          []string{},
		ContentSources: []string{},
	}
	for _, rec := range projected {
		opts.Grades = appendDistinct(opts.Grades, rec.Grade)
		opts.Subjects = appendDistinct(opts.Subjects, rec.Subject)
		opts.Chapters = appendDistinct(opts.Chapters, rec.Chapter)
		opts.Types = appendDistinct(opts.Types, rec.Type)
		if rec.ContentSource != "" {
			opts.ContentSources = appendDistinct(opts.ContentSources, rec.ContentSource)
		}
	}
	return opts
}

// project copies the records with subject and chapter reduced to one
// language. The input slice is never touched.
func project(records []catalog.ContentRecord, lang Language) []catalog.ContentRecord {
	out := make([]catalog.ContentRecord, len(records))
	for i, rec := range records {
		rec.Subject = lang.Project(rec.Subject)
		rec.Chapter = lang.Project(rec.Chapter)
		out[i] = rec
	}
	return out
}

func (c Criteria) matches(rec catalog.ContentRecord) bool {
	if len(c.Grades) > 0 && !slices.Contains(c.Grades, rec.Grade) {
		return false
	}
	if subjects := effective(c.Subjects); len(subjects) > 0 && !slices.Contains(subjects, rec.Subject) {
		return false
	}
	if len(c.Chapters) > 0 && !slices.Contains(c.Chapters, rec.Chapter) {
		return false
	}
	if len(c.Types) > 0 && !slices.Contains(c.Types, rec.Type) {
		return false
	}
	if len(c.ContentSources) > 0 && !slices.Contains(c.ContentSources, rec.ContentSource) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		if !strings.Contains(strings.ToLower(rec.Title), q) &&
			!strings.Contains(strings.ToLower(rec.Subject), q) &&
			!strings.Contains(strings.ToLower(rec.Chapter), q) {
			return false
		}
	}
	return true
}

// effective drops the "All" placeholder and empty entries from a subject
// selection; a selection of only placeholders is no filter at all.
func effective(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" && v != SubjectAll {
			out = append(out, v)
		}
	}
	return out
}

func appendDistinct(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
