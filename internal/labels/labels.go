// Package labels holds the bilingual display-label tables and the subject
// standardization map. Both are static configuration loaded once at startup
// and passed into the normalizer and handlers explicitly; nothing here is
// mutable after load.
package labels

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one label in both display languages.
type Entry struct {
	EN string `yaml:"en"`
	NE string `yaml:"ne"`
}

// Table maps internal keys (content type tags, column names) to display
// strings. The core only ever hands internal keys to the renderer; the
// renderer resolves them through this table.
type Table struct {
	entries map[string]Entry
}

// defaultLabels covers every key the handlers emit, so the server runs
// without any label file present.
const defaultLabels = `
document:       {en: Document, ne: कागजात}
audio:          {en: Audio, ne: श्रव्य सामग्री}
video:          {en: Video, ne: भिडियो}
interactive:    {en: Interactive, ne: अन्तरक्रियात्मक}
title:          {en: Title, ne: शीर्षक}
grade:          {en: Grade, ne: कक्षा}
subject:        {en: Subject, ne: विषय}
chapter:        {en: Chapter, ne: पाठ}
type:           {en: Type, ne: प्रकार}
name:           {en: Name, ne: नाम}
content_link:   {en: Link, ne: लिङ्क}
content_source: {en: Source, ne: स्रोत}
total:          {en: Total Activities, ne: जम्मा क्रियाकलाप}
`

// Default returns the built-in label table.
func Default() *Table {
	var entries map[string]Entry
	if err := yaml.Unmarshal([]byte(defaultLabels), &entries); err != nil {
		// The default table is a compile-time constant; failing to parse it
		// is a programming error, not a runtime condition.
		panic(fmt.Sprintf("labels: bad default table: %v", err))
	}
	return &Table{entries: entries}
}

// Load reads a YAML label file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading label table: %w", err)
	}

	var overrides map[string]Entry
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing label table %s: %w", path, err)
	}

	for k, v := range overrides {
		t.entries[k] = v
	}
	slog.Info("label table loaded", "path", path, "entries", len(overrides))
	return t, nil
}

// Lookup resolves a key for a display language, falling back Nepali ->
// English -> the key itself so a missing translation never blanks the UI.
func (t *Table) Lookup(key, lang string) string {
	e, ok := t.entries[key]
	if !ok {
		return key
	}
	if lang == "ne" && e.NE != "" {
		return e.NE
	}
	if e.EN != "" {
		return e.EN
	}
	return key
}

// Keys returns all known label keys.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// LoadSubjectMap reads the raw-subject -> canonical-subject table used by
// the normalizer. The file is optional: a missing path yields an empty map
// so normalization simply passes subjects through.
func LoadSubjectMap(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("subject map not found, subjects pass through unmapped", "path", path)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading subject map: %w", err)
	}

	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing subject map %s: %w", path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	slog.Info("subject map loaded", "path", path, "entries", len(m))
	return m, nil
}
