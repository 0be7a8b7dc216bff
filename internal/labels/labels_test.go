package labels_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ole-nepal/epustakalaya-browser/internal/labels"
)

func TestDefault_Lookup(t *testing.T) {
	table := labels.Default()

	tests := []struct {
		key, lang, want string
	}{
		{"document", "en", "Document"},
		{"document", "ne", "कागजात"},
		{"total", "ne", "जम्मा क्रियाकलाप"},
		{"grade", "", "Grade"},
		{"no-such-key", "en", "no-such-key"},
	}
	for _, tt := range tests {
		if got := table.Lookup(tt.key, tt.lang); got != tt.want {
			t.Errorf("Lookup(%q, %q) = %q, want %q", tt.key, tt.lang, got, tt.want)
		}
	}
}

func TestLoad_MergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	content := "title: {en: Heading, ne: शीर्षक}\ncustom: {en: Custom}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := labels.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := table.Lookup("title", "en"); got != "Heading" {
		t.Errorf("overridden Lookup(title) = %q, want Heading", got)
	}
	if got := table.Lookup("custom", "en"); got != "Custom" {
		t.Errorf("Lookup(custom) = %q, want Custom", got)
	}
	// Keys without an override keep their defaults.
	if got := table.Lookup("grade", "ne"); got != "कक्षा" {
		t.Errorf("Lookup(grade, ne) = %q, want default", got)
	}
	// A key with no Nepali translation falls back to English.
	if got := table.Lookup("custom", "ne"); got != "Custom" {
		t.Errorf("Lookup(custom, ne) = %q, want English fallback", got)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	table, err := labels.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := table.Lookup("audio", "en"); got != "Audio" {
		t.Errorf("Lookup(audio) = %q, want Audio", got)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := labels.Load(path); err == nil {
		t.Error("Load() = nil error for unparsable file")
	}
}

func TestLoadSubjectMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	content := "Sci: Science [[विज्ञान]]\nscience: Science [[विज्ञान]]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := labels.LoadSubjectMap(path)
	if err != nil {
		t.Fatalf("LoadSubjectMap() error = %v", err)
	}
	if m["Sci"] != "Science [[विज्ञान]]" {
		t.Errorf("m[Sci] = %q", m["Sci"])
	}
}

func TestLoadSubjectMap_Missing(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "absent.yaml")} {
		m, err := labels.LoadSubjectMap(path)
		if err != nil {
			t.Fatalf("LoadSubjectMap(%q) error = %v", path, err)
		}
		if m == nil || len(m) != 0 {
			t.Errorf("LoadSubjectMap(%q) = %v, want empty map", path, m)
		}
	}
}
