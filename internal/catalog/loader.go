package catalog

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/crypto/blake2b"
)

// ErrCatalogRead marks a source file or directory that could not be read.
// Individual unreadable grade files are skipped and reported, not returned;
// Load fails with this error only when no catalog data is loadable at all.
var ErrCatalogRead = errors.New("catalog read failed")

// Loader reads grade catalog files from a data directory.
type Loader struct {
	dataDir string
	schema  *gojsonschema.Schema
}

// NewLoader creates a loader rooted at dataDir.
func NewLoader(dataDir string) (*Loader, error) {
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCatalogRead, dataDir)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(catalogSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", err)
	}

	return &Loader{dataDir: dataDir, schema: schema}, nil
}

// Load reads every grade file, validates it, and normalizes the lot.
//
// A pre-flattened snapshot (all_content_<mode>.json, a plain array of
// records) bypasses normalization entirely when present. Partial catalogs
// are a normal operating condition: files that are missing, unparsable, or
// structurally invalid are skipped with a warning and listed in the report.
func (l *Loader) Load(mode Mode, subjects map[string]string) ([]ContentRecord, Report, error) {
	var rep Report

	if records, ok := l.loadFlattened(mode, &rep); ok {
		return records, rep, nil
	}

	paths, err := filepath.Glob(filepath.Join(l.dataDir, "grade*.json"))
	if err != nil {
		return nil, rep, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}
	sort.Strings(paths)

	var catalogs []RawCatalog
	for _, path := range paths {
		cat, err := l.readCatalog(path)
		if err != nil {
			slog.Warn("skipping catalog file", "path", path, "error", err)
			rep.SkippedFiles = append(rep.SkippedFiles, filepath.Base(path))
			continue
		}
		catalogs = append(catalogs, cat)
		rep.Files++
	}

	if rep.Files == 0 {
		return nil, rep, fmt.Errorf("%w: no readable catalog files in %s", ErrCatalogRead, l.dataDir)
	}

	records, nrep := Normalize(catalogs, mode, subjects)
	nrep.Files = rep.Files
	nrep.SkippedFiles = rep.SkippedFiles
	return records, nrep, nil
}

// loadFlattened tries the pre-flattened snapshot for this mode.
func (l *Loader) loadFlattened(mode Mode, rep *Report) ([]ContentRecord, bool) {
	path := filepath.Join(l.dataDir, "all_content_"+string(mode)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false // snapshot is optional
	}

	var records []ContentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("ignoring unparsable flattened snapshot", "path", path, "error", err)
		rep.SkippedFiles = append(rep.SkippedFiles, filepath.Base(path))
		return nil, false
	}

	slog.Info("loaded flattened snapshot", "path", path, "records", len(records))
	rep.Files = 1
	return records, true
}

func (l *Loader) readCatalog(path string) (RawCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}

	result, err := l.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrCatalogRead, result.Errors()[0].String())
	}

	var cat RawCatalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}
	return cat, nil
}

// Fingerprint digests the names and contents of every catalog file in the
// data directory. It keys the snapshot cache so a changed source file
// invalidates the cached normalization.
func (l *Loader) Fingerprint() (string, error) {
	paths, err := filepath.Glob(filepath.Join(l.dataDir, "*.json"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}
	sort.Strings(paths)

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // skipped files don't contribute, same as Load
		}
		h.Write([]byte(filepath.Base(path)))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
