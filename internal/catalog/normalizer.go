package catalog

import (
	"log/slog"
	"sort"
)

// missingLink stands in for an absent link fragment so the built URL is
// visibly degenerate instead of silently pointing at the bare base host.
const missingLink = "None"

// Report summarizes what a load/normalize pass did and what it had to skip.
type Report struct {
	Files          int      // source files read successfully
	SkippedFiles   []string // files skipped (missing, unparsable, invalid)
	DroppedItems   int      // items that produced no record (no files, unknown type, no id)
	MalformedItems int      // records emitted with a sentinel-substituted field
	CacheHit       bool     // records came from the snapshot cache
}

// Warnings is the total number of recoverable problems encountered.
func (r Report) Warnings() int {
	return len(r.SkippedFiles) + r.DroppedItems + r.MalformedItems
}

// Normalize flattens raw catalogs into one uniform record sequence.
//
// subjects is an exact-match standardization table for raw subject strings;
// unmapped values pass through unchanged. Map iteration order in Go is
// random, so grade/subject/chapter keys are walked in sorted order to keep
// the output deterministic across runs.
//
// Items of an unknown type, items without an id, and document/audio items
// with an empty file list contribute no records; they are counted in the
// report rather than aborting the batch.
func Normalize(catalogs []RawCatalog, mode Mode, subjects map[string]string) ([]ContentRecord, Report) {
	var records []ContentRecord
	var rep Report

	for _, cat := range catalogs {
		for _, grade := range sortedKeys(cat) {
			for _, subject := range sortedKeys(cat[grade]) {
				for _, chapter := range sortedKeys(cat[grade][subject]) {
					for _, item := range cat[grade][subject][chapter] {
						records = append(records, normalizeItem(item, grade, subject, chapter, mode, subjects, &rep)...)
					}
				}
			}
		}
	}
	return records, rep
}

func normalizeItem(item RawContentItem, grade, subject, chapter string, mode Mode, subjects map[string]string, rep *Report) []ContentRecord {
	if item.ID == "" {
		slog.Debug("dropping item without id", "title", item.Title, "grade", grade)
		rep.DroppedItems++
		return nil
	}

	base := ContentRecord{
		ContentID:     item.ID,
		Title:         item.Title,
		Type:          item.Type,
		Grade:         resolve(item.Grade, grade),
		Subject:       resolve(item.Subject, subject),
		Chapter:       resolve(item.Chapter, chapter),
		ContentSource: item.ContentSource,
	}

	var out []ContentRecord
	switch item.Type {
	case TypeDocument, TypeAudio:
		if len(item.FileUpload) == 0 {
			// Upstream catalogs ship the occasional fileless document; it has
			// nothing to link to, so it is dropped rather than rendered dead.
			slog.Debug("dropping item without files", "id", item.ID, "type", item.Type)
			rep.DroppedItems++
			return nil
		}
		for _, f := range item.FileUpload {
			out = append(out, recordFromFile(base, f, mode.BaseURL(), rep))
		}

	case TypeVideo:
		refs := item.EmbedLink
		linkBase := "" // embed links are already absolute
		if mode == ModeOffline {
			refs = item.FileUpload
			linkBase = mode.BaseURL()
		}
		if len(refs) == 0 {
			rep.DroppedItems++
			return nil
		}
		for _, f := range refs {
			rec := recordFromFile(base, f, linkBase, rep)
			// Videos take the grade of the enclosing catalog key, not the
			// per-entry grade; the entries carry stale values in some feeds.
			rec.Grade = grade
			out = append(out, rec)
		}

	case TypeInteractive:
		out = append(out, recordFromInteractive(base, item, mode, rep))

	default:
		slog.Debug("dropping item of unknown type", "id", item.ID, "type", item.Type)
		rep.DroppedItems++
		return nil
	}

	for i := range out {
		if out[i].Title == "" {
			out[i].Title = out[i].Name
		}
		if out[i].Title == "" || out[i].Title == NotApplicable {
			out[i].Title = "untitled"
		}
		if canonical, ok := subjects[out[i].Subject]; ok {
			out[i].Subject = canonical
		}
	}
	return out
}

func recordFromFile(base ContentRecord, f FileRef, linkBase string, rep *Report) ContentRecord {
	rec := base
	rec.FileID = f.ID
	rec.Name = f.Name
	rec.Grade = resolve(f.Grade, rec.Grade)
	rec.Subject = resolve(f.Subject, rec.Subject)
	rec.Chapter = resolve(f.Chapter, rec.Chapter)
	rec.ContentLink = linkBase + fragment(f.Link, rep)
	return rec
}

func recordFromInteractive(base ContentRecord, item RawContentItem, mode Mode, rep *Report) ContentRecord {
	domain := item.OnlineDomain
	if mode == ModeOffline {
		domain = item.OfflineDomain
	}
	rec := base
	rec.Name = NotApplicable
	rec.FileID = NotApplicable
	// Concatenation is literal; a trailing slash on the domain plus a
	// leading slash on the path yields a double slash, as upstream does.
	rec.ContentLink = domain + fragment(item.LinkToContent, rep)
	if item.PublisherLogo != "" {
		rec.PublisherLogo = domain + item.PublisherLogo
	}
	return rec
}

// fragment returns the link fragment, substituting a visible sentinel when
// the field is absent so the record survives with a degenerate link.
func fragment(link *string, rep *Report) string {
	if link == nil {
		rep.MalformedItems++
		return missingLink
	}
	return *link
}

// resolve picks the most specific value available: the candidate when set,
// otherwise the fallback from the enclosing scope.
func resolve(candidate, fallback string) string {
	if candidate != "" {
		return candidate
	}
	return fallback
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
