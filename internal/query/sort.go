package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ole-nepal/epustakalaya-browser/internal/catalog"
)

// sortRecords stably sorts in place by the given key. Comparison uses the
// collation rules of the selected display language so Devanagari titles
// order sensibly in Nepali mode.
func sortRecords(records []catalog.ContentRecord, key string, ascending bool, lang Language) {
	col := collate.New(collationTag(lang))
	field := fieldSelector(key)

	sort.SliceStable(records, func(i, j int) bool {
		cmp := col.CompareString(field(records[i]), field(records[j]))
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
}

func collationTag(lang Language) language.Tag {
	if lang.orDefault() == LangNepali {
		return language.Make("ne")
	}
	return language.English
}

func fieldSelector(key string) func(catalog.ContentRecord) string {
	switch key {
	case "grade":
		return func(r catalog.ContentRecord) string { return r.Grade }
	case "subject":
		return func(r catalog.ContentRecord) string { return r.Subject }
	case "chapter":
		return func(r catalog.ContentRecord) string { return r.Chapter }
	default:
		return func(r catalog.ContentRecord) string { return r.Title }
	}
}
