package query

import "github.com/ole-nepal/epustakalaya-browser/internal/catalog"

// Page slices one page out of the filtered, sorted sequence. The start
// cursor is clamped to [0, max(0, len-batchSize)] so a stale cursor after
// a narrowing re-filter still lands on a real page. Cursor state belongs
// to the renderer; this is a pure function of its arguments.
func Page(records []catalog.ContentRecord, start, batchSize int) []catalog.ContentRecord {
	if batchSize <= 0 || len(records) == 0 {
		return []catalog.ContentRecord{}
	}

	maxStart := len(records) - batchSize
	if maxStart < 0 {
		maxStart = 0
	}
	if start > maxStart {
		start = maxStart
	}
	if start < 0 {
		start = 0
	}

	end := start + batchSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
