package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ole-nepal/epustakalaya-browser/internal/platform/cache"
)

// snapshotTTL bounds how long a cached normalization outlives its sources.
// The fingerprint already invalidates on content change; the TTL only keeps
// dead keys from accumulating.
const snapshotTTL = 24 * time.Hour

// LoadCached is Load with a Redis snapshot in front of it. The cache key is
// the mode plus a fingerprint of the source files, so edits to any catalog
// invalidate the snapshot. Every cache failure degrades to a direct load;
// the cache is an accelerator, never a dependency.
func (l *Loader) LoadCached(ctx context.Context, c *cache.Cache, mode Mode, subjects map[string]string) ([]ContentRecord, Report, error) {
	if c == nil {
		return l.Load(mode, subjects)
	}

	fp, err := l.Fingerprint()
	if err != nil {
		slog.Warn("catalog fingerprint failed, bypassing snapshot cache", "error", err)
		return l.Load(mode, subjects)
	}
	key := fmt.Sprintf("catalog:%s:%s", mode, fp)

	if data, err := c.GetBytes(ctx, key); err == nil {
		var records []ContentRecord
		if err := json.Unmarshal(data, &records); err == nil {
			slog.Info("catalog snapshot cache hit", "mode", mode, "records", len(records))
			return records, Report{CacheHit: true}, nil
		}
		slog.Warn("discarding corrupt catalog snapshot", "key", key)
	}

	records, rep, err := l.Load(mode, subjects)
	if err != nil {
		return nil, rep, err
	}

	if data, err := json.Marshal(records); err == nil {
		if err := c.SetBytes(ctx, key, data, snapshotTTL); err != nil {
			slog.Warn("storing catalog snapshot failed", "error", err)
		}
	}
	return records, rep, nil
}
