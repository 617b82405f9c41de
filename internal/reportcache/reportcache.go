// Package reportcache caches composed reports under an opaque key so a
// repeated submission returns the identical stored response, and purges
// stale entries on a cron schedule.
package reportcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Entry is one cached report.
type Entry struct {
	CacheKey     string
	CreatedAt    time.Time
	ResponseJSON []byte
}

// Store persists cache entries. Get returns nil on a miss.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Key derives the opaque cache key for one scoring submission. The key is
// a digest of the canonical request, so it carries no request data itself.
func Key(birthDate, sessionSeed string, answers []string, extraText string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", birthDate, sessionSeed, strings.Join(answers, ","), extraText)
	return hex.EncodeToString(h.Sum(nil))
}
