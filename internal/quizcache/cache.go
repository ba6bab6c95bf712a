package quizcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/quizai/internal/telemetry"
)

// Entry is one cached generation result.
type Entry struct {
	Value       json.RawMessage `json:"value"`
	Placeholder bool            `json:"placeholder"`
	Err         string          `json:"error,omitempty"`
	StoredAt    time.Time       `json:"stored_at"`
}

// Options tunes a Cache.
type Options struct {
	// FailureTTL is how long placeholder results stay cached. Zero disables
	// caching of placeholders.
	FailureTTL time.Duration

	// TTL applies to good results. Zero keeps them until the store drops them.
	TTL time.Duration
}

// Cache memoizes generation results and collapses concurrent fills of the
// same key into one call.
type Cache struct {
	store Store
	opts  Options
	group singleflight.Group
	now   func() time.Time
}

// New returns a Cache over store. A nil store gets a MemoryStore.
func New(store Store, opts Options) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{store: store, opts: opts, now: time.Now}
}

// Lookup returns the cached entry for key. Store failures count as misses.
func (c *Cache) Lookup(ctx context.Context, key string) (Entry, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			telemetry.L().Warn().Err(err).Str("cache_key", key).Msg("cache read failed")
		}
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		telemetry.L().Warn().Err(err).Str("cache_key", key).Msg("dropping undecodable cache entry")
		_ = c.store.Delete(ctx, key)
		return Entry{}, false
	}
	return e, true
}

// Store saves e under key, applying the failure policy to placeholders.
// It reports whether the entry was kept.
func (c *Cache) Store(ctx context.Context, key string, e Entry) bool {
	ttl := c.opts.TTL
	if e.Placeholder {
		if c.opts.FailureTTL <= 0 {
			return false
		}
		ttl = c.opts.FailureTTL
	}
	if e.StoredAt.IsZero() {
		e.StoredAt = c.now()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		telemetry.L().Warn().Err(err).Str("cache_key", key).Msg("cache encode failed")
		return false
	}
	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		telemetry.L().Warn().Err(err).Str("cache_key", key).Msg("cache write failed")
		return false
	}
	return true
}

// Invalidate drops key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

type fillResult struct {
	entry Entry
	err   error
}

// Do returns the cached entry for key or calls fill to produce it. With
// refresh set the lookup is skipped. Concurrent calls for the same key share
// one fill. fill may return an entry together with an error; both are
// passed back and the entry is stored subject to the failure policy.
func (c *Cache) Do(ctx context.Context, key string, refresh bool, fill func(context.Context) (Entry, error)) (Entry, bool, error) {
	if !refresh {
		if e, ok := c.Lookup(ctx, key); ok {
			return e, true, nil
		}
	}

	v, _, _ := c.group.Do(key, func() (any, error) {
		e, err := fill(ctx)
		if e.Value != nil {
			e.StoredAt = c.now()
			c.Store(ctx, key, e)
		}
		return fillResult{entry: e, err: err}, nil
	})

	res, ok := v.(fillResult)
	if !ok {
		return Entry{}, false, fmt.Errorf("unexpected singleflight result %T", v)
	}
	return res.entry, false, res.err
}
