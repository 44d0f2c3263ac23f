// Package cache keeps a redis JSON mirror of the per-user affordance lists
// (bookmarks, recently viewed) that the portal UI reads on every page load.
// It is a cache, not a source of truth: reads fall through to the store on
// miss and every mutating write invalidates the user's keys.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Mirror struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMirror(rdb *redis.Client, ttl time.Duration) *Mirror {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Mirror{rdb: rdb, ttl: ttl}
}

func bookmarkKey(userID string) string { return fmt.Sprintf("mirror:bookmarks:%s", userID) }
func recentKey(userID string) string   { return fmt.Sprintf("mirror:recent:%s", userID) }

// GetBookmarks returns the cached bookmark list, or ok=false on miss.
func (m *Mirror) GetBookmarks(ctx context.Context, userID string, out any) bool {
	return m.get(ctx, bookmarkKey(userID), out)
}

func (m *Mirror) SetBookmarks(ctx context.Context, userID string, rows any) {
	m.set(ctx, bookmarkKey(userID), rows)
}

func (m *Mirror) GetRecent(ctx context.Context, userID string, out any) bool {
	return m.get(ctx, recentKey(userID), out)
}

func (m *Mirror) SetRecent(ctx context.Context, userID string, rows any) {
	m.set(ctx, recentKey(userID), rows)
}

// Invalidate drops both mirrored lists for the user after any write.
func (m *Mirror) Invalidate(ctx context.Context, userID string) {
	if m == nil || m.rdb == nil {
		return
	}
	_ = m.rdb.Del(ctx, bookmarkKey(userID), recentKey(userID)).Err()
}

func (m *Mirror) get(ctx context.Context, key string, out any) bool {
	if m == nil || m.rdb == nil {
		return false
	}
	data, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (m *Mirror) set(ctx context.Context, key string, rows any) {
	if m == nil || m.rdb == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = m.rdb.Set(ctx, key, payload, m.ttl).Err()
}
