package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var _ core.PatternCache = (*MemoryCache)(nil)
var _ core.PatternCache = (*SQLiteCache)(nil)
var _ core.PatternCache = (*MySQLCache)(nil)

func entry(domain string, now time.Time, ttl time.Duration) *core.PatternCacheEntry {
	return &core.PatternCacheEntry{
		Domain: domain,
		Pattern: core.DomainPattern{
			Domain:     domain,
			Convention: core.ConventionFirstDotLast,
			Confidence: 0.75,
			SampleSize: 4,
		},
		LastSeen:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "acme.it")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, entry("ACME.it", now, time.Hour)))
	got, err := c.Get(ctx, "acme.it")
	require.NoError(t, err)
	assert.Equal(t, core.ConventionFirstDotLast, got.Pattern.Convention)
	assert.Equal(t, "acme.it", got.Domain)

	now = now.Add(2 * time.Hour)
	_, err = c.Get(ctx, "acme.it")
	assert.ErrorIs(t, err, ErrExpired)

	require.NoError(t, c.Cleanup(ctx))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Set(ctx, entry("firma.de", now, time.Hour)))
	require.NoError(t, c.Delete(ctx, "firma.de"))
	_, err = c.Get(ctx, "firma.de")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), 0)
	require.NoError(t, err)
	defer c.Stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, entry("acme.it", now, time.Hour)))
	require.NoError(t, c.Set(ctx, entry("acme.it", now, 3*time.Hour)))

	got, err := c.Get(ctx, "ACME.IT")
	require.NoError(t, err)
	assert.Equal(t, 0.75, got.Pattern.Confidence)
	assert.Equal(t, now.Add(3*time.Hour).Unix(), got.ExpiresAt.Unix())

	now = now.Add(4 * time.Hour)
	_, err = c.Get(ctx, "acme.it")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Cleanup(ctx))
	require.NoError(t, c.Delete(ctx, "acme.it"))
}
