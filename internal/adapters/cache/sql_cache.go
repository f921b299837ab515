package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/email-reconciler/internal/core"
	"go.uber.org/zap"
)

// sqlCache holds the logic shared by the SQLite and MySQL caches. Timestamps
// are stored as unix seconds so both dialects compare them the same way.
type sqlCache struct {
	db          *sql.DB
	upsert      string
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

func newSQLCache(db *sql.DB, upsert string, logger *zap.Logger, cleanupFreq time.Duration) *sqlCache {
	c := &sqlCache{
		db:          db,
		upsert:      upsert,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}
	if cleanupFreq > 0 {
		go c.startCleanupTask()
	}
	return c
}

// Get retrieves a cached entry for a domain
func (c *sqlCache) Get(ctx context.Context, domain string) (*core.PatternCacheEntry, error) {
	var payload []byte
	var lastSeen, expiresAt int64

	err := c.db.QueryRowContext(ctx, `
		SELECT pattern, last_seen, expires_at
		FROM domain_patterns
		WHERE domain = ? AND expires_at > ?
	`, cacheKey(domain), c.now().Unix()).Scan(&payload, &lastSeen, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry := &core.PatternCacheEntry{
		Domain:    cacheKey(domain),
		LastSeen:  time.Unix(lastSeen, 0),
		ExpiresAt: time.Unix(expiresAt, 0),
	}
	if err := json.Unmarshal(payload, &entry.Pattern); err != nil {
		return nil, fmt.Errorf("failed to decode cached pattern: %w", err)
	}
	return entry, nil
}

// Set stores a cache entry
func (c *sqlCache) Set(ctx context.Context, entry *core.PatternCacheEntry) error {
	payload, err := json.Marshal(entry.Pattern)
	if err != nil {
		return fmt.Errorf("failed to encode pattern: %w", err)
	}
	_, err = c.db.ExecContext(ctx, c.upsert,
		cacheKey(entry.Domain), payload, entry.LastSeen.Unix(), entry.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *sqlCache) Delete(ctx context.Context, domain string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM domain_patterns WHERE domain = ?`, cacheKey(domain))
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *sqlCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `DELETE FROM domain_patterns WHERE expires_at <= ?`, c.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

func (c *sqlCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *sqlCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close cache database", zap.Error(err))
		}
	})
}
