package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"artiststudio/logger"
	"artiststudio/model"

	"github.com/redis/go-redis/v9"
)

// OverrideAuditKey holds the override-login trail, newest entry first.
const OverrideAuditKey = "artiststudio:audit:override_logins"

// MaxOverrideEntries bounds the trail length.
const MaxOverrideEntries = 1000

const opTimeout = 5 * time.Second

// OverrideAudit stores override-password logins in a capped Redis list.
type OverrideAudit struct {
	client *redis.Client
	key    string
}

// NewOverrideAudit creates an OverrideAudit writing to OverrideAuditKey.
func NewOverrideAudit(client *redis.Client) *OverrideAudit {
	return &OverrideAudit{client: client, key: OverrideAuditKey}
}

// RecordOverride prepends entry and trims the list to MaxOverrideEntries.
func (a *OverrideAudit) RecordOverride(ctx context.Context, entry model.OverrideLogin) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal override entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipe := a.client.TxPipeline()
	pipe.LPush(ctx, a.key, data)
	pipe.LTrim(ctx, a.key, 0, MaxOverrideEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append override entry: %w", err)
	}

	logger.Debug("Override login audited",
		logger.String("key", a.key),
		logger.Int64("userId", entry.UserID))
	return nil
}

// ListOverrides returns up to limit entries, newest first. A non-positive
// limit returns the whole trail.
func (a *OverrideAudit) ListOverrides(ctx context.Context, limit int) ([]model.OverrideLogin, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := a.client.LRange(ctx, a.key, 0, stop).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read override entries: %w", err)
	}

	entries := make([]model.OverrideLogin, 0, len(raw))
	for _, r := range raw {
		var e model.OverrideLogin
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			logger.Warn("Skipping malformed override entry", logger.ErrorField(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Ping checks the Redis connection.
func (a *OverrideAudit) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return a.client.Ping(ctx).Err()
}
