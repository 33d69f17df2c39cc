package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"podcastgen/database"
	"podcastgen/models"
)

const (
	statusKeyPrefix = "task:status:"
	statusTTL       = 10 * time.Minute

	pendingCountKey = "tasks:pending_count"
	pendingCountTTL = 30 * time.Second
)

// StatusCache keeps per-task status and the pending-task count in Redis so
// polling reads do not hit Postgres on every request. The external worker
// writes its status transitions into the same keys.
type StatusCache struct {
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

func (sc *StatusCache) Get(ctx context.Context, taskID string) (models.TaskStatus, error) {
	data, err := sc.cache.Get(ctx, statusKeyPrefix+taskID)
	if err != nil {
		return "", err
	}
	return models.NormalizeStatus(models.TaskStatus(data)), nil
}

func (sc *StatusCache) Set(ctx context.Context, taskID string, status models.TaskStatus) error {
	return sc.cache.Set(ctx, statusKeyPrefix+taskID, string(status), statusTTL)
}

func (sc *StatusCache) Delete(ctx context.Context, taskID string) error {
	return sc.cache.Del(ctx, statusKeyPrefix+taskID)
}

func (sc *StatusCache) GetPendingCount(ctx context.Context) (int, error) {
	data, err := sc.cache.Get(ctx, pendingCountKey)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(data)
	if err != nil {
		return 0, fmt.Errorf("corrupt pending count %q: %w", data, err)
	}
	return count, nil
}

func (sc *StatusCache) SetPendingCount(ctx context.Context, count int) error {
	return sc.cache.Set(ctx, pendingCountKey, strconv.Itoa(count), pendingCountTTL)
}
