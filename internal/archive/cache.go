package archive

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"chronicle/internal/domain"
)

const recordCacheKeyPrefix = "chronicle:records:"

// RecordCache caches decompressed record lists on the read path so repeated
// retrievals of the same archive skip decompression and parsing. Entries are
// keyed by archive id plus content hash, so a replaced payload can never
// serve stale records.
type RecordCache interface {
	Get(ctx context.Context, archiveID, contentHash string) ([]domain.AuditRecord, bool)
	Set(ctx context.Context, archiveID, contentHash string, records []domain.AuditRecord)
}

// RedisRecordCache is the production RecordCache, shared across instances.
// It is strictly best-effort: cache failures degrade to a decompress, never
// to a retrieval error.
type RedisRecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRecordCache(client *redis.Client, ttl time.Duration) *RedisRecordCache {
	return &RedisRecordCache{client: client, ttl: ttl}
}

func (c *RedisRecordCache) Get(ctx context.Context, archiveID, contentHash string) ([]domain.AuditRecord, bool) {
	payload, err := c.client.Get(ctx, cacheKey(archiveID, contentHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	var records []domain.AuditRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, false
	}
	return records, true
}

func (c *RedisRecordCache) Set(ctx context.Context, archiveID, contentHash string, records []domain.AuditRecord) {
	payload, err := json.Marshal(records)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(archiveID, contentHash), payload, c.ttl)
}

func cacheKey(archiveID, contentHash string) string {
	return recordCacheKeyPrefix + archiveID + ":" + contentHash
}
