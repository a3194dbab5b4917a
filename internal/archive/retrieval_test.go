package archive

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/domain"
)

type memoryRecordCache struct {
	mu      sync.Mutex
	entries map[string][]domain.AuditRecord
	hits    int
	misses  int
	sets    int
}

func newMemoryRecordCache() *memoryRecordCache {
	return &memoryRecordCache{entries: make(map[string][]domain.AuditRecord)}
}

func (c *memoryRecordCache) Get(_ context.Context, archiveID, contentHash string) ([]domain.AuditRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	records, ok := c.entries[archiveID+":"+contentHash]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return records, ok
}

func (c *memoryRecordCache) Set(_ context.Context, archiveID, contentHash string, records []domain.AuditRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[archiveID+":"+contentHash] = records
	c.sets++
}

func retrievalFixture(t *testing.T, cfg Config) (*InMemoryStore, *Archiver) {
	t.Helper()
	store := NewInMemoryStore()
	return store, NewArchiver(store, cfg)
}

func archiveRecords(t *testing.T, archiver *Archiver, meta Metadata, records []domain.AuditRecord) string {
	t.Helper()
	result, err := archiver.CreateArchive(context.Background(), records, meta)
	require.NoError(t, err)
	return result.ArchiveID
}

func TestRetrieve_ArchiveLevelFilters(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmGzip, VerifyIntegrity: true}
	store, archiver := retrievalFixture(t, cfg)

	confidential := Metadata{RetentionPolicy: "standard", DataClassification: domain.ClassificationConfidential}
	internal := Metadata{RetentionPolicy: "extended", DataClassification: domain.ClassificationInternal}
	wantID := archiveRecords(t, archiver, confidential, testRecords(3))
	archiveRecords(t, archiver, internal, testRecords(2))

	engine := NewRetrievalEngine(store, cfg)
	result, err := engine.Retrieve(context.Background(), RetrievalRequest{
		DataClassifications: []domain.DataClassification{domain.ClassificationConfidential},
	})
	require.NoError(t, err)
	require.Len(t, result.Archives, 1)
	assert.Equal(t, wantID, result.Archives[0].ArchiveID)
	assert.Equal(t, 3, result.RecordCount)
	assert.NotEmpty(t, result.RequestID)
}

func TestRetrieve_RecordLevelFilters(t *testing.T) {
	cfg := Config{Format: FormatJSONL, Algorithm: AlgorithmZstd, VerifyIntegrity: true}
	store, archiver := retrievalFixture(t, cfg)

	records := []domain.AuditRecord{
		{ID: "r1", Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), PrincipalID: "alice", Action: "login"},
		{ID: "r2", Timestamp: time.Date(2026, 2, 1, 1, 0, 0, 0, time.UTC), PrincipalID: "alice", Action: "export"},
		{ID: "r3", Timestamp: time.Date(2026, 2, 1, 2, 0, 0, 0, time.UTC), PrincipalID: "bob", Action: "login"},
	}
	archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, records)

	engine := NewRetrievalEngine(store, cfg)
	result, err := engine.Retrieve(context.Background(), RetrievalRequest{
		PrincipalID: "alice",
		Actions:     []string{"login"},
	})
	require.NoError(t, err)
	require.Len(t, result.Archives, 1)
	require.Len(t, result.Archives[0].Records, 1)
	assert.Equal(t, "r1", result.Archives[0].Records[0].ID)
	assert.Equal(t, 1, result.RecordCount)
}

func TestRetrieve_ArchiveKeptWhenNoRecordSurvives(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmNone}
	store, archiver := retrievalFixture(t, cfg)
	archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(2))

	engine := NewRetrievalEngine(store, cfg)
	result, err := engine.Retrieve(context.Background(), RetrievalRequest{PrincipalID: "nobody"})
	require.NoError(t, err)
	require.Len(t, result.Archives, 1)
	assert.Empty(t, result.Archives[0].Records)
	assert.Zero(t, result.RecordCount)
}

func TestRetrieve_Pagination(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmNone}
	store, archiver := retrievalFixture(t, cfg)

	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(1)))
	}

	engine := NewRetrievalEngine(store, cfg)

	result, err := engine.Retrieve(context.Background(), RetrievalRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, result.Archives, 2)
	assert.Equal(t, ids[1], result.Archives[0].ArchiveID)
	assert.Equal(t, ids[2], result.Archives[1].ArchiveID)

	result, err = engine.Retrieve(context.Background(), RetrievalRequest{Offset: 99})
	require.NoError(t, err)
	assert.Empty(t, result.Archives)
	assert.Zero(t, result.RecordCount)

	result, err = engine.Retrieve(context.Background(), RetrievalRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Archives, 5)
}

func TestRetrieve_UpdatesStatsOncePerReturnedArchive(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmGzip}
	store, archiver := retrievalFixture(t, cfg)
	id := archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(2))

	engine := NewRetrievalEngine(store, cfg)

	_, err := engine.Retrieve(context.Background(), RetrievalRequest{ArchiveID: id})
	require.NoError(t, err)
	arch, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), arch.RetrievedCount)
	require.NotNil(t, arch.LastRetrievedAt)

	_, err = engine.Retrieve(context.Background(), RetrievalRequest{ArchiveID: id})
	require.NoError(t, err)
	arch, err = store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), arch.RetrievedCount)
}

func TestRetrieve_SkipsUnreadableArchive(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmGzip, VerifyIntegrity: true}
	store, archiver := retrievalFixture(t, cfg)

	goodID := archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(2))
	badID := archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(2))

	store.mu.Lock()
	store.archives[badID].Data = []byte("not a gzip stream")
	store.archives[badID].ContentHash = ""
	store.mu.Unlock()

	engine := NewRetrievalEngine(store, cfg)
	result, err := engine.Retrieve(context.Background(), RetrievalRequest{})
	require.NoError(t, err)
	require.Len(t, result.Archives, 1)
	assert.Equal(t, goodID, result.Archives[0].ArchiveID)
	assert.Equal(t, 2, result.RecordCount)

	bad, err := store.GetByID(context.Background(), badID)
	require.NoError(t, err)
	assert.Zero(t, bad.RetrievedCount)
}

func TestRetrieve_RecordCache(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmZstd, VerifyIntegrity: true}
	store, archiver := retrievalFixture(t, cfg)
	id := archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(3))

	cache := newMemoryRecordCache()
	engine := NewRetrievalEngine(store, cfg, WithRecordCache(cache))

	first, err := engine.Retrieve(context.Background(), RetrievalRequest{ArchiveID: id})
	require.NoError(t, err)
	assert.Equal(t, 3, first.RecordCount)
	assert.Equal(t, 1, cache.misses)
	assert.Equal(t, 1, cache.sets)

	second, err := engine.Retrieve(context.Background(), RetrievalRequest{ArchiveID: id})
	require.NoError(t, err)
	assert.Equal(t, 3, second.RecordCount)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestRetrieve_CacheSkippedWithoutContentHash(t *testing.T) {
	cfg := Config{Format: FormatJSON, Algorithm: AlgorithmNone, VerifyIntegrity: false}
	store, archiver := retrievalFixture(t, cfg)
	id := archiveRecords(t, archiver, Metadata{RetentionPolicy: "standard"}, testRecords(1))

	cache := newMemoryRecordCache()
	engine := NewRetrievalEngine(store, cfg, WithRecordCache(cache))

	result, err := engine.Retrieve(context.Background(), RetrievalRequest{ArchiveID: id})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecordCount)
	assert.Zero(t, cache.hits+cache.misses+cache.sets)
}
