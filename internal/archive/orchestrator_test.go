package archive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle/internal/domain"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ArchiveCreatedNotice
	err     error
}

func (n *recordingNotifier) ArchiveCreated(_ context.Context, notice ArchiveCreatedNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

type failingStore struct {
	Store
}

func (failingStore) Save(context.Context, *Archive) error {
	return errors.New("disk full")
}

func TestCreateArchive_PersistsAndHashes(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{
		Format:          FormatJSON,
		Algorithm:       AlgorithmGzip,
		VerifyIntegrity: true,
	})
	meta := Metadata{
		RetentionPolicy:    "standard",
		DataClassification: domain.ClassificationConfidential,
	}

	result, err := archiver.CreateArchive(context.Background(), testRecords(4), meta)
	require.NoError(t, err)
	assert.Equal(t, VerificationVerified, result.VerificationStatus)
	assert.Positive(t, result.OriginalSize)
	assert.Positive(t, result.CompressedSize)
	assert.Positive(t, result.CompressionRatio)

	arch, err := store.GetByID(context.Background(), result.ArchiveID)
	require.NoError(t, err)
	assert.Equal(t, meta, arch.Metadata)
	assert.Equal(t, Hash(arch.Data), arch.ContentHash)
	assert.False(t, arch.CreatedAt.IsZero())
	assert.Zero(t, arch.RetrievedCount)
}

func TestCreateArchive_EmptyRecordList(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{
		Format:    FormatJSONL,
		Algorithm: AlgorithmNone,
	})

	result, err := archiver.CreateArchive(context.Background(), nil, Metadata{RetentionPolicy: "standard"})
	require.NoError(t, err)
	assert.Zero(t, result.OriginalSize)
	assert.Equal(t, 1.0, result.CompressionRatio)
	assert.Equal(t, 1, store.Len())
}

func TestCreateArchive_SkipsHashWhenVerificationDisabled(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{
		Format:          FormatJSON,
		Algorithm:       AlgorithmZstd,
		VerifyIntegrity: false,
	})

	result, err := archiver.CreateArchive(context.Background(), testRecords(2), Metadata{})
	require.NoError(t, err)
	assert.Equal(t, VerificationSkipped, result.VerificationStatus)

	arch, err := store.GetByID(context.Background(), result.ArchiveID)
	require.NoError(t, err)
	assert.Empty(t, arch.ContentHash)
}

func TestCreateArchive_UnknownFormatLeavesStoreUntouched(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{Format: Format("xml"), Algorithm: AlgorithmGzip})

	_, err := archiver.CreateArchive(context.Background(), testRecords(1), Metadata{})
	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Zero(t, store.Len())
}

func TestCreateArchive_UnknownAlgorithmLeavesStoreUntouched(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{Format: FormatJSON, Algorithm: Algorithm("lz4")})

	_, err := archiver.CreateArchive(context.Background(), testRecords(1), Metadata{})
	var uce *UnsupportedCompressionError
	require.ErrorAs(t, err, &uce)
	assert.Zero(t, store.Len())
}

func TestCreateArchive_StoreFailure(t *testing.T) {
	archiver := NewArchiver(failingStore{}, Config{Format: FormatJSON, Algorithm: AlgorithmNone})

	_, err := archiver.CreateArchive(context.Background(), testRecords(1), Metadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store archive")
}

func TestCreateArchive_NotifiesLifecycleConsumers(t *testing.T) {
	store := NewInMemoryStore()
	notifier := &recordingNotifier{}
	archiver := NewArchiver(store, Config{
		Format:          FormatJSON,
		Algorithm:       AlgorithmGzip,
		VerifyIntegrity: true,
	}, WithNotifier(notifier))

	result, err := archiver.CreateArchive(context.Background(), testRecords(3), Metadata{RetentionPolicy: "standard"})
	require.NoError(t, err)

	require.Len(t, notifier.notices, 1)
	notice := notifier.notices[0]
	assert.Equal(t, result.ArchiveID, notice.ArchiveID)
	assert.Equal(t, 3, notice.RecordCount)
	assert.NotEmpty(t, notice.ContentHash)
}

func TestCreateArchive_NotifierFailureDoesNotFailArchival(t *testing.T) {
	store := NewInMemoryStore()
	notifier := &recordingNotifier{err: errors.New("broker down")}
	archiver := NewArchiver(store, Config{Format: FormatJSON, Algorithm: AlgorithmNone},
		WithNotifier(notifier))

	result, err := archiver.CreateArchive(context.Background(), testRecords(1), Metadata{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ArchiveID)
	assert.Equal(t, 1, store.Len())
}

func TestCreateArchive_RatioReflectsCompression(t *testing.T) {
	store := NewInMemoryStore()
	archiver := NewArchiver(store, Config{Format: FormatJSON, Algorithm: AlgorithmGzip})

	records := make([]domain.AuditRecord, 0, 50)
	for i := 0; i < 50; i++ {
		records = append(records, domain.AuditRecord{
			ID:              "rec",
			Timestamp:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			PrincipalID:     "user123",
			Action:          "login",
			RetentionPolicy: "standard",
		})
	}

	result, err := archiver.CreateArchive(context.Background(), records, Metadata{})
	require.NoError(t, err)
	assert.Less(t, result.CompressionRatio, 1.0)
	assert.Equal(t, float64(result.CompressedSize)/float64(result.OriginalSize), result.CompressionRatio)
}
