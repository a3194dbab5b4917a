package archive

import (
	"time"

	"chronicle/internal/domain"
)

// Format selects how records are serialized into an archive payload.
type Format string

const (
	// FormatJSON serializes all records as a single JSON array.
	FormatJSON Format = "json"
	// FormatJSONL serializes one JSON object per line, newline-delimited.
	FormatJSONL Format = "jsonl"
)

// Algorithm selects how the serialized payload is compressed.
type Algorithm string

const (
	// AlgorithmNone stores the serialized payload as-is.
	AlgorithmNone Algorithm = "none"
	AlgorithmGzip Algorithm = "gzip"
	AlgorithmZstd Algorithm = "zstd"
)

// VerificationStatus reports the outcome of an integrity or deletion check.
// It is a result value, never an error: a failed verification is surfaced to
// the caller for decision-making, not thrown.
type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
	VerificationSkipped  VerificationStatus = "skipped"
)

// Config controls serialization, compression and integrity hashing for an
// archiver. It is supplied at construction time and immutable afterwards.
// Unknown formats or algorithms are rejected when an archive is created,
// not when the config is built.
type Config struct {
	Format    Format
	Algorithm Algorithm
	// Level is the compression level passed to the codec. Zero or negative
	// selects the codec's default.
	Level int
	// VerifyIntegrity controls whether a content hash is computed over the
	// compressed payload at creation time. Without it, later integrity
	// verification cannot succeed.
	VerifyIntegrity bool
}

// Metadata describes an archive bundle. Immutable once the archive is created.
type Metadata struct {
	RetentionPolicy    string                    `json:"retentionPolicy"`
	DataClassification domain.DataClassification `json:"dataClassification"`
	// Tags carries caller-supplied labels alongside the fixed fields.
	Tags map[string]string `json:"tags,omitempty"`
}

// Archive is an immutable, compressed, integrity-hashed bundle of audit
// records. The payload never changes after creation; only the access
// statistics (RetrievedCount, LastRetrievedAt) mutate, and exclusively
// through the store.
type Archive struct {
	ID       string
	Metadata Metadata
	// Data holds the compressed serialized records.
	Data []byte
	// ContentHash is the hex-encoded SHA-256 of Data, empty when hashing
	// was skipped at creation.
	ContentHash     string
	CreatedAt       time.Time
	RetrievedCount  int64
	LastRetrievedAt *time.Time
}

// RetrievalRequest narrows archive retrieval. All fields are optional; a
// zero request matches every archive. ArchiveID, DataClassifications and
// RetentionPolicies filter at the archive level, PrincipalID and Actions at
// the record level, and Limit/Offset paginate the archive list.
type RetrievalRequest struct {
	ArchiveID           string
	DataClassifications []domain.DataClassification
	RetentionPolicies   []string
	PrincipalID         string
	Actions             []string
	Limit               int
	Offset              int
}

// CreateResult reports a successful archive creation.
type CreateResult struct {
	ArchiveID      string
	OriginalSize   int
	CompressedSize int
	// CompressionRatio is CompressedSize/OriginalSize. Reported as 1 for an
	// empty payload.
	CompressionRatio   float64
	VerificationStatus VerificationStatus
}

// RetrievedArchive is one archive in a retrieval result, with its surviving
// records after record-level filtering. Records may be empty when the
// archive matched at the archive level but no inner record passed the
// filters.
type RetrievedArchive struct {
	ArchiveID string
	Metadata  Metadata
	CreatedAt time.Time
	Records   []domain.AuditRecord
}

// RetrievalResult is the outcome of a retrieval call. RecordCount is the sum
// of surviving records across all returned archives, not the archive count.
type RetrievalResult struct {
	Archives    []RetrievedArchive
	RecordCount int
	RequestID   string
	RetrievedAt time.Time
}
