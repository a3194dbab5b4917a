package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"chronicle/internal/archive/metrics"
	"chronicle/internal/domain"
)

// ArchiveCreatedNotice announces a freshly persisted archive to external
// consumers such as the compliance-report generator.
type ArchiveCreatedNotice struct {
	ArchiveID   string
	Metadata    Metadata
	RecordCount int
	ContentHash string
	CreatedAt   time.Time
}

// LifecycleNotifier publishes archive lifecycle notices. Publishing is
// best-effort from the archiver's point of view: a notifier failure is
// logged but never fails the archival itself.
type LifecycleNotifier interface {
	ArchiveCreated(ctx context.Context, notice ArchiveCreatedNotice) error
}

// Archiver ties the serializer, compressor, integrity hasher and store
// together into archive creation. Its config is fixed at construction; the
// format and algorithm it names are validated when an archive is created.
type Archiver struct {
	store    Store
	config   Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier LifecycleNotifier
	tracer   trace.Tracer
}

// Option configures an Archiver.
type Option func(*Archiver)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) { a.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Archiver) { a.metrics = m }
}

func WithNotifier(n LifecycleNotifier) Option {
	return func(a *Archiver) { a.notifier = n }
}

func NewArchiver(store Store, config Config, opts ...Option) *Archiver {
	a := &Archiver{
		store:  store,
		config: config,
		logger: slog.Default(),
		tracer: otel.Tracer("chronicle/archive"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateArchive serializes and compresses the records, computes the content
// hash, and persists the resulting bundle. An empty record list is valid and
// produces a valid empty-payload archive. If serialization or compression
// fail, the store is never called and no side effects occur.
func (a *Archiver) CreateArchive(ctx context.Context, records []domain.AuditRecord, meta Metadata) (*CreateResult, error) {
	ctx, span := a.tracer.Start(ctx, "archive.CreateArchive")
	defer span.End()

	payload, err := Serialize(a.config.Format, records)
	if err != nil {
		a.metrics.IncCreateFailure("serialize")
		return nil, err
	}

	compressed, err := Compress(a.config.Algorithm, a.config.Level, payload)
	if err != nil {
		a.metrics.IncCreateFailure("compress")
		return nil, err
	}

	status := VerificationSkipped
	contentHash := ""
	if a.config.VerifyIntegrity {
		contentHash = Hash(compressed)
		status = VerificationVerified
	}

	arch := &Archive{
		ID:          uuid.NewString(),
		Metadata:    meta,
		Data:        compressed,
		ContentHash: contentHash,
		CreatedAt:   time.Now(),
	}
	if err := a.store.Save(ctx, arch); err != nil {
		a.metrics.IncCreateFailure("store")
		return nil, fmt.Errorf("store archive: %w", err)
	}

	ratio := 1.0
	if len(payload) > 0 {
		ratio = float64(len(compressed)) / float64(len(payload))
	}

	a.metrics.IncArchivesCreated(string(a.config.Format), string(a.config.Algorithm))
	a.metrics.ObserveCompressionRatio(ratio)
	a.logger.InfoContext(ctx, "archive created",
		"archive_id", arch.ID,
		"retention_policy", meta.RetentionPolicy,
		"data_classification", meta.DataClassification,
		"records", len(records),
		"original_size", len(payload),
		"compressed_size", len(compressed),
	)

	if a.notifier != nil {
		notice := ArchiveCreatedNotice{
			ArchiveID:   arch.ID,
			Metadata:    meta,
			RecordCount: len(records),
			ContentHash: contentHash,
			CreatedAt:   arch.CreatedAt,
		}
		if err := a.notifier.ArchiveCreated(ctx, notice); err != nil {
			a.logger.WarnContext(ctx, "archive lifecycle notice failed",
				"archive_id", arch.ID, "error", err)
		}
	}

	return &CreateResult{
		ArchiveID:          arch.ID,
		OriginalSize:       len(payload),
		CompressedSize:     len(compressed),
		CompressionRatio:   ratio,
		VerificationStatus: status,
	}, nil
}
