package archive

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"chronicle/internal/archive/metrics"
	"chronicle/internal/domain"
)

// decompressParallelism bounds how many archive payloads a single retrieval
// call opens concurrently.
const decompressParallelism = 4

// RetrievalEngine serves filtered, paginated reads out of archived bundles.
// It shares the archiver's Config so payloads are opened with the same
// format and algorithm they were written with.
type RetrievalEngine struct {
	store   Store
	config  Config
	cache   RecordCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// RetrievalOption configures a RetrievalEngine.
type RetrievalOption func(*RetrievalEngine)

func WithRetrievalLogger(logger *slog.Logger) RetrievalOption {
	return func(e *RetrievalEngine) { e.logger = logger }
}

func WithRetrievalMetrics(m *metrics.Metrics) RetrievalOption {
	return func(e *RetrievalEngine) { e.metrics = m }
}

// WithRecordCache enables the read-path record cache.
func WithRecordCache(cache RecordCache) RetrievalOption {
	return func(e *RetrievalEngine) { e.cache = cache }
}

func NewRetrievalEngine(store Store, config Config, opts ...RetrievalOption) *RetrievalEngine {
	e := &RetrievalEngine{
		store:  store,
		config: config,
		logger: slog.Default(),
		tracer: otel.Tracer("chronicle/archive"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrieve finds archives matching the request's archive-level filters,
// paginates the archive list, opens each page entry, and applies the
// record-level filters. RecordCount sums the surviving records across all
// returned archives. Every returned archive has its retrieval statistics
// updated exactly once per call.
//
// An archive whose payload fails to decompress or parse is excluded from the
// output and logged; the rest of the request still succeeds, and the broken
// archive's statistics are left untouched.
func (e *RetrievalEngine) Retrieve(ctx context.Context, req RetrievalRequest) (*RetrievalResult, error) {
	ctx, span := e.tracer.Start(ctx, "archive.Retrieve")
	defer span.End()
	start := time.Now()

	matched, err := e.store.FindMatching(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("find archives: %w", err)
	}
	page := paginate(matched, req.Limit, req.Offset)

	opened := make([][]domain.AuditRecord, len(page))
	readable := make([]bool, len(page))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(decompressParallelism)
	for i, arch := range page {
		g.Go(func() error {
			records, err := e.open(gctx, arch)
			if err != nil {
				e.logger.WarnContext(gctx, "skipping unreadable archive",
					"archive_id", arch.ID, "error", err)
				return nil
			}
			opened[i] = records
			readable[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("open archives: %w", err)
	}

	retrievedAt := time.Now()
	result := &RetrievalResult{
		Archives:    []RetrievedArchive{},
		RequestID:   uuid.NewString(),
		RetrievedAt: retrievedAt,
	}
	for i, arch := range page {
		if !readable[i] {
			continue
		}
		records := filterRecords(opened[i], req)
		result.Archives = append(result.Archives, RetrievedArchive{
			ArchiveID: arch.ID,
			Metadata:  arch.Metadata,
			CreatedAt: arch.CreatedAt,
			Records:   records,
		})
		result.RecordCount += len(records)

		if err := e.store.UpdateRetrievalStats(ctx, arch.ID, retrievedAt); err != nil {
			e.logger.WarnContext(ctx, "retrieval stats update failed",
				"archive_id", arch.ID, "error", err)
		}
	}

	e.metrics.AddRecordsRetrieved(result.RecordCount)
	e.metrics.ObserveRetrieveLatency(time.Since(start))
	return result, nil
}

// open recovers the record list from an archive payload, consulting the
// record cache first when one is configured.
func (e *RetrievalEngine) open(ctx context.Context, arch *Archive) ([]domain.AuditRecord, error) {
	if e.cache != nil && arch.ContentHash != "" {
		if records, ok := e.cache.Get(ctx, arch.ID, arch.ContentHash); ok {
			e.metrics.IncCacheLookup("hit")
			return records, nil
		}
		e.metrics.IncCacheLookup("miss")
	}

	payload, err := Decompress(e.config.Algorithm, arch.Data)
	if err != nil {
		return nil, fmt.Errorf("decompress archive: %w", err)
	}
	records, err := Deserialize(e.config.Format, payload)
	if err != nil {
		return nil, fmt.Errorf("deserialize archive: %w", err)
	}

	if e.cache != nil && arch.ContentHash != "" {
		e.cache.Set(ctx, arch.ID, arch.ContentHash, records)
	}
	return records, nil
}

func filterRecords(records []domain.AuditRecord, req RetrievalRequest) []domain.AuditRecord {
	filtered := make([]domain.AuditRecord, 0, len(records))
	for _, record := range records {
		if req.PrincipalID != "" && record.PrincipalID != req.PrincipalID {
			continue
		}
		if len(req.Actions) > 0 && !slices.Contains(req.Actions, record.Action) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// paginate applies limit/offset over the archive list. Limit zero or below
// means no limit; an offset past the end yields an empty page.
func paginate(archives []*Archive, limit, offset int) []*Archive {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(archives) {
		return nil
	}
	page := archives[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	return page
}
