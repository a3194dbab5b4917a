package retention

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"chronicle/internal/archive"
	"chronicle/internal/retention/metrics"
)

// DeletionNotice announces completed secure deletions to external consumers
// such as the compliance-report generator.
type DeletionNotice struct {
	RetentionPolicy    string
	PrincipalID        string
	RecordsDeleted     int
	VerificationStatus archive.VerificationStatus
}

// DeletionNotifier publishes deletion notices. Best-effort: a notifier
// failure is logged but never fails the deletion.
type DeletionNotifier interface {
	RecordsDeleted(ctx context.Context, notice DeletionNotice) error
}

// SecureDeleter removes matching audit records and, on request, re-queries
// the store to positively confirm none remain.
type SecureDeleter struct {
	store    Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	notifier DeletionNotifier
	tracer   trace.Tracer
}

// DeleterOption configures a SecureDeleter.
type DeleterOption func(*SecureDeleter)

func WithDeleterLogger(logger *slog.Logger) DeleterOption {
	return func(d *SecureDeleter) { d.logger = logger }
}

func WithDeleterMetrics(m *metrics.Metrics) DeleterOption {
	return func(d *SecureDeleter) { d.metrics = m }
}

func WithDeletionNotifier(n DeletionNotifier) DeleterOption {
	return func(d *SecureDeleter) { d.notifier = n }
}

func NewSecureDeleter(store Store, opts ...DeleterOption) *SecureDeleter {
	d := &SecureDeleter{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("chronicle/retention"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SecureDelete selects the records matching the criteria, deletes them, and
// optionally verifies by re-querying each deleted id. Empty criteria are
// valid and match zero records. With zero matches the verification, when
// requested, trivially verifies.
func (d *SecureDeleter) SecureDelete(ctx context.Context, criteria DeletionCriteria) (*DeletionResult, error) {
	ctx, span := d.tracer.Start(ctx, "retention.SecureDelete")
	defer span.End()

	var targets []DeletionTarget
	if !criteria.isEmpty() {
		var err error
		targets, err = d.store.SelectRecordsForDeletion(ctx, criteria)
		if err != nil {
			return nil, fmt.Errorf("select records for deletion: %w", err)
		}
	}

	if len(targets) == 0 {
		result := &DeletionResult{VerificationStatus: archive.VerificationSkipped}
		if criteria.VerifyDeletion {
			result.VerificationStatus = archive.VerificationVerified
			result.VerificationDetails = &VerificationDetails{AllDeleted: true}
		}
		d.metrics.IncDeletionVerification(string(result.VerificationStatus))
		return result, nil
	}

	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	deleted, err := d.store.DeleteRecords(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("delete records: %w", err)
	}

	result := &DeletionResult{
		RecordsDeleted:     deleted,
		VerificationStatus: archive.VerificationSkipped,
	}
	if criteria.VerifyDeletion {
		remaining := 0
		for _, id := range ids {
			exists, err := d.store.RecordExists(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("verify deletion of %s: %w", id, err)
			}
			if exists {
				remaining++
			}
		}
		if remaining == 0 {
			result.VerificationStatus = archive.VerificationVerified
			result.VerificationDetails = &VerificationDetails{AllDeleted: true}
		} else {
			result.VerificationStatus = archive.VerificationFailed
			result.VerificationDetails = &VerificationDetails{
				AllDeleted:       false,
				RemainingRecords: remaining,
			}
		}
	}

	d.metrics.AddRecordsDeleted(deleted)
	d.metrics.IncDeletionVerification(string(result.VerificationStatus))
	d.logger.InfoContext(ctx, "secure deletion completed",
		"records_deleted", deleted,
		"verification_status", result.VerificationStatus,
	)

	if d.notifier != nil {
		notice := DeletionNotice{
			RetentionPolicy:    criteria.RetentionPolicy,
			PrincipalID:        criteria.PrincipalID,
			RecordsDeleted:     deleted,
			VerificationStatus: result.VerificationStatus,
		}
		if err := d.notifier.RecordsDeleted(ctx, notice); err != nil {
			d.logger.WarnContext(ctx, "deletion notice failed", "error", err)
		}
	}

	return result, nil
}
