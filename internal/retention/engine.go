package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"chronicle/internal/archive"
	"chronicle/internal/domain"
	"chronicle/internal/retention/metrics"
)

// ArchiveCreator is the slice of the archiver the engine needs. Declared
// here so tests can substitute failure-injecting implementations.
type ArchiveCreator interface {
	CreateArchive(ctx context.Context, records []domain.AuditRecord, meta archive.Metadata) (*archive.CreateResult, error)
}

// Deleter is the slice of the secure deletion engine used by the
// policy-driven deletion pass.
type Deleter interface {
	SecureDelete(ctx context.Context, criteria DeletionCriteria) (*DeletionResult, error)
}

// Engine loads active retention policies and drives archival and deletion
// decisions for each. Policies are processed one at a time as isolated units
// of work: a failure in one unit never affects the next.
type Engine struct {
	store   Store
	creator ArchiveCreator
	deleter Deleter
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithDeleter enables the policy-driven deletion pass.
func WithDeleter(d Deleter) EngineOption {
	return func(e *Engine) { e.deleter = d }
}

func NewEngine(store Store, creator ArchiveCreator, opts ...EngineOption) *Engine {
	e := &Engine{
		store:   store,
		creator: creator,
		logger:  slog.Default(),
		tracer:  otel.Tracer("chronicle/retention"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ArchiveByPolicies archives eligible records for every active retention
// policy and returns one result entry per successfully processed policy, in
// policy order. A policy whose selection or archive creation fails is
// skipped entirely, logged, and processing continues with the next policy.
//
// A failure listing the policies themselves yields an empty result rather
// than an error, so callers cannot distinguish "no active policies" from
// "listing failed" through the return value alone; the log and the
// list-failure counter carry that distinction.
func (e *Engine) ArchiveByPolicies(ctx context.Context) []PolicyRunResult {
	ctx, span := e.tracer.Start(ctx, "retention.ArchiveByPolicies")
	defer span.End()

	policies, err := e.store.ListActivePolicies(ctx)
	if err != nil {
		e.metrics.IncListFailure()
		e.logger.ErrorContext(ctx, "listing retention policies failed", "error", err)
		return []PolicyRunResult{}
	}

	results := make([]PolicyRunResult, 0, len(policies))
	for _, policy := range policies {
		result, err := e.archivePolicy(ctx, policy)
		if err != nil {
			e.metrics.IncPolicyRun("skipped")
			e.logger.ErrorContext(ctx, "policy archival failed, skipping",
				"policy", policy.PolicyName, "error", err)
			continue
		}
		e.metrics.IncPolicyRun("archived")
		e.metrics.AddRecordsArchived(result.RecordsArchived)
		results = append(results, result)
	}
	return results
}

func (e *Engine) archivePolicy(ctx context.Context, policy Policy) (PolicyRunResult, error) {
	if err := policy.Validate(); err != nil {
		return PolicyRunResult{}, fmt.Errorf("invalid policy: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -policy.ArchiveAfterDays)
	records, err := e.store.SelectRecordsForArchival(ctx, policy, cutoff)
	if err != nil {
		return PolicyRunResult{}, fmt.Errorf("select records: %w", err)
	}

	created, err := e.creator.CreateArchive(ctx, records, archive.Metadata{
		RetentionPolicy:    policy.PolicyName,
		DataClassification: policy.DataClassification,
	})
	if err != nil {
		return PolicyRunResult{}, fmt.Errorf("create archive: %w", err)
	}

	e.logger.InfoContext(ctx, "policy archived",
		"policy", policy.PolicyName,
		"records", len(records),
		"archive_id", created.ArchiveID,
	)
	return PolicyRunResult{
		Policy:             policy.PolicyName,
		ArchiveID:          created.ArchiveID,
		RecordsArchived:    len(records),
		VerificationStatus: created.VerificationStatus,
	}, nil
}

// DeleteExpired runs the secure deletion pass for every active policy with
// an auto-delete window, removing records older than the window with
// post-delete verification. Same isolation rules as ArchiveByPolicies:
// failing policies are skipped, listing failures yield an empty result.
// Without a configured deleter this is a no-op.
func (e *Engine) DeleteExpired(ctx context.Context) []DeletionRunResult {
	ctx, span := e.tracer.Start(ctx, "retention.DeleteExpired")
	defer span.End()

	if e.deleter == nil {
		return []DeletionRunResult{}
	}

	policies, err := e.store.ListActivePolicies(ctx)
	if err != nil {
		e.metrics.IncListFailure()
		e.logger.ErrorContext(ctx, "listing retention policies failed", "error", err)
		return []DeletionRunResult{}
	}

	results := make([]DeletionRunResult, 0, len(policies))
	for _, policy := range policies {
		if policy.DeleteAfterDays == nil {
			continue
		}
		if err := policy.Validate(); err != nil {
			e.logger.ErrorContext(ctx, "policy deletion skipped",
				"policy", policy.PolicyName, "error", err)
			continue
		}

		criteria := DeletionCriteria{
			RetentionPolicy:    policy.PolicyName,
			DataClassification: policy.DataClassification,
			Before:             time.Now().AddDate(0, 0, -*policy.DeleteAfterDays),
			VerifyDeletion:     true,
		}
		result, err := e.deleter.SecureDelete(ctx, criteria)
		if err != nil {
			e.logger.ErrorContext(ctx, "policy deletion failed, skipping",
				"policy", policy.PolicyName, "error", err)
			continue
		}
		results = append(results, DeletionRunResult{
			Policy: policy.PolicyName,
			Result: *result,
		})
	}
	return results
}
