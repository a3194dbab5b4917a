package retention

import (
	"context"
	"time"

	"chronicle/internal/domain"
)

// Store gives the retention engines read access to policies and the audit
// log, and delete access for secure deletion. The audit log itself is owned
// by the surrounding storage layer; this engine never writes audit records.
type Store interface {
	// ListActivePolicies returns every policy whose active flag is set.
	// Policies are returned as stored; the engine validates them per run.
	ListActivePolicies(ctx context.Context) ([]Policy, error)

	// SelectRecordsForArchival returns records matching the policy's data
	// classification with a timestamp at or before the cutoff.
	SelectRecordsForArchival(ctx context.Context, policy Policy, cutoff time.Time) ([]domain.AuditRecord, error)

	// SelectRecordsForDeletion returns the (id, hash) pairs matching the
	// criteria. Callers must not pass empty criteria.
	SelectRecordsForDeletion(ctx context.Context, criteria DeletionCriteria) ([]DeletionTarget, error)

	// DeleteRecords removes the records and reports how many rows were
	// actually deleted.
	DeleteRecords(ctx context.Context, ids []string) (int, error)

	// RecordExists reports whether an audit record is still present. Used
	// for post-delete verification.
	RecordExists(ctx context.Context, id string) (bool, error)
}
