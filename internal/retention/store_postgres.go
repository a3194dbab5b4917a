package retention

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/internal/domain"
)

// PostgresStore reads retention policies and the audit log from PostgreSQL.
// The physical schema is owned by the surrounding storage layer's
// migrations; this store expects:
//
//	retention_policies(policy_name text primary key, data_classification text,
//	                   retention_days int, archive_after_days int,
//	                   delete_after_days int null, is_active text)
//	audit_records(id text primary key, timestamp timestamptz,
//	              principal_id text, action text, data_classification text,
//	              retention_policy text, hash text)
//
// The is_active flag is stored as the strings "true"/"false"; the boundary
// conversion happens here so the rest of the engine sees a boolean.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ListActivePolicies(ctx context.Context) ([]Policy, error) {
	query := `
		SELECT policy_name, data_classification, retention_days,
		       archive_after_days, delete_after_days, is_active
		FROM retention_policies
		WHERE is_active = $1
		ORDER BY policy_name
	`
	rows, err := s.pool.Query(ctx, query, formatBoolFlag(true))
	if err != nil {
		return nil, fmt.Errorf("query retention policies: %w", err)
	}
	defer rows.Close()

	var policies []Policy
	for rows.Next() {
		var (
			p              Policy
			classification string
			active         string
		)
		err := rows.Scan(
			&p.PolicyName,
			&classification,
			&p.RetentionDays,
			&p.ArchiveAfterDays,
			&p.DeleteAfterDays,
			&active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan retention policy: %w", err)
		}
		p.DataClassification = domain.DataClassification(classification)
		p.IsActive = parseBoolFlag(active)
		policies = append(policies, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retention policies: %w", err)
	}
	return policies, nil
}

const recordColumns = `id, timestamp, principal_id, action, data_classification,
	retention_policy, hash`

func (s *PostgresStore) SelectRecordsForArchival(ctx context.Context, policy Policy, cutoff time.Time) ([]domain.AuditRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM audit_records
		WHERE data_classification = $1 AND timestamp <= $2
		ORDER BY timestamp, id
	`
	rows, err := s.pool.Query(ctx, query, string(policy.DataClassification), cutoff)
	if err != nil {
		return nil, fmt.Errorf("query records for archival: %w", err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var (
			r              domain.AuditRecord
			classification string
		)
		err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&r.PrincipalID,
			&r.Action,
			&classification,
			&r.RetentionPolicy,
			&r.Hash,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		r.DataClassification = domain.DataClassification(classification)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) SelectRecordsForDeletion(ctx context.Context, criteria DeletionCriteria) ([]DeletionTarget, error) {
	var (
		conds []string
		args  []any
	)
	if criteria.PrincipalID != "" {
		args = append(args, criteria.PrincipalID)
		conds = append(conds, fmt.Sprintf("principal_id = $%d", len(args)))
	}
	if criteria.DataClassification != "" {
		args = append(args, string(criteria.DataClassification))
		conds = append(conds, fmt.Sprintf("data_classification = $%d", len(args)))
	}
	if criteria.RetentionPolicy != "" {
		args = append(args, criteria.RetentionPolicy)
		conds = append(conds, fmt.Sprintf("retention_policy = $%d", len(args)))
	}
	if !criteria.Before.IsZero() {
		args = append(args, criteria.Before)
		conds = append(conds, fmt.Sprintf("timestamp < $%d", len(args)))
	}
	if len(conds) == 0 {
		// Refuse to match the whole log; the deletion engine filters empty
		// criteria before calling, this is the backstop.
		return nil, nil
	}

	query := `SELECT id, hash FROM audit_records WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY timestamp, id`
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records for deletion: %w", err)
	}
	defer rows.Close()

	var targets []DeletionTarget
	for rows.Next() {
		var t DeletionTarget
		if err := rows.Scan(&t.ID, &t.Hash); err != nil {
			return nil, fmt.Errorf("scan deletion target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletion targets: %w", err)
	}
	return targets, nil
}

func (s *PostgresStore) DeleteRecords(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM audit_records WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) RecordExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM audit_records WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check record existence: %w", err)
	}
	return exists, nil
}
