package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/internal/domain"
	"chronicle/pkg/platform/sentinel"
)

// PostgresStore persists archives in the `archives` table. The physical
// schema is owned by the surrounding storage layer's migrations; this store
// expects:
//
//	archives(id text primary key, retention_policy text,
//	         data_classification text, tags jsonb, data bytea,
//	         content_hash text, created_at timestamptz,
//	         retrieved_count bigint, last_retrieved_at timestamptz)
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const archiveColumns = `id, retention_policy, data_classification, tags, data,
	content_hash, created_at, retrieved_count, last_retrieved_at`

// Save inserts the archive. ON CONFLICT DO NOTHING gives the idempotent
// create-if-not-exists semantics concurrent archival runs rely on.
func (s *PostgresStore) Save(ctx context.Context, arch *Archive) error {
	tags, err := json.Marshal(arch.Metadata.Tags)
	if err != nil {
		return fmt.Errorf("marshal archive tags: %w", err)
	}

	query := `
		INSERT INTO archives (` + archiveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.pool.Exec(ctx, query,
		arch.ID,
		arch.Metadata.RetentionPolicy,
		string(arch.Metadata.DataClassification),
		tags,
		arch.Data,
		arch.ContentHash,
		arch.CreatedAt,
		arch.RetrievedCount,
		arch.LastRetrievedAt,
	)
	if err != nil {
		return fmt.Errorf("insert archive: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Archive, error) {
	query := `SELECT ` + archiveColumns + ` FROM archives WHERE id = $1`
	arch, err := scanArchive(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	return arch, nil
}

func (s *PostgresStore) FindMatching(ctx context.Context, req RetrievalRequest) ([]*Archive, error) {
	var (
		conds []string
		args  []any
	)
	if req.ArchiveID != "" {
		args = append(args, req.ArchiveID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if len(req.DataClassifications) > 0 {
		classifications := make([]string, len(req.DataClassifications))
		for i, c := range req.DataClassifications {
			classifications[i] = string(c)
		}
		args = append(args, classifications)
		conds = append(conds, fmt.Sprintf("data_classification = ANY($%d)", len(args)))
	}
	if len(req.RetentionPolicies) > 0 {
		args = append(args, req.RetentionPolicies)
		conds = append(conds, fmt.Sprintf("retention_policy = ANY($%d)", len(args)))
	}

	query := `SELECT ` + archiveColumns + ` FROM archives`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query archives: %w", err)
	}
	defer rows.Close()

	var archives []*Archive
	for rows.Next() {
		arch, err := scanArchive(rows)
		if err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, arch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archives: %w", err)
	}
	return archives, nil
}

// UpdateRetrievalStats increments in the database so the counter stays
// atomic across concurrent retrieval calls.
func (s *PostgresStore) UpdateRetrievalStats(ctx context.Context, id string, retrievedAt time.Time) error {
	query := `
		UPDATE archives
		SET retrieved_count = retrieved_count + 1, last_retrieved_at = $2
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, retrievedAt)
	if err != nil {
		return fmt.Errorf("update retrieval stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanArchive(row pgx.Row) (*Archive, error) {
	var (
		arch           Archive
		classification string
		tags           []byte
	)
	err := row.Scan(
		&arch.ID,
		&arch.Metadata.RetentionPolicy,
		&classification,
		&tags,
		&arch.Data,
		&arch.ContentHash,
		&arch.CreatedAt,
		&arch.RetrievedCount,
		&arch.LastRetrievedAt,
	)
	if err != nil {
		return nil, err
	}
	arch.Metadata.DataClassification = domain.DataClassification(classification)
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &arch.Metadata.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal archive tags: %w", err)
		}
	}
	return &arch, nil
}
