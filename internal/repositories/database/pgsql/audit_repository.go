package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	"github.com/gochicken/gochicken_backend/internal/models"
	"github.com/gochicken/gochicken_backend/internal/utils/pagination"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func toDomainAuditEntry(m models.AuditLog) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:     m.AuditID,
		TableName:   m.TableName,
		Action:      domain.AuditAction(m.Action),
		RecordID:    m.RecordID,
		OldData:     m.OldData,
		NewData:     m.NewData,
		ActorUserID: m.ActorUserID,
		ActorRole:   domain.Role(m.ActorRole),
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// AppendInTx inserts one audit entry within the caller's transaction. Old
// and new payloads land in JSONB columns.
func (r *PgxAuditRepository) AppendInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (audit_id, table_name, action, record_id, old_data, new_data, actor_user_id, actor_role, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var oldData, newData []byte
	if len(entry.OldData) > 0 {
		oldData = entry.OldData
	}
	if len(entry.NewData) > 0 {
		newData = entry.NewData
	}

	_, err := tx.Exec(ctx, query,
		entry.AuditID,
		entry.TableName,
		string(entry.Action),
		entry.RecordID,
		oldData,
		newData,
		entry.ActorUserID,
		string(entry.ActorRole),
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry %s: %w", entry.AuditID, err)
	}
	return nil
}

// ListEntries retrieves a paginated, newest-first list of audit entries
// matching the filter, using token-based pagination on (created_at, audit_id).
func (r *PgxAuditRepository) ListEntries(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var tableArg, actionArg *string
	if filter.TableName != "" {
		tableArg = &filter.TableName
	}
	if filter.Action != "" {
		a := string(filter.Action)
		actionArg = &a
	}

	args := []any{tableArg, actionArg, filter.From, filter.To, limit + 1}
	query := `
		SELECT audit_id, table_name, action, record_id, old_data, new_data, actor_user_id, actor_role, description, created_at
		FROM audit_logs
		WHERE ($1::text IS NULL OR table_name = $1)
		  AND ($2::text IS NULL OR action = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
	`
	if nextToken != nil {
		createdAt, auditID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, audit_id) < ($6, $7)`
		args = append(args, createdAt, auditID)
	}
	query += `
		ORDER BY created_at DESC, audit_id DESC
		LIMIT $5;
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var m models.AuditLog
		err := rows.Scan(
			&m.AuditID,
			&m.TableName,
			&m.Action,
			&m.RecordID,
			&m.OldData,
			&m.NewData,
			&m.ActorUserID,
			&m.ActorRole,
			&m.Description,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		entries = append(entries, toDomainAuditEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating audit entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.AuditID)
		token = &t
	}
	return entries, token, nil
}

// ClearEntries removes all audit entries and returns how many were removed.
func (r *PgxAuditRepository) ClearEntries(ctx context.Context) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM audit_logs;`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear audit entries: %w", err)
	}
	return ct.RowsAffected(), nil
}
