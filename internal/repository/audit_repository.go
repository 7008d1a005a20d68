package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// AuditRepository appends audit trail rows. Best effort only; callers are
// expected to swallow failures.
type AuditRepository interface {
	Insert(ctx context.Context, record *domain.AuditRecord) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository constructs repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, record *domain.AuditRecord) error {
	const query = `
        INSERT INTO audit_log (id, kind, actor_id, actor_email, detail)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.Kind,
		record.ActorID,
		record.ActorEmail,
		record.Detail,
	).Scan(&record.CreatedAt)
}
