package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	var uid pgtype.UUID
	if e.UserID != "" {
		if err := uid.Scan(e.UserID); err != nil {
			uid = pgtype.UUID{}
		}
	}
	md := e.Metadata
	if md == nil {
		md = map[string]any{}
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uid, textOrNull(e.Email), e.Action, textOrNull(e.IP), textOrNull(e.UserAgent), md)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
