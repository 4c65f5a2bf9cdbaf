package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, owner_id, name, email, subject, message, locale, ip, user_agent, read, created_at`

func scanContact(row rowScanner) (*entity.ContactMessage, error) {
	var m entity.ContactMessage
	if err := row.Scan(&m.ID, &m.OwnerID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Locale,
		&m.IP, &m.UserAgent, &m.Read, &m.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (owner_id, name, email, subject, message, locale, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, m.OwnerID, m.Name, m.Email, m.Subject, m.Message, m.Locale, m.IP, m.UserAgent)
	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *ContactRepository) List(ctx context.Context, ownerID string) ([]entity.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+`
		FROM contact_messages
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Get(ctx context.Context, ownerID, id string) (*entity.ContactMessage, error) {
	return scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+`
		FROM contact_messages WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

func (r *ContactRepository) MarkRead(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `UPDATE contact_messages SET read = true WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `DELETE FROM contact_messages WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *ContactRepository) CountUnread(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contact_messages WHERE owner_id = $1 AND NOT read`, ownerID).Scan(&n)
	return n, err
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
