package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type CertificateRepository struct {
	pool *pgxpool.Pool
}

func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

const certificateColumns = `id, owner_id, name, issuer, issued_at, expires_at, credential_url,
	image_url, image_path, created_at, updated_at`

func scanCertificate(row rowScanner) (*entity.Certificate, error) {
	c := &entity.Certificate{}
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Issuer, &c.IssuedAt, &c.ExpiresAt, &c.CredentialURL,
		&c.ImageURL, &c.ImagePath, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *CertificateRepository) List(ctx context.Context, ownerID string) ([]entity.Certificate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE owner_id = $1 ORDER BY issued_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CertificateRepository) Get(ctx context.Context, ownerID, id string) (*entity.Certificate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanCertificate(row)
}

func (r *CertificateRepository) Create(ctx context.Context, c *entity.Certificate) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO certificates (owner_id, name, issuer, issued_at, expires_at, credential_url, image_url, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, c.OwnerID, c.Name, c.Issuer, c.IssuedAt, c.ExpiresAt, c.CredentialURL, c.ImageURL, c.ImagePath)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CertificateRepository) Update(ctx context.Context, c *entity.Certificate) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE certificates
		SET name = $3, issuer = $4, issued_at = $5, expires_at = $6, credential_url = $7,
			image_url = $8, image_path = $9, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`, c.ID, c.OwnerID, c.Name, c.Issuer, c.IssuedAt, c.ExpiresAt, c.CredentialURL, c.ImageURL, c.ImagePath)
	return notFound(row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *CertificateRepository) Delete(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `DELETE FROM certificates WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *CertificateRepository) Count(ctx context.Context, ownerID string) (int, error) {
	return countOwned(ctx, r.pool, "certificates", ownerID)
}

var _ repository.CertificateRepository = (*CertificateRepository)(nil)
