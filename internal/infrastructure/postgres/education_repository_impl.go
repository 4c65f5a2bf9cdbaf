package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type EducationRepository struct {
	pool *pgxpool.Pool
}

func NewEducationRepository(pool *pgxpool.Pool) *EducationRepository {
	return &EducationRepository{pool: pool}
}

const educationColumns = `id, owner_id, institution, degree, field, start_year, end_year, description,
	created_at, updated_at`

func scanEducation(row rowScanner) (*entity.Education, error) {
	e := &entity.Education{}
	err := row.Scan(&e.ID, &e.OwnerID, &e.Institution, &e.Degree, &e.Field, &e.StartYear, &e.EndYear,
		&e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *EducationRepository) List(ctx context.Context, ownerID string) ([]entity.Education, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+educationColumns+`
		FROM educations
		WHERE owner_id = $1
		ORDER BY start_year DESC, end_year DESC NULLS FIRST
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EducationRepository) Get(ctx context.Context, ownerID, id string) (*entity.Education, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+educationColumns+` FROM educations WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanEducation(row)
}

func (r *EducationRepository) Create(ctx context.Context, e *entity.Education) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO educations (owner_id, institution, degree, field, start_year, end_year, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, e.OwnerID, e.Institution, e.Degree, e.Field, e.StartYear, e.EndYear, e.Description)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EducationRepository) Update(ctx context.Context, e *entity.Education) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE educations
		SET institution = $3, degree = $4, field = $5, start_year = $6, end_year = $7,
			description = $8, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`, e.ID, e.OwnerID, e.Institution, e.Degree, e.Field, e.StartYear, e.EndYear, e.Description)
	return notFound(row.Scan(&e.CreatedAt, &e.UpdatedAt))
}

func (r *EducationRepository) Delete(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `DELETE FROM educations WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *EducationRepository) Count(ctx context.Context, ownerID string) (int, error) {
	return countOwned(ctx, r.pool, "educations", ownerID)
}

var _ repository.EducationRepository = (*EducationRepository)(nil)
