package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type ExperienceRepository struct {
	pool *pgxpool.Pool
}

func NewExperienceRepository(pool *pgxpool.Pool) *ExperienceRepository {
	return &ExperienceRepository{pool: pool}
}

const experienceColumns = `id, owner_id, company, position, location, start_date, end_date, description,
	created_at, updated_at`

func scanExperience(row rowScanner) (*entity.Experience, error) {
	e := &entity.Experience{}
	err := row.Scan(&e.ID, &e.OwnerID, &e.Company, &e.Position, &e.Location, &e.StartDate, &e.EndDate,
		&e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *ExperienceRepository) List(ctx context.Context, ownerID string) ([]entity.Experience, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+experienceColumns+`
		FROM experiences
		WHERE owner_id = $1
		ORDER BY end_date DESC NULLS FIRST, start_date DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *ExperienceRepository) Get(ctx context.Context, ownerID, id string) (*entity.Experience, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+experienceColumns+` FROM experiences WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanExperience(row)
}

func (r *ExperienceRepository) Create(ctx context.Context, e *entity.Experience) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO experiences (owner_id, company, position, location, start_date, end_date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, e.OwnerID, e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.Description)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *ExperienceRepository) Update(ctx context.Context, e *entity.Experience) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE experiences
		SET company = $3, position = $4, location = $5, start_date = $6, end_date = $7,
			description = $8, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`, e.ID, e.OwnerID, e.Company, e.Position, e.Location, e.StartDate, e.EndDate, e.Description)
	return notFound(row.Scan(&e.CreatedAt, &e.UpdatedAt))
}

func (r *ExperienceRepository) Delete(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `DELETE FROM experiences WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *ExperienceRepository) Count(ctx context.Context, ownerID string) (int, error) {
	return countOwned(ctx, r.pool, "experiences", ownerID)
}

var _ repository.ExperienceRepository = (*ExperienceRepository)(nil)
