package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, owner_id, title, description, category, tech_stack, image_url, image_path,
	demo_url, repo_url, featured, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches q literally anywhere in the column.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func scanProject(row rowScanner) (*entity.Project, error) {
	p := &entity.Project{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Category, &p.TechStack,
		&p.ImageURL, &p.ImagePath, &p.DemoURL, &p.RepoURL, &p.Featured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, ownerID string, f repository.ProjectFilter) ([]entity.Project, int, error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured {
		where = append(where, "featured")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, containsPattern(q))
		n := len(args)
		where = append(where, fmt.Sprintf(`(title->>'id' ILIKE $%d ESCAPE '\' OR title->>'en' ILIKE $%d ESCAPE '\')`, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + cond + ` ORDER BY featured DESC, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*entity.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanProject(row)
}

func (r *ProjectRepository) GetMany(ctx context.Context, ownerID string, ids []string) ([]entity.Project, error) {
	out := make([]entity.Project, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE owner_id = $1 AND id::text = ANY($2)
		ORDER BY array_position($2, id::text)
	`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (owner_id, title, description, category, tech_stack, image_url, image_path,
			demo_url, repo_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Title, p.Description, p.Category, p.TechStack, p.ImageURL, p.ImagePath,
		p.DemoURL, p.RepoURL, p.Featured)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE projects
		SET title = $3, description = $4, category = $5, tech_stack = $6, image_url = $7,
			image_path = $8, demo_url = $9, repo_url = $10, featured = $11, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING created_at, updated_at
	`, p.ID, p.OwnerID, p.Title, p.Description, p.Category, p.TechStack, p.ImageURL,
		p.ImagePath, p.DemoURL, p.RepoURL, p.Featured)
	return notFound(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	return execOwned(ctx, r.pool, `DELETE FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
}

func (r *ProjectRepository) Count(ctx context.Context, ownerID string) (int, error) {
	return countOwned(ctx, r.pool, "projects", ownerID)
}

// execOwned runs an owner-scoped statement and maps "no rows touched" to
// repository.ErrNotFound.
func execOwned(ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) error {
	res, err := pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// countOwned counts rows of table owned by ownerID. table is never user input.
func countOwned(ctx context.Context, pool *pgxpool.Pool, table, ownerID string) (int, error) {
	var n int
	err := pool.QueryRow(ctx, `SELECT count(*) FROM `+table+` WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
