package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `user_id, role, full_name, headline, bio, avatar_url, avatar_path,
	email, phone, location, resume_url, socials, created_at, updated_at`

// LookupRole returns the stored role for userID. A missing profile row is
// repository.ErrNotFound.
func (r *ProfileRepository) LookupRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM profiles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		return "", notFound(err)
	}
	return role, nil
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	return scanProfile(row)
}

// FirstAdmin returns the earliest admin profile; it is the default site owner.
func (r *ProfileRepository) FirstAdmin(ctx context.Context) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE role = $1
		ORDER BY created_at
		LIMIT 1
	`, entity.RoleAdmin)
	return scanProfile(row)
}

// Upsert writes the editable profile fields. The role column is only set on
// insert (to 'user') and is never changed here.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	if p.Socials == nil {
		p.Socials = map[string]string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, full_name, headline, bio, avatar_url, avatar_path,
			email, phone, location, resume_url, socials)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			headline = EXCLUDED.headline,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			avatar_path = EXCLUDED.avatar_path,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			resume_url = EXCLUDED.resume_url,
			socials = EXCLUDED.socials,
			updated_at = now()
		RETURNING role, created_at, updated_at
	`, p.UserID, p.FullName, p.Headline, p.Bio, p.AvatarURL, p.AvatarPath,
		p.Email, p.Phone, p.Location, p.ResumeURL, p.Socials)
	return row.Scan(&p.Role, &p.CreatedAt, &p.UpdatedAt)
}

// AssignRole sets the stored role for userID. Only the seed command calls it;
// no HTTP route can change a role.
func (r *ProfileRepository) AssignRole(ctx context.Context, userID, role string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET role = $2, updated_at = now() WHERE user_id = $1`, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanProfile(row rowScanner) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := row.Scan(&p.UserID, &p.Role, &p.FullName, &p.Headline, &p.Bio, &p.AvatarURL, &p.AvatarPath,
		&p.Email, &p.Phone, &p.Location, &p.ResumeURL, &p.Socials, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
