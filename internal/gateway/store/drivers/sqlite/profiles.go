package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
)

type profilesRepo struct {
	db *sql.DB
}

const profileColumns = `id, name, email, role, created_at, updated_at`

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

func (r *profilesRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Email, string(p.Role), now, now)
	return err
}

func scanProfile(row *sql.Row) (domain.Profile, error) {
	var p domain.Profile
	var role string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.Role = domain.NormalizeRole(role)
	return p, nil
}
