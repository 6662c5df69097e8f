package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tradex-insights/tradex/internal/gateway/domain"
)

type loginAuditsRepo struct {
	db *sql.DB
}

func (r *loginAuditsRepo) CreateLoginAudit(ctx context.Context, a domain.LoginAudit) error {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_audits (id, email, type, client_key, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Email, string(a.Type), a.ClientKey, createdAt)
	return err
}

func (r *loginAuditsRepo) ListRecentLoginAudits(ctx context.Context, limit int) ([]domain.LoginAudit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, type, client_key, created_at
		FROM login_audits
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []domain.LoginAudit
	for rows.Next() {
		var a domain.LoginAudit
		var typ string
		if err := rows.Scan(&a.ID, &a.Email, &typ, &a.ClientKey, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.LoginType(typ)
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func (r *loginAuditsRepo) DeleteOldLoginAudits(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM login_audits
		WHERE id NOT IN (
			SELECT id FROM login_audits
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`, keep)
	return err
}
