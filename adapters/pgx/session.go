package pgx

import (
	"context"
	"errors"

	"github.com/dcvalino/mysite/core"
	"github.com/jackc/pgx/v5"
)

func (a *Adapter) CreateSession(ctx context.Context, session *core.Session) error {
	q := `INSERT INTO sessions (id, identity_id, email, token_hash, ip_address, user_agent, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := a.db.Exec(ctx, q,
		session.ID, session.IdentityID, session.Email, session.TokenHash,
		session.IPAddress, session.UserAgent,
		session.ExpiresAt, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	q := `SELECT id, identity_id, email, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
		FROM sessions WHERE token_hash = $1`

	s := &core.Session{}
	err := a.db.QueryRow(ctx, q, tokenHash).Scan(
		&s.ID, &s.IdentityID, &s.Email, &s.TokenHash,
		&s.IPAddress, &s.UserAgent,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, unavailable(err)
	}
	return s, nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	tag, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteIdentitySessions(ctx context.Context, identityID string) (int, error) {
	tag, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE identity_id = $1`, identityID)
	if err != nil {
		return 0, unavailable(err)
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, unavailable(err)
	}
	return int(tag.RowsAffected()), nil
}
