package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dcvalino/mysite/core"
)

func (a *Adapter) CreateSession(ctx context.Context, s *core.Session) error {
	q := `INSERT INTO sessions (id, identity_id, email, token_hash, ip_address, user_agent, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, q,
		s.ID, s.IdentityID, s.Email, s.TokenHash, s.IPAddress, s.UserAgent,
		toUnix(s.ExpiresAt), toUnix(s.CreatedAt), toUnix(s.UpdatedAt),
	)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	q := `SELECT id, identity_id, email, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
		FROM sessions WHERE token_hash = ?`

	s := &core.Session{}
	var expiresAt, createdAt, updatedAt int64
	err := a.db.QueryRowContext(ctx, q, tokenHash).Scan(
		&s.ID, &s.IdentityID, &s.Email, &s.TokenHash, &s.IPAddress, &s.UserAgent,
		&expiresAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, unavailable(err)
	}
	s.ExpiresAt = fromUnix(expiresAt)
	s.CreatedAt = fromUnix(createdAt)
	s.UpdatedAt = fromUnix(updatedAt)
	return s, nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	n, err := a.exec(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteIdentitySessions(ctx context.Context, identityID string) (int, error) {
	return a.exec(ctx, `DELETE FROM sessions WHERE identity_id = ?`, identityID)
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	return a.exec(ctx, `DELETE FROM sessions WHERE expires_at < ?`, toUnix(a.now()))
}

// exec runs a write and returns the number of affected rows
func (a *Adapter) exec(ctx context.Context, q string, args ...any) (int, error) {
	res, err := a.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable(err)
	}
	return int(n), nil
}
