package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dcvalino/mysite/core"
)

func (a *Adapter) FindByEmail(ctx context.Context, email string) (*core.Identity, error) {
	q := `SELECT id, email, password_hash, hash_algorithm, created_at FROM identities WHERE lower(email) = lower(?)`

	identity := &core.Identity{}
	var createdAt int64
	err := a.db.QueryRowContext(ctx, q, email).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.HashAlgorithm, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(err)
	}
	identity.CreatedAt = fromUnix(createdAt)
	return identity, nil
}

func (a *Adapter) Insert(ctx context.Context, identity *core.Identity) error {
	q := `INSERT INTO identities (id, email, password_hash, hash_algorithm, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, q, identity.ID, identity.Email, identity.PasswordHash, identity.HashAlgorithm, toUnix(identity.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateIdentity, identity.Email)
		}
		return unavailable(err)
	}
	return nil
}

func (a *Adapter) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT count(*) FROM identities`).Scan(&n); err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}
