package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcvalino/mysite/core"
	"github.com/jackc/pgx/v5"
)

func (a *Adapter) FindByEmail(ctx context.Context, email string) (*core.Identity, error) {
	q := `SELECT id, email, password_hash, hash_algorithm, created_at FROM identities WHERE lower(email) = lower($1)`

	identity := &core.Identity{}
	err := a.db.QueryRow(ctx, q, email).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.HashAlgorithm, &identity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable(err)
	}
	return identity, nil
}

// Insert relies on the unique index over lower(email); a violation means
// another registration got there first.
func (a *Adapter) Insert(ctx context.Context, identity *core.Identity) error {
	q := `INSERT INTO identities (id, email, password_hash, hash_algorithm, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := a.db.Exec(ctx, q, identity.ID, identity.Email, identity.PasswordHash, identity.HashAlgorithm, identity.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateIdentity, identity.Email)
		}
		return unavailable(err)
	}
	return nil
}

func (a *Adapter) Count(ctx context.Context) (int, error) {
	var n int64
	if err := a.db.QueryRow(ctx, `SELECT count(*) FROM identities`).Scan(&n); err != nil {
		return 0, unavailable(err)
	}
	return int(n), nil
}
