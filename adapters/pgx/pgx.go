package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcvalino/mysite/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// DBTX is the subset of *pgxpool.Pool the adapter needs. pgx.Tx and
// *pgx.Conn satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Adapter struct {
	db DBTX
}

var _ core.Store = (*Adapter)(nil)

func New(db DBTX) *Adapter {
	return &Adapter{
		db: db,
	}
}

// Ping checks the connection when the underlying handle supports it
func (a *Adapter) Ping(ctx context.Context) error {
	p, ok := a.db.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
}
