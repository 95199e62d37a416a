package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dcvalino/mysite/core"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Adapter stores identities, sessions and the catalog in a single SQLite file
type Adapter struct {
	db  *sql.DB
	now func() time.Time
}

var _ core.Store = (*Adapter)(nil)

// Open opens (or creates) the database at path with foreign keys enabled.
// Writes are serialized through one connection.
func Open(path string) (*Adapter, error) {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")

	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	return New(db), nil
}

func New(db *sql.DB) *Adapter {
	return &Adapter{db: db, now: time.Now}
}

func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
}

// Timestamps are stored as unix nanoseconds
func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }
