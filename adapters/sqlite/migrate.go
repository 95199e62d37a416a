package sqlite

import (
	"context"
	"fmt"

	"github.com/dcvalino/mysite/core"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS identities (
		id             TEXT PRIMARY KEY,
		email          TEXT NOT NULL,
		password_hash  TEXT NOT NULL,
		hash_algorithm TEXT NOT NULL,
		created_at     INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS identities_email_lower_idx ON identities (lower(email))`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
		email       TEXT NOT NULL,
		token_hash  TEXT NOT NULL UNIQUE,
		ip_address  TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		expires_at  INTEGER NOT NULL,
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_identity_id_idx ON sessions (identity_id)`,
	`CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at)`,
	`CREATE TABLE IF NOT EXISTS games (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		name      TEXT NOT NULL,
		price     REAL NOT NULL DEFAULT 0,
		genre     TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS game_comments (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id INTEGER NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		comment TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS game_comments_game_id_idx ON game_comments (game_id)`,
}

func (a *Adapter) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, unavailable(err))
		}
	}
	return nil
}

// SeedGames inserts games only when the catalog is empty
func (a *Adapter) SeedGames(ctx context.Context, games []core.Game) (int, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM games`).Scan(&n); err != nil {
		return 0, unavailable(err)
	}
	if n > 0 {
		return 0, nil
	}

	for _, g := range games {
		res, err := tx.ExecContext(ctx, `INSERT INTO games (name, price, genre, image_url) VALUES (?, ?, ?, ?)`,
			g.Name, g.Price, g.Genre, g.ImageURL)
		if err != nil {
			return 0, unavailable(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, unavailable(err)
		}
		for _, c := range g.Comments {
			if _, err := tx.ExecContext(ctx, `INSERT INTO game_comments (game_id, comment) VALUES (?, ?)`, id, c.Text); err != nil {
				return 0, unavailable(err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, unavailable(err)
	}
	return len(games), nil
}
