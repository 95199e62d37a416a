package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcvalino/mysite/adapters/memory"
	pgxadapter "github.com/dcvalino/mysite/adapters/pgx"
	redisadapter "github.com/dcvalino/mysite/adapters/redis"
	sqliteadapter "github.com/dcvalino/mysite/adapters/sqlite"
	"github.com/dcvalino/mysite/config"
	"github.com/dcvalino/mysite/core"
	"github.com/dcvalino/mysite/pkg/crypto"
)

// backend is the store behind identities, games and database sessions
type backend struct {
	core.Store

	migrate func(context.Context) error
	seed    func(context.Context, []core.Game) (int, error)
	close   func()
}

func openStore(ctx context.Context, db config.DatabaseSection) (*backend, error) {
	switch db.Driver {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(db.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		if db.MaxConns > 0 {
			poolConfig.MaxConns = db.MaxConns
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		adapter := pgxadapter.New(pool)
		if err := adapter.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{Store: adapter, migrate: adapter.Migrate, seed: adapter.SeedGames, close: pool.Close}, nil

	case "sqlite":
		adapter, err := sqliteadapter.Open(db.DSN)
		if err != nil {
			return nil, err
		}
		return &backend{
			Store:   adapter,
			migrate: adapter.Migrate,
			seed:    adapter.SeedGames,
			close:   func() { _ = adapter.Close() },
		}, nil

	case "memory":
		adapter := memory.New()
		return &backend{Store: adapter, seed: adapter.SeedGames, close: func() {}}, nil
	}

	return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalidConfig, db.Driver)
}

func prepareStore(ctx context.Context, store *backend, db config.DatabaseSection, log *slog.Logger) error {
	if db.Migrate && store.migrate != nil {
		if err := store.migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	if db.SeedDemoGames {
		n, err := store.seed(ctx, core.DemoGames())
		if err != nil {
			return fmt.Errorf("seed games: %w", err)
		}
		log.Info("seeded demo games", "inserted", n)
	}

	return nil
}

// openSessionStorage returns the database store itself unless sessions live in redis
func openSessionStorage(ctx context.Context, cfg config.Config, store *backend) (core.SessionStorage, func(), error) {
	if cfg.Sessions.Store != "redis" {
		return store, func() {}, nil
	}

	client, err := redisadapter.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return redisadapter.NewSessionStore(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil
}

func newHasher(reg config.RegistrationSection) crypto.PasswordHandler {
	if reg.Hasher == "argon2id" {
		return crypto.NewArgon2()
	}
	return crypto.NewBcrypt(reg.BcryptCost)
}
