package core

import "context"

// IdentityStore is the durable, unique-keyed table of registered identities.
//
// The store's uniqueness constraint on email is authoritative: Insert must fail
// atomically with an error wrapping ErrDuplicateIdentity when the email already
// exists, even if a previous FindByEmail missed it. Any other failure wraps
// ErrStorageUnavailable.
type IdentityStore interface {
	// FindByEmail returns (nil, nil) when no identity matches.
	FindByEmail(ctx context.Context, email string) (*Identity, error)

	Insert(ctx context.Context, identity *Identity) error

	Count(ctx context.Context) (int, error)
}

type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error

	// Query methods
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)

	// Delete methods
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteIdentitySessions(ctx context.Context, identityID string) (int, error)

	// Cleanup
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

type GameStore interface {
	ListGames(ctx context.Context) ([]*Game, error)
	GetGame(ctx context.Context, id int64) (*Game, error)

	// ListComments returns the comments of one game, oldest first. An unknown
	// game has no comments.
	ListComments(ctx context.Context, gameID int64) ([]*Comment, error)
}

// Store is implemented by adapters that back every port with one database
type Store interface {
	IdentityStore
	SessionStorage
	GameStore
}
