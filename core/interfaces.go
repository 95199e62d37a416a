package core

import "context"

// Ports used by HTTP adapters

// Registrar runs one registration attempt end to end. A nil error is the
// success signal; the caller owns session establishment and the redirect.
type Registrar interface {
	Register(ctx context.Context, req RegistrationRequest) (*Identity, error)
}

// SessionService backs the session gate
type SessionService interface {
	Create(ctx context.Context, identity *Identity, ipAddress, userAgent string) (*CreateSessionResult, error)
	Verify(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

// CatalogReader serves the protected game listing
type CatalogReader interface {
	List(ctx context.Context) ([]*Game, error)

	// Get returns one game with its comments
	Get(ctx context.Context, id int64) (*Game, error)
}

type HTTPAdapter interface {
	RegisterRoutes(site *Site) error
}
