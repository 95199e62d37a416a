package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dcvalino/mysite/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Identities(t *testing.T) {
	ctx := context.Background()
	adapter := New()

	missing, err := adapter.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, adapter.Insert(ctx, &core.Identity{ID: "1", Email: "a@b.com", PasswordHash: "h1"}))
	err = adapter.Insert(ctx, &core.Identity{ID: "2", Email: "A@B.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, core.ErrDuplicateIdentity)

	found, err := adapter.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "h1", found.PasswordHash, "the first identity must be left untouched")

	found.PasswordHash = "mutated"
	again, _ := adapter.FindByEmail(ctx, "a@b.com")
	assert.Equal(t, "h1", again.PasswordHash, "callers get copies")
}

func TestAdapter_ConcurrentInsertSameEmail(t *testing.T) {
	adapter := New()
	const workers = 20
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = adapter.Insert(context.Background(), &core.Identity{ID: "id", Email: "race@b.com"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, core.ErrDuplicateIdentity))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAdapter_Sessions(t *testing.T) {
	ctx := context.Background()
	adapter := New()
	clock := time.Now()
	adapter.now = func() time.Time { return clock }

	require.NoError(t, adapter.CreateSession(ctx, &core.Session{ID: "s1", IdentityID: "i1", TokenHash: "h1", ExpiresAt: clock.Add(time.Hour)}))
	require.NoError(t, adapter.CreateSession(ctx, &core.Session{ID: "s2", IdentityID: "i1", TokenHash: "h2", ExpiresAt: clock.Add(-time.Minute)}))
	require.NoError(t, adapter.CreateSession(ctx, &core.Session{ID: "s3", IdentityID: "i2", TokenHash: "h3", ExpiresAt: clock.Add(time.Hour)}))

	s, err := adapter.GetSessionByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)

	n, err := adapter.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = adapter.DeleteIdentitySessions(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, adapter.DeleteSessionByHash(ctx, "h3"))
	assert.ErrorIs(t, adapter.DeleteSessionByHash(ctx, "h3"), core.ErrSessionNotFound)
	_, err = adapter.GetSessionByHash(ctx, "h3")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestAdapter_Games(t *testing.T) {
	ctx := context.Background()
	adapter := New()

	n, err := adapter.SeedGames(ctx, core.DemoGames())
	require.NoError(t, err)
	assert.Equal(t, len(core.DemoGames()), n)

	n, err = adapter.SeedGames(ctx, core.DemoGames())
	require.NoError(t, err)
	assert.Zero(t, n)

	games, err := adapter.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, len(core.DemoGames()))
	for i, g := range games {
		assert.Equal(t, int64(i+1), g.ID, "listing is ordered by id")
	}

	g, err := adapter.GetGame(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, core.DemoGames()[1].Name, g.Name)

	_, err = adapter.GetGame(ctx, 99)
	assert.ErrorIs(t, err, core.ErrGameNotFound)
}

func TestAdapter_Comments(t *testing.T) {
	ctx := context.Background()
	adapter := New()
	_, err := adapter.SeedGames(ctx, core.DemoGames())
	require.NoError(t, err)

	comments, err := adapter.ListComments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, len(core.DemoGames()[0].Comments))
	assert.Equal(t, core.DemoGames()[0].Comments[0].Text, comments[0].Text)
	assert.Equal(t, int64(1), comments[0].GameID)

	// returned comments are copies
	comments[0].Text = "changed"
	again, err := adapter.ListComments(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, core.DemoGames()[0].Comments[0].Text, again[0].Text)

	g, err := adapter.GetGame(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, g.Comments, "comments are only served by ListComments")

	none, err := adapter.ListComments(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
