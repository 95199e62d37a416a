package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dcvalino/mysite/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_List(t *testing.T) {
	tests := []struct {
		name      string
		store     *FakeGameStore
		wantCount int
		wantErr   error
	}{
		{
			name:      "returns all games",
			store:     &FakeGameStore{games: []*core.Game{{ID: 1, Name: "Tetris"}, {ID: 2, Name: "Doom"}}},
			wantCount: 2,
		},
		{
			name:      "empty catalog is not an error",
			store:     &FakeGameStore{},
			wantCount: 0,
		},
		{
			name:    "storage failure",
			store:   &FakeGameStore{listErr: errors.New("timeout")},
			wantErr: core.ErrStorageUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service := NewCatalogService(test.store)

			games, err := service.List(context.Background())

			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, games, test.wantCount)
		})
	}
}

func TestCatalogService_Get(t *testing.T) {
	store := &FakeGameStore{games: []*core.Game{{ID: 7, Name: "Myst", Price: 9.99}}}
	service := NewCatalogService(store)

	game, err := service.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Myst", game.Name)
	assert.Empty(t, game.Comments)

	_, err = service.Get(context.Background(), 8)
	assert.ErrorIs(t, err, core.ErrGameNotFound)

	_, err = service.Get(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrGameNotFound)

	store.getErr = errors.New("timeout")
	_, err = service.Get(context.Background(), 7)
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

// Requirement: the detail view carries the game's comments in store order.
func TestCatalogService_GetAttachesComments(t *testing.T) {
	// Arrange
	store := &FakeGameStore{
		games: []*core.Game{{ID: 7, Name: "Myst"}},
		comments: map[int64][]*core.Comment{
			7: {{ID: 1, GameID: 7, Text: "Muy bonito"}, {ID: 4, GameID: 7, Text: "Algo lento"}},
		},
	}
	service := NewCatalogService(store)

	// Act
	game, err := service.Get(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	require.Len(t, game.Comments, 2)
	assert.Equal(t, "Muy bonito", game.Comments[0].Text)
	assert.Equal(t, int64(4), game.Comments[1].ID)
}

func TestCatalogService_GetCommentsFailure(t *testing.T) {
	store := &FakeGameStore{
		games:       []*core.Game{{ID: 7, Name: "Myst"}},
		commentsErr: errors.New("timeout"),
	}

	game, err := NewCatalogService(store).Get(context.Background(), 7)

	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Nil(t, game)
}
