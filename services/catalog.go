package services

import (
	"context"
	"errors"

	"github.com/dcvalino/mysite/core"
)

// CatalogService serves the game listing behind the session gate
type CatalogService struct {
	games core.GameStore
}

var _ core.CatalogReader = (*CatalogService)(nil)

func NewCatalogService(games core.GameStore) *CatalogService {
	return &CatalogService{games: games}
}

func (s *CatalogService) List(ctx context.Context) ([]*core.Game, error) {
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, storageError("failed to list games", err)
	}
	return games, nil
}

// Get returns the game with its comments attached
func (s *CatalogService) Get(ctx context.Context, id int64) (*core.Game, error) {
	if id <= 0 {
		return nil, core.ErrGameNotFound
	}
	game, err := s.games.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrGameNotFound) {
			return nil, core.ErrGameNotFound
		}
		return nil, storageError("failed to get game", err)
	}

	comments, err := s.games.ListComments(ctx, id)
	if err != nil {
		return nil, storageError("failed to list comments", err)
	}
	game.Comments = make([]core.Comment, 0, len(comments))
	for _, c := range comments {
		game.Comments = append(game.Comments, *c)
	}
	return game, nil
}
