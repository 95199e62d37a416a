package pgx

import (
	"context"
	"errors"

	"github.com/dcvalino/mysite/core"
	"github.com/jackc/pgx/v5"
)

func (a *Adapter) ListGames(ctx context.Context) ([]*core.Game, error) {
	rows, err := a.db.Query(ctx, `SELECT id, name, price, genre, image_url FROM games ORDER BY id`)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	games := []*core.Game{}
	for rows.Next() {
		g := &core.Game{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Price, &g.Genre, &g.ImageURL); err != nil {
			return nil, unavailable(err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return games, nil
}

func (a *Adapter) GetGame(ctx context.Context, id int64) (*core.Game, error) {
	g := &core.Game{}
	err := a.db.QueryRow(ctx, `SELECT id, name, price, genre, image_url FROM games WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Price, &g.Genre, &g.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrGameNotFound
		}
		return nil, unavailable(err)
	}
	return g, nil
}

func (a *Adapter) ListComments(ctx context.Context, gameID int64) ([]*core.Comment, error) {
	rows, err := a.db.Query(ctx, `SELECT id, game_id, comment FROM game_comments WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	comments := []*core.Comment{}
	for rows.Next() {
		c := &core.Comment{}
		if err := rows.Scan(&c.ID, &c.GameID, &c.Text); err != nil {
			return nil, unavailable(err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return comments, nil
}
