package repository

import (
	"context"
	"errors"
	"strconv"

	"chess_backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gameColumns = `id, white_player_id, black_player_id, status, current_turn, fen, pgn,
	result, termination, time_control, increment, white_time_left, black_time_left,
	last_move_time, created_at, updated_at`

type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g *domain.Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO games (id, white_player_id, black_player_id, status, current_turn,
		    fen, pgn, time_control, increment, white_time_left, black_time_left,
		    last_move_time, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		g.ID,
		g.WhitePlayerID,
		g.BlackPlayerID,
		g.Status,
		g.CurrentTurn,
		g.FEN,
		g.PGN,
		g.TimeControl,
		g.Increment,
		g.WhiteTimeLeft,
		g.BlackTimeLeft,
		g.LastMoveTime,
		g.CreatedAt,
		g.UpdatedAt,
	)
	return err
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	return scanGame(row)
}

// List returns games newest first, optionally filtered by status.
func (r *GameRepository) List(ctx context.Context, skip, limit int, status string) ([]*domain.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC OFFSET $` + strconv.Itoa(len(args)+1) +
		` LIMIT $` + strconv.Itoa(len(args)+2)
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *GameRepository) Update(ctx context.Context, g *domain.Game) error {
	_, err := r.db.Exec(ctx, gameUpdateSQL, gameUpdateArgs(g)...)
	return err
}

// UpdateClock persists a single side's remaining time without touching
// last_move_time. Used when an illegal attempt still burns clock.
func (r *GameRepository) UpdateClock(ctx context.Context, id string, side domain.Color, seconds float64) error {
	col := "white_time_left"
	if side == domain.Black {
		col = "black_time_left"
	}
	_, err := r.db.Exec(ctx,
		`UPDATE games SET `+col+` = $1, updated_at = NOW() WHERE id = $2`,
		seconds, id)
	return err
}

const gameUpdateSQL = `UPDATE games
	 SET black_player_id = $1, status = $2, current_turn = $3, fen = $4, pgn = $5,
	     result = $6, termination = $7, white_time_left = $8, black_time_left = $9,
	     last_move_time = $10, updated_at = $11
	 WHERE id = $12`

func gameUpdateArgs(g *domain.Game) []any {
	return []any{
		g.BlackPlayerID,
		g.Status,
		g.CurrentTurn,
		g.FEN,
		g.PGN,
		g.Result,
		g.Termination,
		g.WhiteTimeLeft,
		g.BlackTimeLeft,
		g.LastMoveTime,
		g.UpdatedAt,
		g.ID,
	}
}

func scanGame(row rowScanner) (*domain.Game, error) {
	var g domain.Game
	if err := row.Scan(
		&g.ID,
		&g.WhitePlayerID,
		&g.BlackPlayerID,
		&g.Status,
		&g.CurrentTurn,
		&g.FEN,
		&g.PGN,
		&g.Result,
		&g.Termination,
		&g.TimeControl,
		&g.Increment,
		&g.WhiteTimeLeft,
		&g.BlackTimeLeft,
		&g.LastMoveTime,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
