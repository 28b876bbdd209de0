package repository

import (
	"context"
	"fmt"

	"chess_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the repositories and owns the transaction boundary for
// the engine's state transitions: a move (move row + game row + stats)
// or a finalization (game row + stats) commits atomically or not at all.
type Store struct {
	pool  *pgxpool.Pool
	Users *UserRepository
	Games *GameRepository
	Moves *MoveRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		Users: NewUserRepository(pool),
		Games: NewGameRepository(pool),
		Moves: NewMoveRepository(pool),
	}
}

func (s *Store) GetOrCreateUser(ctx context.Context, username string) (*domain.User, error) {
	return s.Users.GetOrCreate(ctx, username)
}

func (s *Store) SetOnline(ctx context.Context, userID string, online bool) error {
	return s.Users.SetOnline(ctx, userID, online)
}

// GetGame returns (nil, nil) when the game does not exist.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	g, err := s.Games.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, nil
	}
	return g, err
}

func (s *Store) CreateGame(ctx context.Context, g *domain.Game) error {
	return s.Games.Create(ctx, g)
}

func (s *Store) UpdateGame(ctx context.Context, g *domain.Game) error {
	return s.Games.Update(ctx, g)
}

func (s *Store) PersistClock(ctx context.Context, gameID string, side domain.Color, seconds float64) error {
	return s.Games.UpdateClock(ctx, gameID, side, seconds)
}

func (s *Store) NextMoveNumber(ctx context.Context, gameID string) (int, error) {
	n, err := s.Moves.CountByGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// ApplyMove commits an accepted move: the append-only move row, the
// updated game row and, for a terminal position, both players' counters.
func (s *Store) ApplyMove(ctx context.Context, g *domain.Game, m *domain.Move, stats []domain.PlayerResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin move tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertMoveTx(ctx, tx, m); err != nil {
		return fmt.Errorf("insert move: %w", err)
	}
	if _, err := tx.Exec(ctx, gameUpdateSQL, gameUpdateArgs(g)...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	for _, res := range stats {
		if err := applyResultTx(ctx, tx, res); err != nil {
			return fmt.Errorf("update stats for %s: %w", res.UserID, err)
		}
	}
	return tx.Commit(ctx)
}

// FinalizeGame commits a terminal transition that carries no move row
// (timeout, resignation).
func (s *Store) FinalizeGame(ctx context.Context, g *domain.Game, stats []domain.PlayerResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin finalize tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, gameUpdateSQL, gameUpdateArgs(g)...); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	for _, res := range stats {
		if err := applyResultTx(ctx, tx, res); err != nil {
			return fmt.Errorf("update stats for %s: %w", res.UserID, err)
		}
	}
	return tx.Commit(ctx)
}
