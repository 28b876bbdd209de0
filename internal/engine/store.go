package engine

import (
	"context"

	"chess_backend/internal/domain"
)

// Store is the persistence surface the processor drives. The pgx-backed
// implementation lives in internal/repository; tests substitute an
// in-memory one.
type Store interface {
	GetOrCreateUser(ctx context.Context, username string) (*domain.User, error)

	// GetGame returns (nil, nil) when no game with that id exists.
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	CreateGame(ctx context.Context, g *domain.Game) error
	UpdateGame(ctx context.Context, g *domain.Game) error

	// PersistClock writes a single side's remaining time without
	// touching the rest of the game row. Used for the deduction that
	// an illegal move attempt still costs.
	PersistClock(ctx context.Context, gameID string, side domain.Color, seconds float64) error

	NextMoveNumber(ctx context.Context, gameID string) (int, error)

	// ApplyMove commits the move row, the updated game row and any
	// player stat bumps in one transaction.
	ApplyMove(ctx context.Context, g *domain.Game, m *domain.Move, stats []domain.PlayerResult) error

	// FinalizeGame commits a terminal game row plus stat bumps in one
	// transaction, for endings that do not produce a move (timeout,
	// resignation).
	FinalizeGame(ctx context.Context, g *domain.Game, stats []domain.PlayerResult) error
}

// Broadcaster delivers game events to connected spectators and players.
// Delivery is best effort; the processor never blocks on it.
type Broadcaster interface {
	GameStarted(g *domain.Game)
	MoveMade(g *domain.Game, m *domain.Move)
	// GameEnded is emitted for endings without a terminal move:
	// resignations (resignedBy is the resigning player's id) and
	// timeouts (resignedBy is empty).
	GameEnded(g *domain.Game, resignedBy string)
}
