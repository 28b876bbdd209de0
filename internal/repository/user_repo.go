package repository

import (
	"context"
	"errors"

	"chess_backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const userColumns = `id, username, rating, games_played, games_won, is_online, last_seen, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetOrCreate resolves a user by display name, creating it on first use.
// The insert races safely: on a username conflict the existing row wins.
func (r *UserRepository) GetOrCreate(ctx context.Context, username string) (*domain.User, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING`,
		uuid.NewString(), username)
	if err != nil {
		return nil, err
	}
	return r.GetByUsername(ctx, username)
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// SetOnline flips the presence flag and refreshes last_seen.
func (r *UserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_online = $1, last_seen = NOW() WHERE id = $2`,
		online, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Rating,
		&u.GamesPlayed,
		&u.GamesWon,
		&u.IsOnline,
		&u.LastSeen,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// applyResultTx bumps the lifetime counters of one player inside an
// open transaction: games_played always, games_won only for the winner.
func applyResultTx(ctx context.Context, tx pgx.Tx, res domain.PlayerResult) error {
	won := 0
	if res.Won {
		won = 1
	}
	_, err := tx.Exec(ctx,
		`UPDATE users
		 SET games_played = games_played + 1, games_won = games_won + $1
		 WHERE id = $2`,
		won, res.UserID)
	return err
}
