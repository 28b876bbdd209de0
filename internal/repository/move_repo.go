package repository

import (
	"context"

	"chess_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const moveColumns = `id, game_id, player_id, move_notation, san_notation,
	fen_before, fen_after, move_number, white_time_left, black_time_left, created_at`

type MoveRepository struct {
	db *pgxpool.Pool
}

func NewMoveRepository(db *pgxpool.Pool) *MoveRepository {
	return &MoveRepository{db: db}
}

// ListByGame returns the full transcript ordered by move number.
func (r *MoveRepository) ListByGame(ctx context.Context, gameID string) ([]*domain.Move, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+moveColumns+` FROM moves WHERE game_id = $1 ORDER BY move_number`,
		gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *MoveRepository) CountByGame(ctx context.Context, gameID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM moves WHERE game_id = $1`, gameID).Scan(&n)
	return n, err
}

func scanMove(row rowScanner) (*domain.Move, error) {
	var m domain.Move
	if err := row.Scan(
		&m.ID,
		&m.GameID,
		&m.PlayerID,
		&m.MoveNotation,
		&m.SANNotation,
		&m.FENBefore,
		&m.FENAfter,
		&m.MoveNumber,
		&m.WhiteTimeLeft,
		&m.BlackTimeLeft,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// insertMoveTx appends a move row inside an open transaction and fills
// in the generated id.
func insertMoveTx(ctx context.Context, tx pgx.Tx, m *domain.Move) error {
	return tx.QueryRow(ctx,
		`INSERT INTO moves (game_id, player_id, move_notation, san_notation,
		    fen_before, fen_after, move_number, white_time_left, black_time_left, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		m.GameID,
		m.PlayerID,
		m.MoveNotation,
		m.SANNotation,
		m.FENBefore,
		m.FENAfter,
		m.MoveNumber,
		m.WhiteTimeLeft,
		m.BlackTimeLeft,
		m.CreatedAt,
	).Scan(&m.ID)
}
