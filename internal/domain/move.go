package domain

import "time"

// Move is one accepted half-move. Rows are append-only.
type Move struct {
	ID            int64     `db:"id" json:"id"`
	GameID        string    `db:"game_id" json:"game_id"`
	PlayerID      string    `db:"player_id" json:"player_id"`
	MoveNotation  string    `db:"move_notation" json:"move_notation"`
	SANNotation   string    `db:"san_notation" json:"san_notation"`
	FENBefore     string    `db:"fen_before" json:"-"`
	FENAfter      string    `db:"fen_after" json:"fen_after"`
	MoveNumber    int       `db:"move_number" json:"move_number"`
	WhiteTimeLeft int       `db:"white_time_left" json:"white_time_left"`
	BlackTimeLeft int       `db:"black_time_left" json:"black_time_left"`
	CreatedAt     time.Time `db:"created_at" json:"timestamp"`
}
