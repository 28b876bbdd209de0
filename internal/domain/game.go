package domain

import "time"

// StartingFEN is the board state every new game begins from.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Color identifies a side of the board.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// GameResult is the terminal outcome of a finished game.
type GameResult string

const (
	ResultWhiteWins GameResult = "white_wins"
	ResultBlackWins GameResult = "black_wins"
	ResultDraw      GameResult = "draw"
)

// WinFor maps a side to the result in its favor.
func WinFor(c Color) GameResult {
	if c == White {
		return ResultWhiteWins
	}
	return ResultBlackWins
}

// Termination is the reason a game finished.
type Termination string

const (
	TerminationCheckmate   Termination = "checkmate"
	TerminationStalemate   Termination = "stalemate"
	TerminationResignation Termination = "resignation"
	TerminationTimeout     Termination = "timeout"
)

type Game struct {
	ID            string       `db:"id" json:"id"`
	WhitePlayerID string       `db:"white_player_id" json:"white_player_id"`
	BlackPlayerID *string      `db:"black_player_id" json:"black_player_id"`
	Status        GameStatus   `db:"status" json:"status"`
	CurrentTurn   Color        `db:"current_turn" json:"current_turn"`
	FEN           string       `db:"fen" json:"fen"`
	PGN           string       `db:"pgn" json:"-"`
	Result        *GameResult  `db:"result" json:"result"`
	Termination   *Termination `db:"termination" json:"termination"`
	TimeControl   int          `db:"time_control" json:"time_control"`
	Increment     int          `db:"increment" json:"increment"`
	WhiteTimeLeft float64      `db:"white_time_left" json:"white_time_left"`
	BlackTimeLeft float64      `db:"black_time_left" json:"black_time_left"`
	LastMoveTime  time.Time    `db:"last_move_time" json:"-"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// PlayerColor returns the side the given user plays, or "" for spectators.
func (g *Game) PlayerColor(userID string) Color {
	if g.WhitePlayerID == userID {
		return White
	}
	if g.BlackPlayerID != nil && *g.BlackPlayerID == userID {
		return Black
	}
	return ""
}

// PlayerID returns the user seated on the given side ("" while waiting for black).
func (g *Game) PlayerID(c Color) string {
	if c == White {
		return g.WhitePlayerID
	}
	if g.BlackPlayerID != nil {
		return *g.BlackPlayerID
	}
	return ""
}

// TimeLeft returns the remaining clock of the given side.
func (g *Game) TimeLeft(c Color) float64 {
	if c == White {
		return g.WhiteTimeLeft
	}
	return g.BlackTimeLeft
}

// SetTimeLeft overwrites the remaining clock of the given side.
func (g *Game) SetTimeLeft(c Color, seconds float64) {
	if c == White {
		g.WhiteTimeLeft = seconds
	} else {
		g.BlackTimeLeft = seconds
	}
}
