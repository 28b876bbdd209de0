package ws

import "chess_backend/internal/domain"

const (
	// client -> server
	MsgPing             = "ping"
	MsgRequestGameState = "request_game_state"

	// server -> client
	MsgPong        = "pong"
	MsgGameStarted = "game_started"
	MsgMoveMade    = "move_made"
	MsgGameEnded   = "game_ended"
	MsgGameState   = "game_state"
)

type clientMessage struct {
	Type string `json:"type"`
}

type pongEvent struct {
	Type string `json:"type"`
}

type gameStartedEvent struct {
	Type string       `json:"type"`
	Game *domain.Game `json:"game"`
}

// moveGameState is the trimmed game view attached to move_made.
type moveGameState struct {
	CurrentTurn domain.Color        `json:"current_turn"`
	Status      domain.GameStatus   `json:"status"`
	Result      *domain.GameResult  `json:"result"`
	Termination *domain.Termination `json:"termination"`
}

type moveMadeEvent struct {
	Type      string        `json:"type"`
	Move      *domain.Move  `json:"move"`
	GameState moveGameState `json:"game_state"`
}

// timeoutGameView is the short game object sent when a clock runs out.
type timeoutGameView struct {
	ID            string              `json:"id"`
	Result        *domain.GameResult  `json:"result"`
	Termination   *domain.Termination `json:"termination"`
	WhiteTimeLeft float64             `json:"white_time_left"`
	BlackTimeLeft float64             `json:"black_time_left"`
}

type gameEndedEvent struct {
	Type       string `json:"type"`
	Game       any    `json:"game"`
	ResignedBy string `json:"resigned_by,omitempty"`
}

type gameStateEvent struct {
	Type     string       `json:"type"`
	Game     *domain.Game `json:"game"`
	PlayerID string       `json:"player_id"`
}
