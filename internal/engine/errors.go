package engine

import "errors"

// Client-error taxonomy. These are rejections: no state was mutated
// (except the documented clock deduction on ErrInvalidMove) and nothing
// was broadcast. ErrTimeExpired is the one temporal error: the game WAS
// finalized and game_ended broadcast before it is returned.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotActive  = errors.New("game is not active")
	ErrGameNotWaiting = errors.New("game is not waiting for players")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrInvalidMove    = errors.New("invalid move")
	ErrGameFull       = errors.New("game is full")
	ErrAlreadyInGame  = errors.New("you are already in this game")
	ErrNotPlayer      = errors.New("you are not a player in this game")
	ErrTimeExpired    = errors.New("time expired")
)
