package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chess_backend/internal/domain"
	"chess_backend/internal/logger"
)

// GameSource loads game snapshots for game_state pushes.
// GetGame returns (nil, nil) when the game does not exist.
type GameSource interface {
	GetGame(ctx context.Context, id string) (*domain.Game, error)
}

// Dispatcher turns engine events into wire messages and fans them out
// through the hub. It satisfies the engine's Broadcaster.
type Dispatcher struct {
	hub   *Hub
	games GameSource
}

func NewDispatcher(hub *Hub, games GameSource) *Dispatcher {
	return &Dispatcher{hub: hub, games: games}
}

func (d *Dispatcher) GameStarted(g *domain.Game) {
	d.broadcast(g.ID, MsgGameStarted, gameStartedEvent{Type: MsgGameStarted, Game: g})
}

func (d *Dispatcher) MoveMade(g *domain.Game, m *domain.Move) {
	d.broadcast(g.ID, MsgMoveMade, moveMadeEvent{
		Type: MsgMoveMade,
		Move: m,
		GameState: moveGameState{
			CurrentTurn: g.CurrentTurn,
			Status:      g.Status,
			Result:      g.Result,
			Termination: g.Termination,
		},
	})
}

// GameEnded handles the endings that arrive without a move: timeouts
// carry a short game object, resignations the full one plus the
// resigning player's id.
func (d *Dispatcher) GameEnded(g *domain.Game, resignedBy string) {
	if resignedBy == "" {
		d.broadcast(g.ID, MsgGameEnded, gameEndedEvent{
			Type: MsgGameEnded,
			Game: timeoutGameView{
				ID:            g.ID,
				Result:        g.Result,
				Termination:   g.Termination,
				WhiteTimeLeft: g.WhiteTimeLeft,
				BlackTimeLeft: g.BlackTimeLeft,
			},
		})
		return
	}
	d.broadcast(g.ID, MsgGameEnded, gameEndedEvent{Type: MsgGameEnded, Game: g, ResignedBy: resignedBy})
}

// SendGameState loads a fresh snapshot and delivers it to one client.
func (d *Dispatcher) SendGameState(c *Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g, err := d.games.GetGame(ctx, c.GameID)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return fmt.Errorf("game %s gone", c.GameID)
	}

	msg := mustMarshal(gameStateEvent{Type: MsgGameState, Game: g, PlayerID: c.UserID})
	c.enqueue(msg)
	WSMessagesSent.WithLabelValues(MsgGameState).Inc()
	return nil
}

func (d *Dispatcher) broadcast(gameID, msgType string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.Error("ws marshal failed", "type", msgType, "error", err)
		return
	}
	d.hub.Broadcast(gameID, msg)
	WSMessagesSent.WithLabelValues(msgType).Inc()
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
