package ws

import (
	"sync"

	"chess_backend/internal/logger"
)

// Hub is the session registry: which clients are subscribed to which
// game. Broadcast is best effort; a client whose send buffer is full
// misses the message rather than stalling the game.
type Hub struct {
	mu    sync.RWMutex
	games map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{games: make(map[string]map[*Client]struct{})}
}

// Subscribe registers a client under its game id. Idempotent.
func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.games[c.GameID]
	if !ok {
		set = make(map[*Client]struct{})
		h.games[c.GameID] = set
	}
	if _, there := set[c]; there {
		return
	}
	set[c] = struct{}{}
	WSConnections.Inc()
}

// Unsubscribe removes a client; the game entry is dropped when the
// last client leaves. Safe to call more than once.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.games[c.GameID]
	if !ok {
		return
	}
	if _, there := set[c]; !there {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.games, c.GameID)
	}
	WSConnections.Dec()
}

// Broadcast queues msg for every client subscribed to the game. Sends
// happen under the read lock so a client cannot be unsubscribed (and
// its channel closed) mid-fanout.
func (h *Hub) Broadcast(gameID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.games[gameID] {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping message", "game_id", gameID, "user_id", c.UserID)
		}
	}
}

// ActiveGames reports how many games have at least one subscriber.
func (h *Hub) ActiveGames() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games)
}

// Subscribers reports the number of clients watching a game.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
