package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chess_backend/internal/domain"
	"chess_backend/internal/logger"
)

// closeGameNotFound is sent when subscribing to a game id that does
// not exist. Clients key off this code to stop reconnecting.
const closeGameNotFound = 4004

// Registry is the persistence surface the handshake needs.
type Registry interface {
	GameSource
	GetOrCreateUser(ctx context.Context, username string) (*domain.User, error)
	SetOnline(ctx context.Context, userID string, online bool) error
}

// HandleWS upgrades GET /ws/:game_id?player_name=N. The player name is
// the caller's identity: spectators and players alike resolve to a
// user row and receive every event for the game.
func HandleWS(hub *Hub, dispatcher *Dispatcher, store Registry, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		gameID := c.Param("game_id")
		playerName := c.Query("player_name")
		if playerName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "player_name required"})
			return
		}

		user, err := store.GetOrCreateUser(c.Request.Context(), playerName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve player"})
			return
		}

		g, err := store.GetGame(c.Request.Context(), gameID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		if g == nil {
			msg := websocket.FormatCloseMessage(closeGameNotFound, "Game not found")
			_ = conn.WriteMessage(websocket.CloseMessage, msg)
			_ = conn.Close()
			return
		}

		if err := store.SetOnline(c.Request.Context(), user.ID, true); err != nil {
			logger.Warn("mark online failed", "user_id", user.ID, "error", err)
		}

		logger.Debug("ws connected", "game_id", gameID, "user_id", user.ID)
		client := NewClient(gameID, user.ID, conn, hub, dispatcher, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.SetOnline(ctx, user.ID, false); err != nil {
				logger.Warn("mark offline failed", "user_id", user.ID, "error", err)
			}
		})
		go client.Run()
	}
}
