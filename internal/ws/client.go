package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"chess_backend/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

// Client is one websocket subscriber of one game.
type Client struct {
	GameID string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	hub        *Hub
	dispatcher *Dispatcher

	// onClose runs once when the connection is torn down.
	onClose func()
}

func NewClient(gameID, userID string, conn *websocket.Conn, hub *Hub, dispatcher *Dispatcher, onClose func()) *Client {
	return &Client{
		GameID:     gameID,
		UserID:     userID,
		Conn:       conn,
		Send:       make(chan []byte, sendBuffer),
		hub:        hub,
		dispatcher: dispatcher,
		onClose:    onClose,
	}
}

// Run subscribes the client, pushes the initial game state and starts
// the pumps. It returns when the connection is gone.
func (c *Client) Run() {
	c.hub.Subscribe(c)
	go c.writePump()

	if err := c.dispatcher.SendGameState(c); err != nil {
		logger.Warn("ws initial state failed", "game_id", c.GameID, "user_id", c.UserID, "error", err)
	}

	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c)
		close(c.Send)
		_ = c.Conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "game_id", c.GameID, "user_id", c.UserID, "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case MsgPing:
			c.enqueue(mustMarshal(pongEvent{Type: MsgPong}))
		case MsgRequestGameState:
			if err := c.dispatcher.SendGameState(c); err != nil {
				logger.Warn("ws state refresh failed", "game_id", c.GameID, "user_id", c.UserID, "error", err)
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message if the buffer is full, same as Broadcast.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}
