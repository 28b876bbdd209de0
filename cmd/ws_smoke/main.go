package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke test against a running server: creates a game over REST,
// joins it, subscribes both players over websocket and plays the
// opening moves, printing everything that comes back.
func main() {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	wsBase := strings.Replace(base, "http", "ws", 1)

	var game struct {
		ID            string `json:"id"`
		WhitePlayerID string `json:"white_player_id"`
	}
	postJSON(base+"/api/v1/games", map[string]any{
		"player_name":  "smokeA",
		"time_control": 300,
		"increment":    2,
	}, &game)
	log.Printf("created game %s (white=%s)", game.ID, game.WhitePlayerID)

	connA := dial(wsBase + "/ws/" + game.ID + "?player_name=smokeA")
	defer connA.Close()
	log.Printf("A received: %s", readMessage(connA))

	var joined struct {
		PlayerID string `json:"player_id"`
	}
	postJSON(base+"/api/v1/games/"+game.ID+"/join", map[string]any{
		"player_name": "smokeB",
	}, &joined)
	log.Printf("smokeB joined as %s", joined.PlayerID)

	connB := dial(wsBase + "/ws/" + game.ID + "?player_name=smokeB")
	defer connB.Close()
	log.Printf("B received: %s", readMessage(connB))

	// A should see game_started
	log.Printf("A received: %s", readMessage(connA))

	for _, mv := range []struct {
		playerID string
		uci      string
	}{
		{game.WhitePlayerID, "e2e4"},
		{joined.PlayerID, "e7e5"},
		{game.WhitePlayerID, "g1f3"},
	} {
		var move struct {
			SAN        string `json:"san_notation"`
			MoveNumber int    `json:"move_number"`
		}
		postJSON(base+"/api/v1/games/"+game.ID+"/moves", map[string]any{
			"player_id": mv.playerID,
			"move":      mv.uci,
		}, &move)
		log.Printf("move %d accepted: %s", move.MoveNumber, move.SAN)
		log.Printf("A received: %s", readMessage(connA))
		log.Printf("B received: %s", readMessage(connB))
	}

	fmt.Println("smoke test passed")
}

func postJSON(url string, body any, out any) {
	b, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
}

func dial(url string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", url, err)
	}
	return conn
}

func readMessage(conn *websocket.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	return string(msg)
}
