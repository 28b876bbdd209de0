package domain

import "time"

type User struct {
	ID          string    `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Rating      int       `db:"rating" json:"rating"`
	GamesPlayed int       `db:"games_played" json:"games_played"`
	GamesWon    int       `db:"games_won" json:"games_won"`
	IsOnline    bool      `db:"is_online" json:"is_online"`
	LastSeen    time.Time `db:"last_seen" json:"last_seen"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
