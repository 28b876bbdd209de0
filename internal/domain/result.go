package domain

// PlayerResult carries the statistics delta for one player when a game
// reaches a terminal state.
type PlayerResult struct {
	UserID string
	Won    bool
}
