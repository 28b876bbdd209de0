package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"chess_backend/internal/clock"
	"chess_backend/internal/domain"
	"chess_backend/internal/logger"
	"chess_backend/internal/rules"
)

// Processor owns the game lifecycle: creation, joining, the move
// pipeline and resignation. All per-game mutation runs under a keyed
// lock, so concurrent submissions for the same game are serialized and
// exactly one of a racing pair is accepted.
type Processor struct {
	store  Store
	oracle rules.Oracle
	caster Broadcaster
	locks  *keyedLocks
	now    func() time.Time
}

func NewProcessor(store Store, oracle rules.Oracle, caster Broadcaster) *Processor {
	return &Processor{
		store:  store,
		oracle: oracle,
		caster: caster,
		locks:  newKeyedLocks(),
		now:    time.Now,
	}
}

// CreateGame registers (or resolves) the creator by display name and
// opens a game with them seated as white, waiting for an opponent.
func (p *Processor) CreateGame(ctx context.Context, playerName string, timeControl, increment int) (*domain.Game, *domain.User, error) {
	user, err := p.store.GetOrCreateUser(ctx, playerName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve player: %w", err)
	}

	now := p.now()
	g := &domain.Game{
		ID:            uuid.NewString(),
		WhitePlayerID: user.ID,
		Status:        domain.StatusWaiting,
		CurrentTurn:   domain.White,
		FEN:           domain.StartingFEN,
		TimeControl:   timeControl,
		Increment:     increment,
		WhiteTimeLeft: float64(timeControl),
		BlackTimeLeft: float64(timeControl),
		LastMoveTime:  now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.store.CreateGame(ctx, g); err != nil {
		return nil, nil, fmt.Errorf("create game: %w", err)
	}

	GamesCreated.Inc()
	logger.Info("game created", "game_id", g.ID, "white", user.Username, "time_control", timeControl, "increment", increment)
	return g, user, nil
}

// Join seats the named player as black and activates the game. The
// first move's clock starts running from activation.
func (p *Processor) Join(ctx context.Context, gameID, playerName string) (*domain.Game, *domain.User, error) {
	release, err := p.locks.acquire(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	g, err := p.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return nil, nil, ErrGameNotFound
	}
	if g.Status != domain.StatusWaiting {
		return nil, nil, ErrGameNotWaiting
	}

	user, err := p.store.GetOrCreateUser(ctx, playerName)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve player: %w", err)
	}
	if user.ID == g.WhitePlayerID {
		return nil, nil, ErrAlreadyInGame
	}
	if g.BlackPlayerID != nil {
		return nil, nil, ErrGameFull
	}

	now := p.now()
	g.BlackPlayerID = &user.ID
	g.Status = domain.StatusActive
	g.LastMoveTime = now
	g.UpdatedAt = now
	if err := p.store.UpdateGame(ctx, g); err != nil {
		return nil, nil, fmt.Errorf("activate game: %w", err)
	}

	p.caster.GameStarted(g)
	logger.Info("game started", "game_id", g.ID, "black", user.Username)
	return g, user, nil
}

// SubmitMove runs the full move pipeline for one UCI move: turn check,
// clock advance, timeout check, legality, then a single transactional
// commit and a single broadcast. On ErrTimeExpired the game has been
// finalized as a timeout loss for the mover; on ErrInvalidMove the
// mover's clock deduction has been persisted but nothing else changed.
func (p *Processor) SubmitMove(ctx context.Context, gameID, playerID, moveUCI string) (*domain.Move, *domain.Game, error) {
	release, err := p.locks.acquire(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	g, err := p.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		MovesRejected.WithLabelValues("not_found").Inc()
		return nil, nil, ErrGameNotFound
	}
	if g.Status != domain.StatusActive {
		MovesRejected.WithLabelValues("not_active").Inc()
		return nil, nil, ErrGameNotActive
	}

	mover := g.CurrentTurn
	if g.PlayerID(mover) != playerID {
		MovesRejected.WithLabelValues("wrong_turn").Inc()
		return nil, nil, ErrNotYourTurn
	}

	now := p.now()
	elapsed := clock.Elapsed(g.LastMoveTime, now)
	remaining := clock.Advance(g.TimeLeft(mover), elapsed, float64(g.Increment))
	g.SetTimeLeft(mover, remaining)

	if clock.Expired(remaining) {
		g.SetTimeLeft(mover, 0)
		result := domain.WinFor(mover.Opponent())
		term := domain.TerminationTimeout
		g.Status = domain.StatusFinished
		g.Result = &result
		g.Termination = &term
		g.UpdatedAt = now
		if err := p.store.FinalizeGame(ctx, g, nil); err != nil {
			return nil, nil, fmt.Errorf("finalize timeout: %w", err)
		}
		GamesFinished.WithLabelValues(string(term)).Inc()
		p.caster.GameEnded(g, "")
		logger.Info("game ended on time", "game_id", g.ID, "loser", playerID)
		return nil, g, ErrTimeExpired
	}

	ok, newFEN, san := p.oracle.Validate(g.FEN, moveUCI)
	if !ok {
		// The attempt still cost thinking time; keep the deduction.
		if err := p.store.PersistClock(ctx, g.ID, mover, remaining); err != nil {
			return nil, nil, fmt.Errorf("persist clock: %w", err)
		}
		MovesRejected.WithLabelValues("invalid_move").Inc()
		return nil, nil, ErrInvalidMove
	}

	moveNumber, err := p.store.NextMoveNumber(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("next move number: %w", err)
	}

	m := &domain.Move{
		GameID:        g.ID,
		PlayerID:      playerID,
		MoveNotation:  strings.ToLower(moveUCI),
		SANNotation:   san,
		FENBefore:     g.FEN,
		FENAfter:      newFEN,
		MoveNumber:    moveNumber,
		WhiteTimeLeft: int(g.WhiteTimeLeft),
		BlackTimeLeft: int(g.BlackTimeLeft),
		CreatedAt:     now,
	}

	g.FEN = newFEN
	g.CurrentTurn = mover.Opponent()
	g.LastMoveTime = now
	g.UpdatedAt = now
	g.PGN = appendSAN(g.PGN, moveNumber, san)

	var stats []domain.PlayerResult
	switch p.oracle.ClassifyTerminal(newFEN) {
	case rules.TerminalWhiteWins:
		stats = p.finishOnBoard(g, domain.ResultWhiteWins, domain.TerminationCheckmate)
	case rules.TerminalBlackWins:
		stats = p.finishOnBoard(g, domain.ResultBlackWins, domain.TerminationCheckmate)
	case rules.TerminalDraw:
		stats = p.finishOnBoard(g, domain.ResultDraw, domain.TerminationStalemate)
	}

	if err := p.store.ApplyMove(ctx, g, m, stats); err != nil {
		return nil, nil, fmt.Errorf("apply move: %w", err)
	}

	MovesAccepted.Inc()
	if g.Status == domain.StatusFinished {
		GamesFinished.WithLabelValues(string(*g.Termination)).Inc()
		logger.Info("game finished", "game_id", g.ID, "result", string(*g.Result), "termination", string(*g.Termination))
	}
	p.caster.MoveMade(g, m)
	return m, g, nil
}

// Resign ends an active game in the opponent's favor.
func (p *Processor) Resign(ctx context.Context, gameID, playerID string) (*domain.Game, error) {
	release, err := p.locks.acquire(ctx, gameID)
	if err != nil {
		return nil, err
	}
	defer release()

	g, err := p.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if g.Status != domain.StatusActive {
		return nil, ErrGameNotActive
	}
	color := g.PlayerColor(playerID)
	if color == "" {
		return nil, ErrNotPlayer
	}

	result := domain.WinFor(color.Opponent())
	term := domain.TerminationResignation
	g.Status = domain.StatusFinished
	g.Result = &result
	g.Termination = &term
	g.UpdatedAt = p.now()

	stats := playerStats(g, result)
	if err := p.store.FinalizeGame(ctx, g, stats); err != nil {
		return nil, fmt.Errorf("finalize resignation: %w", err)
	}

	GamesFinished.WithLabelValues(string(term)).Inc()
	p.caster.GameEnded(g, playerID)
	logger.Info("game resigned", "game_id", g.ID, "resigned_by", playerID)
	return g, nil
}

// finishOnBoard marks the game finished with an on-board outcome and
// returns the stat bumps for both players.
func (p *Processor) finishOnBoard(g *domain.Game, result domain.GameResult, term domain.Termination) []domain.PlayerResult {
	g.Status = domain.StatusFinished
	g.Result = &result
	g.Termination = &term
	return playerStats(g, result)
}

func playerStats(g *domain.Game, result domain.GameResult) []domain.PlayerResult {
	stats := []domain.PlayerResult{
		{UserID: g.WhitePlayerID, Won: result == domain.ResultWhiteWins},
	}
	if g.BlackPlayerID != nil {
		stats = append(stats, domain.PlayerResult{UserID: *g.BlackPlayerID, Won: result == domain.ResultBlackWins})
	}
	return stats
}

// appendSAN extends the running PGN movetext. moveNumber is the
// half-move index (1-based), so odd numbers are white's moves and open
// a new full-move.
func appendSAN(pgn string, moveNumber int, san string) string {
	if moveNumber%2 == 1 {
		pgn = strings.TrimSpace(fmt.Sprintf("%s %d. %s", pgn, (moveNumber+1)/2, san))
	} else {
		pgn = strings.TrimSpace(pgn + " " + san)
	}
	return pgn
}
