package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"chess_backend/internal/domain"
	"chess_backend/internal/rules"
)

type statBump struct {
	played int
	won    int
}

// memStore is an in-memory Store for exercising the processor without
// a database. Reads return copies, like rows scanned from postgres.
type memStore struct {
	mu    sync.Mutex
	users map[string]*domain.User // by username
	games map[string]*domain.Game
	moves map[string][]*domain.Move
	stats map[string]*statBump // by user id
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*domain.User),
		games: make(map[string]*domain.Game),
		moves: make(map[string][]*domain.Move),
		stats: make(map[string]*statBump),
	}
}

func (s *memStore) GetOrCreateUser(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	u := &domain.User{ID: uuid.NewString(), Username: username, Rating: 1200}
	s.users[username] = u
	cp := *u
	return &cp, nil
}

func (s *memStore) GetGame(_ context.Context, id string) (*domain.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *memStore) CreateGame(_ context.Context, g *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.games[g.ID] = &cp
	return nil
}

func (s *memStore) UpdateGame(_ context.Context, g *domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.games[g.ID] = &cp
	return nil
}

func (s *memStore) PersistClock(_ context.Context, gameID string, side domain.Color, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return errors.New("no such game")
	}
	g.SetTimeLeft(side, seconds)
	return nil
}

func (s *memStore) NextMoveNumber(_ context.Context, gameID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.moves[gameID]) + 1, nil
}

func (s *memStore) ApplyMove(_ context.Context, g *domain.Game, m *domain.Move, stats []domain.PlayerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc := *m
	mc.ID = int64(len(s.moves[g.ID]) + 1)
	s.moves[g.ID] = append(s.moves[g.ID], &mc)
	gc := *g
	s.games[g.ID] = &gc
	s.applyStats(stats)
	return nil
}

func (s *memStore) FinalizeGame(_ context.Context, g *domain.Game, stats []domain.PlayerResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gc := *g
	s.games[g.ID] = &gc
	s.applyStats(stats)
	return nil
}

func (s *memStore) applyStats(stats []domain.PlayerResult) {
	for _, r := range stats {
		b, ok := s.stats[r.UserID]
		if !ok {
			b = &statBump{}
			s.stats[r.UserID] = b
		}
		b.played++
		if r.Won {
			b.won++
		}
	}
}

type memCaster struct {
	mu       sync.Mutex
	started  []string
	moves    []string // SANs in broadcast order
	ended    []string // resignedBy values ("" for timeout)
	endedIDs []string
}

func (c *memCaster) GameStarted(g *domain.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = append(c.started, g.ID)
}

func (c *memCaster) MoveMade(_ *domain.Game, m *domain.Move) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves = append(c.moves, m.SANNotation)
}

func (c *memCaster) GameEnded(g *domain.Game, resignedBy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ended = append(c.ended, resignedBy)
	c.endedIDs = append(c.endedIDs, g.ID)
}

func newTestProcessor() (*Processor, *memStore, *memCaster, *time.Time) {
	store := newMemStore()
	caster := &memCaster{}
	p := NewProcessor(store, rules.New(), caster)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	return p, store, caster, &now
}

func activeGame(t *testing.T, p *Processor) (g *domain.Game, white, black *domain.User) {
	t.Helper()
	ctx := context.Background()
	g, white, err := p.CreateGame(ctx, "alice", 300, 5)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	g, black, err = p.Join(ctx, g.ID, "bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return g, white, black
}

func TestCreateGame(t *testing.T) {
	p, _, _, _ := newTestProcessor()

	g, u, err := p.CreateGame(context.Background(), "alice", 300, 5)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if g.Status != domain.StatusWaiting {
		t.Errorf("status = %q, want waiting", g.Status)
	}
	if g.WhitePlayerID != u.ID {
		t.Errorf("creator not seated as white")
	}
	if g.BlackPlayerID != nil {
		t.Errorf("black seat should be empty")
	}
	if g.FEN != domain.StartingFEN {
		t.Errorf("fen = %q", g.FEN)
	}
	if g.WhiteTimeLeft != 300 || g.BlackTimeLeft != 300 {
		t.Errorf("clocks = %v/%v, want 300/300", g.WhiteTimeLeft, g.BlackTimeLeft)
	}
}

func TestJoinActivatesGame(t *testing.T) {
	p, _, caster, _ := newTestProcessor()
	g, _, black := activeGame(t, p)

	if g.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", g.Status)
	}
	if g.BlackPlayerID == nil || *g.BlackPlayerID != black.ID {
		t.Errorf("black not seated")
	}
	if len(caster.started) != 1 || caster.started[0] != g.ID {
		t.Errorf("game_started broadcasts = %v", caster.started)
	}
}

func TestJoinErrors(t *testing.T) {
	p, _, _, _ := newTestProcessor()
	ctx := context.Background()

	if _, _, err := p.Join(ctx, uuid.NewString(), "bob"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("missing game: err = %v", err)
	}

	g, _, err := p.CreateGame(ctx, "alice", 300, 0)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, _, err := p.Join(ctx, g.ID, "alice"); !errors.Is(err, ErrAlreadyInGame) {
		t.Errorf("self-join: err = %v", err)
	}
	if _, _, err := p.Join(ctx, g.ID, "bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, _, err := p.Join(ctx, g.ID, "carol"); !errors.Is(err, ErrGameNotWaiting) {
		t.Errorf("third player: err = %v", err)
	}
}

func TestSubmitMoveLegal(t *testing.T) {
	p, store, caster, now := newTestProcessor()
	g, white, _ := activeGame(t, p)
	ctx := context.Background()

	*now = now.Add(10 * time.Second)
	m, g2, err := p.SubmitMove(ctx, g.ID, white.ID, "e2e4")
	if err != nil {
		t.Fatalf("SubmitMove: %v", err)
	}
	if m.MoveNumber != 1 {
		t.Errorf("move number = %d, want 1", m.MoveNumber)
	}
	if m.SANNotation != "e4" {
		t.Errorf("san = %q, want e4", m.SANNotation)
	}
	if g2.CurrentTurn != domain.Black {
		t.Errorf("turn = %q, want black", g2.CurrentTurn)
	}
	// 300 remaining - 10 elapsed + 5 increment
	if g2.WhiteTimeLeft != 295 {
		t.Errorf("white clock = %v, want 295", g2.WhiteTimeLeft)
	}
	if g2.BlackTimeLeft != 300 {
		t.Errorf("black clock = %v, want 300", g2.BlackTimeLeft)
	}
	if len(caster.moves) != 1 || caster.moves[0] != "e4" {
		t.Errorf("move_made broadcasts = %v", caster.moves)
	}

	stored, _ := store.GetGame(ctx, g.ID)
	if stored.FEN != g2.FEN {
		t.Errorf("stored fen = %q, want %q", stored.FEN, g2.FEN)
	}
}

func TestSubmitMoveWrongTurn(t *testing.T) {
	p, store, _, _ := newTestProcessor()
	g, _, black := activeGame(t, p)
	ctx := context.Background()

	_, _, err := p.SubmitMove(ctx, g.ID, black.ID, "e7e5")
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
	if n, _ := store.NextMoveNumber(ctx, g.ID); n != 1 {
		t.Errorf("moves recorded after rejection")
	}
}

func TestSubmitMoveSpectator(t *testing.T) {
	p, _, _, _ := newTestProcessor()
	g, _, _ := activeGame(t, p)

	_, _, err := p.SubmitMove(context.Background(), g.ID, uuid.NewString(), "e2e4")
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestSubmitMoveIllegalDeductsClock(t *testing.T) {
	p, store, caster, now := newTestProcessor()
	g, white, _ := activeGame(t, p)
	ctx := context.Background()

	*now = now.Add(20 * time.Second)
	_, _, err := p.SubmitMove(ctx, g.ID, white.ID, "e2e5")
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("err = %v, want ErrInvalidMove", err)
	}

	stored, _ := store.GetGame(ctx, g.ID)
	// 300 - 20 + 5 increment, persisted even though the move was rejected
	if stored.WhiteTimeLeft != 285 {
		t.Errorf("white clock = %v, want 285", stored.WhiteTimeLeft)
	}
	if stored.FEN != domain.StartingFEN {
		t.Errorf("position changed on rejected move")
	}
	if stored.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", stored.Status)
	}
	if len(caster.moves) != 0 {
		t.Errorf("rejected move was broadcast")
	}
}

func TestSubmitMoveTimeout(t *testing.T) {
	p, store, caster, now := newTestProcessor()
	ctx := context.Background()

	// increment 0: with a positive increment the advanced clock can
	// never land on zero
	g, white, err := p.CreateGame(ctx, "alice", 300, 0)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	g, black, err := p.Join(ctx, g.ID, "bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	*now = now.Add(400 * time.Second)
	_, g2, err := p.SubmitMove(ctx, g.ID, white.ID, "e2e4")
	if !errors.Is(err, ErrTimeExpired) {
		t.Fatalf("err = %v, want ErrTimeExpired", err)
	}
	if g2.Status != domain.StatusFinished {
		t.Errorf("status = %q, want finished", g2.Status)
	}
	if g2.Result == nil || *g2.Result != domain.ResultBlackWins {
		t.Errorf("result = %v, want black_wins", g2.Result)
	}
	if g2.Termination == nil || *g2.Termination != domain.TerminationTimeout {
		t.Errorf("termination = %v, want timeout", g2.Termination)
	}
	if g2.WhiteTimeLeft != 0 {
		t.Errorf("white clock = %v, want 0", g2.WhiteTimeLeft)
	}
	if len(caster.ended) != 1 || caster.ended[0] != "" {
		t.Errorf("game_ended broadcasts = %v", caster.ended)
	}

	// timeouts do not count toward player stats
	if store.stats[white.ID] != nil || store.stats[black.ID] != nil {
		t.Errorf("stats bumped on timeout")
	}

	// the game is over for both sides
	if _, _, err := p.SubmitMove(ctx, g.ID, black.ID, "e7e5"); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("move after timeout: err = %v", err)
	}
}

func TestCheckmateFinishesGame(t *testing.T) {
	p, store, caster, _ := newTestProcessor()
	g, white, black := activeGame(t, p)
	ctx := context.Background()

	// fool's mate
	seq := []struct {
		player string
		uci    string
	}{
		{white.ID, "f2f3"},
		{black.ID, "e7e5"},
		{white.ID, "g2g4"},
		{black.ID, "d8h4"},
	}
	var last *domain.Game
	for i, s := range seq {
		m, g2, err := p.SubmitMove(ctx, g.ID, s.player, s.uci)
		if err != nil {
			t.Fatalf("move %d (%s): %v", i+1, s.uci, err)
		}
		if m.MoveNumber != i+1 {
			t.Errorf("move %d numbered %d", i+1, m.MoveNumber)
		}
		last = g2
	}

	if last.Status != domain.StatusFinished {
		t.Fatalf("status = %q, want finished", last.Status)
	}
	if last.Result == nil || *last.Result != domain.ResultBlackWins {
		t.Errorf("result = %v, want black_wins", last.Result)
	}
	if last.Termination == nil || *last.Termination != domain.TerminationCheckmate {
		t.Errorf("termination = %v, want checkmate", last.Termination)
	}
	if last.PGN != "1. f3 e5 2. g4 Qh4#" {
		t.Errorf("pgn = %q", last.PGN)
	}

	if b := store.stats[black.ID]; b == nil || b.played != 1 || b.won != 1 {
		t.Errorf("winner stats = %+v", b)
	}
	if b := store.stats[white.ID]; b == nil || b.played != 1 || b.won != 0 {
		t.Errorf("loser stats = %+v", b)
	}

	// mate arrives inside move_made, not game_ended
	if len(caster.ended) != 0 {
		t.Errorf("unexpected game_ended broadcast")
	}
	if len(caster.moves) != 4 {
		t.Errorf("move_made broadcasts = %d, want 4", len(caster.moves))
	}
}

func TestResign(t *testing.T) {
	p, store, caster, _ := newTestProcessor()
	g, white, black := activeGame(t, p)
	ctx := context.Background()

	if _, err := p.Resign(ctx, g.ID, uuid.NewString()); !errors.Is(err, ErrNotPlayer) {
		t.Errorf("spectator resign: err = %v", err)
	}

	g2, err := p.Resign(ctx, g.ID, black.ID)
	if err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if g2.Result == nil || *g2.Result != domain.ResultWhiteWins {
		t.Errorf("result = %v, want white_wins", g2.Result)
	}
	if g2.Termination == nil || *g2.Termination != domain.TerminationResignation {
		t.Errorf("termination = %v", g2.Termination)
	}
	if len(caster.ended) != 1 || caster.ended[0] != black.ID {
		t.Errorf("game_ended broadcasts = %v", caster.ended)
	}
	if b := store.stats[white.ID]; b == nil || b.won != 1 {
		t.Errorf("winner stats = %+v", b)
	}

	if _, err := p.Resign(ctx, g.ID, white.ID); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("resign finished game: err = %v", err)
	}
}

func TestConcurrentSubmissionsAcceptOne(t *testing.T) {
	p, store, _, _ := newTestProcessor()
	g, white, _ := activeGame(t, p)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	results := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, results[i] = p.SubmitMove(ctx, g.ID, white.ID, "e2e4")
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrNotYourTurn):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if accepted != 1 {
		t.Errorf("accepted = %d, want exactly 1", accepted)
	}
	if n, _ := store.NextMoveNumber(ctx, g.ID); n != 2 {
		t.Errorf("stored moves = %d, want 1", n-1)
	}
}

func TestAcquireRespectsContext(t *testing.T) {
	locks := newKeyedLocks()
	release, err := locks.acquire(context.Background(), "g1")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := locks.acquire(ctx, "g1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second acquire: err = %v", err)
	}

	release()
	release() // idempotent

	release2, err := locks.acquire(context.Background(), "g1")
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	release2()

	locks.mu.Lock()
	n := len(locks.entries)
	locks.mu.Unlock()
	if n != 0 {
		t.Errorf("lock entries leaked: %d", n)
	}
}
