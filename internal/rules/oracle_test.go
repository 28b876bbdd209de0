package rules

import (
	"strings"
	"testing"

	"chess_backend/internal/domain"
)

func TestValidateLegalMove(t *testing.T) {
	o := New()

	ok, newFEN, san := o.Validate(domain.StartingFEN, "e2e4")
	if !ok {
		t.Fatal("e2e4 from the start position must be legal")
	}
	if san != "e4" {
		t.Fatalf("san = %q; want e4", san)
	}
	if !strings.Contains(newFEN, " b ") {
		t.Fatalf("resulting FEN must have black to move, got %q", newFEN)
	}
	if newFEN == domain.StartingFEN {
		t.Fatal("resulting FEN must differ from the starting position")
	}
}

func TestValidateRejections(t *testing.T) {
	o := New()

	cases := []struct {
		name string
		fen  string
		uci  string
	}{
		{"illegal move", domain.StartingFEN, "e2e5"},
		{"empty move", domain.StartingFEN, ""},
		{"garbage move", domain.StartingFEN, "zz9x"},
		{"no piece on square", domain.StartingFEN, "e5e6"},
		{"malformed fen", "this is not a fen", "e2e4"},
		{"empty fen", "", "e2e4"},
	}

	for _, tc := range cases {
		ok, newFEN, san := o.Validate(tc.fen, tc.uci)
		if ok || newFEN != "" || san != "" {
			t.Fatalf("%s: want (false, \"\", \"\"), got (%v, %q, %q)", tc.name, ok, newFEN, san)
		}
	}
}

func TestClassifyTerminal(t *testing.T) {
	o := New()

	// fool's mate: white is mated, black wins
	foolsMate := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	if got := o.ClassifyTerminal(foolsMate); got != TerminalBlackWins {
		t.Fatalf("fool's mate: got %v; want TerminalBlackWins", got)
	}

	// back-rank mate delivered by white
	whiteMates := "R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1"
	if got := o.ClassifyTerminal(whiteMates); got != TerminalWhiteWins {
		t.Fatalf("back-rank mate: got %v; want TerminalWhiteWins", got)
	}

	// classic king+queen stalemate
	stalemate := "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	if got := o.ClassifyTerminal(stalemate); got != TerminalDraw {
		t.Fatalf("stalemate: got %v; want TerminalDraw", got)
	}

	if got := o.ClassifyTerminal(domain.StartingFEN); got != TerminalNone {
		t.Fatalf("start position: got %v; want TerminalNone", got)
	}

	if got := o.ClassifyTerminal("broken"); got != TerminalNone {
		t.Fatalf("malformed fen: got %v; want TerminalNone", got)
	}
}

func TestValidateThenClassifyCheckmate(t *testing.T) {
	o := New()

	// scholar's mate sequence from the start position
	fen := domain.StartingFEN
	for _, uci := range []string{"e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7"} {
		ok, next, _ := o.Validate(fen, uci)
		if !ok {
			t.Fatalf("move %s unexpectedly illegal at %q", uci, fen)
		}
		fen = next
	}

	if got := o.ClassifyTerminal(fen); got != TerminalWhiteWins {
		t.Fatalf("scholar's mate: got %v; want TerminalWhiteWins", got)
	}
}
