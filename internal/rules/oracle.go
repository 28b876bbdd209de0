// Package rules adapts the chess rules library behind the narrow
// interface the engine needs: move validation and terminal-state
// classification. Game rules are never implemented here directly.
package rules

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Terminal classifies a position after a move.
type Terminal int

const (
	TerminalNone Terminal = iota
	// TerminalWhiteWins and TerminalBlackWins mean checkmate; the win is
	// attributed to the side that just moved.
	TerminalWhiteWins
	TerminalBlackWins
	// TerminalDraw covers stalemate, insufficient material, repetition
	// and move-count draws alike.
	TerminalDraw
)

// Oracle is the rules authority the engine consults.
type Oracle interface {
	// Validate checks a UCI candidate move against a FEN position. On a
	// legal move it returns the resulting FEN and the SAN notation.
	// Malformed positions or moves yield ok=false with empty outputs.
	Validate(fen, uci string) (ok bool, newFEN, san string)

	// ClassifyTerminal inspects a FEN position for terminal conditions.
	ClassifyTerminal(fen string) Terminal
}

// ChessOracle implements Oracle with corentings/chess.
type ChessOracle struct{}

func New() *ChessOracle { return &ChessOracle{} }

func (o *ChessOracle) Validate(fen, uci string) (bool, string, string) {
	game := gameFromFEN(fen)
	if game == nil {
		return false, "", ""
	}

	pos := game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, strings.ToLower(strings.TrimSpace(uci)))
	if err != nil {
		return false, "", ""
	}

	// SAN has to be encoded against the pre-move position.
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := game.Move(mv, nil); err != nil {
		return false, "", ""
	}
	return true, game.FEN(), san
}

func (o *ChessOracle) ClassifyTerminal(fen string) Terminal {
	game := gameFromFEN(fen)
	if game == nil {
		return TerminalNone
	}

	// checkmate, stalemate, insufficient material and the forced
	// move-count/repetition draws are all evaluated by the library when
	// the game is materialized from the position
	switch game.Outcome() {
	case nchess.WhiteWon:
		return TerminalWhiteWins
	case nchess.BlackWon:
		return TerminalBlackWins
	case nchess.Draw:
		return TerminalDraw
	}
	return TerminalNone
}

func gameFromFEN(fen string) *nchess.Game {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil
	}
	return nchess.NewGame(opt)
}
