// Package statetest provides helper functions to create tests using Hive state.
package statetest

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/hiveboard/internal/generics"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/janpfeifer/hiveboard/internal/ui/cli"
)

// PieceOnBoard represents a position and ownership of a piece in the board.
type PieceOnBoard struct {
	Pos   Pos
	Color Color
	Piece PieceType
}

// BuildBoard from a collection of pieces, using DefaultConfig. Their positions may be in
// "display coordinates". See BuildBoardWithConfig.
func BuildBoard(layout []PieceOnBoard, displayPos bool) *Board {
	return BuildBoardWithConfig(layout, displayPos, DefaultConfig())
}

// BuildBoardWithConfig creates a registry with one piece per entry of the layout, named in the
// usual notation ("wA1", "bQ", ...) in order, and places them on a new board.
//
// Pieces listed more than once for the same position are stacked in order, and must be beetles.
// The layout must be connected, but it can be listed in any order. Placement doesn't enforce
// the color rule.
//
// It panics if the layout is not valid.
func BuildBoardWithConfig(layout []PieceOnBoard, displayPos bool, config Config) *Board {
	registry := NewRegistry()
	counts := make(map[string]int)
	ids := make([]PieceID, len(layout))
	for ii, p := range layout {
		prefix := p.Color.Letter() + p.Piece.Letter()
		counts[prefix]++
		id, err := registry.Add(fmt.Sprintf("%s%d", prefix, counts[prefix]), p.Piece, p.Color)
		if err != nil {
			exceptions.Panicf("invalid layout entry #%d %+v: %v", ii, p, err)
		}
		ids[ii] = id
	}

	// levels[ii] is the number of pieces under the ii-th piece.
	levels := make([]int, len(layout))
	heights := make(map[Pos]int)
	for ii, p := range layout {
		pos := layoutPos(p, displayPos)
		levels[ii] = heights[pos]
		heights[pos]++
	}

	b := NewBoard(registry, config)
	pending := make([]int, 0, len(layout))
	for ii := range layout {
		pending = append(pending, ii)
	}
	for len(pending) > 0 {
		var stillPending []int
		for _, ii := range pending {
			if !tryPlace(b, ids[ii], layoutPos(layout[ii], displayPos), levels[ii]) {
				stillPending = append(stillPending, ii)
			}
		}
		if len(stillPending) == len(pending) {
			exceptions.Panicf("layout is not connected, can't place %d pieces: first is %+v",
				len(pending), layout[pending[0]])
		}
		pending = stillPending
	}
	return b
}

func layoutPos(p PieceOnBoard, displayPos bool) Pos {
	if displayPos {
		return p.Pos.FromDisplayPos()
	}
	return p.Pos
}

// tryPlace puts the piece at pos, if it already touches the hive and the pieces under it are
// in place. Pieces on top of others are placed next to the stack and then moved on top of it.
func tryPlace(b *Board, id PieceID, pos Pos, level int) bool {
	if b.HeightAt(pos) != level {
		return false
	}
	if level == 0 {
		if b.NumOccupied() > 0 && len(b.OccupiedNeighbours(pos)) == 0 {
			return false
		}
		if err := b.Place(id, pos, true); err != nil {
			exceptions.Panicf("failed to place %s at %s: %+v", b.Piece(id), pos, err)
		}
		return true
	}
	for _, neighbour := range pos.NeighborsIter() {
		if b.HasPiece(neighbour) {
			continue
		}
		if err := b.Place(id, neighbour, true); err != nil {
			exceptions.Panicf("failed to place %s at %s: %+v", b.Piece(id), neighbour, err)
		}
		if err := b.ApplyMove(id, pos); err != nil {
			exceptions.Panicf("failed to stack %s at %s: %+v", b.Piece(id), pos, err)
		}
		return true
	}
	exceptions.Panicf("can't stack %s at %s, it is surrounded", b.Piece(id), pos)
	return false
}

// IDAt returns the piece at the top of the stack at pos. It panics if there is none.
func IDAt(b *Board, pos Pos) PieceID {
	id, found := b.TopAt(pos)
	if !found {
		exceptions.Panicf("no piece at %s", pos)
	}
	return id
}

// MovesAt returns the legal moves of the piece at the top of the stack at pos.
func MovesAt(b *Board, pos Pos) []Pos {
	return b.LegalMoves(IDAt(b, pos))
}

// ParseTextBoard converts a drawing of a board to a Board filled with white ants.
//
// Each line is half a row of the display: even columns use even lines and odd columns
// use odd lines, which makes the hexagonal neighbours line up diagonally:
//
//	R.R
//	.N.
//	R.R
//
// Any letter is a piece, '.' is empty. Positions marked with 'R' are returned in marked.
func ParseTextBoard(txt string) (b *Board, marked generics.Set[Pos]) {
	lines := strings.Split(txt, "\n")
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	var layout []PieceOnBoard
	marked = generics.MakeSet[Pos]()
	for row, line := range lines {
		for col, code := range line {
			if code == '.' {
				continue
			}
			if (row+col)%2 == 1 {
				exceptions.Panicf("Board at row %d, col %d should be '.', is '%c' instead.\n%s", row, col, code, txt)
			}
			pos := Pos{col, row >> 1}.FromDisplayPos()
			layout = append(layout, PieceOnBoard{pos, ColorWhite, ANT})
			if code == 'R' {
				marked.Insert(pos)
			}
		}
	}
	b = BuildBoard(layout, false)
	return
}

// PrintBoard prints the board without colors, for debugging tests.
func PrintBoard(b *Board) {
	cli.New(false, false).PrintBoard(b)
}
