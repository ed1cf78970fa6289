package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/janpfeifer/hiveboard/internal/inventory"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(input string) (*UI, *bytes.Buffer) {
	var out bytes.Buffer
	return NewWithIO(strings.NewReader(input), &out, false, false), &out
}

func TestExecute(t *testing.T) {
	board := NewBoard(inventory.Standard(), DefaultConfig())
	ui, out := newTestUI("")

	require.NoError(t, ui.Execute(board, "place wQ 0 0"))
	require.NoError(t, ui.Execute(board, "place bQ 1, 0\n"))
	assert.Equal(t, 2, board.NumOccupied())
	assert.Contains(t, out.String(), "0,0")
	assert.Contains(t, out.String(), "bQ")

	// The first placement of each player is exempt of the color rule, not the third.
	err := ui.Execute(board, "place wA1 2 0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTouchesOpponent), "got %v", err)
	require.NoError(t, ui.Execute(board, "place wA1 -1 0"))

	out.Reset()
	require.NoError(t, ui.Execute(board, "moves wA1"))
	assert.Contains(t, out.String(), "wA1 can move to [")

	err = ui.Execute(board, "move wQ 5 5")
	require.Error(t, err)
	assert.True(t, IsMoveError(err), "got %v", err)

	out.Reset()
	require.NoError(t, ui.Execute(board, "pieces"))
	assert.Contains(t, out.String(), "WHITE off-board: [wA2, wA3,")
	assert.Contains(t, out.String(), "  - wA1 can move to")

	require.NoError(t, ui.Execute(board, "   "))
	assert.Error(t, ui.Execute(board, "fly wQ 0 0"))
	assert.Error(t, ui.Execute(board, "place wX 0 0"))
	assert.Error(t, ui.Execute(board, "place wA2 zero 0"))
	assert.Error(t, ui.Execute(board, "moves nobody"))
	assert.ErrorIs(t, ui.Execute(board, "quit"), errQuit)
	assert.True(t, board.IsOneHive())
}

func TestRun(t *testing.T) {
	board := NewBoard(inventory.Standard(), DefaultConfig())
	ui, out := newTestUI("place wQ 0 0\nmoves wQ\nmove wQ 1 1\nmoves bQ\nquit\nplace bQ 1 0\n")
	require.NoError(t, ui.Run(board))
	txt := out.String()
	assert.Contains(t, txt, "wQ can't move")
	assert.Contains(t, txt, "illegal move")
	assert.Contains(t, txt, "bQ is not on the board")
	// Commands after quit are not executed.
	assert.False(t, board.IsPlaced(mustLookup(board.Registry().Lookup("bQ")).ID))

	// Input without a final newline.
	board = NewBoard(inventory.Standard(), DefaultConfig())
	ui, _ = newTestUI("place wQ 0 0\nplace bQ 0 1")
	require.NoError(t, ui.Run(board))
	assert.Equal(t, 2, board.NumOccupied())
}

func mustLookup(p Piece, found bool) Piece {
	if !found {
		panic("piece not found")
	}
	return p
}

func TestPrintBoard(t *testing.T) {
	registry := inventory.Standard()
	board := NewBoard(registry, DefaultConfig())
	ui, out := newTestUI("")
	ui.PrintBoard(board)
	assert.Contains(t, out.String(), "(empty board)")

	for _, cmd := range []string{"place wQ 0 0", "place bB1 1 0", "move bB1 0 0"} {
		require.NoError(t, ui.Execute(board, cmd))
	}
	out.Reset()
	ui.PrintBoard(board)
	assert.Contains(t, out.String(), "bB1+1")
	assert.NotContains(t, out.String(), "wQ")
	assert.Equal(t, "wQ,bB1", StackString(board, Pos{0, 0}))
	assert.False(t, board.QueenSurrounded(ColorWhite))
}
