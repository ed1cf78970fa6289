package state_test

import (
	"testing"

	. "github.com/janpfeifer/hiveboard/internal/state"
	. "github.com/janpfeifer/hiveboard/internal/state/statetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRegistry registers the given pieces, named in order.
func newTestRegistry(t *testing.T, names ...string) (*Registry, map[string]PieceID) {
	registry := NewRegistry()
	ids := make(map[string]PieceID, len(names))
	for _, name := range names {
		color := ColorWhite
		if name[0] == 'b' {
			color = ColorBlack
		}
		pieceType, err := ParsePieceType(name[1:2])
		require.NoError(t, err)
		ids[name], err = registry.Add(name, pieceType, color)
		require.NoError(t, err)
	}
	return registry, ids
}

// requireUnchanged checks that the operation fails with the given error, and leaves the board unchanged.
func requireUnchanged(t *testing.T, b *Board, want error, op func() error) {
	before := b.Clone()
	err := op()
	require.Errorf(t, err, "expected %v", want)
	require.Truef(t, errors.Is(err, want), "expected %v, got %+v", want, err)
	require.True(t, b.Equal(before), "board changed after a failed operation")
	require.Equal(t, before.NumPlacements(), b.NumPlacements())
	require.Equal(t, before.NumPiecesOnBoard(), b.NumPiecesOnBoard())
}

func TestPlace(t *testing.T) {
	registry, ids := newTestRegistry(t, "wQ", "wA1", "wB1", "bQ", "bA1", "bB1")
	b := NewBoard(registry, DefaultConfig())
	assert.Equal(t, 0, b.NumOccupied())
	assert.True(t, b.IsOneHive())

	// First piece goes anywhere.
	require.True(t, b.ColorRuleExempt())
	require.NoError(t, b.Place(ids["wQ"], Pos{10, -3}, b.ColorRuleExempt()))
	require.True(t, b.ColorRuleExempt())
	require.NoError(t, b.Place(ids["bQ"], Pos{10, -2}, b.ColorRuleExempt()))
	require.False(t, b.ColorRuleExempt())
	assert.Equal(t, 2, b.NumPlacements())

	pos, found := b.Location(ids["bQ"])
	require.True(t, found)
	assert.Equal(t, Pos{10, -2}, pos)
	top, found := b.TopAt(Pos{10, -3})
	require.True(t, found)
	assert.Equal(t, ids["wQ"], top)
	_, found = b.TopAt(Pos{0, 0})
	assert.False(t, found)

	// (11,-3) touches both queens.
	requireUnchanged(t, b, ErrTouchesOpponent, func() error { return b.Place(ids["wA1"], Pos{11, -3}, false) })
	requireUnchanged(t, b, ErrNotAdjacent, func() error { return b.Place(ids["wA1"], Pos{0, 0}, false) })
	requireUnchanged(t, b, ErrNotAdjacent, func() error { return b.Place(ids["wA1"], Pos{0, 0}, true) })
	requireUnchanged(t, b, ErrOccupiedConflict, func() error { return b.Place(ids["wA1"], Pos{10, -2}, true) })
	// Fresh beetles can't be placed on top of other pieces either.
	requireUnchanged(t, b, ErrOccupiedConflict, func() error { return b.Place(ids["wB1"], Pos{10, -3}, true) })
	requireUnchanged(t, b, ErrUnknownPiece, func() error { return b.Place(PieceID(99), Pos{10, -4}, true) })
	requireUnchanged(t, b, ErrUnknownPiece, func() error { return b.Place(NoPieceID, Pos{10, -4}, true) })
	requireUnchanged(t, b, ErrAlreadyPlaced, func() error { return b.Place(ids["wQ"], Pos{10, -4}, true) })

	require.NoError(t, b.Place(ids["wA1"], Pos{10, -4}, false))
	require.NoError(t, b.Place(ids["bA1"], Pos{11, -3}, true))
	assert.Equal(t, 4, b.NumOccupied())
	assert.Equal(t, 4, b.NumPiecesOnBoard())
	assert.Equal(t, 4, b.NumPlacements())
	assert.True(t, b.IsOneHive())
	assert.Len(t, b.OccupiedPositions(), 4)
	assert.ElementsMatch(t, []Pos{{10, -4}, {11, -3}, {10, -2}}, b.OccupiedNeighbours(Pos{10, -3}))
	assert.ElementsMatch(t, []Pos{{9, -3}, {9, -2}, {11, -4}}, b.EmptyNeighbours(Pos{10, -3}))
	tops := b.NeighborsOf(Pos{10, -3})
	assert.Equal(t, ids["wA1"], tops[DirNorthWest])
	assert.Equal(t, ids["bQ"], tops[DirSouthEast])
	assert.Equal(t, NoPieceID, tops[DirWest])

	err := b.Place(ids["bB1"], Pos{20, 20}, false)
	assert.True(t, IsPlacementError(err))
	assert.False(t, IsMoveError(err))
}

func TestApplyMove(t *testing.T) {
	registry, ids := newTestRegistry(t, "wQ", "wA1", "wB1", "bQ", "bB1")
	b := NewBoard(registry, DefaultConfig())
	require.NoError(t, b.Place(ids["wQ"], Pos{0, 0}, true))
	require.NoError(t, b.Place(ids["bQ"], Pos{0, 1}, true))
	require.NoError(t, b.Place(ids["wB1"], Pos{0, -1}, true))

	requireUnchanged(t, b, ErrNotPlaced, func() error { return b.ApplyMove(ids["wA1"], Pos{1, -1}) })
	requireUnchanged(t, b, ErrNotPlaced, func() error { return b.ApplyMove(PieceID(77), Pos{1, -1}) })
	requireUnchanged(t, b, ErrIllegalForSpecies, func() error { return b.ApplyMove(ids["wQ"], Pos{0, 0}) })
	requireUnchanged(t, b, ErrIllegalForSpecies, func() error { return b.ApplyMove(ids["wQ"], Pos{0, 1}) })

	// Beetle climbs on the queen: the queen is covered.
	require.NoError(t, b.ApplyMove(ids["wB1"], Pos{0, 0}))
	assert.Equal(t, 2, b.HeightAt(Pos{0, 0}))
	assert.Equal(t, []PieceID{ids["wQ"], ids["wB1"]}, b.StackAt(Pos{0, 0}).BottomUp())
	assert.False(t, b.HasPiece(Pos{0, -1}))
	assert.Equal(t, 2, b.NumOccupied())
	assert.Equal(t, 3, b.NumPiecesOnBoard())
	requireUnchanged(t, b, ErrNotTopOfStack, func() error { return b.ApplyMove(ids["wQ"], Pos{1, 0}) })
	requireUnchanged(t, b, ErrNotTopOfStack, func() error { return b.Move(ids["wQ"], Pos{1, 0}) })
	assert.Empty(t, b.LegalMoves(ids["wQ"]))

	// And moves down again: the queen is free.
	require.NoError(t, b.ApplyMove(ids["wB1"], Pos{1, -1}))
	assert.Equal(t, 1, b.HeightAt(Pos{0, 0}))
	top, _ := b.TopAt(Pos{0, 0})
	assert.Equal(t, ids["wQ"], top)
}

func TestMoveWouldDisconnect(t *testing.T) {
	// A line A-B-C: B can't move, it would split the hive.
	b := BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, ColorWhite, ANT},
		{Pos{1, 0}, ColorWhite, ANT},
		{Pos{2, 0}, ColorWhite, ANT},
	}, false)
	a, middle := IDAt(b, Pos{0, 0}), IDAt(b, Pos{1, 0})
	assert.False(t, b.StaysConnectedWithout(Pos{1, 0}))
	assert.Empty(t, b.LegalMoves(middle))
	assert.False(t, b.CanMove(middle))
	for _, dst := range []Pos{{1, -1}, {0, 1}, {3, 0}} {
		requireUnchanged(t, b, ErrWouldDisconnectHive, func() error { return b.Move(middle, dst) })
	}

	// The ends of the line can move.
	assert.Equal(t, []Pos{{1, -1}, {2, -1}, {3, -1}, {3, 0}, {0, 1}, {1, 1}, {2, 1}}, b.LegalMoves(a))
	requireUnchanged(t, b, ErrIllegalForSpecies, func() error { return b.Move(a, Pos{5, 5}) })
	requireUnchanged(t, b, ErrIllegalForSpecies, func() error { return b.Move(a, Pos{0, 0}) })
	err := b.Move(a, Pos{-1, 0})
	assert.True(t, IsMoveError(err))
	assert.False(t, IsPlacementError(err))

	require.NoError(t, b.Move(a, Pos{2, 1}))
	assert.True(t, b.IsOneHive())
	pos, _ := b.Location(a)
	assert.Equal(t, Pos{2, 1}, pos)
	assert.False(t, b.HasPiece(Pos{0, 0}))
}

func TestSurroundedQueen(t *testing.T) {
	layout := []PieceOnBoard{{Pos{0, 0}, ColorWhite, QUEEN}}
	for ii, pos := range (Pos{0, 0}).Neighbors() {
		layout = append(layout, PieceOnBoard{pos, Color(ii % 2), ANT})
	}
	b := BuildBoard(layout, false)
	queen := IDAt(b, Pos{0, 0})
	assert.True(t, b.IsSurrounded(Pos{0, 0}))
	assert.True(t, b.QueenSurrounded(ColorWhite))
	assert.False(t, b.QueenSurrounded(ColorBlack), "black has no queen")
	assert.True(t, b.StaysConnectedWithout(Pos{0, 0}))
	assert.Empty(t, b.LegalMoves(queen))
	requireUnchanged(t, b, ErrIllegalForSpecies, func() error { return b.Move(queen, Pos{1, 1}) })
}

func TestRequireQueenToMove(t *testing.T) {
	config := DefaultConfig()
	config.RequireQueenToMove = true
	b := BuildBoardWithConfig([]PieceOnBoard{
		{Pos{0, 0}, ColorWhite, ANT},
		{Pos{0, 1}, ColorBlack, QUEEN},
		{Pos{0, -1}, ColorWhite, ANT},
	}, false, config)

	ant := IDAt(b, Pos{0, -1})
	assert.Empty(t, b.LegalMoves(ant))
	assert.Empty(t, b.AllLegalMoves(ColorWhite))
	requireUnchanged(t, b, ErrQueenNotPlaced, func() error { return b.Move(ant, Pos{1, -1}) })

	assert.Equal(t, []Pos{{1, 0}, {-1, 1}}, b.LegalMoves(IDAt(b, Pos{0, 1})))
	assert.Len(t, b.AllLegalMoves(ColorBlack), 1)

	// The same board with the default configuration.
	b = BuildBoard([]PieceOnBoard{
		{Pos{0, 0}, ColorWhite, ANT},
		{Pos{0, 1}, ColorBlack, QUEEN},
		{Pos{0, -1}, ColorWhite, ANT},
	}, false)
	assert.Equal(t, []Pos{{1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {1, 1}, {-1, 2}, {0, 2}},
		b.LegalMoves(IDAt(b, Pos{0, -1})))
}

func TestMoveStackedBeetles(t *testing.T) {
	layout := []PieceOnBoard{
		{Pos{0, 0}, ColorWhite, ANT},
		{Pos{0, 0}, ColorBlack, BEETLE},
		{Pos{0, 0}, ColorWhite, BEETLE},
		{Pos{0, -1}, ColorBlack, ANT},
		{Pos{0, 1}, ColorWhite, SPIDER},
		{Pos{1, -2}, ColorBlack, BEETLE},
		{Pos{1, 0}, ColorWhite, BEETLE},
		{Pos{1, -3}, ColorBlack, QUEEN},
		{Pos{0, 2}, ColorWhite, QUEEN},
		{Pos{2, -1}, ColorBlack, SPIDER},
		{Pos{2, 0}, ColorWhite, ANT},
	}
	b := BuildBoard(layout, true)
	require.True(t, b.IsOneHive())
	stack := b.StackAt(Pos{0, 0})
	require.Equal(t, 3, stack.Height())
	wA1, bB1, wB1 := stack.PieceAt(2), stack.PieceAt(1), stack.PieceAt(0)
	assert.Equal(t, "wB1", b.Piece(wB1).Name)

	// White unstacks its beetle, to (-1,-1) in display coordinates.
	dst := Pos{-1, -1}.FromDisplayPos()
	require.Contains(t, b.LegalMoves(wB1), dst)
	require.NoError(t, b.Move(wB1, dst))
	assert.Equal(t, 1, b.HeightAt(dst))
	assert.Equal(t, []PieceID{wA1, bB1}, b.StackAt(Pos{0, 0}).BottomUp())

	// Black moves its beetle from the stack onto the black ant.
	dst = Pos{0, -1}
	require.NoError(t, b.Move(bB1, dst))
	top, _ := b.TopAt(Pos{0, 0})
	assert.Equal(t, wA1, top)
	assert.Equal(t, 1, b.HeightAt(Pos{0, 0}))
	assert.Equal(t, 2, b.HeightAt(dst))
	assert.Equal(t, "bA1", b.Piece(b.StackAt(dst).PieceAt(1)).Name)
	assert.True(t, b.IsOneHive())
}

func TestLayoutHash(t *testing.T) {
	registry, ids := newTestRegistry(t, "wQ", "bQ")
	b := NewBoard(registry, DefaultConfig())
	require.NoError(t, b.Place(ids["wQ"], Pos{0, 0}, true))
	require.NoError(t, b.Place(ids["bQ"], Pos{0, 1}, true))
	start := b.Clone()
	assert.True(t, b.Equal(start))
	assert.Equal(t, b.Hash(), start.Hash())
	assert.Equal(t, PosStackSlice{
		{Pos: Pos{0, 0}, Stack: EncodedStack(ids["wQ"])},
		{Pos: Pos{0, 1}, Stack: EncodedStack(ids["bQ"])},
	}, b.Layout())

	// The queens walk east together: the board is a translation of the start.
	for ii := range 3 {
		require.NoError(t, b.Move(ids["wQ"], Pos{ii + 1, 0}))
		assert.False(t, b.EquivalentTo(start))
		require.NoError(t, b.Move(ids["bQ"], Pos{ii + 1, 1}))
		assert.False(t, b.Equal(start))
		assert.True(t, b.EquivalentTo(start))
		assert.Equal(t, start.Hash(), b.Hash())
		assert.Equal(t, start.NormalizedLayout(), b.NormalizedLayout())
	}

	// Clones are independent.
	pos, _ := start.Location(ids["wQ"])
	assert.Equal(t, Pos{0, 0}, pos)
	assert.Equal(t, uint64(0), NewBoard(registry, DefaultConfig()).Hash())
	assert.Same(t, b.Registry(), start.Registry())
}
