package state

// This file contains the functions that compare boards, exactly or up to a translation, and
// hash them. Search code (outside of this package) uses them to detect repeated positions.

import (
	"encoding/binary"
	"hash/fnv"
	"maps"
	"slices"
)

// PosStack represents a position and the stack of pieces in the position.
type PosStack struct {
	Pos   Pos
	Stack EncodedStack
}

// PosStackSlice is a sortable slice of PosStack.
type PosStackSlice []PosStack

// Sort in-place slice of PosStack.
// There should be only one stack per position.
func (s PosStackSlice) Sort() {
	slices.SortFunc(s, func(a, b PosStack) int {
		return ComparePos(a.Pos, b.Pos)
	})
}

// Layout returns the occupied positions and their stacks, sorted by position.
func (b *Board) Layout() PosStackSlice {
	pieces := make(PosStackSlice, 0, len(b.board))
	for pos, stack := range b.board {
		pieces = append(pieces, PosStack{pos, stack})
	}
	pieces.Sort()
	return pieces
}

// NormalizedLayout returns the Layout shifted such that the minimum q and r are 0.
// Two boards that are translations of one another have the same NormalizedLayout.
func (b *Board) NormalizedLayout() PosStackSlice {
	pieces := b.Layout()
	minQ, _, minR, _ := b.UsedLimits()
	for ii := range pieces {
		pieces[ii].Pos[0] -= minQ
		pieces[ii].Pos[1] -= minR
	}
	return pieces
}

// Hash of the NormalizedLayout of the board: boards that are translations of one another have
// the same hash. Usually unique, but not guaranteed.
func (b *Board) Hash() uint64 {
	pieces := b.NormalizedLayout()
	if len(pieces) == 0 {
		return 0
	}
	hasher := fnv.New64a()
	buf := make([]byte, 0, 24*len(pieces))
	for _, ps := range pieces {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(ps.Pos[0])))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(ps.Pos[1])))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(ps.Stack))
	}
	_, _ = hasher.Write(buf) // Hash writers never fail.
	return hasher.Sum64()
}

// Equal returns whether both boards have exactly the same pieces in the same positions.
func (b *Board) Equal(b2 *Board) bool {
	return maps.Equal(b.board, b2.board)
}

// EquivalentTo returns whether b2 holds the same stacks as b, up to a translation.
func (b *Board) EquivalentTo(b2 *Board) bool {
	if len(b.board) != len(b2.board) || b.Hash() != b2.Hash() {
		return false
	}
	return slices.Equal(b.NormalizedLayout(), b2.NormalizedLayout())
}
