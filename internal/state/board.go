package state

import (
	"iter"
	"maps"

	"github.com/janpfeifer/hiveboard/internal/generics"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Board holds the occupancy of the hive: the stack of pieces at each position and the
// reverse index of where each piece is.
//
// Positions with no pieces are never stored, and every placed piece is in exactly one stack.
// Successful calls to Place and Move always leave the hive connected.
type Board struct {
	registry *Registry
	config   Config

	board    map[Pos]EncodedStack
	location map[PieceID]Pos

	numPlacements int
}

// NewBoard creates a new empty board for the pieces in registry.
// The registry is shared, and must not be changed after the board is created.
func NewBoard(registry *Registry, config Config) *Board {
	return &Board{
		registry: registry,
		config:   config,
		board:    make(map[Pos]EncodedStack),
		location: make(map[PieceID]Pos),
	}
}

// Clone makes a deep copy of the board. The Registry is shared.
//
// Use it to give a stable snapshot to a reader, or to branch a search.
func (b *Board) Clone() *Board {
	newB := &Board{}
	*newB = *b
	newB.board = maps.Clone(b.board)
	newB.location = maps.Clone(b.location)
	return newB
}

// Registry returns the pieces known by the board.
func (b *Board) Registry() *Registry {
	return b.registry
}

// Config returns the rules configuration of the board.
func (b *Board) Config() Config {
	return b.config
}

// Piece returns the description of the piece with the given id.
func (b *Board) Piece(id PieceID) Piece {
	return b.registry.Piece(id)
}

// HasPiece returns whether there is a piece on the given location of the board.
func (b *Board) HasPiece(pos Pos) bool {
	_, found := b.board[pos]
	return found
}

// TopAt returns the piece at the top of the stack on the given position, if any.
func (b *Board) TopAt(pos Pos) (PieceID, bool) {
	stack, found := b.board[pos]
	if !found {
		return NoPieceID, false
	}
	return stack.Top(), true
}

// StackAt returns the EncodedStack at given position at the board. It will return
// an empty stack if there is no piece there.
func (b *Board) StackAt(pos Pos) EncodedStack {
	return b.board[pos]
}

// HeightAt returns the number of pieces stacked at pos.
func (b *Board) HeightAt(pos Pos) int {
	return b.board[pos].Height()
}

// Location returns where the piece is, if it has been placed.
func (b *Board) Location(id PieceID) (Pos, bool) {
	pos, found := b.location[id]
	return pos, found
}

// IsPlaced returns whether the piece is on the board.
func (b *Board) IsPlaced(id PieceID) bool {
	_, found := b.location[id]
	return found
}

// NumOccupied returns the number of occupied positions. Stacks count as one.
func (b *Board) NumOccupied() int {
	return len(b.board)
}

// NumPiecesOnBoard returns the number of pieces placed, including the covered ones.
func (b *Board) NumPiecesOnBoard() int {
	return len(b.location)
}

// NumPlacements returns the number of successful calls to Place.
func (b *Board) NumPlacements() int {
	return b.numPlacements
}

// OccupiedPositions returns all the positions used, in no particular order.
func (b *Board) OccupiedPositions() []Pos {
	return generics.KeysSlice(b.board)
}

// OccupiedPositionsIter iterates over all positions used.
func (b *Board) OccupiedPositionsIter() iter.Seq[Pos] {
	return maps.Keys(b.board)
}

// OccupiedNeighboursIter iterates over the occupied neighbours of pos.
func (b *Board) OccupiedNeighboursIter(pos Pos) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for _, neighbour := range pos.NeighborsIter() {
			if b.HasPiece(neighbour) && !yield(neighbour) {
				return
			}
		}
	}
}

// OccupiedNeighbours returns the slice of occupied neighbours of pos.
func (b *Board) OccupiedNeighbours(pos Pos) (positions []Pos) {
	for neighbour := range b.OccupiedNeighboursIter(pos) {
		positions = append(positions, neighbour)
	}
	return
}

// EmptyNeighbours returns the slice of empty neighbours of pos.
func (b *Board) EmptyNeighbours(pos Pos) (positions []Pos) {
	for _, neighbour := range pos.NeighborsIter() {
		if !b.HasPiece(neighbour) {
			positions = append(positions, neighbour)
		}
	}
	return
}

// NeighborsOf returns the top piece of each of the 6 neighbors of pos, indexed by Direction.
// Empty neighbors are NoPieceID.
func (b *Board) NeighborsOf(pos Pos) (tops [NumNeighbors]PieceID) {
	for d, neighbour := range pos.NeighborsIter() {
		tops[d] = b.board[neighbour].Top()
	}
	return
}

// ColorRuleExempt returns whether the next placement is still exempt of the rule that new
// pieces can't touch the opponent's pieces. Callers usually pass it to Place.
func (b *Board) ColorRuleExempt() bool {
	return b.numPlacements < b.config.ExemptPlacements
}

// Place puts a piece from outside the board on the given position.
//
// The target must be empty, and (except for the very first piece) touch the hive. Unless
// ignoreAdjacencyColorRule is set, all pieces it touches must have the same color as the
// piece being placed. On error the board is not changed.
func (b *Board) Place(id PieceID, pos Pos, ignoreAdjacencyColorRule bool) error {
	if !b.registry.Has(id) {
		return errors.Wrapf(ErrUnknownPiece, "can't place piece #%d", id)
	}
	piece := b.registry.Piece(id)
	if at, placed := b.location[id]; placed {
		return errors.Wrapf(ErrAlreadyPlaced, "can't place %s at %s, it is at %s", piece, pos, at)
	}
	if b.HasPiece(pos) {
		return errors.Wrapf(ErrOccupiedConflict, "can't place %s at %s", piece, pos)
	}
	if len(b.board) > 0 {
		touchesHive := false
		for neighbour := range b.OccupiedNeighboursIter(pos) {
			touchesHive = true
			if ignoreAdjacencyColorRule {
				break
			}
			other := b.registry.Piece(b.board[neighbour].Top())
			if other.Color != piece.Color {
				return errors.Wrapf(ErrTouchesOpponent, "can't place %s at %s next to %s at %s",
					piece, pos, other, neighbour)
			}
		}
		if !touchesHive {
			return errors.Wrapf(ErrNotAdjacent, "can't place %s at %s", piece, pos)
		}
	}
	b.push(pos, id)
	b.numPlacements++
	klog.V(2).Infof("Placed %s at %s", piece, pos)
	return nil
}

// push stacks the piece at pos and updates its location.
func (b *Board) push(pos Pos, id PieceID) {
	b.board[pos] = b.board[pos].Push(id)
	b.location[id] = pos
}

// remove pops the piece from the top of its stack, and returns where it was.
// It doesn't check whether the hive stays connected.
func (b *Board) remove(id PieceID) (Pos, error) {
	pos, placed := b.location[id]
	if !placed {
		return pos, errors.Wrapf(ErrNotPlaced, "can't remove %s", b.registry.Piece(id))
	}
	stack := b.board[pos]
	if stack.Top() != id {
		return pos, errors.Wrapf(ErrNotTopOfStack, "can't remove %s from %s, %s is on top",
			b.registry.Piece(id), pos, b.registry.Piece(stack.Top()))
	}
	stack, _ = stack.Pop()
	if stack.HasPiece() {
		b.board[pos] = stack
	} else {
		delete(b.board, pos)
	}
	delete(b.location, id)
	return pos, nil
}

// ApplyMove moves the piece to dst, checking only the structural preconditions: the piece
// is on the board, at the top of its stack, dst is a different position and only beetles
// land on other pieces.
//
// It DOES NOT CHECK the move is legal: dst must have been taken from LegalMoves. Use Move
// for a validated move.
func (b *Board) ApplyMove(id PieceID, dst Pos) error {
	src, err := b.topPieceLocation(id)
	if err != nil {
		return err
	}
	piece := b.registry.Piece(id)
	if src == dst {
		return errors.Wrapf(ErrIllegalForSpecies, "%s can't move to the position it is already in %s", piece, dst)
	}
	if dstStack := b.board[dst]; dstStack.HasPiece() {
		if piece.Type != BEETLE {
			return errors.Wrapf(ErrIllegalForSpecies, "%s can't climb on top of %s", piece, dst)
		}
		if dstStack.IsFull() {
			return errors.Wrapf(ErrIllegalForSpecies, "stack at %s is full", dst)
		}
	}
	if _, err = b.remove(id); err != nil {
		return err
	}
	b.push(dst, id)
	klog.V(2).Infof("Moved %s: %s->%s", piece, src, dst)
	return nil
}

// Move validates the move of the piece to dst against all rules, and applies it.
// On error the board is not changed.
func (b *Board) Move(id PieceID, dst Pos) error {
	src, err := b.checkMovable(id)
	if err != nil {
		return err
	}
	legal := false
	for _, pos := range b.legalMovesFrom(id, src) {
		if pos == dst {
			legal = true
			break
		}
	}
	if !legal {
		return errors.Wrapf(ErrIllegalForSpecies, "%s can't move from %s to %s", b.registry.Piece(id), src, dst)
	}
	return b.ApplyMove(id, dst)
}

// topPieceLocation returns the location of the piece, if it is placed and at the top of its stack.
func (b *Board) topPieceLocation(id PieceID) (Pos, error) {
	src, placed := b.location[id]
	if !placed {
		if !b.registry.Has(id) {
			return src, errors.Wrapf(ErrNotPlaced, "unknown piece #%d", id)
		}
		return src, errors.Wrapf(ErrNotPlaced, "%s can't move", b.registry.Piece(id))
	}
	if top := b.board[src].Top(); top != id {
		return src, errors.Wrapf(ErrNotTopOfStack, "%s at %s is covered by %s",
			b.registry.Piece(id), src, b.registry.Piece(top))
	}
	return src, nil
}

// checkMovable checks the rules that apply to all species: the piece is free to leave its
// position without breaking the hive.
func (b *Board) checkMovable(id PieceID) (Pos, error) {
	src, err := b.topPieceLocation(id)
	if err != nil {
		return src, err
	}
	piece := b.registry.Piece(id)
	if b.config.RequireQueenToMove {
		if queen, found := b.registry.Queen(piece.Color); !found || !b.IsPlaced(queen.ID) {
			return src, errors.Wrapf(ErrQueenNotPlaced, "%s can't move", piece)
		}
	}
	if !b.StaysConnectedWithout(src) {
		return src, errors.Wrapf(ErrWouldDisconnectHive, "%s at %s is pinned", piece, src)
	}
	return src, nil
}

// IsSurrounded returns whether all 6 neighbours of pos are occupied.
func (b *Board) IsSurrounded(pos Pos) bool {
	for _, neighbour := range pos.NeighborsIter() {
		if !b.HasPiece(neighbour) {
			return false
		}
	}
	return true
}

// QueenSurrounded returns whether the queen of the given color is on the board and surrounded,
// which ends the match.
func (b *Board) QueenSurrounded(color Color) bool {
	queen, found := b.registry.Queen(color)
	if !found {
		return false
	}
	pos, placed := b.location[queen.ID]
	return placed && b.IsSurrounded(pos)
}

// CanMove returns whether the piece has at least one legal move.
func (b *Board) CanMove(id PieceID) bool {
	return len(b.LegalMoves(id)) > 0
}

// UsedLimits returns the max/min of q/r used in the board.
func (b *Board) UsedLimits() (minQ, maxQ, minR, maxR int) {
	return limits(maps.Keys(b.board), func(pos Pos) Pos { return pos })
}

// DisplayUsedLimits returns the max/min of x/y of the board in "display coordinates".
func (b *Board) DisplayUsedLimits() (minX, maxX, minY, maxY int) {
	return limits(maps.Keys(b.board), Pos.ToDisplayPos)
}

func limits(positions iter.Seq[Pos], convert func(Pos) Pos) (minX, maxX, minY, maxY int) {
	first := true
	for pos := range positions {
		pos = convert(pos)
		x, y := pos[0], pos[1]
		if first || x > maxX {
			maxX = x
		}
		if first || x < minX {
			minX = x
		}
		if first || y > maxY {
			maxY = y
		}
		if first || y < minY {
			minY = y
		}
		first = false
	}
	return
}
