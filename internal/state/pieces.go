package state

import (
	"github.com/janpfeifer/hiveboard/internal/generics"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MoveGenerator enumerates the destinations a species can reach from src, given the board
// with the moving piece lifted. It is not responsible for the rules shared by all species
// (the piece must be free to leave src without breaking the hive, see Board.LegalMoves).
type MoveGenerator interface {
	Moves(v *MoveView, src Pos) []Pos
}

// SpiderSteps is the exact number of steps of a spider move.
const SpiderSteps = 3

var moveGenerators = [LastPiece]MoveGenerator{
	ANT:         antMoves{},
	BEETLE:      beetleMoves{},
	GRASSHOPPER: grasshopperMoves{},
	QUEEN:       queenMoves{},
	SPIDER:      spiderMoves{SpiderSteps},
}

// MoveGeneratorFor returns the MoveGenerator of the given species, or nil for NoPiece.
func MoveGeneratorFor(pieceType PieceType) MoveGenerator {
	if pieceType >= LastPiece {
		return nil
	}
	return moveGenerators[pieceType]
}

// LegalMoves returns the sorted destinations the piece can legally move to.
//
// It returns nothing if the piece is pinned (moving it would break the hive), covered by a
// beetle, not on the board or simply has no valid destination. It never changes the board,
// and calling it twice on the same board returns the same result.
func (b *Board) LegalMoves(id PieceID) []Pos {
	src, err := b.checkMovable(id)
	if err != nil {
		if errors.Is(err, ErrNotPlaced) {
			klog.V(1).Infof("LegalMoves() called for piece not on the board: %v", err)
		}
		return nil
	}
	return b.legalMovesFrom(id, src)
}

// legalMovesFrom generates the moves of the piece at src, assuming checkMovable passed.
func (b *Board) legalMovesFrom(id PieceID, src Pos) []Pos {
	piece := b.registry.Piece(id)
	generator := MoveGeneratorFor(piece.Type)
	if generator == nil {
		klog.Errorf("No move generator for %s (%s)", piece, piece.Type)
		return nil
	}
	v := b.liftedView(src)
	poss := FilterPositionSlices(generator.Moves(v, src), func(dst Pos) bool {
		return dst != src && v.touchesHive(dst)
	})
	SortPositions(poss)
	return poss
}

// AllLegalMoves returns the legal moves of every piece of the given color that can move.
// Pieces without moves are not included.
//
// It finds the pinned pieces in one pass over the board, so it is cheaper than calling
// LegalMoves for each piece.
func (b *Board) AllLegalMoves(color Color) map[PieceID][]Pos {
	moves := make(map[PieceID][]Pos)
	if b.config.RequireQueenToMove {
		if queen, found := b.registry.Queen(color); !found || !b.IsPlaced(queen.ID) {
			return moves
		}
	}
	removable := b.RemovablePositions()
	for pos, stack := range b.board {
		id := stack.Top()
		if b.registry.Piece(id).Color != color || !removable.Has(pos) {
			continue
		}
		if poss := b.legalMovesFrom(id, pos); len(poss) > 0 {
			moves[id] = poss
		}
	}
	return moves
}

// FilterPositionSlices filters the given positions according to the given filter.
// It destroys the contents of the provided slice and reuses the allocated space
// for the returned slice.
//
// FilterPositionSlices will preserve the elements that `filter(pos)` returns true,
// and discard the ones it returns false.
func FilterPositionSlices(positions []Pos, filter func(pos Pos) bool) (filtered []Pos) {
	filtered = positions[:0]
	for _, pos := range positions {
		if filter(pos) {
			filtered = append(filtered, pos)
		}
	}
	return
}

// queenMoves: one step slides.
type queenMoves struct{}

func (queenMoves) Moves(v *MoveView, src Pos) (poss []Pos) {
	for d, pos := range src.NeighborsIter() {
		if !v.Occupied(pos) && v.CanSlide(src, d, 0) {
			poss = append(poss, pos)
		}
	}
	return
}

// beetleMoves: one step, either climbing onto any neighbouring piece (not subject to the
// sliding rule) or sliding to an empty neighbour at the height it is at.
type beetleMoves struct{}

func (beetleMoves) Moves(v *MoveView, src Pos) (poss []Pos) {
	level := v.Height(src)
	for d, pos := range src.NeighborsIter() {
		if v.Occupied(pos) || v.CanSlide(src, d, level) {
			poss = append(poss, pos)
		}
	}
	return
}

// grasshopperMoves: jumps in a straight line over one or more pieces, to the first empty position.
type grasshopperMoves struct{}

func (grasshopperMoves) Moves(v *MoveView, src Pos) (poss []Pos) {
	for _, d := range Directions {
		pos := src.Add(d)
		if !v.Occupied(pos) {
			continue
		}
		for v.Occupied(pos) {
			pos = pos.Add(d)
		}
		poss = append(poss, pos)
	}
	return
}

// spiderMoves: exactly `steps` slides, never visiting the same position twice in the path.
type spiderMoves struct {
	steps int
}

func (s spiderMoves) Moves(v *MoveView, src Pos) (poss []Pos) {
	endPos := generics.MakeSet[Pos]()
	visitedPath := generics.SetWith(src)
	spiderMovesDFS(v, src, s.steps, endPos, visitedPath)
	for pos := range endPos {
		poss = append(poss, pos)
	}
	return poss
}

// spiderMovesDFS traverse connected neighbours and keeps track of valid final destinations for
// a spider in endPos. The depth is bounded by the number of steps.
func spiderMovesDFS(v *MoveView, pos Pos, stepsLeft int, endPos, visitedPath generics.Set[Pos]) {
	for d, next := range pos.NeighborsIter() {
		if visitedPath.Has(next) || v.Occupied(next) || !v.CanSlide(pos, d, 0) {
			continue
		}
		if stepsLeft == 1 {
			endPos.Insert(next)
			continue
		}
		// The same position can be reached by different paths, so it is unmarked on the way back.
		visitedPath.Insert(next)
		spiderMovesDFS(v, next, stepsLeft-1, endPos, visitedPath)
		delete(visitedPath, next)
	}
}

// antMoves: any number of slides around the hive.
type antMoves struct{}

func (antMoves) Moves(v *MoveView, src Pos) (poss []Pos) {
	// Perform a BFS to find all valid positions.
	visited := generics.SetWith(src)
	toVisit := []Pos{src}
	for len(toVisit) > 0 {
		pos := toVisit[0]
		toVisit = toVisit[1:]
		for d, next := range pos.NeighborsIter() {
			if visited.Has(next) || v.Occupied(next) || !v.CanSlide(pos, d, 0) {
				continue
			}
			visited.Insert(next)
			toVisit = append(toVisit, next)
			poss = append(poss, next)
		}
	}
	return
}
