package state

// MoveView is the board as seen by a piece that is about to move: the piece is lifted from the
// top of its stack at Origin, so the origin no longer counts as occupied (unless there are
// other pieces under it).
//
// It is a read-only view: it must not outlive changes to the board.
type MoveView struct {
	board  *Board
	origin Pos
	lifted bool
}

// liftedView returns the view of the board with the top piece at src lifted.
func (b *Board) liftedView(src Pos) *MoveView {
	return &MoveView{board: b, origin: src, lifted: b.HasPiece(src)}
}

// Board returns the underlying board.
func (v *MoveView) Board() *Board {
	return v.board
}

// Origin returns the position the moving piece left.
func (v *MoveView) Origin() Pos {
	return v.origin
}

// Height returns the number of pieces at pos, not counting the moving piece.
func (v *MoveView) Height(pos Pos) int {
	height := v.board.board[pos].Height()
	if v.lifted && pos == v.origin {
		height--
	}
	return height
}

// Occupied returns whether there is any piece at pos, not counting the moving piece.
func (v *MoveView) Occupied(pos Pos) bool {
	return v.Height(pos) > 0
}

// touchesHive returns whether a piece at pos would be part of the hive: either pos is occupied
// (the piece climbs on it), or it has an occupied neighbour.
func (v *MoveView) touchesHive(pos Pos) bool {
	if v.Occupied(pos) {
		return true
	}
	for _, neighbour := range pos.NeighborsIter() {
		if v.Occupied(neighbour) {
			return true
		}
	}
	return false
}

// CanSlide implements the freedom of movement rule: whether a piece moving at the given level
// (the number of pieces under it) can slide from `from` to its neighbour in direction d.
//
// The two positions flanking the edge crossed are "occupied" if their stacks are taller than
// level. The slide is pinched if both flanks are occupied and the target is not. At ground
// level the piece must also keep touching the hive as it slides, so at least one flank must be
// occupied.
func (v *MoveView) CanSlide(from Pos, d Direction, level int) bool {
	left, right := d.Flanks()
	leftOccupied := v.Height(from.Add(left)) > level
	rightOccupied := v.Height(from.Add(right)) > level
	if leftOccupied && rightOccupied && v.Height(from.Add(d)) <= level {
		// Squeeze between two pieces is not allowed.
		return false
	}
	if level == 0 && !leftOccupied && !rightOccupied {
		// Sliding away from the hive.
		return false
	}
	return true
}

// CanSlide answers the freedom of movement question for the top piece at `from` sliding to the
// neighbour `to`, at the height it is at (see MoveView.CanSlide). It returns false if the
// positions are not neighbours or `from` is empty.
func (b *Board) CanSlide(from, to Pos) bool {
	d, ok := from.DirectionTo(to)
	if !ok || !b.HasPiece(from) {
		return false
	}
	v := b.liftedView(from)
	return v.CanSlide(from, d, v.Height(from))
}

// SlideBlocked returns whether sliding at ground level from `from` to its neighbour `to` is
// pinched: both positions flanking the edge are occupied and `to` is empty. The piece at `from`,
// if any, is considered lifted.
func (b *Board) SlideBlocked(from, to Pos) bool {
	d, ok := from.DirectionTo(to)
	if !ok {
		return true
	}
	v := b.liftedView(from)
	left, right := d.Flanks()
	return v.Occupied(from.Add(left)) && v.Occupied(from.Add(right)) && !v.Occupied(to)
}
