package state

import "sync"

// SharedBoard guards a Board shared by several goroutines, for instance a UI rendering the
// board while a searcher explores moves.
//
// Mutations take an exclusive lock; queries run as point-in-time read transactions. Long
// running readers (search) should work on a Snapshot instead of holding the read lock.
type SharedBoard struct {
	mu    sync.RWMutex
	board *Board
}

// NewSharedBoard takes ownership of board: it must not be used directly afterwards.
func NewSharedBoard(board *Board) *SharedBoard {
	return &SharedBoard{board: board}
}

// Place is Board.Place under the exclusive lock.
func (s *SharedBoard) Place(id PieceID, pos Pos, ignoreAdjacencyColorRule bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Place(id, pos, ignoreAdjacencyColorRule)
}

// Move is Board.Move under the exclusive lock.
func (s *SharedBoard) Move(id PieceID, dst Pos) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Move(id, dst)
}

// LegalMoves is Board.LegalMoves under the read lock.
func (s *SharedBoard) LegalMoves(id PieceID) []Pos {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.LegalMoves(id)
}

// IsOneHive is Board.IsOneHive under the read lock.
func (s *SharedBoard) IsOneHive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.IsOneHive()
}

// View calls fn with the board under the read lock. fn must not change the board nor keep
// a reference to it after it returns.
func (s *SharedBoard) View(fn func(b *Board)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.board)
}

// Snapshot returns a copy of the current board, that the caller owns.
func (s *SharedBoard) Snapshot() *Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Clone()
}
