package state

import "github.com/pkg/errors"

// Placement errors, returned by Board.Place. They are returned wrapped with context, use
// errors.Is to test for them.
var (
	ErrUnknownPiece     = errors.New("unknown piece")
	ErrAlreadyPlaced    = errors.New("piece already placed on the board")
	ErrOccupiedConflict = errors.New("position already occupied")
	ErrTouchesOpponent  = errors.New("placement touches a piece of the opponent")
	ErrNotAdjacent      = errors.New("placement doesn't touch the hive")
)

// Move errors, returned by Board.Move and Board.ApplyMove.
var (
	ErrNotPlaced           = errors.New("piece not on the board")
	ErrNotTopOfStack       = errors.New("piece is covered by another piece")
	ErrWouldDisconnectHive = errors.New("moving the piece would break the hive")
	ErrIllegalForSpecies   = errors.New("destination not reachable by the piece")
	ErrQueenNotPlaced      = errors.New("pieces can't move before their queen is placed")
)

var (
	placementErrors = []error{ErrUnknownPiece, ErrAlreadyPlaced, ErrOccupiedConflict, ErrTouchesOpponent, ErrNotAdjacent}
	moveErrors      = []error{ErrNotPlaced, ErrNotTopOfStack, ErrWouldDisconnectHive, ErrIllegalForSpecies, ErrQueenNotPlaced}
)

func isAnyOf(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsPlacementError returns whether err is (or wraps) one of the placement errors.
func IsPlacementError(err error) bool {
	return isAnyOf(err, placementErrors)
}

// IsMoveError returns whether err is (or wraps) one of the move errors.
func IsMoveError(err error) bool {
	return isAnyOf(err, moveErrors)
}
