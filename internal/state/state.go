// Package state holds the Hive board and the rules engine: hex coordinates, the stack-aware
// occupancy model, the one-hive connectivity checks, the sliding ("freedom of movement") rule
// and the per-species move generators.
//
// The Board is single-writer: use Board.Clone to hand a snapshot to concurrent readers, or
// SharedBoard to guard one board shared across goroutines.
package state

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// PieceType currently limited to the 5 basic types plus a NoPiece, the null value.
type PieceType uint8

const (
	NoPiece PieceType = iota
	ANT
	BEETLE
	GRASSHOPPER
	QUEEN
	SPIDER
	LastPiece
)

// NumPieceTypes doesn't include the NoPiece type.
const NumPieceTypes = LastPiece - 1

var (
	PieceLetters  = [LastPiece]string{"-", "A", "B", "G", "Q", "S"}
	LetterToPiece = map[string]PieceType{"A": ANT, "B": BEETLE, "G": GRASSHOPPER, "Q": QUEEN, "S": SPIDER}
	PieceNames    = [LastPiece]string{
		"None", "Ant", "Beetle", "Grasshopper", "Queen", "Spider",
	}

	// Pieces enumerates all the pieces, skipping the "NoPiece".
	Pieces = [NumPieceTypes]PieceType{ANT, BEETLE, GRASSHOPPER, QUEEN, SPIDER}
)

// String returns the long piece name.
func (p PieceType) String() string {
	if p >= LastPiece {
		return fmt.Sprintf("PieceType(%d)", p)
	}
	return PieceNames[p]
}

// Letter returns the one letter abbreviation of the piece type.
func (p PieceType) Letter() string {
	if p >= LastPiece {
		return "?"
	}
	return PieceLetters[p]
}

// ParsePieceType accepts either the long name or the letter of a piece type, case-insensitive.
func ParsePieceType(s string) (PieceType, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if piece, found := LetterToPiece[upper]; found {
		return piece, nil
	}
	for _, piece := range Pieces {
		if strings.ToUpper(PieceNames[piece]) == upper {
			return piece, nil
		}
	}
	return NoPiece, errors.Errorf("unknown piece type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so piece types can be read from YAML or JSON.
func (p *PieceType) UnmarshalText(text []byte) error {
	piece, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = piece
	return nil
}

// Color of a piece, the owner of the piece.
type Color uint8

const (
	ColorWhite Color = iota
	ColorBlack
)

//go:generate go tool enumer -type=Color -trimprefix=Color -transform=lower -text -json state.go

// NumColors is the number of players.
const NumColors = 2

// Colors enumerates both colors, white first.
var Colors = [NumColors]Color{ColorWhite, ColorBlack}

// Letter returns the "w" or "b" prefix used in the piece notation.
func (c Color) Letter() string {
	if c == ColorWhite {
		return "w"
	}
	return "b"
}

// Opponent returns the other color.
func (c Color) Opponent() Color {
	return 1 - c
}

// PieceID identifies one physical tile. The zero value means "no piece".
type PieceID uint8

// NoPieceID is the null PieceID.
const NoPieceID PieceID = 0

// MaxPieces that can be registered, limited by the PieceID encoding.
const MaxPieces = 255

// Piece is an immutable description of a tile: once registered it is never changed or destroyed,
// only moved around the board.
type Piece struct {
	ID    PieceID
	Name  string
	Type  PieceType
	Color Color
}

// String returns the piece name, e.g. "wA1".
func (p Piece) String() string {
	return p.Name
}

// EncodedStack represents a stacked collection of pieces, typically in some location of
// the map.
//
// Each level holds one PieceID in 8 bits, the top of the stack in the lowest byte. So at most
// 8 pieces can be stacked, more than Hive ever needs (5 with all beetles on one stack).
type EncodedStack uint64

// MaxStackHeight is the number of PieceIDs that fit in an EncodedStack.
const MaxStackHeight = 8

// PieceAt returns the piece at depth stackPos in the stack.
// Pos 0 is the top of the stack, 1 is the first piece under it, etc.
// If there is no pieces at given position, it returns NoPieceID.
func (stack EncodedStack) PieceAt(stackPos uint8) PieceID {
	if stackPos >= MaxStackHeight {
		return NoPieceID
	}
	return PieceID((stack >> (stackPos << 3)) & 0xFF)
}

// Top returns the piece at the top, or NoPieceID if the stack is empty.
func (stack EncodedStack) Top() PieceID {
	return PieceID(stack & 0xFF)
}

// HasPiece returns whether there is a piece in the given stack of pieces.
func (stack EncodedStack) HasPiece() bool {
	return stack != 0
}

// Height returns the number of pieces stacked.
func (stack EncodedStack) Height() (count int) {
	for stack != 0 {
		count++
		stack >>= 8
	}
	return
}

// IsFull returns whether no more pieces can be pushed.
func (stack EncodedStack) IsFull() bool {
	return stack>>((MaxStackHeight-1)<<3) != 0
}

// Push stacks piece on top and returns new stack value.
func (stack EncodedStack) Push(id PieceID) EncodedStack {
	return (stack << 8) | EncodedStack(id)
}

// Pop removes piece from top of the stack and returns the updated stack and the piece popped.
func (stack EncodedStack) Pop() (newStack EncodedStack, id PieceID) {
	return stack >> 8, stack.Top()
}

// Contains returns whether the piece is anywhere in the stack.
func (stack EncodedStack) Contains(id PieceID) bool {
	for ; stack != 0; stack >>= 8 {
		if PieceID(stack&0xFF) == id {
			return true
		}
	}
	return false
}

// BottomUp returns the pieces of the stack, from the bottom (first placed) to the top.
func (stack EncodedStack) BottomUp() []PieceID {
	height := stack.Height()
	ids := make([]PieceID, height)
	for ii := range height {
		ids[height-1-ii] = stack.PieceAt(uint8(ii))
	}
	return ids
}
