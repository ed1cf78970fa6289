package state

import (
	"github.com/pkg/errors"
	"iter"
)

// Registry holds every piece of a match. Pieces are registered once, before the match starts,
// and never change afterwards: a Registry can be shared by any number of boards.
type Registry struct {
	pieces []Piece // Indexed by PieceID-1.
	byName map[string]PieceID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]PieceID)}
}

// Add registers a new piece and returns its PieceID.
func (r *Registry) Add(name string, pieceType PieceType, color Color) (PieceID, error) {
	if name == "" {
		return NoPieceID, errors.New("piece name cannot be empty")
	}
	if pieceType == NoPiece || pieceType >= LastPiece {
		return NoPieceID, errors.Errorf("invalid piece type %d for piece %q", pieceType, name)
	}
	if !color.IsAColor() {
		return NoPieceID, errors.Errorf("invalid color %d for piece %q", color, name)
	}
	if _, found := r.byName[name]; found {
		return NoPieceID, errors.Errorf("piece %q registered twice", name)
	}
	if len(r.pieces) >= MaxPieces {
		return NoPieceID, errors.Errorf("registry is full, can't add %q", name)
	}
	id := PieceID(len(r.pieces) + 1)
	r.pieces = append(r.pieces, Piece{ID: id, Name: name, Type: pieceType, Color: color})
	r.byName[name] = id
	return id, nil
}

// Len returns the number of pieces registered.
func (r *Registry) Len() int {
	return len(r.pieces)
}

// Has returns whether id is a registered piece.
func (r *Registry) Has(id PieceID) bool {
	return id != NoPieceID && int(id) <= len(r.pieces)
}

// Piece returns the description of the piece. It returns the zero Piece for unknown ids.
func (r *Registry) Piece(id PieceID) Piece {
	if !r.Has(id) {
		return Piece{}
	}
	return r.pieces[id-1]
}

// Lookup returns the piece with the given name.
func (r *Registry) Lookup(name string) (Piece, bool) {
	id, found := r.byName[name]
	if !found {
		return Piece{}, false
	}
	return r.pieces[id-1], true
}

// All iterates over all the pieces, in registration order.
func (r *Registry) All() iter.Seq[Piece] {
	return func(yield func(Piece) bool) {
		for _, p := range r.pieces {
			if !yield(p) {
				return
			}
		}
	}
}

// ByColor iterates over the pieces of the given color.
func (r *Registry) ByColor(color Color) iter.Seq[Piece] {
	return func(yield func(Piece) bool) {
		for _, p := range r.pieces {
			if p.Color == color && !yield(p) {
				return
			}
		}
	}
}

// Queen returns the queen of the given color, if one was registered.
func (r *Registry) Queen(color Color) (Piece, bool) {
	for p := range r.ByColor(color) {
		if p.Type == QUEEN {
			return p, true
		}
	}
	return Piece{}, false
}
