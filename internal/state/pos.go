package state

import (
	"fmt"
	"iter"
	"slices"
)

// Pos is an axial hex coordinate (q, r). Positions are unbounded: the board is a sparse map
// keyed by Pos, so there is no wraparound and no edge of the world.
type Pos [2]int

// NumNeighbors of each position: the board is hexagonal.
const NumNeighbors = 6

// Direction indexes the 6 neighbors of a position. The order is fixed, and taking the same
// direction repeatedly walks a straight line.
type Direction uint8

const (
	DirNorthWest Direction = iota // (0, -1)
	DirNorthEast                  // (1, -1)
	DirWest                       // (-1, 0)
	DirEast                       // (1, 0)
	DirSouthEast                  // (0, 1)
	DirSouthWest                  // (-1, 1)
)

var (
	directionOffsets = [NumNeighbors]Pos{{0, -1}, {1, -1}, {-1, 0}, {1, 0}, {0, 1}, {-1, 1}}
	directionNames   = [NumNeighbors]string{"NW", "NE", "W", "E", "SE", "SW"}
	oppositeDir      = [NumNeighbors]Direction{DirSouthEast, DirSouthWest, DirEast, DirWest, DirNorthWest, DirNorthEast}

	// flankDirs holds, for each direction, the two directions whose neighbors are also
	// neighbors of the position one step in that direction.
	flankDirs = [NumNeighbors][2]Direction{
		DirNorthWest: {DirWest, DirNorthEast},
		DirNorthEast: {DirNorthWest, DirEast},
		DirWest:      {DirSouthWest, DirNorthWest},
		DirEast:      {DirNorthEast, DirSouthEast},
		DirSouthEast: {DirEast, DirSouthWest},
		DirSouthWest: {DirSouthEast, DirWest},
	}

	// Directions enumerates all directions in canonical order.
	Directions = [NumNeighbors]Direction{DirNorthWest, DirNorthEast, DirWest, DirEast, DirSouthEast, DirSouthWest}
)

// String returns the compass name of the direction.
func (d Direction) String() string {
	if int(d) >= NumNeighbors {
		return fmt.Sprintf("Direction(%d)", d)
	}
	return directionNames[d]
}

// Offset returns the relative position one step in direction d.
func (d Direction) Offset() Pos {
	return directionOffsets[d]
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return oppositeDir[d]
}

// Flanks returns the two directions whose neighbors are shared by a position and its
// neighbor in direction d: the two cells on each side of the edge crossed when stepping in d.
func (d Direction) Flanks() (left, right Direction) {
	return flankDirs[d][0], flankDirs[d][1]
}

// Q coordinate of the position.
func (pos Pos) Q() int { return pos[0] }

// R coordinate of the position.
func (pos Pos) R() int { return pos[1] }

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// Add returns the neighbor of pos in the given direction.
func (pos Pos) Add(d Direction) Pos {
	off := directionOffsets[d]
	return Pos{pos[0] + off[0], pos[1] + off[1]}
}

// Neighbors returns the 6 neighbor positions, indexed by Direction.
func (pos Pos) Neighbors() (neighbors [NumNeighbors]Pos) {
	for ii, off := range directionOffsets {
		neighbors[ii] = Pos{pos[0] + off[0], pos[1] + off[1]}
	}
	return
}

// NeighborsIter iterates over the directions and the 6 neighbor positions of pos.
func (pos Pos) NeighborsIter() iter.Seq2[Direction, Pos] {
	return func(yield func(Direction, Pos) bool) {
		for _, d := range Directions {
			if !yield(d, pos.Add(d)) {
				return
			}
		}
	}
}

// DirectionTo returns the direction from pos to its neighbor pos2. It returns false if they
// are not neighbors.
func (pos Pos) DirectionTo(pos2 Pos) (Direction, bool) {
	delta := Pos{pos2[0] - pos[0], pos2[1] - pos[1]}
	for ii, off := range directionOffsets {
		if off == delta {
			return Direction(ii), true
		}
	}
	return 0, false
}

// IsNeighbor returns whether pos2 is adjacent to pos.
func (pos Pos) IsNeighbor(pos2 Pos) bool {
	_, ok := pos.DirectionTo(pos2)
	return ok
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Distance returns the hex distance (number of steps) between two positions.
func (pos Pos) Distance(pos2 Pos) int {
	dq := pos[0] - pos2[0]
	dr := pos[1] - pos2[1]
	return max(absInt(dq), absInt(dr), absInt(dq+dr))
}

// FromDisplayPos converts a "display coordinate" position to the state coordinate.
// Display coordinates keep columns vertical on screen, which is friendlier for humans.
func (pos Pos) FromDisplayPos() Pos {
	return Pos{pos[0], pos[1] - pos[0]>>1}
}

// ToDisplayPos converts a state coordinate to a "display coordinate".
func (pos Pos) ToDisplayPos() Pos {
	return Pos{pos[0], pos[1] + pos[0]>>1}
}

// ComparePos orders positions by R first and then Q.
func ComparePos(a, b Pos) int {
	if a[1] != b[1] {
		if a[1] < b[1] {
			return -1
		}
		return 1
	}
	if a[0] != b[0] {
		if a[0] < b[0] {
			return -1
		}
		return 1
	}
	return 0
}

// SortPositions sorts in-place according to r first and then q.
func SortPositions(positions []Pos) {
	slices.SortFunc(positions, ComparePos)
}

// PosStrings converts each position to its string representation.
func PosStrings(poss []Pos) []string {
	strs := make([]string, len(poss))
	for ii, pos := range poss {
		strs[ii] = pos.String()
	}
	return strs
}
