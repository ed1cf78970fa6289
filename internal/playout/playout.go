// Package playout plays random placements and moves on boards, checking after every change that
// the board invariants hold. It is used to stress test and profile the rules engine.
package playout

import (
	"context"
	"math/rand/v2"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/janpfeifer/hiveboard/internal/generics"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ErrInvariant is returned (wrapped) when a board invariant is found broken.
var ErrInvariant = errors.New("board invariant broken")

// Stats of one or more playouts.
type Stats struct {
	Playouts, Placements, Moves int

	// Skipped counts the turns where the player had nothing to do.
	Skipped int

	// Destinations is the total number of legal destinations generated.
	Destinations int

	// Finished counts the playouts that ended with a surrounded queen.
	Finished int

	Elapsed time.Duration
}

// Add the counts of s2 to s. Elapsed is not changed.
func (s *Stats) Add(s2 Stats) {
	s.Playouts += s2.Playouts
	s.Placements += s2.Placements
	s.Moves += s2.Moves
	s.Skipped += s2.Skipped
	s.Destinations += s2.Destinations
	s.Finished += s2.Finished
}

// Play alternates colors, starting with white, taking a random action for up to maxActions
// turns or until a queen is surrounded. An action is either a placement (with probability
// placeProb, if the player has pieces left) or a legal move.
//
// The board is changed in place. It returns an error wrapping ErrInvariant if the board is
// found in an invalid state.
func Play(ctx context.Context, b *Board, rng *rand.Rand, maxActions int, placeProb float64) (stats Stats, err error) {
	stats.Playouts = 1
	color := ColorWhite
	for turn := range maxActions {
		if err = ctx.Err(); err != nil {
			return
		}
		allMoves := b.AllLegalMoves(color)
		for _, moves := range allMoves {
			stats.Destinations += len(moves)
		}
		placed := false
		if len(allMoves) == 0 || rng.Float64() < placeProb {
			placed, err = placeRandom(b, rng, color)
			if err != nil {
				return
			}
		}
		switch {
		case placed:
			stats.Placements++
		case len(allMoves) > 0:
			ids := generics.KeysSlice(allMoves)
			slices.Sort(ids)
			id := ids[rng.IntN(len(ids))]
			moves := allMoves[id]
			if err = b.Move(id, moves[rng.IntN(len(moves))]); err != nil {
				err = errors.Wrapf(ErrInvariant, "generated move rejected: %v", err)
				return
			}
			stats.Moves++
		default:
			stats.Skipped++
		}
		if err = Check(b); err != nil {
			err = errors.WithMessagef(err, "turn %d", turn)
			return
		}
		if b.QueenSurrounded(ColorWhite) || b.QueenSurrounded(ColorBlack) {
			stats.Finished++
			return
		}
		color = color.Opponent()
	}
	return
}

// placeRandom places a random piece of the given color, not yet on the board, in a random
// valid position. It returns false if there is no piece left or no valid position.
func placeRandom(b *Board, rng *rand.Rand, color Color) (bool, error) {
	var unplaced []PieceID
	for piece := range b.Registry().ByColor(color) {
		if !b.IsPlaced(piece.ID) {
			unplaced = append(unplaced, piece.ID)
		}
	}
	if len(unplaced) == 0 {
		return false, nil
	}
	id := unplaced[rng.IntN(len(unplaced))]

	candidates := generics.MakeSet[Pos]()
	for pos := range b.OccupiedPositionsIter() {
		candidates.Insert(b.EmptyNeighbours(pos)...)
	}
	if len(candidates) == 0 {
		candidates.Insert(Pos{0, 0})
	}
	positions := generics.KeysSlice(candidates)
	SortPositions(positions)
	rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })
	for _, pos := range positions {
		err := b.Place(id, pos, b.ColorRuleExempt())
		if err == nil {
			return true, nil
		}
		if !IsPlacementError(err) {
			return false, errors.Wrapf(ErrInvariant, "unexpected placement error: %+v", err)
		}
	}
	return false, nil
}

// Check verifies the invariants of the board: the hive is connected, the stacks and the
// location of the pieces agree, and both connectivity checks agree.
func Check(b *Board) error {
	if !b.IsOneHive() {
		return errors.Wrap(ErrInvariant, "hive is not connected")
	}
	numPieces := 0
	for pos := range b.OccupiedPositionsIter() {
		stack := b.StackAt(pos)
		numPieces += stack.Height()
		for _, id := range stack.BottomUp() {
			if loc, found := b.Location(id); !found || loc != pos {
				return errors.Wrapf(ErrInvariant, "%s is in the stack at %s, but its location is %s (found=%v)",
					b.Piece(id), pos, loc, found)
			}
		}
	}
	if numPieces != b.NumPiecesOnBoard() {
		return errors.Wrapf(ErrInvariant, "%d pieces in stacks, %d placed", numPieces, b.NumPiecesOnBoard())
	}
	removable := b.RemovablePositions()
	for pos := range b.OccupiedPositionsIter() {
		if removable.Has(pos) != b.StaysConnectedWithout(pos) {
			return errors.Wrapf(ErrInvariant, "connectivity checks disagree on %s", pos)
		}
	}
	return nil
}

// Runner plays many playouts in parallel.
type Runner struct {
	// NewBoard creates the board for each playout.
	NewBoard func() *Board

	MaxActions  int
	PlaceProb   float64
	Seed        uint64
	Parallelism int

	// OnProgress, if set, is called after each playout with the stats so far.
	// Calls are serialized.
	OnProgress func(stats Stats)
}

// Run numPlayouts playouts, and returns the aggregated stats. The first error cancels the
// remaining playouts.
// Playout i uses the random seed (Seed, i), so results are reproducible.
func (r *Runner) Run(ctx context.Context, numPlayouts int) (Stats, error) {
	var (
		total Stats
		mu    sync.Mutex
	)
	g, ctx := errgroup.WithContext(ctx)
	parallelism := r.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(parallelism)
	start := time.Now()
	for idx := range numPlayouts {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(r.Seed, uint64(idx)))
			stats, err := Play(ctx, r.NewBoard(), rng, r.MaxActions, r.PlaceProb)
			if err != nil {
				return errors.WithMessagef(err, "playout #%d (seed %d)", idx, r.Seed)
			}
			mu.Lock()
			defer mu.Unlock()
			total.Add(stats)
			total.Elapsed = time.Since(start)
			if r.OnProgress != nil {
				r.OnProgress(total)
			}
			return nil
		})
	}
	err := g.Wait()
	total.Elapsed = time.Since(start)
	if err != nil {
		klog.Errorf("Playouts failed: %+v", err)
	}
	return total, err
}
