package state_test

import (
	"testing"

	"github.com/janpfeifer/hiveboard/internal/inventory"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSharedBoard(t *testing.T) {
	registry := inventory.Standard()
	lookup := func(name string) PieceID {
		p, found := registry.Lookup(name)
		require.True(t, found)
		return p.ID
	}
	wQ, bQ := lookup("wQ"), lookup("bQ")
	shared := NewSharedBoard(NewBoard(registry, DefaultConfig()))
	require.NoError(t, shared.Place(wQ, Pos{0, 0}, true))
	require.NoError(t, shared.Place(bQ, Pos{0, 1}, true))

	// One writer walks the queens east, while readers check the hive.
	const numSteps = 50
	var g errgroup.Group
	g.Go(func() error {
		for ii := range numSteps {
			if err := shared.Move(wQ, Pos{ii + 1, 0}); err != nil {
				return err
			}
			if err := shared.Move(bQ, Pos{ii + 1, 1}); err != nil {
				return err
			}
		}
		return nil
	})
	for range 4 {
		g.Go(func() error {
			for range numSteps {
				if !shared.IsOneHive() {
					t.Error("shared board is not one hive")
				}
				snapshot := shared.Snapshot()
				if snapshot.NumPiecesOnBoard() != 2 {
					t.Errorf("snapshot has %d pieces", snapshot.NumPiecesOnBoard())
				}
				shared.View(func(b *Board) {
					_ = b.AllLegalMoves(ColorWhite)
				})
				_ = shared.LegalMoves(bQ)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	shared.View(func(b *Board) {
		pos, _ := b.Location(wQ)
		assert.Equal(t, Pos{numSteps, 0}, pos)
	})
}
