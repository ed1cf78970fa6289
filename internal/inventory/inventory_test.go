package inventory

import (
	"slices"
	"testing"

	"github.com/janpfeifer/must"
	. "github.com/janpfeifer/hiveboard/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(registry *Registry, color Color) (names []string) {
	for p := range registry.ByColor(color) {
		names = append(names, p.Name)
	}
	return
}

func TestStandard(t *testing.T) {
	registry := Standard()
	require.Equal(t, 22, registry.Len())
	assert.Equal(t, []string{
		"wA1", "wA2", "wA3", "wB1", "wB2", "wG1", "wG2", "wG3", "wQ", "wS1", "wS2",
	}, names(registry, ColorWhite))
	assert.Equal(t, []string{
		"bA1", "bA2", "bA3", "bB1", "bB2", "bG1", "bG2", "bG3", "bQ", "bS1", "bS2",
	}, names(registry, ColorBlack))

	for _, color := range Colors {
		queen, found := registry.Queen(color)
		require.True(t, found)
		assert.Equal(t, QUEEN, queen.Type)
		assert.Equal(t, color, queen.Color)
	}
	p, found := registry.Lookup("bG2")
	require.True(t, found)
	assert.Equal(t, GRASSHOPPER, p.Type)
	assert.Equal(t, ColorBlack, p.Color)
}

func TestLoad(t *testing.T) {
	standard := must.M1(Load("testdata/standard.yaml"))
	assert.Equal(t, slices.Collect(Standard().All()), slices.Collect(standard.All()))

	custom := must.M1(Load("testdata/custom.yaml"))
	assert.Equal(t, []string{"wLadyQueen", "wA1", "wA2", "wB"}, names(custom, ColorWhite))
	assert.Equal(t, []string{"bLadyQueen", "bA1", "bA2", "bB"}, names(custom, ColorBlack))
	queen, found := custom.Queen(ColorBlack)
	require.True(t, found)
	assert.Equal(t, "bLadyQueen", queen.Name)

	_, err := Load("testdata/missing.yaml")
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, txt := range []string{
		"",                        // No pieces.
		"counts: {mosquito: 1}",   // Unknown type.
		"counts: {ant: -1}",       // Negative count.
		"counts: {ant: 1, A: 2}",  // Repeated type.
		"colors: [white]",         // Unknown field.
		"pieces: [{name: x, type: ant, color: red}]",
		"pieces: [{name: x, type: ant}]",
		"pieces: [{name: x, type: wasp, color: white}]",
		"pieces: [{name: x, type: ant, color: white}, {name: x, type: ant, color: black}]",
		"pieces: [{name: wA1, type: ant, color: white}]\ncounts: {ant: 2}", // Name clash.
		"pieces: [",
	} {
		_, err := Parse([]byte(txt))
		assert.Errorf(t, err, "parsing %q should have failed", txt)
	}
}
