package state

import (
	"github.com/janpfeifer/hiveboard/internal/parameters"
	"github.com/pkg/errors"
)

// Config holds the rule options of the engine.
type Config struct {
	// ExemptPlacements is the number of placements at the start of the match that may touch
	// pieces of the opponent. See Board.ColorRuleExempt.
	ExemptPlacements int

	// RequireQueenToMove forbids moving any piece of a color until its queen is on the board.
	RequireQueenToMove bool
}

// DefaultConfig exempts the first placement of each player from the color rule, and leaves
// the queen requirement to the caller.
func DefaultConfig() Config {
	return Config{ExemptPlacements: 2}
}

// ParseConfig parses a configuration string like "exempt_placements=1,require_queen".
// Keys not given keep their DefaultConfig values, and unknown keys are an error.
func ParseConfig(config string) (Config, error) {
	cfg := DefaultConfig()
	params := parameters.NewFromConfigString(config)
	var err error
	cfg.ExemptPlacements, err = parameters.PopParamOr(params, "exempt_placements", cfg.ExemptPlacements)
	if err != nil {
		return cfg, err
	}
	if cfg.ExemptPlacements < 0 {
		return cfg, errors.Errorf("exempt_placements=%d must be >= 0", cfg.ExemptPlacements)
	}
	cfg.RequireQueenToMove, err = parameters.PopParamOr(params, "require_queen", cfg.RequireQueenToMove)
	if err != nil {
		return cfg, err
	}
	if err = parameters.CheckAllUsed(params); err != nil {
		return cfg, errors.WithMessagef(err, "invalid engine configuration %q", config)
	}
	return cfg, nil
}
