package game

import (
	"fmt"
	"time"

	"sperm-survival/game/types"
)

// Config holds the tunables of a game. DefaultConfig returns the shipped values.
type Config struct {
	GridSize   int
	Difficulty types.Difficulty

	CollisionInterval time.Duration
	AnimationInterval time.Duration
	ReplenishInterval time.Duration
	RareEggInterval   time.Duration
	MessageDuration   time.Duration
	InputDebounce     time.Duration

	// MaxFrameStep caps how much virtual time a single Update may advance
	MaxFrameStep time.Duration

	// Seed feeds the random source; 0 picks one from the clock
	Seed uint64

	Identity *types.Identity
}

func DefaultConfig() Config {
	return Config{
		GridSize:          types.GridSize,
		Difficulty:        types.FixedDifficulty,
		CollisionInterval: types.CollisionInterval,
		AnimationInterval: types.AnimationInterval,
		ReplenishInterval: types.ReplenishInterval,
		RareEggInterval:   types.RareEggInterval,
		MessageDuration:   types.MessageDuration,
		InputDebounce:     types.InputDebounce,
		MaxFrameStep:      250 * time.Millisecond,
	}
}

// TickInterval returns the movement cadence. The difficulty is recorded but
// movement always runs at the fixed difficulty.
func (c Config) TickInterval() time.Duration {
	return types.TickIntervals[types.FixedDifficulty]
}

// Validate reports the first unusable value
func (c Config) Validate() error {
	if c.GridSize < 5 {
		return fmt.Errorf("grid size %d too small", c.GridSize)
	}
	if _, ok := types.TickIntervals[c.Difficulty]; !ok {
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	if c.CollisionInterval <= 0 || c.AnimationInterval <= 0 ||
		c.ReplenishInterval <= 0 || c.RareEggInterval <= 0 {
		return fmt.Errorf("intervals must be positive")
	}
	return nil
}
