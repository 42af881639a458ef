package game

import (
	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

// Cue names a sound effect
type Cue int

const (
	CueGoodFood Cue = iota
	CueBadFood
	CueEgg
	CuePenalty
	CueGameOver
	CueCoins
	CueDenied
)

// SoundPlayer plays short effects. Play must not block the frame loop.
type SoundPlayer interface {
	Play(cue Cue)
}

type nopSound struct{}

func (nopSound) Play(Cue) {}

// Observation is what a Controller sees before each move
type Observation struct {
	Grid    types.Grid
	Body    []types.Point
	Heading types.Direction
	Items   []entity.Item
	Score   int
	Health  int
}

// Head returns the first body segment
func (o Observation) Head() types.Point {
	if len(o.Body) == 0 {
		return types.Point{}
	}
	return o.Body[0]
}

// Controller steers the snake in place of keyboard input
type Controller interface {
	// Steer is called before every movement tick
	Steer(obs Observation) types.Direction
	// Finish is called once when the session ends
	Finish(obs Observation)
	// Reset drops a session the controller stopped steering before its end
	Reset()
}
