package ai

import (
	"fmt"

	"sperm-survival/game"
	"sperm-survival/game/types"
)

// hazardRange is how close bad food must be before the agent notices it
const hazardRange = 3

// State is the discretised view the agent learns over
type State struct {
	TargetDir [2]int  // sign of the shortest wrapped offset to the nearest good item
	HazardDir [2]int  // same for the nearest bad food within hazardRange
	Dangers   [4]bool // indexed like types.Directions
}

// Key returns the Q-table key of the state
func (s State) Key() string {
	return fmt.Sprintf("%d,%d|%d,%d|%d%d%d%d",
		s.TargetDir[0], s.TargetDir[1],
		s.HazardDir[0], s.HazardDir[1],
		boolToInt(s.Dangers[0]), boolToInt(s.Dangers[1]),
		boolToInt(s.Dangers[2]), boolToInt(s.Dangers[3]))
}

// Sense builds the agent state from an observation
func Sense(obs game.Observation) State {
	var s State
	if len(obs.Body) == 0 {
		return s
	}
	head := obs.Head()

	bestGood, bestBad := -1, -1
	goodDist, badDist := 0, 0
	for i, it := range obs.Items {
		d := types.ManhattanDistance(head, it.Pos, obs.Grid)
		if it.Kind.IsBad() {
			if d <= hazardRange && (bestBad < 0 || d < badDist) {
				bestBad, badDist = i, d
			}
			continue
		}
		if bestGood < 0 || d < goodDist {
			bestGood, goodDist = i, d
		}
	}
	if bestGood >= 0 {
		s.TargetDir = offset(head, obs.Items[bestGood].Pos, obs.Grid)
	}
	if bestBad >= 0 {
		s.HazardDir = offset(head, obs.Items[bestBad].Pos, obs.Grid)
	}

	for i, dir := range types.Directions {
		next := obs.Grid.Wrap(head.Add(dir.ToPoint()))
		s.Dangers[i] = isDanger(next, obs)
	}
	return s
}

// isDanger reports whether stepping on p costs health: a body segment that
// will still be there after the move, or bad food
func isDanger(p types.Point, obs game.Observation) bool {
	for i := 1; i < len(obs.Body)-1; i++ {
		if obs.Body[i] == p {
			return true
		}
	}
	for _, it := range obs.Items {
		if it.Pos == p && it.Kind.IsBad() {
			return true
		}
	}
	return false
}

// offset returns the sign of the shortest wrapped step from a to b on each axis
func offset(a, b types.Point, g types.Grid) [2]int {
	return [2]int{
		sign(wrappedDelta(a.X, b.X, g.Width)),
		sign(wrappedDelta(a.Y, b.Y, g.Height)),
	}
}

func wrappedDelta(a, b, size int) int {
	d := b - a
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

func sign(x int) int {
	if x > 0 {
		return 1
	} else if x < 0 {
		return -1
	}
	return 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nearestGoodDistance is used for reward shaping
func nearestGoodDistance(obs game.Observation) int {
	if len(obs.Body) == 0 {
		return 0
	}
	best := -1
	for _, it := range obs.Items {
		if it.Kind.IsBad() {
			continue
		}
		d := types.ManhattanDistance(obs.Head(), it.Pos, obs.Grid)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}
