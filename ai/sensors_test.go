package ai

import (
	"testing"

	"sperm-survival/game"
	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

func observation(body []types.Point, heading types.Direction, items ...entity.Item) game.Observation {
	return game.Observation{
		Grid:    types.NewSquareGrid(types.GridSize),
		Body:    body,
		Heading: heading,
		Items:   items,
		Health:  types.MaxHealth,
	}
}

func TestSenseTargetUsesShortestWrap(t *testing.T) {
	tests := []struct {
		name string
		head types.Point
		food types.Point
		want [2]int
	}{
		{"left", types.Point{X: 7, Y: 7}, types.Point{X: 1, Y: 7}, [2]int{-1, 0}},
		{"wrap left", types.Point{X: 1, Y: 7}, types.Point{X: 13, Y: 7}, [2]int{-1, 0}},
		{"wrap down", types.Point{X: 4, Y: 13}, types.Point{X: 5, Y: 1}, [2]int{1, 1}},
		{"same column", types.Point{X: 4, Y: 4}, types.Point{X: 4, Y: 2}, [2]int{0, -1}},
	}

	for _, tt := range tests {
		obs := observation([]types.Point{tt.head}, types.Right, entity.Item{Pos: tt.food, Kind: types.Good1})
		if got := Sense(obs).TargetDir; got != tt.want {
			t.Errorf("%s: target %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSenseIgnoresDistantHazards(t *testing.T) {
	head := types.Point{X: 7, Y: 7}
	far := observation([]types.Point{head}, types.Right, entity.Item{Pos: types.Point{X: 7, Y: 1}, Kind: types.Bad2})
	if got := Sense(far).HazardDir; got != [2]int{} {
		t.Errorf("far hazard sensed as %v", got)
	}

	near := observation([]types.Point{head}, types.Right, entity.Item{Pos: types.Point{X: 9, Y: 7}, Kind: types.Bad2})
	if got := Sense(near).HazardDir; got != [2]int{1, 0} {
		t.Errorf("near hazard = %v, want [1 0]", got)
	}
}

func TestSenseDangers(t *testing.T) {
	body := []types.Point{{X: 7, Y: 7}, {X: 7, Y: 8}, {X: 6, Y: 8}, {X: 6, Y: 7}, {X: 5, Y: 7}}
	obs := observation(body, types.Up, entity.Item{Pos: types.Point{X: 8, Y: 7}, Kind: types.Bad1})

	// up is free, right holds bad food, down and left are body
	want := [4]bool{false, true, true, true}
	if got := Sense(obs).Dangers; got != want {
		t.Errorf("dangers = %v, want %v", got, want)
	}
}

func TestSenseTailIsSafe(t *testing.T) {
	body := []types.Point{{X: 7, Y: 7}, {X: 7, Y: 8}, {X: 6, Y: 8}, {X: 6, Y: 7}}
	obs := observation(body, types.Up)
	if Sense(obs).Dangers[3] {
		t.Error("tail cell flagged as danger")
	}
}

func TestStateKeyDistinguishesStates(t *testing.T) {
	a := State{TargetDir: [2]int{1, 0}}
	b := State{TargetDir: [2]int{0, 1}}
	c := State{TargetDir: [2]int{1, 0}, Dangers: [4]bool{true}}
	if a.Key() == b.Key() || a.Key() == c.Key() {
		t.Errorf("keys collide: %q %q %q", a.Key(), b.Key(), c.Key())
	}
	if a.Key() != (State{TargetDir: [2]int{1, 0}}).Key() {
		t.Error("equal states give different keys")
	}
}

func TestNearestGoodDistance(t *testing.T) {
	obs := observation([]types.Point{{X: 0, Y: 0}}, types.Right,
		entity.Item{Pos: types.Point{X: 1, Y: 0}, Kind: types.Bad1},
		entity.Item{Pos: types.Point{X: 14, Y: 14}, Kind: types.Good2},
		entity.Item{Pos: types.Point{X: 5, Y: 5}, Kind: types.EggGold},
	)
	if got := nearestGoodDistance(obs); got != 2 {
		t.Errorf("distance = %d, want 2", got)
	}

	none := observation([]types.Point{{X: 0, Y: 0}}, types.Right)
	if got := nearestGoodDistance(none); got != -1 {
		t.Errorf("no food distance = %d, want -1", got)
	}
}
