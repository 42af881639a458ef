package manager

import (
	"reflect"
	"testing"

	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

func TestStartChainOneTick(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)
	snake := entity.NewSnake(types.Point{X: 7, Y: 7}, types.Right, types.InitialLength, grid)

	want := []types.Point{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}
	if !reflect.DeepEqual(snake.Body, want) {
		t.Fatalf("spawn body = %v, want %v", snake.Body, want)
	}

	res := cm.HandleMovement(snake)
	want = []types.Point{{X: 8, Y: 7}, {X: 7, Y: 7}, {X: 6, Y: 7}}
	if !reflect.DeepEqual(snake.Body, want) {
		t.Fatalf("after tick body = %v, want %v", snake.Body, want)
	}
	if res.Collision != NoCollision || res.Grew {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestHeadWraps(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)

	tests := []struct {
		head types.Point
		dir  types.Direction
		want types.Point
	}{
		{types.Point{X: 14, Y: 7}, types.Right, types.Point{X: 0, Y: 7}},
		{types.Point{X: 0, Y: 7}, types.Left, types.Point{X: 14, Y: 7}},
		{types.Point{X: 3, Y: 0}, types.Up, types.Point{X: 3, Y: 14}},
		{types.Point{X: 3, Y: 14}, types.Down, types.Point{X: 3, Y: 0}},
	}

	for _, tt := range tests {
		snake := entity.NewSnake(tt.head, tt.dir, types.InitialLength, grid)
		for _, p := range snake.Body {
			if !grid.Contains(p) {
				t.Fatalf("spawn segment %v off grid", p)
			}
		}
		res := cm.HandleMovement(snake)
		if res.Head != tt.want {
			t.Errorf("%v moving %s: head %v, want %v", tt.head, tt.dir, res.Head, tt.want)
		}
	}
}

func TestHeadStaysOnGrid(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)
	snake := entity.NewSnake(types.Point{X: 7, Y: 7}, types.Right, types.InitialLength, grid)
	rng := seeded(99)

	for i := 0; i < 1000; i++ {
		snake.SetDirection(types.Directions[rng.Intn(len(types.Directions))])
		if i%7 == 0 {
			snake.Grow(1)
		}
		head := cm.HandleMovement(snake).Head
		if !grid.Contains(head) {
			t.Fatalf("tick %d: head %v off grid", i, head)
		}
	}
}

func TestSelfCollisionPassesThrough(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)

	snake := entity.NewSnake(types.Point{X: 5, Y: 5}, types.Up, 5, grid)
	snake.Body = []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 6, Y: 4}}
	snake.SetDirection(types.Right)

	res := cm.HandleMovement(snake)
	if res.Collision != SelfCollision {
		t.Fatalf("collision = %v, want SelfCollision", res.Collision)
	}
	if snake.Head() != (types.Point{X: 6, Y: 5}) || snake.Len() != 5 {
		t.Fatalf("move was not applied: %v", snake.Body)
	}
}

func TestMovingIntoTailIsNotCollision(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)

	snake := entity.NewSnake(types.Point{X: 5, Y: 5}, types.Up, 4, grid)
	snake.Body = []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}}
	snake.SetDirection(types.Right)

	if res := cm.HandleMovement(snake); res.Collision != NoCollision {
		t.Fatalf("moving into the vacating tail reported %v", res.Collision)
	}
}

func TestGrowthKeepsTail(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)
	snake := entity.NewSnake(types.Point{X: 7, Y: 7}, types.Right, types.InitialLength, grid)

	snake.Grow(1)
	res := cm.HandleMovement(snake)
	if !res.Grew || snake.Len() != 4 {
		t.Fatalf("len = %d grew=%v, want 4 true", snake.Len(), res.Grew)
	}
	if snake.Tail() != (types.Point{X: 5, Y: 7}) {
		t.Fatalf("tail = %v, want (5,7)", snake.Tail())
	}
	cm.HandleMovement(snake)
	if snake.Len() != 4 {
		t.Fatalf("growth applied twice: len %d", snake.Len())
	}
}

func TestReverseIsRejected(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	snake := entity.NewSnake(types.Point{X: 7, Y: 7}, types.Right, types.InitialLength, grid)

	if snake.SetDirection(types.Left) {
		t.Fatal("reversal accepted")
	}
	// Up then Left within one tick must not fold the head back onto the neck
	if !snake.SetDirection(types.Up) {
		t.Fatal("turn rejected")
	}
	if snake.SetDirection(types.Left) {
		t.Fatal("reversal against the last applied move accepted")
	}
	if snake.Heading() != types.Up {
		t.Fatalf("heading = %s, want up", snake.Heading())
	}
}

func TestValidateSpawnPosition(t *testing.T) {
	grid := types.NewSquareGrid(types.GridSize)
	cm := NewCollisionManager(grid)
	body := []types.Point{{X: 1, Y: 1}}
	items := []entity.Item{{Pos: types.Point{X: 2, Y: 2}}}

	tests := []struct {
		pos  types.Point
		want bool
	}{
		{types.Point{X: 0, Y: 0}, true},
		{types.Point{X: 1, Y: 1}, false},
		{types.Point{X: 2, Y: 2}, false},
		{types.Point{X: -1, Y: 0}, false},
		{types.Point{X: 0, Y: types.GridSize}, false},
	}
	for _, tt := range tests {
		if got := cm.ValidateSpawnPosition(tt.pos, body, items); got != tt.want {
			t.Errorf("ValidateSpawnPosition(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
