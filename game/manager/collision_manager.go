package manager

import (
	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

// CollisionType represents the type of collision a move produced
type CollisionType int

const (
	NoCollision CollisionType = iota
	SelfCollision
)

// MoveResult describes one movement tick
type MoveResult struct {
	Head      types.Point
	Collision CollisionType
	Grew      bool
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// HandleMovement advances the snake one cell with wrap-around. Running into
// its own body is reported but never stops the move.
func (cm *CollisionManager) HandleMovement(snake *entity.Snake) MoveResult {
	next := snake.NextHead(cm.grid)
	collision := NoCollision
	if cm.isSelfCollision(next, snake.Body) {
		collision = SelfCollision
	}

	grew := snake.PendingGrowth() > 0
	head := snake.Move(cm.grid)

	return MoveResult{Head: head, Collision: collision, Grew: grew}
}

// isSelfCollision checks pos against the body before the move. The old head
// (which becomes the neck) and the tail (which moves away) are skipped.
func (cm *CollisionManager) isSelfCollision(pos types.Point, body []types.Point) bool {
	for i := 1; i < len(body)-1; i++ {
		if pos == body[i] {
			return true
		}
	}
	return false
}

// ValidateSpawnPosition checks if a position is free for a new item
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point, items ...[]entity.Item) bool {
	if !cm.grid.Contains(pos) {
		return false
	}

	for _, part := range body {
		if pos == part {
			return false
		}
	}

	for _, list := range items {
		for _, item := range list {
			if item.Pos == pos {
				return false
			}
		}
	}

	return true
}

// CheckFoodCollisions returns the index of the item under pos, or -1
func (cm *CollisionManager) CheckFoodCollisions(pos types.Point, items []entity.Item) int {
	for i, item := range items {
		if item.Pos == pos {
			return i
		}
	}
	return -1
}
