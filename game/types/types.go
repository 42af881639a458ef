package types

import "time"

// Point is a cell on the board
type Point struct {
	X, Y int
}

// Add returns the point moved by delta
func (p Point) Add(delta Point) Point {
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// NewSquareGrid returns a grid with equal sides
func NewSquareGrid(side int) Grid {
	return Grid{Width: side, Height: side}
}

// Contains reports whether p lies inside the grid
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Wrap folds p back onto the grid, treating the edges as connected
func (g Grid) Wrap(p Point) Point {
	return Point{X: wrap(p.X, g.Width), Y: wrap(p.Y, g.Height)}
}

// Cells returns the number of cells on the grid
func (g Grid) Cells() int {
	return g.Width * g.Height
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

// Game constants
const (
	GridSize = 15

	MaxHealth            = 100
	SelfCollisionPenalty = 1
	InitialLength        = 3

	MaxPlacementAttempts = 50
	InitialSpawnCount    = 2
	RefillSpawnCount     = 3

	RareEggChance = 0.05
	PayoutDivisor = 10

	CollisionInterval  = 50 * time.Millisecond
	AnimationInterval  = 200 * time.Millisecond
	ReplenishInterval  = 15 * time.Second
	RareEggInterval    = 10 * time.Second
	MessageDuration    = 2 * time.Second
	InputDebounce      = 80 * time.Millisecond
	AnimationFrames    = 4
	DefaultCharacterID = "neo"
)

// Difficulty names a movement speed preset
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// TickIntervals maps every difficulty to its movement cadence.
// Only FixedDifficulty is used by the game loop.
var TickIntervals = map[Difficulty]time.Duration{
	Easy:   200 * time.Millisecond,
	Medium: 150 * time.Millisecond,
	Hard:   100 * time.Millisecond,
}

const FixedDifficulty = Medium

// ManhattanDistance returns the shortest grid distance between two points,
// accounting for wrap-around on both axes
func ManhattanDistance(p1, p2 Point, g Grid) int {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	if dx > g.Width/2 {
		dx = g.Width - dx
	}
	if dy > g.Height/2 {
		dy = g.Height - dy
	}

	return dx + dy
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Rand is the subset of *rand.Rand the game draws from
type Rand interface {
	Intn(n int) int
	Float64() float64
}
