package entity

import (
	"sperm-survival/game/types"
)

// Snake is the player's segment chain. Body is ordered head first.
type Snake struct {
	Body      []types.Point
	Direction types.Direction

	// next is the direction requested for the coming move. Direction holds
	// the one the last move actually used, so reversals are judged against it.
	next   types.Direction
	growth int
}

// NewSnake lays out a chain of the given length with its head at head,
// trailing away from dir
func NewSnake(head types.Point, dir types.Direction, length int, grid types.Grid) *Snake {
	if length < 1 {
		length = 1
	}
	back := dir.Opposite().ToPoint()
	body := make([]types.Point, length)
	p := head
	for i := range body {
		body[i] = grid.Wrap(p)
		p = p.Add(back)
	}
	return &Snake{
		Body:      body,
		Direction: dir,
		next:      dir,
	}
}

// Head returns the first segment
func (s *Snake) Head() types.Point {
	return s.Body[0]
}

// Tail returns the last segment
func (s *Snake) Tail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Heading returns the direction the next move will use
func (s *Snake) Heading() types.Direction {
	return s.next
}

// SetDirection queues a turn. A turn straight back onto the neck is
// rejected and reported as false.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if dir == types.None || dir == s.Direction.Opposite() {
		return false
	}
	s.next = dir
	return true
}

// Grow schedules n extra segments; each is added by keeping the tail on a move
func (s *Snake) Grow(n int) {
	if n > 0 {
		s.growth += n
	}
}

// PendingGrowth returns how many moves will still keep their tail
func (s *Snake) PendingGrowth() int {
	return s.growth
}

// NextHead returns where the head lands on the next move
func (s *Snake) NextHead(grid types.Grid) types.Point {
	return grid.Wrap(s.Head().Add(s.next.ToPoint()))
}

// Move advances the chain one cell and returns the new head
func (s *Snake) Move(grid types.Grid) types.Point {
	newHead := s.NextHead(grid)
	s.Direction = s.next

	keep := len(s.Body) - 1
	if s.growth > 0 {
		keep = len(s.Body)
		s.growth--
	}

	body := make([]types.Point, 0, keep+1)
	body = append(body, newHead)
	body = append(body, s.Body[:keep]...)
	s.Body = body
	return newHead
}

// Occupies reports whether any segment sits on p
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

// Segments returns a copy of the body
func (s *Snake) Segments() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}
