package entity

import (
	"time"

	"github.com/google/uuid"

	"sperm-survival/game/types"
)

// Session holds the per-run score and health bookkeeping
type Session struct {
	ID        uuid.UUID
	Character string
	Score     int
	Health    int
	StartTime time.Time
	EndTime   time.Time
}

func NewSession(character string, start time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Character: character,
		Health:    types.MaxHealth,
		StartTime: start,
	}
}

// AddScore applies delta and keeps the score non-negative.
// It returns the change actually applied.
func (s *Session) AddScore(delta int) int {
	before := s.Score
	s.Score += delta
	if s.Score < 0 {
		s.Score = 0
	}
	return s.Score - before
}

// AddHealth applies delta clamped to [0, MaxHealth] and reports whether
// health is now depleted
func (s *Session) AddHealth(delta int) (applied int, depleted bool) {
	before := s.Health
	s.Health += delta
	if s.Health > types.MaxHealth {
		s.Health = types.MaxHealth
	}
	if s.Health < 0 {
		s.Health = 0
	}
	return s.Health - before, s.Health == 0
}

// Duration returns how long the session ran, or has run so far
func (s *Session) Duration(now time.Time) time.Duration {
	end := s.EndTime
	if end.IsZero() {
		end = now
	}
	return end.Sub(s.StartTime)
}
