package game

import (
	"time"
)

// Group partitions scheduled tasks so they can be paused or torn down together
type Group int

const (
	GroupGameplay Group = iota
	GroupUI
)

func (g Group) String() string {
	switch g {
	case GroupGameplay:
		return "gameplay"
	case GroupUI:
		return "ui"
	default:
		return "unknown"
	}
}

// Task is a handle to a scheduled callback
type Task struct {
	name      string
	interval  time.Duration
	elapsed   time.Duration
	group     Group
	repeat    bool
	cancelled bool
	fn        func()
}

func (t *Task) Name() string { return t.name }

// Cancel stops the task. A cancelled task never fires again, even if it was
// due later in the same Advance call.
func (t *Task) Cancel() {
	t.cancelled = true
}

func (t *Task) Cancelled() bool {
	return t.cancelled
}

// Scheduler runs every periodic activity of a game on virtual time. It is
// driven by the frame loop through Advance and is not safe for concurrent
// use.
type Scheduler struct {
	tasks  []*Task
	paused map[Group]bool
	now    time.Duration
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		paused: make(map[Group]bool),
	}
}

// Every runs fn each interval while the group is active
func (s *Scheduler) Every(name string, interval time.Duration, group Group, fn func()) *Task {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.add(&Task{name: name, interval: interval, group: group, repeat: true, fn: fn})
}

// After runs fn once, delay from now
func (s *Scheduler) After(name string, delay time.Duration, group Group, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	return s.add(&Task{name: name, interval: delay, group: group, fn: fn})
}

func (s *Scheduler) add(t *Task) *Task {
	s.tasks = append(s.tasks, t)
	return t
}

// PauseGroup freezes the group's tasks. Their progress toward the next run
// is kept.
func (s *Scheduler) PauseGroup(g Group) {
	s.paused[g] = true
}

func (s *Scheduler) ResumeGroup(g Group) {
	delete(s.paused, g)
}

func (s *Scheduler) Paused(g Group) bool {
	return s.paused[g]
}

// CancelGroup cancels every task of the group and clears its pause flag
func (s *Scheduler) CancelGroup(g Group) {
	for _, t := range s.tasks {
		if t.group == g {
			t.cancelled = true
		}
	}
	delete(s.paused, g)
	s.compact()
}

// Now returns the total virtual time advanced so far
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of live tasks
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward and fires every task that falls due,
// earliest first. Tasks due at the same instant fire in registration order.
func (s *Scheduler) Advance(elapsed time.Duration) {
	if elapsed < 0 {
		return
	}
	remaining := elapsed

	for {
		next, wait := s.nextDue()
		if next == nil || wait > remaining {
			s.step(remaining)
			break
		}

		s.step(wait)
		remaining -= wait

		next.elapsed = 0
		if !next.repeat {
			next.cancelled = true
		}
		next.fn()
	}

	s.compact()
}

func (s *Scheduler) nextDue() (*Task, time.Duration) {
	var next *Task
	var wait time.Duration
	for _, t := range s.tasks {
		if !s.active(t) {
			continue
		}
		w := t.interval - t.elapsed
		if w < 0 {
			w = 0
		}
		if next == nil || w < wait {
			next, wait = t, w
		}
	}
	return next, wait
}

func (s *Scheduler) step(d time.Duration) {
	if d <= 0 {
		return
	}
	s.now += d
	for _, t := range s.tasks {
		if s.active(t) {
			t.elapsed += d
		}
	}
}

func (s *Scheduler) active(t *Task) bool {
	return !t.cancelled && !s.paused[t.group]
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
