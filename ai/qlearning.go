package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"sperm-survival/game/types"
	"sperm-survival/storage"
)

// StorageKey is where the learned table lives in the local store
const StorageKey = "spermSurvivalAutopilot"

// Action indexes types.Directions
type Action int

const (
	Up Action = iota
	Right
	Down
	Left
)

func (a Action) Direction() types.Direction {
	return types.Directions[a]
}

func actionFor(d types.Direction) (Action, bool) {
	for i, dir := range types.Directions {
		if dir == d {
			return Action(i), true
		}
	}
	return 0, false
}

type QTable map[string][4]float64

// QLearning is a tabular Q-learning agent. It is safe for concurrent use so
// training workers can merge into a shared table.
type QLearning struct {
	QTable       QTable
	LearningRate float64
	Discount     float64
	TotalReward  float64
	GamesPlayed  int

	// Epsilon decays from InitialEpsilon by EpsilonDecay per game, down to
	// MinEpsilon
	Epsilon        float64
	InitialEpsilon float64
	MinEpsilon     float64
	EpsilonDecay   float64

	// clonedAt is GamesPlayed when this agent was cloned; Merge adds only
	// the games played since
	clonedAt int

	rng   types.Rand
	mutex sync.RWMutex
}

func NewQLearning(rng types.Rand) *QLearning {
	return &QLearning{
		QTable:         make(QTable),
		LearningRate:   0.1,
		Discount:       0.9,
		Epsilon:        0.5,
		InitialEpsilon: 0.5,
		MinEpsilon:     0.05,
		EpsilonDecay:   0.995,
		rng:            rng,
	}
}

// EndEpisode counts a finished game and decays exploration
func (q *QLearning) EndEpisode() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.GamesPlayed++
	q.decay()
}

func (q *QLearning) decay() {
	q.Epsilon = max(q.MinEpsilon, q.InitialEpsilon*math.Pow(q.EpsilonDecay, float64(q.GamesPlayed)))
}

// GetAction picks an action for state, exploring with probability Epsilon.
// Actions in blocked are never returned unless all are blocked.
func (q *QLearning) GetAction(state State, blocked ...Action) Action {
	allowed := make([]Action, 0, 4)
	for a := Up; a <= Left; a++ {
		if !contains(blocked, a) {
			allowed = append(allowed, a)
		}
	}
	if len(allowed) == 0 {
		allowed = []Action{Up, Right, Down, Left}
	}

	if q.rng.Float64() < q.Epsilon {
		return allowed[q.rng.Intn(len(allowed))]
	}
	return q.bestAction(state, allowed)
}

func (q *QLearning) bestAction(state State, allowed []Action) Action {
	q.mutex.RLock()
	values := q.QTable[state.Key()]
	q.mutex.RUnlock()

	best := allowed[0]
	bestValue := math.Inf(-1)
	for _, a := range allowed {
		if values[a] > bestValue {
			best, bestValue = a, values[a]
		}
	}
	return best
}

// Update applies one Q-learning step. A terminal transition ignores next.
func (q *QLearning) Update(state State, action Action, reward float64, next State, terminal bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	key := state.Key()
	values := q.QTable[key]

	target := reward
	if !terminal {
		nextValues := q.QTable[next.Key()]
		maxNext := nextValues[0]
		for _, v := range nextValues[1:] {
			maxNext = max(maxNext, v)
		}
		target += q.Discount * maxNext
	}

	values[action] += q.LearningRate * (target - values[action])
	q.QTable[key] = values
	q.TotalReward += reward
}

// Merge folds other into q, averaging states both tables know
func (q *QLearning) Merge(other *QLearning) {
	other.mutex.RLock()
	defer other.mutex.RUnlock()
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for key, values := range other.QTable {
		current, exists := q.QTable[key]
		if !exists {
			q.QTable[key] = values
			continue
		}
		for a := range current {
			current[a] = (current[a] + values[a]) / 2
		}
		q.QTable[key] = current
	}
	q.GamesPlayed += other.GamesPlayed - other.clonedAt
	q.decay()
}

// Clone copies the table and the exploration schedule into a fresh agent
// drawing from rng
func (q *QLearning) Clone(rng types.Rand) *QLearning {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	c := NewQLearning(rng)
	c.LearningRate, c.Discount = q.LearningRate, q.Discount
	c.GamesPlayed, c.clonedAt = q.GamesPlayed, q.GamesPlayed
	c.Epsilon, c.InitialEpsilon, c.MinEpsilon, c.EpsilonDecay = q.Epsilon, q.InitialEpsilon, q.MinEpsilon, q.EpsilonDecay
	for key, values := range q.QTable {
		c.QTable[key] = values
	}
	return c
}

func (q *QLearning) States() int {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return len(q.QTable)
}

type savedTable struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Epsilon     float64 `json:"epsilon"`
	Table       QTable  `json:"table"`
}

// Save writes the table to the local store
func (q *QLearning) Save(kv storage.KV) error {
	q.mutex.RLock()
	data, err := json.Marshal(savedTable{GamesPlayed: q.GamesPlayed, Epsilon: q.Epsilon, Table: q.QTable})
	q.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal q-table: %w", err)
	}
	if err := kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save q-table: %w", err)
	}
	return nil
}

// Load replaces the table with the stored one. A missing table is not an error.
func (q *QLearning) Load(kv storage.KV) error {
	raw, ok, err := kv.Get(StorageKey)
	if err != nil || !ok {
		return err
	}

	var saved savedTable
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return fmt.Errorf("bad %s value: %w", StorageKey, err)
	}

	q.mutex.Lock()
	defer q.mutex.Unlock()
	if saved.Table != nil {
		q.QTable = saved.Table
	}
	q.GamesPlayed = saved.GamesPlayed
	if saved.Epsilon > 0 {
		q.Epsilon = saved.Epsilon
	}
	return nil
}

func contains(actions []Action, a Action) bool {
	for _, b := range actions {
		if a == b {
			return true
		}
	}
	return false
}
