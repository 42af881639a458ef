package manager

import (
	"fmt"
	"strings"

	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

// Outcome is what a single pickup did
type Outcome struct {
	Kind     types.ItemKind
	Score    int // applied score change after clamping
	Health   int // applied health change after clamping
	Coins    int
	Grew     bool
	Depleted bool
	Message  string
}

// Settlement is what closing a session paid out
type Settlement struct {
	Score        int
	Payout       int
	NewHighScore bool
}

// RewardManager applies item effects to the session, the snake and the wallet
type RewardManager struct {
	economy *EconomyManager
	rng     types.Rand
}

func NewRewardManager(economy *EconomyManager, rng types.Rand) *RewardManager {
	return &RewardManager{
		economy: economy,
		rng:     rng,
	}
}

// Apply consumes one item of the given kind
func (rm *RewardManager) Apply(session *entity.Session, snake *entity.Snake, kind types.ItemKind) Outcome {
	effect := kind.Effect()
	out := Outcome{Kind: kind}

	out.Score = session.AddScore(effect.Points)
	out.Health, out.Depleted = session.AddHealth(effect.Health)

	if kind.Grows() {
		snake.Grow(1)
		out.Grew = true
	}

	if kind.IsEgg() && effect.Coins > 0 {
		rm.economy.AddCurrency(effect.Coins)
		out.Coins = effect.Coins
		out.Message = fmt.Sprintf("%s! +%d coins", strings.ToUpper(kind.Tier()), effect.Coins)
	}

	return out
}

// Penalize applies a self-collision hit
func (rm *RewardManager) Penalize(session *entity.Session) (depleted bool) {
	_, depleted = session.AddHealth(-types.SelfCollisionPenalty)
	return depleted
}

// ReplenishCount returns how many items replace a consumed one
func (rm *RewardManager) ReplenishCount() int {
	if rm.rng.Float64() < 0.5 {
		return 1
	}
	return 2
}

// SettleSession credits the score payout and records the high score
func (rm *RewardManager) SettleSession(session *entity.Session) Settlement {
	payout := session.Score / types.PayoutDivisor
	rm.economy.AddCurrency(payout)
	return Settlement{
		Score:        session.Score,
		Payout:       payout,
		NewHighScore: rm.economy.RecordScore(session.Score),
	}
}
