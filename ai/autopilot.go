package ai

import (
	"log"

	"sperm-survival/game"
	"sperm-survival/game/types"
	"sperm-survival/storage"
)

// Reward shaping
const (
	deathPenalty   = -10.0
	closerReward   = 0.2
	furtherPenalty = -0.1
)

// Autopilot drives a game with a Q-learning agent and keeps learning as it
// plays. It implements game.Controller.
type Autopilot struct {
	agent *QLearning
	kv    storage.KV

	// SaveEvery persists the table after that many finished games; 0 disables
	SaveEvery int

	last       State
	lastAction Action
	lastObs    game.Observation
	started    bool
}

// NewAutopilot wraps agent. When kv is non-nil the table is persisted there.
func NewAutopilot(agent *QLearning, kv storage.KV) *Autopilot {
	return &Autopilot{
		agent:     agent,
		kv:        kv,
		SaveEvery: 1,
	}
}

// Steer learns from the outcome of the previous move and picks the next one
func (p *Autopilot) Steer(obs game.Observation) types.Direction {
	state := Sense(obs)
	if p.started {
		p.agent.Update(p.last, p.lastAction, reward(p.lastObs, obs), state, false)
	}

	var blocked []Action
	if back, ok := actionFor(obs.Heading.Opposite()); ok {
		blocked = append(blocked, back)
	}
	action := p.agent.GetAction(state, blocked...)

	p.last, p.lastAction, p.lastObs = state, action, obs
	p.started = true
	return action.Direction()
}

// Finish closes the episode with the death penalty
func (p *Autopilot) Finish(obs game.Observation) {
	if p.started {
		r := reward(p.lastObs, obs)
		if obs.Health <= 0 {
			r += deathPenalty
		}
		p.agent.Update(p.last, p.lastAction, r, Sense(obs), true)
	}
	p.started = false

	p.agent.EndEpisode()

	if p.kv != nil && p.SaveEvery > 0 && p.agent.GamesPlayed%p.SaveEvery == 0 {
		if err := p.agent.Save(p.kv); err != nil {
			log.Printf("autopilot: %v", err)
		}
	}
}

// Reset forgets the pending transition so the next Steer starts a fresh
// episode
func (p *Autopilot) Reset() {
	p.started = false
}

// reward scores the transition between two observations: score and health
// changes dominate, moving toward food breaks ties
func reward(prev, next game.Observation) float64 {
	r := float64(next.Score-prev.Score)/10 + float64(next.Health-prev.Health)/10

	before, after := nearestGoodDistance(prev), nearestGoodDistance(next)
	if before >= 0 && after >= 0 && next.Score == prev.Score {
		switch {
		case after < before:
			r += closerReward
		case after > before:
			r += furtherPenalty
		}
	}
	return r
}
