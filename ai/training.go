package ai

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"sperm-survival/game"
	"sperm-survival/game/manager"
	"sperm-survival/storage"
)

// MaxEpisodeTicks bounds an episode; health can stay positive forever
const MaxEpisodeTicks = 3000

// TrainOptions configures a training run
type TrainOptions struct {
	Episodes int
	Workers  int
	Seed     uint64
	// Config is the game configuration every episode runs with
	Config game.Config
	// ReportEvery logs progress after that many episodes per worker; 0 disables
	ReportEvery int
}

// Result summarises a training run
type Result struct {
	Episodes int
	Best     int
	Average  float64
	States   int
	Elapsed  time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("%d episodes in %s: best %d, average %.1f, %d states",
		r.Episodes, r.Elapsed.Round(time.Millisecond), r.Best, r.Average, r.States)
}

// Train plays headless episodes on Workers copies of agent and merges what
// they learned back into it. Cancelling ctx stops after the running episodes.
func Train(ctx context.Context, agent *QLearning, opts TrainOptions) (Result, error) {
	if opts.Episodes <= 0 {
		return Result{}, fmt.Errorf("episodes must be positive")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Workers > opts.Episodes {
		opts.Workers = opts.Episodes
	}
	if err := opts.Config.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid config: %w", err)
	}

	start := time.Now()
	jobs := make(chan int)
	var (
		wg     sync.WaitGroup
		mutex  sync.Mutex
		result Result
		total  int
	)

	workers := make([]*QLearning, opts.Workers)
	for i := range workers {
		workers[i] = agent.Clone(rand.New(rand.NewSource(opts.Seed + uint64(i) + 1)))
	}

	for i, learner := range workers {
		wg.Add(1)
		go func(id int, learner *QLearning) {
			defer wg.Done()
			pilot := NewAutopilot(learner, nil)
			played := 0
			for episode := range jobs {
				score, err := runEpisode(ctx, pilot, opts.Config, opts.Seed*1_000_003+uint64(episode)+1)
				if err != nil {
					log.Printf("training: worker %d episode %d: %v", id, episode, err)
					continue
				}
				played++

				mutex.Lock()
				result.Episodes++
				total += score
				result.Best = max(result.Best, score)
				mutex.Unlock()

				if opts.ReportEvery > 0 && played%opts.ReportEvery == 0 {
					log.Printf("training: worker %d played %d episodes, last score %d, %d states",
						id, played, score, learner.States())
				}
			}
		}(i, learner)
	}

feed:
	for episode := 0; episode < opts.Episodes && ctx.Err() == nil; episode++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- episode:
		}
	}
	close(jobs)
	wg.Wait()

	for _, learner := range workers {
		agent.Merge(learner)
	}

	if result.Episodes > 0 {
		result.Average = float64(total) / float64(result.Episodes)
	}
	result.States = agent.States()
	result.Elapsed = time.Since(start)
	return result, ctx.Err()
}

// runEpisode plays one session to the end, or to MaxEpisodeTicks, and
// returns its score
func runEpisode(ctx context.Context, pilot *Autopilot, cfg game.Config, seed uint64) (int, error) {
	cfg.Seed = seed
	cfg.Identity = nil
	g, err := game.New(cfg, storage.NewMemory())
	if err != nil {
		return 0, err
	}
	g.SetController(pilot)
	if err := g.Start(); err != nil {
		return 0, err
	}

	step := cfg.TickInterval()
	for i := 0; i < MaxEpisodeTicks && g.State() != manager.StateGameOver; i++ {
		if i%100 == 0 && ctx.Err() != nil {
			break
		}
		g.Update(step)
	}

	score := g.View().Score
	if g.State() != manager.StateGameOver {
		// out of ticks: settle it so the autopilot sees a terminal step
		if err := g.EndSession(); err != nil {
			return 0, err
		}
	}
	return score, nil
}
