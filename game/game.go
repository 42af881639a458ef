package game

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"

	"sperm-survival/game/entity"
	"sperm-survival/game/manager"
	"sperm-survival/game/types"
	"sperm-survival/stats"
	"sperm-survival/storage"
)

// Game wires the managers together and owns at most one running session.
// All methods must be called from the goroutine that drives Update; other
// goroutines read the published View only.
type Game struct {
	cfg   Config
	grid  types.Grid
	rng   *rand.Rand
	clock func() time.Time
	sched *Scheduler

	state      *manager.StateManager
	collision  *manager.CollisionManager
	food       *manager.FoodManager
	economy    *manager.EconomyManager
	characters *manager.CharacterManager
	rewards    *manager.RewardManager
	history    *stats.History

	snake   *entity.Snake
	session *entity.Session

	sound      SoundPlayer
	controller Controller
	autopilot  bool

	frame       int
	cursor      int
	message     string
	messageTask *Task
	lastTurn    time.Duration
	turned      bool
	settlement  manager.Settlement

	view atomic.Pointer[View]
}

// New builds a game in the menu state on top of kv
func New(cfg Config, kv storage.KV) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	grid := types.NewSquareGrid(cfg.GridSize)

	collision := manager.NewCollisionManager(grid)
	economy := manager.NewEconomyManager(kv, rng, types.DefaultCharacterID)

	g := &Game{
		cfg:        cfg,
		grid:       grid,
		rng:        rng,
		clock:      time.Now,
		sched:      NewScheduler(),
		state:      manager.NewStateManager(),
		collision:  collision,
		food:       manager.NewFoodManager(grid, rng, collision),
		economy:    economy,
		characters: manager.NewCharacterManager(economy),
		rewards:    manager.NewRewardManager(economy, rng),
		history:    stats.NewHistory(kv),
		sound:      nopSound{},
	}

	g.state.OnGameOver(g.settle)
	g.state.OnTransition(g.onTransition)

	g.sched.Every("animation", cfg.AnimationInterval, GroupUI, func() {
		g.frame = (g.frame + 1) % types.AnimationFrames
	})

	g.publish()
	return g, nil
}

// SetSound installs the effect player; nil mutes the game
func (g *Game) SetSound(p SoundPlayer) {
	if p == nil {
		p = nopSound{}
	}
	g.sound = p
}

// SetController installs an autopilot and turns it on
func (g *Game) SetController(c Controller) {
	g.controller = c
	g.autopilot = c != nil
	g.publish()
}

// SetAutopilot switches between the controller and keyboard input. It has
// no effect without a controller.
func (g *Game) SetAutopilot(on bool) {
	if g.autopilot && !on {
		g.controller.Reset()
	}
	g.autopilot = on && g.controller != nil
	g.publish()
}

func (g *Game) State() manager.State {
	return g.state.State()
}

func (g *Game) Economy() *manager.EconomyManager {
	return g.economy
}

func (g *Game) Characters() *manager.CharacterManager {
	return g.characters
}

func (g *Game) History() *stats.History {
	return g.history
}

// Start begins a session from the menu or the game over screen
func (g *Game) Start() error {
	if err := g.state.Start(); err != nil {
		return err
	}
	g.beginSession()
	return nil
}

// Restart throws away the running session, if any, and starts a new one
func (g *Game) Restart() error {
	if err := g.state.Restart(); err != nil {
		return err
	}
	g.beginSession()
	return nil
}

func (g *Game) TogglePause() error {
	if err := g.state.TogglePause(); err != nil {
		return err
	}
	g.publish()
	return nil
}

// EndSession finishes the running session and pays it out
func (g *Game) EndSession() error {
	if err := g.state.EndSession(); err != nil {
		return err
	}
	g.publish()
	return nil
}

// ReturnToMenu abandons the session without paying out
func (g *Game) ReturnToMenu() error {
	if err := g.state.ReturnToMenu(); err != nil {
		return err
	}
	g.snake = nil
	g.session = nil
	g.food.Clear()
	g.publish()
	return nil
}

// Turn requests a new heading. Requests closer together than the input
// debounce, reversals and requests outside play are dropped.
func (g *Game) Turn(dir types.Direction) bool {
	if !g.state.IsPlaying() || g.snake == nil {
		return false
	}
	now := g.sched.Now()
	if g.turned && now-g.lastTurn < g.cfg.InputDebounce {
		return false
	}
	if !g.snake.SetDirection(dir) {
		return false
	}
	g.lastTurn = now
	g.turned = true
	return true
}

// Update advances the game by elapsed wall time and publishes a new View
func (g *Game) Update(elapsed time.Duration) {
	if g.cfg.MaxFrameStep > 0 && elapsed > g.cfg.MaxFrameStep {
		elapsed = g.cfg.MaxFrameStep
	}
	g.sched.Advance(elapsed)
	g.publish()
}

// View returns the latest published snapshot
func (g *Game) View() *View {
	return g.view.Load()
}

func (g *Game) beginSession() {
	g.sched.CancelGroup(GroupGameplay)
	g.food.Clear()

	center := types.Point{X: g.grid.Width / 2, Y: g.grid.Height / 2}
	g.snake = entity.NewSnake(center, types.Right, types.InitialLength, g.grid)
	g.session = entity.NewSession(g.characters.Current().ID, g.clock())
	g.settlement = manager.Settlement{}
	g.turned = false
	if g.controller != nil {
		g.controller.Reset()
	}

	// registration order decides ties: movement before pickup
	g.sched.After("initial-spawn", 0, GroupGameplay, func() {
		g.food.GenerateItems(types.InitialSpawnCount, g.snake.Body)
	})
	g.sched.Every("tick", g.cfg.TickInterval(), GroupGameplay, g.tick)
	g.sched.Every("pickup", g.cfg.CollisionInterval, GroupGameplay, g.pickup)
	g.sched.Every("replenish", g.cfg.ReplenishInterval, GroupGameplay, func() {
		g.food.GenerateItems(types.RefillSpawnCount, g.snake.Body)
	})
	g.sched.Every("rare-egg", g.cfg.RareEggInterval, GroupGameplay, g.spawnRareEgg)

	log.Printf("game: session %s started as %s", g.session.ID, g.session.Character)
	g.publish()
}

func (g *Game) tick() {
	if g.autopilot && g.controller != nil {
		g.snake.SetDirection(g.controller.Steer(g.observe()))
	}

	res := g.collision.HandleMovement(g.snake)
	if res.Collision == manager.SelfCollision {
		g.sound.Play(CuePenalty)
		if g.rewards.Penalize(g.session) {
			g.endSession()
			return
		}
	}

	g.food.EnsureFood(g.snake.Body)
}

func (g *Game) pickup() {
	item, ok := g.food.Take(g.snake.Head())
	if !ok {
		return
	}

	out := g.rewards.Apply(g.session, g.snake, item.Kind)
	switch {
	case item.Kind.IsEgg():
		g.sound.Play(CueEgg)
	case item.Kind.IsGood():
		g.sound.Play(CueGoodFood)
	default:
		g.sound.Play(CueBadFood)
	}
	if out.Message != "" {
		g.showMessage(out.Message)
	}

	if out.Depleted {
		g.endSession()
		return
	}

	n := g.rewards.ReplenishCount()
	g.sched.After("replenish-pickup", 0, GroupGameplay, func() {
		g.food.GenerateItems(n, g.snake.Body)
	})
}

func (g *Game) spawnRareEgg() {
	item, ok := g.food.TrySpawnRareEgg(g.snake.Body)
	if ok && item.Kind != types.EggBronze {
		g.showMessage(fmt.Sprintf("Rare %s spotted!", item.Kind.Tier()))
	}
}

func (g *Game) endSession() {
	if err := g.state.EndSession(); err != nil {
		log.Printf("game: %v", err)
	}
}

// settle runs once per finished session, before the gameover state is visible
func (g *Game) settle() {
	if g.session == nil {
		return
	}
	g.session.EndTime = g.clock()
	g.settlement = g.rewards.SettleSession(g.session)

	g.history.Add(stats.Session{
		ID:        g.session.ID,
		Character: g.session.Character,
		Score:     g.session.Score,
		Payout:    g.settlement.Payout,
		Start:     g.session.StartTime,
		End:       g.session.EndTime,
	})

	if g.controller != nil && g.autopilot {
		g.controller.Finish(g.observe())
	}
	g.sound.Play(CueGameOver)

	log.Printf("game: session %s over, score %d, payout %d", g.session.ID, g.settlement.Score, g.settlement.Payout)
}

func (g *Game) onTransition(from, to manager.State) {
	switch to {
	case manager.StatePaused:
		g.sched.PauseGroup(GroupGameplay)
	case manager.StatePlaying:
		g.sched.ResumeGroup(GroupGameplay)
	case manager.StateGameOver, manager.StateMenu:
		g.sched.CancelGroup(GroupGameplay)
	}
}

func (g *Game) showMessage(msg string) {
	if g.messageTask != nil {
		g.messageTask.Cancel()
	}
	g.message = msg
	g.messageTask = g.sched.After("message", g.cfg.MessageDuration, GroupUI, func() {
		g.message = ""
		g.messageTask = nil
	})
}

func (g *Game) observe() Observation {
	obs := Observation{
		Grid:  g.grid,
		Items: g.food.GetFoodList(),
	}
	if g.snake != nil {
		obs.Body = g.snake.Segments()
		obs.Heading = g.snake.Direction
	}
	if g.session != nil {
		obs.Score = g.session.Score
		obs.Health = g.session.Health
	}
	return obs
}

func (g *Game) publish() {
	current := g.characters.Current()
	wallet := g.economy.Snapshot()
	v := &View{
		State:     g.state.State().String(),
		Grid:      g.grid,
		Items:     g.food.GetFoodList(),
		Currency:  wallet.Currency,
		HighScore: wallet.HighScore,
		Unlocked:  wallet.Unlocked,
		Character: current.ID,
		FramePath: current.FramePath(g.frame),
		Frame:     g.frame,
		Message:   g.message,
		Cursor:    g.cursor,
		Autopilot: g.autopilot,
		Payout:    g.settlement.Payout,
		NewRecord: g.settlement.NewHighScore,
		Stats:     g.history.Summary(),
		Identity:  g.cfg.Identity,
	}

	if g.snake != nil {
		v.Body = g.snake.Segments()
		v.Heading = g.snake.Heading()
	}
	if g.session != nil {
		v.SessionID = g.session.ID.String()
		v.Score = g.session.Score
		v.Health = g.session.Health
	}

	v.Shop = make([]CharacterView, 0, len(manager.Characters))
	for _, c := range g.characters.GetCharacters() {
		v.Shop = append(v.Shop, CharacterView{
			Character: c,
			Unlocked:  g.characters.IsUnlocked(c.ID),
			Selected:  c.ID == current.ID,
		})
	}

	g.view.Store(v)
}
