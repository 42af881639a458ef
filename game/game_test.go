package game

import (
	"reflect"
	"testing"
	"time"

	"sperm-survival/game/entity"
	"sperm-survival/game/manager"
	"sperm-survival/game/types"
	"sperm-survival/storage"
)

var fixedNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 1
	g, err := New(cfg, storage.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.clock = func() time.Time { return fixedNow }
	return g
}

// startWithBoard starts a session, lets the initial spawn run and then
// replaces the board with items
func startWithBoard(t *testing.T, g *Game, items ...entity.Item) {
	t.Helper()
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.Update(0)
	g.food.Clear()
	for _, it := range items {
		g.food.AddFood(it)
	}
}

// run advances the game in frame-sized steps
func run(g *Game, d time.Duration) {
	const step = 10 * time.Millisecond
	for ; d >= step; d -= step {
		g.Update(step)
	}
	if d > 0 {
		g.Update(d)
	}
}

func item(x, y int, kind types.ItemKind) entity.Item {
	return entity.Item{Pos: types.Point{X: x, Y: y}, Kind: kind}
}

func TestStartSpawnsChainAndItems(t *testing.T) {
	g := newTestGame(t)
	if g.View().State != "menu" {
		t.Fatalf("initial state %q", g.View().State)
	}

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	g.Update(0)

	v := g.View()
	want := []types.Point{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}
	if !reflect.DeepEqual(v.Body, want) {
		t.Fatalf("body = %v, want %v", v.Body, want)
	}
	if v.Health != 100 || v.Score != 0 || v.State != "playing" {
		t.Fatalf("view = %+v", v)
	}
	if n := len(v.Items); n < 1 || n > 2 {
		t.Fatalf("initial spawn placed %d items", n)
	}
	for _, it := range v.Items {
		if v.SegmentAt(it.Pos) >= 0 {
			t.Fatalf("item on chain at %v", it.Pos)
		}
	}
}

func TestOneTickMovesRight(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(0, 0, types.Good1))

	run(g, 149*time.Millisecond)
	if g.View().Body[0] != (types.Point{X: 7, Y: 7}) {
		t.Fatal("moved before the tick interval")
	}
	run(g, time.Millisecond)

	want := []types.Point{{X: 8, Y: 7}, {X: 7, Y: 7}, {X: 6, Y: 7}}
	if got := g.View().Body; !reflect.DeepEqual(got, want) {
		t.Fatalf("body = %v, want %v", got, want)
	}
}

func TestGoodFoodPickup(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(8, 7, types.Good1))
	g.session.Health = 90
	currency := g.economy.Currency()

	run(g, 150*time.Millisecond)

	v := g.View()
	if v.Score != 10 || v.Health != 100 {
		t.Fatalf("score=%d health=%d, want 10 100", v.Score, v.Health)
	}
	if v.Currency != currency {
		t.Fatalf("currency changed to %d", v.Currency)
	}
	if _, ok := v.ItemAt(types.Point{X: 8, Y: 7}); ok {
		t.Fatal("consumed item still on the board")
	}
	if len(v.Items) == 0 {
		t.Fatal("consumed item was not replenished")
	}

	run(g, 150*time.Millisecond)
	if got := len(g.View().Body); got != types.InitialLength+1 {
		t.Fatalf("length = %d, want %d", got, types.InitialLength+1)
	}
}

func TestEggPickupPaysCoins(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(8, 7, types.EggBronze))

	run(g, 150*time.Millisecond)

	v := g.View()
	if v.Currency != 5 {
		t.Fatalf("currency = %d, want 5", v.Currency)
	}
	if v.Message != "BRONZE! +5 coins" {
		t.Fatalf("message = %q", v.Message)
	}
	run(g, 150*time.Millisecond)
	if len(g.View().Body) != types.InitialLength+1 {
		t.Fatalf("egg did not grow the chain")
	}

	g.food.Clear()
	g.food.AddFood(item(0, 0, types.Good1))

	run(g, 2*time.Second)
	if g.View().Message != "" {
		t.Fatalf("message did not expire: %q", g.View().Message)
	}
}

func TestHealthDepletionEndsSession(t *testing.T) {
	g := newTestGame(t)
	g.economy.RecordScore(100)
	startWithBoard(t, g, item(8, 7, types.Bad1))
	g.session.Health = 5
	g.session.Score = 57

	run(g, 150*time.Millisecond)

	v := g.View()
	if v.State != "gameover" {
		t.Fatalf("state = %q, want gameover", v.State)
	}
	if v.Payout != 5 || v.Currency != 5 {
		t.Fatalf("payout=%d currency=%d, want 5", v.Payout, v.Currency)
	}
	if v.HighScore != 100 || v.NewRecord {
		t.Fatalf("high score = %d record=%v, want 100 false", v.HighScore, v.NewRecord)
	}
	if v.Stats.GamesPlayed != 1 {
		t.Fatalf("history has %d games", v.Stats.GamesPlayed)
	}

	body := v.Body
	run(g, time.Second)
	if !reflect.DeepEqual(g.View().Body, body) {
		t.Fatal("gameplay kept running after game over")
	}
}

func TestHighScoreUpdatedWhenExceeded(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(8, 7, types.Bad4))
	g.session.Health = 10
	g.session.Score = 230

	run(g, 150*time.Millisecond)

	v := g.View()
	if v.State != "gameover" || v.HighScore != 205 || !v.NewRecord {
		t.Fatalf("state=%q high=%d record=%v", v.State, v.HighScore, v.NewRecord)
	}
	if v.Payout != 20 {
		t.Fatalf("payout = %d, want 20", v.Payout)
	}
}

func TestSelfCollisionEndsSessionInSameTick(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(0, 0, types.Good1))
	g.snake.Body = []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 6, Y: 4}}
	g.snake.Direction = types.Up
	g.snake.SetDirection(types.Right)
	g.session.Health = 1

	run(g, 150*time.Millisecond)

	if g.State() != manager.StateGameOver {
		t.Fatalf("state = %s, want gameover", g.State())
	}
	if g.session.Health != 0 {
		t.Fatalf("health = %d", g.session.Health)
	}
}

func TestSelfCollisionPenaltyKeepsMoving(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(0, 0, types.Good1))
	g.snake.Body = []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 6, Y: 4}}
	g.snake.Direction = types.Up
	g.snake.SetDirection(types.Right)

	run(g, 150*time.Millisecond)

	if g.session.Health != 99 || g.State() != manager.StatePlaying {
		t.Fatalf("health=%d state=%s", g.session.Health, g.State())
	}
	if g.snake.Head() != (types.Point{X: 6, Y: 5}) {
		t.Fatalf("head = %v", g.snake.Head())
	}
}

func TestPauseFreezesGameplay(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(0, 0, types.Good1))

	run(g, 100*time.Millisecond)
	if err := g.TogglePause(); err != nil {
		t.Fatal(err)
	}
	body := g.View().Body
	run(g, 3*time.Second)

	if !reflect.DeepEqual(g.View().Body, body) {
		t.Fatal("chain moved while paused")
	}
	if g.Turn(types.Up) {
		t.Fatal("turn accepted while paused")
	}

	g.TogglePause()
	run(g, 50*time.Millisecond)
	if g.View().Body[0] != (types.Point{X: 8, Y: 7}) {
		t.Fatalf("resume did not continue the interrupted tick: head %v", g.View().Body[0])
	}
}

func TestTurnDebounce(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(0, 0, types.Good1))

	if !g.Turn(types.Up) {
		t.Fatal("first turn rejected")
	}
	if g.Turn(types.Down) {
		t.Fatal("turn inside debounce window accepted")
	}
	run(g, 90*time.Millisecond)
	if g.Turn(types.Left) {
		t.Fatal("reversal of the last applied move accepted")
	}
	if !g.Turn(types.Down) {
		t.Fatal("turn after debounce rejected")
	}
}

func TestRestartResetsSession(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g, item(8, 7, types.Good2))
	run(g, 300*time.Millisecond)
	first := g.View().SessionID

	if err := g.Restart(); err != nil {
		t.Fatal(err)
	}
	g.Update(0)
	v := g.View()
	if v.SessionID == first || v.Score != 0 || v.Health != 100 || len(v.Body) != types.InitialLength {
		t.Fatalf("restart kept state: %+v", v)
	}
	if v.Heading != types.Right {
		t.Fatalf("heading = %s", v.Heading)
	}
}

func TestReturnToMenuSkipsPayout(t *testing.T) {
	g := newTestGame(t)
	startWithBoard(t, g)
	g.session.Score = 500

	if err := g.ReturnToMenu(); err != nil {
		t.Fatal(err)
	}
	v := g.View()
	if v.State != "menu" || v.Currency != 0 || v.Stats.GamesPlayed != 0 {
		t.Fatalf("view = %+v", v)
	}
	run(g, time.Second)
	if len(g.View().Items) != 0 {
		t.Fatal("gameplay tasks survived return to menu")
	}
}

func TestShopCommands(t *testing.T) {
	g := newTestGame(t)

	if err := g.Handle(CmdEggGold); err != nil {
		t.Fatalf("egg with no coins: %v", err)
	}
	if g.View().Message != "Not enough coins!" {
		t.Fatalf("egg message = %q", g.View().Message)
	}
	run(g, 3*time.Second)
	if g.View().Message != "" {
		t.Fatalf("message did not expire: %q", g.View().Message)
	}

	if err := g.Handle(CmdBuySelect); err != nil {
		t.Fatalf("buy with no coins: %v", err)
	}
	if g.View().Message != "Not enough coins!" {
		t.Fatalf("message = %q", g.View().Message)
	}

	g.economy.AddCurrency(250)
	g.Handle(CmdBuySelect)
	v := g.View()
	if v.Character != "naruto" || v.Currency != 50 {
		t.Fatalf("character=%q currency=%d", v.Character, v.Currency)
	}
	if len(v.Unlocked) != 2 || v.Unlocked[0] != "naruto" || v.Unlocked[1] != "neo" {
		t.Fatalf("unlocked = %v", v.Unlocked)
	}

	g.Handle(CmdPrevCharacter)
	if g.View().Cursor != len(manager.Characters)-1 {
		t.Fatalf("cursor = %d", g.View().Cursor)
	}
	g.Handle(CmdBuySelect)
	if g.View().Character != "neo" {
		t.Fatalf("character = %q", g.View().Character)
	}

	g.Handle(CmdEggBronze)
	if g.economy.Currency() < 45 {
		t.Fatalf("egg cost not deducted once: %d", g.economy.Currency())
	}

	run(g, 2*time.Second)
	if g.View().Message != "" {
		t.Fatalf("message = %q", g.View().Message)
	}
}

func TestHandleFlow(t *testing.T) {
	g := newTestGame(t)

	steps := []struct {
		cmd  Command
		want manager.State
	}{
		{CmdPause, manager.StateMenu},
		{CmdConfirm, manager.StatePlaying},
		{CmdConfirm, manager.StatePlaying},
		{CmdPause, manager.StatePaused},
		{CmdPause, manager.StatePlaying},
		{CmdMenu, manager.StateMenu},
	}
	for i, s := range steps {
		if err := g.Handle(s.cmd); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if g.State() != s.want {
			t.Fatalf("step %d: state %s, want %s", i, g.State(), s.want)
		}
	}
}

type fixedController struct {
	dir      types.Direction
	steered  int
	finished int
	reset    int
}

func (c *fixedController) Steer(Observation) types.Direction {
	c.steered++
	return c.dir
}

func (c *fixedController) Finish(Observation) {
	c.finished++
}

func (c *fixedController) Reset() {
	c.reset++
}

func TestControllerSteers(t *testing.T) {
	g := newTestGame(t)
	ctrl := &fixedController{dir: types.Down}
	g.SetController(ctrl)
	startWithBoard(t, g, item(7, 8, types.Bad4))
	g.session.Health = 30

	run(g, 150*time.Millisecond)

	if ctrl.steered != 1 {
		t.Fatalf("steered %d times", ctrl.steered)
	}
	if g.State() != manager.StateGameOver || ctrl.finished != 1 {
		t.Fatalf("state=%s finished=%d", g.State(), ctrl.finished)
	}
}

func TestControllerResetWhenDisengaged(t *testing.T) {
	g := newTestGame(t)
	ctrl := &fixedController{dir: types.Down}
	g.SetController(ctrl)
	startWithBoard(t, g)
	if ctrl.reset != 1 {
		t.Fatalf("reset %d times at session start", ctrl.reset)
	}

	g.Handle(CmdToggleAutopilot)
	if g.View().Autopilot || ctrl.reset != 2 {
		t.Fatalf("autopilot=%v reset=%d", g.View().Autopilot, ctrl.reset)
	}
	g.Handle(CmdToggleAutopilot)
	if ctrl.reset != 2 {
		t.Fatalf("turning on reset the controller")
	}

	if err := g.ReturnToMenu(); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if ctrl.finished != 0 || ctrl.reset != 3 {
		t.Fatalf("finished=%d reset=%d", ctrl.finished, ctrl.reset)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.TickInterval() != 150*time.Millisecond {
		t.Fatalf("tick = %v", cfg.TickInterval())
	}

	cfg.Difficulty = "insane"
	if _, err := New(cfg, storage.NewMemory()); err == nil {
		t.Fatal("unknown difficulty accepted")
	}
}
