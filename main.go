package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/exp/rand"

	"sperm-survival/ai"
	"sperm-survival/audio"
	"sperm-survival/game"
	"sperm-survival/game/types"
	"sperm-survival/miniapp"
	"sperm-survival/storage"
	"sperm-survival/ui"
	"sperm-survival/ui/terminal"
)

func main() {
	store := flag.String("store", defaultStorePath(), "local store: *.db/*.sqlite for SQLite, :memory: for none, anything else for JSON")
	useTerminal := flag.Bool("terminal", false, "play in the terminal instead of a window")
	serve := flag.String("serve", "", "serve the mini app endpoints on this address, e.g. :8080")
	appURL := flag.String("app-url", miniapp.DefaultConfig().AppURL, "public URL of the mini app")
	autopilot := flag.Bool("autopilot", false, "let the learning autopilot steer")
	train := flag.Int("train", 0, "train the autopilot for this many headless episodes and exit")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel training workers")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	mute := flag.Bool("mute", false, "disable sound")
	volume := flag.Float64("volume", audio.DefaultVolume, "effect volume from 0 to 1")
	difficulty := flag.String("difficulty", string(types.FixedDifficulty), "easy, medium or hard (movement always runs at medium)")
	fid := flag.Int64("fid", 0, "Farcaster id shown on screen")
	username := flag.String("username", "", "Farcaster username shown on screen")
	displayName := flag.String("display-name", "", "display name shown on screen")
	pfp := flag.String("pfp", "", "profile picture URL")
	flag.Parse()

	cfg := game.DefaultConfig()
	cfg.Seed = *seed
	cfg.Difficulty = types.Difficulty(*difficulty)
	if *fid != 0 || *username != "" || *displayName != "" {
		cfg.Identity = &types.Identity{FID: *fid, Username: *username, DisplayName: *displayName, PfpURL: *pfp}
	}

	kv, err := openStore(*store)
	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}
	defer kv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agentSeed := *seed
	if agentSeed == 0 {
		agentSeed = uint64(time.Now().UnixNano())
	}
	agent := ai.NewQLearning(rand.New(rand.NewSource(agentSeed)))
	if err := agent.Load(kv); err != nil {
		log.Printf("Error loading autopilot: %v", err)
	}

	if *train > 0 {
		if err := runTraining(ctx, agent, kv, cfg, *train, *workers, agentSeed); err != nil {
			log.Fatalf("Error training: %v", err)
		}
		return
	}

	g, err := game.New(cfg, kv)
	if err != nil {
		log.Fatalf("Error creating game: %v", err)
	}
	g.SetController(ai.NewAutopilot(agent, kv))
	g.SetAutopilot(*autopilot)

	if !*mute {
		player := audio.NewPlayer()
		player.SetVolume(*volume)
		if err := player.Init(); err != nil {
			log.Printf("Audio initialization failed: %v", err)
		} else {
			g.SetSound(player)
			defer player.Close()
		}
	}

	if *serve != "" {
		mcfg := miniapp.DefaultConfig()
		mcfg.AppURL = *appURL
		srv := miniapp.NewServer(mcfg, g)
		go func() {
			if err := srv.ListenAndServe(ctx, *serve); err != nil {
				log.Printf("miniapp: %v", err)
			}
		}()
	}

	if *useTerminal {
		err = runTerminal(ctx, g)
	} else {
		runWindow(ctx, g)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Error: %v", err)
	}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sperm-survival.json"
	}
	return filepath.Join(dir, "sperm-survival", "state.db")
}

func openStore(path string) (storage.KV, error) {
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}

func runTraining(ctx context.Context, agent *ai.QLearning, kv storage.KV, cfg game.Config, episodes, workers int, seed uint64) error {
	res, err := ai.Train(ctx, agent, ai.TrainOptions{
		Episodes:    episodes,
		Workers:     workers,
		Seed:        seed,
		Config:      cfg,
		ReportEvery: 100,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println(res)

	if err := agent.Save(kv); err != nil {
		return fmt.Errorf("failed to save autopilot: %w", err)
	}
	return nil
}

func runTerminal(ctx context.Context, g *game.Game) error {
	// the log would scribble over the screen
	logFile, err := os.CreateTemp("", "sperm-survival-*.log")
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return terminal.New(screen, g).Run(ctx)
}

func runWindow(ctx context.Context, g *game.Game) {
	rl.InitWindow(1280, 800, "Sperm Survival")
	rl.SetWindowState(rl.FlagWindowResizable)
	rl.SetExitKey(0)
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	renderer := ui.NewRenderer()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		for _, cmd := range ui.Poll(g.View()) {
			if cmd == game.CmdQuit {
				return
			}
			if err := g.Handle(cmd); err != nil {
				log.Printf("Error: %v", err)
			}
		}

		g.Update(time.Duration(rl.GetFrameTime() * float32(time.Second)))
		renderer.Draw(g.View())
	}
}
