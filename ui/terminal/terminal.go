// Package terminal is a text frontend for the game built on tcell
package terminal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"sperm-survival/game"
	"sperm-survival/game/manager"
	"sperm-survival/game/types"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	styleDefault = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.GetColor("#eeccff")).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBody    = tcell.StyleDefault.Foreground(tcell.GetColor("#eeccff"))
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCoins   = tcell.StyleDefault.Foreground(tcell.ColorGold)
)

var itemGlyphs = map[types.ItemKind]struct {
	r     rune
	color tcell.Color
}{
	types.Good1:      {'*', tcell.ColorLightGreen},
	types.Good2:      {'*', tcell.ColorGreen},
	types.Good3:      {'*', tcell.ColorLime},
	types.Good4:      {'*', tcell.ColorDarkGreen},
	types.Bad1:       {'x', tcell.ColorSalmon},
	types.Bad2:       {'x', tcell.ColorRed},
	types.Bad3:       {'x', tcell.ColorMaroon},
	types.Bad4:       {'x', tcell.ColorPurple},
	types.EggBronze:  {'0', tcell.GetColor("#cd7f32")},
	types.EggSilver:  {'0', tcell.ColorSilver},
	types.EggGold:    {'0', tcell.ColorGold},
	types.EggDiamond: {'0', tcell.ColorLightSkyBlue},
}

var headGlyphs = map[types.Direction]rune{
	types.Up:    '^',
	types.Down:  'v',
	types.Left:  '<',
	types.Right: '>',
}

// Frontend runs a game in a terminal screen
type Frontend struct {
	screen tcell.Screen
	game   *game.Game
}

// New wraps an initialised screen. The caller owns screen and calls Fini.
func New(screen tcell.Screen, g *game.Game) *Frontend {
	return &Frontend{screen: screen, game: g}
}

// Run drives the game until the player quits or ctx is done
func (f *Frontend) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go f.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				cmd := CommandFor(ev, f.game.View())
				if cmd == game.CmdQuit {
					return nil
				}
				if err := f.game.Handle(cmd); err != nil {
					log.Printf("terminal: %v", err)
				}
			case *tcell.EventResize:
				f.screen.Sync()
			}

		case now := <-ticker.C:
			f.game.Update(now.Sub(last))
			last = now
			f.Draw(f.game.View())
		}
	}
}

// CommandFor maps a key press to a game command. Left and right browse the
// shop when no session is running.
func CommandFor(ev *tcell.EventKey, v *game.View) game.Command {
	var cmd game.Command
	switch ev.Key() {
	case tcell.KeyUp:
		cmd = game.CmdUp
	case tcell.KeyDown:
		cmd = game.CmdDown
	case tcell.KeyLeft:
		cmd = game.CmdLeft
	case tcell.KeyRight:
		cmd = game.CmdRight
	case tcell.KeyEnter:
		cmd = game.CmdConfirm
	case tcell.KeyEscape:
		cmd = game.CmdPause
	case tcell.KeyTab:
		cmd = game.CmdToggleAutopilot
	case tcell.KeyCtrlC:
		cmd = game.CmdQuit
	case tcell.KeyRune:
		cmd = runeCommands[ev.Rune()]
	}

	if v != nil && !v.Playing() {
		switch cmd {
		case game.CmdLeft:
			cmd = game.CmdPrevCharacter
		case game.CmdRight:
			cmd = game.CmdNextCharacter
		}
	}
	return cmd
}

var runeCommands = map[rune]game.Command{
	'w': game.CmdUp,
	's': game.CmdDown,
	'a': game.CmdLeft,
	'd': game.CmdRight,
	' ': game.CmdConfirm,
	'p': game.CmdPause,
	'm': game.CmdMenu,
	'b': game.CmdBuySelect,
	'1': game.CmdEggBronze,
	'2': game.CmdEggSilver,
	'3': game.CmdEggGold,
	'4': game.CmdEggDiamond,
	'q': game.CmdQuit,
}

// Draw renders a view. Every board cell is two columns wide.
func (f *Frontend) Draw(v *game.View) {
	s := f.screen
	s.Clear()

	f.drawBoard(v)
	x := v.Grid.Width*2 + 4
	y := f.drawHUD(v, x)

	switch v.State {
	case manager.StateMenu.String():
		f.drawShop(v, x, y+1, "SPERM SURVIVAL - enter to swim")
	case manager.StateGameOver.String():
		title := fmt.Sprintf("GAME OVER - score %d, +%d coins", v.Score, v.Payout)
		if v.NewRecord {
			title += ", new high score!"
		}
		f.drawShop(v, x, y+1, title)
	case manager.StatePaused.String():
		f.text(x, y+1, styleTitle, "PAUSED - p to resume")
	}

	if v.Message != "" {
		f.text(1, v.Grid.Height+2, styleMessage, v.Message)
	}
	s.Show()
}

func (f *Frontend) drawBoard(v *game.View) {
	w, h := v.Grid.Width*2, v.Grid.Height
	for x := 0; x <= w+1; x++ {
		f.screen.SetContent(x, 0, '-', nil, styleBorder)
		f.screen.SetContent(x, h+1, '-', nil, styleBorder)
	}
	for y := 1; y <= h; y++ {
		f.screen.SetContent(0, y, '|', nil, styleBorder)
		f.screen.SetContent(w+1, y, '|', nil, styleBorder)
	}

	for _, it := range v.Items {
		g := itemGlyphs[it.Kind]
		f.cell(it.Pos, g.r, styleDefault.Foreground(g.color))
	}

	headStyle := styleTitle
	for _, c := range v.Shop {
		if c.ID == v.Character {
			headStyle = styleDefault.Foreground(tcell.GetColor(c.Color)).Bold(true)
		}
	}
	for i := len(v.Body) - 1; i >= 0; i-- {
		if i == 0 {
			f.cell(v.Body[i], headGlyphs[v.Heading], headStyle)
			continue
		}
		f.cell(v.Body[i], 'o', styleBody)
	}
}

// CellOrigin returns the screen column and row of a board cell
func CellOrigin(p types.Point) (int, int) {
	return 1 + p.X*2, 1 + p.Y
}

func (f *Frontend) cell(p types.Point, r rune, style tcell.Style) {
	x, y := CellOrigin(p)
	f.screen.SetContent(x, y, r, nil, style)
}

func (f *Frontend) drawHUD(v *game.View, x int) int {
	y := 1
	line := func(style tcell.Style, format string, args ...any) {
		f.text(x, y, style, fmt.Sprintf(format, args...))
		y++
	}

	if label := v.Identity.Label(); label != "" {
		line(styleTitle, "%s", label)
	}
	line(styleDefault, "Score  %d", v.Score)
	line(styleDefault, "High   %d", v.HighScore)
	line(styleCoins, "Coins  %d", v.Currency)
	line(healthStyle(v.Health), "Health %s %d", bar(v.Health, types.MaxHealth, 10), v.Health)
	line(styleDefault, "Sperm  %s", v.Character)
	if v.Autopilot {
		line(styleDim, "autopilot on (tab)")
	}
	line(styleDim, "games %d  avg %.1f  best %d", v.Stats.GamesPlayed, v.Stats.AverageScore, v.Stats.BestScore)
	return y
}

func (f *Frontend) drawShop(v *game.View, x, y int, title string) {
	f.text(x, y, styleTitle, title)
	y += 2
	for i, c := range v.Shop {
		status := fmt.Sprintf("%d coins", c.Price)
		switch {
		case c.Selected:
			status = "selected"
		case c.Unlocked:
			status = "owned"
		}
		cursor := "  "
		style := styleDim
		if i == v.Cursor {
			cursor, style = "> ", styleDefault
		}
		f.text(x, y, style, fmt.Sprintf("%s%-9s %-20s %s", cursor, c.Name, c.Special, status))
		y++
	}
	y++
	f.text(x, y, styleDim, "left/right browse, b buy/select, m menu")
	f.text(x, y+1, styleCoins, "eggs: 1 bronze 5, 2 silver 15, 3 gold 30, 4 diamond 50")
}

func (f *Frontend) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		f.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func healthStyle(health int) tcell.Style {
	switch {
	case health > 60:
		return styleDefault.Foreground(tcell.ColorGreen)
	case health > 30:
		return styleDefault.Foreground(tcell.ColorYellow)
	default:
		return styleDefault.Foreground(tcell.ColorRed)
	}
}

func bar(value, maxValue, width int) string {
	filled := value * width / maxValue
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = '#'
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}
