package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"sperm-survival/game"
	"sperm-survival/game/manager"
	"sperm-survival/game/types"
)

const borderPadding = 10 // padding around the board

var (
	background = rl.Color{R: 0x2a, G: 0x10, B: 0x3a, A: 255}
	panelColor = rl.Color{R: 0x3d, G: 0x1d, B: 0x52, A: 255}
	splash     = rl.Color{R: 0xee, G: 0xcc, B: 0xff, A: 255}
	dimmed     = rl.Color{R: 0, G: 0, B: 0, A: 170}
)

var characterColors = map[string]rl.Color{
	"orange": rl.Orange,
	"red":    rl.Red,
	"blue":   rl.Blue,
	"gold":   rl.Gold,
	"black":  rl.Color{R: 30, G: 30, B: 30, A: 255},
}

var itemColors = map[types.ItemKind]rl.Color{
	types.Good1:      rl.Color{R: 0x9b, G: 0xe5, B: 0x64, A: 255},
	types.Good2:      rl.Green,
	types.Good3:      rl.Lime,
	types.Good4:      rl.DarkGreen,
	types.Bad1:       rl.Color{R: 0xe5, G: 0x7b, B: 0x64, A: 255},
	types.Bad2:       rl.Red,
	types.Bad3:       rl.Maroon,
	types.Bad4:       rl.Purple,
	types.EggBronze:  rl.Color{R: 0xcd, G: 0x7f, B: 0x32, A: 255},
	types.EggSilver:  rl.LightGray,
	types.EggGold:    rl.Gold,
	types.EggDiamond: rl.SkyBlue,
}

// Renderer draws published game views into the raylib window
type Renderer struct {
	cellSize     int32
	screenWidth  int32
	screenHeight int32
	gameWidth    int32
	statsPanel   int32
	gridWidth    int32
	gridHeight   int32
	offsetX      int32
	offsetY      int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 4
	r.gameWidth = r.screenWidth - r.statsPanel
}

func (r *Renderer) Draw(v *game.View) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(background)

	fontSize := min(r.screenHeight/30, r.statsPanel/12)
	lineHeight := fontSize + fontSize/2

	availableWidth := r.gameWidth - borderPadding*2
	availableHeight := r.screenHeight - borderPadding*2
	r.cellSize = min(availableWidth/int32(v.Grid.Width), availableHeight/int32(v.Grid.Height))

	r.gridWidth = r.cellSize * int32(v.Grid.Width)
	r.gridHeight = r.cellSize * int32(v.Grid.Height)
	r.offsetX = borderPadding + (availableWidth-r.gridWidth)/2
	r.offsetY = (r.screenHeight - r.gridHeight) / 2

	r.drawBoard(v)
	r.drawStatsPanel(v, fontSize, lineHeight)

	switch v.State {
	case manager.StateMenu.String():
		r.drawShop(v, "SPERM SURVIVAL", "ENTER to swim", fontSize, lineHeight)
	case manager.StateGameOver.String():
		title := fmt.Sprintf("GAME OVER  score %d  +%d coins", v.Score, v.Payout)
		if v.NewRecord {
			title += "  NEW HIGH SCORE!"
		}
		r.drawShop(v, title, "ENTER to restart, M for menu", fontSize, lineHeight)
	case manager.StatePaused.String():
		r.drawOverlay("PAUSED", "P to resume", fontSize*2)
	}

	if v.Message != "" {
		r.drawBanner(v.Message, fontSize)
	}
	rl.EndDrawing()
}

func (r *Renderer) cellRect(p types.Point) (int32, int32) {
	return r.offsetX + int32(p.X)*r.cellSize, r.offsetY + int32(p.Y)*r.cellSize
}

func (r *Renderer) drawBoard(v *game.View) {
	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.gridWidth+2, r.gridHeight+2, rl.DarkGray)
	for x := 0; x < v.Grid.Width; x++ {
		for y := 0; y < v.Grid.Height; y++ {
			cx, cy := r.cellRect(types.Point{X: x, Y: y})
			rl.DrawRectangleLines(cx, cy, r.cellSize, r.cellSize, rl.Gray)
		}
	}

	for _, it := range v.Items {
		cx, cy := r.cellRect(it.Pos)
		half := float32(r.cellSize) / 2
		center := rl.Vector2{X: float32(cx) + half, Y: float32(cy) + half}
		if it.Kind.IsEgg() {
			rl.DrawEllipse(int32(center.X), int32(center.Y), half*0.7, half*0.9, itemColors[it.Kind])
			continue
		}
		rl.DrawCircleV(center, half*0.8, itemColors[it.Kind])
	}

	color := rl.White
	for _, c := range v.Shop {
		if c.ID == v.Character {
			color = characterColors[c.Color]
		}
	}
	for i := len(v.Body) - 1; i >= 0; i-- {
		cx, cy := r.cellRect(v.Body[i])
		if i == 0 {
			r.drawHead(cx, cy, v.Heading, color, v.Frame)
			continue
		}
		// the tail thins out toward the end
		inset := int32(i) * r.cellSize / int32(4*len(v.Body))
		rl.DrawRectangle(cx+inset, cy+inset, r.cellSize-2*inset, r.cellSize-2*inset, splash)
	}
}

func (r *Renderer) drawHead(x, y int32, heading types.Direction, color rl.Color, frame int) {
	rl.DrawRectangle(x, y, r.cellSize, r.cellSize, color)

	half := r.cellSize / 2
	wobble := int32(frame%2) * r.cellSize / 10
	d := heading.ToPoint()
	var a, b, c rl.Vector2
	switch {
	case d.X > 0:
		a = rl.Vector2{X: float32(x + r.cellSize), Y: float32(y + half + wobble)}
		b = rl.Vector2{X: float32(x + half), Y: float32(y)}
		c = rl.Vector2{X: float32(x + half), Y: float32(y + r.cellSize)}
	case d.X < 0:
		a = rl.Vector2{X: float32(x), Y: float32(y + half + wobble)}
		b = rl.Vector2{X: float32(x + half), Y: float32(y + r.cellSize)}
		c = rl.Vector2{X: float32(x + half), Y: float32(y)}
	case d.Y > 0:
		a = rl.Vector2{X: float32(x + half + wobble), Y: float32(y + r.cellSize)}
		b = rl.Vector2{X: float32(x + r.cellSize), Y: float32(y + half)}
		c = rl.Vector2{X: float32(x), Y: float32(y + half)}
	default:
		a = rl.Vector2{X: float32(x + half + wobble), Y: float32(y)}
		b = rl.Vector2{X: float32(x), Y: float32(y + half)}
		c = rl.Vector2{X: float32(x + r.cellSize), Y: float32(y + half)}
	}
	rl.DrawTriangle(a, b, c, rl.Yellow)
}

func (r *Renderer) drawStatsPanel(v *game.View, fontSize, lineHeight int32) {
	x := r.gameWidth + 5
	y := int32(10)
	rl.DrawRectangle(x-5, 0, r.statsPanel+5, r.screenHeight, panelColor)

	line := func(text string, color rl.Color) {
		rl.DrawText(text, x, y, fontSize, color)
		y += lineHeight
	}

	if label := v.Identity.Label(); label != "" {
		line(label, splash)
	}
	line(fmt.Sprintf("Score: %d", v.Score), rl.White)
	line(fmt.Sprintf("High: %d", v.HighScore), rl.White)
	line(fmt.Sprintf("Coins: %d", v.Currency), rl.Gold)

	rl.DrawText("Health", x, y, fontSize, rl.White)
	y += lineHeight
	barWidth := r.statsPanel - 20
	rl.DrawRectangle(x, y, barWidth, fontSize, rl.DarkGray)
	rl.DrawRectangle(x, y, barWidth*int32(v.Health)/types.MaxHealth, fontSize, healthColor(v.Health))
	y += lineHeight * 3 / 2

	line(fmt.Sprintf("Character: %s", v.Character), rl.White)
	if v.Autopilot {
		line("Autopilot ON (TAB)", rl.SkyBlue)
	}

	y += lineHeight / 2
	line("History", rl.White)
	line(fmt.Sprintf("Games: %d", v.Stats.GamesPlayed), rl.LightGray)
	line(fmt.Sprintf("Avg: %.1f", v.Stats.AverageScore), rl.LightGray)
	line(fmt.Sprintf("Best: %d", v.Stats.BestScore), rl.LightGray)
	line(fmt.Sprintf("Longest: %.0fs", v.Stats.MaxDuration), rl.LightGray)
}

func healthColor(health int) rl.Color {
	switch {
	case health > 60:
		return rl.Green
	case health > 30:
		return rl.Yellow
	default:
		return rl.Red
	}
}

func (r *Renderer) drawOverlay(title, hint string, fontSize int32) {
	rl.DrawRectangle(r.offsetX, r.offsetY, r.gridWidth, r.gridHeight, dimmed)
	r.centered(title, r.offsetY+r.gridHeight/2-fontSize, fontSize, rl.White)
	r.centered(hint, r.offsetY+r.gridHeight/2+fontSize/2, fontSize/2, rl.LightGray)
}

func (r *Renderer) drawShop(v *game.View, title, hint string, fontSize, lineHeight int32) {
	rl.DrawRectangle(r.offsetX, r.offsetY, r.gridWidth, r.gridHeight, dimmed)

	y := r.offsetY + lineHeight
	r.centered(title, y, fontSize, splash)
	y += lineHeight
	r.centered(hint, y, fontSize*3/4, rl.LightGray)
	y += lineHeight * 3 / 2

	for i, c := range v.Shop {
		status := fmt.Sprintf("%d coins", c.Price)
		switch {
		case c.Selected:
			status = "selected"
		case c.Unlocked:
			status = "owned"
		}
		text := fmt.Sprintf("%s  %s  (%s)", c.Name, c.Special, status)
		color := rl.LightGray
		if i == v.Cursor {
			text = "> " + text
			color = rl.White
		}
		r.centered(text, y, fontSize*3/4, color)
		y += lineHeight
	}

	y += lineHeight / 2
	r.centered("LEFT/RIGHT browse  B buy/select", y, fontSize*3/4, rl.LightGray)
	y += lineHeight
	r.centered("Eggs: 1 bronze 5  2 silver 15  3 gold 30  4 diamond 50", y, fontSize*3/4, rl.Gold)
}

func (r *Renderer) drawBanner(msg string, fontSize int32) {
	width := rl.MeasureText(msg, fontSize) + 20
	x := r.offsetX + (r.gridWidth-width)/2
	y := r.offsetY + r.gridHeight - fontSize*3
	rl.DrawRectangle(x, y, width, fontSize+10, dimmed)
	rl.DrawText(msg, x+10, y+5, fontSize, rl.Yellow)
}

func (r *Renderer) centered(text string, y, fontSize int32, color rl.Color) {
	width := rl.MeasureText(text, fontSize)
	rl.DrawText(text, r.offsetX+(r.gridWidth-width)/2, y, fontSize, color)
}
