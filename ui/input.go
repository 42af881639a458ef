package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"sperm-survival/game"
)

type binding struct {
	key int32
	cmd game.Command
}

var bindings = []binding{
	{rl.KeyUp, game.CmdUp},
	{rl.KeyW, game.CmdUp},
	{rl.KeyDown, game.CmdDown},
	{rl.KeyS, game.CmdDown},
	{rl.KeyLeft, game.CmdLeft},
	{rl.KeyA, game.CmdLeft},
	{rl.KeyRight, game.CmdRight},
	{rl.KeyD, game.CmdRight},
	{rl.KeyEnter, game.CmdConfirm},
	{rl.KeySpace, game.CmdConfirm},
	{rl.KeyP, game.CmdPause},
	{rl.KeyEscape, game.CmdPause},
	{rl.KeyM, game.CmdMenu},
	{rl.KeyB, game.CmdBuySelect},
	{rl.KeyOne, game.CmdEggBronze},
	{rl.KeyTwo, game.CmdEggSilver},
	{rl.KeyThree, game.CmdEggGold},
	{rl.KeyFour, game.CmdEggDiamond},
	{rl.KeyTab, game.CmdToggleAutopilot},
	{rl.KeyQ, game.CmdQuit},
}

// Poll returns the commands whose keys were pressed this frame. Arrow keys
// browse the shop outside of play.
func Poll(v *game.View) []game.Command {
	var cmds []game.Command
	for _, b := range bindings {
		if rl.IsKeyPressed(b.key) {
			cmds = append(cmds, shopAware(b.cmd, v))
		}
	}
	return cmds
}

func shopAware(cmd game.Command, v *game.View) game.Command {
	if v == nil || v.Playing() {
		return cmd
	}
	switch cmd {
	case game.CmdLeft:
		return game.CmdPrevCharacter
	case game.CmdRight:
		return game.CmdNextCharacter
	}
	return cmd
}
