package game

import (
	"errors"
	"fmt"

	"sperm-survival/game/manager"
	"sperm-survival/game/types"
)

// Command is a frontend-independent player input
type Command int

const (
	CmdNone Command = iota
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdConfirm // start from the menu, restart after game over
	CmdPause
	CmdMenu
	CmdPrevCharacter
	CmdNextCharacter
	CmdBuySelect
	CmdEggBronze
	CmdEggSilver
	CmdEggGold
	CmdEggDiamond
	CmdToggleAutopilot
	CmdQuit
)

var commandDirections = map[Command]types.Direction{
	CmdUp:    types.Up,
	CmdDown:  types.Down,
	CmdLeft:  types.Left,
	CmdRight: types.Right,
}

var commandEggs = map[Command]types.ItemKind{
	CmdEggBronze:  types.EggBronze,
	CmdEggSilver:  types.EggSilver,
	CmdEggGold:    types.EggGold,
	CmdEggDiamond: types.EggDiamond,
}

// Handle applies a command in the context of the current state. Commands
// that make no sense in that state are ignored.
func (g *Game) Handle(cmd Command) error {
	state := g.state.State()
	inShop := state == manager.StateMenu || state == manager.StateGameOver

	if dir, ok := commandDirections[cmd]; ok {
		if state == manager.StatePlaying {
			g.Turn(dir)
		}
		return nil
	}
	if kind, ok := commandEggs[cmd]; ok {
		if inShop {
			_, err := g.OpenEgg(kind)
			return ignoreFunds(err)
		}
		return nil
	}

	switch cmd {
	case CmdConfirm:
		switch state {
		case manager.StateMenu:
			return g.Start()
		case manager.StateGameOver:
			return g.Restart()
		}
	case CmdPause:
		if state == manager.StatePlaying || state == manager.StatePaused {
			return g.TogglePause()
		}
	case CmdMenu:
		if state != manager.StateMenu {
			return g.ReturnToMenu()
		}
	case CmdPrevCharacter:
		if inShop {
			g.MoveCursor(-1)
		}
	case CmdNextCharacter:
		if inShop {
			g.MoveCursor(1)
		}
	case CmdBuySelect:
		if inShop {
			return ignoreFunds(g.BuyOrSelect(manager.Characters[g.cursor].ID))
		}
	case CmdToggleAutopilot:
		g.SetAutopilot(!g.autopilot)
	}
	return nil
}

// ignoreFunds drops the error a player causes by shopping with too few
// coins; it was already reported on screen
func ignoreFunds(err error) error {
	if errors.Is(err, manager.ErrInsufficientFunds) {
		return nil
	}
	return err
}

// MoveCursor steps the shop cursor, wrapping at both ends
func (g *Game) MoveCursor(delta int) {
	n := len(manager.Characters)
	g.cursor = ((g.cursor+delta)%n + n) % n
	g.publish()
}

// BuyOrSelect selects an owned character or buys and selects a locked one
func (g *Game) BuyOrSelect(id string) error {
	defer g.publish()

	c, ok := g.characters.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", manager.ErrUnknownCharacter, id)
	}

	if !g.characters.IsUnlocked(id) {
		if err := g.characters.Purchase(id); err != nil {
			if errors.Is(err, manager.ErrInsufficientFunds) {
				g.sound.Play(CueDenied)
				g.showMessage("Not enough coins!")
			}
			return err
		}
		g.sound.Play(CueCoins)
		g.showMessage(fmt.Sprintf("Unlocked %s!", c.Name))
	}

	return g.characters.Select(id)
}

// OpenEgg buys and opens a shop egg
func (g *Game) OpenEgg(kind types.ItemKind) (manager.EggOpening, error) {
	defer g.publish()

	opening, err := g.economy.OpenEgg(kind)
	if err != nil {
		if errors.Is(err, manager.ErrInsufficientFunds) {
			g.sound.Play(CueDenied)
			g.showMessage("Not enough coins!")
		}
		return opening, err
	}

	if opening.Empty {
		g.showMessage(fmt.Sprintf("Empty %s egg...", kind.Tier()))
	} else {
		g.sound.Play(CueCoins)
		g.showMessage(fmt.Sprintf("+%d coins!", opening.Reward))
	}
	return opening, nil
}
