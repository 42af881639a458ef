package entity

import "sperm-survival/game/types"

// Item is a consumable placed on the board
type Item struct {
	Pos  types.Point
	Kind types.ItemKind
}
