package types

import "fmt"

// ItemKind identifies a consumable on the board
type ItemKind int

const (
	Good1 ItemKind = iota
	Good2
	Good3
	Good4
	Bad1
	Bad2
	Bad3
	Bad4
	EggBronze
	EggSilver
	EggGold
	EggDiamond
)

// Effect is what consuming an item does to the session and the wallet
type Effect struct {
	Points int
	Health int
	Coins  int
}

var effects = [...]Effect{
	Good1:      {Points: 10, Health: 10},
	Good2:      {Points: 20, Health: 5},
	Good3:      {Points: 15, Health: 15},
	Good4:      {Points: 30, Health: 3},
	Bad1:       {Points: -5, Health: -10},
	Bad2:       {Points: -10, Health: -15},
	Bad3:       {Points: -15, Health: -20},
	Bad4:       {Points: -25, Health: -30},
	EggBronze:  {Points: 15, Health: 5, Coins: 5},
	EggSilver:  {Points: 25, Health: 10, Coins: 15},
	EggGold:    {Points: 40, Health: 15, Coins: 30},
	EggDiamond: {Points: 60, Health: 20, Coins: 50},
}

var kindNames = [...]string{
	Good1:      "good1",
	Good2:      "good2",
	Good3:      "good3",
	Good4:      "good4",
	Bad1:       "bad1",
	Bad2:       "bad2",
	Bad3:       "bad3",
	Bad4:       "bad4",
	EggBronze:  "egg-bronze",
	EggSilver:  "egg-silver",
	EggGold:    "egg-gold",
	EggDiamond: "egg-diamond",
}

// Effect returns the fixed score/health/coin triple of the kind
func (k ItemKind) Effect() Effect {
	if !k.Valid() {
		return Effect{}
	}
	return effects[k]
}

func (k ItemKind) Valid() bool {
	return k >= Good1 && k <= EggDiamond
}

func (k ItemKind) IsGood() bool { return k >= Good1 && k <= Good4 }
func (k ItemKind) IsBad() bool  { return k >= Bad1 && k <= Bad4 }
func (k ItemKind) IsEgg() bool  { return k >= EggBronze && k <= EggDiamond }

// Grows reports whether eating the kind adds a segment
func (k ItemKind) Grows() bool {
	return k.IsGood() || k.IsEgg()
}

// Tier returns the bare egg tier name ("bronze"), or "" for food
func (k ItemKind) Tier() string {
	if !k.IsEgg() {
		return ""
	}
	return kindNames[k][len("egg-"):]
}

func (k ItemKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
	return kindNames[k]
}

var (
	GoodFoods = []ItemKind{Good1, Good2, Good3, Good4}
	BadFoods  = []ItemKind{Bad1, Bad2, Bad3, Bad4}
	EggTiers  = []ItemKind{EggBronze, EggSilver, EggGold, EggDiamond}
)

// EggChance is the probability that an ordinary spawn turns into an egg of Kind
type EggChance struct {
	Kind   ItemKind
	Chance float64
}

// EggChances is the canonical egg table, common first. Ordinary spawns use
// the chances directly; the periodic rare spawner weighs tiers by them.
var EggChances = []EggChance{
	{Kind: EggBronze, Chance: 0.10},
	{Kind: EggSilver, Chance: 0.025},
	{Kind: EggGold, Chance: 0.01},
	{Kind: EggDiamond, Chance: 0.005},
}
