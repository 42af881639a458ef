package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"

	"sperm-survival/game/types"
	"sperm-survival/storage"
)

// Local storage keys
const (
	KeyCurrency  = "spermGameCurrency"
	KeyUnlocked  = "spermGameUnlockedChars"
	KeySelected  = "spermSurvivalCharacter"
	KeyHighScore = "spermSurvivalHighScore"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCharacterLocked   = errors.New("character locked")
	ErrUnknownCharacter  = errors.New("unknown character")
	ErrUnknownEgg        = errors.New("unknown egg tier")
)

// EggOffer describes an egg that can be bought and opened in the shop
type EggOffer struct {
	Kind        types.ItemKind
	Cost        int
	MinReward   int
	MaxReward   int
	EmptyChance float64
}

var EggOffers = map[types.ItemKind]EggOffer{
	types.EggBronze:  {Kind: types.EggBronze, Cost: 5, MinReward: 1, MaxReward: 10, EmptyChance: 0.4},
	types.EggSilver:  {Kind: types.EggSilver, Cost: 15, MinReward: 5, MaxReward: 25, EmptyChance: 0.3},
	types.EggGold:    {Kind: types.EggGold, Cost: 30, MinReward: 20, MaxReward: 50, EmptyChance: 0.2},
	types.EggDiamond: {Kind: types.EggDiamond, Cost: 50, MinReward: 50, MaxReward: 100, EmptyChance: 0.1},
}

// EggOpening is the result of opening a shop egg
type EggOpening struct {
	Kind   types.ItemKind
	Empty  bool
	Reward int
}

// EconomySnapshot is a read-only copy of the persisted economy
type EconomySnapshot struct {
	Currency  int
	Unlocked  []string
	Selected  string
	HighScore int
}

// EconomyManager owns currency, unlocked characters, the selected character
// and the high score. Every mutation is written through to the store.
type EconomyManager struct {
	kv               storage.KV
	rng              types.Rand
	defaultCharacter string

	currency  int
	unlocked  map[string]bool
	selected  string
	highScore int
}

func NewEconomyManager(kv storage.KV, rng types.Rand, defaultCharacter string) *EconomyManager {
	em := &EconomyManager{
		kv:               kv,
		rng:              rng,
		defaultCharacter: defaultCharacter,
	}
	em.reset()
	em.Load()
	return em
}

func (em *EconomyManager) reset() {
	em.currency = 0
	em.unlocked = map[string]bool{em.defaultCharacter: true}
	em.selected = em.defaultCharacter
	em.highScore = 0
}

// Load replaces the in-memory state with what the store holds. Missing or
// malformed values fall back to defaults one key at a time.
func (em *EconomyManager) Load() {
	em.reset()

	if v, ok := em.read(KeyCurrency); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			em.currency = n
		} else {
			log.Printf("economy: bad %s value %q, using 0", KeyCurrency, v)
		}
	}

	if v, ok := em.read(KeyUnlocked); ok {
		var saved map[string]bool
		if err := json.Unmarshal([]byte(v), &saved); err != nil {
			log.Printf("economy: bad %s value: %v", KeyUnlocked, err)
		} else {
			for id, unlocked := range saved {
				if unlocked {
					em.unlocked[id] = true
				}
			}
		}
	}

	if v, ok := em.read(KeySelected); ok && em.unlocked[v] {
		em.selected = v
	}

	if v, ok := em.read(KeyHighScore); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			em.highScore = n
		}
	}
}

func (em *EconomyManager) read(key string) (string, bool) {
	v, ok, err := em.kv.Get(key)
	if err != nil {
		log.Printf("economy: failed to read %s: %v", key, err)
		return "", false
	}
	return v, ok
}

// save writes the full snapshot. Failures are logged and otherwise ignored.
func (em *EconomyManager) save() {
	unlocked, err := json.Marshal(em.unlocked)
	if err != nil {
		log.Printf("economy: failed to marshal unlocked characters: %v", err)
		return
	}

	values := []struct{ key, value string }{
		{KeyCurrency, strconv.Itoa(em.currency)},
		{KeyUnlocked, string(unlocked)},
		{KeySelected, em.selected},
		{KeyHighScore, strconv.Itoa(em.highScore)},
	}
	for _, kv := range values {
		if err := em.kv.Set(kv.key, kv.value); err != nil {
			log.Printf("economy: failed to save %s: %v", kv.key, err)
		}
	}
}

func (em *EconomyManager) Currency() int {
	return em.currency
}

// AddCurrency credits amount. Non-positive amounts are ignored.
func (em *EconomyManager) AddCurrency(amount int) {
	if amount <= 0 {
		return
	}
	em.currency += amount
	em.save()
}

// DeductCurrency debits amount if the balance covers it
func (em *EconomyManager) DeductCurrency(amount int) bool {
	if amount < 0 || em.currency < amount {
		return false
	}
	if amount == 0 {
		return true
	}
	em.currency -= amount
	em.save()
	return true
}

// UnlockCharacter buys id for price. Buying something already owned
// succeeds without charging again.
func (em *EconomyManager) UnlockCharacter(id string, price int) bool {
	if em.unlocked[id] {
		return true
	}
	if !em.DeductCurrency(price) {
		return false
	}
	em.unlocked[id] = true
	em.save()
	return true
}

func (em *EconomyManager) IsUnlocked(id string) bool {
	return em.unlocked[id]
}

// UnlockedCharacters returns the unlocked ids in sorted order
func (em *EconomyManager) UnlockedCharacters() []string {
	ids := make([]string, 0, len(em.unlocked))
	for id, ok := range em.unlocked {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (em *EconomyManager) SelectedCharacter() string {
	return em.selected
}

// SelectCharacter makes id the active character
func (em *EconomyManager) SelectCharacter(id string) error {
	if !em.unlocked[id] {
		return fmt.Errorf("%w: %s", ErrCharacterLocked, id)
	}
	em.selected = id
	em.save()
	return nil
}

func (em *EconomyManager) HighScore() int {
	return em.highScore
}

// RecordScore raises the stored high score if score beats it
func (em *EconomyManager) RecordScore(score int) bool {
	if score <= em.highScore {
		return false
	}
	em.highScore = score
	em.save()
	return true
}

// OpenEgg buys a shop egg of the given tier and credits whatever is inside
func (em *EconomyManager) OpenEgg(kind types.ItemKind) (EggOpening, error) {
	offer, ok := EggOffers[kind]
	if !ok {
		return EggOpening{}, fmt.Errorf("%w: %s", ErrUnknownEgg, kind)
	}
	if !em.DeductCurrency(offer.Cost) {
		return EggOpening{}, fmt.Errorf("%w: %s egg costs %d, balance %d", ErrInsufficientFunds, kind.Tier(), offer.Cost, em.currency)
	}

	if em.rng.Float64() < offer.EmptyChance {
		return EggOpening{Kind: kind, Empty: true}, nil
	}

	reward := offer.MinReward + int(em.rng.Float64()*float64(offer.MaxReward-offer.MinReward+1))
	if reward > offer.MaxReward {
		reward = offer.MaxReward
	}
	em.AddCurrency(reward)
	return EggOpening{Kind: kind, Reward: reward}, nil
}

func (em *EconomyManager) Snapshot() EconomySnapshot {
	return EconomySnapshot{
		Currency:  em.currency,
		Unlocked:  em.UnlockedCharacters(),
		Selected:  em.selected,
		HighScore: em.highScore,
	}
}
