package manager

import (
	"fmt"

	"sperm-survival/game/types"
)

// Character is a cosmetic skin for the snake head
type Character struct {
	ID          string
	Name        string
	ImagePrefix string
	FrameCount  int
	Description string
	Color       string
	Special     string
	Price       int
}

// FramePath returns the asset path of an animation frame. Frames are
// numbered from 1 and cycle over FrameCount.
func (c Character) FramePath(frame int) string {
	n := c.FrameCount
	if n <= 0 {
		n = types.AnimationFrames
	}
	frame %= n
	if frame < 0 {
		frame += n
	}
	return fmt.Sprintf("/game-assets/%s-%d.png", c.ImagePrefix, frame+1)
}

// Characters is the shop catalog in display order
var Characters = []Character{
	{ID: "naruto", Name: "Naruto", ImagePrefix: "sperm-head", FrameCount: 4, Description: "Fast and agile ninja sperm", Color: "orange", Special: "Shadow Clone", Price: 200},
	{ID: "flash", Name: "Flash", ImagePrefix: "flash-head", FrameCount: 4, Description: "Fastest sperm alive", Color: "red", Special: "Speed Force", Price: 400},
	{ID: "elon", Name: "Elon", ImagePrefix: "elon-head", FrameCount: 4, Description: "Tech genius sperm", Color: "blue", Special: "Rocket Boost", Price: 600},
	{ID: "superman", Name: "Superman", ImagePrefix: "superman-head", FrameCount: 4, Description: "Man of Steel sperm", Color: "blue", Special: "Flight & Heat Vision", Price: 800},
	{ID: "trump", Name: "Trump", ImagePrefix: "trump-head", FrameCount: 4, Description: "Business tycoon sperm", Color: "gold", Special: "Wall Builder", Price: 1000},
	{ID: types.DefaultCharacterID, Name: "Neo", ImagePrefix: "neo-head", FrameCount: 4, Description: "The One sperm", Color: "black", Special: "Matrix Dodge", Price: 0},
}

// CharacterManager exposes the catalog and routes purchases and selection
// through the economy
type CharacterManager struct {
	economy *EconomyManager
	byID    map[string]Character
}

func NewCharacterManager(economy *EconomyManager) *CharacterManager {
	byID := make(map[string]Character, len(Characters))
	for _, c := range Characters {
		byID[c.ID] = c
	}
	return &CharacterManager{
		economy: economy,
		byID:    byID,
	}
}

// Get looks up a character by id
func (cm *CharacterManager) Get(id string) (Character, bool) {
	c, ok := cm.byID[id]
	return c, ok
}

// Current returns the selected character, falling back to the default
func (cm *CharacterManager) Current() Character {
	if c, ok := cm.byID[cm.economy.SelectedCharacter()]; ok {
		return c
	}
	return cm.byID[types.DefaultCharacterID]
}

func (cm *CharacterManager) GetCharacters() []Character {
	out := make([]Character, len(Characters))
	copy(out, Characters)
	return out
}

// Purchase unlocks id at its catalog price
func (cm *CharacterManager) Purchase(id string) error {
	c, ok := cm.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
	}
	if !cm.economy.UnlockCharacter(c.ID, c.Price) {
		return fmt.Errorf("%w: %s costs %d, balance %d", ErrInsufficientFunds, c.Name, c.Price, cm.economy.Currency())
	}
	return nil
}

// Select makes id the active character; it must already be unlocked
func (cm *CharacterManager) Select(id string) error {
	if _, ok := cm.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
	}
	return cm.economy.SelectCharacter(id)
}

func (cm *CharacterManager) IsUnlocked(id string) bool {
	return cm.economy.IsUnlocked(id)
}
