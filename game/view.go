package game

import (
	"sperm-survival/game/entity"
	"sperm-survival/game/manager"
	"sperm-survival/game/types"
	"sperm-survival/stats"
)

// CharacterView is one row of the character shop
type CharacterView struct {
	manager.Character
	Unlocked bool
	Selected bool
}

// View is an immutable snapshot of a game, published after every update.
// Readers on other goroutines only ever see complete snapshots.
type View struct {
	SessionID string          `json:"sessionId,omitempty"`
	State     string          `json:"state"`
	Grid      types.Grid      `json:"-"`
	Body      []types.Point   `json:"-"`
	Heading   types.Direction `json:"-"`
	Items     []entity.Item   `json:"-"`
	Score     int             `json:"score"`
	Health    int             `json:"health"`
	Currency  int             `json:"currency"`
	HighScore int             `json:"highScore"`
	Character string          `json:"character"`
	Unlocked  []string        `json:"unlocked"`
	FramePath string          `json:"framePath"`
	Frame     int             `json:"-"`
	Message   string          `json:"message,omitempty"`
	Cursor    int             `json:"-"`
	Shop      []CharacterView `json:"-"`
	Autopilot bool            `json:"autopilot"`
	Payout    int             `json:"lastPayout"`
	NewRecord bool            `json:"newHighScore"`
	Stats     stats.Summary   `json:"stats"`
	Identity  *types.Identity `json:"identity,omitempty"`
}

// Playing reports whether the snapshot was taken mid-session
func (v *View) Playing() bool {
	return v.State == manager.StatePlaying.String() || v.State == manager.StatePaused.String()
}

// ItemAt returns the item on p, if any
func (v *View) ItemAt(p types.Point) (entity.Item, bool) {
	for _, it := range v.Items {
		if it.Pos == p {
			return it, true
		}
	}
	return entity.Item{}, false
}

// SegmentAt returns the index of the body segment on p, or -1
func (v *View) SegmentAt(p types.Point) int {
	for i, part := range v.Body {
		if part == p {
			return i
		}
	}
	return -1
}
