package manager

import (
	"log"

	"sperm-survival/game/entity"
	"sperm-survival/game/types"
)

type FoodManager struct {
	grid         types.Grid
	rng          types.Rand
	items        []entity.Item
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, rng types.Rand, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		items:        make([]entity.Item, 0),
		collisionMgr: collisionMgr,
	}
}

// GenerateItems places up to count new items and returns the ones placed.
// With explicit kinds the count is capped by len(kinds); otherwise one or
// two items are drawn. body is the chain at call time.
func (fm *FoodManager) GenerateItems(count int, body []types.Point, kinds ...types.ItemKind) []entity.Item {
	if count <= 0 {
		return nil
	}
	if fm.occupied(body) >= fm.grid.Cells() {
		log.Printf("spawn: board full, skipping %d items", count)
		return nil
	}

	var actual int
	if len(kinds) > 0 {
		actual = min(count, len(kinds))
	} else {
		actual = min(count, fm.rng.Intn(2)+1)
	}

	placed := make([]entity.Item, 0, actual)
	for i := 0; i < actual; i++ {
		var kind types.ItemKind
		if i < len(kinds) {
			kind = kinds[i]
		} else {
			kind = fm.DrawKind()
		}

		pos, ok := fm.findPosition(body, placed)
		if !ok && len(placed) == 0 && i == 0 {
			pos, ok = fm.scanForFreeCell(body, placed)
		}
		if !ok {
			log.Printf("spawn: no free cell for %s, skipping", kind)
			continue
		}

		placed = append(placed, entity.Item{Pos: pos, Kind: kind})
	}

	fm.items = append(fm.items, placed...)
	return placed
}

// DrawKind picks an item kind: eggs by the cumulative egg table, then an
// even split between the good and bad pools
func (fm *FoodManager) DrawKind() types.ItemKind {
	roll := fm.rng.Float64()
	cumulative := 0.0
	for _, egg := range types.EggChances {
		cumulative += egg.Chance
		if roll < cumulative {
			return egg.Kind
		}
	}

	pool := types.GoodFoods
	if fm.rng.Float64() < 0.5 {
		pool = types.BadFoods
	}
	return pool[fm.rng.Intn(len(pool))]
}

// DrawEggTier picks a tier weighted by the egg table, so bronze dominates
func (fm *FoodManager) DrawEggTier() types.ItemKind {
	total := 0.0
	for _, egg := range types.EggChances {
		total += egg.Chance
	}

	roll := fm.rng.Float64() * total
	cumulative := 0.0
	for _, egg := range types.EggChances {
		cumulative += egg.Chance
		if roll < cumulative {
			return egg.Kind
		}
	}
	return types.EggChances[len(types.EggChances)-1].Kind
}

// TrySpawnRareEgg rolls the rare egg gate and, on success, places one egg
func (fm *FoodManager) TrySpawnRareEgg(body []types.Point) (entity.Item, bool) {
	if fm.rng.Float64() >= types.RareEggChance {
		return entity.Item{}, false
	}

	placed := fm.GenerateItems(1, body, fm.DrawEggTier())
	if len(placed) == 0 {
		return entity.Item{}, false
	}
	return placed[0], true
}

// EnsureFood refills an empty board
func (fm *FoodManager) EnsureFood(body []types.Point) []entity.Item {
	if len(fm.items) > 0 {
		return nil
	}
	return fm.GenerateItems(types.RefillSpawnCount, body)
}

// occupied counts the distinct cells taken by the chain and the items. The
// chain may overlap itself after passing through its body.
func (fm *FoodManager) occupied(body []types.Point) int {
	cells := make(map[types.Point]struct{}, len(body)+len(fm.items))
	for _, p := range body {
		cells[p] = struct{}{}
	}
	for _, it := range fm.items {
		cells[it.Pos] = struct{}{}
	}
	return len(cells)
}

func (fm *FoodManager) findPosition(body []types.Point, placed []entity.Item) (types.Point, bool) {
	for attempt := 0; attempt < types.MaxPlacementAttempts; attempt++ {
		pos := types.Point{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}
		if fm.collisionMgr.ValidateSpawnPosition(pos, body, fm.items, placed) {
			return pos, true
		}
	}
	return types.Point{}, false
}

func (fm *FoodManager) scanForFreeCell(body []types.Point, placed []entity.Item) (types.Point, bool) {
	for y := 0; y < fm.grid.Height; y++ {
		for x := 0; x < fm.grid.Width; x++ {
			pos := types.Point{X: x, Y: y}
			if fm.collisionMgr.ValidateSpawnPosition(pos, body, fm.items, placed) {
				return pos, true
			}
		}
	}
	return types.Point{}, false
}

// Take removes and returns the item at pos
func (fm *FoodManager) Take(pos types.Point) (entity.Item, bool) {
	i := fm.collisionMgr.CheckFoodCollisions(pos, fm.items)
	if i < 0 {
		return entity.Item{}, false
	}
	item := fm.items[i]
	fm.items = append(fm.items[:i], fm.items[i+1:]...)
	return item, true
}

// GetFoodList returns a copy of the active items
func (fm *FoodManager) GetFoodList() []entity.Item {
	items := make([]entity.Item, len(fm.items))
	copy(items, fm.items)
	return items
}

func (fm *FoodManager) AddFood(item entity.Item) {
	fm.items = append(fm.items, item)
}

func (fm *FoodManager) Len() int {
	return len(fm.items)
}

func (fm *FoodManager) Clear() {
	fm.items = fm.items[:0]
}
