package manager

import (
	"golang.org/x/exp/rand"

	"sperm-survival/storage"
)

// scriptedRand replays fixed draws. Once a script runs dry Intn returns 0
// and Float64 returns 0.99, which never hits an egg or an empty shop egg.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTestEconomy(currency int) (*EconomyManager, storage.KV) {
	kv := storage.NewMemory()
	em := NewEconomyManager(kv, seeded(1), "neo")
	em.AddCurrency(currency)
	return em, kv
}
