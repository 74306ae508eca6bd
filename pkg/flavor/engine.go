package flavor

import (
	"log/slog"
	"sync"

	"github.com/brewstack/brewstack/pkg/types"
)

// DefaultCacheSize is the number of simulations an Engine remembers.
const DefaultCacheSize = 1024

// Simulation bundles everything the three core operations produce for one
// parameter set, ready to be rendered by any front end.
type Simulation struct {
	Params     types.BrewParameters `json:"params"`
	Locale     Locale               `json:"locale"`
	Profile    types.FlavorProfile  `json:"profile"`
	Indicators types.Indicators     `json:"indicators"`
	Notes      []string             `json:"notes"`
	Tips       []Tip                `json:"tips"`
	Fired      []string             `json:"fired"`
}

// Simulate runs the calculator, narrator and advisor on p. It does not
// validate p; see Engine.Simulate for the checked entry point.
func Simulate(loc Locale, p types.BrewParameters) Simulation {
	out := Compute(p)
	return Simulation{
		Params:     p,
		Locale:     loc,
		Profile:    out.Profile,
		Indicators: out.Profile.Indicators(),
		Notes:      DescribeIn(loc, out.Profile, p.ProcessMethod, p.RoastLevel),
		Tips:       Advise(loc, p),
		Fired:      out.Fired,
	}
}

// CacheStats reports Engine cache effectiveness.
type CacheStats struct {
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
}

type cacheKey struct {
	loc    Locale
	params types.BrewParameters
}

// Engine validates parameters and memoizes simulations keyed on the full
// input tuple. Because Simulate is pure, a cached result is indistinguishable
// from a fresh one. Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]Simulation
	order    []cacheKey // insertion order, oldest first
	hits     uint64
	misses   uint64
}

// NewEngine returns an Engine that keeps up to capacity results.
// A capacity <= 0 disables caching.
func NewEngine(capacity int) *Engine {
	if capacity < 0 {
		capacity = 0
	}
	return &Engine{
		capacity: capacity,
		entries:  make(map[cacheKey]Simulation, capacity),
	}
}

// Simulate validates p and returns its simulation. Invalid parameters yield an
// error wrapping types.ErrInvalidParameter.
func (e *Engine) Simulate(loc Locale, p types.BrewParameters) (Simulation, error) {
	if err := p.Validate(); err != nil {
		return Simulation{}, err
	}
	key := cacheKey{loc: loc, params: p}

	e.mu.Lock()
	if sim, ok := e.entries[key]; ok {
		e.hits++
		e.mu.Unlock()
		return sim.clone(), nil
	}
	e.misses++
	e.mu.Unlock()

	sim := Simulate(loc, p)

	e.mu.Lock()
	e.store(key, sim)
	e.mu.Unlock()

	slog.Debug("flavor: simulated",
		"locale", loc,
		"acidity", sim.Profile.Acidity,
		"sweetness", sim.Profile.Sweetness,
		"bitterness", sim.Profile.Bitterness,
		"body", sim.Profile.Body,
		"fired", len(sim.Fired),
	)
	return sim.clone(), nil
}

// Stats returns a snapshot of the cache counters.
func (e *Engine) Stats() CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CacheStats{
		Hits:     e.hits,
		Misses:   e.misses,
		Size:     len(e.entries),
		Capacity: e.capacity,
	}
}

// store inserts sim, evicting the oldest entry when full. Caller holds mu.
func (e *Engine) store(key cacheKey, sim Simulation) {
	if e.capacity == 0 {
		return
	}
	if _, ok := e.entries[key]; ok {
		return
	}
	if len(e.order) >= e.capacity {
		oldest := e.order[0]
		e.order = e.order[1:]
		delete(e.entries, oldest)
	}
	e.entries[key] = sim
	e.order = append(e.order, key)
}

// clone copies the slices so callers cannot mutate a cached value.
func (s Simulation) clone() Simulation {
	s.Notes = append([]string(nil), s.Notes...)
	s.Tips = append([]Tip(nil), s.Tips...)
	s.Fired = append([]string(nil), s.Fired...)
	return s
}
