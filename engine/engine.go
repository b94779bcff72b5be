// Package engine ties the World, Rules, Groups, CellTypes, and Cache
// together behind the single surface a host loop or editor drives: mutate
// cells or rules, then sample and apply one rewrite at a time.
package engine

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/petridish/cache"
	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/metrics"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/rule"
	"github.com/lixenwraith/petridish/world"
)

// Engine owns every piece of dish state and is the only thing allowed to
// mutate Rules or Groups in a way that keeps the Cache coherent.
type Engine struct {
	World  *world.World
	Rules  []*rule.Rule
	Groups []core.CellGroup
	Types  []core.CellType
	Cache  *cache.Cache

	// Metrics is optional; when set, step calls, rule applications, cache
	// rebuilds and incremental cache updates report to it. Nil by default so constructing an Engine never
	// touches the default Prometheus registry.
	Metrics *metrics.Collector

	rng *rand.Rand
}

// observeCache reports the cache's current size to Metrics, if set.
func (e *Engine) observeCache() {
	if e.Metrics == nil {
		return
	}
	anchors := 0
	for _, entry := range e.Cache.Entries {
		anchors += len(entry.Matches)
	}
	e.Metrics.ObserveCache(len(e.Cache.Entries), anchors)
}

// New returns an engine with an empty, unfilled world and no rules, types,
// or groups. Use NewDefault for the reference starting dish.
func New(side int) *Engine {
	return &Engine{
		World: world.New(side),
		Cache: cache.New(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewDefault returns the reference starting dish: a 32×32 world seeded at
// 25% density with pink_sand (Cell 1) over air (Cell 0), one void "empty"
// group, and the fall/slide rule pair, with the cache already built.
func NewDefault() *Engine {
	e := New(world.Size)
	e.Types = []core.CellType{
		{Name: "air", Color: core.RGBBlack},
		{Name: "pink_sand", Color: core.RGB{R: 255, G: 147, B: 219}},
	}
	e.Groups = []core.CellGroup{
		{Name: "empty", Void: true, Cells: []core.Cell{0}},
	}
	e.seedRandomOnes(0.25)
	e.Rules = []*rule.Rule{defaultFallRule(), defaultSlideRule()}
	e.RebuildCache()
	return e
}

func (e *Engine) seedRandomOnes(density float64) {
	e.World.Fill(core.Cell(0))
	side := e.World.Side()
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if e.rng.Float64() < density {
				e.World.Set(x, y, core.Cell(1))
			}
		}
	}
}

// Reseed clears the world and refills it at the given density with Cell(1)
// over Cell(0), then rebuilds the cache. Intended for interactive drivers
// that want NewDefault's starting look without discarding the current rule
// set.
func (e *Engine) Reseed(density float64) {
	e.seedRandomOnes(density)
	e.RebuildCache()
}

func defaultFallRule() *rule.Rule {
	r := rule.New()
	r.Name = "fall"
	r.Enabled = true
	r.Base = pattern.NewSized(1, 2)
	r.Base.Set(0, 0, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 1},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 0},
	})
	r.Base.Set(0, 1, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 0},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 1},
	})
	r.GenerateVariants()
	return r
}

func defaultSlideRule() *rule.Rule {
	r := rule.New()
	r.Name = "slide"
	r.Enabled = true
	r.FlipX = true
	r.Base = pattern.NewSized(2, 2)
	r.Base.Set(0, 0, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 1},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 0},
	})
	r.Base.Set(1, 0, pattern.Entry{})
	r.Base.Set(0, 1, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 1},
	})
	r.Base.Set(1, 1, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 0},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 1},
	})
	r.GenerateVariants()
	return r
}

// GetCell returns the world's reading at (x, y).
func (e *Engine) GetCell(x, y int) core.Reading {
	return e.World.Get(x, y)
}

// SetCell writes cell at (x, y) and repairs the cache over the 1×1 edited
// rectangle.
func (e *Engine) SetCell(x, y int, cell core.Cell) {
	e.World.Set(x, y, cell)
	e.Cache.Update(e.World, e.Rules, e.Groups, core.Area{X: x, Y: y, Width: 1, Height: 1})
	if e.Metrics != nil {
		e.Metrics.RecordIncrementalUpdate()
	}
	e.observeCache()
}

// Fill overwrites every cell and rebuilds the cache from scratch, since
// every position may have changed.
func (e *Engine) Fill(cell core.Cell) {
	e.World.Fill(cell)
	e.RebuildCache()
}

// RebuildCache discards and recomputes the entire cache.
func (e *Engine) RebuildCache() {
	e.Cache.Rebuild(e.World, e.Rules, e.Groups, e.World.Side())
	if e.Metrics != nil {
		e.Metrics.RecordRebuild()
	}
	e.observeCache()
}

// AddRule appends r to the rule table and caches its matches (a no-op on
// the cache if r is disabled).
func (e *Engine) AddRule(r *rule.Rule) int {
	e.Rules = append(e.Rules, r)
	index := len(e.Rules) - 1
	e.Cache.AddRule(e.World, e.Rules, e.Groups, e.World.Side(), index)
	return index
}

// RemoveRule deletes the rule at index and renumbers the cache entries of
// every later rule to match the shifted slice.
func (e *Engine) RemoveRule(index int) {
	e.Cache.RemoveRule(index)
	e.Rules = append(e.Rules[:index], e.Rules[index+1:]...)
}

// CloneRule appends a deep copy of the rule at index (same enabled state)
// and caches it independently.
func (e *Engine) CloneRule(index int) int {
	return e.AddRule(e.Rules[index].Clone())
}

// UpdateRule must be called after any mutation of the rule at index (e.g.
// toggling Enabled, or rule.Rule's SetEntry/Resize, which regenerate
// variants but never touch the cache); it drops and recomputes that rule's
// cache entries. A no-op for an out-of-range index.
func (e *Engine) UpdateRule(index int) {
	if index < 0 || index >= len(e.Rules) {
		return
	}
	e.Cache.UpdateRule(e.World, e.Rules, e.Groups, e.World.Side(), index)
}

// VariantCount reports the number of derived variants for the rule at
// index.
func (e *Engine) VariantCount(index int) int {
	return e.Rules[index].VariantCount()
}
