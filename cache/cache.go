// Package cache implements the Cache component: a per-(rule, variant)
// index of current match positions for every enabled rule, plus the
// derived non-empty set that the Engine samples from.
package cache

import (
	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/match"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/rule"
)

// Anchor is a match position reported at the variant's origin-adjusted
// anchor, not its top-left corner.
type Anchor struct {
	X, Y int
}

// Entry is one (rule, variant) cache row: every anchor position where that
// variant currently matches the World.
type Entry struct {
	RuleIndex    int
	VariantIndex int
	Matches      []Anchor
}

// Cache holds every enabled rule's match entries plus the indices of the
// entries with a nonempty Matches list (MatchIndex).
type Cache struct {
	Entries    []Entry
	MatchIndex []int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// Rebuild clears the cache and rescans every enabled rule's variants over
// the whole [-border, side+border) window.
func (c *Cache) Rebuild(w match.Reader, rules []*rule.Rule, groups []core.CellGroup, side int) {
	c.Entries = c.Entries[:0]
	for ruleIndex := range rules {
		c.scanRule(w, rules, groups, side, ruleIndex)
	}
	c.refreshMatchIndex()
}

// scanRule appends fresh entries for one rule's variants (no-op if the
// rule is disabled). Used by Rebuild and by the AddRule/UpdateRule
// invalidation triggers.
func (c *Cache) scanRule(w match.Reader, rules []*rule.Rule, groups []core.CellGroup, side int, ruleIndex int) {
	r := rules[ruleIndex]
	if !r.Enabled {
		return
	}
	for variantIndex, variant := range r.Variants {
		c.Entries = append(c.Entries, Entry{
			RuleIndex:    ruleIndex,
			VariantIndex: variantIndex,
			Matches:      scanVariant(w, variant, groups, side),
		})
	}
}

// scanVariant enumerates every anchor in [-borderX, side+borderX) ×
// [-borderY, side+borderY) where variant matches, with borderX = w-1,
// borderY = h-1.
func scanVariant(w match.Reader, variant pattern.Pattern, groups []core.CellGroup, side int) []Anchor {
	borderX := variant.Width - 1
	borderY := variant.Height - 1

	var matches []Anchor
	for ay := -borderY; ay < side+borderY; ay++ {
		for ax := -borderX; ax < side+borderX; ax++ {
			cornerX := ax - variant.OriginX
			cornerY := ay - variant.OriginY
			if match.Matches(w, cornerX, cornerY, variant, groups) {
				matches = append(matches, Anchor{ax, ay})
			}
		}
	}
	return matches
}

// Update repairs the cache after an edit to the rectangle described by
// edit, per-entry: anchors whose bounding rectangle overlaps edit are
// discarded, then the expanded rectangle is rescanned for new matches.
func (c *Cache) Update(w match.Reader, rules []*rule.Rule, groups []core.CellGroup, edit core.Area) {
	for i := range c.Entries {
		e := &c.Entries[i]
		variant := rules[e.RuleIndex].Variants[e.VariantIndex]
		vw, vh := variant.Width, variant.Height

		kept := e.Matches[:0]
		for _, a := range e.Matches {
			bbox := core.Area{X: a.X - variant.OriginX, Y: a.Y - variant.OriginY, Width: vw, Height: vh}
			if !edit.Overlaps(bbox) {
				kept = append(kept, a)
			}
		}
		e.Matches = kept

		minX := edit.X - (vw - 1)
		maxX := edit.X + edit.Width + (vw - 1)
		minY := edit.Y - (vh - 1)
		maxY := edit.Y + edit.Height + (vh - 1)

		for ay := minY; ay < maxY; ay++ {
			for ax := minX; ax < maxX; ax++ {
				cornerX := ax - variant.OriginX
				cornerY := ay - variant.OriginY
				if !match.Matches(w, cornerX, cornerY, variant, groups) {
					continue
				}
				if !containsAnchor(e.Matches, ax, ay) {
					e.Matches = append(e.Matches, Anchor{ax, ay})
				}
			}
		}
	}
	c.refreshMatchIndex()
}

func containsAnchor(matches []Anchor, x, y int) bool {
	for _, a := range matches {
		if a.X == x && a.Y == y {
			return true
		}
	}
	return false
}

// AddRule caches a single newly-added rule (its entries are appended; no
// other entry is touched).
func (c *Cache) AddRule(w match.Reader, rules []*rule.Rule, groups []core.CellGroup, side int, ruleIndex int) {
	c.scanRule(w, rules, groups, side, ruleIndex)
	c.refreshMatchIndex()
}

// UpdateRule drops ruleIndex's existing entries (its variants may have
// changed) and re-scans it from scratch.
func (c *Cache) UpdateRule(w match.Reader, rules []*rule.Rule, groups []core.CellGroup, side int, ruleIndex int) {
	c.dropRule(ruleIndex)
	c.scanRule(w, rules, groups, side, ruleIndex)
	c.refreshMatchIndex()
}

// RemoveRule drops ruleIndex's entries and renumbers the RuleIndex of every
// entry for a rule that came after it, keeping indices consistent with the
// caller's rules slice after it removes the same element.
func (c *Cache) RemoveRule(ruleIndex int) {
	c.dropRule(ruleIndex)
	for i := range c.Entries {
		if c.Entries[i].RuleIndex > ruleIndex {
			c.Entries[i].RuleIndex--
		}
	}
	c.refreshMatchIndex()
}

func (c *Cache) dropRule(ruleIndex int) {
	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if e.RuleIndex != ruleIndex {
			kept = append(kept, e)
		}
	}
	c.Entries = kept
}

// refreshMatchIndex recomputes MatchIndex from scratch.
func (c *Cache) refreshMatchIndex() {
	c.MatchIndex = c.MatchIndex[:0]
	for i, e := range c.Entries {
		if len(e.Matches) > 0 {
			c.MatchIndex = append(c.MatchIndex, i)
		}
	}
}
