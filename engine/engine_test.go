package engine

import (
	"testing"

	"github.com/lixenwraith/petridish/cache"
	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/match"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/rule"
)

func fallOnlyEngine(side int) *Engine {
	e := New(side)
	e.Rules = []*rule.Rule{defaultFallRule()}
	e.RebuildCache()
	return e
}

// Scenario 1: sand falls one step.
func TestSandFallsOneStep(t *testing.T) {
	e := fallOnlyEngine(4)
	e.SetCell(0, 1, core.Cell(1))

	if len(e.Cache.MatchIndex) != 1 {
		t.Fatalf("expected exactly one cache entry with matches, got %d", len(e.Cache.MatchIndex))
	}

	e.StepCached()

	if e.GetCell(0, 1).Cell != 0 {
		t.Fatal("sand should have left its origin cell")
	}
	if e.GetCell(0, 2).Cell != 1 {
		t.Fatal("sand should have fallen into the cell below")
	}
}

// Scenario 2: sand piles at the bottom of a column and the dish reaches a
// fixed point.
func TestSandPilesAtBottom(t *testing.T) {
	e := fallOnlyEngine(3)
	e.SetCell(1, 1, core.Cell(1))

	for i := 0; i < 10; i++ {
		e.StepCached()
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := core.Cell(0)
			if x == 1 && y == 2 {
				want = 1
			}
			if got := e.GetCell(x, y).Cell; got != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

// Scenario 3: a grain sitting directly on top of another grain (so
// straight-down fall cannot match) can still reach an open diagonal
// neighbor via slide.
func TestSandSlidesWhenBlockedBelow(t *testing.T) {
	e := New(3)
	e.Rules = []*rule.Rule{defaultSlideRule()}
	// (1,1) plugs the straight-down path for the grain at (1,0); both
	// (0,1) and (2,1) are open, so both slide variants (each the flip_x
	// mirror of the other) match.
	e.SetCell(1, 0, core.Cell(1))
	e.SetCell(1, 1, core.Cell(1))
	e.RebuildCache()

	if len(e.Cache.MatchIndex) == 0 {
		t.Fatal("expected slide to have a match with a plugged straight-down path and an open diagonal")
	}
	if !e.StepCached() {
		t.Fatal("expected the chosen slide application to succeed (failrate is 0)")
	}

	if e.GetCell(1, 0).Cell == 1 {
		t.Fatal("grain should have left its start position")
	}
	if e.GetCell(0, 1).Cell != 1 && e.GetCell(2, 1).Cell != 1 {
		t.Fatal("grain should have slid to one of the open diagonal cells")
	}
	if e.GetCell(1, 1).Cell != 1 {
		t.Fatal("the blocking grain at (1,1) must be untouched by the slide")
	}
}

// Scenario 6: a rule with rotate=true (and no flips) closes under the four
// cardinal rotations, giving exactly four variants, all independently
// reachable through the cache.
func TestRotateRuleProducesFourIndependentlyMatchableVariants(t *testing.T) {
	r := rule.New()
	r.Name = "arrow"
	r.Enabled = true
	r.Rotate = true
	r.Base = pattern.NewSized(1, 2)
	r.Base.Set(0, 0, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 1},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 2},
	})
	r.Base.Set(0, 1, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 0},
	})
	r.GenerateVariants()

	if r.VariantCount() != 4 {
		t.Fatalf("expected 4 rotation variants, got %d", r.VariantCount())
	}

	e := New(5)
	e.Rules = []*rule.Rule{r}
	// Place the asymmetric 1-over-0 pair in all four cardinal orientations
	// around the center and confirm each is independently cached.
	e.SetCell(2, 1, core.Cell(1))
	e.SetCell(2, 2, core.Cell(0)) // below: vertical orientation
	e.RebuildCache()
	if len(e.Cache.MatchIndex) != 4 {
		t.Fatalf("expected all 4 rotation variants to have a cached match, got %d", len(e.Cache.MatchIndex))
	}
}

func groupMatchRule() *rule.Rule {
	r := rule.New()
	r.Name = "sink"
	r.Enabled = true
	r.Base = pattern.NewSized(1, 2)
	r.Base.Set(0, 0, pattern.Entry{
		From: pattern.From{Kind: pattern.FromOne, Cell: 1},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 0},
	})
	r.Base.Set(0, 1, pattern.Entry{
		From: pattern.From{Kind: pattern.FromGroup, Group: 0},
		To:   pattern.To{Kind: pattern.ToOne, Cell: 1},
	})
	r.GenerateVariants()
	return r
}

// Scenario 4: a rule matching against a group, including the group's void
// membership.
func TestGroupMatchSwapsThroughLiquidOrAir(t *testing.T) {
	e := New(3)
	e.Groups = []core.CellGroup{{Name: "liquid_or_air", Void: true, Cells: []core.Cell{0, 2}}}
	e.Rules = []*rule.Rule{groupMatchRule()}
	e.RebuildCache()

	e.SetCell(0, 0, core.Cell(1))
	e.SetCell(0, 1, core.Cell(2))
	e.StepCached()

	if e.GetCell(0, 0).Cell != 0 || e.GetCell(0, 1).Cell != 1 {
		t.Fatal("1 above a liquid_or_air member should swap down")
	}
}

func TestGroupMatchDoesNotFireAboveNonMember(t *testing.T) {
	e := New(3)
	e.Groups = []core.CellGroup{{Name: "liquid_or_air", Void: true, Cells: []core.Cell{0, 2}}}
	e.Rules = []*rule.Rule{groupMatchRule()}
	e.RebuildCache()

	e.SetCell(1, 0, core.Cell(1))
	e.SetCell(1, 1, core.Cell(1))

	// The lower grain at (1,1) sits above air and does match; only the upper
	// grain, anchored at (1,0) above another 1, must have no cached match.
	for _, entry := range e.Cache.Entries {
		for _, a := range entry.Matches {
			if a.X == 1 && a.Y == 0 {
				t.Fatal("a 1 above a non-member, non-void cell must not match")
			}
		}
	}
}

func copyRule() *rule.Rule {
	r := rule.New()
	r.Name = "swap"
	r.Enabled = true
	r.Base = pattern.NewSized(1, 2)
	r.Base.Set(0, 0, pattern.Entry{To: pattern.To{Kind: pattern.ToCopy, CopyX: 0, CopyY: 1}})
	r.Base.Set(0, 1, pattern.Entry{To: pattern.To{Kind: pattern.ToCopy, CopyX: 0, CopyY: 0}})
	r.GenerateVariants()
	return r
}

// Scenario 5: a Copy rule swaps a column's two cells.
func TestCopySwapsColumn(t *testing.T) {
	e := New(4)
	e.Rules = []*rule.Rule{copyRule()}
	e.SetCell(0, 0, core.Cell(5))
	e.SetCell(0, 1, core.Cell(7))

	if !e.apply(0, 0, 0, 0) {
		t.Fatal("apply should not be aborted by failrate when failrate is 0")
	}
	if e.GetCell(0, 0).Cell != 7 || e.GetCell(0, 1).Cell != 5 {
		t.Fatal("expected the column's two cells to swap")
	}
}

// Scenario 5 (edge case): when the Copy source reads Outside, the write is
// skipped rather than writing a zero value.
func TestCopyFromOutsideIsNoWrite(t *testing.T) {
	e := New(4)
	e.Rules = []*rule.Rule{copyRule()}
	e.SetCell(0, 0, core.Cell(9))

	// Anchor the pattern one row above the top edge: dy=0 reads row -1
	// (Outside), dy=1 reads row 0 (present, value 9).
	if !e.apply(0, 0, 0, -1) {
		t.Fatal("apply should not be aborted by failrate when failrate is 0")
	}
	if e.GetCell(0, 0).Cell != 9 {
		t.Fatal("row 0 must be untouched: its Copy source (row -1) reads Outside")
	}
}

// Applying a rule with failrate = 255 is a no-op on the world, per the
// testable properties.
func TestFailrate255NeverApplies(t *testing.T) {
	e := fallOnlyEngine(4)
	e.Rules[0].Failrate = 255
	e.SetCell(0, 0, core.Cell(1))

	for i := 0; i < 50; i++ {
		if e.apply(0, 0, 0, 0) {
			t.Fatal("failrate 255 must always abort application")
		}
	}
	if e.GetCell(0, 0).Cell != 1 || e.GetCell(0, 1).Cell != 0 {
		t.Fatal("world must be untouched when every application is aborted")
	}
}

// Cache-matcher consistency: after any mutation, every cached anchor must
// still satisfy the matcher directly.
func TestCacheMatcherConsistency(t *testing.T) {
	e := NewDefault()
	for i := 0; i < 20; i++ {
		e.StepCached()
	}
	for _, entry := range e.Cache.Entries {
		variant := e.Rules[entry.RuleIndex].Variants[entry.VariantIndex]
		for _, a := range entry.Matches {
			cornerX, cornerY := a.X-variant.OriginX, a.Y-variant.OriginY
			if !match.Matches(e.World, cornerX, cornerY, variant, e.Groups) {
				t.Fatalf("cached anchor (%d,%d) no longer matches after steps", a.X, a.Y)
			}
		}
	}
}

func TestNewDefaultMatchesReferenceShape(t *testing.T) {
	e := NewDefault()
	if e.World.Side() != 32 {
		t.Fatalf("expected default side 32, got %d", e.World.Side())
	}
	if len(e.Rules) != 2 || e.Rules[0].Name != "fall" || e.Rules[1].Name != "slide" {
		t.Fatal("expected default rules [fall, slide]")
	}
	if len(e.Types) != 2 || len(e.Groups) != 1 {
		t.Fatal("expected 2 default cell types and 1 default group")
	}
	if e.VariantCount(1) != 2 {
		t.Fatalf("slide (flip_x only) should have exactly 2 variants, got %d", e.VariantCount(1))
	}
}

func TestRemoveRuleThenCloneRuleKeepsCacheConsistent(t *testing.T) {
	e := NewDefault()
	e.RemoveRule(0)
	if len(e.Rules) != 1 || e.Rules[0].Name != "slide" {
		t.Fatal("expected only slide to remain")
	}
	idx := e.CloneRule(0)
	if e.Rules[idx].Name != "slide" {
		t.Fatal("clone should preserve the source rule's name")
	}
	e.RebuildCache()
	for _, entry := range e.Cache.Entries {
		if entry.RuleIndex >= len(e.Rules) {
			t.Fatal("stale rule index left in cache after remove/clone")
		}
	}
}

// update_rule(i) with an invalid i must be a no-op, per the core's
// totality guarantee.
func TestUpdateRuleInvalidIndexIsNoOp(t *testing.T) {
	e := NewDefault()
	before := make([]cache.Entry, len(e.Cache.Entries))
	copy(before, e.Cache.Entries)

	e.UpdateRule(-1)
	e.UpdateRule(len(e.Rules))
	e.UpdateRule(len(e.Rules) + 5)

	if len(e.Cache.Entries) != len(before) {
		t.Fatalf("expected cache entries untouched by an out-of-range UpdateRule, got %d want %d", len(e.Cache.Entries), len(before))
	}
	for i, entry := range e.Cache.Entries {
		if entry.RuleIndex != before[i].RuleIndex || entry.VariantIndex != before[i].VariantIndex {
			t.Fatal("expected cache entries unchanged by an out-of-range UpdateRule")
		}
	}
}
