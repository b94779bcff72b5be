package cache

import (
	"testing"

	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/match"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/rule"
	"github.com/lixenwraith/petridish/world"
)

// fallRule returns a 1x2 rule: sand (1) over empty (0) falls down.
func fallRule() *rule.Rule {
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

func TestRebuildFindsExpectedMatch(t *testing.T) {
	w := world.New(4)
	w.Set(0, 0, core.Cell(1))

	rules := []*rule.Rule{fallRule()}
	c := New()
	c.Rebuild(w, rules, nil, 4)

	if len(c.Entries) != 1 {
		t.Fatalf("expected 1 cache entry for 1 variant, got %d", len(c.Entries))
	}
	found := false
	for _, a := range c.Entries[0].Matches {
		if a.X == 0 && a.Y == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a match anchored at (0,0)")
	}
	if len(c.MatchIndex) != 1 {
		t.Fatalf("expected 1 nonempty entry in MatchIndex, got %d", len(c.MatchIndex))
	}
}

func TestRebuildDisabledRuleProducesNoEntries(t *testing.T) {
	w := world.New(4)
	w.Set(0, 0, core.Cell(1))

	r := fallRule()
	r.Enabled = false
	c := New()
	c.Rebuild(w, []*rule.Rule{r}, nil, 4)

	if len(c.Entries) != 0 {
		t.Fatalf("disabled rule must contribute no entries, got %d", len(c.Entries))
	}
}

func TestUpdateMatchesRebuildAfterEdit(t *testing.T) {
	w := world.New(6)
	w.Set(2, 2, core.Cell(1))

	rules := []*rule.Rule{fallRule()}

	incremental := New()
	incremental.Rebuild(w, rules, nil, 6)
	w.Set(2, 2, core.Cell(0))
	w.Set(2, 3, core.Cell(1))
	incremental.Update(w, rules, nil, core.Area{X: 2, Y: 2, Width: 1, Height: 2})

	rebuilt := New()
	rebuilt.Rebuild(w, rules, nil, 6)

	if !sameAnchorSet(incremental, rebuilt) {
		t.Fatal("incremental update diverged from a full rebuild")
	}
}

func TestUpdateNeverProducesDuplicateAnchors(t *testing.T) {
	w := world.New(6)
	w.Set(0, 0, core.Cell(1))

	rules := []*rule.Rule{fallRule()}
	c := New()
	c.Rebuild(w, rules, nil, 6)
	// Invalidate the cell just above the cached match at (0,0). The match's
	// bounding rectangle does not overlap it, so the anchor is kept, yet the
	// rescan rectangle covers it and finds it again: it must survive
	// untouched, not be duplicated.
	c.Update(w, rules, nil, core.Area{X: 0, Y: -1, Width: 1, Height: 1})

	seen := map[Anchor]bool{}
	for _, e := range c.Entries {
		for _, a := range e.Matches {
			if seen[a] {
				t.Fatalf("duplicate anchor %v after Update", a)
			}
			seen[a] = true
		}
	}
}

func TestRemoveRuleRenumbersLaterEntries(t *testing.T) {
	w := world.New(4)
	w.Set(0, 0, core.Cell(1))

	rules := []*rule.Rule{fallRule(), fallRule()}
	c := New()
	c.Rebuild(w, rules, nil, 4)

	c.RemoveRule(0)
	for _, e := range c.Entries {
		if e.RuleIndex != 0 {
			t.Fatalf("expected remaining rule renumbered to 0, got %d", e.RuleIndex)
		}
	}
}

func sameAnchorSet(a, b *Cache) bool {
	flatten := func(c *Cache) map[[3]int]bool {
		out := map[[3]int]bool{}
		for _, e := range c.Entries {
			for _, m := range e.Matches {
				out[[3]int{e.RuleIndex, m.X, m.Y}] = true
			}
		}
		return out
	}
	fa, fb := flatten(a), flatten(b)
	if len(fa) != len(fb) {
		return false
	}
	for k := range fa {
		if !fb[k] {
			return false
		}
	}
	return true
}

var _ match.Reader = (*world.World)(nil)
