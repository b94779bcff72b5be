package engine

import (
	"github.com/lixenwraith/petridish/cache"
	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/pattern"
)

// StepCached applies one match, sampled uniformly over cache entries and
// then uniformly within the chosen entry. This favors rules with few
// current matches, since every entry gets the same weight regardless of
// how many anchors it holds. Reports whether a rewrite actually ran (false
// if there were no matches, or the rule's failrate roll aborted it).
func (e *Engine) StepCached() bool {
	if e.Metrics != nil {
		e.Metrics.RecordStep("cached")
	}
	if len(e.Cache.MatchIndex) == 0 {
		return false
	}
	entryIndex := e.Cache.MatchIndex[e.rng.Intn(len(e.Cache.MatchIndex))]
	entry := e.Cache.Entries[entryIndex]
	anchor := entry.Matches[e.rng.Intn(len(entry.Matches))]
	return e.applyAndInvalidate(entry.RuleIndex, entry.VariantIndex, anchor.X, anchor.Y)
}

// StepSampled tries one location: a position is sampled uniformly over the
// grid enlarged by the widest enabled variant's border, then a rule is
// chosen uniformly among those with a cached match at exactly that
// position. This favors rare matches less than StepCached, since the
// location is chosen first and every rule present there is equally likely.
// Reports whether a rewrite actually ran.
func (e *Engine) StepSampled() bool {
	if e.Metrics != nil {
		e.Metrics.RecordStep("sampled")
	}
	maxW, maxH := e.maxEnabledVariantDims()
	if maxW == 0 {
		return false
	}
	side := e.World.Side()
	borderX, borderY := maxW-1, maxH-1
	ax := e.rng.Intn(side+2*borderX) - borderX
	ay := e.rng.Intn(side+2*borderY) - borderY

	var candidates []cache.Entry
	for _, entry := range e.Cache.Entries {
		for _, a := range entry.Matches {
			if a.X == ax && a.Y == ay {
				candidates = append(candidates, entry)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return false
	}
	chosen := candidates[e.rng.Intn(len(candidates))]
	return e.applyAndInvalidate(chosen.RuleIndex, chosen.VariantIndex, ax, ay)
}

func (e *Engine) maxEnabledVariantDims() (int, int) {
	maxW, maxH := 0, 0
	for _, r := range e.Rules {
		if !r.Enabled {
			continue
		}
		for _, v := range r.Variants {
			if v.Width > maxW {
				maxW = v.Width
			}
			if v.Height > maxH {
				maxH = v.Height
			}
		}
	}
	return maxW, maxH
}

// applyAndInvalidate runs apply and, regardless of whether any individual
// cell write actually fired, repairs the cache over the variant's bounding
// rectangle (apply only returns early, without writing, when the failrate
// roll aborts the whole rule — nothing to invalidate in that case).
func (e *Engine) applyAndInvalidate(ruleIndex, variantIndex, ax, ay int) bool {
	variant := e.Rules[ruleIndex].Variants[variantIndex]
	applied := e.apply(ruleIndex, variantIndex, ax, ay)
	if e.Metrics != nil {
		e.Metrics.RecordApplication(e.Rules[ruleIndex].Name, applied)
	}
	if !applied {
		return false
	}
	e.Cache.Update(e.World, e.Rules, e.Groups, core.Area{
		X:      ax - variant.OriginX,
		Y:      ay - variant.OriginY,
		Width:  variant.Width,
		Height: variant.Height,
	})
	if e.Metrics != nil {
		e.Metrics.RecordIncrementalUpdate()
	}
	e.observeCache()
	return true
}

// apply performs one rewrite at anchor (ax, ay) for rules[ruleIndex]'s
// variants[variantIndex], snapshotting the affected window before writing
// so that Copy reads see the pre-application state. Reports whether the
// failrate roll let the rule proceed (false means the world was left
// untouched).
func (e *Engine) apply(ruleIndex, variantIndex, ax, ay int) bool {
	r := e.Rules[ruleIndex]
	variant := r.Variants[variantIndex]

	// failrate/256 is the abort probability; 256 itself is unreachable from
	// an Intn(256) roll, so 255 (the maximum representable failrate) is
	// special-cased to guarantee the rule never applies.
	if r.Failrate == 255 || (r.Failrate > 0 && e.rng.Intn(256) < int(r.Failrate)) {
		return false
	}

	cornerX := ax - variant.OriginX
	cornerY := ay - variant.OriginY

	w, h := variant.Width, variant.Height
	oldState := make([]core.Reading, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			oldState[dx+w*dy] = e.World.Get(cornerX+dx, cornerY+dy)
		}
	}

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			e.writeTo(variant.Get(dx, dy).To, oldState, w, h, cornerX+dx, cornerY+dy)
		}
	}
	return true
}

func (e *Engine) writeTo(to pattern.To, oldState []core.Reading, variantWidth, variantHeight, wx, wy int) {
	switch to.Kind {
	case pattern.ToNone:
		return
	case pattern.ToOne:
		e.World.Set(wx, wy, to.Cell)
	case pattern.ToGroupRandom:
		group := e.Groups[to.Group]
		if len(group.Cells) == 0 {
			return
		}
		e.World.Set(wx, wy, group.Cells[e.rng.Intn(len(group.Cells))])
	case pattern.ToCopy:
		if to.CopyX < 0 || to.CopyX >= variantWidth || to.CopyY < 0 || to.CopyY >= variantHeight {
			return
		}
		src := oldState[to.CopyX+variantWidth*to.CopyY]
		if !src.Present {
			return
		}
		e.World.Set(wx, wy, src.Cell)
	}
}
