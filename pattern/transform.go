package pattern

// FlipX mirrors a pattern horizontally (x ↦ width-1-x), rewriting Copy
// sources and the origin along the same map.
func FlipX(p Pattern) Pattern {
	out := NewSized(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			e := p.Get(p.Width-1-x, y)
			if e.To.Kind == ToCopy {
				e.To.CopyX = p.Width - 1 - e.To.CopyX
			}
			out.Set(x, y, e)
		}
	}
	out.OriginX = p.Width - 1 - p.OriginX
	out.OriginY = p.OriginY
	return out
}

// FlipY mirrors a pattern vertically (y ↦ height-1-y).
func FlipY(p Pattern) Pattern {
	out := NewSized(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			e := p.Get(x, p.Height-1-y)
			if e.To.Kind == ToCopy {
				e.To.CopyY = p.Height - 1 - e.To.CopyY
			}
			out.Set(x, y, e)
		}
	}
	out.OriginX = p.OriginX
	out.OriginY = p.Height - 1 - p.OriginY
	return out
}

// Rotate180 rotates a pattern by 180 degrees (equivalent to flipping both
// axes at once).
func Rotate180(p Pattern) Pattern {
	out := NewSized(p.Width, p.Height)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			e := p.Get(p.Width-1-x, p.Height-1-y)
			if e.To.Kind == ToCopy {
				e.To.CopyX = p.Width - 1 - e.To.CopyX
				e.To.CopyY = p.Height - 1 - e.To.CopyY
			}
			out.Set(x, y, e)
		}
	}
	out.OriginX = p.Width - 1 - p.OriginX
	out.OriginY = p.Height - 1 - p.OriginY
	return out
}

// Rotate90 rotates a pattern 90 degrees clockwise, swapping width and
// height. A pattern-local coordinate (cx, cy) — a Copy source or the
// origin — transforms as (cx, cy) ↦ (height-1-cy, cx), so the same
// conceptual cell keeps its meaning after rotation.
func Rotate90(p Pattern) Pattern {
	newWidth, newHeight := p.Height, p.Width
	out := NewSized(newWidth, newHeight)
	for ny := 0; ny < newHeight; ny++ {
		for nx := 0; nx < newWidth; nx++ {
			oldX := ny
			oldY := p.Height - 1 - nx
			e := p.Get(oldX, oldY)
			if e.To.Kind == ToCopy {
				e.To.CopyX, e.To.CopyY = p.Height-1-e.To.CopyY, e.To.CopyX
			}
			out.Set(nx, ny, e)
		}
	}
	out.OriginX = p.Height - 1 - p.OriginY
	out.OriginY = p.OriginX
	return out
}

// GenerateVariants derives the deduplicated set of symmetry images of base
// under the enabled transforms, in the order: identity, horizontal flip,
// vertical flip, 180° rotation, 90° rotation. It is idempotent: calling it
// again on any of its own outputs with the same flags reproduces the same
// set (as an unordered set), because membership is decided by structural
// equality, not by which call produced a variant.
func GenerateVariants(base Pattern, flipX, flipY, rotate bool) []Pattern {
	variants := []Pattern{base}
	if flipX {
		variants = appendTransform(variants, FlipX)
	}
	if flipY {
		variants = appendTransform(variants, FlipY)
	}
	if rotate {
		variants = appendTransform(variants, Rotate180)
		variants = appendTransform(variants, Rotate90)
	}
	return variants
}

// appendTransform applies f to every current variant and appends the
// results that aren't already present, mirroring the reference
// implementation's transform_variants: duplicates are checked against the
// variants seen before this call, not against siblings added within it.
func appendTransform(variants []Pattern, f func(Pattern) Pattern) []Pattern {
	var fresh []Pattern
	for _, v := range variants {
		nv := f(v)
		if !containsPattern(variants, nv) {
			fresh = append(fresh, nv)
		}
	}
	return append(variants, fresh...)
}

func containsPattern(list []Pattern, p Pattern) bool {
	for _, v := range list {
		if v.Equal(p) {
			return true
		}
	}
	return false
}
