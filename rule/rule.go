// Package rule holds a Rule: a base Pattern plus symmetry flags, and the
// derived set of symmetry variants the Cache and Engine actually match
// against.
package rule

import "github.com/lixenwraith/petridish/pattern"

// Rule is a named rewrite rule: a base pattern, the symmetry flags that
// expand it, a per-application failure probability, and the derived
// variants field.
type Rule struct {
	Name     string
	Enabled  bool
	Base     pattern.Pattern
	Variants []pattern.Pattern // derived: regenerate after any change to Base, FlipX, FlipY, or Rotate
	FlipX    bool
	FlipY    bool
	Rotate   bool
	Failrate uint8 // out of 255; Engine aborts application with probability Failrate/256, and always at 255
}

// New returns a disabled 1×1 rule with no symmetry, matching the reference
// implementation's Rule::new.
func New() *Rule {
	r := &Rule{
		Name:    "new rule",
		Enabled: false,
		Base:    pattern.New(),
	}
	r.GenerateVariants()
	return r
}

// GenerateVariants recomputes Variants from Base and the symmetry flags. It
// must be called after any mutation to Base, FlipX, FlipY, or Rotate.
func (r *Rule) GenerateVariants() {
	r.Variants = pattern.GenerateVariants(r.Base, r.FlipX, r.FlipY, r.Rotate)
}

// VariantCount returns the number of derived variants.
func (r *Rule) VariantCount() int {
	return len(r.Variants)
}

// Width and Height report the base pattern's dimensions.
func (r *Rule) Width() int  { return r.Base.Width }
func (r *Rule) Height() int { return r.Base.Height }

// Get returns the base pattern's entry at (x, y).
func (r *Rule) Get(x, y int) pattern.Entry {
	return r.Base.Get(x, y)
}

// SetEntry writes the base pattern's entry at (x, y) and regenerates
// variants.
func (r *Rule) SetEntry(x, y int, entry pattern.Entry) {
	r.Base.Set(x, y, entry)
	r.GenerateVariants()
}

// Resize replaces Base with a resized copy (see pattern.Pattern.Resize) and
// regenerates variants.
func (r *Rule) Resize(params pattern.ResizeParams) {
	r.Base = r.Base.Resize(params)
	r.GenerateVariants()
}

// Clone returns a deep copy, suitable for Engine.CloneRule.
func (r *Rule) Clone() *Rule {
	variants := make([]pattern.Pattern, len(r.Variants))
	for i, v := range r.Variants {
		variants[i] = v.Clone()
	}
	return &Rule{
		Name:     r.Name,
		Enabled:  r.Enabled,
		Base:     r.Base.Clone(),
		Variants: variants,
		FlipX:    r.FlipX,
		FlipY:    r.FlipY,
		Rotate:   r.Rotate,
		Failrate: r.Failrate,
	}
}
