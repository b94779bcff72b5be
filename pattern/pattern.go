// Package pattern implements the rectangular from/to template (the spec's
// "SubRule") that a Rule matches and rewrites, including its symmetry
// transforms.
package pattern

import "github.com/lixenwraith/petridish/core"

// FromKind tags the match requirement of one pattern cell.
type FromKind uint8

const (
	FromAny   FromKind = iota // matches anything, even outside the world
	FromOne                   // matches exactly one Cell, never outside
	FromGroup                 // matches any Cell in a CellGroup, plus outside iff void
)

// From is a pattern cell's match requirement.
type From struct {
	Kind  FromKind
	Cell  core.Cell
	Group int // index into the Engine's CellGroup table, valid iff Kind == FromGroup
}

// ToKind tags the write prescribed by one pattern cell.
type ToKind uint8

const (
	ToNone        ToKind = iota // leave unchanged
	ToOne                       // write a fixed Cell
	ToGroupRandom               // write a uniformly chosen Cell from a group
	ToCopy                      // copy the cell read from a pattern-local coordinate before application began
)

// To is a pattern cell's write prescription.
type To struct {
	Kind  ToKind
	Cell  core.Cell
	Group int // valid iff Kind == ToGroupRandom
	CopyX int // valid iff Kind == ToCopy
	CopyY int
}

// Entry is one (From, To) pair at a pattern position.
type Entry struct {
	From From
	To   To
}

// Pattern is a width×height rectangle of Entries in row-major order, with an
// origin anchor used to report and sample matches fairly under symmetry.
type Pattern struct {
	Width, Height    int
	OriginX, OriginY int
	Entries          []Entry
}

// New returns a 1×1 pattern with a single default (Any, None) entry and
// origin (0, 0), matching the reference implementation's SubRule::new.
func New() Pattern {
	return Pattern{
		Width:   1,
		Height:  1,
		Entries: []Entry{{}},
	}
}

// NewSized returns a width×height pattern filled with default (Any, None)
// entries.
func NewSized(width, height int) Pattern {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Pattern{
		Width:   width,
		Height:  height,
		Entries: make([]Entry, width*height),
	}
}

// Get returns the entry at (x, y), or the default (Any, None) entry if the
// coordinate is out of pattern bounds.
func (p Pattern) Get(x, y int) Entry {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return Entry{}
	}
	return p.Entries[x+p.Width*y]
}

// Set writes entry at (x, y); a no-op if out of bounds.
func (p *Pattern) Set(x, y int, entry Entry) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return
	}
	p.Entries[x+p.Width*y] = entry
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	entries := make([]Entry, len(p.Entries))
	copy(entries, p.Entries)
	return Pattern{
		Width:   p.Width,
		Height:  p.Height,
		OriginX: p.OriginX,
		OriginY: p.OriginY,
		Entries: entries,
	}
}

// Equal reports structural equality: same geometry, same origin, and every
// (From, To) entry equal (including Copy sources). Used to dedup symmetry
// variants.
func (p Pattern) Equal(o Pattern) bool {
	if p.Width != o.Width || p.Height != o.Height {
		return false
	}
	if p.OriginX != o.OriginX || p.OriginY != o.OriginY {
		return false
	}
	for i := range p.Entries {
		if p.Entries[i] != o.Entries[i] {
			return false
		}
	}
	return true
}

// ResizeParams are the signed (dw, dh, dx, dy) parameters for Resize: new
// dimensions are the old ones shifted by (dw, dh) (minimum 1×1), and new
// coordinate (nx, ny) reads the old pattern at (nx+dx, ny+dy).
type ResizeParams struct {
	DW, DH, DX, DY int
}

// Common resize directions, mirroring the reference implementation's named
// constants.
var (
	ExtendLeft  = ResizeParams{1, 0, -1, 0}
	ExtendRight = ResizeParams{1, 0, 0, 0}
	ExtendUp    = ResizeParams{0, 1, 0, -1}
	ExtendDown  = ResizeParams{0, 1, 0, 0}
	ShrinkLeft  = ResizeParams{-1, 0, 1, 0}
	ShrinkRight = ResizeParams{-1, 0, 0, 0}
	ShrinkUp    = ResizeParams{0, -1, 0, 1}
	ShrinkDown  = ResizeParams{0, -1, 0, 0}
)

// Resize returns a new pattern with dimensions shifted by (dw, dh), at
// least 1×1, preserving overlapping entries and filling new cells with the
// default (Any, None) entry.
func (p Pattern) Resize(params ResizeParams) Pattern {
	newWidth := p.Width + params.DW
	newHeight := p.Height + params.DH
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	out := NewSized(newWidth, newHeight)
	for nx := 0; nx < newWidth; nx++ {
		oldX := nx + params.DX
		for ny := 0; ny < newHeight; ny++ {
			oldY := ny + params.DY
			out.Set(nx, ny, p.Get(oldX, oldY))
		}
	}

	out.OriginX = clamp(p.OriginX-params.DX, 0, newWidth-1)
	out.OriginY = clamp(p.OriginY-params.DY, 0, newHeight-1)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
