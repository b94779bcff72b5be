// Package match holds the single binary pattern-matching primitive the
// Cache and Engine build on: testing a variant against one World position.
package match

import (
	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/world"
)

// Reader is the read-only slice of World the matcher needs; satisfied by
// *world.World.
type Reader interface {
	Get(x, y int) core.Reading
}

var _ Reader = (*world.World)(nil)

// Matches tests whether variant matches the world with its top-left corner
// at (cornerX, cornerY): for each (dx, dy) in the variant's bounds, the
// From requirement at that position must accept the world sample at
// (cornerX+dx, cornerY+dy).
func Matches(w Reader, cornerX, cornerY int, variant pattern.Pattern, groups []core.CellGroup) bool {
	for dy := 0; dy < variant.Height; dy++ {
		for dx := 0; dx < variant.Width; dx++ {
			reading := w.Get(cornerX+dx, cornerY+dy)
			from := variant.Get(dx, dy).From
			switch from.Kind {
			case pattern.FromAny:
				// always passes
			case pattern.FromOne:
				if !reading.Present || reading.Cell != from.Cell {
					return false
				}
			case pattern.FromGroup:
				if !groups[from.Group].Matches(reading) {
					return false
				}
			}
		}
	}
	return true
}
