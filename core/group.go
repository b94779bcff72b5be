package core

// CellGroup is a named set of Cell ids. Void groups additionally match the
// Outside sentinel, letting a pattern entry treat "off the edge of the
// world" the same as a listed cell (e.g. air).
type CellGroup struct {
	Name  string
	Void  bool
	Cells []Cell
}

// Contains reports whether c is a member of the group's cell set.
func (g CellGroup) Contains(c Cell) bool {
	for _, m := range g.Cells {
		if m == c {
			return true
		}
	}
	return false
}

// Matches reports whether a Reading (a possibly-Outside world sample)
// satisfies this group: present cells are tested against the member set,
// Outside is accepted only when the group is void.
func (g CellGroup) Matches(r Reading) bool {
	if !r.Present {
		return g.Void
	}
	return g.Contains(r.Cell)
}
