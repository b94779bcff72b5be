package core

// Cell is an opaque nonnegative integer id. Zero is not special to the
// engine; meaning is assigned by the CellType table.
type Cell uint16

// Reading is the result of a bounded World read: Present is false when the
// coordinate lies outside the grid (the Outside sentinel). A tagged struct
// is used instead of a pointer so reads stay allocation-free.
type Reading struct {
	Cell    Cell
	Present bool
}

// Outside is the canonical Reading returned for out-of-range coordinates.
var Outside = Reading{}

// Of wraps a Cell as a present Reading.
func Of(c Cell) Reading {
	return Reading{Cell: c, Present: true}
}
