// Package world owns the petri dish's cell grid: a fixed-size square array
// of core.Cell with bounded, allocation-free reads and writes.
package world

import "github.com/lixenwraith/petridish/core"

// Size is the default side length of a World, matching the reference
// implementation's single chunk.
const Size = 32

// World is a fixed-size N×N grid of Cells, stored as a flat row-major
// array so accessors stay O(1) with no pointer-chasing.
type World struct {
	side  int
	cells []core.Cell
}

// New creates a World of the given side length, zero-filled.
func New(side int) *World {
	if side < 1 {
		side = 1
	}
	return &World{
		side:  side,
		cells: make([]core.Cell, side*side),
	}
}

// Side returns the grid's side length.
func (w *World) Side() int {
	return w.side
}

// inBounds reports whether (x, y) lies in [0, side) × [0, side).
func (w *World) inBounds(x, y int) bool {
	return x >= 0 && x < w.side && y >= 0 && y < w.side
}

// Get returns the cell at (x, y), or Outside if the coordinate lies outside
// the grid. Coordinates are signed so callers may probe positions just
// beyond the edge.
func (w *World) Get(x, y int) core.Reading {
	if !w.inBounds(x, y) {
		return core.Outside
	}
	return core.Of(w.cells[y*w.side+x])
}

// Set writes cell at (x, y); a no-op if the coordinate lies outside the
// grid.
func (w *World) Set(x, y int, cell core.Cell) {
	if !w.inBounds(x, y) {
		return
	}
	w.cells[y*w.side+x] = cell
}

// Fill overwrites every cell in the grid with cell.
func (w *World) Fill(cell core.Cell) {
	for i := range w.cells {
		w.cells[i] = cell
	}
}
