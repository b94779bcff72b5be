package core

// CellType is a display record consumed by the editor, never by the engine.
// Indexed by Cell id.
type CellType struct {
	Name  string
	Color RGB
}
