// Package layout computes grid geometry for the dashboard. It is pure
// arithmetic: the engine never touches modules or the terminal, it only
// maps a module count and a usable area to cell rectangles.
package layout

// Cell is one rectangle of a computed grid, addressed row-major.
type Cell struct {
	Index  int
	Row    int
	Col    int
	Width  int
	Height int
}

// Grid is the result of a layout pass. When Placeholder is set the grid
// holds a single full-size cell with no module behind it.
type Grid struct {
	Cols        int
	Rows        int
	CellWidth   int
	CellHeight  int
	Cells       []Cell
	Placeholder bool
}

// Compute splits a width×height area into cells for count modules.
//
// Column count is half the module count rounded down, clamped to at least
// one column and at most one column per module. Rows take the ceiling of
// count over columns. Cell sizes use integer division, so a few trailing
// terminal cells may go unused rather than producing uneven cells.
func Compute(count, width, height int) Grid {
	if count <= 0 {
		return Grid{
			Cols:        1,
			Rows:        1,
			CellWidth:   width,
			CellHeight:  height,
			Cells:       []Cell{{Width: width, Height: height}},
			Placeholder: true,
		}
	}

	cols := count / 2
	if cols < 1 {
		cols = 1
	}
	rows := (count + cols - 1) / cols

	g := Grid{
		Cols:       cols,
		Rows:       rows,
		CellWidth:  width / cols,
		CellHeight: height / rows,
		Cells:      make([]Cell, count),
	}
	for i := 0; i < count; i++ {
		g.Cells[i] = Cell{
			Index:  i,
			Row:    i / cols,
			Col:    i % cols,
			Width:  g.CellWidth,
			Height: g.CellHeight,
		}
	}
	return g
}
