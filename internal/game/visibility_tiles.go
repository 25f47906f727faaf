package game

import "math"

// TileGrid is a rasterized true/false visibility map on a fixed-size
// tile grid, derived from a VisionPolygon. Legacy consumers (replay
// tools, minimap overlays) that need a coarse grid rather than exact
// polygon math read this representation instead of calling
// VisionPolygon.Contains per point.
type TileGrid struct {
	TileSize   int
	Cols, Rows int
	Visible    []bool // row-major, len == Cols*Rows
}

// RasterizeVisibility samples the vision polygon at each tile center
// across [0,width]x[0,height] and produces a TileGrid. Tiles are marked
// visible if their center point falls inside the polygon.
func RasterizeVisibility(vp VisionPolygon, width, height float64, tileSize int) TileGrid {
	if tileSize <= 0 {
		tileSize = 8
	}
	cols := int(math.Ceil(width / float64(tileSize)))
	rows := int(math.Ceil(height / float64(tileSize)))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	grid := TileGrid{
		TileSize: tileSize,
		Cols:     cols,
		Rows:     rows,
		Visible:  make([]bool, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cx := (float64(col) + 0.5) * float64(tileSize)
			cy := (float64(row) + 0.5) * float64(tileSize)
			if vp.Contains(Vec2{cx, cy}) {
				grid.Visible[row*cols+col] = true
			}
		}
	}

	return grid
}

// At reports the visibility of the tile containing world point p.
// Returns false for points outside the grid bounds.
func (g TileGrid) At(p Vec2) bool {
	if p.X < 0 || p.Y < 0 {
		return false
	}
	col := int(p.X) / g.TileSize
	row := int(p.Y) / g.TileSize
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return false
	}
	return g.Visible[row*g.Cols+col]
}

// VisibleCount returns the number of visible tiles.
func (g TileGrid) VisibleCount() int {
	n := 0
	for _, v := range g.Visible {
		if v {
			n++
		}
	}
	return n
}
