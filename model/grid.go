package model

import (
	"crypto/md5"
	"fmt"

	"github.com/sheikhrachel/cells/rules"
)

// Grid is one generation of the board. Rows and columns are fixed at
// construction and cells are addressed as (row, column), 0-indexed.
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates a dead grid with the specified dimensions
func NewGrid(rows, cols int) *Grid {
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// Rows returns the number of rows (M)
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns (N)
func (g *Grid) Cols() int {
	return g.cols
}

// Reset resizes the grid and kills every cell
func (g *Grid) Reset(rows, cols int) {
	g.rows = rows
	g.cols = cols

	// Resize cells if needed
	if len(g.cells) != rows {
		g.cells = make([][]bool, rows)
	}
	for i := range g.cells {
		if len(g.cells[i]) != cols {
			g.cells[i] = make([]bool, cols)
		} else {
			clear(g.cells[i])
		}
	}
}

// Clear kills every cell
func (g *Grid) Clear() {
	for i := range g.rows {
		clear(g.cells[i])
	}
}

// Set sets a cell to alive (true) or dead (false). Writes outside the grid
// are ignored.
func (g *Grid) Set(i, j int, alive bool) {
	if g.inBounds(i, j) {
		g.cells[i][j] = alive
	}
}

// Get returns the state of a cell. Positions outside the grid are dead.
func (g *Grid) Get(i, j int) bool {
	if !g.inBounds(i, j) {
		return false
	}
	return g.cells[i][j]
}

func (g *Grid) inBounds(i, j int) bool {
	return i >= 0 && i < g.rows && j >= 0 && j < g.cols
}

// CountNeighbors sums the live cells of the 3x3 block centred on (i, j).
// The cell itself is part of the block, so a live cell counts itself.
// Positions past any edge are absent and contribute nothing; the grid never
// wraps around.
func (g *Grid) CountNeighbors(i, j int) int {
	count := 0

	minI := max(0, i-1)
	maxI := min(g.rows-1, i+1)
	minJ := max(0, j-1)
	maxJ := min(g.cols-1, j+1)

	for ni := minI; ni <= maxI; ni++ {
		for nj := minJ; nj <= maxJ; nj++ {
			if g.cells[ni][nj] {
				count++
			}
		}
	}

	return count
}

// NextGeneration computes the following generation into a fresh grid. The
// receiver is left untouched so the two can be compared afterwards.
func (g *Grid) NextGeneration(pool *GridPool) *Grid {
	var next *Grid
	if pool != nil {
		next = pool.Get(g.rows, g.cols)
	} else {
		next = NewGrid(g.rows, g.cols)
	}

	for i := range g.rows {
		for j := range g.cols {
			if rules.ApplyRule(g.CountNeighbors(i, j), g.cells[i][j]) {
				next.cells[i][j] = true
			}
		}
	}

	return next
}

// Equal reports whether both grids have the same dimensions and cells
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.rows {
		for j := range g.cols {
			if g.cells[i][j] != other.cells[i][j] {
				return false
			}
		}
	}
	return true
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.rows, g.cols)
	for i := range g.rows {
		copy(c.cells[i], g.cells[i])
	}
	return c
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for i := range g.rows {
		for j := range g.cols {
			if g.cells[i][j] {
				count++
			}
		}
	}
	return
}

// Hash returns an MD5 digest of the grid state
func (g *Grid) Hash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.rows, g.cols)
	for i := range g.rows {
		for j := range g.cols {
			if g.cells[i][j] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
