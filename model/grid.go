package model

import (
	"github.com/bits-and-blooms/bitset"
)

// Grid holds one value per spatial cell and an explicit missing mask.
type Grid struct {
	Shape   []int
	Values  []float64
	Missing *bitset.BitSet
}

func NewGrid(shape []int) *Grid {
	cells := CellCount(shape)
	return &Grid{
		Shape:   append([]int(nil), shape...),
		Values:  make([]float64, cells),
		Missing: bitset.New(uint(cells)),
	}
}

func (g *Grid) Cells() int {
	return len(g.Values)
}

// At returns the cell value, ok is false when the cell is missing.
func (g *Grid) At(cell int) (float64, bool) {
	if g.Missing.Test(uint(cell)) {
		return 0, false
	}
	return g.Values[cell], true
}

func (g *Grid) Set(cell int, value float64) {
	g.Values[cell] = value
	g.Missing.Clear(uint(cell))
}

func (g *Grid) SetMissing(cell int) {
	g.Values[cell] = 0
	g.Missing.Set(uint(cell))
}

func (g *Grid) MissingCount() int {
	return int(g.Missing.Count())
}

// CellCount is the number of cells of a grid shape, a scalar shape has one cell.
func CellCount(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
