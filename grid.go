package chromaprop

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Grid is a single-channel image plane stored row-major as float64.
// Luminance grids hold values in [0, 255]; chroma grids are signed and
// unbounded until reconstruction clamps them.
type Grid struct {
	H, W int
	Pix  []float64
}

// NewGrid returns a zero-filled h-by-w grid.
func NewGrid(h, w int) *Grid {
	return &Grid{H: h, W: w, Pix: make([]float64, h*w)}
}

// NewGridUniform returns an h-by-w grid with every pixel set to v.
func NewGridUniform(h, w int, v float64) *Grid {
	g := NewGrid(h, w)
	g.Fill(v)
	return g
}

// Index returns the flat index of row r, column c.
func (g *Grid) Index(r, c int) int { return r*g.W + c }

// At returns the value at row r, column c.
func (g *Grid) At(r, c int) float64 { return g.Pix[r*g.W+c] }

// Set stores v at row r, column c.
func (g *Grid) Set(r, c int, v float64) { g.Pix[r*g.W+c] = v }

// Len returns the number of pixels.
func (g *Grid) Len() int { return len(g.Pix) }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{H: g.H, W: g.W, Pix: make([]float64, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}

// Fill sets every pixel to v.
func (g *Grid) Fill(v float64) {
	for i := range g.Pix {
		g.Pix[i] = v
	}
}

// MinMax returns the smallest and largest pixel values.
func (g *Grid) MinMax() (lo, hi float64) {
	if len(g.Pix) == 0 {
		return 0, 0
	}
	return floats.Min(g.Pix), floats.Max(g.Pix)
}

// Mean returns the average pixel value.
func (g *Grid) Mean() float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	return stat.Mean(g.Pix, nil)
}

func (g *Grid) sameSize(o *Grid) bool {
	return o != nil && g.H == o.H && g.W == o.W
}
