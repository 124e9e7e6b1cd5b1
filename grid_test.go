package chromaprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// rampGrid returns an h-by-w plane sweeping 0..255 in row-major order.
func rampGrid(h, w int) *Grid {
	g := NewGrid(h, w)
	n := float64(h*w - 1)
	for i := range g.Pix {
		g.Pix[i] = 255 * float64(i) / n
	}
	return g
}

func TestGridBasics(t *testing.T) {
	g := NewGrid(3, 4)
	assert.Equal(t, 12, g.Len())

	g.Set(2, 3, 7.5)
	assert.Equal(t, 7.5, g.At(2, 3))
	assert.Equal(t, 11, g.Index(2, 3))

	c := g.Clone()
	c.Set(0, 0, 1)
	assert.Equal(t, 0.0, g.At(0, 0), "clone must not alias the original")

	g.Fill(2)
	lo, hi := g.MinMax()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 2.0, hi)
	assert.Equal(t, 2.0, g.Mean())

	u := NewGridUniform(2, 3, -4)
	assert.Equal(t, 6, u.Len())
	assert.Equal(t, -4.0, u.At(1, 2))
}

func TestGridMinMaxMean(t *testing.T) {
	g := &Grid{H: 1, W: 4, Pix: []float64{3, -1, 8, 2}}
	lo, hi := g.MinMax()
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
	assert.InDelta(t, 3.0, g.Mean(), 1e-12)

	empty := &Grid{}
	lo, hi = empty.MinMax()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
	assert.Zero(t, empty.Mean())
}
