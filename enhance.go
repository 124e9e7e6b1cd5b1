package chromaprop

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Enhance runs the luminance enhancement chain on a grayscale plane in
// [0, 255]: a mean-anchored sigmoid contrast stretch, a global logistic
// tone curve, LIP-style fusion of the two with a gamma weighting, an
// adaptive full-range stretch, and optional Gaussian smoothing. The output
// is a new plane clamped to [0, 255]. Parameter ranges are enforced by
// Params.Validate at the pipeline level, not here, so the stages can be
// driven with out-of-range values for experiments.
func Enhance(y *Grid, p Params) (*Grid, error) {
	if y == nil || y.Len() == 0 {
		return nil, fmt.Errorf("enhance: empty luminance plane: %w", ErrInvalidInput)
	}

	out := NewGrid(y.H, y.W)
	m := y.Mean()
	gamma := max(p.Gamma, 1e-6)
	for i, r := range y.Pix {
		s := m + (r-m)/(1+math.Exp(-p.Contrast*(r-m)/128))
		l := 255 / (1 + math.Exp(-p.LogisticK*(r-128)/128))
		f := s + l - s*l/255
		if f < 0 {
			f = 0
		}
		out.Pix[i] = math.Pow(f/255, gamma) * 255
	}

	// Stretch to the full range unless the fused plane is flat, which
	// would otherwise divide by (near) zero.
	lo, hi := out.MinMax()
	if hi-lo >= 1e-8 {
		scale := 255 / (hi - lo)
		for i := range out.Pix {
			out.Pix[i] = (out.Pix[i] - lo) * scale
		}
	}

	if p.SmoothSigma > 0 {
		gaussianSmooth(out, p.SmoothSigma)
	}
	for i, v := range out.Pix {
		out.Pix[i] = min(255, max(0, v))
	}
	return out, nil
}

// gaussianSmooth applies a separable Gaussian blur in place with reflected
// borders. The kernel radius follows the usual 4-sigma truncation; a sigma
// small enough to truncate to an empty kernel is a no-op.
func gaussianSmooth(g *Grid, sigma float64) {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		return
	}
	kernel := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		kernel[i+radius] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	tmp := make([]float64, len(g.Pix))
	for y := range g.H {
		row := g.Pix[y*g.W : (y+1)*g.W]
		dst := tmp[y*g.W : (y+1)*g.W]
		for x := range g.W {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * row[reflectIndex(x+k, g.W)]
			}
			dst[x] = acc
		}
	}
	for x := range g.W {
		for y := range g.H {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				acc += kernel[k+radius] * tmp[reflectIndex(y+k, g.H)*g.W+x]
			}
			g.Pix[y*g.W+x] = acc
		}
	}
}

// reflectIndex maps i into [0, n) by reflecting about the borders with
// edge duplication: ... 2 1 0 | 0 1 2 ... n-1 | n-1 n-2 ...
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
