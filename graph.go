package chromaprop

import (
	"fmt"
	"math"
)

// Graph is the 4-neighbor luminance-similarity graph of a plane. Only the
// two forward edge planes are stored: Right[i] holds the weight between
// pixel i and its right neighbor, Down[i] between i and the pixel below;
// entries on the last column and row stay zero. Weights follow
// exp(-(Yi-Yj)^2 / (2 sigma^2)) and so lie in (0, 1], with equal
// luminance giving exactly 1. Storage is linear in the pixel count; no
// dense adjacency is ever formed.
type Graph struct {
	H, W  int
	Right []float64
	Down  []float64
}

// BuildGraph constructs the similarity graph of y. sigma must be positive;
// the pipeline additionally restricts it to [1, 20].
func BuildGraph(y *Grid, sigma float64) (*Graph, error) {
	if y == nil || y.Len() == 0 {
		return nil, fmt.Errorf("graph: empty luminance plane: %w", ErrInvalidInput)
	}
	if !(sigma > 0) {
		return nil, fmt.Errorf("graph: sigma %v must be positive: %w", sigma, ErrInvalidParameter)
	}

	g := &Graph{
		H:     y.H,
		W:     y.W,
		Right: make([]float64, y.Len()),
		Down:  make([]float64, y.Len()),
	}
	inv := 1 / (2 * sigma * sigma)
	for r := range g.H {
		for c := range g.W {
			i := r*g.W + c
			if c+1 < g.W {
				d := y.Pix[i] - y.Pix[i+1]
				g.Right[i] = math.Exp(-d * d * inv)
			}
			if r+1 < g.H {
				d := y.Pix[i] - y.Pix[i+g.W]
				g.Down[i] = math.Exp(-d * d * inv)
			}
		}
	}
	return g, nil
}

// EdgeCount returns the number of undirected neighbor pairs, which for an
// H-by-W grid is 2*H*W - H - W.
func (g *Graph) EdgeCount() int {
	return 2*g.H*g.W - g.H - g.W
}

// Degree returns the weighted degree of every pixel.
func (g *Graph) Degree() []float64 {
	deg := make([]float64, g.H*g.W)
	for i, w := range g.Right {
		if w != 0 {
			deg[i] += w
			deg[i+1] += w
		}
	}
	for i, w := range g.Down {
		if w != 0 {
			deg[i] += w
			deg[i+g.W] += w
		}
	}
	return deg
}
