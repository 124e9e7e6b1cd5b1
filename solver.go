package chromaprop

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// seedPenalty is the soft-constraint weight pinning seeded pixels to
	// their chroma targets. Large relative to graph degrees (at most 4),
	// small enough to keep the system well conditioned.
	seedPenalty = 1e3

	// ridgeLambda is the Tikhonov term added to every diagonal entry so
	// that unseeded, disconnected pixels cannot make the system singular.
	ridgeLambda = 1e-6

	// minresAtol and minresBtol stop the iterative fallback. They apply
	// to the Jacobi-equilibrated system, where every row carries the same
	// scale, and are tight enough that the mapped-back iterate agrees
	// with the banded factorization to a few hundredths of a chroma unit.
	minresAtol = 1e-10
	minresBtol = 1e-10
)

// maxBandWorkspace bounds the banded factorization's storage in float64
// cells (~512 MiB). Frames whose band would not fit are routed to the
// iterative fallback. Variable so tests can drive that route on small
// fixtures.
var maxBandWorkspace = 1 << 26

// pixelSystem is the sparse symmetric system (L + P + lambda I) over the
// pixel grid: graph Laplacian off-diagonals, accumulated degrees plus seed
// penalties plus ridge on the diagonal.
type pixelSystem struct {
	g    *Graph
	diag []float64
}

// mulVec computes dst = A x without materializing A.
func (s *pixelSystem) mulVec(dst, x []float64) {
	for i, d := range s.diag {
		dst[i] = d * x[i]
	}
	for i, w := range s.g.Right {
		if w != 0 {
			dst[i] -= w * x[i+1]
			dst[i+1] -= w * x[i]
		}
	}
	for i, w := range s.g.Down {
		if w != 0 {
			dst[i] -= w * x[i+s.g.W]
			dst[i+s.g.W] -= w * x[i]
		}
	}
}

// SolveChannel propagates one chroma channel across the similarity graph.
// It minimizes the weighted smoothness energy subject to soft seed
// constraints, i.e. solves (L + P + lambda I) x = P s where L is the graph
// Laplacian, P holds seedPenalty at seeded pixels and s their target
// values. vals carries one target per seed, in seed order; pass the U
// plane's targets and the V plane's targets in two separate calls.
//
// A banded Cholesky factorization is tried first; if the factorization is
// unavailable or fails, a MINRES iteration on the equilibrated system takes
// over. Only if both fail does the call return ErrSolverFailure. Results
// are always finite.
func SolveChannel(g *Graph, seeds *SeedSet, vals []float64) (*Grid, error) {
	return solveChannel(g, seeds, vals, ridgeLambda)
}

func solveChannel(g *Graph, seeds *SeedSet, vals []float64, lambda float64) (*Grid, error) {
	sys, b, err := assembleSystem(g, seeds, vals, lambda)
	if err != nil {
		return nil, err
	}
	if x, ok := solveBanded(sys, b); ok {
		return &Grid{H: g.H, W: g.W, Pix: x}, nil
	}
	log.Println("solve warning: banded factorization unavailable, falling back to MINRES")
	x, ok := solveIterative(sys, b)
	if !ok || !allFinite(x) {
		return nil, fmt.Errorf("solve: banded factorization and MINRES both failed: %w", ErrSolverFailure)
	}
	return &Grid{H: g.H, W: g.W, Pix: x}, nil
}

// assembleSystem accumulates degrees, seed penalties and the ridge into
// the diagonal and builds the right-hand side P s.
func assembleSystem(g *Graph, seeds *SeedSet, vals []float64, lambda float64) (*pixelSystem, []float64, error) {
	if g == nil || g.H < 1 || g.W < 1 {
		return nil, nil, fmt.Errorf("solve: empty graph: %w", ErrInvalidInput)
	}
	if seeds == nil || seeds.Count() == 0 {
		return nil, nil, fmt.Errorf("solve: empty seed set: %w", ErrInvalidInput)
	}
	if len(vals) != seeds.Count() {
		return nil, nil, fmt.Errorf("solve: %d values for %d seeds: %w", len(vals), seeds.Count(), ErrInvalidInput)
	}

	diag := g.Degree()
	b := make([]float64, g.H*g.W)
	for k, r := range seeds.Rows {
		c := seeds.Cols[k]
		if r < 0 || r >= g.H || c < 0 || c >= g.W {
			return nil, nil, fmt.Errorf("solve: seed %d at (%d,%d) outside %dx%d plane: %w",
				k, r, c, g.H, g.W, ErrInvalidInput)
		}
		i := r*g.W + c
		diag[i] += seedPenalty
		b[i] += seedPenalty * vals[k]
	}
	for i := range diag {
		diag[i] += lambda
	}
	return &pixelSystem{g: g, diag: diag}, b, nil
}

// solveBanded factorizes the system as a symmetric band matrix with
// bandwidth equal to the row stride. It reports ok=false when the band
// workspace would be too large, the matrix is not positive definite, or
// the solution is not finite; the caller then falls back to the iterative
// path.
func solveBanded(sys *pixelSystem, b []float64) ([]float64, bool) {
	n := len(b)
	k := 0
	if sys.g.W > 1 {
		k = 1
	}
	if sys.g.H > 1 {
		k = sys.g.W
	}
	if (k+1)*n > maxBandWorkspace {
		return nil, false
	}

	ab := mat.NewSymBandDense(n, k, nil)
	for i, d := range sys.diag {
		ab.SetSymBand(i, i, d)
	}
	for i, w := range sys.g.Right {
		if w != 0 {
			ab.SetSymBand(i, i+1, -w)
		}
	}
	for i, w := range sys.g.Down {
		if w != 0 {
			ab.SetSymBand(i, i+sys.g.W, -w)
		}
	}

	var ch mat.BandCholesky
	if !ch.Factorize(ab) {
		return nil, false
	}
	x := mat.NewVecDense(n, nil)
	if err := ch.SolveVecTo(x, mat.NewVecDense(n, b)); err != nil {
		return nil, false
	}
	sol := x.RawVector().Data
	if !allFinite(sol) {
		return nil, false
	}
	return sol, true
}

// solveIterative solves the system with MINRES after symmetric Jacobi
// equilibration: with S = diag(1/sqrt(diag)) it iterates on (S A S) y = S b
// and maps back x = S y. Equilibration collapses the scale gap between
// penalty-pinned seed rows and near-ridge rows, so the residual test means
// the same thing on every row and convergence is governed by the graph
// spectrum rather than the penalty's spread.
func solveIterative(sys *pixelSystem, b []float64) ([]float64, bool) {
	n := len(b)
	scale := make([]float64, n)
	for i, d := range sys.diag {
		if d > 0 {
			scale[i] = 1 / math.Sqrt(d)
		} else {
			scale[i] = 1
		}
	}
	bs := make([]float64, n)
	for i, v := range b {
		bs[i] = scale[i] * v
	}
	tmp := make([]float64, n)
	mul := func(dst, x []float64) {
		for i, si := range scale {
			tmp[i] = si * x[i]
		}
		sys.mulVec(dst, tmp)
		for i, si := range scale {
			dst[i] *= si
		}
	}
	x, ok := minres(mul, bs, minresAtol, minresBtol, 2*n)
	if !ok {
		return nil, false
	}
	for i, si := range scale {
		x[i] *= si
	}
	return x, true
}

// minres is the Paige-Saunders minimum-residual iteration for symmetric
// systems; mul must apply a symmetric operator. It returns the iterate
// once the residual norm drops under btol*|b| + atol*|A|*|x|; ok is false
// if the iteration cap is reached first.
func minres(mul func(dst, x []float64), b []float64, atol, btol float64, maxIter int) (x []float64, ok bool) {
	n := len(b)
	x = make([]float64, n)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return x, true
	}

	v := make([]float64, n)
	vPrev := make([]float64, n)
	z := make([]float64, n)
	w := make([]float64, n)
	wPrev := make([]float64, n)

	copy(v, b)
	floats.Scale(1/bnorm, v)
	beta := 0.0
	cs, sn := -1.0, 0.0
	dbar, epsln := 0.0, 0.0
	phibar := bnorm
	anorm := 0.0

	for iter := 0; iter < maxIter; iter++ {
		// Lanczos step.
		mul(z, v)
		alpha := floats.Dot(v, z)
		floats.AddScaled(z, -alpha, v)
		if beta != 0 {
			floats.AddScaled(z, -beta, vPrev)
		}
		betaNew := floats.Norm(z, 2)
		anorm = math.Hypot(anorm, math.Hypot(alpha, math.Hypot(beta, betaNew)))

		// Givens rotation folding the new column into the QR factors.
		oldeps := epsln
		delta := cs*dbar + sn*alpha
		gbar := sn*dbar - cs*alpha
		epsln = sn * betaNew
		dbar = -cs * betaNew
		gamma := math.Hypot(gbar, betaNew)
		if gamma == 0 {
			return x, false
		}
		cs = gbar / gamma
		sn = betaNew / gamma
		phi := cs * phibar
		phibar = sn * phibar

		for i := range w {
			wNew := (v[i] - oldeps*wPrev[i] - delta*w[i]) / gamma
			wPrev[i] = w[i]
			w[i] = wNew
			x[i] += phi * wNew
		}

		if phibar <= btol*bnorm+atol*anorm*floats.Norm(x, 2) {
			return x, true
		}
		if betaNew == 0 {
			// Krylov space exhausted; the iterate solves the projected
			// system exactly.
			return x, true
		}
		vPrev, v, z = v, z, vPrev
		floats.Scale(1/betaNew, v)
		beta = betaNew
	}
	return x, false
}

func allFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
