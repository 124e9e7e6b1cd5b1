package chromaprop

import (
	"fmt"
	"image"
	"math/rand/v2"

	xdraw "golang.org/x/image/draw"
)

// SeedMode selects how chroma targets are attached to sampled pixels.
type SeedMode int

const (
	// SeedAuto lets the pipeline choose: true chroma for color input,
	// reference when a reference image is supplied, pseudo-color
	// otherwise.
	SeedAuto SeedMode = iota
	// SeedReference samples chroma from a reference color image.
	SeedReference
	// SeedPseudo derives chroma from a colormap applied to the enhanced
	// luminance.
	SeedPseudo
	// SeedTrueChroma samples the input's own chroma planes.
	SeedTrueChroma
)

func (m SeedMode) String() string {
	switch m {
	case SeedAuto:
		return "auto"
	case SeedReference:
		return "reference"
	case SeedPseudo:
		return "pseudo"
	case SeedTrueChroma:
		return "true-chroma"
	}
	return fmt.Sprintf("SeedMode(%d)", int(m))
}

// SeedSet is a sparse set of pixels with known chroma. The slices are
// parallel: entry k pins pixel (Rows[k], Cols[k]) to chroma (U[k], V[k]).
// U and V always refer to the same sampled positions, so both channel
// solves see an identical constraint pattern.
type SeedSet struct {
	Rows, Cols []int
	U, V       []float64
}

// Count returns the number of seeds.
func (s *SeedSet) Count() int { return len(s.Rows) }

// SeedSource bundles the inputs a sampling mode needs; only the fields of
// the selected mode are consulted.
type SeedSource struct {
	Mode SeedMode
	// Reference backs SeedReference. It is resampled to the working
	// plane when the dimensions differ.
	Reference image.Image
	// Colormap backs SeedPseudo; the zero value means Viridis.
	Colormap Colormap
	// ChromaU and ChromaV back SeedTrueChroma and must match the
	// luminance plane's dimensions.
	ChromaU, ChromaV *Grid
}

// SampleSeeds draws floor(ratio*H*W) distinct pixel positions uniformly
// (never fewer than one) and attaches chroma targets from src. Sampling is
// fully determined by rngSeed. ratio may span (0, 1] here; the pipeline's
// Params narrows it to (0, 0.5].
func SampleSeeds(y *Grid, src SeedSource, ratio float64, rngSeed uint64) (*SeedSet, error) {
	if y == nil || y.Len() == 0 {
		return nil, fmt.Errorf("seeds: empty luminance plane: %w", ErrInvalidInput)
	}
	if !(ratio > 0 && ratio <= 1) {
		return nil, fmt.Errorf("seeds: ratio %v outside (0, 1]: %w", ratio, ErrInvalidParameter)
	}

	n := y.Len()
	count := min(max(int(ratio*float64(n)), 1), n)

	rng := rand.New(rand.NewPCG(rngSeed, rngSeed))
	set := &SeedSet{
		Rows: make([]int, count),
		Cols: make([]int, count),
		U:    make([]float64, count),
		V:    make([]float64, count),
	}
	for k, i := range rng.Perm(n)[:count] {
		set.Rows[k] = i / y.W
		set.Cols[k] = i % y.W
	}

	var err error
	switch src.Mode {
	case SeedReference:
		err = fillFromReference(set, y, src.Reference)
	case SeedPseudo:
		err = fillFromColormap(set, y, src.Colormap)
	case SeedTrueChroma:
		err = fillFromChroma(set, y, src.ChromaU, src.ChromaV)
	default:
		err = fmt.Errorf("seeds: mode %v must be resolved before sampling: %w", src.Mode, ErrInvalidParameter)
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

func fillFromReference(set *SeedSet, y *Grid, ref image.Image) error {
	if ref == nil {
		return fmt.Errorf("seeds: reference mode without a reference image: %w", ErrInvalidParameter)
	}
	if rb := ref.Bounds(); rb.Dx() != y.W || rb.Dy() != y.H {
		ref = resizeImage(ref, y.W, y.H)
	}
	u, v := ChromaPlanes(ref)
	for k := range set.Rows {
		i := set.Rows[k]*y.W + set.Cols[k]
		set.U[k] = u.Pix[i]
		set.V[k] = v.Pix[i]
	}
	return nil
}

func fillFromColormap(set *SeedSet, y *Grid, cm Colormap) error {
	if cm.empty() {
		cm = Viridis()
	}
	for k := range set.Rows {
		col := cm.At(y.At(set.Rows[k], set.Cols[k]))
		_, u, v := rgbToYUV(col.R*255, col.G*255, col.B*255)
		set.U[k] = u
		set.V[k] = v
	}
	return nil
}

func fillFromChroma(set *SeedSet, y *Grid, u, v *Grid) error {
	if u == nil || v == nil || !y.sameSize(u) || !y.sameSize(v) {
		return fmt.Errorf("seeds: chroma planes missing or not %dx%d: %w", y.H, y.W, ErrInvalidInput)
	}
	for k := range set.Rows {
		i := set.Rows[k]*y.W + set.Cols[k]
		set.U[k] = u.Pix[i]
		set.V[k] = v.Pix[i]
	}
	return nil
}

// resizeImage scales src to w-by-h with Catmull-Rom resampling.
func resizeImage(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
