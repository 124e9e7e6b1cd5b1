package chromaprop

import (
	"fmt"
	"image"
	"log"
	"sync"
)

// Options configures a Run beyond the numeric Params. The zero value asks
// for automatic mode selection, the Viridis colormap and RNG seed 0.
type Options struct {
	// Mode forces a seeding strategy. SeedAuto picks true chroma for
	// color input, reference seeding when Reference is set, and
	// pseudo-color otherwise.
	Mode SeedMode
	// Reference is the color image consulted by reference seeding.
	Reference image.Image
	// Colormap drives pseudo-color seeding; the zero value means Viridis.
	Colormap Colormap
	// RNGSeed fixes the seed sampler. Equal seeds give equal output.
	RNGSeed uint64
}

// Result carries the pipeline outputs.
type Result struct {
	// EnhancedLuma is the enhanced luminance plane in [0, 255].
	EnhancedLuma *Grid
	// ChromaU and ChromaV are the propagated chroma planes.
	ChromaU, ChromaV *Grid
	// RGB is the reconstructed image.
	RGB *image.RGBA
	// Mode is the seeding mode actually used after auto resolution.
	Mode SeedMode
}

// Run executes the full chain: luminance extraction, enhancement, seed
// sampling, similarity graph construction, one chroma solve per channel
// and reconstruction.
//
// Color input keeps its own chroma as seed targets, so the output is a
// re-colorized rendition of the enhanced luminance. Grayscale input uses
// the reference image when one is given and colormap pseudo-color
// otherwise. Output is deterministic for fixed inputs, Params and Options.
func Run(img image.Image, p Params, opt Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("run: nil image: %w", ErrInvalidInput)
	}
	if b := img.Bounds(); b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("run: empty %dx%d image: %w", b.Dx(), b.Dy(), ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	mode := opt.Mode
	if mode == SeedAuto {
		switch {
		case !IsGrayscale(img):
			mode = SeedTrueChroma
		case opt.Reference != nil:
			mode = SeedReference
		default:
			mode = SeedPseudo
		}
	}

	enhanced, err := Enhance(LuminancePlane(img), p)
	if err != nil {
		return nil, err
	}

	src := SeedSource{Mode: mode, Reference: opt.Reference, Colormap: opt.Colormap}
	if mode == SeedTrueChroma {
		if IsGrayscale(img) {
			log.Println("colorize warning: true-chroma seeding on grayscale input yields zero chroma")
		}
		src.ChromaU, src.ChromaV = ChromaPlanes(img)
	}
	seeds, err := SampleSeeds(enhanced, src, p.SeedRatio, opt.RNGSeed)
	if err != nil {
		return nil, err
	}

	graph, err := BuildGraph(enhanced, p.Sigma)
	if err != nil {
		return nil, err
	}

	// The two chroma systems share the graph and seed pattern and differ
	// only in their right-hand sides; solve them side by side.
	var (
		wg             sync.WaitGroup
		uPlane, vPlane *Grid
		uErr, vErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		uPlane, uErr = SolveChannel(graph, seeds, seeds.U)
	}()
	go func() {
		defer wg.Done()
		vPlane, vErr = SolveChannel(graph, seeds, seeds.V)
	}()
	wg.Wait()
	if uErr != nil {
		return nil, fmt.Errorf("chroma U: %w", uErr)
	}
	if vErr != nil {
		return nil, fmt.Errorf("chroma V: %w", vErr)
	}

	rgb, err := Reconstruct(enhanced, uPlane, vPlane)
	if err != nil {
		return nil, err
	}
	return &Result{
		EnhancedLuma: enhanced,
		ChromaU:      uPlane,
		ChromaV:      vPlane,
		RGB:          rgb,
		Mode:         mode,
	}, nil
}
