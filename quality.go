package chromaprop

import (
	"fmt"
	"image"
	"math"
)

// PSNR returns the peak signal-to-noise ratio between two equally sized
// images, in decibels over the 8-bit RGB channels. Identical images give
// +Inf.
func PSNR(a, b image.Image) (float64, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("psnr: nil image: %w", ErrInvalidInput)
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, fmt.Errorf("psnr: size mismatch %dx%d vs %dx%d: %w",
			ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy(), ErrInvalidInput)
	}
	if ab.Dx() < 1 || ab.Dy() < 1 {
		return 0, fmt.Errorf("psnr: empty image: %w", ErrInvalidInput)
	}

	var sum float64
	for y := range ab.Dy() {
		for x := range ab.Dx() {
			ar, ag, az, _ := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			br, bg, bz, _ := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			dr := float64(ar>>8) - float64(br>>8)
			dg := float64(ag>>8) - float64(bg>>8)
			dz := float64(az>>8) - float64(bz>>8)
			sum += dr*dr + dg*dg + dz*dz
		}
	}
	mse := sum / float64(ab.Dx()*ab.Dy()*3)
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20 * math.Log10(255/math.Sqrt(mse)), nil
}
