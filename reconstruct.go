package chromaprop

import (
	"fmt"
	"image"
	"image/color"
)

// Reconstruct combines a luminance plane and two chroma planes into an
// opaque RGB image through the inverse YUV transform. Channel values are
// clamped to [0, 255] and rounded.
func Reconstruct(y, u, v *Grid) (*image.RGBA, error) {
	if y == nil || y.Len() == 0 {
		return nil, fmt.Errorf("reconstruct: empty luminance plane: %w", ErrInvalidInput)
	}
	if !y.sameSize(u) || !y.sameSize(v) {
		return nil, fmt.Errorf("reconstruct: chroma planes missing or not %dx%d: %w",
			y.H, y.W, ErrInvalidInput)
	}

	img := image.NewRGBA(image.Rect(0, 0, y.W, y.H))
	i := 0
	for row := range y.H {
		for col := range y.W {
			r, g, b := yuvToRGB(y.Pix[i], u.Pix[i], v.Pix[i])
			img.SetRGBA(col, row, color.RGBA{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: 255})
			i++
		}
	}
	return img, nil
}

// clamp8 clamps to [0, 255] and rounds half up.
func clamp8(v float64) uint8 {
	return uint8(min(255, max(0, v)) + 0.5)
}
