package chromaprop

import "image"

// BT.601-style RGB <-> YUV transform. Forward and inverse are fixed
// constants; they are not exact inverses of each other, which keeps
// round-trips within a fraction of a gray level but not bit-exact.

func rgbToYUV(r, g, b float64) (y, u, v float64) {
	y = 0.299*r + 0.587*g + 0.114*b
	u = -0.14713*r - 0.28886*g + 0.436*b
	v = 0.615*r - 0.51499*g - 0.10001*b
	return y, u, v
}

func yuvToRGB(y, u, v float64) (r, g, b float64) {
	r = y + 1.13983*v
	g = y - 0.39465*u - 0.58060*v
	b = y + 2.03211*u
	return r, g, b
}

// LuminancePlane extracts the luma channel of img as a grid in [0, 255].
// For an image with equal channels this reduces to the stored gray value,
// since the luma weights sum to one.
func LuminancePlane(img image.Image) *Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewGrid(h, w)

	if gray, ok := img.(*image.Gray); ok {
		for y := range h {
			row := gray.Pix[(y+b.Min.Y-gray.Rect.Min.Y)*gray.Stride:]
			for x := range w {
				out.Pix[y*w+x] = float64(row[x+b.Min.X-gray.Rect.Min.X])
			}
		}
		return out
	}

	i := 0
	for y := range h {
		for x := range w {
			r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum, _, _ := rgbToYUV(float64(r>>8), float64(g>>8), float64(bb>>8))
			out.Pix[i] = lum
			i++
		}
	}
	return out
}

// ChromaPlanes extracts the U and V channels of img.
func ChromaPlanes(img image.Image) (u, v *Grid) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	u = NewGrid(h, w)
	v = NewGrid(h, w)
	i := 0
	for y := range h {
		for x := range w {
			r, g, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			_, cu, cv := rgbToYUV(float64(r>>8), float64(g>>8), float64(bb>>8))
			u.Pix[i] = cu
			v.Pix[i] = cv
			i++
		}
	}
	return u, v
}

// IsGrayscale reports whether img carries no color information, either by
// being a native gray image or by having equal R, G and B at every pixel.
// Alpha is ignored.
func IsGrayscale(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			if r != g || g != bb {
				return false
			}
		}
	}
	return true
}
