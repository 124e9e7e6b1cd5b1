package chromaprop

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYUVRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{128, 128, 128},
		{37, 201, 92},
		{200, 60, 40},
	}
	for _, c := range cases {
		y, u, v := rgbToYUV(c[0], c[1], c[2])
		r, g, b := yuvToRGB(y, u, v)
		assert.InDelta(t, c[0], r, 0.05, "R of %v", c)
		assert.InDelta(t, c[1], g, 0.05, "G of %v", c)
		assert.InDelta(t, c[2], b, 0.05, "B of %v", c)
	}
}

func TestGrayHasNearZeroChroma(t *testing.T) {
	for _, g := range []float64{0, 64, 128, 255} {
		_, u, v := rgbToYUV(g, g, g)
		assert.InDelta(t, 0, u, 0.01)
		assert.InDelta(t, 0, v, 0.01)
	}
}

func TestLuminancePlaneGrayFastPath(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 20)
	}
	y := LuminancePlane(img)
	require.Equal(t, 3, y.H)
	require.Equal(t, 4, y.W)
	for i := range y.Pix {
		assert.Equal(t, float64(uint8(i*20)), y.Pix[i])
	}
}

func TestLuminancePlaneMatchesGrayTriplets(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
	for yy := range 5 {
		for xx := range 5 {
			g := uint8(10 + 9*(yy*5+xx))
			img.SetNRGBA(xx, yy, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}
	y := LuminancePlane(img)
	for yy := range 5 {
		for xx := range 5 {
			want := float64(10 + 9*(yy*5+xx))
			assert.InDelta(t, want, y.At(yy, xx), 1e-9)
		}
	}
}

func TestIsGrayscale(t *testing.T) {
	assert.True(t, IsGrayscale(image.NewGray(image.Rect(0, 0, 3, 3))))
	assert.True(t, IsGrayscale(image.NewGray16(image.Rect(0, 0, 3, 3))))

	eq := solidNRGBA(3, 3, color.NRGBA{R: 77, G: 77, B: 77, A: 255})
	assert.True(t, IsGrayscale(eq), "equal RGB channels count as grayscale")

	eq.SetNRGBA(2, 1, color.NRGBA{R: 77, G: 80, B: 77, A: 255})
	assert.False(t, IsGrayscale(eq))
}

func TestChromaPlanes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	u, v := ChromaPlanes(img)
	_, wantU, wantV := rgbToYUV(255, 0, 0)
	assert.InDelta(t, wantU, u.At(0, 0), 1e-9)
	assert.InDelta(t, wantV, v.At(0, 0), 1e-9)
	assert.InDelta(t, 0, u.At(0, 1), 0.01)
	assert.InDelta(t, 0, v.At(0, 1), 0.01)
}
