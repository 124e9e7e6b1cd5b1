package chromaprop

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPSNRIdenticalIsInfinite(t *testing.T) {
	img := solidNRGBA(4, 4, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	v, err := PSNR(img, img)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))
}

func TestPSNRKnownDifference(t *testing.T) {
	a := solidNRGBA(1, 1, color.NRGBA{R: 100, G: 50, B: 25, A: 255})
	b := solidNRGBA(1, 1, color.NRGBA{R: 110, G: 50, B: 25, A: 255})
	v, err := PSNR(a, b)
	require.NoError(t, err)
	// MSE is 100/3 over the three channels.
	want := 20 * math.Log10(255/math.Sqrt(100.0/3))
	assert.InDelta(t, want, v, 1e-9)
}

func TestPSNRDecreasesWithError(t *testing.T) {
	base := solidNRGBA(4, 4, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	near := solidNRGBA(4, 4, color.NRGBA{R: 102, G: 100, B: 100, A: 255})
	far := solidNRGBA(4, 4, color.NRGBA{R: 180, G: 100, B: 100, A: 255})

	pn, err := PSNR(base, near)
	require.NoError(t, err)
	pf, err := PSNR(base, far)
	require.NoError(t, err)
	assert.Greater(t, pn, pf)
}

func TestPSNRValidation(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	_, err := PSNR(a, b)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = PSNR(nil, a)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = PSNR(a, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	_, err = PSNR(empty, empty)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
