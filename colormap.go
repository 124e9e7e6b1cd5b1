package chromaprop

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a luminance value to a color by piecewise blending between
// anchor colors in Lab space, which keeps the gradient perceptually even.
// The zero value has no anchors of its own and behaves like Viridis
// everywhere it is accepted, At included.
type Colormap struct {
	anchors []colorful.Color
}

// NewColormap builds a colormap from at least two anchors spaced evenly
// over the luminance range.
func NewColormap(anchors []colorful.Color) (Colormap, error) {
	if len(anchors) < 2 {
		return Colormap{}, fmt.Errorf("colormap: need at least 2 anchors, got %d: %w",
			len(anchors), ErrInvalidParameter)
	}
	cm := Colormap{anchors: make([]colorful.Color, len(anchors))}
	copy(cm.anchors, anchors)
	return cm, nil
}

// At maps a luminance value in [0, 255] to a color. Values outside the
// range clamp to the end anchors; the zero-value colormap resolves to the
// Viridis anchors.
func (c Colormap) At(y float64) colorful.Color {
	anchors := c.anchors
	if len(anchors) == 0 {
		anchors = viridisAnchors
	}
	t := min(1, max(0, y/255))
	segs := len(anchors) - 1
	ft := t * float64(segs)
	i := int(ft)
	if i >= segs {
		i = segs - 1
	}
	return anchors[i].BlendLab(anchors[i+1], ft-float64(i)).Clamped()
}

func (c Colormap) empty() bool { return len(c.anchors) == 0 }

var viridisAnchors = []colorful.Color{
	rgb8(0x44, 0x01, 0x54),
	rgb8(0x3b, 0x52, 0x8b),
	rgb8(0x21, 0x91, 0x8c),
	rgb8(0x5e, 0xc9, 0x62),
	rgb8(0xfd, 0xe7, 0x25),
}

var plasmaAnchors = []colorful.Color{
	rgb8(0x0d, 0x08, 0x87),
	rgb8(0x7e, 0x03, 0xa8),
	rgb8(0xcc, 0x47, 0x78),
	rgb8(0xf8, 0x95, 0x40),
	rgb8(0xf0, 0xf9, 0x21),
}

// Viridis returns the familiar dark-purple to yellow gradient.
func Viridis() Colormap {
	return Colormap{anchors: viridisAnchors}
}

// Plasma returns the blue-violet to yellow gradient.
func Plasma() Colormap {
	return Colormap{anchors: plasmaAnchors}
}

func rgb8(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
