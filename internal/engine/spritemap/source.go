package spritemap

import (
	"image"
)

// Color is a straight-alpha RGBA sample in [0, 1] channels.
type Color struct {
	R, G, B, A float32
}

// Source is a shared image the sampler reads. Sources are owned by the
// caller, not the material. A source may learn its dimensions
// asynchronously; WhenReady fires the callback once (immediately if the
// dimensions are already known).
type Source interface {
	// Size returns the pixel dimensions, or (0, 0) while unready.
	Size() (w, h int)
	// Sample returns the nearest texel at normalized coordinates.
	Sample(u, v float32) Color
	// WhenReady invokes fn with the pixel dimensions once they are known.
	WhenReady(fn func(w, h int))
}

// ImageSource adapts an in-memory image.Image to Source. It is ready
// immediately.
type ImageSource struct {
	img    image.Image
	bounds image.Rectangle
}

// NewImageSource wraps a decoded image.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{
		img:    img,
		bounds: img.Bounds(),
	}
}

// Size returns the image dimensions.
func (s *ImageSource) Size() (int, int) {
	return s.bounds.Dx(), s.bounds.Dy()
}

// WhenReady invokes fn immediately; in-memory images are always ready.
func (s *ImageSource) WhenReady(fn func(w, h int)) {
	fn(s.bounds.Dx(), s.bounds.Dy())
}

// Sample returns the nearest texel at normalized (u, v), clamped to the
// image edges.
func (s *ImageSource) Sample(u, v float32) Color {
	w, h := s.bounds.Dx(), s.bounds.Dy()
	x := clampInt(int(u*float32(w)), 0, w-1)
	y := clampInt(int(v*float32(h)), 0, h-1)

	r, g, b, a := s.img.At(s.bounds.Min.X+x, s.bounds.Min.Y+y).RGBA()
	c := Color{
		R: float32(r) / 0xffff,
		G: float32(g) / 0xffff,
		B: float32(b) / 0xffff,
		A: float32(a) / 0xffff,
	}
	// RGBA() is alpha-premultiplied; the compositor blends straight alpha.
	if c.A > 0 && c.A < 1 {
		c.R /= c.A
		c.G /= c.A
		c.B /= c.A
	}
	return c
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
