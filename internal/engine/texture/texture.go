package texture

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture wraps an OpenGL texture object.
type Texture struct {
	id     uint32
	width  int
	height int
}

// ID returns the OpenGL texture name.
func (t *Texture) ID() uint32 { return t.id }

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Release deletes the OpenGL texture. Safe to call on a nil receiver.
func (t *Texture) Release() {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}

// Bind binds the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// NewLookup uploads a float RGBA lookup table as an unfiltered RGBA32F
// texture. The data length must be width*height*4.
func NewLookup(width, height int, data []float32) (*Texture, error) {
	if len(data) != width*height*4 {
		return nil, fmt.Errorf("lookup data length %d does not match %dx%d RGBA", len(data), width, height)
	}

	t := &Texture{width: width, height: height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	// Lookup tables hold indices and timing values, never colors: any
	// filtering or wrapping would corrupt them.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F,
		int32(width), int32(height), 0,
		gl.RGBA, gl.FLOAT, unsafe.Pointer(&data[0]))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// NewSheet uploads an RGBA image as a sprite sheet texture. Pixel art sheets
// should pass nearest=true to avoid bleeding between packed frames.
func NewSheet(img *image.RGBA, nearest bool) *Texture {
	bounds := img.Bounds()
	t := &Texture{width: bounds.Dx(), height: bounds.Dy()}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	filter := int32(gl.LINEAR)
	if nearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(t.width), int32(t.height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}
