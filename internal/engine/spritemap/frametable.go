package spritemap

import (
	"github.com/Faultbox/spritestage/pkg/atlas"
)

// FrameTable row/channel layout. Three data rows padded to a power-of-two
// row count so GPU addressing stays a fixed shift regardless of sprite count.
const (
	frameTableRows     = 4
	frameTableChannels = 4

	rowRect   = 0 // x, y, w, h of the source rect
	rowTrim   = 1 // trim offset x, y, reserved, source height
	rowSource = 2 // source w, source h, rotated flag, trimmed flag
)

// FrameTable encodes per-sprite atlas geometry as a fixed-layout lookup
// buffer: frameTableRows rows by spriteCount columns by 4 float32 channels.
// Built once at construction and never mutated.
type FrameTable struct {
	width int // = spriteCount, minimum 1
	data  []float32
}

// NewFrameTable builds the lookup buffer from frames in declaration order.
// An empty frame list produces a minimal 1-wide zero table.
func NewFrameTable(frames []atlas.Frame) *FrameTable {
	width := len(frames)
	if width == 0 {
		width = 1
	}

	t := &FrameTable{
		width: width,
		data:  make([]float32, frameTableRows*width*frameTableChannels),
	}

	for i, f := range frames {
		t.set(rowRect, i, float32(f.FrameRect.X), float32(f.FrameRect.Y), float32(f.FrameRect.W), float32(f.FrameRect.H))
		t.set(rowTrim, i, float32(f.TrimOffset.X), float32(f.TrimOffset.Y), 0, float32(f.SourceSize.H))
		t.set(rowSource, i, float32(f.SourceSize.W), float32(f.SourceSize.H), boolToFloat(f.Rotated), boolToFloat(f.Trimmed))
		// Row 3 stays zero (reserved).
	}

	return t
}

func (t *FrameTable) set(row, col int, c0, c1, c2, c3 float32) {
	base := (row*t.width + col) * frameTableChannels
	t.data[base+0] = c0
	t.data[base+1] = c1
	t.data[base+2] = c2
	t.data[base+3] = c3
}

// At returns one channel value for the given row and sprite column.
func (t *FrameTable) At(row, col, channel int) float32 {
	return t.data[(row*t.width+col)*frameTableChannels+channel]
}

// Width returns the table width (= sprite count, minimum 1).
func (t *FrameTable) Width() int {
	return t.width
}

// Rows returns the fixed logical row count.
func (t *FrameTable) Rows() int {
	return frameTableRows
}

// Data exposes the raw buffer for GPU upload. Callers must not mutate it.
func (t *FrameTable) Data() []float32 {
	return t.data
}

// Decode reconstructs the geometry of sprite i from the encoded rows.
// The inverse of the encoding in NewFrameTable; sprite names are not stored.
func (t *FrameTable) Decode(i int) atlas.Frame {
	return atlas.Frame{
		FrameRect: atlas.Rect{
			X: int32(t.At(rowRect, i, 0)),
			Y: int32(t.At(rowRect, i, 1)),
			W: int32(t.At(rowRect, i, 2)),
			H: int32(t.At(rowRect, i, 3)),
		},
		TrimOffset: atlas.Rect{
			X: int32(t.At(rowTrim, i, 0)),
			Y: int32(t.At(rowTrim, i, 1)),
			W: int32(t.At(rowRect, i, 2)),
			H: int32(t.At(rowRect, i, 3)),
		},
		SourceSize: atlas.Size{
			W: int32(t.At(rowSource, i, 0)),
			H: int32(t.At(rowSource, i, 1)),
		},
		Rotated: t.At(rowSource, i, 2) != 0,
		Trimmed: t.At(rowSource, i, 3) != 0,
	}
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
