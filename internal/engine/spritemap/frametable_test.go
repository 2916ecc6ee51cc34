package spritemap

import (
	"testing"

	"github.com/Faultbox/spritestage/pkg/atlas"
)

func TestFrameTable_RoundTrip(t *testing.T) {
	frames := []atlas.Frame{
		{
			FrameRect:  atlas.Rect{X: 0, Y: 0, W: 16, H: 16},
			TrimOffset: atlas.Rect{X: 0, Y: 0, W: 16, H: 16},
			SourceSize: atlas.Size{W: 16, H: 16},
		},
		{
			FrameRect:  atlas.Rect{X: 48, Y: 8, W: 12, H: 20},
			TrimOffset: atlas.Rect{X: 2, Y: 3, W: 12, H: 20},
			SourceSize: atlas.Size{W: 16, H: 24},
			Rotated:    true,
			Trimmed:    true,
		},
	}

	table := NewFrameTable(frames)

	for i, want := range frames {
		got := table.Decode(i)
		if got.FrameRect != want.FrameRect {
			t.Errorf("frame %d: rect = %+v, want %+v", i, got.FrameRect, want.FrameRect)
		}
		if got.TrimOffset.X != want.TrimOffset.X || got.TrimOffset.Y != want.TrimOffset.Y {
			t.Errorf("frame %d: trim offset = (%d,%d), want (%d,%d)",
				i, got.TrimOffset.X, got.TrimOffset.Y, want.TrimOffset.X, want.TrimOffset.Y)
		}
		if got.SourceSize != want.SourceSize {
			t.Errorf("frame %d: source size = %+v, want %+v", i, got.SourceSize, want.SourceSize)
		}
		if got.Rotated != want.Rotated || got.Trimmed != want.Trimmed {
			t.Errorf("frame %d: flags = (%v,%v), want (%v,%v)",
				i, got.Rotated, got.Trimmed, want.Rotated, want.Trimmed)
		}
	}
}

func TestFrameTable_Empty(t *testing.T) {
	table := NewFrameTable(nil)

	if table.Width() != 1 {
		t.Errorf("empty table width = %d, want 1", table.Width())
	}
	for _, v := range table.Data() {
		if v != 0 {
			t.Fatal("empty table should be zero-filled")
		}
	}
}

func TestFrameTable_FixedLayout(t *testing.T) {
	one := NewFrameTable(make([]atlas.Frame, 1))
	many := NewFrameTable(make([]atlas.Frame, 37))

	// Row count and channel layout never vary; only the width does.
	if one.Rows() != many.Rows() {
		t.Errorf("row count varies with sprite count: %d vs %d", one.Rows(), many.Rows())
	}
	if one.Rows()&(one.Rows()-1) != 0 {
		t.Errorf("row count %d is not a power of two", one.Rows())
	}
	if many.Width() != 37 {
		t.Errorf("width = %d, want 37", many.Width())
	}
}

func TestFrameTable_ReservedRowZero(t *testing.T) {
	table := NewFrameTable([]atlas.Frame{{
		FrameRect:  atlas.Rect{X: 1, Y: 2, W: 3, H: 4},
		TrimOffset: atlas.Rect{W: 3, H: 4},
		SourceSize: atlas.Size{W: 3, H: 4},
	}})

	for ch := 0; ch < frameTableChannels; ch++ {
		if v := table.At(3, 0, ch); v != 0 {
			t.Errorf("reserved row channel %d = %v, want 0", ch, v)
		}
	}
}
