// Package atlas parses sprite-atlas description files.
//
// The supported schema is the packer JSON array format: a "frames" list in
// declaration order, each entry naming a source rectangle inside the atlas
// image plus trim and rotation metadata, and an optional "meta" block with
// the atlas image size.
package atlas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Atlas description errors.
var (
	ErrInvalidJSON             = errors.New("invalid atlas JSON")
	ErrNoFrames                = errors.New("atlas has no frames list")
	ErrMissingFrameRect        = errors.New("frame missing required rect")
	ErrMissingSpriteSourceSize = errors.New("frame missing required spriteSourceSize")
	ErrMissingSourceSize       = errors.New("frame missing required sourceSize")
	ErrInvalidFrameRect        = errors.New("frame rect has non-positive dimensions")
)

// Rect is a pixel rectangle inside the atlas image.
type Rect struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	W int32 `json:"w"`
	H int32 `json:"h"`
}

// Size is a pixel extent.
type Size struct {
	W int32 `json:"w"`
	H int32 `json:"h"`
}

// Frame is one sprite entry in the atlas.
type Frame struct {
	Filename   string // sprite name, informational only
	FrameRect  Rect   // source rect in the atlas image
	Rotated    bool   // source rect is stored rotated 90 degrees
	Trimmed    bool   // transparent borders were trimmed away
	TrimOffset Rect   // offset and size of the trimmed sprite inside its source box
	SourceSize Size   // untrimmed sprite size
}

// Meta is the optional atlas metadata block.
type Meta struct {
	Image string `json:"image"`
	Size  *Size  `json:"size"`
}

// Atlas is a parsed atlas description. Frame order is declaration order;
// a frame's index in Frames is its sprite index everywhere else.
type Atlas struct {
	Frames []Frame
	Meta   Meta
}

// rawFrame mirrors the JSON schema with pointers so that missing required
// fields are distinguishable from zero values.
type rawFrame struct {
	Filename         string `json:"filename"`
	Frame            *Rect  `json:"frame"`
	Rotated          bool   `json:"rotated"`
	Trimmed          bool   `json:"trimmed"`
	SpriteSourceSize *Rect  `json:"spriteSourceSize"`
	SourceSize       *Size  `json:"sourceSize"`
}

type rawAtlas struct {
	Frames []rawFrame `json:"frames"`
	Meta   Meta       `json:"meta"`
}

// Parse parses an atlas description from raw JSON bytes.
func Parse(data []byte) (*Atlas, error) {
	var raw rawAtlas
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if raw.Frames == nil {
		return nil, ErrNoFrames
	}

	a := &Atlas{
		Frames: make([]Frame, 0, len(raw.Frames)),
		Meta:   raw.Meta,
	}

	for i, rf := range raw.Frames {
		if rf.Frame == nil {
			return nil, fmt.Errorf("%w: frame %d (%s)", ErrMissingFrameRect, i, rf.Filename)
		}
		if rf.SpriteSourceSize == nil {
			return nil, fmt.Errorf("%w: frame %d (%s)", ErrMissingSpriteSourceSize, i, rf.Filename)
		}
		if rf.SourceSize == nil {
			return nil, fmt.Errorf("%w: frame %d (%s)", ErrMissingSourceSize, i, rf.Filename)
		}
		if rf.Frame.W <= 0 || rf.Frame.H <= 0 {
			return nil, fmt.Errorf("%w: frame %d (%s): %dx%d", ErrInvalidFrameRect, i, rf.Filename, rf.Frame.W, rf.Frame.H)
		}

		a.Frames = append(a.Frames, Frame{
			Filename:   rf.Filename,
			FrameRect:  *rf.Frame,
			Rotated:    rf.Rotated,
			Trimmed:    rf.Trimmed,
			TrimOffset: *rf.SpriteSourceSize,
			SourceSize: *rf.SourceSize,
		})
	}

	return a, nil
}

// ParseFile parses an atlas description from a file on disk.
func ParseFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading atlas file: %w", err)
	}
	return Parse(data)
}

// SpriteCount returns the number of frames.
func (a *Atlas) SpriteCount() int {
	return len(a.Frames)
}

// FindFrame returns the index of the frame with the given filename,
// or -1 if not present.
func (a *Atlas) FindFrame(name string) int {
	for i := range a.Frames {
		if a.Frames[i].Filename == name {
			return i
		}
	}
	return -1
}
