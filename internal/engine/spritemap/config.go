package spritemap

import (
	"errors"
	"fmt"

	"github.com/Faultbox/spritestage/pkg/math"
)

// Configuration errors (fatal at construction).
var (
	ErrZeroStage     = errors.New("stage size must be at least 1x1 tiles")
	ErrNoLayers      = errors.New("layer count must be at least 1")
	ErrBadAnimFrames = errors.New("max animation frames must be at least 1")
	ErrNilDiffuse    = errors.New("diffuse source is required")
)

// Mutation errors (recoverable, buffers left unchanged).
var (
	ErrLayerOutOfRange  = errors.New("layer index out of range")
	ErrCellOutOfBounds  = errors.New("cell position outside stage bounds")
	ErrSpriteOutOfRange = errors.New("sprite index out of range")
	ErrSlotOutOfRange   = errors.New("animation frame slot out of range")
	ErrHoldOutOfRange   = errors.New("hold fraction must be in [0, 1)")
)

// Config drives which code paths a material compiles in. It is read-only
// after construction; New copies it.
type Config struct {
	// StageSize is the grid extent in tiles.
	StageSize math.Vec2
	// OutputSize is the rendered extent in world units. Zero means StageSize.
	OutputSize math.Vec2
	// LayerCount is the number of tile grids composited back-to-front.
	LayerCount int
	// MaxAnimationFrames is the per-sprite animation row length.
	// Zero means DefaultMaxAnimationFrames.
	MaxAnimationFrames int
	// BaseTile is the sprite index layer 0 cells start with.
	BaseTile int
	// FlipU inverts the vertical fractional tile coordinate before sampling.
	FlipU bool
	// ColorMultiply scales the final composite color. Zero means white.
	ColorMultiply math.Vec3
}

// DefaultMaxAnimationFrames is the animation row length used when the
// config leaves MaxAnimationFrames at zero.
const DefaultMaxAnimationFrames = 4

// withDefaults returns a copy of c with zero-value fields resolved.
func (c Config) withDefaults() Config {
	if c.MaxAnimationFrames == 0 {
		c.MaxAnimationFrames = DefaultMaxAnimationFrames
	}
	if c.ColorMultiply == (math.Vec3{}) {
		c.ColorMultiply = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	if c.OutputSize == (math.Vec2{}) {
		c.OutputSize = c.StageSize
	}
	return c
}

// validate reports the first fatal configuration error.
func (c Config) validate() error {
	if c.StageSize.X < 1 || c.StageSize.Y < 1 {
		return fmt.Errorf("%w: got %gx%g", ErrZeroStage, c.StageSize.X, c.StageSize.Y)
	}
	if c.LayerCount < 1 {
		return fmt.Errorf("%w: got %d", ErrNoLayers, c.LayerCount)
	}
	if c.MaxAnimationFrames < 1 {
		return fmt.Errorf("%w: got %d", ErrBadAnimFrames, c.MaxAnimationFrames)
	}
	return nil
}

// stageWidth returns the grid width in whole tiles.
func (c Config) stageWidth() int {
	return int(c.StageSize.X)
}

// stageHeight returns the grid height in whole tiles.
func (c Config) stageHeight() int {
	return int(c.StageSize.Y)
}
