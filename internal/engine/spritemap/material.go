// Package spritemap implements a tile-map sprite compositing material:
// an atlas frame table, per-layer tile grids, and an animation table,
// combined per pixel by a pure compositing sampler. The lookup buffers are
// flat float32 arrays laid out for direct GPU texture upload.
package spritemap

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/spritestage/internal/logger"
	"github.com/Faultbox/spritestage/pkg/atlas"
	"github.com/Faultbox/spritestage/pkg/math"
)

// BufferListener observes lookup-buffer generation swaps so a GPU binding
// can re-upload the affected texture and release the previous one.
// Callbacks run on the mutating goroutine, after the new generation is the
// one readers see.
type BufferListener interface {
	TileGridSwapped(layer int, grid *TileGrid)
	AnimationSwapped(table *AnimationTable)
}

// Material owns the three lookup buffers of one sprite-map instance and
// applies mutations to them. Reads happen through Snapshot; all mutation
// methods must be called from a single goroutine at a time. Source images
// are shared references owned by the caller.
type Material struct {
	cfg    Config
	frames *FrameTable

	diffuse  Source
	bump     Source
	specular Source

	grids []atomic.Pointer[TileGrid]
	anim  atomic.Pointer[AnimationTable]

	atlasSize atomic.Pointer[math.Vec2]

	listener BufferListener
}

// New constructs a material from an atlas description, its source images,
// and a config. Configuration errors abort construction; no partial
// material is returned. bump and specular may be nil to disable those
// sampling paths.
func New(desc *atlas.Atlas, diffuse, bump, specular Source, cfg Config) (*Material, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("sprite map config: %w", err)
	}
	if diffuse == nil {
		return nil, ErrNilDiffuse
	}

	m := &Material{
		cfg:      cfg,
		frames:   NewFrameTable(desc.Frames),
		diffuse:  diffuse,
		bump:     bump,
		specular: specular,
		grids:    make([]atomic.Pointer[TileGrid], cfg.LayerCount),
	}

	for layer := 0; layer < cfg.LayerCount; layer++ {
		m.grids[layer].Store(NewTileGrid(layer, cfg.stageWidth(), cfg.stageHeight(), cfg.BaseTile))
	}
	m.anim.Store(NewAnimationTable(m.frames.Width(), cfg.MaxAnimationFrames))

	// The atlas size comes from the description when it carries one, and
	// otherwise from the diffuse source's ready notification.
	if desc.Meta.Size != nil {
		size := math.Vec2{X: float32(desc.Meta.Size.W), Y: float32(desc.Meta.Size.H)}
		m.atlasSize.Store(&size)
	} else {
		diffuse.WhenReady(func(w, h int) {
			size := math.Vec2{X: float32(w), Y: float32(h)}
			m.atlasSize.Store(&size)
		})
	}

	logger.Debug("sprite map material created",
		zap.Int("sprites", desc.SpriteCount()),
		zap.Int("layers", cfg.LayerCount),
		zap.Float32("stage_w", cfg.StageSize.X),
		zap.Float32("stage_h", cfg.StageSize.Y),
	)

	return m, nil
}

// SetListener installs the GPU-side swap observer. Pass nil to detach.
func (m *Material) SetListener(l BufferListener) {
	m.listener = l
}

// Config returns the material's resolved configuration.
func (m *Material) Config() Config {
	return m.cfg
}

// Frames returns the immutable frame table.
func (m *Material) Frames() *FrameTable {
	return m.frames
}

// SpriteCount returns the number of sprites in the atlas.
func (m *Material) SpriteCount() int {
	return m.frames.Width()
}

// SetCells writes one sprite index into every listed cell of a layer.
// Coordinates are floored to whole tiles and validated before anything is
// written; any out-of-range position fails the whole call and leaves the
// live grid untouched. All writes land in a single generation swap, so a
// concurrent frame never observes a partially applied batch.
func (m *Material) SetCells(layer int, positions []math.Vec2, sprite int) error {
	if layer < 0 || layer >= len(m.grids) {
		return fmt.Errorf("%w: layer %d of %d", ErrLayerOutOfRange, layer, len(m.grids))
	}
	if sprite < 0 || sprite >= m.frames.Width() {
		return fmt.Errorf("%w: sprite %d of %d", ErrSpriteOutOfRange, sprite, m.frames.Width())
	}

	current := m.grids[layer].Load()

	cells := make([][2]int, len(positions))
	for i, p := range positions {
		x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if !current.contains(x, y) {
			return fmt.Errorf("%w: (%g, %g) on %dx%d stage",
				ErrCellOutOfBounds, p.X, p.Y, current.width, current.height)
		}
		cells[i] = [2]int{x, y}
	}

	next := current.clone()
	for _, c := range cells {
		next.setCell(c[0], c[1], sprite)
	}
	m.grids[layer].Store(next)

	if m.listener != nil {
		m.listener.TileGridSwapped(layer, next)
	}
	return nil
}

// SetAnimation writes one cell of a sprite's animation row. hold is the
// cumulative fraction of the loop period, in [0, 1); speed scales how fast
// time advances through the loop. The rebuilt table is swapped in whole.
func (m *Material) SetAnimation(sprite, slot, next int, hold, speed float32) error {
	if sprite < 0 || sprite >= m.frames.Width() {
		return fmt.Errorf("%w: sprite %d of %d", ErrSpriteOutOfRange, sprite, m.frames.Width())
	}
	if next < 0 || next >= m.frames.Width() {
		return fmt.Errorf("%w: next sprite %d of %d", ErrSpriteOutOfRange, next, m.frames.Width())
	}
	if slot < 0 || slot >= m.cfg.MaxAnimationFrames {
		return fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, slot, m.cfg.MaxAnimationFrames)
	}
	if hold < 0 || hold >= 1 {
		return fmt.Errorf("%w: got %g", ErrHoldOutOfRange, hold)
	}

	table := m.anim.Load().clone()
	table.setCell(sprite, slot, AnimationCell{Next: next, Hold: hold, Speed: speed})
	m.anim.Store(table)

	if m.listener != nil {
		m.listener.AnimationSwapped(table)
	}
	return nil
}

// Grid returns the live grid generation for a layer.
func (m *Material) Grid(layer int) *TileGrid {
	return m.grids[layer].Load()
}

// Animation returns the live animation table generation.
func (m *Material) Animation() *AnimationTable {
	return m.anim.Load()
}

// AtlasSize returns the atlas pixel size and whether it is known yet.
func (m *Material) AtlasSize() (math.Vec2, bool) {
	p := m.atlasSize.Load()
	if p == nil {
		return math.Vec2{}, false
	}
	return *p, true
}

// Sample composites one stage coordinate against the current buffer
// generations. Convenience for one-off reads; anything sampling per pixel
// should take one Snapshot per frame instead.
func (m *Material) Sample(stageUV math.Vec2, time float32) SampleResult {
	return m.Snapshot().Sample(stageUV, time)
}

// Snapshot captures a read-only view of every buffer for one rendered
// frame. Sampling a snapshot never races with mutation: each pointer is a
// generation that is immutable once published.
func (m *Material) Snapshot() *Snapshot {
	s := &Snapshot{
		Config:   m.cfg,
		Frames:   m.frames,
		Grids:    make([]*TileGrid, len(m.grids)),
		Anim:     m.anim.Load(),
		Diffuse:  m.diffuse,
		Bump:     m.bump,
		Specular: m.specular,
	}
	for i := range m.grids {
		s.Grids[i] = m.grids[i].Load()
	}
	if size, ok := m.AtlasSize(); ok {
		s.AtlasSize = size
		s.Ready = true
	}
	return s
}
