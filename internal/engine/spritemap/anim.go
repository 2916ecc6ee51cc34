package spritemap

// animChannels is the per-cell channel count of the animation table:
// next sprite index, cumulative hold fraction, playback speed, reserved.
const animChannels = 4

// AnimationTable maps (sprite index, frame slot) to an animation cell.
// A cell whose hold fraction is zero is inert; a sprite whose slot-0 cell
// is inert is not animated at all. Like TileGrid, a published table is
// immutable and mutation swaps in a fresh generation.
type AnimationTable struct {
	spriteCount int
	maxFrames   int
	data        []float32
}

// AnimationCell is one decoded table entry.
type AnimationCell struct {
	Next  int     // sprite index displayed while this slot covers the loop time
	Hold  float32 // cumulative fraction of the loop period at which the slot ends
	Speed float32 // scales how fast time advances through the loop
}

// NewAnimationTable allocates an inert spriteCount x maxFrames table.
func NewAnimationTable(spriteCount, maxFrames int) *AnimationTable {
	if spriteCount < 1 {
		spriteCount = 1
	}
	return &AnimationTable{
		spriteCount: spriteCount,
		maxFrames:   maxFrames,
		data:        make([]float32, spriteCount*maxFrames*animChannels),
	}
}

// clone returns a deep copy for copy-on-write mutation.
func (t *AnimationTable) clone() *AnimationTable {
	c := &AnimationTable{
		spriteCount: t.spriteCount,
		maxFrames:   t.maxFrames,
		data:        make([]float32, len(t.data)),
	}
	copy(c.data, t.data)
	return c
}

// setCell writes one cell. Bounds are the caller's responsibility.
func (t *AnimationTable) setCell(sprite, slot int, cell AnimationCell) {
	base := (slot*t.spriteCount + sprite) * animChannels
	t.data[base+0] = float32(cell.Next)
	t.data[base+1] = cell.Hold
	t.data[base+2] = cell.Speed
}

// Cell returns the entry for the given sprite and frame slot.
func (t *AnimationTable) Cell(sprite, slot int) AnimationCell {
	base := (slot*t.spriteCount + sprite) * animChannels
	return AnimationCell{
		Next:  int(t.data[base+0]),
		Hold:  t.data[base+1],
		Speed: t.data[base+2],
	}
}

// Animated reports whether the sprite has an armed animation chain.
func (t *AnimationTable) Animated(sprite int) bool {
	return t.Cell(sprite, 0).Hold > 0
}

// SpriteCount returns the table width.
func (t *AnimationTable) SpriteCount() int {
	return t.spriteCount
}

// MaxFrames returns the per-sprite row length.
func (t *AnimationTable) MaxFrames() int {
	return t.maxFrames
}

// Data exposes the raw buffer for GPU upload. Callers must not mutate it.
func (t *AnimationTable) Data() []float32 {
	return t.data
}
