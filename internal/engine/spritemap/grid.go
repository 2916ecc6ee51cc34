package spritemap

// gridChannels is the per-cell channel count. Only channel 0 (the sprite
// index) is read by the sampler; the rest keep the layout symmetric with
// the other lookup buffers.
const gridChannels = 4

// TileGrid is one layer's dense stage grid. A grid value is immutable once
// published; mutation produces a new generation that is swapped in whole.
type TileGrid struct {
	width  int
	height int
	data   []float32
}

// NewTileGrid allocates a width x height grid. Layer 0 starts with every
// cell holding baseTile; other layers start empty (zero).
func NewTileGrid(layer, width, height, baseTile int) *TileGrid {
	g := &TileGrid{
		width:  width,
		height: height,
		data:   make([]float32, width*height*gridChannels),
	}

	if layer == 0 && baseTile != 0 {
		for i := 0; i < width*height; i++ {
			g.data[i*gridChannels] = float32(baseTile)
		}
	}

	return g
}

// clone returns a deep copy for copy-on-write mutation.
func (g *TileGrid) clone() *TileGrid {
	c := &TileGrid{
		width:  g.width,
		height: g.height,
		data:   make([]float32, len(g.data)),
	}
	copy(c.data, g.data)
	return c
}

// setCell writes a sprite index into channel 0 of cell (x, y).
// Bounds are the caller's responsibility.
func (g *TileGrid) setCell(x, y, sprite int) {
	g.data[(y*g.width+x)*gridChannels] = float32(sprite)
}

// Cell returns the sprite index stored at (x, y).
func (g *TileGrid) Cell(x, y int) int {
	return int(g.data[(y*g.width+x)*gridChannels])
}

// Width returns the grid width in tiles.
func (g *TileGrid) Width() int {
	return g.width
}

// Height returns the grid height in tiles.
func (g *TileGrid) Height() int {
	return g.height
}

// Data exposes the raw buffer for GPU upload. Callers must not mutate it.
func (g *TileGrid) Data() []float32 {
	return g.data
}

// contains reports whether cell (x, y) is inside the grid.
func (g *TileGrid) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}
