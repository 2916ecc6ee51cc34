package spritemap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Tile-map stream errors.
var (
	ErrInvalidMapMagic  = errors.New("invalid tile map magic: expected 'STM1'")
	ErrMapShapeMismatch = errors.New("tile map shape does not match material")
	ErrTruncatedMapData = errors.New("truncated tile map data")
)

// tileMapMagic identifies a serialized tile-map stream.
var tileMapMagic = [4]byte{'S', 'T', 'M', '1'}

// SaveTileMaps writes every layer's sprite indices to w: a fixed header
// (magic, layer count, stage width, stage height) followed by the cells of
// each layer in row-major order, all little-endian int32.
func (m *Material) SaveTileMaps(w io.Writer) error {
	if _, err := w.Write(tileMapMagic[:]); err != nil {
		return fmt.Errorf("writing tile map header: %w", err)
	}

	header := [3]int32{
		int32(len(m.grids)),
		int32(m.cfg.stageWidth()),
		int32(m.cfg.stageHeight()),
	}
	if err := binary.Write(w, binary.LittleEndian, header[:]); err != nil {
		return fmt.Errorf("writing tile map header: %w", err)
	}

	cells := make([]int32, m.cfg.stageWidth()*m.cfg.stageHeight())
	for layer := range m.grids {
		grid := m.grids[layer].Load()
		for y := 0; y < grid.height; y++ {
			for x := 0; x < grid.width; x++ {
				cells[y*grid.width+x] = int32(grid.Cell(x, y))
			}
		}
		if err := binary.Write(w, binary.LittleEndian, cells); err != nil {
			return fmt.Errorf("writing layer %d: %w", layer, err)
		}
	}

	return nil
}

// LoadTileMaps restores layer grids previously written by SaveTileMaps.
// The stream's shape must match the material's config exactly. Each layer
// is swapped in as one new generation; on any error the live grids keep
// whatever LoadTileMaps had not yet replaced, and fully validated streams
// never fail halfway through a layer.
func (m *Material) LoadTileMaps(r io.Reader) error {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("%w: reading magic", ErrTruncatedMapData)
	}
	if magic != tileMapMagic {
		return ErrInvalidMapMagic
	}

	var header [3]int32
	if err := binary.Read(r, binary.LittleEndian, header[:]); err != nil {
		return fmt.Errorf("%w: reading header", ErrTruncatedMapData)
	}
	if int(header[0]) != len(m.grids) ||
		int(header[1]) != m.cfg.stageWidth() ||
		int(header[2]) != m.cfg.stageHeight() {
		return fmt.Errorf("%w: stream %dx%dx%d, material %dx%dx%d",
			ErrMapShapeMismatch,
			header[0], header[1], header[2],
			len(m.grids), m.cfg.stageWidth(), m.cfg.stageHeight())
	}

	width, height := m.cfg.stageWidth(), m.cfg.stageHeight()
	layers := make([]*TileGrid, len(m.grids))
	cells := make([]int32, width*height)
	for layer := range layers {
		if err := binary.Read(r, binary.LittleEndian, cells); err != nil {
			return fmt.Errorf("%w: layer %d", ErrTruncatedMapData, layer)
		}
		grid := NewTileGrid(layer, width, height, 0)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				grid.setCell(x, y, int(cells[y*width+x]))
			}
		}
		layers[layer] = grid
	}

	// Whole stream decoded; publish every layer.
	for layer, grid := range layers {
		m.grids[layer].Store(grid)
		if m.listener != nil {
			m.listener.TileGridSwapped(layer, grid)
		}
	}

	return nil
}
