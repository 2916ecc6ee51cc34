package spritemap

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	stdmath "math"
	"os"
	"testing"

	"github.com/Faultbox/spritestage/internal/logger"
	"github.com/Faultbox/spritestage/pkg/atlas"
	"github.com/Faultbox/spritestage/pkg/math"
)

func TestMain(m *testing.M) {
	// Quiet logger for tests.
	if err := logger.InitWithFileConfig("error", logger.FileConfig{}, false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// Test atlas layout: six 16x16 frames in an 96x16 image.
//
//	0 solid red        3 white at half alpha
//	1 solid green      4 black left half, white right half
//	2 solid blue       5 same rect as 4, marked rotated
const (
	tileRed = iota
	tileGreen
	tileBlue
	tileHalfWhite
	tileSplit
	tileSplitRotated
)

func buildTestAtlas() *atlas.Atlas {
	square := func(x int32) atlas.Frame {
		return atlas.Frame{
			FrameRect:  atlas.Rect{X: x, Y: 0, W: 16, H: 16},
			TrimOffset: atlas.Rect{X: 0, Y: 0, W: 16, H: 16},
			SourceSize: atlas.Size{W: 16, H: 16},
		}
	}

	rotated := square(64)
	rotated.Rotated = true

	return &atlas.Atlas{
		Frames: []atlas.Frame{
			square(0), square(16), square(32), square(48), square(64), rotated,
		},
		Meta: atlas.Meta{Image: "test.png", Size: &atlas.Size{W: 96, H: 16}},
	}
}

func buildTestImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 96, 16))
	fill := func(x0 int, c color.NRGBA) {
		for y := 0; y < 16; y++ {
			for x := x0; x < x0+16; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}

	fill(0, color.NRGBA{R: 255, A: 255})
	fill(16, color.NRGBA{G: 255, A: 255})
	fill(32, color.NRGBA{B: 255, A: 255})
	fill(48, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	// Frame 4/5: black left half, white right half.
	for y := 0; y < 16; y++ {
		for x := 64; x < 80; x++ {
			c := color.NRGBA{A: 255}
			if x >= 72 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	return img
}

func newTestMaterial(t *testing.T, cfg Config) *Material {
	t.Helper()
	m, err := New(buildTestAtlas(), NewImageSource(buildTestImage()), nil, nil, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func defaultTestConfig() Config {
	return Config{
		StageSize:  math.Vec2{X: 4, Y: 4},
		LayerCount: 1,
	}
}

func TestNew_ConfigErrors(t *testing.T) {
	desc := buildTestAtlas()
	src := NewImageSource(buildTestImage())

	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero stage", Config{LayerCount: 1}, ErrZeroStage},
		{"no layers", Config{StageSize: math.Vec2{X: 4, Y: 4}}, ErrNoLayers},
		{"negative anim frames", Config{StageSize: math.Vec2{X: 4, Y: 4}, LayerCount: 1, MaxAnimationFrames: -1}, ErrBadAnimFrames},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(desc, src, nil, nil, tc.cfg)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if m != nil {
				t.Error("expected no material on config error")
			}
		})
	}

	if _, err := New(desc, nil, nil, nil, defaultTestConfig()); !errors.Is(err, ErrNilDiffuse) {
		t.Errorf("expected ErrNilDiffuse, got %v", err)
	}
}

func TestNew_BaseTileFill(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.BaseTile = tileBlue
	cfg.LayerCount = 2
	m := newTestMaterial(t, cfg)

	if got := m.Grid(0).Cell(3, 3); got != tileBlue {
		t.Errorf("layer 0 default cell = %d, want %d", got, tileBlue)
	}
	if got := m.Grid(1).Cell(3, 3); got != 0 {
		t.Errorf("layer 1 default cell = %d, want 0", got)
	}
}

func TestSetCells_Idempotent(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())
	pos := []math.Vec2{{X: 1, Y: 2}}

	if err := m.SetCells(0, pos, tileGreen); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}
	first := append([]float32(nil), m.Grid(0).Data()...)

	if err := m.SetCells(0, pos, tileGreen); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}

	if !bytes.Equal(floatBytes(first), floatBytes(m.Grid(0).Data())) {
		t.Error("applying the same write twice changed the grid")
	}
}

func TestSetCells_FloorsCoordinates(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())

	if err := m.SetCells(0, []math.Vec2{{X: 2.9, Y: 1.2}}, tileBlue); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}
	if got := m.Grid(0).Cell(2, 1); got != tileBlue {
		t.Errorf("cell (2,1) = %d, want %d", got, tileBlue)
	}
}

func TestSetCells_OutOfBounds(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())
	before := append([]float32(nil), m.Grid(0).Data()...)

	// One valid and one invalid position: nothing may be written.
	err := m.SetCells(0, []math.Vec2{{X: 1, Y: 1}, {X: 4, Y: 0}}, tileGreen)
	if !errors.Is(err, ErrCellOutOfBounds) {
		t.Fatalf("expected ErrCellOutOfBounds, got %v", err)
	}

	if !bytes.Equal(floatBytes(before), floatBytes(m.Grid(0).Data())) {
		t.Error("failed SetCells modified the grid")
	}
}

func TestSetCells_BadLayerAndSprite(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())

	if err := m.SetCells(1, []math.Vec2{{X: 0, Y: 0}}, tileRed); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("expected ErrLayerOutOfRange, got %v", err)
	}
	if err := m.SetCells(0, []math.Vec2{{X: 0, Y: 0}}, 6); !errors.Is(err, ErrSpriteOutOfRange) {
		t.Errorf("expected ErrSpriteOutOfRange, got %v", err)
	}
	if err := m.SetCells(0, []math.Vec2{{X: 0, Y: 0}}, -1); !errors.Is(err, ErrSpriteOutOfRange) {
		t.Errorf("expected ErrSpriteOutOfRange, got %v", err)
	}
}

func TestSetCells_SnapshotIsolation(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())
	snap := m.Snapshot()

	if err := m.SetCells(0, []math.Vec2{{X: 0, Y: 0}}, tileGreen); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}

	// The old snapshot still reads the generation it captured.
	if got := snap.Grids[0].Cell(0, 0); got != 0 {
		t.Errorf("old snapshot cell = %d, want 0", got)
	}
	if got := m.Snapshot().Grids[0].Cell(0, 0); got != tileGreen {
		t.Errorf("new snapshot cell = %d, want %d", got, tileGreen)
	}
}

func TestSetAnimation_Errors(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())
	before := append([]float32(nil), m.Animation().Data()...)

	cases := []struct {
		name                string
		sprite, slot, next  int
		hold                float32
		want                error
	}{
		{"sprite out of range", 6, 0, 0, 0.5, ErrSpriteOutOfRange},
		{"next out of range", 0, 0, -2, 0.5, ErrSpriteOutOfRange},
		{"slot out of range", 0, DefaultMaxAnimationFrames, 1, 0.5, ErrSlotOutOfRange},
		{"hold too large", 0, 0, 1, 1.0, ErrHoldOutOfRange},
		{"hold negative", 0, 0, 1, -0.1, ErrHoldOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := m.SetAnimation(tc.sprite, tc.slot, tc.next, tc.hold, 1)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if !bytes.Equal(floatBytes(before), floatBytes(m.Animation().Data())) {
		t.Error("failed SetAnimation modified the table")
	}
}

func TestSetAnimation_Write(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())

	if err := m.SetAnimation(tileRed, 0, tileGreen, 0.5, 2); err != nil {
		t.Fatalf("SetAnimation failed: %v", err)
	}

	cell := m.Animation().Cell(tileRed, 0)
	if cell.Next != tileGreen || cell.Hold != 0.5 || cell.Speed != 2 {
		t.Errorf("cell = %+v, want {Next:%d Hold:0.5 Speed:2}", cell, tileGreen)
	}
	if !m.Animation().Animated(tileRed) {
		t.Error("sprite should report animated after slot-0 write")
	}
	if m.Animation().Animated(tileBlue) {
		t.Error("untouched sprite should not report animated")
	}
}

func TestSaveLoadTileMaps_RoundTrip(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.LayerCount = 2
	cfg.BaseTile = tileGreen
	m := newTestMaterial(t, cfg)

	if err := m.SetCells(0, []math.Vec2{{X: 1, Y: 1}, {X: 2, Y: 3}}, tileBlue); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}
	if err := m.SetCells(1, []math.Vec2{{X: 0, Y: 2}}, tileHalfWhite); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}

	var buf bytes.Buffer
	if err := m.SaveTileMaps(&buf); err != nil {
		t.Fatalf("SaveTileMaps failed: %v", err)
	}

	// Restore into a fresh material with the same shape.
	restored := newTestMaterial(t, cfg)
	if err := restored.LoadTileMaps(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("LoadTileMaps failed: %v", err)
	}

	for layer := 0; layer < cfg.LayerCount; layer++ {
		if !bytes.Equal(floatBytes(m.Grid(layer).Data()), floatBytes(restored.Grid(layer).Data())) {
			t.Errorf("layer %d differs after round trip", layer)
		}
	}
}

func TestLoadTileMaps_Errors(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())

	if err := m.LoadTileMaps(bytes.NewReader([]byte("XXXX\x00\x00"))); !errors.Is(err, ErrInvalidMapMagic) {
		t.Errorf("expected ErrInvalidMapMagic, got %v", err)
	}

	// Valid stream from a differently shaped material.
	other := newTestMaterial(t, Config{StageSize: math.Vec2{X: 2, Y: 2}, LayerCount: 1})
	var buf bytes.Buffer
	if err := other.SaveTileMaps(&buf); err != nil {
		t.Fatalf("SaveTileMaps failed: %v", err)
	}
	if err := m.LoadTileMaps(bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrMapShapeMismatch) {
		t.Errorf("expected ErrMapShapeMismatch, got %v", err)
	}

	if err := m.LoadTileMaps(bytes.NewReader([]byte("STM1"))); !errors.Is(err, ErrTruncatedMapData) {
		t.Errorf("expected ErrTruncatedMapData, got %v", err)
	}
}

type recordingListener struct {
	gridSwaps []int
	animSwaps int
}

func (r *recordingListener) TileGridSwapped(layer int, _ *TileGrid) {
	r.gridSwaps = append(r.gridSwaps, layer)
}

func (r *recordingListener) AnimationSwapped(_ *AnimationTable) {
	r.animSwaps++
}

func TestListener_NotifiedAfterSwap(t *testing.T) {
	m := newTestMaterial(t, defaultTestConfig())
	var rec recordingListener
	m.SetListener(&rec)

	if err := m.SetCells(0, []math.Vec2{{X: 0, Y: 0}}, tileGreen); err != nil {
		t.Fatalf("SetCells failed: %v", err)
	}
	if err := m.SetAnimation(tileRed, 0, tileGreen, 0.25, 1); err != nil {
		t.Fatalf("SetAnimation failed: %v", err)
	}

	if len(rec.gridSwaps) != 1 || rec.gridSwaps[0] != 0 {
		t.Errorf("grid swaps = %v, want [0]", rec.gridSwaps)
	}
	if rec.animSwaps != 1 {
		t.Errorf("animation swaps = %d, want 1", rec.animSwaps)
	}

	// Failed mutations never notify.
	_ = m.SetCells(0, []math.Vec2{{X: -1, Y: 0}}, tileGreen)
	if len(rec.gridSwaps) != 1 {
		t.Error("failed SetCells notified the listener")
	}
}

// floatBytes views a float32 slice as raw bytes for exact comparison.
func floatBytes(data []float32) []byte {
	buf := make([]byte, 0, len(data)*4)
	for _, f := range data {
		bits := stdmath.Float32bits(f)
		buf = append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return buf
}
