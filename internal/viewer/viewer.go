// Package viewer implements the interactive stage viewer loop.
package viewer

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/spritestage/internal/config"
	"github.com/Faultbox/spritestage/internal/engine/framebuffer"
	"github.com/Faultbox/spritestage/internal/engine/input"
	"github.com/Faultbox/spritestage/internal/engine/renderer"
	"github.com/Faultbox/spritestage/internal/engine/spritemap"
	"github.com/Faultbox/spritestage/internal/engine/window"
	"github.com/Faultbox/spritestage/internal/logger"
	"github.com/Faultbox/spritestage/pkg/math"
)

// Viewer owns the window, the renderer, and the material being displayed.
type Viewer struct {
	cfg      *config.Config
	running  bool
	paused   bool
	simTime  float32
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	material *spritemap.Material

	// paintSprite is the sprite index the next mouse click writes.
	paintSprite int
	// paintLayer is the layer mouse clicks write to.
	paintLayer int
}

// New creates a viewer: it loads the assets named by the config, builds
// the material, and brings up the window and renderer.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg}

	mat, diffuse, bump, specular, err := loadMaterial(cfg)
	if err != nil {
		return nil, err
	}
	v.material = mat

	v.window, err = window.New(window.Config{
		Title:      "Sprite Stage",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	}, mat, diffuse, bump, specular)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Resize(v.window.GetSize())

	v.input = input.New()

	if cfg.Data.TileMaps != "" {
		if err := v.loadTileMaps(cfg.Data.TileMaps); err != nil {
			logger.Warn("tile map state not restored", zap.Error(err))
		}
	}

	logger.Info("viewer initialized",
		zap.Int("sprites", mat.SpriteCount()),
		zap.Int("layers", mat.Config().LayerCount),
	)
	return v, nil
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			break
		}
		v.handleEvents()

		if !v.paused {
			v.simTime += dt
		}

		v.renderer.Draw(v.simTime)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit := v.cfg.Graphics.FPSLimit; limit > 0 {
			elapsed := time.Since(now)
			if target := time.Second / time.Duration(limit); elapsed < target {
				time.Sleep(target - elapsed)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)

		case input.EventKeyDown:
			v.handleKey(event.Key)

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				v.paint(event.MouseX, event.MouseY)
			}
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		v.running = false

	case sdl.SCANCODE_SPACE:
		v.paused = !v.paused
		logger.Info("animation", zap.Bool("paused", v.paused))

	case sdl.SCANCODE_LEFTBRACKET:
		v.paintSprite = (v.paintSprite + v.material.SpriteCount() - 1) % v.material.SpriteCount()
		logger.Info("paint sprite", zap.Int("sprite", v.paintSprite))

	case sdl.SCANCODE_RIGHTBRACKET:
		v.paintSprite = (v.paintSprite + 1) % v.material.SpriteCount()
		logger.Info("paint sprite", zap.Int("sprite", v.paintSprite))

	case sdl.SCANCODE_TAB:
		v.paintLayer = (v.paintLayer + 1) % v.material.Config().LayerCount
		logger.Info("paint layer", zap.Int("layer", v.paintLayer))

	case sdl.SCANCODE_S:
		if v.cfg.Data.TileMaps == "" {
			logger.Warn("no tilemaps path configured, not saving")
			return
		}
		if err := v.saveTileMaps(v.cfg.Data.TileMaps); err != nil {
			logger.Error("saving tile maps failed", zap.Error(err))
		} else {
			logger.Info("tile maps saved", zap.String("path", v.cfg.Data.TileMaps))
		}

	case sdl.SCANCODE_F12:
		if err := v.capture(); err != nil {
			logger.Error("capture failed", zap.Error(err))
		}
	}
}

// paint writes the selected sprite into the clicked cell.
func (v *Viewer) paint(px, py int) {
	pos, ok := v.renderer.WindowToStage(px, py)
	if !ok {
		return
	}
	if err := v.material.SetCells(v.paintLayer, []math.Vec2{pos}, v.paintSprite); err != nil {
		logger.Error("paint failed", zap.Error(err))
		return
	}
	logger.Debug("cell painted",
		zap.Int("layer", v.paintLayer),
		zap.Float32("x", pos.X),
		zap.Float32("y", pos.Y),
		zap.Int("sprite", v.paintSprite),
	)
}

func (v *Viewer) saveTileMaps(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return v.material.SaveTileMaps(f)
}

func (v *Viewer) loadTileMaps(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return v.material.LoadTileMaps(f)
}

// capture renders one frame offscreen at the window size and writes a
// timestamped PNG next to the working directory.
func (v *Viewer) capture() error {
	w, h := v.window.GetSize()
	fb, err := framebuffer.New(int32(w), int32(h))
	if err != nil {
		return err
	}
	defer fb.Destroy()

	restore := fb.Bind()
	v.renderer.Draw(v.simTime)
	img := fb.Capture()
	restore()

	path := fmt.Sprintf("stage-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Info("capture written", zap.String("path", path))
	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
