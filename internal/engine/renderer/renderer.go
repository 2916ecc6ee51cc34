// Package renderer draws a sprite-map material as a textured stage quad.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/spritestage/internal/engine/shader"
	"github.com/Faultbox/spritestage/internal/engine/spritemap"
	"github.com/Faultbox/spritestage/internal/engine/texture"
	"github.com/Faultbox/spritestage/internal/logger"
	"github.com/Faultbox/spritestage/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Texture unit assignments. Tile map layers start at unitGrids and run
// upward, so the sheet units sit above the highest possible layer.
const (
	unitFrameMap  = 0
	unitAnimation = 1
	unitGrids     = 2

	maxLayers = 8

	unitSheet    = unitGrids + maxLayers
	unitBump     = unitSheet + 1
	unitSpecular = unitSheet + 2
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer owns the GL state for one material: the compositing program,
// the stage quad, and a texture per lookup buffer. It implements
// spritemap.BufferListener so generation swaps re-upload only the
// affected texture.
type Renderer struct {
	config Config

	material *spritemap.Material
	program  *shader.Program

	quadVAO uint32
	quadVBO uint32

	frameTex *texture.Texture
	animTex  *texture.Texture
	gridTex  []*texture.Texture
	sheetTex *texture.Texture
	bumpTex  *texture.Texture
	specTex  *texture.Texture
}

// New creates a renderer for the material. Must be called after the GL
// context exists. bump and specular may be nil.
func New(cfg Config, mat *spritemap.Material, diffuse, bump, specular *image.RGBA) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	mc := mat.Config()
	if mc.LayerCount > maxLayers {
		return nil, fmt.Errorf("layer count %d exceeds renderer maximum %d", mc.LayerCount, maxLayers)
	}

	r := &Renderer{
		config:   cfg,
		material: mat,
	}

	program, err := shader.NewProgram(
		shader.StageVertexSource(),
		shader.BuildStageFragment(shader.StageOptions{
			LayerCount:         mc.LayerCount,
			MaxAnimationFrames: mc.MaxAnimationFrames,
			FlipU:              mc.FlipU,
			Bump:               bump != nil,
			Specular:           specular != nil,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build stage program: %w", err)
	}
	r.program = program

	if err := r.uploadLookups(); err != nil {
		r.Close()
		return nil, err
	}

	r.sheetTex = texture.NewSheet(diffuse, true)
	if bump != nil {
		r.bumpTex = texture.NewSheet(bump, true)
	}
	if specular != nil {
		r.specTex = texture.NewSheet(specular, true)
	}

	r.createQuad()
	r.bindStaticUniforms()

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	mat.SetListener(r)

	return r, nil
}

// uploadLookups uploads the frame table, animation table, and every tile
// grid as RGBA32F lookup textures.
func (r *Renderer) uploadLookups() error {
	frames := r.material.Frames()
	tex, err := texture.NewLookup(frames.Width(), frames.Rows(), frames.Data())
	if err != nil {
		return fmt.Errorf("frame table upload: %w", err)
	}
	r.frameTex = tex

	anim := r.material.Animation()
	tex, err = texture.NewLookup(anim.SpriteCount(), anim.MaxFrames(), anim.Data())
	if err != nil {
		return fmt.Errorf("animation table upload: %w", err)
	}
	r.animTex = tex

	layers := r.material.Config().LayerCount
	r.gridTex = make([]*texture.Texture, layers)
	for i := 0; i < layers; i++ {
		grid := r.material.Grid(i)
		tex, err = texture.NewLookup(grid.Width(), grid.Height(), grid.Data())
		if err != nil {
			return fmt.Errorf("tile grid %d upload: %w", i, err)
		}
		r.gridTex[i] = tex
	}

	return nil
}

// bindStaticUniforms assigns texture units and the uniforms that never
// change between frames.
func (r *Renderer) bindStaticUniforms() {
	r.program.Use()

	gl.Uniform1i(r.program.MustUniform("frameMap"), unitFrameMap)
	gl.Uniform1i(r.program.MustUniform("animationMap"), unitAnimation)
	for i := range r.gridTex {
		gl.Uniform1i(r.program.MustUniform(fmt.Sprintf("tileMaps[%d]", i)), unitGrids+int32(i))
	}
	gl.Uniform1i(r.program.MustUniform("spriteSheet"), unitSheet)
	if r.bumpTex != nil {
		gl.Uniform1i(r.program.MustUniform("bumpSheet"), unitBump)
	}
	if r.specTex != nil {
		gl.Uniform1i(r.program.MustUniform("specularSheet"), unitSpecular)
	}

	mc := r.material.Config()
	gl.Uniform2f(r.program.MustUniform("stageSize"), mc.StageSize.X, mc.StageSize.Y)
	gl.Uniform3f(r.program.MustUniform("colorMul"),
		mc.ColorMultiply.X, mc.ColorMultiply.Y, mc.ColorMultiply.Z)

	gl.UseProgram(0)
}

// TileGridSwapped re-uploads one layer's grid texture. Part of the
// spritemap.BufferListener contract; must run on the GL thread.
func (r *Renderer) TileGridSwapped(layer int, grid *spritemap.TileGrid) {
	tex, err := texture.NewLookup(grid.Width(), grid.Height(), grid.Data())
	if err != nil {
		logger.Error("tile grid re-upload failed", zap.Int("layer", layer), zap.Error(err))
		return
	}
	r.gridTex[layer].Release()
	r.gridTex[layer] = tex
}

// AnimationSwapped re-uploads the animation table texture.
func (r *Renderer) AnimationSwapped(table *spritemap.AnimationTable) {
	tex, err := texture.NewLookup(table.SpriteCount(), table.MaxFrames(), table.Data())
	if err != nil {
		logger.Error("animation table re-upload failed", zap.Error(err))
		return
	}
	r.animTex.Release()
	r.animTex = tex
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Draw renders the stage at the given simulated time.
func (r *Renderer) Draw(time float32) {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.program.Use()
	gl.Uniform1f(r.program.MustUniform("time"), time)

	mvp := r.stageTransform()
	gl.UniformMatrix4fv(r.program.MustUniform("mvp"), 1, false, mvp.Ptr())

	r.frameTex.Bind(unitFrameMap)
	r.animTex.Bind(unitAnimation)
	for i, tex := range r.gridTex {
		tex.Bind(uint32(unitGrids + i))
	}
	r.sheetTex.Bind(unitSheet)
	if r.bumpTex != nil {
		r.bumpTex.Bind(unitBump)
	}
	if r.specTex != nil {
		r.specTex.Bind(unitSpecular)
	}

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// stageRect letterboxes the stage's output extent into the window,
// preserving aspect ratio. Returns the placed rect in window pixels.
func (r *Renderer) stageRect() (x, y, w, h float32) {
	mc := r.material.Config()
	outW, outH := mc.OutputSize.X, mc.OutputSize.Y
	winW, winH := float32(r.config.Width), float32(r.config.Height)

	scale := math.Min(winW/outW, winH/outH)
	w, h = outW*scale, outH*scale
	x, y = (winW-w)/2, (winH-h)/2
	return x, y, w, h
}

func (r *Renderer) stageTransform() math.Mat4 {
	x, y, w, h := r.stageRect()
	proj := math.Ortho(0, float32(r.config.Width), 0, float32(r.config.Height), -1, 1)
	model := math.Translate(x, y, 0).Mul(math.Scale(w, h, 1))
	return proj.Mul(model)
}

// WindowToStage maps a window pixel (top-left origin, as SDL reports mouse
// positions) to stage tile coordinates. Returns false when the point falls
// outside the letterboxed stage.
func (r *Renderer) WindowToStage(px, py int) (math.Vec2, bool) {
	x, y, w, h := r.stageRect()

	fx := (float32(px) - x) / w
	fy := 1 - (float32(py)-y)/h
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return math.Vec2{}, false
	}

	mc := r.material.Config()
	return math.Vec2{X: fx * mc.StageSize.X, Y: fy * mc.StageSize.Y}, true
}

// createQuad builds the unit stage quad with UVs.
func (r *Renderer) createQuad() {
	vertices := []float32{
		// Position  // UV
		0, 0, 0, 0,
		1, 0, 1, 0,
		1, 1, 1, 1,
		0, 0, 0, 0,
		1, 1, 1, 1,
		0, 1, 0, 1,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Close releases all GL resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.material.SetListener(nil)

	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	r.frameTex.Release()
	r.animTex.Release()
	for _, tex := range r.gridTex {
		tex.Release()
	}
	r.sheetTex.Release()
	r.bumpTex.Release()
	r.specTex.Release()
	if r.program != nil {
		r.program.Release()
	}
}
