package spritemap

import (
	"github.com/Faultbox/spritestage/pkg/math"
)

// Snapshot is the read-only per-frame view the sampler evaluates against.
// All fields are immutable generations; a snapshot can be sampled from any
// number of goroutines.
type Snapshot struct {
	Config    Config
	Frames    *FrameTable
	Grids     []*TileGrid
	Anim      *AnimationTable
	Diffuse   Source
	Bump      Source
	Specular  Source
	AtlasSize math.Vec2
	Ready     bool // false until the atlas size is known
}

// SampleResult is one composited pixel.
type SampleResult struct {
	Color    math.Vec3
	Alpha    float32
	Normal   math.Vec3 // meaningful only when a bump source is present
	Specular math.Vec3 // meaningful only when a specular source is present
}

// Sample composites every layer at the given stage coordinate and
// simulated time. stageUV is in tile units: the integer part selects the
// cell, the fractional part the position inside it. The function is pure
// over the snapshot; it holds no state between invocations.
//
// Sprite indices read from a grid are clamped into [0, spriteCount) before
// the frame lookup. The clamp means a stray index silently renders the
// nearest valid sprite instead of faulting.
func (s *Snapshot) Sample(stageUV math.Vec2, time float32) SampleResult {
	var out SampleResult
	if !s.Ready {
		return out
	}

	tileCoord := stageUV.Floor()
	tileFrac := stageUV.Fract()
	if s.Config.FlipU {
		tileFrac.Y = 1 - tileFrac.Y
	}

	// Layer 0 always seeds the composite, even when fully transparent;
	// overlays blend over it. The top of the loop range is the last grid
	// index, so every grid contributes exactly once.
	for i := 0; i < len(s.Grids); i++ {
		grid := s.Grids[i]
		x := clampInt(int(tileCoord.X), 0, grid.width-1)
		y := clampInt(int(tileCoord.Y), 0, grid.height-1)
		frameID := clampInt(grid.Cell(x, y), 0, s.Frames.Width()-1)

		frameID = s.resolveAnimation(frameID, time)

		frame := s.Frames
		rectX := frame.At(rowRect, frameID, 0)
		rectY := frame.At(rowRect, frameID, 1)
		rectW := frame.At(rowRect, frameID, 2)
		rectH := frame.At(rowRect, frameID, 3)
		rotated := frame.At(rowSource, frameID, 2) != 0

		frameSize := math.Vec2{X: rectW / s.AtlasSize.X, Y: rectH / s.AtlasSize.Y}
		uvOffset := math.Vec2{X: rectX / s.AtlasSize.X, Y: rectY / s.AtlasSize.Y}

		// Rotation correction is per layer: sprites stacked on the same
		// cell may disagree on the rotated flag.
		frac := tileFrac
		if rotated {
			frac.X, frac.Y = frac.Y, frac.X
		}

		uv := frac.Mul(frameSize).Add(uvOffset)
		sample := s.Diffuse.Sample(uv.X, uv.Y)

		var normal, spec math.Vec3
		if s.Bump != nil {
			normal = colorToVec3(s.Bump.Sample(uv.X, uv.Y))
		}
		if s.Specular != nil {
			spec = colorToVec3(s.Specular.Sample(uv.X, uv.Y))
		}

		if i == 0 {
			out.Color = math.Vec3{X: sample.R, Y: sample.G, Z: sample.B}
			out.Alpha = sample.A
			out.Normal = normal
			out.Specular = spec
			continue
		}

		out.Alpha = math.Min(out.Alpha+sample.A, 1)
		out.Color = out.Color.Lerp(math.Vec3{X: sample.R, Y: sample.G, Z: sample.B}, sample.A)
		if s.Bump != nil {
			out.Normal = out.Normal.Lerp(normal, sample.A).Normalize()
		}
		if s.Specular != nil {
			out.Specular = out.Specular.Lerp(spec, sample.A)
		}
	}

	out.Color = math.Vec3{
		X: out.Color.X * s.Config.ColorMultiply.X,
		Y: out.Color.Y * s.Config.ColorMultiply.Y,
		Z: out.Color.Z * s.Config.ColorMultiply.Z,
	}
	return out
}

// resolveAnimation walks a sprite's animation chain for the given time.
//
// A sprite is animated when slot 0 of its row holds a non-zero cumulative
// fraction. The scan visits slots in order, following each visited slot's
// next index through the successor rows, and stops at the first slot whose
// cumulative fraction exceeds the loop time (equality keeps scanning).
// Running into an inert cell past the loop point wraps back to the base
// sprite.
func (s *Snapshot) resolveAnimation(frameID int, time float32) int {
	head := s.Anim.Cell(frameID, 0)
	if head.Hold <= 0 {
		return frameID
	}

	mt := math.Mod(time*head.Speed, 1)

	cur := frameID
	for slot := 0; slot < s.Anim.MaxFrames(); slot++ {
		cell := s.Anim.Cell(cur, slot)
		if cell.Hold == 0 {
			// Past the last transition: the loop wrapped around.
			return frameID
		}
		next := clampInt(cell.Next, 0, s.Frames.Width()-1)
		if cell.Hold > mt {
			return next
		}
		cur = next
	}
	return cur
}

func colorToVec3(c Color) math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}
