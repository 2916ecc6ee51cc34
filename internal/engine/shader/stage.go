package shader

import (
	"fmt"
	"strings"

	"github.com/Faultbox/spritestage/internal/engine/shader/shaders"
)

// StageOptions selects which paths the generated stage shader compiles in.
// The Ext fields are GLSL statements spliced into the marked extension
// points of the fragment body; empty strings leave the markers untouched.
type StageOptions struct {
	LayerCount         int
	MaxAnimationFrames int
	FlipU              bool
	Bump               bool
	Specular           bool

	// ExtDiffuse runs per layer right after the sheet sample; `s` holds
	// the layer's diffuse color.
	ExtDiffuse string
	// ExtPostLight runs after lighting; `color` and `alpha` are live.
	ExtPostLight string
	// ExtPreOutput runs last, just before the fragment write.
	ExtPreOutput string
}

// StageVertexSource returns the stage quad vertex shader.
func StageVertexSource() string {
	return shaders.StageVertexShader
}

// BuildStageFragment assembles the compositing fragment shader for the
// given options. The layer count and animation row length become constants
// so the driver can unroll both loops.
func BuildStageFragment(opts StageOptions) string {
	var b strings.Builder
	b.WriteString("#version 410 core\n")
	fmt.Fprintf(&b, "#define LAYER_COUNT %d\n", opts.LayerCount)
	fmt.Fprintf(&b, "#define MAX_ANIMATION_FRAMES %d\n", opts.MaxAnimationFrames)
	if opts.FlipU {
		b.WriteString("#define FLIP_U\n")
	}
	if opts.Bump {
		b.WriteString("#define USE_BUMP\n")
	}
	if opts.Specular {
		b.WriteString("#define USE_SPECULAR\n")
	}
	b.WriteString("\n")

	body := shaders.StageFragmentShader
	body = splice(body, "//EXT_DIFFUSE", opts.ExtDiffuse)
	body = splice(body, "//EXT_POST_LIGHT", opts.ExtPostLight)
	body = splice(body, "//EXT_PRE_OUTPUT", opts.ExtPreOutput)
	b.WriteString(body)

	return b.String()
}

// splice replaces an extension marker with custom GLSL, leaving the marker
// alone when there is nothing to inject.
func splice(body, marker, code string) string {
	if code == "" {
		return body
	}
	return strings.Replace(body, marker, code, 1)
}
