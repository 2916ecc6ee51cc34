package shader

import (
	"strings"
	"testing"
)

func TestBuildStageFragment_Defines(t *testing.T) {
	src := BuildStageFragment(StageOptions{
		LayerCount:         3,
		MaxAnimationFrames: 8,
	})

	if !strings.HasPrefix(src, "#version 410 core\n") {
		t.Error("missing version line")
	}
	if !strings.Contains(src, "#define LAYER_COUNT 3\n") {
		t.Error("missing layer count define")
	}
	if !strings.Contains(src, "#define MAX_ANIMATION_FRAMES 8\n") {
		t.Error("missing animation frames define")
	}
	for _, absent := range []string{"#define FLIP_U", "#define USE_BUMP", "#define USE_SPECULAR"} {
		if strings.Contains(src, absent) {
			t.Errorf("unexpected define %s", absent)
		}
	}
}

func TestBuildStageFragment_OptionalDefines(t *testing.T) {
	src := BuildStageFragment(StageOptions{
		LayerCount:         1,
		MaxAnimationFrames: 4,
		FlipU:              true,
		Bump:               true,
		Specular:           true,
	})

	for _, want := range []string{"#define FLIP_U\n", "#define USE_BUMP\n", "#define USE_SPECULAR\n"} {
		if !strings.Contains(src, want) {
			t.Errorf("missing define %s", strings.TrimSpace(want))
		}
	}
}

func TestBuildStageFragment_BodyPresent(t *testing.T) {
	src := BuildStageFragment(StageOptions{LayerCount: 2, MaxAnimationFrames: 4})

	for _, sym := range []string{"frameMap", "animationMap", "tileMaps[LAYER_COUNT]", "spriteSheet", "resolveFrame", "void main()"} {
		if !strings.Contains(src, sym) {
			t.Errorf("fragment body missing %q", sym)
		}
	}

	// Defines come before the body that uses them.
	if strings.Index(src, "#define LAYER_COUNT") > strings.Index(src, "tileMaps") {
		t.Error("defines must precede the shader body")
	}
}

func TestBuildStageFragment_Extensions(t *testing.T) {
	src := BuildStageFragment(StageOptions{
		LayerCount:         1,
		MaxAnimationFrames: 4,
		ExtDiffuse:         "s.rgb *= vec3(0.5);",
		ExtPreOutput:       "color = vec3(1.0) - color;",
	})

	if !strings.Contains(src, "s.rgb *= vec3(0.5);") {
		t.Error("diffuse extension not spliced")
	}
	if !strings.Contains(src, "color = vec3(1.0) - color;") {
		t.Error("pre-output extension not spliced")
	}
	if strings.Contains(src, "//EXT_DIFFUSE") || strings.Contains(src, "//EXT_PRE_OUTPUT") {
		t.Error("spliced markers should be consumed")
	}
	// Untouched markers stay put.
	if !strings.Contains(src, "//EXT_POST_LIGHT") {
		t.Error("unused marker should remain")
	}

	// Extensions land in order: diffuse inside the loop, pre-output last.
	if strings.Index(src, "s.rgb *= vec3(0.5);") > strings.Index(src, "color = vec3(1.0) - color;") {
		t.Error("extensions spliced out of order")
	}
}

func TestStageVertexSource(t *testing.T) {
	src := StageVertexSource()
	if !strings.HasPrefix(src, "#version 410 core") {
		t.Error("vertex shader missing version line")
	}
	if !strings.Contains(src, "uniform mat4 mvp") {
		t.Error("vertex shader missing mvp uniform")
	}
}
