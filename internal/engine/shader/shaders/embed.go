// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// StageVertexShader is the fullscreen stage quad vertex shader.
//
//go:embed stage.vert
var StageVertexShader string

// StageFragmentShader is the stage compositing fragment shader body.
// It carries no #version line: the builder prepends the version and the
// configuration defines the body branches on.
//
//go:embed stage.frag
var StageFragmentShader string
