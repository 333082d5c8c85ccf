package glpipe

import "github.com/gogpu/naga/glsl"

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx := glpipe.NewContext(dev, glpipe.WithTextureUnitLimit(8))
type ContextOption func(*contextOptions)

type contextOptions struct {
	unitLimit   int
	glslVersion glsl.Version
}

func defaultOptions() contextOptions {
	return contextOptions{
		glslVersion: glsl.Version410,
	}
}

// WithTextureUnitLimit caps the texture unit pool at n units. Values
// above the device maximum are ignored.
func WithTextureUnitLimit(n int) ContextOption {
	return func(o *contextOptions) {
		o.unitLimit = n
	}
}

// WithGLSLVersion sets the GLSL version WGSL stage sources are
// translated to. The default is GLSL 4.10 core.
func WithGLSLVersion(v glsl.Version) ContextOption {
	return func(o *contextOptions) {
		o.glslVersion = v
	}
}
