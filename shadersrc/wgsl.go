package shadersrc

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/cache"
)

type wgslKey struct {
	src  string
	kind device.StageKind
	opts WGSLOptions
}

// translations holds recent WGSL translations; reloading an unchanged
// file does not run the compiler again.
var translations = cache.New[wgslKey, string](64)

// WGSLOptions selects the translation target.
type WGSLOptions struct {
	// Version is the GLSL version to emit, GLSL 3.30 core if zero.
	Version glsl.Version
	// EntryPoint is the entry point to translate. Empty picks the first.
	EntryPoint string
}

// FromWGSL translates a WGSL stage source to GLSL. kind is only used to
// label errors; the entry point decides the emitted stage.
func FromWGSL(src string, kind device.StageKind, opts WGSLOptions) (string, error) {
	return translations.GetOrCreate(wgslKey{src, kind, opts}, func() (string, error) {
		return translate(src, kind, opts)
	})
}

func translate(src string, kind device.StageKind, opts WGSLOptions) (string, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return "", fmt.Errorf("shadersrc: parse %s WGSL: %w", kind, err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return "", fmt.Errorf("shadersrc: lower %s WGSL: %w", kind, err)
	}
	out, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: opts.Version,
		EntryPoint:  opts.EntryPoint,
	})
	if err != nil {
		return "", fmt.Errorf("shadersrc: %s: %w", kind, err)
	}
	return out, nil
}
