package glpipe

import "errors"

// Link and compile errors.
var (
	// ErrNotLinked is returned when an operation needs a successfully
	// linked program.
	ErrNotLinked = errors.New("glpipe: program is not linked")

	// ErrLinkFailed is returned by EnsureLink after a failed link.
	ErrLinkFailed = errors.New("glpipe: program link failed")

	// ErrNoCompiledStage is returned when a program has no compiled
	// vertex or fragment stage to link.
	ErrNoCompiledStage = errors.New("glpipe: no compiled vertex or fragment stage")

	// ErrCompileFailed is returned by EnsureCompilation after a failed compile.
	ErrCompileFailed = errors.New("glpipe: stage compilation failed")

	// ErrStageNotLoaded is returned when compiling a stage with no source.
	ErrStageNotLoaded = errors.New("glpipe: stage has no source")

	// ErrUnrecognizedStage is returned when a stage kind cannot be
	// detected from a file name.
	ErrUnrecognizedStage = errors.New("glpipe: unrecognized stage kind")

	// ErrStageUnsupported is returned when the device cannot compile a stage kind.
	ErrStageUnsupported = errors.New("glpipe: stage kind not supported by device")
)

// Binding errors. These are recoverable: fix the binding and retry.
var (
	ErrAttributeNotFound    = errors.New("glpipe: attribute not active in program")
	ErrUniformNotFound      = errors.New("glpipe: uniform not active in program")
	ErrVaryingNotFound      = errors.New("glpipe: varying not captured by program")
	ErrNoBuffer             = errors.New("glpipe: no buffer connected")
	ErrIncompatibleReadMode = errors.New("glpipe: read mode incompatible with attribute type")
	ErrInvalidReadMode      = errors.New("glpipe: invalid read mode")
	ErrUniformSource        = errors.New("glpipe: uniform source does not match uniform type")
	ErrUniformShape         = errors.New("glpipe: uniform data does not match uniform shape")
	ErrSamplerMismatch      = errors.New("glpipe: texture does not match sampler dimensionality")
	ErrUnsupportedType      = errors.New("glpipe: unsupported variable type")
	ErrMatrixVarying        = errors.New("glpipe: matrix varying cannot be captured in separate mode")
	ErrInvalidPrimitive     = errors.New("glpipe: invalid primitive topology")
	ErrInvalidTexelFormat   = errors.New("glpipe: invalid texel format")
	ErrInvalidDimension     = errors.New("glpipe: invalid texture dimension")
	ErrPixelData            = errors.New("glpipe: pixel data does not match texture size")
)

// Usage errors.
var (
	// ErrProgramActive is returned when activating a program while
	// another program is active on the same context.
	ErrProgramActive = errors.New("glpipe: another program is active")

	// ErrNoTextureUnits is returned when every texture unit is locked.
	ErrNoTextureUnits = errors.New("glpipe: no free texture units")

	// ErrTextureUnitNotLocked is returned when activating a released unit.
	ErrTextureUnitNotLocked = errors.New("glpipe: texture unit is not locked")

	// ErrTextureNotActive is returned when deactivating an inactive texture.
	ErrTextureNotActive = errors.New("glpipe: texture is not active")

	// ErrExpiredReference is returned when a binding refers to a buffer or
	// texture that no longer exists.
	ErrExpiredReference = errors.New("glpipe: referenced object no longer exists")

	// ErrDestroyed is returned when using an object after Destroy.
	ErrDestroyed = errors.New("glpipe: object destroyed")

	// ErrBufferDualUse is returned when one buffer is both a vertex
	// source and a capture target of the same pass.
	ErrBufferDualUse = errors.New("glpipe: buffer used as vertex source and capture target")
)
