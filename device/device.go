package device

import "github.com/gogpu/gputypes"

// Device is a single graphics context.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly released via Delete* methods
//   - Deleting an ID that is InvalidID is a no-op
//
// Calls take effect immediately. Failures that the call itself cannot
// report are recorded and returned by the next CheckError.
type Device interface {
	// === Capabilities ===

	// SupportsStage reports whether the context can compile kind.
	SupportsStage(kind StageKind) bool

	// MaxTextureUnits returns the number of texture image units.
	MaxTextureUnits() int

	// MaxTextureSize returns the largest supported texture dimension.
	MaxTextureSize() int

	// === Errors ===

	// ClearErrors discards pending errors.
	ClearErrors()

	// CheckError returns the first pending error as *Error labelled with
	// op, or nil, and clears it.
	CheckError(op string) error

	// === Stages ===

	CreateStage(kind StageKind) (StageID, error)
	DeleteStage(id StageID)

	// CompileStage compiles source into id. It returns whether the
	// compilation succeeded and the driver info log.
	CompileStage(id StageID, source string) (ok bool, infoLog string)

	// === Programs ===

	CreateProgram() (ProgramID, error)
	DeleteProgram(id ProgramID)
	AttachStage(p ProgramID, s StageID)

	// TransformFeedbackVaryings declares the captured varyings consumed
	// by the next LinkProgram.
	TransformFeedbackVaryings(p ProgramID, names []string, mode CaptureMode)

	// LinkProgram links p. It returns whether the link succeeded and the
	// driver info log.
	LinkProgram(p ProgramID) (ok bool, infoLog string)

	// UseProgram installs p; InvalidID installs no program.
	UseProgram(p ProgramID)

	// === Introspection ===

	// AttribLocation returns the input location of name, or -1.
	AttribLocation(p ProgramID, name string) int
	ActiveAttributes(p ProgramID) []ActiveVariable

	// UniformLocation returns the uniform location of name, or -1.
	UniformLocation(p ProgramID, name string) int
	ActiveUniforms(p ProgramID) []ActiveVariable

	// CapturedVaryings returns the linked transform feedback varyings.
	CapturedVaryings(p ProgramID) []ActiveVariable

	// === Uniform Upload ===
	//
	// Uploads target the installed program. columns is the vector width;
	// the number of array elements is len(data)/columns.

	UniformInts(location, columns int, data []int32)
	UniformUints(location, columns int, data []uint32)
	UniformFloats(location, columns int, data []float32)
	UniformDoubles(location, columns int, data []float64)

	// UniformMatrixFloats uploads column-major matrices of cols x rows.
	UniformMatrixFloats(location, cols, rows int, transpose bool, data []float32)
	UniformMatrixDoubles(location, cols, rows int, transpose bool, data []float64)

	// === Vertex Input ===

	CreateVertexArray() (VertexArrayID, error)
	DeleteVertexArray(id VertexArrayID)
	BindVertexArray(id VertexArrayID)
	EnableVertexAttrib(location int)

	// VertexAttribPointer records p into the bound vertex array.
	VertexAttribPointer(p VertexPointer)

	// === Buffers ===

	CreateBuffer() (BufferID, error)
	DeleteBuffer(id BufferID)

	// BufferData replaces the storage of id with size bytes. If data is
	// nil the contents are undefined.
	BufferData(id BufferID, data []byte, size int, hint BufferHint)
	BufferSubData(id BufferID, offset int, data []byte)

	// ReadBuffer copies len(dst) bytes starting at offset into dst.
	ReadBuffer(id BufferID, offset int, dst []byte) error

	// === Textures ===

	CreateTexture() (TextureID, error)
	DeleteTexture(id TextureID)
	ActiveTextureUnit(unit int)
	BindTexture(target TextureTarget, id TextureID)

	// TexImage uploads RGBA8 pixels to the texture bound to target.
	TexImage(target TextureTarget, width, height int, pixels []byte)
	SetTextureFilter(target TextureTarget, mipmap bool)
	GenerateMipmap(target TextureTarget)

	// TexBuffer attaches buf to the bound buffer texture.
	TexBuffer(format TexelFormat, buf BufferID)

	// === Transform Feedback ===

	BindCaptureBuffer(slot int, buf BufferID)
	CreateQuery() (QueryID, error)
	DeleteQuery(id QueryID)

	// BeginQuery starts counting primitives written by capture.
	BeginQuery(id QueryID)
	EndQuery()

	// QueryResult blocks until the query result is available.
	QueryResult(id QueryID) uint64

	BeginCapture(base gputypes.PrimitiveTopology)
	EndCapture()

	// === Drawing ===

	DrawArrays(prim gputypes.PrimitiveTopology, first, count int)

	// DrawRangeElements draws count uint32 indices read from indices,
	// whose values lie in [start, end].
	DrawRangeElements(prim gputypes.PrimitiveTopology, start, end, count int, indices BufferID)

	// Finish blocks until all issued commands completed.
	Finish()
}
