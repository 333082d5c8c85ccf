// Package devicetest provides a recording fake of device.Device.
//
// The fake keeps just enough state to behave like a context: handles are
// allocated and freed, buffer storage is kept in memory, and program
// introspection answers from configurable tables. Every call is recorded
// by name so tests can assert which device calls were issued.
package devicetest

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
)

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

type program struct {
	stages   []device.StageID
	captured []string
	mode     device.CaptureMode
	linked   bool
}

// Device is a test double for device.Device.
type Device struct {
	// Configuration. Set before use.

	// NoGeometry makes geometry stages unsupported.
	NoGeometry bool
	// Units is the number of texture units, 16 if zero.
	Units int
	// TextureSize is the maximum texture dimension, 4096 if zero.
	TextureSize int
	// Attributes, Uniforms and Outputs are the introspection tables of
	// every linked program. Outputs lists the variables a program can
	// capture; the captured set is the declared subset of it.
	Attributes []device.ActiveVariable
	Uniforms   []device.ActiveVariable
	Outputs    []device.ActiveVariable
	// CompileFunc overrides compilation. By default a source containing
	// "#error" fails.
	CompileFunc func(kind device.StageKind, source string) (bool, string)
	// LinkFunc overrides linking. By default every link succeeds.
	LinkFunc func(p device.ProgramID) (bool, string)
	// Primitives is returned by QueryResult.
	Primitives uint64
	// FailCreate makes the named Create* call fail.
	FailCreate string

	// Calls records every call in order.
	Calls []Call

	nextID   uint64
	pending  uint32
	stages   map[device.StageID]device.StageKind
	programs map[device.ProgramID]*program
	buffers  map[device.BufferID][]byte
	textures map[device.TextureID]bool
	arrays   map[device.VertexArrayID]bool
	queries  map[device.QueryID]bool
	current  device.ProgramID
	unit     int
}

var _ device.Device = (*Device)(nil)

// New returns an empty fake device.
func New() *Device {
	return &Device{
		stages:   make(map[device.StageID]device.StageKind),
		programs: make(map[device.ProgramID]*program),
		buffers:  make(map[device.BufferID][]byte),
		textures: make(map[device.TextureID]bool),
		arrays:   make(map[device.VertexArrayID]bool),
		queries:  make(map[device.QueryID]bool),
	}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) failCreate(op string) error {
	if d.FailCreate == op {
		return fmt.Errorf("devicetest: %s failed", op)
	}
	return nil
}

// Count returns how many times op was called.
func (d *Device) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call of op.
func (d *Device) Last(op string) (Call, bool) {
	for i := len(d.Calls) - 1; i >= 0; i-- {
		if d.Calls[i].Op == op {
			return d.Calls[i], true
		}
	}
	return Call{}, false
}

// Ops returns the recorded op names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset forgets recorded calls. Device state is kept.
func (d *Device) Reset() {
	d.Calls = nil
}

// SetError makes the next CheckError report code.
func (d *Device) SetError(code uint32) {
	d.pending = code
}

// CurrentProgram returns the installed program.
func (d *Device) CurrentProgram() device.ProgramID {
	return d.current
}

// Captured returns the varyings declared on p and the declared mode.
func (d *Device) Captured(p device.ProgramID) ([]string, device.CaptureMode) {
	pr := d.programs[p]
	if pr == nil {
		return nil, device.CaptureInterleaved
	}
	return pr.captured, pr.mode
}

// Attached returns the stages attached to p.
func (d *Device) Attached(p device.ProgramID) []device.StageID {
	if pr := d.programs[p]; pr != nil {
		return pr.stages
	}
	return nil
}

// BufferBytes returns the stored contents of a buffer.
func (d *Device) BufferBytes(id device.BufferID) []byte {
	return d.buffers[id]
}

// Live returns the number of live handles of each kind.
func (d *Device) Live() (stages, programs, buffers, textures, arrays int) {
	return len(d.stages), len(d.programs), len(d.buffers), len(d.textures), len(d.arrays)
}

// === Capabilities ===

func (d *Device) SupportsStage(kind device.StageKind) bool {
	switch kind {
	case device.StageVertex, device.StageFragment:
		return true
	case device.StageGeometry:
		return !d.NoGeometry
	}
	return false
}

func (d *Device) MaxTextureUnits() int {
	if d.Units == 0 {
		return 16
	}
	return d.Units
}

func (d *Device) MaxTextureSize() int {
	if d.TextureSize == 0 {
		return 4096
	}
	return d.TextureSize
}

// === Errors ===

func (d *Device) ClearErrors() {
	d.record("ClearErrors")
	d.pending = 0
}

func (d *Device) CheckError(op string) error {
	if d.pending == 0 {
		return nil
	}
	code := d.pending
	d.pending = 0
	return &device.Error{Op: op, Code: code}
}

// === Stages ===

func (d *Device) CreateStage(kind device.StageKind) (device.StageID, error) {
	d.record("CreateStage", kind)
	if err := d.failCreate("CreateStage"); err != nil {
		return device.InvalidID, err
	}
	id := device.StageID(d.id())
	d.stages[id] = kind
	return id, nil
}

func (d *Device) DeleteStage(id device.StageID) {
	d.record("DeleteStage", id)
	delete(d.stages, id)
}

func (d *Device) CompileStage(id device.StageID, source string) (bool, string) {
	d.record("CompileStage", id)
	kind := d.stages[id]
	if d.CompileFunc != nil {
		return d.CompileFunc(kind, source)
	}
	if strings.Contains(source, "#error") {
		return false, "0:1: error: #error directive"
	}
	return true, ""
}

// === Programs ===

func (d *Device) CreateProgram() (device.ProgramID, error) {
	d.record("CreateProgram")
	if err := d.failCreate("CreateProgram"); err != nil {
		return device.InvalidID, err
	}
	id := device.ProgramID(d.id())
	d.programs[id] = &program{}
	return id, nil
}

func (d *Device) DeleteProgram(id device.ProgramID) {
	d.record("DeleteProgram", id)
	delete(d.programs, id)
}

func (d *Device) AttachStage(p device.ProgramID, s device.StageID) {
	d.record("AttachStage", p, s)
	if pr := d.programs[p]; pr != nil {
		pr.stages = append(pr.stages, s)
	}
}

func (d *Device) TransformFeedbackVaryings(p device.ProgramID, names []string, mode device.CaptureMode) {
	d.record("TransformFeedbackVaryings", p, names, mode)
	if pr := d.programs[p]; pr != nil {
		pr.captured = append([]string(nil), names...)
		pr.mode = mode
	}
}

func (d *Device) LinkProgram(p device.ProgramID) (bool, string) {
	d.record("LinkProgram", p)
	pr := d.programs[p]
	if pr == nil {
		return false, "no such program"
	}
	ok, log := true, ""
	if d.LinkFunc != nil {
		ok, log = d.LinkFunc(p)
	}
	pr.linked = ok
	return ok, log
}

func (d *Device) UseProgram(p device.ProgramID) {
	d.record("UseProgram", p)
	d.current = p
}

// === Introspection ===

func (d *Device) AttribLocation(p device.ProgramID, name string) int {
	d.record("AttribLocation", p, name)
	if pr := d.programs[p]; pr == nil || !pr.linked {
		return -1
	}
	loc := 0
	for _, v := range d.Attributes {
		if v.Name == name {
			return loc
		}
		loc += columns(v)
	}
	return -1
}

func (d *Device) ActiveAttributes(p device.ProgramID) []device.ActiveVariable {
	if pr := d.programs[p]; pr == nil || !pr.linked {
		return nil
	}
	return d.Attributes
}

func (d *Device) UniformLocation(p device.ProgramID, name string) int {
	d.record("UniformLocation", p, name)
	if pr := d.programs[p]; pr == nil || !pr.linked {
		return -1
	}
	for i, v := range d.Uniforms {
		if v.Name == name || v.Name == name+"[0]" {
			return i
		}
	}
	return -1
}

func (d *Device) ActiveUniforms(p device.ProgramID) []device.ActiveVariable {
	if pr := d.programs[p]; pr == nil || !pr.linked {
		return nil
	}
	return d.Uniforms
}

func (d *Device) CapturedVaryings(p device.ProgramID) []device.ActiveVariable {
	pr := d.programs[p]
	if pr == nil || !pr.linked {
		return nil
	}
	var out []device.ActiveVariable
	for _, name := range pr.captured {
		for _, v := range d.Outputs {
			if v.Name == name {
				out = append(out, v)
			}
		}
	}
	return out
}

// === Uniform Upload ===

func (d *Device) UniformInts(location, columns int, data []int32) {
	d.record("UniformInts", location, columns, append([]int32(nil), data...))
}

func (d *Device) UniformUints(location, columns int, data []uint32) {
	d.record("UniformUints", location, columns, append([]uint32(nil), data...))
}

func (d *Device) UniformFloats(location, columns int, data []float32) {
	d.record("UniformFloats", location, columns, append([]float32(nil), data...))
}

func (d *Device) UniformDoubles(location, columns int, data []float64) {
	d.record("UniformDoubles", location, columns, append([]float64(nil), data...))
}

func (d *Device) UniformMatrixFloats(location, cols, rows int, transpose bool, data []float32) {
	d.record("UniformMatrixFloats", location, cols, rows, transpose, append([]float32(nil), data...))
}

func (d *Device) UniformMatrixDoubles(location, cols, rows int, transpose bool, data []float64) {
	d.record("UniformMatrixDoubles", location, cols, rows, transpose, append([]float64(nil), data...))
}

// === Vertex Input ===

func (d *Device) CreateVertexArray() (device.VertexArrayID, error) {
	d.record("CreateVertexArray")
	if err := d.failCreate("CreateVertexArray"); err != nil {
		return device.InvalidID, err
	}
	id := device.VertexArrayID(d.id())
	d.arrays[id] = true
	return id, nil
}

func (d *Device) DeleteVertexArray(id device.VertexArrayID) {
	d.record("DeleteVertexArray", id)
	delete(d.arrays, id)
}

func (d *Device) BindVertexArray(id device.VertexArrayID) {
	d.record("BindVertexArray", id)
}

func (d *Device) EnableVertexAttrib(location int) {
	d.record("EnableVertexAttrib", location)
}

func (d *Device) VertexAttribPointer(p device.VertexPointer) {
	d.record("VertexAttribPointer", p)
}

// === Buffers ===

func (d *Device) CreateBuffer() (device.BufferID, error) {
	d.record("CreateBuffer")
	if err := d.failCreate("CreateBuffer"); err != nil {
		return device.InvalidID, err
	}
	id := device.BufferID(d.id())
	d.buffers[id] = []byte{}
	return id, nil
}

func (d *Device) DeleteBuffer(id device.BufferID) {
	d.record("DeleteBuffer", id)
	delete(d.buffers, id)
}

func (d *Device) BufferData(id device.BufferID, data []byte, size int, hint device.BufferHint) {
	d.record("BufferData", id, size, hint)
	if _, ok := d.buffers[id]; !ok {
		d.pending = 0x0502
		return
	}
	b := make([]byte, size)
	copy(b, data)
	d.buffers[id] = b
}

func (d *Device) BufferSubData(id device.BufferID, offset int, data []byte) {
	d.record("BufferSubData", id, offset, len(data))
	b, ok := d.buffers[id]
	if !ok || offset+len(data) > len(b) {
		d.pending = 0x0501
		return
	}
	copy(b[offset:], data)
}

func (d *Device) ReadBuffer(id device.BufferID, offset int, dst []byte) error {
	d.record("ReadBuffer", id, offset, len(dst))
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("devicetest: no buffer %d", id)
	}
	if offset < 0 || offset+len(dst) > len(b) {
		return fmt.Errorf("devicetest: read [%d,%d) outside buffer of %d bytes", offset, offset+len(dst), len(b))
	}
	copy(dst, b[offset:])
	return nil
}

// === Textures ===

func (d *Device) CreateTexture() (device.TextureID, error) {
	d.record("CreateTexture")
	if err := d.failCreate("CreateTexture"); err != nil {
		return device.InvalidID, err
	}
	id := device.TextureID(d.id())
	d.textures[id] = true
	return id, nil
}

func (d *Device) DeleteTexture(id device.TextureID) {
	d.record("DeleteTexture", id)
	delete(d.textures, id)
}

func (d *Device) ActiveTextureUnit(unit int) {
	d.record("ActiveTextureUnit", unit)
	d.unit = unit
}

func (d *Device) BindTexture(target device.TextureTarget, id device.TextureID) {
	d.record("BindTexture", target, id)
}

func (d *Device) TexImage(target device.TextureTarget, width, height int, pixels []byte) {
	d.record("TexImage", target, width, height, len(pixels))
}

func (d *Device) SetTextureFilter(target device.TextureTarget, mipmap bool) {
	d.record("SetTextureFilter", target, mipmap)
}

func (d *Device) GenerateMipmap(target device.TextureTarget) {
	d.record("GenerateMipmap", target)
}

func (d *Device) TexBuffer(format device.TexelFormat, buf device.BufferID) {
	d.record("TexBuffer", format, buf)
}

// === Transform Feedback ===

func (d *Device) BindCaptureBuffer(slot int, buf device.BufferID) {
	d.record("BindCaptureBuffer", slot, buf)
}

func (d *Device) CreateQuery() (device.QueryID, error) {
	d.record("CreateQuery")
	if err := d.failCreate("CreateQuery"); err != nil {
		return device.InvalidID, err
	}
	id := device.QueryID(d.id())
	d.queries[id] = true
	return id, nil
}

func (d *Device) DeleteQuery(id device.QueryID) {
	d.record("DeleteQuery", id)
	delete(d.queries, id)
}

func (d *Device) BeginQuery(id device.QueryID) {
	d.record("BeginQuery", id)
}

func (d *Device) EndQuery() {
	d.record("EndQuery")
}

func (d *Device) QueryResult(id device.QueryID) uint64 {
	d.record("QueryResult", id)
	return d.Primitives
}

func (d *Device) BeginCapture(base gputypes.PrimitiveTopology) {
	d.record("BeginCapture", base)
}

func (d *Device) EndCapture() {
	d.record("EndCapture")
}

// === Drawing ===

func (d *Device) DrawArrays(prim gputypes.PrimitiveTopology, first, count int) {
	d.record("DrawArrays", prim, first, count)
}

func (d *Device) DrawRangeElements(prim gputypes.PrimitiveTopology, start, end, count int, indices device.BufferID) {
	d.record("DrawRangeElements", prim, start, end, count, indices)
}

func (d *Device) Finish() {
	d.record("Finish")
}

func columns(v device.ActiveVariable) int {
	d, err := gltype.Resolve(v.Type)
	if err != nil {
		return 1
	}
	return d.ColumnCount
}
