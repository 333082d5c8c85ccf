package gldevice

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
)

// === Vertex Input ===

func (d *Device) CreateVertexArray() (device.VertexArrayID, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create vertex array failed")
	}
	return device.VertexArrayID(id), nil
}

func (d *Device) DeleteVertexArray(id device.VertexArrayID) {
	if id == device.InvalidID {
		return
	}
	h := uint32(id)
	gl.DeleteVertexArrays(1, &h)
}

func (d *Device) BindVertexArray(id device.VertexArrayID) {
	gl.BindVertexArray(uint32(id))
}

func (d *Device) EnableVertexAttrib(location int) {
	gl.EnableVertexAttribArray(uint32(location))
}

func (d *Device) VertexAttribPointer(p device.VertexPointer) {
	typ, ok := componentEnum(p.Type)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	loc := uint32(p.Location)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(p.Buffer))
	switch p.Kind {
	case device.PointerInteger:
		gl.VertexAttribIPointer(loc, int32(p.Size), typ, int32(p.Stride), gl.PtrOffset(p.Offset))
	case device.PointerDouble:
		gl.VertexAttribLPointer(loc, int32(p.Size), typ, int32(p.Stride), gl.PtrOffset(p.Offset))
	default:
		gl.VertexAttribPointer(loc, int32(p.Size), typ, p.Normalized, int32(p.Stride), gl.PtrOffset(p.Offset))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// === Buffers ===

// Buffer uploads go through the copy-write binding so they never
// disturb vertex array or capture state.

func (d *Device) CreateBuffer() (device.BufferID, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create buffer failed")
	}
	return device.BufferID(id), nil
}

func (d *Device) DeleteBuffer(id device.BufferID) {
	if id == device.InvalidID {
		return
	}
	h := uint32(id)
	gl.DeleteBuffers(1, &h)
}

func (d *Device) BufferData(id device.BufferID, data []byte, size int, hint device.BufferHint) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, uint32(id))
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, ptr, usageEnum(hint))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *Device) BufferSubData(id device.BufferID, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, uint32(id))
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
}

func (d *Device) ReadBuffer(id device.BufferID, offset int, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_READ_BUFFER, uint32(id))
	gl.GetBufferSubData(gl.COPY_READ_BUFFER, offset, len(dst), gl.Ptr(dst))
	gl.BindBuffer(gl.COPY_READ_BUFFER, 0)
	return d.CheckError("GetBufferSubData")
}

// === Textures ===

func (d *Device) CreateTexture() (device.TextureID, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create texture failed")
	}
	return device.TextureID(id), nil
}

func (d *Device) DeleteTexture(id device.TextureID) {
	if id == device.InvalidID {
		return
	}
	h := uint32(id)
	gl.DeleteTextures(1, &h)
}

func (d *Device) ActiveTextureUnit(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (d *Device) BindTexture(target device.TextureTarget, id device.TextureID) {
	t, ok := targetEnum(target)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	gl.BindTexture(t, uint32(id))
}

func (d *Device) TexImage(target device.TextureTarget, width, height int, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	switch target {
	case device.Target1D:
		gl.TexImage1D(gl.TEXTURE_1D, 0, gl.RGBA8, int32(width), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	case device.Target2D:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	default:
		d.pending = gl.INVALID_ENUM
	}
}

func (d *Device) SetTextureFilter(target device.TextureTarget, mipmap bool) {
	t, ok := targetEnum(target)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	if mipmap {
		gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		return
	}
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
}

func (d *Device) GenerateMipmap(target device.TextureTarget) {
	if t, ok := targetEnum(target); ok {
		gl.GenerateMipmap(t)
	}
}

func (d *Device) TexBuffer(format device.TexelFormat, buf device.BufferID) {
	f, ok := texelEnum(format)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	gl.TexBuffer(gl.TEXTURE_BUFFER, f, uint32(buf))
}

// === Transform Feedback ===

func (d *Device) BindCaptureBuffer(slot int, buf device.BufferID) {
	gl.BindBufferBase(gl.TRANSFORM_FEEDBACK_BUFFER, uint32(slot), uint32(buf))
}

func (d *Device) CreateQuery() (device.QueryID, error) {
	var id uint32
	gl.GenQueries(1, &id)
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create query failed")
	}
	return device.QueryID(id), nil
}

func (d *Device) DeleteQuery(id device.QueryID) {
	if id == device.InvalidID {
		return
	}
	h := uint32(id)
	gl.DeleteQueries(1, &h)
}

func (d *Device) BeginQuery(id device.QueryID) {
	gl.BeginQuery(gl.TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN, uint32(id))
}

func (d *Device) EndQuery() {
	gl.EndQuery(gl.TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN)
}

func (d *Device) QueryResult(id device.QueryID) uint64 {
	var n uint64
	gl.GetQueryObjectui64v(uint32(id), gl.QUERY_RESULT, &n)
	return n
}

func (d *Device) BeginCapture(base gputypes.PrimitiveTopology) {
	mode, ok := primitiveEnum(base)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	gl.BeginTransformFeedback(mode)
}

func (d *Device) EndCapture() {
	gl.EndTransformFeedback()
}

// === Drawing ===

func (d *Device) DrawArrays(prim gputypes.PrimitiveTopology, first, count int) {
	mode, ok := primitiveEnum(prim)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	gl.DrawArrays(mode, int32(first), int32(count))
}

func (d *Device) DrawRangeElements(prim gputypes.PrimitiveTopology, start, end, count int, indices device.BufferID) {
	mode, ok := primitiveEnum(prim)
	if !ok {
		d.pending = gl.INVALID_ENUM
		return
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indices))
	gl.DrawRangeElements(mode, uint32(start), uint32(end), int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
}

func (d *Device) Finish() {
	gl.Finish()
}
