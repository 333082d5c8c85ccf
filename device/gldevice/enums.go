package gldevice

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
)

func stageEnum(kind device.StageKind) (uint32, bool) {
	switch kind {
	case device.StageVertex:
		return gl.VERTEX_SHADER, true
	case device.StageGeometry:
		return gl.GEOMETRY_SHADER, true
	case device.StageFragment:
		return gl.FRAGMENT_SHADER, true
	default:
		return 0, false
	}
}

func componentEnum(c device.ComponentType) (uint32, bool) {
	switch c {
	case device.ComponentInt8:
		return gl.BYTE, true
	case device.ComponentUint8:
		return gl.UNSIGNED_BYTE, true
	case device.ComponentInt16:
		return gl.SHORT, true
	case device.ComponentUint16:
		return gl.UNSIGNED_SHORT, true
	case device.ComponentInt32:
		return gl.INT, true
	case device.ComponentUint32:
		return gl.UNSIGNED_INT, true
	case device.ComponentFloat16:
		return gl.HALF_FLOAT, true
	case device.ComponentFloat32:
		return gl.FLOAT, true
	case device.ComponentFloat64:
		return gl.DOUBLE, true
	default:
		return 0, false
	}
}

// usageEnum maps a usage hint to one of the nine glBufferData usages.
func usageEnum(h device.BufferHint) uint32 {
	usages := [3][3]uint32{
		device.FrequencyStream:  {gl.STREAM_DRAW, gl.STREAM_READ, gl.STREAM_COPY},
		device.FrequencyStatic:  {gl.STATIC_DRAW, gl.STATIC_READ, gl.STATIC_COPY},
		device.FrequencyDynamic: {gl.DYNAMIC_DRAW, gl.DYNAMIC_READ, gl.DYNAMIC_COPY},
	}
	f, n := int(h.Frequency), int(h.Nature)
	if f < 0 || f > 2 || n < 0 || n > 2 {
		return gl.STATIC_DRAW
	}
	return usages[f][n]
}

func targetEnum(t device.TextureTarget) (uint32, bool) {
	switch t {
	case device.Target1D:
		return gl.TEXTURE_1D, true
	case device.Target2D:
		return gl.TEXTURE_2D, true
	case device.Target3D:
		return gl.TEXTURE_3D, true
	case device.TargetCube:
		return gl.TEXTURE_CUBE_MAP, true
	case device.TargetBuffer:
		return gl.TEXTURE_BUFFER, true
	default:
		return 0, false
	}
}

// texelFormats holds the sized internal formats of buffer textures,
// indexed by component count minus one. Integer components stay
// integer; only 16-bit floats are converted.
var texelFormats = map[device.ComponentType][4]uint32{
	device.ComponentInt8:    {gl.R8I, gl.RG8I, gl.RGB8I, gl.RGBA8I},
	device.ComponentUint8:   {gl.R8UI, gl.RG8UI, gl.RGB8UI, gl.RGBA8UI},
	device.ComponentInt16:   {gl.R16I, gl.RG16I, gl.RGB16I, gl.RGBA16I},
	device.ComponentUint16:  {gl.R16UI, gl.RG16UI, gl.RGB16UI, gl.RGBA16UI},
	device.ComponentFloat16: {gl.R16F, gl.RG16F, gl.RGB16F, gl.RGBA16F},
	device.ComponentInt32:   {gl.R32I, gl.RG32I, gl.RGB32I, gl.RGBA32I},
	device.ComponentUint32:  {gl.R32UI, gl.RG32UI, gl.RGB32UI, gl.RGBA32UI},
	device.ComponentFloat32: {gl.R32F, gl.RG32F, gl.RGB32F, gl.RGBA32F},
}

func texelEnum(f device.TexelFormat) (uint32, bool) {
	if !f.Valid() {
		return 0, false
	}
	formats, ok := texelFormats[f.Type]
	if !ok {
		return 0, false
	}
	return formats[f.Components-1], true
}

func primitiveEnum(p gputypes.PrimitiveTopology) (uint32, bool) {
	switch p {
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS, true
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES, true
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP, true
	case gputypes.PrimitiveTopologyTriangleList:
		return gl.TRIANGLES, true
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP, true
	default:
		return 0, false
	}
}
