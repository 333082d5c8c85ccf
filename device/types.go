package device

import (
	"fmt"

	"github.com/gogpu/glpipe/gltype"
)

// Resource IDs
//
// These opaque IDs name driver objects. The device maps them to its own
// handles. The zero value never names a live object.

// StageID is an opaque handle to a compiled pipeline stage.
type StageID uint64

// ProgramID is an opaque handle to a linked program.
type ProgramID uint64

// BufferID is an opaque handle to device memory.
type BufferID uint64

// TextureID is an opaque handle to a texture object.
type TextureID uint64

// VertexArrayID is an opaque handle to an input-assembly object.
type VertexArrayID uint64

// QueryID is an opaque handle to an asynchronous query.
type QueryID uint64

// InvalidID is the zero value, representing no object.
const InvalidID = 0

// StageKind is the pipeline stage a source compiles to.
type StageKind int

const (
	StageNone StageKind = iota
	StageVertex
	StageGeometry
	StageFragment
	StageUnrecognized
)

// String returns the stage kind name.
func (k StageKind) String() string {
	switch k {
	case StageNone:
		return "none"
	case StageVertex:
		return "vertex"
	case StageGeometry:
		return "geometry"
	case StageFragment:
		return "fragment"
	case StageUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("StageKind(%d)", int(k))
	}
}

// CaptureMode selects how captured varyings are laid out in memory.
type CaptureMode int

const (
	// CaptureInterleaved writes all varyings into one buffer.
	CaptureInterleaved CaptureMode = iota
	// CaptureSeparate writes each varying into its own buffer slot.
	CaptureSeparate
)

// ComponentType is the in-memory type of one vertex or texel component.
type ComponentType int

const (
	ComponentNone ComponentType = iota
	ComponentInt8
	ComponentUint8
	ComponentInt16
	ComponentUint16
	ComponentInt32
	ComponentUint32
	ComponentFloat16
	ComponentFloat32
	ComponentFloat64
)

// Size returns the component size in bytes.
func (c ComponentType) Size() int {
	switch c {
	case ComponentInt8, ComponentUint8:
		return 1
	case ComponentInt16, ComponentUint16, ComponentFloat16:
		return 2
	case ComponentInt32, ComponentUint32, ComponentFloat32:
		return 4
	case ComponentFloat64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether c is a signed or unsigned integer type.
func (c ComponentType) IsInteger() bool {
	switch c {
	case ComponentInt8, ComponentUint8, ComponentInt16, ComponentUint16, ComponentInt32, ComponentUint32:
		return true
	}
	return false
}

// String returns the component type name.
func (c ComponentType) String() string {
	switch c {
	case ComponentNone:
		return "none"
	case ComponentInt8:
		return "int8"
	case ComponentUint8:
		return "uint8"
	case ComponentInt16:
		return "int16"
	case ComponentUint16:
		return "uint16"
	case ComponentInt32:
		return "int32"
	case ComponentUint32:
		return "uint32"
	case ComponentFloat16:
		return "float16"
	case ComponentFloat32:
		return "float32"
	case ComponentFloat64:
		return "float64"
	default:
		return fmt.Sprintf("ComponentType(%d)", int(c))
	}
}

// PointerKind selects how the vertex fetcher converts components.
type PointerKind int

const (
	// PointerFloat converts components to float, optionally normalized.
	PointerFloat PointerKind = iota
	// PointerInteger passes integer components through unconverted.
	PointerInteger
	// PointerDouble passes 64-bit floats through unconverted.
	PointerDouble
)

// VertexPointer describes one vertex input column inside a buffer.
// Stride and Offset are in bytes.
type VertexPointer struct {
	Location   int
	Buffer     BufferID
	Size       int
	Type       ComponentType
	Normalized bool
	Stride     int
	Offset     int
	Kind       PointerKind
}

// ActiveVariable is one entry of a program introspection table.
// Size is the array length, 1 for non-arrays.
type ActiveVariable struct {
	Name string
	Size int
	Type gltype.Enum
}

// Frequency is the expected update frequency of buffer contents.
type Frequency int

const (
	FrequencyStream Frequency = iota
	FrequencyStatic
	FrequencyDynamic
)

// String returns the frequency name.
func (f Frequency) String() string {
	switch f {
	case FrequencyStream:
		return "stream"
	case FrequencyStatic:
		return "static"
	case FrequencyDynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
}

// Nature is who writes and reads buffer contents.
type Nature int

const (
	// NatureDraw is written by the host and read by the device.
	NatureDraw Nature = iota
	// NatureRead is written by the device and read by the host.
	NatureRead
	// NatureCopy is written and read by the device.
	NatureCopy
)

// String returns the nature name.
func (n Nature) String() string {
	switch n {
	case NatureDraw:
		return "draw"
	case NatureRead:
		return "read"
	case NatureCopy:
		return "copy"
	default:
		return fmt.Sprintf("Nature(%d)", int(n))
	}
}

// BufferHint is the usage hint passed with buffer storage requests.
type BufferHint struct {
	Frequency Frequency
	Nature    Nature
}

// TextureTarget is the binding point of a texture.
type TextureTarget int

const (
	TargetNone TextureTarget = iota
	Target1D
	Target2D
	Target3D
	TargetCube
	TargetBuffer
)

// String returns the target name.
func (t TextureTarget) String() string {
	switch t {
	case TargetNone:
		return "none"
	case Target1D:
		return "1D"
	case Target2D:
		return "2D"
	case Target3D:
		return "3D"
	case TargetCube:
		return "cube"
	case TargetBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("TextureTarget(%d)", int(t))
	}
}

// TexelFormat is the per-texel layout of a buffer texture.
type TexelFormat struct {
	Components int
	Type       ComponentType
}

// Valid reports whether f names a supported buffer texture format.
func (f TexelFormat) Valid() bool {
	if f.Components < 1 || f.Components > 4 {
		return false
	}
	switch f.Type {
	case ComponentInt8, ComponentUint8, ComponentInt16, ComponentUint16,
		ComponentFloat16, ComponentInt32, ComponentUint32, ComponentFloat32:
		return true
	}
	return false
}

// Error is a device error reported by CheckError.
type Error struct {
	Op   string
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: error 0x%04X", e.Op, e.Code)
}
