package gltype

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by Resolve for enumerations outside the table.
var ErrUnknownType = errors.New("gltype: unknown type enumeration")

// ObjectKind says what a reflected variable is.
type ObjectKind int

const (
	// ObjectNone is the unresolved sentinel.
	ObjectNone ObjectKind = iota
	// ObjectValue is a scalar, vector or matrix.
	ObjectValue
	// ObjectSampler is a texture sampler.
	ObjectSampler
	// ObjectImage is a load/store image.
	ObjectImage
)

// String returns the object kind name.
func (k ObjectKind) String() string {
	switch k {
	case ObjectNone:
		return "none"
	case ObjectValue:
		return "value"
	case ObjectSampler:
		return "sampler"
	case ObjectImage:
		return "image"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

// ElementKind is the scalar type a value or sampler is made of.
type ElementKind int

const (
	ElementNone ElementKind = iota
	ElementInt
	ElementUint
	ElementFloat
	ElementDouble
)

// String returns the element kind name.
func (k ElementKind) String() string {
	switch k {
	case ElementNone:
		return "none"
	case ElementInt:
		return "int"
	case ElementUint:
		return "uint"
	case ElementFloat:
		return "float"
	case ElementDouble:
		return "double"
	default:
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
}

// Size returns the size of one element in bytes, or 0 for ElementNone.
func (k ElementKind) Size() int {
	switch k {
	case ElementInt, ElementUint, ElementFloat:
		return 4
	case ElementDouble:
		return 8
	default:
		return 0
	}
}

// SamplerDim is the dimensionality of a sampler.
type SamplerDim int

const (
	SamplerNone SamplerDim = iota
	Sampler1DDim
	Sampler2DDim
	Sampler3DDim
	SamplerCubeDim
	SamplerBufferDim
)

// String returns the sampler dimensionality name.
func (d SamplerDim) String() string {
	switch d {
	case SamplerNone:
		return "none"
	case Sampler1DDim:
		return "1D"
	case Sampler2DDim:
		return "2D"
	case Sampler3DDim:
		return "3D"
	case SamplerCubeDim:
		return "cube"
	case SamplerBufferDim:
		return "buffer"
	default:
		return fmt.Sprintf("SamplerDim(%d)", int(d))
	}
}

// Descriptor describes the shape of a reflected variable.
//
// ColumnSize is the vector width (rows of a matrix) and ColumnCount the
// number of matrix columns, 1 for scalars and vectors. The zero value is
// the unresolved sentinel and is never returned by Resolve.
type Descriptor struct {
	Object      ObjectKind
	Element     ElementKind
	ColumnSize  int
	ColumnCount int
	Sampler     SamplerDim
}

// Valid reports whether d was produced by a successful Resolve.
func (d Descriptor) Valid() bool {
	return d.Object != ObjectNone && d.Element != ElementNone
}

// IsMatrix reports whether d has more than one column.
func (d Descriptor) IsMatrix() bool {
	return d.ColumnCount > 1
}

// Components returns the number of scalar elements in one value of d.
func (d Descriptor) Components() int {
	return d.ColumnSize * d.ColumnCount
}

// Size returns the byte size of one value of d.
func (d Descriptor) Size() int {
	return d.Components() * d.Element.Size()
}

// Resolve returns the descriptor for a reflected type enumeration.
func Resolve(e Enum) (Descriptor, error) {
	ent, ok := table[e]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: 0x%04X", ErrUnknownType, uint32(e))
	}
	return ent.desc, nil
}
