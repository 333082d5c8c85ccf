package manifest

import (
	"fmt"

	"github.com/gogpu/glpipe"
)

var readModes = map[string]glpipe.ReadMode{
	"int8":    glpipe.ReadInt8,
	"uint8":   glpipe.ReadUint8,
	"int16":   glpipe.ReadInt16,
	"uint16":  glpipe.ReadUint16,
	"int32":   glpipe.ReadInt32,
	"uint32":  glpipe.ReadUint32,
	"float32": glpipe.ReadFloat32,
	"float64": glpipe.ReadFloat64,
}

// parseReadMode maps a read name to its mode; empty means float32.
func parseReadMode(name string) (glpipe.ReadMode, error) {
	if name == "" {
		return glpipe.ReadFloat32, nil
	}
	m, ok := readModes[name]
	if !ok {
		return glpipe.ReadNone, fmt.Errorf("%w: read %q", ErrUnknownValue, name)
	}
	return m, nil
}

// ReadMode returns the in-memory type of the attribute data.
func (a Attribute) ReadMode() glpipe.ReadMode {
	m, _ := parseReadMode(a.Read)
	return m
}

// Upload writes the attribute data into b, converted to the read mode.
func (a Attribute) Upload(b *glpipe.Buffer) error {
	switch a.ReadMode() {
	case glpipe.ReadInt8:
		return glpipe.WriteBuffer(b, convert[int8](a.Data))
	case glpipe.ReadUint8:
		return glpipe.WriteBuffer(b, convert[uint8](a.Data))
	case glpipe.ReadInt16:
		return glpipe.WriteBuffer(b, convert[int16](a.Data))
	case glpipe.ReadUint16:
		return glpipe.WriteBuffer(b, convert[uint16](a.Data))
	case glpipe.ReadInt32:
		return glpipe.WriteBuffer(b, convert[int32](a.Data))
	case glpipe.ReadUint32:
		return glpipe.WriteBuffer(b, convert[uint32](a.Data))
	case glpipe.ReadFloat64:
		return glpipe.WriteBuffer(b, a.Data)
	default:
		return glpipe.WriteBuffer(b, convert[float32](a.Data))
	}
}

// Configure sets the read mode and normalization of attr.
func (a Attribute) Configure(attr *glpipe.Attribute) {
	attr.SetReadMode(a.ReadMode())
	attr.SetNormalize(a.Normalize)
}

var uniformTypes = map[string]func(u *glpipe.Uniform, v []float64){
	"int":    func(u *glpipe.Uniform, v []float64) { u.SetInts(convert[int32](v)...) },
	"uint":   func(u *glpipe.Uniform, v []float64) { u.SetUints(convert[uint32](v)...) },
	"float":  func(u *glpipe.Uniform, v []float64) { u.SetFloats(convert[float32](v)...) },
	"double": func(u *glpipe.Uniform, v []float64) { u.SetDoubles(v...) },
	"bool": func(u *glpipe.Uniform, v []float64) {
		b := make([]bool, len(v))
		for i, x := range v {
			b[i] = x != 0
		}
		u.SetBools(b...)
	},
}

// Apply sets the uniform source of u from the manifest values.
func (m Uniform) Apply(u *glpipe.Uniform) {
	set, ok := uniformTypes[m.Type]
	if !ok {
		return
	}
	set(u, m.Values)
	u.SetTranspose(m.Transpose)
}

func convert[T glpipe.Scalar](v []float64) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = T(x)
	}
	return out
}
