package glpipe

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/signal"
)

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceInline
	sourceTexture
	sourceTextureBuffer
)

// uniformSource is exactly one of: nothing, inline bytes of one element
// kind, a texture, or a texture buffer.
type uniformSource struct {
	kind    sourceKind
	element gltype.ElementKind
	data    []byte
	tex     ref[Texture]
	tbuf    ref[TextureBuffer]
}

func (s uniformSource) textureLike() bool {
	return s.kind == sourceTexture || s.kind == sourceTextureBuffer
}

// sampled is a texture a sampler uniform can bind.
type sampled interface {
	activate() (int, error)
	deactivate() error
	samplerDim() gltype.SamplerDim
}

// Uniform binds a program uniform to inline values or a texture.
//
// Inline values are uploaded once and again only after they change or
// the program relinks. Texture sources take a texture unit on every
// activation and return it on deactivation.
type Uniform struct {
	input     *Input
	name      string
	src       uniformSource
	transpose bool
	location  int
	arraySize int
	desc      gltype.Descriptor
	prepared  bool
	applied   bool
	held      sampled
	recv      *signal.Receiver
}

func newUniform(in *Input, name string) *Uniform {
	u := &Uniform{input: in, name: name, location: -1}
	u.recv = signal.NewReceiver(u)
	in.prog.sig.Subscribe(u.recv)
	return u
}

// Name returns the uniform name.
func (u *Uniform) Name() string { return u.name }

// Location returns the resolved location, -1 before preparation.
func (u *Uniform) Location() int { return u.location }

// Type returns the resolved type, the zero Descriptor before preparation.
func (u *Uniform) Type() gltype.Descriptor { return u.desc }

// Transposed reports whether matrices are uploaded row-major.
func (u *Uniform) Transposed() bool { return u.transpose }

// SetInts sets int, ivec and bool values.
func (u *Uniform) SetInts(v ...int32) {
	u.setInline(gltype.ElementInt, encodeValues(v))
}

// SetUints sets uint and uvec values.
func (u *Uniform) SetUints(v ...uint32) {
	u.setInline(gltype.ElementUint, encodeValues(v))
}

// SetFloats sets float, vec and mat values. Matrices are column-major
// unless the uniform is transposed.
func (u *Uniform) SetFloats(v ...float32) {
	u.setInline(gltype.ElementFloat, encodeValues(v))
}

// SetDoubles sets double, dvec and dmat values.
func (u *Uniform) SetDoubles(v ...float64) {
	u.setInline(gltype.ElementDouble, encodeValues(v))
}

// SetBools sets bool and bvec values.
func (u *Uniform) SetBools(v ...bool) {
	ints := make([]int32, len(v))
	for i, b := range v {
		if b {
			ints[i] = 1
		}
	}
	u.setInline(gltype.ElementInt, encodeValues(ints))
}

// SetTexture binds a 1D, 2D, 3D or cube texture to a sampler uniform.
func (u *Uniform) SetTexture(t *Texture) {
	u.setSource(uniformSource{kind: sourceTexture, tex: refTo(t)})
}

// SetTextureBuffer binds a texture buffer to a buffer sampler uniform.
func (u *Uniform) SetTextureBuffer(t *TextureBuffer) {
	u.setSource(uniformSource{kind: sourceTextureBuffer, tbuf: refTo(t)})
}

// ClearSource removes the source.
func (u *Uniform) ClearSource() {
	u.setSource(uniformSource{})
}

// SetTranspose sets whether matrices are uploaded row-major.
func (u *Uniform) SetTranspose(on bool) {
	u.transpose = on
	u.applied = false
}

// Bytes returns the stored inline data.
func (u *Uniform) Bytes() []byte {
	if u.src.kind != sourceInline {
		return nil
	}
	return append([]byte(nil), u.src.data...)
}

func (u *Uniform) setInline(el gltype.ElementKind, data []byte) {
	u.setSource(uniformSource{kind: sourceInline, element: el, data: data})
}

// encodeValues packs uniform values in native byte order.
func encodeValues[T int32 | uint32 | float32 | float64](v []T) []byte {
	var zero T
	out := make([]byte, 0, len(v)*binary.Size(zero))
	for _, x := range v {
		switch x := any(x).(type) {
		case int32:
			out = binary.NativeEndian.AppendUint32(out, uint32(x))
		case uint32:
			out = binary.NativeEndian.AppendUint32(out, x)
		case float32:
			out = binary.NativeEndian.AppendUint32(out, math.Float32bits(x))
		case float64:
			out = binary.NativeEndian.AppendUint64(out, math.Float64bits(x))
		}
	}
	return out
}

func (u *Uniform) setSource(s uniformSource) {
	u.src = s
	u.prepared = false
	u.applied = false
}

// HandleSignal forgets the resolved location when the program relinks.
func (u *Uniform) HandleSignal(kind signal.Kind, sender any) bool {
	if _, ok := sender.(*Program); ok && kind == signal.Relinked {
		u.prepared = false
		u.applied = false
		return true
	}
	return false
}

func (u *Uniform) close() {
	u.release()
	u.recv.Close()
}

// prepare resolves location and type from the active uniform table.
func (u *Uniform) prepare() error {
	if u.prepared {
		return nil
	}
	p := u.input.prog
	if !p.linked() {
		return ErrNotLinked
	}
	dev := p.ctx.dev
	v, ok := findActive(dev.ActiveUniforms(p.id), u.name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUniformNotFound, u.name)
	}
	loc := dev.UniformLocation(p.id, u.name)
	if loc < 0 {
		return fmt.Errorf("%w: %q", ErrUniformNotFound, u.name)
	}
	desc, err := gltype.Resolve(v.Type)
	if err != nil {
		return fmt.Errorf("glpipe: uniform %q: %w", u.name, err)
	}
	u.location = loc
	u.arraySize = max(v.Size, 1)
	u.desc = desc
	u.prepared = true
	return nil
}

// apply uploads the source to the installed program. Inline sources are
// skipped once applied; texture sources are applied every time.
func (u *Uniform) apply() error {
	if u.applied && !u.src.textureLike() {
		return nil
	}
	if u.src.kind == sourceNone {
		return nil
	}
	if err := u.prepare(); err != nil {
		return err
	}
	switch u.desc.Object {
	case gltype.ObjectValue:
		if err := u.applyValue(); err != nil {
			return err
		}
		u.applied = true
		return nil
	case gltype.ObjectSampler:
		return u.applySampler()
	default:
		return fmt.Errorf("%w: uniform %q is %v", ErrUnsupportedType, u.name, u.desc.Object)
	}
}

func (u *Uniform) applyValue() error {
	if u.src.kind != sourceInline {
		return fmt.Errorf("%w: %q needs values", ErrUniformSource, u.name)
	}
	d := u.desc
	if u.src.element != d.Element {
		return fmt.Errorf("%w: %q is %v, got %v", ErrUniformSource, u.name, d.Element, u.src.element)
	}
	n := len(u.src.data) / d.Element.Size()
	comps := d.Components()
	if n == 0 || n%comps != 0 || n/comps > u.arraySize {
		return fmt.Errorf("%w: %q takes %d values per element and %d elements, got %d values",
			ErrUniformShape, u.name, comps, u.arraySize, n)
	}
	if d.IsMatrix() && (d.Element == gltype.ElementInt || d.Element == gltype.ElementUint) {
		return fmt.Errorf("%w: integer matrix %q", ErrUnsupportedType, u.name)
	}

	dev := u.input.prog.ctx.dev
	data := u.src.data
	switch d.Element {
	case gltype.ElementInt:
		v, _ := decode[int32](data)
		dev.UniformInts(u.location, d.ColumnSize, v)
	case gltype.ElementUint:
		v, _ := decode[uint32](data)
		dev.UniformUints(u.location, d.ColumnSize, v)
	case gltype.ElementFloat:
		v, _ := decode[float32](data)
		if d.IsMatrix() {
			dev.UniformMatrixFloats(u.location, d.ColumnCount, d.ColumnSize, u.transpose, v)
		} else {
			dev.UniformFloats(u.location, d.ColumnSize, v)
		}
	case gltype.ElementDouble:
		v, _ := decode[float64](data)
		if d.IsMatrix() {
			dev.UniformMatrixDoubles(u.location, d.ColumnCount, d.ColumnSize, u.transpose, v)
		} else {
			dev.UniformDoubles(u.location, d.ColumnSize, v)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedType, d.Element)
	}
	return u.input.prog.ctx.checkError("Uniform")
}

func (u *Uniform) applySampler() error {
	var t sampled
	switch u.src.kind {
	case sourceTexture:
		tex, err := u.src.tex.get()
		if err != nil {
			return err
		}
		t = tex
	case sourceTextureBuffer:
		tb, err := u.src.tbuf.get()
		if err != nil {
			return err
		}
		t = tb
	default:
		return fmt.Errorf("%w: sampler %q needs a texture", ErrUniformSource, u.name)
	}
	if got := t.samplerDim(); got != u.desc.Sampler {
		return fmt.Errorf("%w: %q is %v, texture is %v", ErrSamplerMismatch, u.name, u.desc.Sampler, got)
	}

	// A texture still held from an unreleased activation is given back
	// before it is taken again.
	u.release()
	unit, err := t.activate()
	if err != nil {
		return err
	}
	u.held = t
	u.input.prog.ctx.dev.UniformInts(u.location, 1, []int32{int32(unit)})
	return u.input.prog.ctx.checkError("Uniform")
}

// release returns the texture unit taken by the last sampler upload.
func (u *Uniform) release() {
	if u.held == nil {
		return
	}
	if err := u.held.deactivate(); err != nil {
		slogger().Warn("glpipe: texture release failed", "uniform", u.name, "err", err)
	}
	u.held = nil
}

// samplerDimOf maps a texture view dimension to the sampler that reads it.
func samplerDimOf(dim gputypes.TextureViewDimension) gltype.SamplerDim {
	switch dim {
	case gputypes.TextureViewDimension1D:
		return gltype.Sampler1DDim
	case gputypes.TextureViewDimension2D:
		return gltype.Sampler2DDim
	case gputypes.TextureViewDimension3D:
		return gltype.Sampler3DDim
	case gputypes.TextureViewDimensionCube:
		return gltype.SamplerCubeDim
	default:
		return gltype.SamplerNone
	}
}
