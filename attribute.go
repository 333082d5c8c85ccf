package glpipe

import (
	"fmt"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/signal"
)

// ReadMode is the in-memory type an attribute reads from its buffer.
type ReadMode int

const (
	ReadNone ReadMode = iota
	ReadInt8
	ReadUint8
	ReadInt16
	ReadUint16
	ReadInt32
	ReadUint32
	ReadFloat32
	ReadFloat64
)

// String returns the read mode name.
func (m ReadMode) String() string {
	if c := m.component(); c != device.ComponentNone {
		return c.String()
	}
	return fmt.Sprintf("ReadMode(%d)", int(m))
}

func (m ReadMode) component() device.ComponentType {
	switch m {
	case ReadInt8:
		return device.ComponentInt8
	case ReadUint8:
		return device.ComponentUint8
	case ReadInt16:
		return device.ComponentInt16
	case ReadUint16:
		return device.ComponentUint16
	case ReadInt32:
		return device.ComponentInt32
	case ReadUint32:
		return device.ComponentUint32
	case ReadFloat32:
		return device.ComponentFloat32
	case ReadFloat64:
		return device.ComponentFloat64
	default:
		return device.ComponentNone
	}
}

// pointerKind returns how components read with m feed a variable of
// element kind el.
func (m ReadMode) pointerKind(el gltype.ElementKind) (device.PointerKind, error) {
	c := m.component()
	if c == device.ComponentNone {
		return 0, fmt.Errorf("%w: %v", ErrInvalidReadMode, m)
	}
	switch el {
	case gltype.ElementFloat:
		return device.PointerFloat, nil
	case gltype.ElementInt, gltype.ElementUint:
		if !c.IsInteger() {
			return 0, fmt.Errorf("%w: %v for %v", ErrIncompatibleReadMode, m, el)
		}
		return device.PointerInteger, nil
	case gltype.ElementDouble:
		if c != device.ComponentFloat64 {
			return 0, fmt.Errorf("%w: %v for %v", ErrIncompatibleReadMode, m, el)
		}
		return device.PointerDouble, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedType, el)
	}
}

// Attribute binds one vertex input of a program to a buffer.
//
// Offset and stride count elements of the read mode, not bytes. The
// stride is the gap between consecutive vertices beyond the attribute
// itself.
type Attribute struct {
	input     *Input
	name      string
	buf       ref[Buffer]
	offset    int
	stride    int
	mode      ReadMode
	normalize bool
	location  int
	desc      gltype.Descriptor
	prepared  bool
	// bound is the buffer recorded in the vertex array by the last apply.
	bound     device.BufferID
	sig       signal.Sender
	recv      *signal.Receiver
}

func newAttribute(in *Input, name string) *Attribute {
	a := &Attribute{input: in, name: name, mode: ReadFloat32, location: -1}
	a.recv = signal.NewReceiver(a)
	in.prog.sig.Subscribe(a.recv)
	return a
}

// Name returns the vertex input name.
func (a *Attribute) Name() string { return a.name }

// Offset returns the offset of the first value, in elements.
func (a *Attribute) Offset() int { return a.offset }

// Stride returns the gap between vertices, in elements.
func (a *Attribute) Stride() int { return a.stride }

// ReadMode returns the in-memory element type.
func (a *Attribute) ReadMode() ReadMode { return a.mode }

// Normalized reports whether integer data is normalized to [0,1] or [-1,1].
func (a *Attribute) Normalized() bool { return a.normalize }

// Location returns the resolved input location, -1 before preparation.
func (a *Attribute) Location() int { return a.location }

// Type returns the resolved type, the zero Descriptor before preparation.
func (a *Attribute) Type() gltype.Descriptor { return a.desc }

// Buffer returns the connected buffer. It returns nil and no error if no
// buffer is connected, and ErrExpiredReference if the buffer is gone.
func (a *Attribute) Buffer() (*Buffer, error) {
	return a.buf.get()
}

// ConnectBuffer reads the attribute from b starting at offset elements,
// skipping stride elements between vertices.
func (a *Attribute) ConnectBuffer(b *Buffer, offset, stride int) {
	a.unwatch()
	a.buf = refTo(b)
	if b != nil {
		b.sig.Subscribe(a.recv)
	}
	a.offset = offset
	a.stride = stride
	a.changed()
}

// DisconnectBuffer removes the buffer.
func (a *Attribute) DisconnectBuffer() {
	a.unwatch()
	a.buf = ref[Buffer]{}
	a.changed()
}

// SetNormalize sets whether integer data is normalized when read into a
// float input.
func (a *Attribute) SetNormalize(on bool) {
	a.normalize = on
	a.changed()
}

// SetReadMode sets the in-memory element type.
func (a *Attribute) SetReadMode(m ReadMode) {
	a.mode = m
	a.changed()
}

// SetOffset sets the offset of the first value, in elements.
func (a *Attribute) SetOffset(offset int) {
	a.offset = offset
	a.sig.Notify(signal.Changed, a)
}

// SetStride sets the gap between vertices, in elements.
func (a *Attribute) SetStride(stride int) {
	a.stride = stride
	a.sig.Notify(signal.Changed, a)
}

func (a *Attribute) changed() {
	a.prepared = false
	a.sig.Notify(signal.Changed, a)
}

// HandleSignal forgets the resolved location when the program relinks,
// and reports a change when the connected buffer was destroyed or got a
// new device handle since it was recorded in the vertex array.
func (a *Attribute) HandleSignal(kind signal.Kind, sender any) bool {
	if kind != signal.Changed && kind != signal.Relinked {
		return false
	}
	switch s := sender.(type) {
	case *Program:
		if kind == signal.Relinked {
			a.prepared = false
			return true
		}
	case *Buffer:
		if kind == signal.Changed && a.buf.is(s) {
			if s.destroyed || s.id != a.bound {
				a.sig.Notify(signal.Changed, a)
			}
			return true
		}
	}
	return false
}

// stale reports whether the buffer recorded in the vertex array has been
// collected without a notification.
func (a *Attribute) stale() bool {
	return a.bound != device.InvalidID && a.buf.peek() == nil
}

func (a *Attribute) unwatch() {
	if old := a.buf.peek(); old != nil {
		old.sig.Unsubscribe(a.recv)
	}
}

func (a *Attribute) close() {
	a.unwatch()
	a.recv.Close()
}

// prepare resolves the location and type of the input.
func (a *Attribute) prepare() error {
	if a.prepared {
		return nil
	}
	p := a.input.prog
	if !p.linked() {
		return ErrNotLinked
	}
	dev := p.ctx.dev
	loc := dev.AttribLocation(p.id, a.name)
	if loc < 0 {
		return fmt.Errorf("%w: %q", ErrAttributeNotFound, a.name)
	}
	v, ok := findActive(dev.ActiveAttributes(p.id), a.name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrAttributeNotFound, a.name)
	}
	desc, err := gltype.Resolve(v.Type)
	if err != nil {
		return fmt.Errorf("glpipe: attribute %q: %w", a.name, err)
	}
	if desc.Object != gltype.ObjectValue {
		return fmt.Errorf("%w: attribute %q is %v", ErrUnsupportedType, a.name, desc.Object)
	}
	a.location = loc
	a.desc = desc
	a.prepared = true
	return nil
}

// apply records the attribute into the bound vertex array. A matrix
// input takes one location per column.
func (a *Attribute) apply() error {
	a.bound = device.InvalidID
	b, err := a.buf.get()
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNoBuffer
	}
	if err := a.prepare(); err != nil {
		return err
	}
	kind, err := a.mode.pointerKind(a.desc.Element)
	if err != nil {
		return err
	}
	if err := b.ensure(); err != nil {
		return err
	}

	comp := a.mode.component()
	size := comp.Size()
	cols := a.desc.ColumnSize
	stride := (a.stride + cols*a.desc.ColumnCount) * size
	dev := a.input.prog.ctx.dev
	for col := range a.desc.ColumnCount {
		loc := a.location + col
		dev.EnableVertexAttrib(loc)
		dev.VertexAttribPointer(device.VertexPointer{
			Location:   loc,
			Buffer:     b.id,
			Size:       cols,
			Type:       comp,
			Normalized: a.normalize && kind == device.PointerFloat,
			Stride:     stride,
			Offset:     (a.offset + col*cols) * size,
			Kind:       kind,
		})
	}
	if err := a.input.prog.ctx.checkError("VertexAttribPointer"); err != nil {
		return err
	}
	a.bound = b.id
	return nil
}

// findActive looks a variable up in an introspection table. Arrays may
// be reported with a "[0]" suffix.
func findActive(vars []device.ActiveVariable, name string) (device.ActiveVariable, bool) {
	for _, v := range vars {
		if v.Name == name || v.Name == name+"[0]" {
			return v, true
		}
	}
	return device.ActiveVariable{}, false
}
