package glpipe

import (
	"fmt"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/signal"
)

// Varying is one captured output variable.
//
// In separate mode the varying owns a private buffer sized to hold one
// value per captured vertex. In interleaved mode it owns none and its
// values live in the output's shared buffer.
type Varying struct {
	output   *Output
	name     string
	index    int
	desc     gltype.Descriptor
	unitSize int
	buf      *Buffer
	prepared bool
	recv     *signal.Receiver
}

func newVarying(o *Output, name string) *Varying {
	v := &Varying{output: o, name: name}
	v.recv = signal.NewReceiver(v)
	o.prog.sig.Subscribe(v.recv)
	o.sig.Subscribe(v.recv)
	if !o.interleaved {
		v.buf = v.newBuffer()
	}
	return v
}

func (v *Varying) newBuffer() *Buffer {
	return v.output.prog.ctx.NewBuffer(captureUsage, device.FrequencyDynamic)
}

// Name returns the varying name.
func (v *Varying) Name() string { return v.name }

// Type returns the resolved type, the zero Descriptor before preparation.
func (v *Varying) Type() gltype.Descriptor { return v.desc }

// Index returns the capture slot resolved at preparation.
func (v *Varying) Index() int { return v.index }

// UnitSize returns the bytes captured per vertex, valid after preparation.
func (v *Varying) UnitSize() int { return v.unitSize }

// Buffer returns the buffer holding the captured values: the private
// buffer in separate mode, the output's shared buffer when interleaved.
func (v *Varying) Buffer() *Buffer {
	if v.output.interleaved {
		return v.output.shared
	}
	return v.buf
}

// HandleSignal reacts to relinks and to output mode switches.
func (v *Varying) HandleSignal(kind signal.Kind, sender any) bool {
	switch kind {
	case signal.Relinked:
		if _, ok := sender.(*Program); ok {
			v.prepared = false
			return true
		}
	case signal.Interleaved:
		if sender == v.output {
			if v.buf != nil {
				v.buf.Destroy()
				v.buf = nil
			}
			v.prepared = false
			return true
		}
	case signal.Deinterleaved:
		if sender == v.output {
			v.buf = v.newBuffer()
			v.prepared = false
			return true
		}
	}
	return false
}

func (v *Varying) close() {
	v.recv.Close()
	if v.buf != nil {
		v.buf.Destroy()
		v.buf = nil
	}
}

// prepare resolves the captured type and, in separate mode, sizes the
// private buffer for count vertices. It returns the per-vertex size.
func (v *Varying) prepare(index, count int) (int, error) {
	o := v.output
	if !o.prog.linked() {
		return 0, ErrNotLinked
	}
	if !v.prepared {
		dev := o.prog.ctx.dev
		av, ok := findActive(dev.CapturedVaryings(o.prog.id), v.name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrVaryingNotFound, v.name)
		}
		desc, err := gltype.Resolve(av.Type)
		if err != nil {
			return 0, fmt.Errorf("glpipe: varying %q: %w", v.name, err)
		}
		if desc.Object != gltype.ObjectValue || desc.Element == gltype.ElementDouble {
			return 0, fmt.Errorf("%w: varying %q is %v", ErrUnsupportedType, v.name, av.Type)
		}
		if desc.IsMatrix() && !o.interleaved {
			return 0, fmt.Errorf("%w: %q", ErrMatrixVarying, v.name)
		}
		v.desc = desc
		v.unitSize = desc.Size() * max(av.Size, 1)
		v.index = index
		v.prepared = true
	}

	if !o.interleaved {
		need := v.unitSize * count
		if need != 0 && need != v.buf.Size() {
			if err := v.buf.Resize(need); err != nil {
				return 0, err
			}
		}
	}
	return v.unitSize, nil
}

// VaryingValues returns the captured values of v. In interleaved mode
// the values of every varying are returned in capture order.
func VaryingValues[T Scalar](v *Varying) ([]T, error) {
	b := v.Buffer()
	if b == nil {
		return nil, ErrNoBuffer
	}
	return ReadBuffer[T](b)
}
