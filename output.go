package glpipe

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
)

// captureUsage is the usage of buffers written by transform feedback.
const captureUsage = gputypes.BufferUsageVertex | gputypes.BufferUsageCopySrc

// Output holds the captured varyings of a program.
//
// In interleaved mode all varyings are written into one shared buffer,
// one vertex after another. In separate mode each varying owns a buffer.
// Changing the varying set or the mode marks the program pending, since
// captured varyings are declared before linking.
type Output struct {
	prog        *Program
	varyings    []*Varying
	interleaved bool
	shared      *Buffer
	totalSize   int
	primitives  int
	prepared    bool
	active      bool
	query       device.QueryID
	sig         signal.Sender
	recv        *signal.Receiver
}

func newOutput(p *Program) *Output {
	o := &Output{prog: p}
	o.recv = signal.NewReceiver(o)
	p.sig.Subscribe(o.recv)
	return o
}

// AddVarying adds a captured varying. It returns nil if the name is
// already captured.
func (o *Output) AddVarying(name string) *Varying {
	if o.Varying(name) != nil {
		return nil
	}
	v := newVarying(o, name)
	o.varyings = append(o.varyings, v)
	o.prepared = false
	o.sig.Notify(signal.Changed, o)
	return v
}

// Varying returns the varying captured as name, or nil.
func (o *Output) Varying(name string) *Varying {
	for _, v := range o.varyings {
		if v.name == name {
			return v
		}
	}
	return nil
}

// Varyings returns the varyings in capture order.
func (o *Output) Varyings() []*Varying {
	return slices.Clone(o.varyings)
}

// RemoveVarying stops capturing name. Removing an unknown name has no
// effect.
func (o *Output) RemoveVarying(name string) {
	i := slices.IndexFunc(o.varyings, func(v *Varying) bool { return v.name == name })
	if i < 0 {
		return
	}
	o.varyings[i].close()
	o.varyings = slices.Delete(o.varyings, i, i+1)
	o.prepared = false
	o.sig.Notify(signal.Changed, o)
}

// Interleaved reports whether varyings share one buffer.
func (o *Output) Interleaved() bool {
	return o.interleaved
}

// Interleave switches between one shared buffer and per-varying buffers.
func (o *Output) Interleave(on bool) {
	if o.interleaved == on {
		return
	}
	o.interleaved = on
	if on {
		o.shared = o.prog.ctx.NewBuffer(captureUsage, device.FrequencyDynamic)
		o.sig.Notify(signal.Interleaved, o)
	} else {
		o.shared.Destroy()
		o.shared = nil
		o.sig.Notify(signal.Deinterleaved, o)
	}
	o.prepared = false
	o.totalSize = 0
	o.sig.Notify(signal.Changed, o)
}

// Buffer returns the shared buffer in interleaved mode, nil otherwise.
func (o *Output) Buffer() *Buffer {
	return o.shared
}

// Stride returns the bytes captured per vertex in interleaved mode,
// valid after preparation.
func (o *Output) Stride() int {
	return o.totalSize
}

// PrimitivesWritten returns the number of primitives captured by the
// last recording pass.
func (o *Output) PrimitivesWritten() int {
	return o.primitives
}

// HandleSignal forgets the capture layout when the program relinks.
func (o *Output) HandleSignal(kind signal.Kind, sender any) bool {
	if _, ok := sender.(*Program); ok && kind == signal.Relinked {
		o.prepared = false
		o.totalSize = 0
		return true
	}
	return false
}

// setUp declares the captured varyings for the next link.
func (o *Output) setUp() {
	if len(o.varyings) == 0 {
		return
	}
	names := make([]string, len(o.varyings))
	for i, v := range o.varyings {
		names[i] = v.name
	}
	mode := device.CaptureSeparate
	if o.interleaved {
		mode = device.CaptureInterleaved
	}
	o.prog.ctx.dev.TransformFeedbackVaryings(o.prog.id, names, mode)
}

// Prepare sizes the capture buffers for count vertices.
func (o *Output) Prepare(count int) error {
	if len(o.varyings) == 0 {
		return nil
	}
	if !o.prog.linked() {
		return ErrNotLinked
	}

	if !o.interleaved {
		for i, v := range o.varyings {
			if _, err := v.prepare(i, count); err != nil {
				return err
			}
		}
		o.prepared = true
		return nil
	}

	if !o.prepared {
		total := 0
		for i, v := range o.varyings {
			size, err := v.prepare(i, count)
			if err != nil {
				return err
			}
			total += size
		}
		o.totalSize = total
		o.prepared = true
	}
	need := o.totalSize * count
	if need != 0 && need != o.shared.Size() {
		if err := o.shared.Resize(need); err != nil {
			return err
		}
		slogger().Debug("glpipe: capture buffer resized", "bytes", need)
	}
	return nil
}

// captureBuffers returns the buffers the next pass writes to.
func (o *Output) captureBuffers() []*Buffer {
	if len(o.varyings) == 0 {
		return nil
	}
	if o.interleaved {
		return []*Buffer{o.shared}
	}
	out := make([]*Buffer, 0, len(o.varyings))
	for _, v := range o.varyings {
		if v.buf != nil {
			out = append(out, v.buf)
		}
	}
	return out
}

// activate binds the capture buffers and starts capturing prim.
func (o *Output) activate(prim gputypes.PrimitiveTopology) error {
	if o.active || len(o.varyings) == 0 {
		return nil
	}
	base, err := captureBase(prim)
	if err != nil {
		return err
	}
	dev := o.prog.ctx.dev
	q, err := dev.CreateQuery()
	if err != nil {
		return fmt.Errorf("glpipe: create query: %w", err)
	}

	o.primitives = 0
	if o.interleaved {
		dev.BindCaptureBuffer(0, o.shared.id)
	} else {
		for i, v := range o.varyings {
			dev.BindCaptureBuffer(i, v.buf.id)
		}
	}
	dev.BeginQuery(q)
	dev.BeginCapture(base)
	if err := o.prog.ctx.checkError("BeginCapture"); err != nil {
		dev.EndQuery()
		dev.DeleteQuery(q)
		o.unbind()
		return err
	}
	o.query = q
	o.active = true
	return nil
}

// deactivate ends capturing and reads back the primitive count.
func (o *Output) deactivate() {
	if !o.active {
		return
	}
	dev := o.prog.ctx.dev
	dev.EndCapture()
	dev.EndQuery()
	o.primitives = int(dev.QueryResult(o.query))
	dev.DeleteQuery(o.query)
	o.query = device.InvalidID
	o.unbind()
	o.active = false
}

func (o *Output) unbind() {
	dev := o.prog.ctx.dev
	slots := 1
	if !o.interleaved {
		slots = len(o.varyings)
	}
	for i := range slots {
		dev.BindCaptureBuffer(i, device.InvalidID)
	}
}

func (o *Output) destroy() {
	o.deactivate()
	for _, v := range o.varyings {
		v.close()
	}
	o.varyings = nil
	if o.shared != nil {
		o.shared.Destroy()
		o.shared = nil
	}
	o.recv.Close()
}
