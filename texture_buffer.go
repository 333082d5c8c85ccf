package glpipe

import (
	"fmt"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/signal"
)

// TextureBuffer exposes a Buffer to buffer samplers.
//
// The texel format is a component count (1 to 4) and a component type.
// The buffer is re-attached on the next activation after it changes.
type TextureBuffer struct {
	ctx         *Context
	id          device.TextureID
	buf         ref[Buffer]
	format      device.TexelFormat
	prepared    bool
	unit        *TextureUnit
	activations int
	destroyed   bool
	recv        *signal.Receiver
}

// NewTextureBuffer creates an empty texture buffer.
func (c *Context) NewTextureBuffer() (*TextureBuffer, error) {
	id, err := c.dev.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("glpipe: create texture buffer: %w", err)
	}
	t := &TextureBuffer{ctx: c, id: id}
	t.recv = signal.NewReceiver(t)
	return t, nil
}

// ID returns the device handle.
func (t *TextureBuffer) ID() device.TextureID { return t.id }

// Format returns the texel format.
func (t *TextureBuffer) Format() device.TexelFormat { return t.format }

// Buffer returns the connected buffer, nil if none.
func (t *TextureBuffer) Buffer() (*Buffer, error) { return t.buf.get() }

// Active reports whether the texture buffer holds a unit.
func (t *TextureBuffer) Active() bool { return t.activations > 0 }

func (t *TextureBuffer) isDestroyed() bool { return t.destroyed }

func (t *TextureBuffer) samplerDim() gltype.SamplerDim { return gltype.SamplerBufferDim }

// ConnectBuffer exposes b as texels of components values of type typ.
func (t *TextureBuffer) ConnectBuffer(b *Buffer, components int, typ device.ComponentType) error {
	if b == nil {
		return ErrNoBuffer
	}
	f := device.TexelFormat{Components: components, Type: typ}
	if !f.Valid() {
		return fmt.Errorf("%w: %d x %v", ErrInvalidTexelFormat, components, typ)
	}
	if old := t.buf.peek(); old != nil {
		old.sig.Unsubscribe(t.recv)
	}
	t.buf = refTo(b)
	b.sig.Subscribe(t.recv)
	t.format = f
	t.prepared = false
	return nil
}

// DisconnectBuffer detaches the buffer.
func (t *TextureBuffer) DisconnectBuffer() {
	if old := t.buf.peek(); old != nil {
		old.sig.Unsubscribe(t.recv)
	}
	t.buf = ref[Buffer]{}
	t.prepared = false
}

// HandleSignal re-attaches the buffer after it changes.
func (t *TextureBuffer) HandleSignal(kind signal.Kind, sender any) bool {
	if b, ok := sender.(*Buffer); ok && kind == signal.Changed && t.buf.is(b) {
		t.prepared = false
		return true
	}
	return false
}

func (t *TextureBuffer) activate() (int, error) {
	if t.destroyed {
		return 0, ErrDestroyed
	}
	if t.activations == 0 {
		b, err := t.buf.get()
		if err != nil {
			return 0, err
		}
		if b == nil {
			return 0, ErrNoBuffer
		}
		if err := b.ensure(); err != nil {
			return 0, err
		}
		unit, err := t.ctx.units.Lock()
		if err != nil {
			return 0, err
		}
		if err := unit.MakeActive(); err != nil {
			unit.Release()
			return 0, err
		}
		dev := t.ctx.dev
		dev.BindTexture(device.TargetBuffer, t.id)
		if !t.prepared {
			dev.TexBuffer(t.format, b.id)
			if err := t.ctx.checkError("TexBuffer"); err != nil {
				dev.BindTexture(device.TargetBuffer, device.InvalidID)
				unit.Release()
				return 0, err
			}
			t.prepared = true
		}
		t.unit = unit
	}
	t.activations++
	return t.unit.Index(), nil
}

func (t *TextureBuffer) deactivate() error {
	if t.activations == 0 {
		return ErrTextureNotActive
	}
	t.activations--
	if t.activations > 0 {
		return nil
	}
	if err := t.unit.MakeActive(); err == nil {
		t.ctx.dev.BindTexture(device.TargetBuffer, device.InvalidID)
	}
	t.unit.Release()
	t.unit = nil
	return nil
}

// Destroy releases the texture buffer. The buffer itself is kept.
func (t *TextureBuffer) Destroy() {
	if t.destroyed {
		return
	}
	if t.activations > 0 {
		t.activations = 1
		_ = t.deactivate()
	}
	t.DisconnectBuffer()
	t.recv.Close()
	t.ctx.dev.DeleteTexture(t.id)
	t.id = device.InvalidID
	t.destroyed = true
}
