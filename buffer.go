package glpipe

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
)

// Scalar is the set of element types buffers and uniforms carry.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// Buffer is a range of device memory.
//
// Attributes, texture buffers and varyings refer to a Buffer without
// owning it. The device storage is created on first write and released
// by Destroy.
type Buffer struct {
	ctx       *Context
	id        device.BufferID
	usage     gputypes.BufferUsage
	freq      device.Frequency
	size      int
	destroyed bool
	sig       signal.Sender
}

// ID returns the device handle, InvalidID before the first write.
func (b *Buffer) ID() device.BufferID {
	return b.id
}

// Size returns the storage size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Usage returns the declared usage.
func (b *Buffer) Usage() gputypes.BufferUsage {
	return b.usage
}

// Hint returns the device usage hint derived from usage and frequency.
func (b *Buffer) Hint() device.BufferHint {
	n := device.NatureDraw
	switch {
	case b.usage&gputypes.BufferUsageMapRead != 0:
		n = device.NatureRead
	case b.usage&gputypes.BufferUsageCopySrc != 0:
		n = device.NatureCopy
	}
	return device.BufferHint{Frequency: b.freq, Nature: n}
}

func (b *Buffer) isDestroyed() bool {
	return b.destroyed
}

func (b *Buffer) ensure() error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.id != device.InvalidID {
		return nil
	}
	id, err := b.ctx.dev.CreateBuffer()
	if err != nil {
		return fmt.Errorf("glpipe: create buffer: %w", err)
	}
	b.id = id
	return nil
}

// SetData replaces the contents with data.
func (b *Buffer) SetData(data []byte) error {
	return b.store(data, len(data))
}

// Resize replaces the storage with size bytes of undefined contents.
func (b *Buffer) Resize(size int) error {
	if size < 0 {
		return fmt.Errorf("glpipe: negative buffer size %d", size)
	}
	return b.store(nil, size)
}

func (b *Buffer) store(data []byte, size int) error {
	if err := b.ensure(); err != nil {
		return err
	}
	b.ctx.dev.BufferData(b.id, data, size, b.Hint())
	if err := b.ctx.checkError("BufferData"); err != nil {
		return err
	}
	b.size = size
	b.sig.Notify(signal.Changed, b)
	return nil
}

// Update overwrites part of the contents starting at offset.
func (b *Buffer) Update(offset int, data []byte) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("glpipe: update [%d,%d) outside buffer of %d bytes", offset, offset+len(data), b.size)
	}
	b.ctx.dev.BufferSubData(b.id, offset, data)
	return b.ctx.checkError("BufferSubData")
}

// Read copies len(dst) bytes starting at offset into dst.
func (b *Buffer) Read(offset int, dst []byte) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if offset < 0 || offset+len(dst) > b.size {
		return fmt.Errorf("glpipe: read [%d,%d) outside buffer of %d bytes", offset, offset+len(dst), b.size)
	}
	if len(dst) == 0 {
		return nil
	}
	return b.ctx.dev.ReadBuffer(b.id, offset, dst)
}

// Bytes returns a host copy of the whole buffer.
func (b *Buffer) Bytes() ([]byte, error) {
	out := make([]byte, b.size)
	if err := b.Read(0, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Destroy releases the device storage. References to b fail afterwards.
func (b *Buffer) Destroy() {
	if b.destroyed {
		return
	}
	if b.id != device.InvalidID {
		b.ctx.dev.DeleteBuffer(b.id)
		b.id = device.InvalidID
	}
	b.size = 0
	b.destroyed = true
	b.sig.Notify(signal.Changed, b)
}

// WriteBuffer replaces the contents of b with values in native byte order.
func WriteBuffer[T Scalar](b *Buffer, values []T) error {
	data, err := binary.Append(nil, binary.NativeEndian, values)
	if err != nil {
		return fmt.Errorf("glpipe: encode buffer: %w", err)
	}
	return b.SetData(data)
}

// ReadBuffer returns the contents of b as values in native byte order.
// Trailing bytes that do not form a whole value are ignored.
func ReadBuffer[T Scalar](b *Buffer) ([]T, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return decode[T](data)
}

func decode[T Scalar](data []byte) ([]T, error) {
	var zero T
	n := binary.Size(zero)
	out := make([]T, len(data)/n)
	if len(out) == 0 {
		return out, nil
	}
	if _, err := binary.Decode(data, binary.NativeEndian, out); err != nil {
		return nil, fmt.Errorf("glpipe: decode buffer: %w", err)
	}
	return out, nil
}
