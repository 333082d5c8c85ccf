package glpipe

import (
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
)

func TestBufferRoundTrip(t *testing.T) {
	ctx, dev := newTestContext(t)
	b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
	if b.ID() != device.InvalidID {
		t.Fatal("buffer allocated before the first write")
	}

	want := []int16{-3, 0, 7, 32767}
	if err := WriteBuffer(b, want); err != nil {
		t.Fatalf("WriteBuffer() error: %v", err)
	}
	if b.Size() != 8 {
		t.Errorf("Size() = %d, want 8", b.Size())
	}
	got, err := ReadBuffer[int16](b)
	if err != nil {
		t.Fatalf("ReadBuffer() error: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("ReadBuffer() = %v, want %v", got, want)
	}

	if err := b.Update(2, binary.NativeEndian.AppendUint16(nil, 1)); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, _ = ReadBuffer[int16](b)
	if got[1] != 1 {
		t.Errorf("value after Update = %d, want 1", got[1])
	}
	if got := dev.Count("CreateBuffer"); got != 1 {
		t.Errorf("CreateBuffer calls = %d, want 1", got)
	}
}

func TestBufferBounds(t *testing.T) {
	ctx, _ := newTestContext(t)
	b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
	if err := b.Resize(4); err != nil {
		t.Fatal(err)
	}
	if err := b.Update(2, []byte{1, 2, 3}); err == nil {
		t.Error("Update() past the end succeeded")
	}
	if err := b.Read(-1, make([]byte, 1)); err == nil {
		t.Error("Read() before the start succeeded")
	}
	if err := b.Resize(-1); err == nil {
		t.Error("Resize(-1) succeeded")
	}
}

func TestBufferHint(t *testing.T) {
	tests := []struct {
		usage gputypes.BufferUsage
		freq  device.Frequency
		want  device.BufferHint
	}{
		{gputypes.BufferUsageVertex, device.FrequencyStatic, device.BufferHint{Frequency: device.FrequencyStatic, Nature: device.NatureDraw}},
		{gputypes.BufferUsageMapRead, device.FrequencyStream, device.BufferHint{Frequency: device.FrequencyStream, Nature: device.NatureRead}},
		{captureUsage, device.FrequencyDynamic, device.BufferHint{Frequency: device.FrequencyDynamic, Nature: device.NatureCopy}},
	}
	for _, tt := range tests {
		ctx, _ := newTestContext(t)
		if got := ctx.NewBuffer(tt.usage, tt.freq).Hint(); got != tt.want {
			t.Errorf("Hint(%v, %v) = %+v, want %+v", tt.usage, tt.freq, got, tt.want)
		}
	}
}

func TestBufferDestroy(t *testing.T) {
	ctx, dev := newTestContext(t)
	b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
	if err := WriteBuffer(b, []float32{1}); err != nil {
		t.Fatal(err)
	}
	pr := newWatcher(&b.sig)

	b.Destroy()
	b.Destroy()
	if _, _, buffers, _, _ := dev.Live(); buffers != 0 {
		t.Errorf("live buffers = %d, want 0", buffers)
	}
	if len(pr.kinds) != 1 {
		t.Errorf("notifications = %d, want 1", len(pr.kinds))
	}
	if err := WriteBuffer(b, []float32{1}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("WriteBuffer() after Destroy error = %v, want ErrDestroyed", err)
	}
	if _, err := b.Bytes(); err == nil {
		t.Error("Bytes() after Destroy succeeded")
	}
}

func TestBufferDeviceError(t *testing.T) {
	ctx, dev := newTestContext(t)
	b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
	if err := b.Resize(4); err != nil {
		t.Fatal(err)
	}
	dev.SetError(0x0505)
	err := b.SetData([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	var derr *device.Error
	if !errors.As(err, &derr) || derr.Code != 0x0505 {
		t.Fatalf("SetData() error = %v, want device error 0x0505", err)
	}
	if b.Size() != 4 {
		t.Errorf("Size() = %d after a failed store, want 4", b.Size())
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	got, err := decode[uint16]([]byte{1, 0, 2, 0, 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
