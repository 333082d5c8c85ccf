package glpipe

import (
	"errors"
	"runtime"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/devicetest"
)

func vertexBuffer(t *testing.T, ctx *Context, values ...float32) *Buffer {
	t.Helper()
	b := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
	if err := WriteBuffer(b, values); err != nil {
		t.Fatalf("WriteBuffer() error: %v", err)
	}
	return b
}

func pointers(dev *devicetest.Device) []device.VertexPointer {
	var out []device.VertexPointer
	for _, c := range dev.Calls {
		if c.Op == "VertexAttribPointer" {
			out = append(out, c.Args[0].(device.VertexPointer))
		}
	}
	return out
}

func TestInputDuplicateNames(t *testing.T) {
	ctx, _ := newTestContext(t)
	in := newLinkedProgram(t, ctx).Input()

	if in.AddAttribute("position") == nil {
		t.Fatal("AddAttribute() returned nil for a new name")
	}
	if in.AddAttribute("position") != nil {
		t.Error("AddAttribute() of a bound name returned an attribute")
	}
	if got := len(in.Attributes()); got != 1 {
		t.Errorf("len(Attributes()) = %d, want 1", got)
	}

	if in.AddUniform("scale") == nil {
		t.Fatal("AddUniform() returned nil for a new name")
	}
	if in.AddUniform("scale") != nil {
		t.Error("AddUniform() of a bound name returned a uniform")
	}
	if got := len(in.Uniforms()); got != 1 {
		t.Errorf("len(Uniforms()) = %d, want 1", got)
	}
}

func TestInputRemoveUnknownName(t *testing.T) {
	ctx, _ := newTestContext(t)
	in := newLinkedProgram(t, ctx).Input()
	in.AddAttribute("position")
	in.AddUniform("scale")
	if err := in.Prepare(); err == nil {
		t.Fatal("Prepare() with an unconnected attribute succeeded")
	}
	if in.remakeVAO {
		t.Fatal("vertex array stale right after Prepare")
	}

	in.RemoveAttribute("velocity")
	in.RemoveUniform("offset")
	if got := len(in.Attributes()) + len(in.Uniforms()); got != 2 {
		t.Errorf("bindings = %d, want 2", got)
	}
	if in.remakeVAO {
		t.Error("removing an unknown attribute marked the vertex array stale")
	}

	in.RemoveAttribute("position")
	if in.Attribute("position") != nil || !in.remakeVAO {
		t.Error("RemoveAttribute() of a bound name did not take effect")
	}
}

func TestAttributeBindErrors(t *testing.T) {
	tests := []struct {
		name    string
		attr    string
		mode    ReadMode
		connect bool
		wantErr error
	}{
		{"float read into int input", "id", ReadFloat32, true, ErrIncompatibleReadMode},
		{"float read into double input", "weight", ReadFloat32, true, ErrIncompatibleReadMode},
		{"int read into double input", "weight", ReadInt32, true, ErrIncompatibleReadMode},
		{"no read mode", "position", ReadNone, true, ErrInvalidReadMode},
		{"unknown input", "velocity", ReadFloat32, true, ErrAttributeNotFound},
		{"no buffer", "position", ReadFloat32, false, ErrNoBuffer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dev := newTestContext(t)
			p := newLinkedProgram(t, ctx)
			buf := vertexBuffer(t, ctx, 1, 2, 3, 4)
			a := p.Input().AddAttribute(tt.attr)
			if tt.connect {
				a.ConnectBuffer(buf, 0, 0)
			}
			a.SetReadMode(tt.mode)

			err := p.Input().Prepare()
			runtime.KeepAlive(buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Prepare() error = %v, want %v", err, tt.wantErr)
			}
			if got := dev.Count("VertexAttribPointer") + dev.Count("EnableVertexAttrib"); got != 0 {
				t.Errorf("attribute device calls = %d, want 0", got)
			}
		})
	}
}

func TestAttributeLayout(t *testing.T) {
	tests := []struct {
		name      string
		attr      string
		mode      ReadMode
		normalize bool
		offset    int
		stride    int
		want      []device.VertexPointer
	}{
		{
			name: "interleaved vec2", attr: "position", mode: ReadFloat32, offset: 1, stride: 2,
			want: []device.VertexPointer{
				{Location: 0, Size: 2, Type: device.ComponentFloat32, Stride: 16, Offset: 4, Kind: device.PointerFloat},
			},
		},
		{
			name: "normalized bytes", attr: "position", mode: ReadUint8, normalize: true,
			want: []device.VertexPointer{
				{Location: 0, Size: 2, Type: device.ComponentUint8, Normalized: true, Stride: 2, Kind: device.PointerFloat},
			},
		},
		{
			name: "integer input ignores normalize", attr: "id", mode: ReadInt16, normalize: true,
			want: []device.VertexPointer{
				{Location: 1, Size: 1, Type: device.ComponentInt16, Stride: 2, Kind: device.PointerInteger},
			},
		},
		{
			name: "double input", attr: "weight", mode: ReadFloat64,
			want: []device.VertexPointer{
				{Location: 6, Size: 1, Type: device.ComponentFloat64, Stride: 8, Kind: device.PointerDouble},
			},
		},
		{
			name: "matrix takes a location per column", attr: "transform", mode: ReadFloat32,
			want: []device.VertexPointer{
				{Location: 2, Size: 4, Type: device.ComponentFloat32, Stride: 64, Offset: 0, Kind: device.PointerFloat},
				{Location: 3, Size: 4, Type: device.ComponentFloat32, Stride: 64, Offset: 16, Kind: device.PointerFloat},
				{Location: 4, Size: 4, Type: device.ComponentFloat32, Stride: 64, Offset: 32, Kind: device.PointerFloat},
				{Location: 5, Size: 4, Type: device.ComponentFloat32, Stride: 64, Offset: 48, Kind: device.PointerFloat},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, dev := newTestContext(t)
			p := newLinkedProgram(t, ctx)
			buf := vertexBuffer(t, ctx, make([]float32, 64)...)
			a := p.Input().AddAttribute(tt.attr)
			a.ConnectBuffer(buf, tt.offset, tt.stride)
			a.SetReadMode(tt.mode)
			a.SetNormalize(tt.normalize)

			if err := p.Input().Prepare(); err != nil {
				t.Fatalf("Prepare() error: %v", err)
			}
			got := pointers(dev)
			if len(got) != len(tt.want) {
				t.Fatalf("VertexAttribPointer calls = %d, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				w.Buffer = buf.ID()
				if got[i] != w {
					t.Errorf("pointer %d = %+v, want %+v", i, got[i], w)
				}
			}
			if a.Location() != tt.want[0].Location {
				t.Errorf("Location() = %d, want %d", a.Location(), tt.want[0].Location)
			}
		})
	}
}

func TestInputVertexArrayRebuild(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newLinkedProgram(t, ctx)
	buf := vertexBuffer(t, ctx, 1, 2)
	a := p.Input().AddAttribute("position")
	a.ConnectBuffer(buf, 0, 0)

	steps := []struct {
		name       string
		change     func()
		wantArrays int
	}{
		{"first prepare", func() {}, 1},
		{"unchanged", func() {}, 1},
		{"offset changed", func() { a.SetOffset(0) }, 2},
		{"uniform added", func() { p.Input().AddUniform("scale") }, 2},
		{"relinked", func() {
			p.Output().AddVarying("result")
			if err := p.EnsureLink(); err != nil {
				t.Fatal(err)
			}
		}, 3},
	}
	for _, step := range steps {
		step.change()
		if err := p.Input().Prepare(); err != nil {
			t.Fatalf("%s: Prepare() error: %v", step.name, err)
		}
		if got := dev.Count("CreateVertexArray"); got != step.wantArrays {
			t.Fatalf("%s: CreateVertexArray calls = %d, want %d", step.name, got, step.wantArrays)
		}
	}
	if _, _, _, _, arrays := dev.Live(); arrays != 1 {
		t.Errorf("live vertex arrays = %d, want 1", arrays)
	}
	runtime.KeepAlive(buf)
}

func TestInputPrepareBeforeLink(t *testing.T) {
	ctx, _ := newTestContext(t)
	p, _, _ := newProgram(t, ctx)
	if err := p.Input().Prepare(); !errors.Is(err, ErrNotLinked) {
		t.Errorf("Prepare() error = %v, want ErrNotLinked", err)
	}
}

func TestAttributeExpiredBuffer(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := newLinkedProgram(t, ctx)
	buf := vertexBuffer(t, ctx, 1, 2)
	a := p.Input().AddAttribute("position")
	a.ConnectBuffer(buf, 0, 0)

	if got, err := a.Buffer(); err != nil || got != buf {
		t.Fatalf("Buffer() = %v, %v, want the connected buffer", got, err)
	}
	buf.Destroy()
	if _, err := a.Buffer(); !errors.Is(err, ErrExpiredReference) {
		t.Errorf("Buffer() error = %v, want ErrExpiredReference", err)
	}
	if err := p.Input().Prepare(); !errors.Is(err, ErrExpiredReference) {
		t.Errorf("Prepare() error = %v, want ErrExpiredReference", err)
	}

	a.DisconnectBuffer()
	if got, err := a.Buffer(); got != nil || err != nil {
		t.Errorf("Buffer() after disconnect = %v, %v, want nil, nil", got, err)
	}
}

func TestActivateSkipsBrokenAttribute(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newLinkedProgram(t, ctx)
	positions := vertexBuffer(t, ctx, 1, 2)
	ids := vertexBuffer(t, ctx, 1)
	p.Input().AddAttribute("position").ConnectBuffer(positions, 0, 0)
	p.Input().AddAttribute("id").ConnectBuffer(ids, 0, 0)

	if err := p.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer p.Deactivate()
	runtime.KeepAlive(positions)
	runtime.KeepAlive(ids)
	if got := len(pointers(dev)); got != 1 {
		t.Errorf("VertexAttribPointer calls = %d, want 1 for the valid attribute", got)
	}
}

func TestReadModeString(t *testing.T) {
	tests := []struct {
		mode ReadMode
		want string
	}{
		{ReadFloat32, device.ComponentFloat32.String()},
		{ReadUint8, device.ComponentUint8.String()},
		{ReadNone, "ReadMode(0)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestDestroyedBufferRebuildsVertexArray(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newLinkedProgram(t, ctx)
	buf := vertexBuffer(t, ctx, 1, 2, 3, 4)
	p.Input().AddAttribute("position").ConnectBuffer(buf, 0, 0)

	if err := p.Activate(); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	p.Deactivate()
	if got := len(pointers(dev)); got != 1 {
		t.Fatalf("VertexAttribPointer calls = %d, want 1", got)
	}

	// New contents under the same handle keep the recorded vertex array.
	if err := WriteBuffer(buf, []float32{5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := p.Input().Prepare(); err != nil {
		t.Fatalf("Prepare() after upload error: %v", err)
	}
	if got := dev.Count("CreateVertexArray"); got != 1 {
		t.Errorf("CreateVertexArray calls after upload = %d, want 1", got)
	}

	buf.Destroy()
	dev.Reset()
	if err := p.Input().Prepare(); !errors.Is(err, ErrExpiredReference) {
		t.Errorf("Prepare() after Destroy error = %v, want ErrExpiredReference", err)
	}
	if got := dev.Count("CreateVertexArray"); got != 1 {
		t.Errorf("CreateVertexArray calls after Destroy = %d, want 1", got)
	}
	if got := len(pointers(dev)); got != 0 {
		t.Errorf("VertexAttribPointer calls after Destroy = %d, want 0", got)
	}
	if err := p.Input().Prepare(); err != nil {
		t.Errorf("second Prepare() error = %v, want nil", err)
	}
}

func TestReconnectStopsWatchingOldBuffer(t *testing.T) {
	ctx, dev := newTestContext(t)
	p := newLinkedProgram(t, ctx)
	first := vertexBuffer(t, ctx, 1, 2)
	second := vertexBuffer(t, ctx, 3, 4)
	a := p.Input().AddAttribute("position")
	a.ConnectBuffer(first, 0, 0)
	a.ConnectBuffer(second, 0, 0)

	if err := p.Input().Prepare(); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	first.Destroy()
	dev.Reset()
	if err := p.Input().Prepare(); err != nil {
		t.Errorf("Prepare() after destroying the old buffer = %v", err)
	}
	if got := dev.Count("CreateVertexArray"); got != 0 {
		t.Errorf("CreateVertexArray calls = %d, want 0", got)
	}
	runtime.KeepAlive(second)
}
