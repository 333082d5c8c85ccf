package glpipe

import (
	"testing"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/devicetest"
	"github.com/gogpu/glpipe/internal/signal"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const (
	passVert = "#version 410 core\nin vec2 position;\nvoid main() { gl_Position = vec4(position, 0, 1); }\n"
	passFrag = "#version 410 core\nout vec4 color;\nvoid main() { color = vec4(1); }\n"
	passGeom = "#version 410 core\nlayout(points) in;\nlayout(points, max_vertices = 1) out;\nvoid main() {}\n"
	badVert  = "#version 410 core\n#error broken\n"
)

// newTestDevice returns a fake device whose programs all report the
// same introspection tables.
func newTestDevice() *devicetest.Device {
	dev := devicetest.New()
	dev.Attributes = []device.ActiveVariable{
		{Name: "position", Size: 1, Type: gltype.FloatVec2},
		{Name: "id", Size: 1, Type: gltype.Int},
		{Name: "transform", Size: 1, Type: gltype.FloatMat4},
		{Name: "weight", Size: 1, Type: gltype.Double},
	}
	dev.Uniforms = []device.ActiveVariable{
		{Name: "scale", Size: 1, Type: gltype.Float},
		{Name: "color", Size: 1, Type: gltype.FloatVec4},
		{Name: "model", Size: 1, Type: gltype.FloatMat3x2},
		{Name: "flags", Size: 1, Type: gltype.IntVec2},
		{Name: "lights[0]", Size: 4, Type: gltype.Float},
		{Name: "tex", Size: 1, Type: gltype.Sampler2D},
		{Name: "data", Size: 1, Type: gltype.UintSamplerBuffer},
		{Name: "enabled", Size: 1, Type: gltype.Bool},
		{Name: "precise", Size: 1, Type: gltype.DoubleMat2},
	}
	dev.Outputs = []device.ActiveVariable{
		{Name: "result", Size: 1, Type: gltype.Float},
		{Name: "pos", Size: 1, Type: gltype.FloatVec4},
		{Name: "basis", Size: 1, Type: gltype.FloatMat2},
		{Name: "exact", Size: 1, Type: gltype.Double},
	}
	return dev
}

func newTestContext(t *testing.T, opts ...ContextOption) (*Context, *devicetest.Device) {
	t.Helper()
	dev := newTestDevice()
	return NewContext(dev, opts...), dev
}

func newStage(t *testing.T, ctx *Context, src string, kind device.StageKind) *Stage {
	t.Helper()
	s := ctx.NewStage()
	if err := s.LoadSource(src, kind); err != nil {
		t.Fatalf("LoadSource(%v) error: %v", kind, err)
	}
	return s
}

// newProgram returns an unlinked program with a vertex and a fragment stage.
func newProgram(t *testing.T, ctx *Context) (*Program, *Stage, *Stage) {
	t.Helper()
	vs := newStage(t, ctx, passVert, device.StageVertex)
	fs := newStage(t, ctx, passFrag, device.StageFragment)
	p := ctx.NewProgram()
	p.AddStage(vs)
	p.AddStage(fs)
	return p, vs, fs
}

// newLinkedProgram returns a successfully linked vertex and fragment program.
func newLinkedProgram(t *testing.T, ctx *Context) *Program {
	t.Helper()
	p, _, _ := newProgram(t, ctx)
	if err := p.EnsureLink(); err != nil {
		t.Fatalf("EnsureLink() error: %v", err)
	}
	return p
}

// watcher records the notifications of one sender.
type watcher struct {
	kinds []signal.Kind
	recv  *signal.Receiver
}

func newWatcher(s *signal.Sender) *watcher {
	p := &watcher{}
	p.recv = signal.NewReceiver(p)
	s.Subscribe(p.recv)
	return p
}

func (p *watcher) HandleSignal(kind signal.Kind, _ any) bool {
	p.kinds = append(p.kinds, kind)
	return true
}

func (p *watcher) count(kind signal.Kind) int {
	n := 0
	for _, k := range p.kinds {
		if k == kind {
			n++
		}
	}
	return n
}
