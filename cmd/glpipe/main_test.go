package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
	"github.com/gogpu/glpipe/internal/devicetest"
	"github.com/gogpu/glpipe/internal/manifest"
)

const (
	testVert = "#version 410 core\nin vec2 position;\nout float result;\nout vec4 pos;\nvoid main() {}\n"
	testFrag = "#version 410 core\nvoid main() {}\n"
)

func writeJob(t *testing.T, vert, toml string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pass.vert": vert,
		"pass.frag": testFrag,
		"job.toml":  toml,
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "job.toml")
}

const testManifest = `
primitive = "point-list"
count = 2
interleave = true
varyings = ["result", "pos"]

[[stage]]
path = "pass.vert"

[[stage]]
path = "pass.frag"

[[attribute]]
name = "position"
data = [0, 0, 1, 1]

[[uniform]]
name = "scale"
type = "float"
values = [2]
`

func newTestJob(t *testing.T, vert string) (*job, *devicetest.Device) {
	t.Helper()
	m, err := manifest.Load(writeJob(t, vert, testManifest))
	if err != nil {
		t.Fatalf("manifest.Load() error: %v", err)
	}
	dev := devicetest.New()
	dev.Attributes = []device.ActiveVariable{{Name: "position", Size: 1, Type: gltype.FloatVec2}}
	dev.Uniforms = []device.ActiveVariable{{Name: "scale", Size: 1, Type: gltype.Float}}
	dev.Outputs = []device.ActiveVariable{
		{Name: "result", Size: 1, Type: gltype.Float},
		{Name: "pos", Size: 1, Type: gltype.FloatVec4},
	}
	dev.Primitives = 2
	j, err := newJob(glpipe.NewContext(dev), m)
	if err != nil {
		t.Fatalf("newJob() error: %v", err)
	}
	t.Cleanup(j.close)
	return j, dev
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJobRunAndPrint(t *testing.T) {
	j, dev := newTestJob(t, testVert)
	if err := j.run(); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if got := dev.Count("BeginCapture"); got != 1 {
		t.Errorf("BeginCapture calls = %d, want 1", got)
	}

	out := j.prog.Output()
	if out.Stride() != 20 {
		t.Fatalf("Stride() = %d, want 20", out.Stride())
	}
	values := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if err := glpipe.WriteBuffer(out.Buffer(), values); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printCapture(&buf, out); err != nil {
		t.Fatalf("printCapture() error: %v", err)
	}
	want := "primitives written: 2\n" +
		"result (float x1):\n" +
		"     0: 1\n" +
		"     1: 6\n" +
		"pos (float x4):\n" +
		"     0: 2 3 4 5\n" +
		"     1: 7 8 9 10\n"
	if buf.String() != want {
		t.Errorf("printCapture() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPassPrintsCompileLog(t *testing.T) {
	j, _ := newTestJob(t, "#version 410 core\n#error broken\n")
	var buf bytes.Buffer
	if err := pass(j, &buf); err == nil {
		t.Fatal("pass() should fail")
	}
	if !strings.Contains(buf.String(), "stage pass.vert:") {
		t.Errorf("pass() output = %q, want the stage log", buf.String())
	}
}

func TestJobReload(t *testing.T) {
	j, _ := newTestJob(t, testVert)
	paths := j.paths()
	if len(paths) != 2 {
		t.Fatalf("paths() = %v", paths)
	}

	mine, err := j.reload(filepath.Join(filepath.Dir(paths[0]), "other.vert"))
	if mine || err != nil {
		t.Errorf("reload(other) = %v, %v", mine, err)
	}
	mine, err = j.reload(paths[0])
	if !mine || err != nil {
		t.Errorf("reload(stage) = %v, %v", mine, err)
	}
	if j.stages[0].Status() != glpipe.CompilePending {
		t.Errorf("Status() = %v, want pending", j.stages[0].Status())
	}
}

func TestWatchLoop(t *testing.T) {
	j, dev := newTestJob(t, testVert)
	paths := j.paths()

	changed := make(chan string, 2)
	changed <- filepath.Join(filepath.Dir(paths[0]), "notes.txt")
	changed <- paths[0]

	var buf bytes.Buffer
	if err := watchLoop(context.Background(), j, changed, 2, &buf, discardLogger()); err != nil {
		t.Fatalf("watchLoop() error: %v", err)
	}
	if got := strings.Count(buf.String(), "primitives written"); got != 2 {
		t.Errorf("passes = %d, want 2", got)
	}
	if got := dev.Count("LinkProgram"); got != 2 {
		t.Errorf("LinkProgram calls = %d, want 2", got)
	}
}

func TestWatchLoopStopsOnClose(t *testing.T) {
	j, _ := newTestJob(t, testVert)
	changed := make(chan string)
	close(changed)

	var buf bytes.Buffer
	if err := watchLoop(context.Background(), j, changed, 0, &buf, discardLogger()); err != nil {
		t.Fatalf("watchLoop() error: %v", err)
	}
	if got := strings.Count(buf.String(), "primitives written"); got != 1 {
		t.Errorf("passes = %d, want 1", got)
	}
}

func TestRecords(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tests := []struct {
		name                 string
		stride, offset, size int
		want                 [][]byte
	}{
		{"packed", 2, 0, 2, [][]byte{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {8, 9}}},
		{"interleaved", 5, 3, 2, [][]byte{{3, 4}, {8, 9}}},
		{"partial tail", 4, 0, 4, [][]byte{{0, 1, 2, 3}, {4, 5, 6, 7}}},
		{"zero stride", 0, 0, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := records(data, tt.stride, tt.offset, tt.size)
			if !slices.EqualFunc(got, tt.want, bytes.Equal) {
				t.Errorf("records() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatValues(t *testing.T) {
	ints := binary.NativeEndian.AppendUint32(nil, 0xFFFFFFFF)
	ints = binary.NativeEndian.AppendUint32(ints, 7)
	tests := []struct {
		el   gltype.ElementKind
		want string
	}{
		{gltype.ElementInt, "-1 7"},
		{gltype.ElementUint, "4294967295 7"},
	}
	for _, tt := range tests {
		if got := formatValues(ints, tt.el); got != tt.want {
			t.Errorf("formatValues(%v) = %q, want %q", tt.el, got, tt.want)
		}
	}
}
