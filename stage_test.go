package glpipe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
)

func TestStageLoadResetsToPending(t *testing.T) {
	ctx, dev := newTestContext(t)
	s := newStage(t, ctx, passVert, device.StageVertex)
	if err := s.EnsureCompilation(); err != nil {
		t.Fatalf("EnsureCompilation() error: %v", err)
	}
	if s.ID() == device.InvalidID {
		t.Fatal("compiled stage has no handle")
	}

	pr := newWatcher(&s.sig)
	if err := s.LoadSource(passVert, device.StageVertex); err != nil {
		t.Fatalf("LoadSource() error: %v", err)
	}
	if s.Status() != CompilePending {
		t.Errorf("Status() = %v, want pending", s.Status())
	}
	if s.ID() != device.InvalidID {
		t.Errorf("ID() = %d after reload, want InvalidID", s.ID())
	}
	if got := dev.Count("DeleteStage"); got != 1 {
		t.Errorf("DeleteStage calls = %d, want 1", got)
	}
	if got := pr.count(signal.Changed); got != 1 {
		t.Errorf("Changed notifications = %d, want 1", got)
	}
}

func TestStageEnsureCompilationOnce(t *testing.T) {
	ctx, dev := newTestContext(t)
	s := newStage(t, ctx, passFrag, device.StageFragment)
	pr := newWatcher(&s.sig)

	for range 3 {
		if err := s.EnsureCompilation(); err != nil {
			t.Fatalf("EnsureCompilation() error: %v", err)
		}
	}
	if got := dev.Count("CompileStage"); got != 1 {
		t.Errorf("CompileStage calls = %d, want 1", got)
	}
	if got := pr.count(signal.Recompiled); got != 1 {
		t.Errorf("Recompiled notifications = %d, want 1", got)
	}
	if s.Status() != CompileSucceeded {
		t.Errorf("Status() = %v, want succeeded", s.Status())
	}
}

func TestStageCompileFailure(t *testing.T) {
	ctx, dev := newTestContext(t)
	s := newStage(t, ctx, badVert, device.StageVertex)
	pr := newWatcher(&s.sig)

	err := s.EnsureCompilation()
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("EnsureCompilation() error = %v, want ErrCompileFailed", err)
	}
	if s.Status() != CompileFailed {
		t.Errorf("Status() = %v, want failed", s.Status())
	}
	if !strings.Contains(s.InfoLog(), "#error") {
		t.Errorf("InfoLog() = %q, want the compiler message", s.InfoLog())
	}
	if got := pr.count(signal.Recompiled); got != 1 {
		t.Errorf("Recompiled notifications = %d, want 1", got)
	}

	// A failed stage is compiled again on the next request.
	_ = s.EnsureCompilation()
	if got := dev.Count("CompileStage"); got != 2 {
		t.Errorf("CompileStage calls = %d, want 2", got)
	}
	if got := dev.Count("CreateStage"); got != 1 {
		t.Errorf("CreateStage calls = %d, want 1", got)
	}
}

func TestStageNotLoaded(t *testing.T) {
	ctx, _ := newTestContext(t)
	s := ctx.NewStage()
	if err := s.EnsureCompilation(); !errors.Is(err, ErrStageNotLoaded) {
		t.Errorf("EnsureCompilation() error = %v, want ErrStageNotLoaded", err)
	}
	if err := s.Reload(); !errors.Is(err, ErrStageNotLoaded) {
		t.Errorf("Reload() error = %v, want ErrStageNotLoaded", err)
	}
}

func TestStageUnrecognizedKind(t *testing.T) {
	ctx, dev := newTestContext(t)
	s := ctx.NewStage()
	pr := newWatcher(&s.sig)

	err := s.LoadSource(passVert, device.StageUnrecognized)
	if !errors.Is(err, ErrUnrecognizedStage) {
		t.Fatalf("LoadSource() error = %v, want ErrUnrecognizedStage", err)
	}
	if s.Kind() != device.StageUnrecognized || s.Status() != CompilePending {
		t.Errorf("stage = %v/%v, want unrecognized/pending", s.Kind(), s.Status())
	}
	if got := pr.count(signal.Changed); got != 1 {
		t.Errorf("Changed notifications = %d, want 1", got)
	}

	if err := s.EnsureCompilation(); !errors.Is(err, ErrUnrecognizedStage) {
		t.Errorf("EnsureCompilation() error = %v, want ErrUnrecognizedStage", err)
	}
	if got := dev.Count("CreateStage"); got != 0 {
		t.Errorf("CreateStage calls = %d, want 0", got)
	}
	if s.Status() != CompileFailed {
		t.Errorf("Status() = %v, want failed", s.Status())
	}
}

func TestStageUnsupportedGeometry(t *testing.T) {
	dev := newTestDevice()
	dev.NoGeometry = true
	ctx := NewContext(dev)
	s := newStage(t, ctx, passGeom, device.StageGeometry)

	if err := s.EnsureCompilation(); !errors.Is(err, ErrStageUnsupported) {
		t.Fatalf("EnsureCompilation() error = %v, want ErrStageUnsupported", err)
	}
	if got := dev.Count("CreateStage") + dev.Count("CompileStage"); got != 0 {
		t.Errorf("device stage calls = %d, want 0", got)
	}
}

func TestStageLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}
	vert := write("shader.vert", passVert)
	text := write("shader.txt", passVert)

	tests := []struct {
		name     string
		path     string
		wantKind device.StageKind
		wantErr  error
	}{
		{"vertex suffix", vert, device.StageVertex, nil},
		{"unknown suffix", text, device.StageUnrecognized, ErrUnrecognizedStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t)
			s := ctx.NewStage()
			err := s.LoadFile(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadFile() error = %v, want %v", err, tt.wantErr)
			}
			if s.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), tt.wantKind)
			}
			if s.Path() != tt.path {
				t.Errorf("Path() = %q, want %q", s.Path(), tt.path)
			}
			if s.Status() != CompilePending {
				t.Errorf("Status() = %v, want pending", s.Status())
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		ctx, _ := newTestContext(t)
		s := ctx.NewStage()
		if err := s.LoadFile(filepath.Join(dir, "missing.frag")); err == nil {
			t.Fatal("LoadFile() of a missing file succeeded")
		}
		if s.Status() != CompileNone || s.Kind() != device.StageNone {
			t.Errorf("stage = %v/%v, want untouched", s.Kind(), s.Status())
		}
	})

	t.Run("reload", func(t *testing.T) {
		ctx, _ := newTestContext(t)
		s := ctx.NewStage()
		if err := s.LoadFile(vert); err != nil {
			t.Fatal(err)
		}
		const updated = "#version 410 core\nvoid main() {}\n"
		write("shader.vert", updated)
		if err := s.Reload(); err != nil {
			t.Fatalf("Reload() error: %v", err)
		}
		if s.Source() != updated {
			t.Errorf("Source() = %q, want the new file contents", s.Source())
		}
	})
}

func TestStageDestroy(t *testing.T) {
	ctx, dev := newTestContext(t)
	s := newStage(t, ctx, passVert, device.StageVertex)
	if err := s.EnsureCompilation(); err != nil {
		t.Fatal(err)
	}
	pr := newWatcher(&s.sig)

	s.Destroy()
	if s.Status() != CompileNone || s.Source() != "" {
		t.Errorf("stage after Destroy = %v %q, want empty", s.Status(), s.Source())
	}
	if stages, _, _, _, _ := dev.Live(); stages != 0 {
		t.Errorf("live stages = %d, want 0", stages)
	}
	if got := pr.count(signal.Changed); got != 1 {
		t.Errorf("Changed notifications = %d, want 1", got)
	}

	s.Destroy()
	if got := pr.count(signal.Changed); got != 1 {
		t.Errorf("second Destroy notified again")
	}
}
