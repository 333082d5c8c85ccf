package glpipe

import (
	"errors"
	"fmt"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
	"github.com/gogpu/glpipe/shadersrc"
)

// CompileStatus is the compilation state of a Stage.
type CompileStatus int

const (
	// CompileNone means no source is loaded.
	CompileNone CompileStatus = iota
	CompilePending
	CompileSucceeded
	CompileFailed
)

// String returns the status name.
func (s CompileStatus) String() string {
	switch s {
	case CompileNone:
		return "none"
	case CompilePending:
		return "pending"
	case CompileSucceeded:
		return "succeeded"
	case CompileFailed:
		return "failed"
	default:
		return fmt.Sprintf("CompileStatus(%d)", int(s))
	}
}

// Stage is one pipeline stage of a program.
//
// Loading a source always resets the stage to pending and notifies the
// programs using it. The device handle is created and compiled lazily by
// EnsureCompilation.
type Stage struct {
	ctx     *Context
	kind    device.StageKind
	status  CompileStatus
	source  string
	path    string
	id      device.StageID
	infoLog string
	sig     signal.Sender
}

// Kind returns the stage kind.
func (s *Stage) Kind() device.StageKind { return s.kind }

// Status returns the compilation state.
func (s *Stage) Status() CompileStatus { return s.status }

// InfoLog returns the driver log of the last compilation.
func (s *Stage) InfoLog() string { return s.infoLog }

// ID returns the device handle, InvalidID until compiled.
func (s *Stage) ID() device.StageID { return s.id }

// Source returns the loaded source text.
func (s *Stage) Source() string { return s.source }

// Path returns the file the source was loaded from, if any.
func (s *Stage) Path() string { return s.path }

func validStage(kind device.StageKind) bool {
	switch kind {
	case device.StageVertex, device.StageGeometry, device.StageFragment:
		return true
	}
	return false
}

// LoadSource loads text as a stage of the given kind.
func (s *Stage) LoadSource(text string, kind device.StageKind) error {
	if !validStage(kind) {
		s.load(text, "", device.StageUnrecognized)
		return fmt.Errorf("%w: %v", ErrUnrecognizedStage, kind)
	}
	s.load(text, "", kind)
	return nil
}

// LoadFile loads a stage source file, detecting the kind from its
// suffix. A read failure leaves the stage unchanged.
func (s *Stage) LoadFile(path string) error {
	return s.LoadFileAs(path, device.StageNone)
}

// LoadFileAs loads a stage source file as the given kind. StageNone
// detects the kind from the suffix.
func (s *Stage) LoadFileAs(path string, kind device.StageKind) error {
	if kind != device.StageNone && !validStage(kind) {
		return fmt.Errorf("%w: %v", ErrUnrecognizedStage, kind)
	}
	src, err := shadersrc.LoadFile(path, kind)
	if errors.Is(err, shadersrc.ErrUnrecognizedStage) {
		s.load(src.Text, path, device.StageUnrecognized)
		return fmt.Errorf("%w: %s", ErrUnrecognizedStage, path)
	}
	if err != nil {
		return err
	}
	s.load(src.Text, path, src.Kind)
	return nil
}

// LoadWGSL translates a WGSL source to GLSL and loads it. entryPoint
// selects the function to translate; empty picks the first.
func (s *Stage) LoadWGSL(text string, kind device.StageKind, entryPoint string) error {
	if !validStage(kind) {
		return fmt.Errorf("%w: %v", ErrUnrecognizedStage, kind)
	}
	out, err := shadersrc.FromWGSL(text, kind, shadersrc.WGSLOptions{
		Version:    s.ctx.opts.glslVersion,
		EntryPoint: entryPoint,
	})
	if err != nil {
		return err
	}
	s.load(out, "", kind)
	return nil
}

// Reload reads the source file again.
func (s *Stage) Reload() error {
	if s.path == "" {
		return ErrStageNotLoaded
	}
	kind := s.kind
	if !validStage(kind) {
		kind = device.StageNone
	}
	return s.LoadFileAs(s.path, kind)
}

func (s *Stage) load(text, path string, kind device.StageKind) {
	s.release()
	s.source = text
	s.path = path
	s.kind = kind
	s.status = CompilePending
	s.infoLog = ""
	s.sig.Notify(signal.Changed, s)
}

func (s *Stage) release() {
	if s.id != device.InvalidID {
		s.ctx.dev.DeleteStage(s.id)
		s.id = device.InvalidID
	}
}

// EnsureCompilation compiles the stage unless it already compiled
// successfully. Every attempt notifies Recompiled, whatever its outcome.
func (s *Stage) EnsureCompilation() error {
	switch s.status {
	case CompileSucceeded:
		return nil
	case CompileNone:
		return ErrStageNotLoaded
	}
	err := s.compile()
	s.sig.Notify(signal.Recompiled, s)
	return err
}

func (s *Stage) compile() error {
	dev := s.ctx.dev
	if !validStage(s.kind) {
		s.status = CompileFailed
		return fmt.Errorf("%w: %v", ErrUnrecognizedStage, s.kind)
	}
	if !dev.SupportsStage(s.kind) {
		s.status = CompileFailed
		return fmt.Errorf("%w: %v", ErrStageUnsupported, s.kind)
	}
	if s.id == device.InvalidID {
		id, err := dev.CreateStage(s.kind)
		if err != nil {
			s.status = CompileFailed
			return fmt.Errorf("glpipe: create %v stage: %w", s.kind, err)
		}
		s.id = id
	}

	ok, log := dev.CompileStage(s.id, s.source)
	s.infoLog = log
	if !ok {
		s.status = CompileFailed
		slogger().Warn("glpipe: stage compilation failed", "kind", s.kind, "path", s.path, "log", log)
		return fmt.Errorf("%w: %s", ErrCompileFailed, log)
	}
	if log != "" {
		slogger().Debug("glpipe: stage compiled", "kind", s.kind, "log", log)
	}
	s.status = CompileSucceeded
	return nil
}

// Destroy releases the device handle and unloads the source.
func (s *Stage) Destroy() {
	s.release()
	if s.status == CompileNone {
		return
	}
	s.source = ""
	s.status = CompileNone
	s.infoLog = ""
	s.sig.Notify(signal.Changed, s)
}
