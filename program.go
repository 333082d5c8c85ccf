package glpipe

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
)

// LinkStatus is the link state of a Program.
type LinkStatus int

const (
	// LinkNone means the program has never had a stage.
	LinkNone LinkStatus = iota
	LinkPending
	LinkSucceeded
	LinkFailed
)

// String returns the status name.
func (s LinkStatus) String() string {
	switch s {
	case LinkNone:
		return "none"
	case LinkPending:
		return "pending"
	case LinkSucceeded:
		return "succeeded"
	case LinkFailed:
		return "failed"
	default:
		return fmt.Sprintf("LinkStatus(%d)", int(s))
	}
}

// Program is a set of stages linked together with their input and
// output bindings.
//
// The program is the hub of change propagation: stage reloads and
// recompilations and output changes mark it pending, and a successful
// link notifies every binding to resolve itself again.
type Program struct {
	ctx     *Context
	id      device.ProgramID
	stages  []*Stage
	status  LinkStatus
	infoLog string
	active  bool
	input   *Input
	output  *Output
	sig     signal.Sender
	recv    *signal.Receiver
}

// NewProgram returns an empty program with empty input and output.
func (c *Context) NewProgram() *Program {
	p := &Program{ctx: c}
	p.recv = signal.NewReceiver(p)
	p.input = newInput(p)
	p.output = newOutput(p)
	p.output.sig.Subscribe(p.recv)
	return p
}

// Input returns the attribute and uniform bindings.
func (p *Program) Input() *Input { return p.input }

// Output returns the captured varyings.
func (p *Program) Output() *Output { return p.output }

// Status returns the link state.
func (p *Program) Status() LinkStatus { return p.status }

// InfoLog returns the driver log of the last link.
func (p *Program) InfoLog() string { return p.infoLog }

// ID returns the device handle, InvalidID until the first link.
func (p *Program) ID() device.ProgramID { return p.id }

// IsActive reports whether the program is installed on the context.
func (p *Program) IsActive() bool { return p.active }

// Stages returns the member stages in insertion order.
func (p *Program) Stages() []*Stage {
	return slices.Clone(p.stages)
}

// AddStage adds s to the program. Adding a member again has no effect.
func (p *Program) AddStage(s *Stage) {
	if s == nil || slices.Contains(p.stages, s) {
		return
	}
	s.sig.Subscribe(p.recv)
	p.stages = append(p.stages, s)
	p.status = LinkPending
}

// RemoveStage removes s from the program. Removing a non-member has no
// effect.
func (p *Program) RemoveStage(s *Stage) {
	i := slices.Index(p.stages, s)
	if i < 0 {
		return
	}
	s.sig.Unsubscribe(p.recv)
	p.stages = slices.Delete(p.stages, i, i+1)
	p.status = LinkPending
}

// HandleSignal marks the program pending on stage and output changes.
func (p *Program) HandleSignal(kind signal.Kind, sender any) bool {
	switch sender.(type) {
	case *Stage:
		if kind == signal.Changed || kind == signal.Recompiled {
			p.status = LinkPending
			return true
		}
	case *Output:
		if kind == signal.Changed {
			p.status = LinkPending
			return true
		}
	}
	return false
}

// EnsureLink links the program if a stage or the output changed since
// the last link, and returns the outcome of the last link otherwise.
func (p *Program) EnsureLink() error {
	switch p.status {
	case LinkSucceeded:
		return nil
	case LinkFailed:
		return fmt.Errorf("%w: %s", ErrLinkFailed, p.infoLog)
	case LinkNone:
		return ErrNotLinked
	}

	dev := p.ctx.dev
	if p.id != device.InvalidID {
		dev.DeleteProgram(p.id)
		p.id = device.InvalidID
	}
	id, err := dev.CreateProgram()
	if err != nil {
		return fmt.Errorf("glpipe: create program: %w", err)
	}
	p.id = id

	p.output.setUp()

	core := false
	for _, s := range p.stages {
		if err := s.EnsureCompilation(); err != nil {
			slogger().Warn("glpipe: stage skipped at link", "kind", s.Kind(), "err", err)
			continue
		}
		dev.AttachStage(id, s.id)
		if s.kind == device.StageVertex || s.kind == device.StageFragment {
			core = true
		}
	}
	if !core {
		p.status = LinkFailed
		p.infoLog = ErrNoCompiledStage.Error()
		return ErrNoCompiledStage
	}

	ok, log := dev.LinkProgram(id)
	p.infoLog = log
	if !ok {
		p.status = LinkFailed
		slogger().Warn("glpipe: program link failed", "log", log)
		return fmt.Errorf("%w: %s", ErrLinkFailed, log)
	}
	if log != "" {
		slogger().Debug("glpipe: program linked", "log", log)
	}
	p.status = LinkSucceeded
	p.sig.Notify(signal.Relinked, p)
	return nil
}

func (p *Program) linked() bool {
	return p.status == LinkSucceeded
}

// Activate links the program if needed, prepares its input and installs
// it. Activating the active program has no effect; activating while
// another program is active fails with ErrProgramActive.
func (p *Program) Activate() error {
	return p.activate(false, 0, 0)
}

// ActivateRecording is Activate with varying capture enabled. count is
// the number of vertices the capture buffers must hold and prim the
// topology about to be drawn.
func (p *Program) ActivateRecording(prim gputypes.PrimitiveTopology, count int) error {
	return p.activate(true, prim, count)
}

func (p *Program) activate(record bool, prim gputypes.PrimitiveTopology, count int) error {
	if p.active {
		return nil
	}
	if other := p.ctx.active; other != nil && other != p {
		return ErrProgramActive
	}
	if err := p.EnsureLink(); err != nil {
		return err
	}
	if record {
		if _, err := captureBase(prim); err != nil {
			return err
		}
		if err := p.checkDualUse(); err != nil {
			return err
		}
	}

	if err := p.input.Prepare(); err != nil {
		slogger().Warn("glpipe: input bindings skipped", "err", err)
	}
	if record {
		if err := p.output.Prepare(count); err != nil {
			return err
		}
	}

	dev := p.ctx.dev
	dev.UseProgram(p.id)
	if err := p.ctx.checkError("UseProgram"); err != nil {
		dev.UseProgram(device.InvalidID)
		return err
	}
	p.input.activate()
	if record {
		if err := p.output.activate(prim); err != nil {
			p.input.deactivate()
			dev.UseProgram(device.InvalidID)
			return err
		}
	}
	p.active = true
	p.ctx.active = p
	return nil
}

// Deactivate reverses Activate. Deactivating an inactive program has no
// effect.
func (p *Program) Deactivate() {
	if !p.active {
		return
	}
	p.output.deactivate()
	p.input.deactivate()
	p.ctx.dev.UseProgram(device.InvalidID)
	p.active = false
	if p.ctx.active == p {
		p.ctx.active = nil
	}
}

// checkDualUse rejects a capture pass whose target buffer also feeds an
// attribute.
func (p *Program) checkDualUse() error {
	targets := p.output.captureBuffers()
	if len(targets) == 0 {
		return nil
	}
	for _, a := range p.input.attributes {
		b := a.buf.peek()
		if b == nil {
			continue
		}
		if slices.Contains(targets, b) {
			return fmt.Errorf("%w: attribute %q", ErrBufferDualUse, a.name)
		}
	}
	return nil
}

// Destroy deactivates the program and releases its device objects and
// the buffers owned by its output. Stages are not destroyed.
func (p *Program) Destroy() {
	p.Deactivate()
	for _, s := range p.stages {
		s.sig.Unsubscribe(p.recv)
	}
	p.stages = nil
	p.input.destroy()
	p.output.destroy()
	if p.id != device.InvalidID {
		p.ctx.dev.DeleteProgram(p.id)
		p.id = device.InvalidID
	}
	p.recv.Close()
	p.status = LinkNone
}
