package glpipe

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/internal/signal"
)

// Input holds the attributes and uniforms of a program and caches the
// vertex array built from the attributes.
type Input struct {
	prog       *Program
	attributes []*Attribute
	uniforms   []*Uniform
	vao        device.VertexArrayID
	remakeVAO  bool
	active     bool
	recv       *signal.Receiver
}

func newInput(p *Program) *Input {
	in := &Input{prog: p, remakeVAO: true}
	in.recv = signal.NewReceiver(in)
	p.sig.Subscribe(in.recv)
	return in
}

// AddAttribute adds an attribute bound to the vertex input name. It
// returns nil if the name is already bound.
func (in *Input) AddAttribute(name string) *Attribute {
	if in.Attribute(name) != nil {
		return nil
	}
	a := newAttribute(in, name)
	a.sig.Subscribe(in.recv)
	in.attributes = append(in.attributes, a)
	in.remakeVAO = true
	return a
}

// Attribute returns the attribute bound to name, or nil.
func (in *Input) Attribute(name string) *Attribute {
	for _, a := range in.attributes {
		if a.name == name {
			return a
		}
	}
	return nil
}

// Attributes returns the attributes in insertion order.
func (in *Input) Attributes() []*Attribute {
	return slices.Clone(in.attributes)
}

// RemoveAttribute removes the attribute bound to name. Removing an
// unknown name has no effect.
func (in *Input) RemoveAttribute(name string) {
	i := slices.IndexFunc(in.attributes, func(a *Attribute) bool { return a.name == name })
	if i < 0 {
		return
	}
	a := in.attributes[i]
	a.sig.Unsubscribe(in.recv)
	a.close()
	in.attributes = slices.Delete(in.attributes, i, i+1)
	in.remakeVAO = true
}

// AddUniform adds a uniform bound to name. It returns nil if the name is
// already bound.
func (in *Input) AddUniform(name string) *Uniform {
	if in.Uniform(name) != nil {
		return nil
	}
	u := newUniform(in, name)
	in.uniforms = append(in.uniforms, u)
	return u
}

// Uniform returns the uniform bound to name, or nil.
func (in *Input) Uniform(name string) *Uniform {
	for _, u := range in.uniforms {
		if u.name == name {
			return u
		}
	}
	return nil
}

// Uniforms returns the uniforms in insertion order.
func (in *Input) Uniforms() []*Uniform {
	return slices.Clone(in.uniforms)
}

// RemoveUniform removes the uniform bound to name. Removing an unknown
// name has no effect.
func (in *Input) RemoveUniform(name string) {
	i := slices.IndexFunc(in.uniforms, func(u *Uniform) bool { return u.name == name })
	if i < 0 {
		return
	}
	in.uniforms[i].close()
	in.uniforms = slices.Delete(in.uniforms, i, i+1)
}

// HandleSignal marks the vertex array stale when an attribute changes or
// the program relinks.
func (in *Input) HandleSignal(kind signal.Kind, sender any) bool {
	switch sender.(type) {
	case *Attribute:
		if kind == signal.Changed {
			in.remakeVAO = true
			return true
		}
	case *Program:
		if kind == signal.Relinked {
			in.remakeVAO = true
			return true
		}
	}
	return false
}

// Prepare rebuilds the vertex array if it is stale. Attributes that fail
// to bind are left out and their errors are joined in the result; the
// array is still rebuilt with the others.
func (in *Input) Prepare() error {
	if !in.prog.linked() {
		slogger().Warn("glpipe: input prepared before link")
		return ErrNotLinked
	}
	if !in.remakeVAO && !slices.ContainsFunc(in.attributes, (*Attribute).stale) {
		return nil
	}

	dev := in.prog.ctx.dev
	if in.vao != device.InvalidID {
		dev.DeleteVertexArray(in.vao)
		in.vao = device.InvalidID
	}
	vao, err := dev.CreateVertexArray()
	if err != nil {
		return fmt.Errorf("glpipe: create vertex array: %w", err)
	}
	in.vao = vao

	dev.BindVertexArray(vao)
	var errs []error
	for _, a := range in.attributes {
		if err := a.apply(); err != nil {
			errs = append(errs, fmt.Errorf("attribute %q: %w", a.name, err))
		}
	}
	dev.BindVertexArray(device.InvalidID)
	in.remakeVAO = false
	slogger().Debug("glpipe: vertex array rebuilt", "attributes", len(in.attributes), "errors", len(errs))
	return errors.Join(errs...)
}

// activate uploads every uniform and binds the vertex array.
func (in *Input) activate() {
	if in.active {
		return
	}
	for _, u := range in.uniforms {
		if err := u.apply(); err != nil {
			slogger().Warn("glpipe: uniform skipped", "name", u.name, "err", err)
		}
	}
	in.prog.ctx.dev.BindVertexArray(in.vao)
	in.active = true
}

// deactivate unbinds the vertex array and returns texture units held by
// uniforms.
func (in *Input) deactivate() {
	if !in.active {
		return
	}
	in.prog.ctx.dev.BindVertexArray(device.InvalidID)
	for _, u := range in.uniforms {
		u.release()
	}
	in.active = false
}

func (in *Input) destroy() {
	in.deactivate()
	for _, a := range in.attributes {
		a.close()
	}
	for _, u := range in.uniforms {
		u.close()
	}
	in.attributes = nil
	in.uniforms = nil
	if in.vao != device.InvalidID {
		in.prog.ctx.dev.DeleteVertexArray(in.vao)
		in.vao = device.InvalidID
	}
	in.remakeVAO = true
	in.recv.Close()
}
