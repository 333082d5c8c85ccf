package glpipe

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glpipe/device"
)

// Context owns the shared state of one device context: the texture unit
// pool and the currently active program.
//
// A Context is not safe for concurrent use.
type Context struct {
	dev    device.Device
	opts   contextOptions
	units  *TextureUnitPool
	active *Program
}

// NewContext returns a Context driving dev.
func NewContext(dev device.Device, opts ...ContextOption) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := max(dev.MaxTextureUnits(), 0)
	if o.unitLimit > 0 && o.unitLimit < n {
		n = o.unitLimit
	}
	c := &Context{dev: dev, opts: o}
	c.units = newTextureUnitPool(c, n)
	slogger().Debug("glpipe: context created", "textureUnits", n)
	return c
}

// Device returns the underlying device.
func (c *Context) Device() device.Device {
	return c.dev
}

// TextureUnits returns the texture unit pool.
func (c *Context) TextureUnits() *TextureUnitPool {
	return c.units
}

// ActiveProgram returns the active program, or nil.
func (c *Context) ActiveProgram() *Program {
	return c.active
}

// NewStage returns an empty stage.
func (c *Context) NewStage() *Stage {
	return &Stage{ctx: c}
}

// NewBuffer returns an empty buffer. usage declares how the buffer is
// used and freq how often its contents change; together they choose the
// device usage hint.
func (c *Context) NewBuffer(usage gputypes.BufferUsage, freq device.Frequency) *Buffer {
	return &Buffer{ctx: c, usage: usage, freq: freq}
}

// checkError reports a pending device error labelled with op.
func (c *Context) checkError(op string) error {
	if err := c.dev.CheckError(op); err != nil {
		slogger().Error("glpipe: device call failed", "op", op, "err", err)
		return err
	}
	return nil
}
