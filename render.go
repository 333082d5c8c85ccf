package glpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// RenderOption configures a Render or RenderElements call.
type RenderOption func(*renderOptions)

type renderOptions struct {
	first   int
	capture bool
	wait    bool
}

// WithOffset starts drawing at vertex first.
func WithOffset(first int) RenderOption {
	return func(o *renderOptions) {
		o.first = first
	}
}

// WithCapture records the program's varyings during the draw.
func WithCapture(on bool) RenderOption {
	return func(o *renderOptions) {
		o.capture = on
	}
}

// WithWait blocks until the draw has completed.
func WithWait(on bool) RenderOption {
	return func(o *renderOptions) {
		o.wait = on
	}
}

func (p *Program) begin(prim gputypes.PrimitiveTopology, count int, o renderOptions) error {
	if _, err := captureBase(prim); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("glpipe: negative vertex count %d", count)
	}
	p.ctx.dev.ClearErrors()
	if o.capture {
		return p.ActivateRecording(prim, capturedVertices(prim, count))
	}
	return p.Activate()
}

func (p *Program) end(o renderOptions) error {
	if o.wait {
		p.ctx.dev.Finish()
	}
	err := p.ctx.checkError("Draw")
	p.Deactivate()
	return err
}

// Render draws count vertices with p and deactivates it again.
func Render(p *Program, prim gputypes.PrimitiveTopology, count int, opts ...RenderOption) error {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := p.begin(prim, count, o); err != nil {
		return err
	}
	p.ctx.dev.DrawArrays(prim, o.first, count)
	return p.end(o)
}

// RenderElements draws count vertices picked by the uint32 indices in
// indices. The indices lie in [first, first+count]; WithOffset sets first.
func RenderElements(p *Program, indices *Buffer, prim gputypes.PrimitiveTopology, count int, opts ...RenderOption) error {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}
	if indices == nil {
		return ErrNoBuffer
	}
	if indices.destroyed {
		return ErrDestroyed
	}
	if err := p.begin(prim, count, o); err != nil {
		return err
	}
	p.ctx.dev.DrawRangeElements(prim, o.first, o.first+count, count, indices.id)
	return p.end(o)
}
