// Package glpipe manages shader programs on a stateful graphics device.
//
// A [Program] is built from [Stage] sources, input bindings ([Attribute]
// and [Uniform], held by [Input]) and captured outputs ([Varying], held by
// [Output]). Every mutation marks the dependent cached device state
// stale; the next [Program.EnsureLink] or [Program.Activate] recomputes
// only what is stale, in order: stage compilation, link, capture layout,
// vertex array.
//
// # Quick Start
//
//	ctx := glpipe.NewContext(dev)
//
//	vs, fs := ctx.NewStage(), ctx.NewStage()
//	_ = vs.LoadFile("shaders/pass.vert")
//	_ = fs.LoadFile("shaders/pass.frag")
//
//	prog := ctx.NewProgram()
//	prog.AddStage(vs)
//	prog.AddStage(fs)
//
//	pos := ctx.NewBuffer(gputypes.BufferUsageVertex, device.FrequencyStatic)
//	_ = glpipe.WriteBuffer(pos, []float32{0, 0, 1, 0, 0, 1})
//	prog.Input().AddAttribute("position").ConnectBuffer(pos, 0, 0)
//	prog.Input().AddUniform("scale").SetFloats(2)
//
//	err := glpipe.Render(prog, gputypes.PrimitiveTopologyTriangleList, 3)
//
// # Capture
//
// Varyings added to the program output are recorded by transform
// feedback when rendering WithCapture(true):
//
//	out := prog.Output().AddVarying("result")
//	_ = glpipe.Render(prog, gputypes.PrimitiveTopologyPointList, n, glpipe.WithCapture(true))
//	values, _ := glpipe.VaryingValues[float32](out)
//
// # Threading
//
// A [Context] and every object created from it must be used from the
// goroutine that owns the device context. Only one program may be active
// on a context at a time.
//
// # Logging
//
// glpipe logs through [log/slog]; see [SetLogger].
package glpipe
