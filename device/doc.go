// Package device defines the boundary between glpipe and the graphics
// context it drives.
//
// The [Device] interface is a thin, ordered view of a stateful pipeline
// API: handles are created and destroyed in pairs, state is bound by
// explicit calls, and errors are collected after the fact through
// [Device.CheckError]. Package gldevice implements it over OpenGL 4.1
// core; tests use the recording fake in internal/devicetest.
//
// A Device is not safe for concurrent use. Every call must be made from
// the goroutine that owns the context.
package device
