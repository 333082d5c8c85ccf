// Package backend is the registry of device implementations.
//
// A backend package registers a Factory from init(), and programs pick a
// device at runtime. The OpenGL device registers itself on import:
//
//	import _ "github.com/gogpu/glpipe/device/gldevice"
//
// # Backend Selection
//
// Use Default to open the best available device, or Open to request one
// by name. Factories must run on the thread that owns the current
// context:
//
//	runtime.LockOSThread()
//	// ... make a context current ...
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := glpipe.NewContext(dev)
//
// # Available Backends
//
// - "gl41": OpenGL 4.1 core profile (device/gldevice)
package backend
