// Package gldevice implements device.Device over an OpenGL 4.1 core
// context using go-gl.
//
// The context must be current on the calling OS thread before New is
// called, and every later call must come from that thread:
//
//	runtime.LockOSThread()
//	// create a window and make its context current
//	dev, err := gldevice.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := glpipe.NewContext(dev)
//
// The package also registers itself with package backend under the
// name "gl41".
package gldevice
