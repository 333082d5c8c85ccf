package backend

import (
	"errors"

	"github.com/gogpu/glpipe/device"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNilDevice is returned when a factory reports success without a device.
	ErrNilDevice = errors.New("backend: factory returned nil device")
)

// Backend names.
const (
	// NameGL41 is the OpenGL 4.1 core profile device.
	NameGL41 = "gl41"
)

// Factory opens a device on the calling thread's current context.
type Factory func() (device.Device, error)
