package gldevice

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
	"github.com/gogpu/glpipe/device"
)

// Name is the registry name of the OpenGL device.
const Name = backend.NameGL41

func init() {
	backend.Register(Name, func() (device.Device, error) {
		return New()
	})
}

// Device drives the current OpenGL context.
type Device struct {
	maxUnits int
	maxSize  int
	// pending holds an error detected before reaching the driver.
	pending uint32
}

var _ device.Device = (*Device)(nil)

// New loads the OpenGL entry points of the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gldevice: init: %w", err)
	}
	d := &Device{}
	var n int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &n)
	d.maxUnits = int(n)
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &n)
	d.maxSize = int(n)

	glpipe.Logger().Info("gldevice: context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"textureUnits", d.maxUnits,
		"maxTextureSize", d.maxSize)
	return d, nil
}

// === Capabilities ===

func (d *Device) SupportsStage(kind device.StageKind) bool {
	_, ok := stageEnum(kind)
	return ok
}

func (d *Device) MaxTextureUnits() int { return d.maxUnits }

func (d *Device) MaxTextureSize() int { return d.maxSize }

// === Errors ===

func (d *Device) ClearErrors() {
	d.pending = gl.NO_ERROR
	for gl.GetError() != gl.NO_ERROR {
	}
}

// CheckError returns the first pending error and discards the rest.
func (d *Device) CheckError(op string) error {
	code := d.pending
	d.pending = gl.NO_ERROR
	for {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		if code == gl.NO_ERROR {
			code = e
		}
	}
	if code == gl.NO_ERROR {
		return nil
	}
	return &device.Error{Op: op, Code: code}
}

// === Stages ===

func (d *Device) CreateStage(kind device.StageKind) (device.StageID, error) {
	typ, ok := stageEnum(kind)
	if !ok {
		return device.InvalidID, fmt.Errorf("gldevice: unsupported stage %v", kind)
	}
	id := gl.CreateShader(typ)
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create %v stage failed", kind)
	}
	return device.StageID(id), nil
}

func (d *Device) DeleteStage(id device.StageID) {
	if id != device.InvalidID {
		gl.DeleteShader(uint32(id))
	}
}

func (d *Device) CompileStage(id device.StageID, source string) (bool, string) {
	sh := uint32(id)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	var n int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
	return status != gl.FALSE, readLog(n, func(size int32, length *int32, buf *uint8) {
		gl.GetShaderInfoLog(sh, size, length, buf)
	})
}

// === Programs ===

func (d *Device) CreateProgram() (device.ProgramID, error) {
	id := gl.CreateProgram()
	if id == 0 {
		return device.InvalidID, fmt.Errorf("gldevice: create program failed")
	}
	return device.ProgramID(id), nil
}

func (d *Device) DeleteProgram(id device.ProgramID) {
	if id != device.InvalidID {
		gl.DeleteProgram(uint32(id))
	}
}

func (d *Device) AttachStage(p device.ProgramID, s device.StageID) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (d *Device) TransformFeedbackVaryings(p device.ProgramID, names []string, mode device.CaptureMode) {
	if len(names) == 0 {
		return
	}
	cnames := make([]string, len(names))
	for i, n := range names {
		cnames[i] = n + "\x00"
	}
	buffer := uint32(gl.SEPARATE_ATTRIBS)
	if mode == device.CaptureInterleaved {
		buffer = gl.INTERLEAVED_ATTRIBS
	}
	cstrs, free := gl.Strs(cnames...)
	gl.TransformFeedbackVaryings(uint32(p), int32(len(cnames)), cstrs, buffer)
	free()
}

func (d *Device) LinkProgram(p device.ProgramID) (bool, string) {
	prog := uint32(p)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	var n int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
	return status != gl.FALSE, readLog(n, func(size int32, length *int32, buf *uint8) {
		gl.GetProgramInfoLog(prog, size, length, buf)
	})
}

func (d *Device) UseProgram(p device.ProgramID) {
	gl.UseProgram(uint32(p))
}

// readLog reads a driver info log of n bytes including the terminator.
func readLog(n int32, get func(size int32, length *int32, buf *uint8)) string {
	if n <= 1 {
		return ""
	}
	buf := make([]uint8, n)
	var length int32
	get(n, &length, &buf[0])
	return string(buf[:length])
}
