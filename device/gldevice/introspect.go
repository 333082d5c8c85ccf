package gldevice

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/glpipe/device"
	"github.com/gogpu/glpipe/gltype"
)

// activeFunc is the shape of glGetActiveAttrib, glGetActiveUniform and
// glGetTransformFeedbackVarying.
type activeFunc func(program, index uint32, bufSize int32, length, size *int32, typ *uint32, name *uint8)

func (d *Device) AttribLocation(p device.ProgramID, name string) int {
	return int(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) ActiveAttributes(p device.ProgramID) []device.ActiveVariable {
	return activeVariables(uint32(p), gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

func (d *Device) UniformLocation(p device.ProgramID, name string) int {
	return int(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) ActiveUniforms(p device.ProgramID) []device.ActiveVariable {
	return activeVariables(uint32(p), gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

func (d *Device) CapturedVaryings(p device.ProgramID) []device.ActiveVariable {
	return activeVariables(uint32(p), gl.TRANSFORM_FEEDBACK_VARYINGS, gl.TRANSFORM_FEEDBACK_VARYING_MAX_LENGTH, gl.GetTransformFeedbackVarying)
}

func activeVariables(prog, countEnum, lengthEnum uint32, get activeFunc) []device.ActiveVariable {
	var count, maxLen int32
	gl.GetProgramiv(prog, countEnum, &count)
	gl.GetProgramiv(prog, lengthEnum, &maxLen)
	if count <= 0 || maxLen <= 0 {
		return nil
	}

	vars := make([]device.ActiveVariable, 0, count)
	buf := make([]uint8, maxLen)
	for i := range uint32(count) {
		var length, size int32
		var typ uint32
		get(prog, i, maxLen, &length, &size, &typ, &buf[0])
		vars = append(vars, device.ActiveVariable{
			Name: string(buf[:length]),
			Size: int(size),
			Type: gltype.Enum(typ),
		})
	}
	return vars
}

// === Uniform Upload ===

func (d *Device) UniformInts(location, columns int, data []int32) {
	n := count(len(data), columns)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch columns {
	case 1:
		gl.Uniform1iv(loc, n, p)
	case 2:
		gl.Uniform2iv(loc, n, p)
	case 3:
		gl.Uniform3iv(loc, n, p)
	case 4:
		gl.Uniform4iv(loc, n, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

func (d *Device) UniformUints(location, columns int, data []uint32) {
	n := count(len(data), columns)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch columns {
	case 1:
		gl.Uniform1uiv(loc, n, p)
	case 2:
		gl.Uniform2uiv(loc, n, p)
	case 3:
		gl.Uniform3uiv(loc, n, p)
	case 4:
		gl.Uniform4uiv(loc, n, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

func (d *Device) UniformFloats(location, columns int, data []float32) {
	n := count(len(data), columns)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch columns {
	case 1:
		gl.Uniform1fv(loc, n, p)
	case 2:
		gl.Uniform2fv(loc, n, p)
	case 3:
		gl.Uniform3fv(loc, n, p)
	case 4:
		gl.Uniform4fv(loc, n, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

func (d *Device) UniformDoubles(location, columns int, data []float64) {
	n := count(len(data), columns)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch columns {
	case 1:
		gl.Uniform1dv(loc, n, p)
	case 2:
		gl.Uniform2dv(loc, n, p)
	case 3:
		gl.Uniform3dv(loc, n, p)
	case 4:
		gl.Uniform4dv(loc, n, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

type matrixShape struct{ cols, rows int }

func (d *Device) UniformMatrixFloats(location, cols, rows int, transpose bool, data []float32) {
	n := count(len(data), cols*rows)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch (matrixShape{cols, rows}) {
	case matrixShape{2, 2}:
		gl.UniformMatrix2fv(loc, n, transpose, p)
	case matrixShape{3, 3}:
		gl.UniformMatrix3fv(loc, n, transpose, p)
	case matrixShape{4, 4}:
		gl.UniformMatrix4fv(loc, n, transpose, p)
	case matrixShape{2, 3}:
		gl.UniformMatrix2x3fv(loc, n, transpose, p)
	case matrixShape{3, 2}:
		gl.UniformMatrix3x2fv(loc, n, transpose, p)
	case matrixShape{2, 4}:
		gl.UniformMatrix2x4fv(loc, n, transpose, p)
	case matrixShape{4, 2}:
		gl.UniformMatrix4x2fv(loc, n, transpose, p)
	case matrixShape{3, 4}:
		gl.UniformMatrix3x4fv(loc, n, transpose, p)
	case matrixShape{4, 3}:
		gl.UniformMatrix4x3fv(loc, n, transpose, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

func (d *Device) UniformMatrixDoubles(location, cols, rows int, transpose bool, data []float64) {
	n := count(len(data), cols*rows)
	if n == 0 {
		return
	}
	loc, p := int32(location), &data[0]
	switch (matrixShape{cols, rows}) {
	case matrixShape{2, 2}:
		gl.UniformMatrix2dv(loc, n, transpose, p)
	case matrixShape{3, 3}:
		gl.UniformMatrix3dv(loc, n, transpose, p)
	case matrixShape{4, 4}:
		gl.UniformMatrix4dv(loc, n, transpose, p)
	case matrixShape{2, 3}:
		gl.UniformMatrix2x3dv(loc, n, transpose, p)
	case matrixShape{3, 2}:
		gl.UniformMatrix3x2dv(loc, n, transpose, p)
	case matrixShape{2, 4}:
		gl.UniformMatrix2x4dv(loc, n, transpose, p)
	case matrixShape{4, 2}:
		gl.UniformMatrix4x2dv(loc, n, transpose, p)
	case matrixShape{3, 4}:
		gl.UniformMatrix3x4dv(loc, n, transpose, p)
	case matrixShape{4, 3}:
		gl.UniformMatrix4x3dv(loc, n, transpose, p)
	default:
		d.pending = gl.INVALID_VALUE
	}
}

// count returns the number of elements of width w in n values.
func count(n, w int) int32 {
	if w <= 0 {
		return 0
	}
	return int32(n / w)
}
