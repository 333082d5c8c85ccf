package gltype

import "fmt"

// Enum is a reflected variable type as reported by the device.
type Enum uint32

// Scalar and vector types.
const (
	Float     Enum = 0x1406
	FloatVec2 Enum = 0x8B50
	FloatVec3 Enum = 0x8B51
	FloatVec4 Enum = 0x8B52

	Double     Enum = 0x140A
	DoubleVec2 Enum = 0x8FFC
	DoubleVec3 Enum = 0x8FFD
	DoubleVec4 Enum = 0x8FFE

	Int     Enum = 0x1404
	IntVec2 Enum = 0x8B53
	IntVec3 Enum = 0x8B54
	IntVec4 Enum = 0x8B55

	Uint     Enum = 0x1405
	UintVec2 Enum = 0x8DC6
	UintVec3 Enum = 0x8DC7
	UintVec4 Enum = 0x8DC8

	Bool     Enum = 0x8B56
	BoolVec2 Enum = 0x8B57
	BoolVec3 Enum = 0x8B58
	BoolVec4 Enum = 0x8B59
)

// Matrix types. The name reads columns x rows.
const (
	FloatMat2   Enum = 0x8B5A
	FloatMat3   Enum = 0x8B5B
	FloatMat4   Enum = 0x8B5C
	FloatMat2x3 Enum = 0x8B65
	FloatMat2x4 Enum = 0x8B66
	FloatMat3x2 Enum = 0x8B67
	FloatMat3x4 Enum = 0x8B68
	FloatMat4x2 Enum = 0x8B69
	FloatMat4x3 Enum = 0x8B6A

	DoubleMat2   Enum = 0x8F46
	DoubleMat3   Enum = 0x8F47
	DoubleMat4   Enum = 0x8F48
	DoubleMat2x3 Enum = 0x8F49
	DoubleMat2x4 Enum = 0x8F4A
	DoubleMat3x2 Enum = 0x8F4B
	DoubleMat3x4 Enum = 0x8F4C
	DoubleMat4x2 Enum = 0x8F4D
	DoubleMat4x3 Enum = 0x8F4E
)

// Sampler types.
const (
	Sampler1D     Enum = 0x8B5D
	Sampler2D     Enum = 0x8B5E
	Sampler3D     Enum = 0x8B5F
	SamplerCube   Enum = 0x8B60
	SamplerBuffer Enum = 0x8DC2

	IntSampler1D     Enum = 0x8DC9
	IntSampler2D     Enum = 0x8DCA
	IntSampler3D     Enum = 0x8DCB
	IntSamplerCube   Enum = 0x8DCC
	IntSamplerBuffer Enum = 0x8DD0

	UintSampler1D     Enum = 0x8DD1
	UintSampler2D     Enum = 0x8DD2
	UintSampler3D     Enum = 0x8DD3
	UintSamplerCube   Enum = 0x8DD4
	UintSamplerBuffer Enum = 0x8DD8
)

// String returns the GLSL spelling of the type.
func (e Enum) String() string {
	if ent, ok := table[e]; ok {
		return ent.glsl
	}
	return fmt.Sprintf("Enum(0x%04X)", uint32(e))
}
