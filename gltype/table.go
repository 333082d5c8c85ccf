package gltype

type entry struct {
	desc Descriptor
	glsl string
}

func value(el ElementKind, size, count int, name string) entry {
	return entry{
		desc: Descriptor{Object: ObjectValue, Element: el, ColumnSize: size, ColumnCount: count},
		glsl: name,
	}
}

func sampler(el ElementKind, dim SamplerDim, name string) entry {
	return entry{
		desc: Descriptor{Object: ObjectSampler, Element: el, ColumnSize: 1, ColumnCount: 1, Sampler: dim},
		glsl: name,
	}
}

// Booleans are uploaded through the integer path, so they resolve to
// ElementInt.
var table = map[Enum]entry{
	Float:     value(ElementFloat, 1, 1, "float"),
	FloatVec2: value(ElementFloat, 2, 1, "vec2"),
	FloatVec3: value(ElementFloat, 3, 1, "vec3"),
	FloatVec4: value(ElementFloat, 4, 1, "vec4"),

	Double:     value(ElementDouble, 1, 1, "double"),
	DoubleVec2: value(ElementDouble, 2, 1, "dvec2"),
	DoubleVec3: value(ElementDouble, 3, 1, "dvec3"),
	DoubleVec4: value(ElementDouble, 4, 1, "dvec4"),

	Int:     value(ElementInt, 1, 1, "int"),
	IntVec2: value(ElementInt, 2, 1, "ivec2"),
	IntVec3: value(ElementInt, 3, 1, "ivec3"),
	IntVec4: value(ElementInt, 4, 1, "ivec4"),

	Uint:     value(ElementUint, 1, 1, "uint"),
	UintVec2: value(ElementUint, 2, 1, "uvec2"),
	UintVec3: value(ElementUint, 3, 1, "uvec3"),
	UintVec4: value(ElementUint, 4, 1, "uvec4"),

	Bool:     value(ElementInt, 1, 1, "bool"),
	BoolVec2: value(ElementInt, 2, 1, "bvec2"),
	BoolVec3: value(ElementInt, 3, 1, "bvec3"),
	BoolVec4: value(ElementInt, 4, 1, "bvec4"),

	FloatMat2:   value(ElementFloat, 2, 2, "mat2"),
	FloatMat3:   value(ElementFloat, 3, 3, "mat3"),
	FloatMat4:   value(ElementFloat, 4, 4, "mat4"),
	FloatMat2x3: value(ElementFloat, 3, 2, "mat2x3"),
	FloatMat2x4: value(ElementFloat, 4, 2, "mat2x4"),
	FloatMat3x2: value(ElementFloat, 2, 3, "mat3x2"),
	FloatMat3x4: value(ElementFloat, 4, 3, "mat3x4"),
	FloatMat4x2: value(ElementFloat, 2, 4, "mat4x2"),
	FloatMat4x3: value(ElementFloat, 3, 4, "mat4x3"),

	DoubleMat2:   value(ElementDouble, 2, 2, "dmat2"),
	DoubleMat3:   value(ElementDouble, 3, 3, "dmat3"),
	DoubleMat4:   value(ElementDouble, 4, 4, "dmat4"),
	DoubleMat2x3: value(ElementDouble, 3, 2, "dmat2x3"),
	DoubleMat2x4: value(ElementDouble, 4, 2, "dmat2x4"),
	DoubleMat3x2: value(ElementDouble, 2, 3, "dmat3x2"),
	DoubleMat3x4: value(ElementDouble, 4, 3, "dmat3x4"),
	DoubleMat4x2: value(ElementDouble, 2, 4, "dmat4x2"),
	DoubleMat4x3: value(ElementDouble, 3, 4, "dmat4x3"),

	Sampler1D:     sampler(ElementFloat, Sampler1DDim, "sampler1D"),
	Sampler2D:     sampler(ElementFloat, Sampler2DDim, "sampler2D"),
	Sampler3D:     sampler(ElementFloat, Sampler3DDim, "sampler3D"),
	SamplerCube:   sampler(ElementFloat, SamplerCubeDim, "samplerCube"),
	SamplerBuffer: sampler(ElementFloat, SamplerBufferDim, "samplerBuffer"),

	IntSampler1D:     sampler(ElementInt, Sampler1DDim, "isampler1D"),
	IntSampler2D:     sampler(ElementInt, Sampler2DDim, "isampler2D"),
	IntSampler3D:     sampler(ElementInt, Sampler3DDim, "isampler3D"),
	IntSamplerCube:   sampler(ElementInt, SamplerCubeDim, "isamplerCube"),
	IntSamplerBuffer: sampler(ElementInt, SamplerBufferDim, "isamplerBuffer"),

	UintSampler1D:     sampler(ElementUint, Sampler1DDim, "usampler1D"),
	UintSampler2D:     sampler(ElementUint, Sampler2DDim, "usampler2D"),
	UintSampler3D:     sampler(ElementUint, Sampler3DDim, "usampler3D"),
	UintSamplerCube:   sampler(ElementUint, SamplerCubeDim, "usamplerCube"),
	UintSamplerBuffer: sampler(ElementUint, SamplerBufferDim, "usamplerBuffer"),
}
