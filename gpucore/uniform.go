package gpucore

import "golang.org/x/image/math/f32"

// TextureBinding is the opaque binding index of a texture bound through a
// pipeline. It is produced by the pipeline's bind operation and consumed
// only by shader uniform assignment.
type TextureBinding uint32

// BufferBinding is the opaque binding index of a buffer bound through a
// pipeline, consumed only by shader uniform assignment.
type BufferBinding uint32

// UniformType enumerates the kinds of values a shader uniform can hold.
// It is used to check uniform assignments against the type the compiled
// shader reflects, and in the warning messages produced on mismatch.
type UniformType int

// Uniform types.
const (
	UniformInt UniformType = iota
	UniformUInt
	UniformFloat
	UniformBool
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat3
	UniformMat4
	UniformSampler
	UniformBufferBinding
)

// String returns the GLSL-flavored name of the uniform type.
func (t UniformType) String() string {
	switch t {
	case UniformInt:
		return "int"
	case UniformUInt:
		return "uint"
	case UniformFloat:
		return "float"
	case UniformBool:
		return "bool"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformMat3:
		return "mat3"
	case UniformMat4:
		return "mat4"
	case UniformSampler:
		return "sampler"
	case UniformBufferBinding:
		return "buffer binding"
	default:
		return "unknown"
	}
}

// UniformTypeOf returns the uniform type of a host value, reporting false
// for values outside the uniform catalog.
//
// The catalog covers int32, uint32, float32, bool, the f32 vector and
// matrix types, and the pipeline binding types [TextureBinding] and
// [BufferBinding]. A slice of a catalog type sets an array uniform and
// reports the element's uniform type.
func UniformTypeOf(v any) (UniformType, bool) {
	switch v.(type) {
	case int32, []int32:
		return UniformInt, true
	case uint32, []uint32:
		return UniformUInt, true
	case float32, []float32:
		return UniformFloat, true
	case bool, []bool:
		return UniformBool, true
	case f32.Vec2, []f32.Vec2:
		return UniformVec2, true
	case f32.Vec3, []f32.Vec3:
		return UniformVec3, true
	case f32.Vec4, []f32.Vec4:
		return UniformVec4, true
	case f32.Mat3, []f32.Mat3:
		return UniformMat3, true
	case f32.Mat4, []f32.Mat4:
		return UniformMat4, true
	case TextureBinding:
		return UniformSampler, true
	case BufferBinding:
		return UniformBufferBinding, true
	default:
		return 0, false
	}
}
