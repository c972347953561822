package gpucore

import "fmt"

// StageType identifies a shader stage within a program.
type StageType int

// Shader stage types. Vertex and fragment stages are mandatory in a
// program; tessellation stages must be supplied in pairs; the geometry
// stage is optional.
const (
	VertexShader StageType = iota
	TessellationControlShader
	TessellationEvaluationShader
	GeometryShader
	FragmentShader
)

// String returns the stage type name as used in logs and error messages.
func (t StageType) String() string {
	switch t {
	case VertexShader:
		return "vertex shader"
	case TessellationControlShader:
		return "tessellation control shader"
	case TessellationEvaluationShader:
		return "tessellation evaluation shader"
	case GeometryShader:
		return "geometry shader"
	case FragmentShader:
		return "fragment shader"
	default:
		return fmt.Sprintf("unknown shader stage (%d)", int(t))
	}
}
