package gpucore

import "github.com/gogpu/gputypes"

// FaceCulling configures which primitive faces are discarded before
// rasterization.
type FaceCulling struct {
	// Enabled turns face culling on.
	Enabled bool

	// Order is the winding order identifying the front face.
	Order gputypes.FrontFace

	// Face selects the face to cull.
	Face gputypes.CullMode
}

// NoFaceCulling returns the disabled face culling configuration.
func NoFaceCulling() FaceCulling {
	return FaceCulling{}
}

// FaceCullingOn returns an enabled face culling configuration.
func FaceCullingOn(order gputypes.FrontFace, face gputypes.CullMode) FaceCulling {
	return FaceCulling{Enabled: true, Order: order, Face: face}
}
