package gpucore

import "github.com/gogpu/gputypes"

// RenderState controls the fixed-function pipeline state applied to the
// draw calls issued under one render gate: blending, depth testing, depth
// writing, face culling and the scissor test.
//
// RenderState is an immutable value; the With* methods return modified
// copies so states can be derived from [DefaultRenderState] without
// mutating shared values.
type RenderState struct {
	// Blending is the blending configuration.
	Blending BlendingMode

	// DepthTest is the depth test configuration.
	DepthTest DepthTest

	// DepthWrite states whether the depth buffer is updated.
	DepthWrite DepthWrite

	// FaceCulling is the face culling configuration.
	FaceCulling FaceCulling

	// Scissor is the scissor test configuration.
	Scissor Scissor
}

// DefaultRenderState returns the default render state:
//
//   - blending: combined, add equation, source factor one, destination
//     factor zero (source replaces destination)
//   - depth test: on, less comparison
//   - depth write: on
//   - face culling: off
//   - scissor: off
func DefaultRenderState() RenderState {
	return RenderState{
		Blending: CombinedBlending(Blending{
			Equation: gputypes.BlendOperationAdd,
			Src:      gputypes.BlendFactorOne,
			Dst:      gputypes.BlendFactorZero,
		}),
		DepthTest:   DepthTestOn(gputypes.CompareFunctionLess),
		DepthWrite:  DepthWriteOn,
		FaceCulling: NoFaceCulling(),
		Scissor:     ScissorOff(),
	}
}

// WithBlending returns a copy of the state with the blending mode replaced.
func (s RenderState) WithBlending(b BlendingMode) RenderState {
	s.Blending = b
	return s
}

// WithDepthTest returns a copy of the state with the depth test replaced.
func (s RenderState) WithDepthTest(d DepthTest) RenderState {
	s.DepthTest = d
	return s
}

// WithDepthWrite returns a copy of the state with the depth write
// configuration replaced.
func (s RenderState) WithDepthWrite(w DepthWrite) RenderState {
	s.DepthWrite = w
	return s
}

// WithFaceCulling returns a copy of the state with the face culling
// configuration replaced.
func (s RenderState) WithFaceCulling(fc FaceCulling) RenderState {
	s.FaceCulling = fc
	return s
}

// WithScissor returns a copy of the state with the scissor configuration
// replaced.
func (s RenderState) WithScissor(sc Scissor) RenderState {
	s.Scissor = sc
	return s
}
