package gpucore

import "github.com/gogpu/gputypes"

// Viewport selects the region of the framebuffer a pipeline renders into.
type Viewport struct {
	// Whole covers the entire framebuffer; the rectangle fields are
	// ignored when set.
	Whole bool

	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// WholeViewport returns a viewport covering the entire framebuffer.
func WholeViewport() Viewport {
	return Viewport{Whole: true}
}

// SpecificViewport returns a viewport restricted to the given rectangle,
// origin at the lower-left corner of the framebuffer.
func SpecificViewport(x, y, width, height uint32) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height}
}

// PipelineState configures what happens when a pipeline starts rendering
// into a framebuffer: clears, viewport and sRGB conversion.
//
// PipelineState is an immutable value with With* derivation methods, like
// [RenderState].
type PipelineState struct {
	// ClearColor is the color buffers are cleared to when ClearColorEnabled
	// is set.
	ClearColor gputypes.Color

	// ClearColorEnabled clears all color slots when the pipeline starts.
	ClearColorEnabled bool

	// ClearDepth is the value the depth buffer is cleared to when
	// ClearDepthEnabled is set.
	ClearDepth float32

	// ClearDepthEnabled clears the depth slot when the pipeline starts.
	ClearDepthEnabled bool

	// Viewport is the rendered region of the framebuffer.
	Viewport Viewport

	// SRGBEnabled enables linear-to-sRGB conversion when writing color
	// values.
	SRGBEnabled bool
}

// DefaultPipelineState returns the default pipeline state: clear color
// enabled with opaque black, clear depth enabled with 1.0, whole viewport,
// sRGB disabled.
func DefaultPipelineState() PipelineState {
	return PipelineState{
		ClearColor:        gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		ClearColorEnabled: true,
		ClearDepth:        1,
		ClearDepthEnabled: true,
		Viewport:          WholeViewport(),
	}
}

// WithClearColor returns a copy of the state clearing color slots to c.
func (s PipelineState) WithClearColor(c gputypes.Color) PipelineState {
	s.ClearColor = c
	s.ClearColorEnabled = true
	return s
}

// WithoutClearColor returns a copy of the state that does not clear color
// slots.
func (s PipelineState) WithoutClearColor() PipelineState {
	s.ClearColorEnabled = false
	return s
}

// WithClearDepth returns a copy of the state clearing the depth slot to d.
func (s PipelineState) WithClearDepth(d float32) PipelineState {
	s.ClearDepth = d
	s.ClearDepthEnabled = true
	return s
}

// WithoutClearDepth returns a copy of the state that does not clear the
// depth slot.
func (s PipelineState) WithoutClearDepth() PipelineState {
	s.ClearDepthEnabled = false
	return s
}

// WithViewport returns a copy of the state with the viewport replaced.
func (s PipelineState) WithViewport(v Viewport) PipelineState {
	s.Viewport = v
	return s
}

// WithSRGB returns a copy of the state with sRGB conversion set to enabled.
func (s PipelineState) WithSRGB(enabled bool) PipelineState {
	s.SRGBEnabled = enabled
	return s
}
