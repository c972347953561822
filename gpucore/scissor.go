package gpucore

// ScissorRegion is the rectangular region fragments are restricted to when
// the scissor test is enabled. Coordinates are in texels, origin at the
// lower-left corner of the render target.
type ScissorRegion struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// Scissor configures the scissor test of a render state.
type Scissor struct {
	// Enabled turns the scissor test on.
	Enabled bool

	// Region is the allowed region. Ignored when the test is disabled.
	Region ScissorRegion
}

// ScissorOff returns the disabled scissor configuration.
func ScissorOff() Scissor {
	return Scissor{}
}

// ScissorOn returns a scissor configuration restricted to region.
func ScissorOn(region ScissorRegion) Scissor {
	return Scissor{Enabled: true, Region: region}
}
