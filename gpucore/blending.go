package gpucore

import "github.com/gogpu/gputypes"

// Blending is a basic blending configuration: one equation and the two
// factors applied to the source and destination pixels.
//
// Given a source pixel src (the pixel being computed) and a destination
// pixel dst (the pixel already stored in the render target), the blended
// value is Equation(src * Src, dst * Dst).
type Blending struct {
	// Equation combines the weighted source and destination values.
	Equation gputypes.BlendOperation

	// Src is the factor applied to the source pixel.
	Src gputypes.BlendFactor

	// Dst is the factor applied to the destination pixel.
	Dst gputypes.BlendFactor
}

// BlendingMode is the blending configuration of a render state: disabled,
// one combined configuration for RGBA, or separate configurations for the
// RGB components and the alpha component.
type BlendingMode struct {
	// Enabled turns blending on.
	Enabled bool

	// RGB is the configuration for the color components.
	// It also carries the combined RGBA configuration.
	RGB Blending

	// Alpha is the configuration for the alpha component.
	Alpha Blending
}

// NoBlending returns the disabled blending mode.
func NoBlending() BlendingMode {
	return BlendingMode{}
}

// CombinedBlending returns a blending mode applying b to all four
// components.
func CombinedBlending(b Blending) BlendingMode {
	return BlendingMode{Enabled: true, RGB: b, Alpha: b}
}

// SeparateBlending returns a blending mode with distinct configurations
// for the RGB components and the alpha component.
func SeparateBlending(rgb, alpha Blending) BlendingMode {
	return BlendingMode{Enabled: true, RGB: rgb, Alpha: alpha}
}
