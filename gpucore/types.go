package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Mode is the primitive mode a vertex set is rendered with.
// It is the WebGPU primitive topology: point list, line list, line strip,
// triangle list or triangle strip.
type Mode = gputypes.PrimitiveTopology

// PixelFormat describes the texel format of a texture or render target.
// The catalog is the WebGPU texture format list from gputypes.
type PixelFormat = gputypes.TextureFormat

// IsDepthFormat reports whether f carries a depth component, making it
// valid for a framebuffer depth slot. Stencil-only formats do not qualify.
func IsDepthFormat(f PixelFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}

// Size is a two-dimensional texture or framebuffer size in texels.
type Size struct {
	Width  uint32
	Height uint32
}

// Texels returns the number of texels covered by the size.
func (s Size) Texels() int {
	return int(s.Width) * int(s.Height)
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Offset is a texel offset into a texture, used for partial uploads
// and clears.
type Offset struct {
	X uint32
	Y uint32
}

// Contains reports whether the region starting at off with size sub lies
// entirely within s.
func (s Size) Contains(off Offset, sub Size) bool {
	return uint64(off.X)+uint64(sub.Width) <= uint64(s.Width) &&
		uint64(off.Y)+uint64(sub.Height) <= uint64(s.Height)
}

// Sampler describes how a texture is sampled by a shader.
type Sampler struct {
	// WrapS is the addressing mode along the horizontal axis.
	WrapS gputypes.AddressMode

	// WrapT is the addressing mode along the vertical axis.
	WrapT gputypes.AddressMode

	// MinFilter is the filter applied when the texture is minified.
	MinFilter gputypes.FilterMode

	// MagFilter is the filter applied when the texture is magnified.
	MagFilter gputypes.FilterMode

	// DepthComparison enables comparison sampling for depth textures.
	// Nil disables comparison.
	DepthComparison *gputypes.CompareFunction
}

// DefaultSampler returns a sampler with clamp-to-edge addressing and
// linear filtering, no depth comparison.
func DefaultSampler() Sampler {
	return Sampler{
		WrapS:     gputypes.AddressModeClampToEdge,
		WrapT:     gputypes.AddressModeClampToEdge,
		MinFilter: gputypes.FilterModeLinear,
		MagFilter: gputypes.FilterModeLinear,
	}
}
