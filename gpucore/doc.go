// Package gpucore provides the value types shared by the glint rendering
// layer and its backends.
//
// Everything in this package is plain data: render state (blending, depth
// testing, face culling, scissor), pipeline state (clears, viewport, sRGB),
// sampler and pixel-format descriptions, vertex semantics, primitive modes
// and the uniform type catalog. None of it owns GPU resources or performs
// backend calls; the types here are consumed by the glint wrappers and
// forwarded through the backend capability contract.
//
// # Format vocabulary
//
// Rather than re-declaring the combinatorial catalogs of pixel formats,
// blend factors, comparison functions and vertex formats, gpucore reuses
// the WebGPU vocabulary from github.com/gogpu/gputypes:
//
//   - [PixelFormat] is gputypes.TextureFormat
//   - [Blending] is built from gputypes.BlendOperation and gputypes.BlendFactor
//   - [DepthTest] uses gputypes.CompareFunction
//   - [FaceCulling] uses gputypes.FrontFace and gputypes.CullMode
//   - [Mode] is gputypes.PrimitiveTopology
//   - [VertexAttrib] uses gputypes.VertexFormat
//
// Backends translate these values to their native API; the trace backend
// records them verbatim.
package gpucore
