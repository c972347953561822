// Package backend defines the capability contract a concrete GPU backend
// must implement to drive the glint rendering layer, together with the
// registry backends announce themselves through.
//
// The contract is a pure interface set with zero behavior of its own. Each
// capability (buffers, textures, framebuffers, shaders, tessellations,
// pipelines and the three gates) declares the operations that create, query
// and mutate an opaque backend-owned representation, identified by a uint64
// ID. Backends maintain the mapping between IDs and live resources; the
// glint wrapper layer owns the IDs and never inspects them.
//
// # Contract violation policy
//
// The contract trusts its caller. High-level invariants — index bounds,
// payload arity, view windows, binding exclusivity — are validated once by
// the wrapper layer before calling through; the preconditions are stated on
// each operation and a backend is free to fail hard when they are violated.
// Backends only report backend-level failures (device errors, unsupported
// features). The contract is not an end-user surface: application code goes
// through the glint wrappers.
//
// # Registering a backend
//
// Backend packages register a factory from an init function:
//
//	func init() {
//	    backend.Register("trace", func() backend.Backend { return New() })
//	}
//
// and are selected by name via Get, or by priority via Default.
package backend
