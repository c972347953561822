package backend

// Resource IDs
//
// These opaque IDs represent GPU resources owned by a backend. Each backend
// maintains the mapping between IDs and actual resources. IDs are uint64 to
// accommodate various backend handle sizes. An ID is produced by exactly one
// create operation, is owned by exactly one wrapper value, and is never
// reused after the corresponding Drop call.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// FramebufferID is an opaque handle to a GPU framebuffer.
type FramebufferID uint64

// StageID is an opaque handle to a compiled shader stage.
type StageID uint64

// ProgramID is an opaque handle to a linked shader program.
type ProgramID uint64

// TessID is an opaque handle to a GPU vertex set.
type TessID uint64

// PipelineID is an opaque handle to a pipeline.
type PipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0
