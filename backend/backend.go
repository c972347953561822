package backend

import (
	"errors"
	"log/slog"

	"github.com/gogpu/glint/gpucore"
	"github.com/gogpu/gpucontext"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrUnknownResource is returned when an operation names an ID the
	// backend does not own. Reaching it means the wrapper layer passed a
	// destroyed or foreign handle.
	ErrUnknownResource = errors.New("backend: unknown resource")
)

// AttributeData is one deinterleaved attribute array of a vertex set.
type AttributeData struct {
	// Index is the semantics index of the attribute.
	Index int

	// Data is the attribute array, a typed slice owned by the caller until
	// the create call returns.
	Data any

	// Len is the number of items in Data.
	Len int
}

// VertexData carries vertex or instance data across the contract, in one
// of the two storage layouts. Exactly one of Interleaved and Attributes is
// set.
type VertexData struct {
	// Interleaved is the combined vertex array ([]V) for interleaved
	// storage, nil for deinterleaved storage.
	Interleaved any

	// Attributes are the per-attribute arrays for deinterleaved storage,
	// ordered by semantics index.
	Attributes []AttributeData

	// Len is the coherent item count of the data. The wrapper layer has
	// already verified that every attribute array has this length.
	Len int
}

// Deinterleaved reports whether the data uses deinterleaved storage.
func (d *VertexData) Deinterleaved() bool {
	return d != nil && d.Interleaved == nil
}

// TextureDesc describes a texture to create.
type TextureDesc struct {
	Size    gpucore.Size
	Mipmaps int
	Sampler gpucore.Sampler
	Format  gpucore.PixelFormat
}

// TessDesc describes a vertex set to create. The shape is immutable after
// the create call: counts, index data presence and the restart index are
// fixed for the lifetime of the resource.
type TessDesc struct {
	Mode gpucore.Mode

	// VertNb and InstNb are the effective counts computed by the builder.
	VertNb int
	InstNb int

	// Vertices is nil for an attributeless vertex set.
	Vertices *VertexData

	// Instances is nil when the set carries no instance data.
	Instances *VertexData

	// Indices is nil for direct (non-indexed) rendering.
	Indices []uint32

	// RestartIndex is the primitive restart index, nil when disabled.
	RestartIndex *uint32

	// VertexDesc and InstanceDesc are the semantics of the vertex and
	// instance attributes.
	VertexDesc   gpucore.VertexDesc
	InstanceDesc gpucore.VertexDesc
}

// UniformInfo is the reflection result for one uniform of a linked program.
type UniformInfo struct {
	// Index is the backend uniform index, valid only when Active.
	Index int

	// Type is the type the compiled shader declares for the uniform.
	Type gpucore.UniformType

	// Active reports whether the uniform is active in the linked program.
	// Inactive uniforms are a warning at the wrapper layer, not an error.
	Active bool
}

// BufferBackend creates and operates on GPU buffers.
//
// Buffer payloads cross the contract as typed slices held in any values;
// the wrapper layer guarantees the payload type is consistent for the
// lifetime of a buffer and that item counts were validated before calling
// through.
type BufferBackend interface {
	// NewBuffer creates a buffer of n items initialized from items ([]T).
	NewBuffer(items any, n int) (BufferID, error)

	// BufferLen returns the item count fixed at creation.
	BufferLen(id BufferID) int

	// SetBufferItem writes one item. The wrapper has bounds-checked i.
	SetBufferItem(id BufferID, i int, x any) error

	// WriteWholeBuffer replaces the buffer content. The wrapper has
	// verified n equals the buffer length.
	WriteWholeBuffer(id BufferID, items any, n int) error

	// MapBuffer maps the buffer memory as a host-visible []T slice. At
	// most one live mapping per buffer; the wrapper enforces exclusivity
	// for mutable access.
	MapBuffer(id BufferID) (any, error)

	// UnmapBuffer releases a mapping obtained from MapBuffer.
	UnmapBuffer(id BufferID)

	// DropBuffer destroys the buffer. The ID must not be used afterwards.
	DropBuffer(id BufferID)
}

// TextureBackend creates and operates on GPU textures.
type TextureBackend interface {
	// NewTexture creates a texture.
	NewTexture(desc TextureDesc) (TextureID, error)

	// UploadTexturePart uploads texels to the region at off of the given
	// size. The wrapper has verified the region lies within the texture
	// and the payload holds exactly size.Texels() items.
	UploadTexturePart(id TextureID, off gpucore.Offset, size gpucore.Size, texels any, genMipmaps bool) error

	// ClearTexturePart sets every texel of the region to value.
	ClearTexturePart(id TextureID, off gpucore.Offset, size gpucore.Size, value any, genMipmaps bool) error

	// ReadTexture returns the whole base-level content as a []T slice.
	ReadTexture(id TextureID) (any, error)

	// DropTexture destroys the texture.
	DropTexture(id TextureID)
}

// FramebufferBackend creates and operates on framebuffers. Attachment and
// validation are separate operations so the wrapper can roll back a
// partially attached framebuffer without exposing it.
type FramebufferBackend interface {
	// NewFramebuffer creates an empty framebuffer of the given size.
	NewFramebuffer(size gpucore.Size) (FramebufferID, error)

	// BackBuffer returns the default render target of the context.
	BackBuffer(size gpucore.Size) (FramebufferID, error)

	// AttachColorTexture attaches tex at the given color attachment index.
	AttachColorTexture(fb FramebufferID, index int, tex TextureID) error

	// AttachDepthTexture attaches tex as the depth slot.
	AttachDepthTexture(fb FramebufferID, tex TextureID) error

	// ValidateFramebuffer checks attachment completeness. The returned
	// error carries the backend's incompleteness reason.
	ValidateFramebuffer(fb FramebufferID) error

	// DropFramebuffer destroys the framebuffer. Attached textures are
	// dropped separately by their owners.
	DropFramebuffer(fb FramebufferID)
}

// ShaderBackend compiles shader stages, links programs and accesses
// uniforms.
type ShaderBackend interface {
	// NewStage compiles source for the given stage type. A compilation
	// failure error carries the backend's compiler log.
	NewStage(ty gpucore.StageType, source string) (StageID, error)

	// DropStage destroys a stage. Stages may be dropped once linked.
	DropStage(id StageID)

	// NewProgram links the given stages against the vertex semantics. A
	// link failure error carries the backend's linker log.
	NewProgram(stages []StageID, semantics gpucore.VertexDesc) (ProgramID, error)

	// DropProgram destroys a program.
	DropProgram(id ProgramID)

	// LocateUniform reflects one uniform of a linked program. declared is
	// the type the host declares for the uniform; backends with real
	// reflection ignore it and report the compiled type.
	LocateUniform(p ProgramID, name string, declared gpucore.UniformType) (UniformInfo, error)

	// LocateVertexAttrib reflects one vertex input of a linked program,
	// reporting its location and whether it is active.
	LocateVertexAttrib(p ProgramID, name string) (int, bool)

	// SetUniform writes a value to an active uniform. The wrapper has
	// checked the value against the reflected type.
	SetUniform(p ProgramID, index int, value any) error
}

// TessBackend creates vertex sets and maps their storage.
type TessBackend interface {
	// NewTess creates a vertex set from desc.
	NewTess(desc TessDesc) (TessID, error)

	// MapTessVertices maps the interleaved vertex storage as a []V slice.
	// The wrapper has verified the set is interleaved and not
	// attributeless.
	MapTessVertices(id TessID) (any, error)

	// MapTessIndices maps the index storage.
	MapTessIndices(id TessID) ([]uint32, error)

	// MapTessInstances maps the interleaved instance storage.
	MapTessInstances(id TessID) (any, error)

	// MapTessAttribute maps one deinterleaved attribute array of the
	// vertex (or, when instance is set, instance) storage.
	MapTessAttribute(id TessID, attrIndex int, instance bool) (any, error)

	// DropTess destroys the vertex set.
	DropTess(id TessID)
}

// PipelineBackend starts pipelines and binds resources into them.
type PipelineBackend interface {
	// NewPipeline creates a pipeline representation.
	NewPipeline() (PipelineID, error)

	// StartPipeline makes fb the current render target and applies the
	// pipeline state (clears, viewport, sRGB).
	StartPipeline(fb FramebufferID, st gpucore.PipelineState) error

	// BindBuffer binds buf for shader access and returns its binding
	// index. The wrapper enforces at most one live binding per resource.
	BindBuffer(p PipelineID, buf BufferID) (gpucore.BufferBinding, error)

	// BindTexture binds tex for shader access and returns its binding
	// index.
	BindTexture(p PipelineID, tex TextureID) (gpucore.TextureBinding, error)

	// DropPipeline destroys the pipeline representation.
	DropPipeline(p PipelineID)
}

// ShadingGateBackend applies shader programs.
type ShadingGateBackend interface {
	// ApplyShaderProgram makes p the current program for subsequent draw
	// calls.
	ApplyShaderProgram(p ProgramID) error
}

// RenderGateBackend applies render states.
type RenderGateBackend interface {
	// EnterRenderState applies blending, depth test, depth write, face
	// culling and scissor for subsequent draw calls.
	EnterRenderState(st gpucore.RenderState) error
}

// TessGateBackend issues draw calls.
type TessGateBackend interface {
	// RenderTess draws vertNb vertices of t starting at startIndex, with
	// instNb instances (0 or 1 meaning non-instanced). The wrapper has
	// verified the range against the vertex set's capacity.
	RenderTess(t TessID, startIndex, vertNb, instNb int) error
}

// Backend is the full capability contract a concrete GPU backend
// implements. It is the extension point of the rendering layer: the
// wrapper types delegate every GPU operation to exactly one of these
// capabilities, in the order the gate protocol guarantees.
type Backend interface {
	// Name returns the backend identifier (e.g. "trace", "wgpu").
	Name() string

	// Init initializes the backend. It must be called before any other
	// operation.
	Init() error

	// Close releases all backend resources. The backend must not be used
	// after Close.
	Close()

	BufferBackend
	TextureBackend
	FramebufferBackend
	ShaderBackend
	TessBackend
	PipelineBackend
	ShadingGateBackend
	RenderGateBackend
	TessGateBackend
}

// LoggerAware is implemented by backends that accept a logger. The glint
// context propagates its logger to such backends.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}

// DeviceAware is implemented by backends that can share a GPU device with
// a host application instead of creating their own.
type DeviceAware interface {
	SetDeviceProvider(gpucontext.DeviceProvider) error
}
