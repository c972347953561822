package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

// Tess-level errors.
var (
	// ErrTessDestroyed is returned when operating on a destroyed vertex
	// set.
	ErrTessDestroyed = errors.New("glint: tess destroyed")

	// ErrMixedVertexStorage is returned when a builder receives both
	// interleaved and deinterleaved data for the same stream.
	ErrMixedVertexStorage = errors.New("glint: cannot mix interleaved and deinterleaved storage in one stream")

	// ErrForbiddenAttributelessMapping is returned when mapping vertex
	// storage of an attributeless vertex set.
	ErrForbiddenAttributelessMapping = errors.New("glint: cannot map vertices of an attributeless tess")

	// ErrForbiddenDeinterleavedMapping is returned when requesting a
	// single combined vertex slice of deinterleaved storage.
	ErrForbiddenDeinterleavedMapping = errors.New("glint: cannot map deinterleaved storage as a combined slice")

	// ErrForbiddenInterleavedMapping is returned when requesting a single
	// attribute array of interleaved storage.
	ErrForbiddenInterleavedMapping = errors.New("glint: cannot map interleaved storage as an attribute slice")

	// ErrNoIndexData is returned when mapping indices of a vertex set
	// built without index data.
	ErrNoIndexData = errors.New("glint: tess has no index data")

	// ErrNoInstanceData is returned when mapping instances of a vertex
	// set built without instance data.
	ErrNoInstanceData = errors.New("glint: tess has no instance data")
)

// LengthIncoherencyError is returned when the vertex or instance data of a
// builder does not resolve to one coherent length: a deinterleaved
// attribute array disagrees with its siblings, or an explicit count
// override exceeds the length the data implies.
type LengthIncoherencyError struct {
	// Len is the incoherent length.
	Len int
}

func (e *LengthIncoherencyError) Error() string {
	return fmt.Sprintf("glint: incoherent vertex data length (%d)", e.Len)
}

// AttributelessError is returned when an explicit instance count is
// requested without instance data to back it.
type AttributelessError struct {
	Reason string
}

func (e *AttributelessError) Error() string {
	return "glint: " + e.Reason
}

// MapTypeError is returned when a mapped slice is requested with a type
// parameter that does not match the stored data.
type MapTypeError struct {
	Stored any
}

func (e *MapTypeError) Error() string {
	return fmt.Sprintf("glint: mapped slice type mismatch (stored %T)", e.Stored)
}

// vertexStream accumulates one data stream (vertex or instance) of a
// builder, in exactly one of the two storage layouts.
type vertexStream struct {
	interleaved    any
	interleavedLen int
	attributes     []backend.AttributeData
	set            bool
	deinterleaved  bool
}

// coherentLen resolves the stream to one item count. For deinterleaved
// storage every attribute array must agree.
func (s *vertexStream) coherentLen() (int, error) {
	if !s.set {
		return 0, nil
	}
	if !s.deinterleaved {
		return s.interleavedLen, nil
	}
	n := s.attributes[0].Len
	for _, a := range s.attributes[1:] {
		if a.Len != n {
			return 0, &LengthIncoherencyError{Len: a.Len}
		}
	}
	return n, nil
}

func (s *vertexStream) data() *backend.VertexData {
	if !s.set {
		return nil
	}
	n, _ := s.coherentLen()
	if s.deinterleaved {
		return &backend.VertexData{Attributes: s.attributes, Len: n}
	}
	return &backend.VertexData{Interleaved: s.interleaved, Len: n}
}

// TessBuilder accumulates vertex, index and instance data and builds an
// immutable-shape [Tess]. Vertex and instance streams independently use
// interleaved storage (one combined array, [TessBuilder.SetVertices]) or
// deinterleaved storage (one array per attribute, added incrementally with
// [TessBuilder.SetAttributes]); the two layouts cannot be mixed within a
// stream.
//
// Builder methods chain; the first staged error is reported by
// [TessBuilder.Build].
type TessBuilder struct {
	ctx *GraphicsContext

	mode      gpucore.Mode
	vertices  vertexStream
	instances vertexStream
	indices   []uint32
	restart   *uint32

	vertNb int
	instNb int

	vertexDesc   gpucore.VertexDesc
	instanceDesc gpucore.VertexDesc

	err error
}

// NewTessBuilder returns a builder for the given context. The default
// mode is a triangle list.
func NewTessBuilder(ctx *GraphicsContext) *TessBuilder {
	return &TessBuilder{ctx: ctx}
}

func (b *TessBuilder) stage(err error) *TessBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetMode sets the primitive mode.
func (b *TessBuilder) SetMode(mode gpucore.Mode) *TessBuilder {
	b.mode = mode
	return b
}

// SetVertices sets the interleaved vertex array (a []V slice).
func (b *TessBuilder) SetVertices(vertices any) *TessBuilder {
	n, ok := sliceLen(vertices)
	if !ok {
		return b.stage(fmt.Errorf("glint: vertices must be a slice, got %T", vertices))
	}
	if b.vertices.set && b.vertices.deinterleaved {
		return b.stage(ErrMixedVertexStorage)
	}
	b.vertices.set = true
	b.vertices.interleaved = vertices
	b.vertices.interleavedLen = n
	return b
}

// SetAttributes adds one deinterleaved vertex attribute array (a []T
// slice) for the given semantics index. Call once per attribute.
func (b *TessBuilder) SetAttributes(attrIndex int, data any) *TessBuilder {
	n, ok := sliceLen(data)
	if !ok {
		return b.stage(fmt.Errorf("glint: attribute %d data must be a slice, got %T", attrIndex, data))
	}
	if b.vertices.set && !b.vertices.deinterleaved {
		return b.stage(ErrMixedVertexStorage)
	}
	b.vertices.set = true
	b.vertices.deinterleaved = true
	b.vertices.attributes = append(b.vertices.attributes, backend.AttributeData{
		Index: attrIndex,
		Data:  data,
		Len:   n,
	})
	return b
}

// SetInstances sets the interleaved instance array (a []W slice).
func (b *TessBuilder) SetInstances(instances any) *TessBuilder {
	n, ok := sliceLen(instances)
	if !ok {
		return b.stage(fmt.Errorf("glint: instances must be a slice, got %T", instances))
	}
	if b.instances.set && b.instances.deinterleaved {
		return b.stage(ErrMixedVertexStorage)
	}
	b.instances.set = true
	b.instances.interleaved = instances
	b.instances.interleavedLen = n
	return b
}

// SetInstanceAttributes adds one deinterleaved instance attribute array
// for the given semantics index.
func (b *TessBuilder) SetInstanceAttributes(attrIndex int, data any) *TessBuilder {
	n, ok := sliceLen(data)
	if !ok {
		return b.stage(fmt.Errorf("glint: instance attribute %d data must be a slice, got %T", attrIndex, data))
	}
	if b.instances.set && !b.instances.deinterleaved {
		return b.stage(ErrMixedVertexStorage)
	}
	b.instances.set = true
	b.instances.deinterleaved = true
	b.instances.attributes = append(b.instances.attributes, backend.AttributeData{
		Index: attrIndex,
		Data:  data,
		Len:   n,
	})
	return b
}

// SetIndices sets the index data.
func (b *TessBuilder) SetIndices(indices []uint32) *TessBuilder {
	b.indices = indices
	return b
}

// SetPrimitiveRestartIndex enables primitive restart with the given index
// value.
func (b *TessBuilder) SetPrimitiveRestartIndex(index uint32) *TessBuilder {
	v := index
	b.restart = &v
	return b
}

// SetVertexNb overrides the effective vertex count. A zero n leaves the
// count to be inferred from index or vertex data.
func (b *TessBuilder) SetVertexNb(n int) *TessBuilder {
	b.vertNb = n
	return b
}

// SetInstanceNb overrides the effective instance count. A nonzero
// override requires instance data to back it.
func (b *TessBuilder) SetInstanceNb(n int) *TessBuilder {
	b.instNb = n
	return b
}

// SetVertexDesc attaches the vertex semantics description forwarded to the
// backend.
func (b *TessBuilder) SetVertexDesc(desc gpucore.VertexDesc) *TessBuilder {
	b.vertexDesc = desc
	return b
}

// SetInstanceDesc attaches the instance semantics description forwarded to
// the backend.
func (b *TessBuilder) SetInstanceDesc(desc gpucore.VertexDesc) *TessBuilder {
	b.instanceDesc = desc
	return b
}

// guessVertexNb resolves the effective vertex count. Precedence: explicit
// override (checked against whatever coherent length the supplied data
// implies), then index count, then vertex data length, then zero
// (attributeless).
func (b *TessBuilder) guessVertexNb() (int, error) {
	dataLen, err := b.vertices.coherentLen()
	if err != nil {
		return 0, err
	}

	if b.vertNb > 0 {
		switch {
		case b.vertices.set && b.vertNb > dataLen:
			return 0, &LengthIncoherencyError{Len: b.vertNb}
		case !b.vertices.set && len(b.indices) > 0 && b.vertNb > len(b.indices):
			return 0, &LengthIncoherencyError{Len: b.vertNb}
		}
		return b.vertNb, nil
	}

	if len(b.indices) > 0 {
		return len(b.indices), nil
	}
	return dataLen, nil
}

// guessInstanceNb resolves the effective instance count. A nonzero
// explicit override without instance data is an error; otherwise the data
// length wins.
func (b *TessBuilder) guessInstanceNb() (int, error) {
	dataLen, err := b.instances.coherentLen()
	if err != nil {
		return 0, err
	}

	if b.instNb > 0 {
		if !b.instances.set {
			return 0, &AttributelessError{Reason: "instance count override without instance data"}
		}
		if b.instNb > dataLen {
			return 0, &LengthIncoherencyError{Len: b.instNb}
		}
		return b.instNb, nil
	}
	return dataLen, nil
}

// Build creates the vertex set. The shape (mode, counts, index presence,
// restart index) is fixed afterwards; only the storage content may still
// be edited through the mapping accessors.
func (b *TessBuilder) Build() (*Tess, error) {
	if b.ctx.closed {
		return nil, ErrContextClosed
	}
	if b.err != nil {
		return nil, b.err
	}

	vertNb, err := b.guessVertexNb()
	if err != nil {
		return nil, err
	}
	instNb, err := b.guessInstanceNb()
	if err != nil {
		return nil, err
	}

	desc := backend.TessDesc{
		Mode:         b.mode,
		VertNb:       vertNb,
		InstNb:       instNb,
		Vertices:     b.vertices.data(),
		Instances:    b.instances.data(),
		Indices:      b.indices,
		RestartIndex: b.restart,
		VertexDesc:   b.vertexDesc,
		InstanceDesc: b.instanceDesc,
	}
	id, err := b.ctx.backend.NewTess(desc)
	if err != nil {
		return nil, fmt.Errorf("glint: cannot create tess: %w", err)
	}

	return &Tess{
		ctx:            b.ctx,
		id:             id,
		mode:           b.mode,
		vertNb:         vertNb,
		instNb:         instNb,
		idxNb:          len(b.indices),
		restart:        b.restart,
		attributeless:  !b.vertices.set,
		deinterleaved:  b.vertices.deinterleaved,
		hasInstances:   b.instances.set,
		instDeinterlvd: b.instances.deinterleaved,
	}, nil
}

// Tess is a GPU-resident vertex set: vertices plus optional indices and
// optional instance data. Its shape is immutable after build; storage may
// be live-mapped for in-place editing through the slice accessors but
// never resized.
type Tess struct {
	ctx *GraphicsContext
	id  backend.TessID

	mode           gpucore.Mode
	vertNb         int
	instNb         int
	idxNb          int
	restart        *uint32
	attributeless  bool
	deinterleaved  bool
	hasInstances   bool
	instDeinterlvd bool
	destroyed      bool
}

// Mode returns the primitive mode.
func (t *Tess) Mode() gpucore.Mode { return t.mode }

// VertNb returns the effective vertex count computed at build time.
func (t *Tess) VertNb() int { return t.vertNb }

// InstNb returns the effective instance count computed at build time.
func (t *Tess) InstNb() int { return t.instNb }

// IdxNb returns the index count, zero for direct rendering.
func (t *Tess) IdxNb() int { return t.idxNb }

// PrimitiveRestartIndex returns the restart index, nil when disabled.
func (t *Tess) PrimitiveRestartIndex() *uint32 { return t.restart }

// Destroy releases the vertex set. It must not be used afterwards.
func (t *Tess) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.ctx.backend.DropTess(t.id)
}

// VertexSlice maps the interleaved vertex storage of t as a live []V
// slice. Writes through the slice edit the storage in place. The vertex
// set must be interleaved and not attributeless.
func VertexSlice[V any](t *Tess) ([]V, error) {
	if t.destroyed {
		return nil, ErrTessDestroyed
	}
	if t.attributeless {
		return nil, ErrForbiddenAttributelessMapping
	}
	if t.deinterleaved {
		return nil, ErrForbiddenDeinterleavedMapping
	}
	mapped, err := t.ctx.backend.MapTessVertices(t.id)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	s, ok := mapped.([]V)
	if !ok {
		return nil, &MapTypeError{Stored: mapped}
	}
	return s, nil
}

// IndexSlice maps the index storage of t as a live slice.
func IndexSlice(t *Tess) ([]uint32, error) {
	if t.destroyed {
		return nil, ErrTessDestroyed
	}
	if t.idxNb == 0 {
		return nil, ErrNoIndexData
	}
	mapped, err := t.ctx.backend.MapTessIndices(t.id)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	return mapped, nil
}

// InstanceSlice maps the interleaved instance storage of t as a live []W
// slice.
func InstanceSlice[W any](t *Tess) ([]W, error) {
	if t.destroyed {
		return nil, ErrTessDestroyed
	}
	if !t.hasInstances {
		return nil, ErrNoInstanceData
	}
	if t.instDeinterlvd {
		return nil, ErrForbiddenDeinterleavedMapping
	}
	mapped, err := t.ctx.backend.MapTessInstances(t.id)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	s, ok := mapped.([]W)
	if !ok {
		return nil, &MapTypeError{Stored: mapped}
	}
	return s, nil
}

// AttributeSlice maps one deinterleaved vertex attribute array of t as a
// live []T slice. The type parameter is the witness identifying the
// attribute array's element type; the vertex set must be deinterleaved.
func AttributeSlice[T any](t *Tess, attrIndex int) ([]T, error) {
	return attributeSlice[T](t, attrIndex, false)
}

// InstanceAttributeSlice maps one deinterleaved instance attribute array
// of t.
func InstanceAttributeSlice[T any](t *Tess, attrIndex int) ([]T, error) {
	return attributeSlice[T](t, attrIndex, true)
}

func attributeSlice[T any](t *Tess, attrIndex int, instance bool) ([]T, error) {
	if t.destroyed {
		return nil, ErrTessDestroyed
	}
	if instance {
		if !t.hasInstances {
			return nil, ErrNoInstanceData
		}
		if !t.instDeinterlvd {
			return nil, ErrForbiddenInterleavedMapping
		}
	} else {
		if t.attributeless {
			return nil, ErrForbiddenAttributelessMapping
		}
		if !t.deinterleaved {
			return nil, ErrForbiddenInterleavedMapping
		}
	}
	mapped, err := t.ctx.backend.MapTessAttribute(t.id, attrIndex, instance)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	s, ok := mapped.([]T)
	if !ok {
		return nil, &MapTypeError{Stored: mapped}
	}
	return s, nil
}
