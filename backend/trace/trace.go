// Package trace provides an in-memory tracing backend.
//
// The trace backend keeps every resource in host memory, records the name
// of each contract call it receives, and validates WGSL shader stages with
// naga. It is the reference implementation of the capability contract and
// the backend the package tests run against:
//
//	import _ "github.com/gogpu/glint/backend/trace"
//
// registers it under the name "trace".
package trace

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

func init() {
	backend.Register(backend.BackendTrace, func() backend.Backend {
		return New()
	})
}

// Option configures a trace backend.
type Option func(*Backend)

// WithoutShaderValidation disables naga validation of vertex and fragment
// stage sources. Use it when stage sources are placeholders rather than
// WGSL.
func WithoutShaderValidation() Option {
	return func(b *Backend) {
		b.validateShaders = false
	}
}

type bufferRes struct {
	data reflect.Value // addressable slice
	n    int
}

type textureRes struct {
	desc   backend.TextureDesc
	texels reflect.Value // allocated on first upload or clear
}

type framebufferRes struct {
	size   gpucore.Size
	colors map[int]backend.TextureID
	depth  backend.TextureID
	back   bool
}

type stageRes struct {
	ty     gpucore.StageType
	source string
}

type uniformRes struct {
	info backend.UniformInfo
	val  any
}

type programRes struct {
	semantics gpucore.VertexDesc
	uniforms  map[string]*uniformRes
	byIndex   []*uniformRes
}

type tessRes struct {
	desc      backend.TessDesc
	vertices  reflect.Value            // interleaved storage
	vertAttrs map[int]reflect.Value    // deinterleaved storage
	instances reflect.Value
	instAttrs map[int]reflect.Value
	indices   []uint32
}

type pipelineRes struct {
	nextBufBinding gpucore.BufferBinding
	nextTexBinding gpucore.TextureBinding
}

// Backend is the in-memory tracing backend.
type Backend struct {
	mu sync.Mutex

	initialized     bool
	validateShaders bool
	log             *slog.Logger

	nextID uint64
	calls  []string

	buffers      map[backend.BufferID]*bufferRes
	textures     map[backend.TextureID]*textureRes
	framebuffers map[backend.FramebufferID]*framebufferRes
	stages       map[backend.StageID]*stageRes
	programs     map[backend.ProgramID]*programRes
	tesses       map[backend.TessID]*tessRes
	pipelines    map[backend.PipelineID]*pipelineRes

	// Test knobs: reflection overrides applied to programs linked after
	// the knob is set.
	forcedUniformTypes map[string]gpucore.UniformType
	inactiveUniforms   map[string]bool
	inactiveAttribs    map[string]bool
}

// New returns an uninitialized trace backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		validateShaders:    true,
		buffers:            make(map[backend.BufferID]*bufferRes),
		textures:           make(map[backend.TextureID]*textureRes),
		framebuffers:       make(map[backend.FramebufferID]*framebufferRes),
		stages:             make(map[backend.StageID]*stageRes),
		programs:           make(map[backend.ProgramID]*programRes),
		tesses:             make(map[backend.TessID]*tessRes),
		pipelines:          make(map[backend.PipelineID]*pipelineRes),
		forcedUniformTypes: make(map[string]gpucore.UniformType),
		inactiveUniforms:   make(map[string]bool),
		inactiveAttribs:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return backend.BackendTrace }

// Init implements backend.Backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = true
	return nil
}

// Close implements backend.Backend.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initialized = false
	b.buffers = make(map[backend.BufferID]*bufferRes)
	b.textures = make(map[backend.TextureID]*textureRes)
	b.framebuffers = make(map[backend.FramebufferID]*framebufferRes)
	b.stages = make(map[backend.StageID]*stageRes)
	b.programs = make(map[backend.ProgramID]*programRes)
	b.tesses = make(map[backend.TessID]*tessRes)
	b.pipelines = make(map[backend.PipelineID]*pipelineRes)
}

// SetLogger implements backend.LoggerAware.
func (b *Backend) SetLogger(l *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = l
}

func (b *Backend) record(call string) {
	b.calls = append(b.calls, call)
}

// Calls returns the contract calls received so far, in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

// ResetCalls clears the recorded calls.
func (b *Backend) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// ForceUniformType makes programs linked afterwards reflect the given type
// for the named uniform, regardless of the host-declared type.
func (b *Backend) ForceUniformType(name string, ty gpucore.UniformType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forcedUniformTypes[name] = ty
}

// MarkUniformInactive makes programs linked afterwards report the named
// uniform as inactive.
func (b *Backend) MarkUniformInactive(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inactiveUniforms[name] = true
}

// MarkVertexAttribInactive makes programs linked afterwards report the
// named vertex attribute as inactive.
func (b *Backend) MarkVertexAttribInactive(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inactiveAttribs[name] = true
}

func (b *Backend) newID() uint64 {
	b.nextID++
	return b.nextID
}

// copySlice copies a typed slice held in an any, so resources own their
// storage.
func copySlice(v any) (reflect.Value, int, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return reflect.Value{}, 0, fmt.Errorf("trace: payload must be a slice, got %T", v)
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return out, rv.Len(), nil
}

// --- BufferBackend ---

func (b *Backend) NewBuffer(items any, n int) (backend.BufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewBuffer")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	data, got, err := copySlice(items)
	if err != nil {
		return backend.InvalidID, err
	}
	if got != n {
		return backend.InvalidID, fmt.Errorf("trace: buffer payload holds %d items, want %d", got, n)
	}
	id := backend.BufferID(b.newID())
	b.buffers[id] = &bufferRes{data: data, n: n}
	return id, nil
}

func (b *Backend) BufferLen(id backend.BufferID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := b.buffers[id]
	if !ok {
		return 0
	}
	return buf.n
}

func (b *Backend) SetBufferItem(id backend.BufferID, i int, x any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetBufferItem")
	buf, ok := b.buffers[id]
	if !ok {
		return backend.ErrUnknownResource
	}
	buf.data.Index(i).Set(reflect.ValueOf(x))
	return nil
}

func (b *Backend) WriteWholeBuffer(id backend.BufferID, items any, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("WriteWholeBuffer")
	buf, ok := b.buffers[id]
	if !ok {
		return backend.ErrUnknownResource
	}
	data, got, err := copySlice(items)
	if err != nil {
		return err
	}
	if got != n || n != buf.n {
		return fmt.Errorf("trace: whole buffer write of %d items into buffer of %d", got, buf.n)
	}
	buf.data = data
	return nil
}

func (b *Backend) MapBuffer(id backend.BufferID) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapBuffer")
	buf, ok := b.buffers[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	return buf.data.Interface(), nil
}

func (b *Backend) UnmapBuffer(id backend.BufferID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UnmapBuffer")
}

func (b *Backend) DropBuffer(id backend.BufferID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropBuffer")
	delete(b.buffers, id)
}

// --- TextureBackend ---

func (b *Backend) NewTexture(desc backend.TextureDesc) (backend.TextureID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewTexture")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	id := backend.TextureID(b.newID())
	b.textures[id] = &textureRes{desc: desc}
	return id, nil
}

// ensureTexels allocates the base-level backing store from the element
// type of the first payload seen.
func (t *textureRes) ensureTexels(elem reflect.Type) {
	if t.texels.IsValid() {
		return
	}
	n := t.desc.Size.Texels()
	t.texels = reflect.MakeSlice(reflect.SliceOf(elem), n, n)
}

func (b *Backend) UploadTexturePart(id backend.TextureID, off gpucore.Offset, size gpucore.Size, texels any, genMipmaps bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("UploadTexturePart")
	tex, ok := b.textures[id]
	if !ok {
		return backend.ErrUnknownResource
	}
	src := reflect.ValueOf(texels)
	if src.Kind() != reflect.Slice {
		return fmt.Errorf("trace: texel payload must be a slice, got %T", texels)
	}
	tex.ensureTexels(src.Type().Elem())
	w := int(tex.desc.Size.Width)
	for y := 0; y < int(size.Height); y++ {
		for x := 0; x < int(size.Width); x++ {
			dst := (int(off.Y)+y)*w + int(off.X) + x
			tex.texels.Index(dst).Set(src.Index(y*int(size.Width) + x))
		}
	}
	return nil
}

func (b *Backend) ClearTexturePart(id backend.TextureID, off gpucore.Offset, size gpucore.Size, value any, genMipmaps bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ClearTexturePart")
	tex, ok := b.textures[id]
	if !ok {
		return backend.ErrUnknownResource
	}
	v := reflect.ValueOf(value)
	tex.ensureTexels(v.Type())
	w := int(tex.desc.Size.Width)
	for y := 0; y < int(size.Height); y++ {
		for x := 0; x < int(size.Width); x++ {
			tex.texels.Index((int(off.Y)+y)*w + int(off.X) + x).Set(v)
		}
	}
	return nil
}

func (b *Backend) ReadTexture(id backend.TextureID) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ReadTexture")
	tex, ok := b.textures[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	if !tex.texels.IsValid() {
		return nil, fmt.Errorf("trace: texture was never written")
	}
	out := reflect.MakeSlice(tex.texels.Type(), tex.texels.Len(), tex.texels.Len())
	reflect.Copy(out, tex.texels)
	return out.Interface(), nil
}

func (b *Backend) DropTexture(id backend.TextureID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropTexture")
	delete(b.textures, id)
}

// --- FramebufferBackend ---

func (b *Backend) NewFramebuffer(size gpucore.Size) (backend.FramebufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewFramebuffer")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	id := backend.FramebufferID(b.newID())
	b.framebuffers[id] = &framebufferRes{size: size, colors: make(map[int]backend.TextureID)}
	return id, nil
}

func (b *Backend) BackBuffer(size gpucore.Size) (backend.FramebufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BackBuffer")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	id := backend.FramebufferID(b.newID())
	b.framebuffers[id] = &framebufferRes{size: size, back: true}
	return id, nil
}

func (b *Backend) AttachColorTexture(fb backend.FramebufferID, index int, tex backend.TextureID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttachColorTexture")
	f, ok := b.framebuffers[fb]
	if !ok {
		return backend.ErrUnknownResource
	}
	if _, ok := b.textures[tex]; !ok {
		return backend.ErrUnknownResource
	}
	f.colors[index] = tex
	return nil
}

func (b *Backend) AttachDepthTexture(fb backend.FramebufferID, tex backend.TextureID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("AttachDepthTexture")
	f, ok := b.framebuffers[fb]
	if !ok {
		return backend.ErrUnknownResource
	}
	if _, ok := b.textures[tex]; !ok {
		return backend.ErrUnknownResource
	}
	f.depth = tex
	return nil
}

func (b *Backend) ValidateFramebuffer(fb backend.FramebufferID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ValidateFramebuffer")
	f, ok := b.framebuffers[fb]
	if !ok {
		return backend.ErrUnknownResource
	}
	// Color attachments must be contiguous from slot 0.
	for i := 0; i < len(f.colors); i++ {
		if _, ok := f.colors[i]; !ok {
			return fmt.Errorf("trace: color attachment %d missing, slots must be contiguous", i)
		}
	}
	return nil
}

func (b *Backend) DropFramebuffer(fb backend.FramebufferID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropFramebuffer")
	delete(b.framebuffers, fb)
}

// --- ShaderBackend ---

func (b *Backend) NewStage(ty gpucore.StageType, source string) (backend.StageID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewStage")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	// Only vertex and fragment stages are WGSL; tessellation and geometry
	// sources pass through unvalidated.
	if b.validateShaders && (ty == gpucore.VertexShader || ty == gpucore.FragmentShader) {
		if _, err := naga.Compile(source); err != nil {
			return backend.InvalidID, fmt.Errorf("trace: %v", err)
		}
	}
	id := backend.StageID(b.newID())
	b.stages[id] = &stageRes{ty: ty, source: source}
	return id, nil
}

func (b *Backend) DropStage(id backend.StageID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropStage")
	delete(b.stages, id)
}

func (b *Backend) NewProgram(stages []backend.StageID, semantics gpucore.VertexDesc) (backend.ProgramID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewProgram")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	for _, s := range stages {
		if _, ok := b.stages[s]; !ok {
			return backend.InvalidID, backend.ErrUnknownResource
		}
	}
	id := backend.ProgramID(b.newID())
	b.programs[id] = &programRes{
		semantics: semantics,
		uniforms:  make(map[string]*uniformRes),
	}
	return id, nil
}

func (b *Backend) DropProgram(id backend.ProgramID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropProgram")
	delete(b.programs, id)
}

func (b *Backend) LocateUniform(p backend.ProgramID, name string, declared gpucore.UniformType) (backend.UniformInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("LocateUniform")
	prog, ok := b.programs[p]
	if !ok {
		return backend.UniformInfo{}, backend.ErrUnknownResource
	}
	if u, ok := prog.uniforms[name]; ok {
		return u.info, nil
	}
	// Without a real compiler the reflected type defaults to the declared
	// one; the knobs override.
	info := backend.UniformInfo{
		Index:  len(prog.byIndex),
		Type:   declared,
		Active: !b.inactiveUniforms[name],
	}
	if forced, ok := b.forcedUniformTypes[name]; ok {
		info.Type = forced
	}
	u := &uniformRes{info: info}
	prog.uniforms[name] = u
	prog.byIndex = append(prog.byIndex, u)
	return info, nil
}

func (b *Backend) LocateVertexAttrib(p backend.ProgramID, name string) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("LocateVertexAttrib")
	prog, ok := b.programs[p]
	if !ok {
		return 0, false
	}
	if b.inactiveAttribs[name] {
		return 0, false
	}
	if i, ok := prog.semantics.IndexOf(name); ok {
		return i, true
	}
	return 0, false
}

func (b *Backend) SetUniform(p backend.ProgramID, index int, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetUniform")
	prog, ok := b.programs[p]
	if !ok {
		return backend.ErrUnknownResource
	}
	if index < 0 || index >= len(prog.byIndex) {
		return fmt.Errorf("trace: uniform index %d out of range", index)
	}
	prog.byIndex[index].val = value
	return nil
}

// UniformValue returns the last value written to the named uniform of p,
// for test assertions.
func (b *Backend) UniformValue(p backend.ProgramID, name string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prog, ok := b.programs[p]
	if !ok {
		return nil, false
	}
	u, ok := prog.uniforms[name]
	if !ok {
		return nil, false
	}
	return u.val, true
}

// --- TessBackend ---

func (b *Backend) NewTess(desc backend.TessDesc) (backend.TessID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewTess")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	t := &tessRes{
		desc:      desc,
		vertAttrs: make(map[int]reflect.Value),
		instAttrs: make(map[int]reflect.Value),
	}
	if err := t.storeStream(desc.Vertices, false); err != nil {
		return backend.InvalidID, err
	}
	if err := t.storeStream(desc.Instances, true); err != nil {
		return backend.InvalidID, err
	}
	if desc.Indices != nil {
		t.indices = make([]uint32, len(desc.Indices))
		copy(t.indices, desc.Indices)
	}
	id := backend.TessID(b.newID())
	b.tesses[id] = t
	return id, nil
}

func (t *tessRes) storeStream(d *backend.VertexData, instance bool) error {
	if d == nil {
		return nil
	}
	if d.Deinterleaved() {
		dst := t.vertAttrs
		if instance {
			dst = t.instAttrs
		}
		for _, a := range d.Attributes {
			data, _, err := copySlice(a.Data)
			if err != nil {
				return err
			}
			dst[a.Index] = data
		}
		return nil
	}
	data, _, err := copySlice(d.Interleaved)
	if err != nil {
		return err
	}
	if instance {
		t.instances = data
	} else {
		t.vertices = data
	}
	return nil
}

func (b *Backend) MapTessVertices(id backend.TessID) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapTessVertices")
	t, ok := b.tesses[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	if !t.vertices.IsValid() {
		return nil, fmt.Errorf("trace: tess has no interleaved vertex storage")
	}
	return t.vertices.Interface(), nil
}

func (b *Backend) MapTessIndices(id backend.TessID) ([]uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapTessIndices")
	t, ok := b.tesses[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	if t.indices == nil {
		return nil, fmt.Errorf("trace: tess has no index storage")
	}
	return t.indices, nil
}

func (b *Backend) MapTessInstances(id backend.TessID) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapTessInstances")
	t, ok := b.tesses[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	if !t.instances.IsValid() {
		return nil, fmt.Errorf("trace: tess has no interleaved instance storage")
	}
	return t.instances.Interface(), nil
}

func (b *Backend) MapTessAttribute(id backend.TessID, attrIndex int, instance bool) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("MapTessAttribute")
	t, ok := b.tesses[id]
	if !ok {
		return nil, backend.ErrUnknownResource
	}
	attrs := t.vertAttrs
	if instance {
		attrs = t.instAttrs
	}
	data, ok := attrs[attrIndex]
	if !ok {
		return nil, fmt.Errorf("trace: tess has no attribute array %d", attrIndex)
	}
	return data.Interface(), nil
}

func (b *Backend) DropTess(id backend.TessID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropTess")
	delete(b.tesses, id)
}

// --- PipelineBackend ---

func (b *Backend) NewPipeline() (backend.PipelineID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("NewPipeline")
	if !b.initialized {
		return backend.InvalidID, backend.ErrNotInitialized
	}
	id := backend.PipelineID(b.newID())
	b.pipelines[id] = &pipelineRes{}
	return id, nil
}

func (b *Backend) StartPipeline(fb backend.FramebufferID, st gpucore.PipelineState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StartPipeline")
	if _, ok := b.framebuffers[fb]; !ok {
		return backend.ErrUnknownResource
	}
	return nil
}

func (b *Backend) BindBuffer(p backend.PipelineID, buf backend.BufferID) (gpucore.BufferBinding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindBuffer")
	pl, ok := b.pipelines[p]
	if !ok {
		return 0, backend.ErrUnknownResource
	}
	if _, ok := b.buffers[buf]; !ok {
		return 0, backend.ErrUnknownResource
	}
	binding := pl.nextBufBinding
	pl.nextBufBinding++
	return binding, nil
}

func (b *Backend) BindTexture(p backend.PipelineID, tex backend.TextureID) (gpucore.TextureBinding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("BindTexture")
	pl, ok := b.pipelines[p]
	if !ok {
		return 0, backend.ErrUnknownResource
	}
	if _, ok := b.textures[tex]; !ok {
		return 0, backend.ErrUnknownResource
	}
	binding := pl.nextTexBinding
	pl.nextTexBinding++
	return binding, nil
}

func (b *Backend) DropPipeline(p backend.PipelineID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("DropPipeline")
	delete(b.pipelines, p)
}

// --- Gate backends ---

func (b *Backend) ApplyShaderProgram(p backend.ProgramID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("ApplyShaderProgram")
	if _, ok := b.programs[p]; !ok {
		return backend.ErrUnknownResource
	}
	return nil
}

func (b *Backend) EnterRenderState(st gpucore.RenderState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("EnterRenderState")
	return nil
}

func (b *Backend) RenderTess(t backend.TessID, startIndex, vertNb, instNb int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(fmt.Sprintf("RenderTess(%d,%d,%d)", startIndex, vertNb, instNb))
	if _, ok := b.tesses[t]; !ok {
		return backend.ErrUnknownResource
	}
	return nil
}
