package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

// Gate-level errors.
var (
	// ErrGateClosed is returned when a gate or binding escapes the closure
	// it was handed to and is used after the closure returned.
	ErrGateClosed = errors.New("glint: gate used outside its closure")

	// ErrBindingExpired is returned when a bound resource is consulted
	// after its pipeline finished or after it was released.
	ErrBindingExpired = errors.New("glint: binding expired")
)

// AlreadyBoundError is returned when a resource is bound into a pipeline
// while a previous live binding of the same resource exists. Release the
// first binding before binding again.
type AlreadyBoundError struct {
	// Resource describes the doubly bound resource.
	Resource string
}

func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("glint: %s is already bound in this pipeline", e.Resource)
}

// Render is the outcome of running a pipeline. It carries the first error
// that occurred inside the gate closures, nil on success.
type Render struct {
	err error
}

// Ok reports whether the pipeline ran without error.
func (r Render) Ok() bool { return r.err == nil }

// Err returns the pipeline error, nil on success.
func (r Render) Err() error { return r.err }

// scope tracks whether a gate's enclosing closure is still running. Every
// gate and binding handed to a closure checks its scope before touching
// the backend, so a leaked gate fails cleanly instead of issuing commands
// into a finished pipeline.
type scope struct {
	open bool
}

// PipelineGate is the root of the gate protocol. It is obtained from
// [GraphicsContext.NewPipelineGate] and runs complete pipelines.
type PipelineGate struct {
	ctx *GraphicsContext
}

// Pipeline runs one pipeline against target: the pipeline state is applied
// (clears, viewport, sRGB), f runs with a [Pipeline] for resource binding
// and a [ShadingGate] for nesting into shading, and the pipeline is torn
// down when f returns. Bindings created inside f expire when Pipeline
// returns.
//
// At most one pipeline may be open per context.
func (g PipelineGate) Pipeline(target *Framebuffer, st gpucore.PipelineState, f func(*Pipeline, *ShadingGate) error) Render {
	if g.ctx.closed {
		return Render{err: ErrContextClosed}
	}
	if g.ctx.pipelineOpen {
		return Render{err: ErrPipelineInProgress}
	}
	if target.destroyed {
		return Render{err: ErrFramebufferDestroyed}
	}

	g.ctx.pipelineOpen = true
	defer func() { g.ctx.pipelineOpen = false }()

	if err := g.ctx.backend.StartPipeline(target.id, st); err != nil {
		return Render{err: fmt.Errorf("glint: cannot start pipeline: %w", err)}
	}
	id, err := g.ctx.backend.NewPipeline()
	if err != nil {
		return Render{err: fmt.Errorf("glint: cannot create pipeline: %w", err)}
	}

	sc := &scope{open: true}
	p := &Pipeline{
		ctx:           g.ctx,
		id:            id,
		scope:         sc,
		boundBuffers:  make(map[backend.BufferID]*BoundBuffer),
		boundTextures: make(map[backend.TextureID]*BoundTexture),
	}
	shd := &ShadingGate{ctx: g.ctx, scope: sc}

	ferr := f(p, shd)

	sc.open = false
	for _, b := range p.boundBuffers {
		b.expired = true
	}
	for _, t := range p.boundTextures {
		t.expired = true
	}
	g.ctx.backend.DropPipeline(id)

	return Render{err: ferr}
}

// Pipeline binds resources (buffers, textures) for shader access during
// one run of [PipelineGate.Pipeline]. It is only valid inside the closure
// it was handed to.
type Pipeline struct {
	ctx   *GraphicsContext
	id    backend.PipelineID
	scope *scope

	boundBuffers  map[backend.BufferID]*BoundBuffer
	boundTextures map[backend.TextureID]*BoundTexture
}

// BoundBuffer is a buffer binding live for the duration of a pipeline. Its
// binding index is passed to a buffer-binding uniform through
// [ProgramInterface.Set].
type BoundBuffer struct {
	pipeline *Pipeline
	id       backend.BufferID
	binding  gpucore.BufferBinding
	expired  bool
}

// Binding returns the shader binding index of the bound buffer.
func (b *BoundBuffer) Binding() (gpucore.BufferBinding, error) {
	if b.expired {
		return 0, ErrBindingExpired
	}
	return b.binding, nil
}

// Release ends the binding early, allowing the buffer to be bound again
// within the same pipeline.
func (b *BoundBuffer) Release() {
	if b.expired {
		return
	}
	b.expired = true
	delete(b.pipeline.boundBuffers, b.id)
}

// BoundTexture is a texture binding live for the duration of a pipeline.
type BoundTexture struct {
	pipeline *Pipeline
	id       backend.TextureID
	binding  gpucore.TextureBinding
	expired  bool
}

// Binding returns the shader binding index of the bound texture.
func (t *BoundTexture) Binding() (gpucore.TextureBinding, error) {
	if t.expired {
		return 0, ErrBindingExpired
	}
	return t.binding, nil
}

// Release ends the binding early.
func (t *BoundTexture) Release() {
	if t.expired {
		return
	}
	t.expired = true
	delete(t.pipeline.boundTextures, t.id)
}

// BindBuffer binds buf into p for shader access. At most one live binding
// per buffer: binding a buffer already bound in this pipeline fails with
// [AlreadyBoundError] until the first binding is released.
func BindBuffer[T any](p *Pipeline, buf *Buffer[T]) (*BoundBuffer, error) {
	if !p.scope.open {
		return nil, ErrGateClosed
	}
	if buf.destroyed {
		return nil, ErrBufferDestroyed
	}
	if _, live := p.boundBuffers[buf.id]; live {
		return nil, &AlreadyBoundError{Resource: "buffer"}
	}
	binding, err := p.ctx.backend.BindBuffer(p.id, buf.id)
	if err != nil {
		return nil, fmt.Errorf("glint: cannot bind buffer: %w", err)
	}
	b := &BoundBuffer{pipeline: p, id: buf.id, binding: binding}
	p.boundBuffers[buf.id] = b
	return b, nil
}

// BindTexture binds tex into the pipeline for shader access. At most one
// live binding per texture.
func (p *Pipeline) BindTexture(tex *Texture) (*BoundTexture, error) {
	if !p.scope.open {
		return nil, ErrGateClosed
	}
	if tex.destroyed {
		return nil, ErrTextureDestroyed
	}
	if _, live := p.boundTextures[tex.id]; live {
		return nil, &AlreadyBoundError{Resource: "texture"}
	}
	binding, err := p.ctx.backend.BindTexture(p.id, tex.id)
	if err != nil {
		return nil, fmt.Errorf("glint: cannot bind texture: %w", err)
	}
	t := &BoundTexture{pipeline: p, id: tex.id, binding: binding}
	p.boundTextures[tex.id] = t
	return t, nil
}
