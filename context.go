package glint

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/gpucontext"
)

// Context-level errors.
var (
	// ErrContextClosed is returned when operating on a closed context.
	ErrContextClosed = errors.New("glint: context closed")

	// ErrPipelineInProgress is returned when a pipeline is started while
	// another one is still open on the same context. The backend is
	// exclusively held by whichever gate is currently open.
	ErrPipelineInProgress = errors.New("glint: a pipeline is already in progress")

	// ErrUnknownBackend is returned when the backend named in WithBackend
	// is not registered.
	ErrUnknownBackend = errors.New("glint: unknown backend")
)

// Option configures a GraphicsContext during creation.
//
// Example:
//
//	// Default backend selection (registry priority order)
//	ctx, err := glint.NewContext()
//
//	// Explicit backend and shared device
//	ctx, err := glint.NewContext(
//	    glint.WithBackend("wgpu"),
//	    glint.WithDevice(app),
//	)
type Option func(*contextOptions)

// contextOptions holds optional configuration for context creation.
type contextOptions struct {
	backendName string
	backendInst backend.Backend
	device      gpucontext.DeviceProvider
	logger      *slog.Logger
}

// WithBackend selects a registered backend by name instead of the registry
// priority order.
func WithBackend(name string) Option {
	return func(o *contextOptions) {
		o.backendName = name
	}
}

// WithBackendInstance uses the given backend instance directly, bypassing
// the registry. The context takes ownership and initializes it. Use this
// for dependency injection in tests.
func WithBackendInstance(b backend.Backend) Option {
	return func(o *contextOptions) {
		o.backendInst = b
	}
}

// WithDevice shares a GPU device from a host application with the backend.
// The provider is handed to backends implementing [backend.DeviceAware];
// other backends ignore it.
func WithDevice(p gpucontext.DeviceProvider) Option {
	return func(o *contextOptions) {
		o.device = p
	}
}

// WithLogger overrides the package logger for this context's backend.
func WithLogger(l *slog.Logger) Option {
	return func(o *contextOptions) {
		o.logger = l
	}
}

// GraphicsContext owns a backend and hands out pipeline gates. All
// resources (buffers, textures, framebuffers, programs, vertex sets) are
// created against a context and must not outlive it.
//
// A context is single-threaded: at most one pipeline may be open at a
// time, and gate closures run to completion on the calling goroutine.
type GraphicsContext struct {
	backend      backend.Backend
	pipelineOpen bool
	closed       bool
}

// NewContext creates a graphics context over a backend.
//
// Without options, the backend is selected and initialized through the
// registry priority order ([backend.InitDefault]); blank-import a backend
// package to make it available.
func NewContext(opts ...Option) (*GraphicsContext, error) {
	var o contextOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		b   backend.Backend
		err error
	)
	switch {
	case o.backendInst != nil:
		b = o.backendInst
		if err = b.Init(); err != nil {
			return nil, fmt.Errorf("glint: backend %q init: %w", b.Name(), err)
		}
	case o.backendName != "":
		b = backend.Get(o.backendName)
		if b == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.backendName)
		}
		if err = b.Init(); err != nil {
			return nil, fmt.Errorf("glint: backend %q init: %w", o.backendName, err)
		}
	default:
		b, err = backend.InitDefault()
		if err != nil {
			return nil, err
		}
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}
	if la, ok := b.(backend.LoggerAware); ok {
		la.SetLogger(log)
	}

	if o.device != nil {
		if da, ok := b.(backend.DeviceAware); ok {
			if err := da.SetDeviceProvider(o.device); err != nil {
				b.Close()
				return nil, fmt.Errorf("glint: backend %q device provider: %w", b.Name(), err)
			}
		} else {
			log.Warn("backend does not accept a shared device", "backend", b.Name())
		}
	}

	log.Info("graphics context created", "backend", b.Name())
	return &GraphicsContext{backend: b}, nil
}

// Backend returns the backend the context runs on. It is exposed for
// backend-specific integration points; application code should not issue
// contract calls directly.
func (c *GraphicsContext) Backend() backend.Backend {
	return c.backend
}

// NewPipelineGate returns the root gate used to run pipelines on this
// context.
func (c *GraphicsContext) NewPipelineGate() PipelineGate {
	return PipelineGate{ctx: c}
}

// Close releases the backend and all its resources. The context must not
// be used after Close.
func (c *GraphicsContext) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.backend.Close()
}
