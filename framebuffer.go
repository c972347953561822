package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

// Framebuffer-level errors.
var (
	// ErrFramebufferDestroyed is returned when operating on a destroyed
	// framebuffer.
	ErrFramebufferDestroyed = errors.New("glint: framebuffer destroyed")
)

// FramebufferIncompleteError is returned when backend validation rejects
// the attachment configuration of a framebuffer.
type FramebufferIncompleteError struct {
	// Reason is the backend's incompleteness reason.
	Reason string
}

func (e *FramebufferIncompleteError) Error() string {
	return "glint: incomplete framebuffer: " + e.Reason
}

// NotDepthFormatError is returned when the format declared for the depth
// slot carries no depth component.
type NotDepthFormatError struct {
	Format gpucore.PixelFormat
}

func (e *NotDepthFormatError) Error() string {
	return fmt.Sprintf("glint: framebuffer depth slot: %v is not a depth format", e.Format)
}

// Framebuffer is a render target: zero or more color textures (the color
// slot, one texture per declared pixel format, attached in declaration
// order) and an optional depth texture (the depth slot).
//
// Slot textures are created and attached atomically with the framebuffer:
// a framebuffer that fails attachment or validation is rolled back and
// never returned.
type Framebuffer struct {
	ctx          *GraphicsContext
	id           backend.FramebufferID
	size         gpucore.Size
	colors       []*Texture
	colorFormats []gpucore.PixelFormat
	depth        *Texture
	back         bool
	destroyed    bool
}

// NewFramebuffer creates a framebuffer of the given size, synthesizing one
// color texture per format in colorFormats (attachment index = position in
// the list) and, when depthFormat is non-nil, a depth texture.
//
// An empty colorFormats with a depth format yields a depth-only target; an
// attributeless render into it is how shadow maps are drawn.
func NewFramebuffer(ctx *GraphicsContext, size gpucore.Size, mipmaps int, sampler gpucore.Sampler, colorFormats []gpucore.PixelFormat, depthFormat *gpucore.PixelFormat) (*Framebuffer, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	if depthFormat != nil && !gpucore.IsDepthFormat(*depthFormat) {
		return nil, &NotDepthFormatError{Format: *depthFormat}
	}

	id, err := ctx.backend.NewFramebuffer(size)
	if err != nil {
		return nil, fmt.Errorf("glint: cannot create framebuffer: %w", err)
	}

	fb := &Framebuffer{
		ctx:          ctx,
		id:           id,
		size:         size,
		colorFormats: append([]gpucore.PixelFormat(nil), colorFormats...),
	}

	rollback := func() {
		for _, t := range fb.colors {
			t.Destroy()
		}
		if fb.depth != nil {
			fb.depth.Destroy()
		}
		ctx.backend.DropFramebuffer(id)
	}

	for i, format := range colorFormats {
		tex, err := NewTexture(ctx, size, mipmaps, sampler, format)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("glint: framebuffer color slot %d: %w", i, err)
		}
		fb.colors = append(fb.colors, tex)
		if err := ctx.backend.AttachColorTexture(id, i, tex.id); err != nil {
			rollback()
			return nil, fmt.Errorf("glint: framebuffer color slot %d: unsupported attachment: %w", i, err)
		}
	}

	if depthFormat != nil {
		tex, err := NewTexture(ctx, size, mipmaps, sampler, *depthFormat)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("glint: framebuffer depth slot: %w", err)
		}
		fb.depth = tex
		if err := ctx.backend.AttachDepthTexture(id, tex.id); err != nil {
			rollback()
			return nil, fmt.Errorf("glint: framebuffer depth slot: unsupported attachment: %w", err)
		}
	}

	if err := ctx.backend.ValidateFramebuffer(id); err != nil {
		rollback()
		return nil, &FramebufferIncompleteError{Reason: err.Error()}
	}

	return fb, nil
}

// BackBuffer returns the default render target of the context at the given
// size. The back buffer has no inspectable slot textures.
func BackBuffer(ctx *GraphicsContext, size gpucore.Size) (*Framebuffer, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	id, err := ctx.backend.BackBuffer(size)
	if err != nil {
		return nil, fmt.Errorf("glint: cannot get back buffer: %w", err)
	}
	return &Framebuffer{ctx: ctx, id: id, size: size, back: true}, nil
}

// Size returns the framebuffer size.
func (f *Framebuffer) Size() gpucore.Size {
	return f.size
}

// ColorTextures returns the color slot textures in attachment order. The
// slice is owned by the framebuffer.
func (f *Framebuffer) ColorTextures() []*Texture {
	return f.colors
}

// ColorTexture returns the texture attached at the given color slot index.
func (f *Framebuffer) ColorTexture(i int) (*Texture, bool) {
	if i < 0 || i >= len(f.colors) {
		return nil, false
	}
	return f.colors[i], true
}

// ColorFormats returns the declared color slot formats in attachment
// order.
func (f *Framebuffer) ColorFormats() []gpucore.PixelFormat {
	return f.colorFormats
}

// DepthTexture returns the depth slot texture, nil when the framebuffer
// has no depth slot.
func (f *Framebuffer) DepthTexture() *Texture {
	return f.depth
}

// IsBackBuffer reports whether the framebuffer is the context's default
// render target.
func (f *Framebuffer) IsBackBuffer() bool {
	return f.back
}

// Destroy releases the framebuffer and its slot textures. The framebuffer
// must not be used afterwards.
func (f *Framebuffer) Destroy() {
	if f.destroyed {
		return
	}
	f.destroyed = true
	for _, t := range f.colors {
		t.Destroy()
	}
	if f.depth != nil {
		f.depth.Destroy()
	}
	f.ctx.backend.DropFramebuffer(f.id)
}
