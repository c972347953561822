package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

// Texture-level errors.
var (
	// ErrTextureDestroyed is returned when operating on a destroyed
	// texture.
	ErrTextureDestroyed = errors.New("glint: texture destroyed")

	// ErrInvalidTextureSize is returned when creating a texture with a
	// zero dimension.
	ErrInvalidTextureSize = errors.New("glint: invalid texture size")
)

// TextureBoundsError is returned when an upload or clear region exceeds
// the texture's allocated size.
type TextureBoundsError struct {
	// TextureSize is the allocated size.
	TextureSize gpucore.Size

	// Offset and Region describe the rejected region.
	Offset gpucore.Offset
	Region gpucore.Size
}

func (e *TextureBoundsError) Error() string {
	return fmt.Sprintf("glint: texture region out of bounds (texture %s, offset (%d,%d), region %s)",
		e.TextureSize, e.Offset.X, e.Offset.Y, e.Region)
}

// NotEnoughPixelsError is returned when a texel payload does not match the
// region it is uploaded to.
type NotEnoughPixelsError struct {
	// ExpectedTexels is the number of texels the region requires.
	ExpectedTexels int

	// ProvidedTexels is the number of texels the payload holds.
	ProvidedTexels int
}

func (e *NotEnoughPixelsError) Error() string {
	return fmt.Sprintf("glint: texel payload mismatch (expected %d texels, provided %d)", e.ExpectedTexels, e.ProvidedTexels)
}

// Texture is a GPU texture with a fixed size, mipmap count, sampler and
// pixel format. Upload and clear operations are bounds-checked against the
// size before reaching the backend.
type Texture struct {
	ctx       *GraphicsContext
	id        backend.TextureID
	size      gpucore.Size
	mipmaps   int
	format    gpucore.PixelFormat
	destroyed bool
}

// NewTexture creates a texture. mipmaps is the number of mipmap levels;
// use 1 for no mipmaps (0 is treated as 1).
func NewTexture(ctx *GraphicsContext, size gpucore.Size, mipmaps int, sampler gpucore.Sampler, format gpucore.PixelFormat) (*Texture, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTextureSize, size)
	}
	if mipmaps < 1 {
		mipmaps = 1
	}
	id, err := ctx.backend.NewTexture(backend.TextureDesc{
		Size:    size,
		Mipmaps: mipmaps,
		Sampler: sampler,
		Format:  format,
	})
	if err != nil {
		return nil, fmt.Errorf("glint: cannot create texture: %w", err)
	}
	return &Texture{ctx: ctx, id: id, size: size, mipmaps: mipmaps, format: format}, nil
}

// Size returns the texture size.
func (t *Texture) Size() gpucore.Size {
	return t.size
}

// Mipmaps returns the number of mipmap levels.
func (t *Texture) Mipmaps() int {
	return t.mipmaps
}

// Format returns the pixel format.
func (t *Texture) Format() gpucore.PixelFormat {
	return t.format
}

// Upload replaces the whole base level with texels, a typed slice holding
// exactly one item per texel.
func (t *Texture) Upload(texels any, genMipmaps bool) error {
	return t.UploadPart(gpucore.Offset{}, t.size, texels, genMipmaps)
}

// UploadPart replaces the region at off of the given size with texels.
func (t *Texture) UploadPart(off gpucore.Offset, size gpucore.Size, texels any, genMipmaps bool) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if !t.size.Contains(off, size) {
		return &TextureBoundsError{TextureSize: t.size, Offset: off, Region: size}
	}
	n, ok := sliceLen(texels)
	if !ok || n != size.Texels() {
		return &NotEnoughPixelsError{ExpectedTexels: size.Texels(), ProvidedTexels: n}
	}
	return t.ctx.backend.UploadTexturePart(t.id, off, size, texels, genMipmaps)
}

// Clear sets every texel of the base level to value.
func (t *Texture) Clear(value any, genMipmaps bool) error {
	return t.ClearPart(gpucore.Offset{}, t.size, value, genMipmaps)
}

// ClearPart sets every texel of the region at off to value.
func (t *Texture) ClearPart(off gpucore.Offset, size gpucore.Size, value any, genMipmaps bool) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if !t.size.Contains(off, size) {
		return &TextureBoundsError{TextureSize: t.size, Offset: off, Region: size}
	}
	return t.ctx.backend.ClearTexturePart(t.id, off, size, value, genMipmaps)
}

// Read returns the whole base-level content as a typed slice.
func (t *Texture) Read() (any, error) {
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	return t.ctx.backend.ReadTexture(t.id)
}

// Destroy releases the GPU texture. The texture must not be used
// afterwards.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.ctx.backend.DropTexture(t.id)
}
