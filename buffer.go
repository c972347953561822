package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
)

// Buffer-level errors.
var (
	// ErrBufferDestroyed is returned when operating on a destroyed buffer.
	ErrBufferDestroyed = errors.New("glint: buffer destroyed")

	// ErrBufferAlreadyMapped is returned when a mutable slice is requested
	// while a previous one is still live. Call [BufferSlice.Unmap] first.
	ErrBufferAlreadyMapped = errors.New("glint: buffer already mapped")
)

// BufferOverflowError is returned when a buffer access lands past the end
// of the buffer.
type BufferOverflowError struct {
	// Index is the out-of-bounds item index.
	Index int

	// BufferLen is the buffer length fixed at creation.
	BufferLen int
}

func (e *BufferOverflowError) Error() string {
	return fmt.Sprintf("glint: buffer overflow (index = %d, buffer length = %d)", e.Index, e.BufferLen)
}

// TooFewValuesError is returned by whole-buffer writes providing fewer
// values than the buffer holds.
type TooFewValuesError struct {
	Provided int
	Expected int
}

func (e *TooFewValuesError) Error() string {
	return fmt.Sprintf("glint: too few values for whole buffer write (provided %d, expected %d)", e.Provided, e.Expected)
}

// TooManyValuesError is returned by whole-buffer writes providing more
// values than the buffer holds.
type TooManyValuesError struct {
	Provided int
	Expected int
}

func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf("glint: too many values for whole buffer write (provided %d, expected %d)", e.Provided, e.Expected)
}

// MapError is returned when the backend cannot map a resource's memory
// into host-visible storage.
type MapError struct {
	Err error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("glint: map failed: %v", e.Err)
}

func (e *MapError) Unwrap() error { return e.Err }

// Buffer is a linear, typed GPU memory region of fixed length. The length
// is set at creation and never changes; writes are bounds-checked against
// it before reaching the backend.
type Buffer[T any] struct {
	ctx       *GraphicsContext
	id        backend.BufferID
	len       int
	mapped    bool
	destroyed bool
}

// NewBuffer creates a buffer of n zero-valued items.
func NewBuffer[T any](ctx *GraphicsContext, n int) (*Buffer[T], error) {
	return newBuffer[T](ctx, make([]T, n))
}

// BufferFromSlice creates a buffer holding a copy of values.
func BufferFromSlice[T any](ctx *GraphicsContext, values []T) (*Buffer[T], error) {
	return newBuffer[T](ctx, values)
}

// BufferRepeat creates a buffer of n items all set to value.
func BufferRepeat[T any](ctx *GraphicsContext, n int, value T) (*Buffer[T], error) {
	items := make([]T, n)
	for i := range items {
		items[i] = value
	}
	return newBuffer[T](ctx, items)
}

func newBuffer[T any](ctx *GraphicsContext, items []T) (*Buffer[T], error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	id, err := ctx.backend.NewBuffer(items, len(items))
	if err != nil {
		return nil, fmt.Errorf("glint: cannot create buffer: %w", err)
	}
	return &Buffer[T]{ctx: ctx, id: id, len: len(items)}, nil
}

// Len returns the number of items in the buffer.
func (b *Buffer[T]) Len() int {
	return b.len
}

// At returns the item at index i. While a mutable slice from
// [Buffer.SliceMut] is live the buffer memory is already mapped and At
// fails with [ErrBufferAlreadyMapped]; read through the slice instead.
func (b *Buffer[T]) At(i int) (T, error) {
	var zero T
	if b.destroyed {
		return zero, ErrBufferDestroyed
	}
	if i < 0 || i >= b.len {
		return zero, &BufferOverflowError{Index: i, BufferLen: b.len}
	}
	if b.mapped {
		return zero, ErrBufferAlreadyMapped
	}
	mapped, err := b.ctx.backend.MapBuffer(b.id)
	if err != nil {
		return zero, &MapError{Err: err}
	}
	defer b.ctx.backend.UnmapBuffer(b.id)
	return mapped.([]T)[i], nil
}

// Set writes x at index i.
func (b *Buffer[T]) Set(i int, x T) error {
	if b.destroyed {
		return ErrBufferDestroyed
	}
	if i < 0 || i >= b.len {
		return &BufferOverflowError{Index: i, BufferLen: b.len}
	}
	return b.ctx.backend.SetBufferItem(b.id, i, x)
}

// WriteWhole replaces the entire buffer content with values. The number of
// values must match the buffer length exactly.
func (b *Buffer[T]) WriteWhole(values []T) error {
	if b.destroyed {
		return ErrBufferDestroyed
	}
	switch {
	case len(values) < b.len:
		return &TooFewValuesError{Provided: len(values), Expected: b.len}
	case len(values) > b.len:
		return &TooManyValuesError{Provided: len(values), Expected: b.len}
	}
	return b.ctx.backend.WriteWholeBuffer(b.id, values, len(values))
}

// Slice returns a copy of the buffer content. The copy is detached: it
// does not observe later writes. While a mutable slice from
// [Buffer.SliceMut] is live, Slice fails with [ErrBufferAlreadyMapped].
func (b *Buffer[T]) Slice() ([]T, error) {
	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.mapped {
		return nil, ErrBufferAlreadyMapped
	}
	mapped, err := b.ctx.backend.MapBuffer(b.id)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	defer b.ctx.backend.UnmapBuffer(b.id)
	out := make([]T, b.len)
	copy(out, mapped.([]T))
	return out, nil
}

// BufferSlice is a live host-visible view of a buffer's memory, produced
// by [Buffer.SliceMut]. Writes through Values reach the buffer directly.
// Unmap releases the view; the slice must not be used afterwards.
type BufferSlice[T any] struct {
	Values []T

	buf *Buffer[T]
}

// SliceMut maps the buffer memory for in-place editing. At most one live
// mutable slice of a buffer may exist at a time; a second request before
// [BufferSlice.Unmap] fails with [ErrBufferAlreadyMapped].
func (b *Buffer[T]) SliceMut() (*BufferSlice[T], error) {
	if b.destroyed {
		return nil, ErrBufferDestroyed
	}
	if b.mapped {
		return nil, ErrBufferAlreadyMapped
	}
	mapped, err := b.ctx.backend.MapBuffer(b.id)
	if err != nil {
		return nil, &MapError{Err: err}
	}
	b.mapped = true
	return &BufferSlice[T]{Values: mapped.([]T), buf: b}, nil
}

// Unmap releases the view.
func (s *BufferSlice[T]) Unmap() {
	if s.buf == nil {
		return
	}
	s.buf.ctx.backend.UnmapBuffer(s.buf.id)
	s.buf.mapped = false
	s.buf = nil
	s.Values = nil
}

// Destroy releases the GPU buffer. The buffer must not be used afterwards.
func (b *Buffer[T]) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.ctx.backend.DropBuffer(b.id)
}
