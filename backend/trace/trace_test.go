package trace

import (
	"errors"
	"testing"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

func newInitialized(t *testing.T) *Backend {
	t.Helper()
	b := New(WithoutShaderValidation())
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func TestBufferStore(t *testing.T) {
	b := newInitialized(t)

	id, err := b.NewBuffer([]int32{1, 2, 3}, 3)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if got := b.BufferLen(id); got != 3 {
		t.Errorf("BufferLen = %d, want 3", got)
	}

	// The store owns a copy, not the caller's slice.
	src := []int32{9, 9, 9}
	id2, err := b.NewBuffer(src, 3)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	src[0] = 0
	mapped, err := b.MapBuffer(id2)
	if err != nil {
		t.Fatalf("MapBuffer: %v", err)
	}
	if got := mapped.([]int32)[0]; got != 9 {
		t.Errorf("buffer aliased caller storage: %d", got)
	}
	b.UnmapBuffer(id2)

	b.DropBuffer(id)
	if _, err := b.MapBuffer(id); !errors.Is(err, backend.ErrUnknownResource) {
		t.Errorf("MapBuffer after drop error = %v, want ErrUnknownResource", err)
	}
}

func TestBufferPayloadArity(t *testing.T) {
	b := newInitialized(t)

	if _, err := b.NewBuffer([]int32{1, 2}, 3); err == nil {
		t.Error("NewBuffer with short payload succeeded")
	}
	if _, err := b.NewBuffer(42, 1); err == nil {
		t.Error("NewBuffer with non-slice payload succeeded")
	}
}

func TestCallRecording(t *testing.T) {
	b := newInitialized(t)

	id, err := b.NewBuffer([]int32{1}, 1)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	b.DropBuffer(id)

	got := b.Calls()
	want := []string{"NewBuffer", "DropBuffer"}
	if len(got) != len(want) {
		t.Fatalf("Calls() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}

	b.ResetCalls()
	if got := b.Calls(); len(got) != 0 {
		t.Errorf("Calls() after reset = %v, want empty", got)
	}
}

func TestFramebufferContiguousSlots(t *testing.T) {
	b := newInitialized(t)

	fb, err := b.NewFramebuffer(gpucore.Size{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewFramebuffer: %v", err)
	}
	tex, err := b.NewTexture(backend.TextureDesc{Size: gpucore.Size{Width: 4, Height: 4}})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}

	// Attaching at slot 1 with slot 0 empty leaves a gap.
	if err := b.AttachColorTexture(fb, 1, tex); err != nil {
		t.Fatalf("AttachColorTexture: %v", err)
	}
	if err := b.ValidateFramebuffer(fb); err == nil {
		t.Error("ValidateFramebuffer accepted a gapped attachment list")
	}

	if err := b.AttachColorTexture(fb, 0, tex); err != nil {
		t.Fatalf("AttachColorTexture: %v", err)
	}
	if err := b.ValidateFramebuffer(fb); err != nil {
		t.Errorf("ValidateFramebuffer: %v", err)
	}
}

func TestTessStreams(t *testing.T) {
	b := newInitialized(t)

	id, err := b.NewTess(backend.TessDesc{
		VertNb: 2,
		Vertices: &backend.VertexData{
			Attributes: []backend.AttributeData{
				{Index: 0, Data: []float32{1, 2}, Len: 2},
				{Index: 1, Data: []float32{3, 4}, Len: 2},
			},
			Len: 2,
		},
		Indices: []uint32{0, 1},
	})
	if err != nil {
		t.Fatalf("NewTess: %v", err)
	}

	attr, err := b.MapTessAttribute(id, 1, false)
	if err != nil {
		t.Fatalf("MapTessAttribute: %v", err)
	}
	if got := attr.([]float32); got[1] != 4 {
		t.Errorf("attribute 1 = %v", got)
	}

	if _, err := b.MapTessVertices(id); err == nil {
		t.Error("MapTessVertices on deinterleaved storage succeeded")
	}
	idx, err := b.MapTessIndices(id)
	if err != nil {
		t.Fatalf("MapTessIndices: %v", err)
	}
	if len(idx) != 2 {
		t.Errorf("indices = %v", idx)
	}
}

func TestUniformKnobs(t *testing.T) {
	b := newInitialized(t)
	b.MarkUniformInactive("dead")
	b.ForceUniformType("twisted", gpucore.UniformMat4)

	p, err := b.NewProgram(nil, nil)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	info, err := b.LocateUniform(p, "dead", gpucore.UniformFloat)
	if err != nil {
		t.Fatalf("LocateUniform: %v", err)
	}
	if info.Active {
		t.Error("dead uniform reported active")
	}

	info, err = b.LocateUniform(p, "twisted", gpucore.UniformFloat)
	if err != nil {
		t.Fatalf("LocateUniform: %v", err)
	}
	if info.Type != gpucore.UniformMat4 {
		t.Errorf("twisted type = %v, want mat4", info.Type)
	}

	// Untouched uniforms reflect the declared type.
	info, err = b.LocateUniform(p, "plain", gpucore.UniformVec2)
	if err != nil {
		t.Fatalf("LocateUniform: %v", err)
	}
	if !info.Active || info.Type != gpucore.UniformVec2 {
		t.Errorf("plain = %+v, want active vec2", info)
	}
}

func TestCloseResetsState(t *testing.T) {
	b := New(WithoutShaderValidation())
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	id, err := b.NewBuffer([]int32{1}, 1)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	b.Close()

	if _, err := b.MapBuffer(id); !errors.Is(err, backend.ErrUnknownResource) {
		t.Errorf("MapBuffer after Close error = %v, want ErrUnknownResource", err)
	}
	if _, err := b.NewBuffer([]int32{1}, 1); !errors.Is(err, backend.ErrNotInitialized) {
		t.Errorf("NewBuffer after Close error = %v, want ErrNotInitialized", err)
	}
}
