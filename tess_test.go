package glint

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

type testVertex struct {
	Position f32.Vec2
	Color    f32.Vec3
}

var testVertices = []testVertex{
	{Position: f32.Vec2{-0.5, -0.5}, Color: f32.Vec3{1, 0, 0}},
	{Position: f32.Vec2{0.5, -0.5}, Color: f32.Vec3{0, 1, 0}},
	{Position: f32.Vec2{0, 0.5}, Color: f32.Vec3{0, 0, 1}},
}

func TestTessBuilderInterleaved(t *testing.T) {
	ctx, _ := newTestContext(t)

	tess, err := NewTessBuilder(ctx).
		SetMode(gputypes.PrimitiveTopologyTriangleList).
		SetVertices(testVertices).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := tess.VertNb(); got != 3 {
		t.Errorf("VertNb() = %d, want 3", got)
	}
	if got := tess.InstNb(); got != 0 {
		t.Errorf("InstNb() = %d, want 0", got)
	}
	if got := tess.IdxNb(); got != 0 {
		t.Errorf("IdxNb() = %d, want 0", got)
	}
	if got := tess.Mode(); got != gputypes.PrimitiveTopologyTriangleList {
		t.Errorf("Mode() = %v", got)
	}
}

func TestTessBuilderDeinterleaved(t *testing.T) {
	ctx, _ := newTestContext(t)

	positions := []f32.Vec2{{-0.5, -0.5}, {0.5, -0.5}, {0, 0.5}}
	colors := []f32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	tess, err := NewTessBuilder(ctx).
		SetAttributes(0, positions).
		SetAttributes(1, colors).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := tess.VertNb(); got != 3 {
		t.Errorf("VertNb() = %d, want 3", got)
	}
}

func TestTessBuilderIncoherentAttributes(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := NewTessBuilder(ctx).
		SetAttributes(0, []f32.Vec2{{0, 0}, {1, 1}, {2, 2}}).
		SetAttributes(1, []f32.Vec3{{0, 0, 0}, {1, 1, 1}}).
		Build()
	var incoherent *LengthIncoherencyError
	if !errors.As(err, &incoherent) {
		t.Fatalf("Build error = %v, want LengthIncoherencyError", err)
	}
	if incoherent.Len != 2 {
		t.Errorf("incoherent length = %d, want 2", incoherent.Len)
	}
}

func TestTessBuilderMixedStorage(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetAttributes(0, []f32.Vec2{{0, 0}}).
		Build()
	if !errors.Is(err, ErrMixedVertexStorage) {
		t.Errorf("Build error = %v, want ErrMixedVertexStorage", err)
	}
}

func TestTessBuilderIndexed(t *testing.T) {
	ctx, _ := newTestContext(t)

	// Four vertices, six indices: the index count wins.
	quad := append(append([]testVertex(nil), testVertices...), testVertex{})
	tess, err := NewTessBuilder(ctx).
		SetVertices(quad).
		SetIndices([]uint32{0, 1, 2, 2, 1, 3}).
		SetPrimitiveRestartIndex(0xffffffff).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := tess.VertNb(); got != 6 {
		t.Errorf("VertNb() = %d, want index count 6", got)
	}
	if got := tess.IdxNb(); got != 6 {
		t.Errorf("IdxNb() = %d, want 6", got)
	}
	if got := tess.PrimitiveRestartIndex(); got == nil || *got != 0xffffffff {
		t.Errorf("PrimitiveRestartIndex() = %v, want 0xffffffff", got)
	}
}

func TestTessBuilderVertexNbOverride(t *testing.T) {
	ctx, _ := newTestContext(t)

	// Explicit count below the data length renders a prefix.
	tess, err := NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetVertexNb(2).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := tess.VertNb(); got != 2 {
		t.Errorf("VertNb() = %d, want 2", got)
	}
	tess.Destroy()

	// Explicit count past the data length is incoherent.
	_, err = NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetVertexNb(5).
		Build()
	var incoherent *LengthIncoherencyError
	if !errors.As(err, &incoherent) {
		t.Errorf("Build error = %v, want LengthIncoherencyError", err)
	}
}

func TestTessBuilderAttributeless(t *testing.T) {
	ctx, _ := newTestContext(t)

	// No vertex data at all: the shader synthesizes positions from the
	// vertex index.
	tess, err := NewTessBuilder(ctx).
		SetVertexNb(3).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := tess.VertNb(); got != 3 {
		t.Errorf("VertNb() = %d, want 3", got)
	}
	if _, err := VertexSlice[testVertex](tess); !errors.Is(err, ErrForbiddenAttributelessMapping) {
		t.Errorf("VertexSlice error = %v, want ErrForbiddenAttributelessMapping", err)
	}
}

func TestTessBuilderInstanceOverrideWithoutData(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetInstanceNb(4).
		Build()
	var attributeless *AttributelessError
	if !errors.As(err, &attributeless) {
		t.Errorf("Build error = %v, want AttributelessError", err)
	}
}

func TestTessBuilderInstanced(t *testing.T) {
	ctx, _ := newTestContext(t)

	offsets := []f32.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	tess, err := NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetInstances(offsets).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	if got := tess.InstNb(); got != 4 {
		t.Errorf("InstNb() = %d, want 4", got)
	}

	got, err := InstanceSlice[f32.Vec2](tess)
	if err != nil {
		t.Fatalf("InstanceSlice: %v", err)
	}
	if len(got) != 4 || got[3] != (f32.Vec2{1, 1}) {
		t.Errorf("InstanceSlice = %v", got)
	}
}

func TestTessBuilderStagedError(t *testing.T) {
	ctx, _ := newTestContext(t)

	// The first staged error survives later valid calls.
	_, err := NewTessBuilder(ctx).
		SetVertices(42).
		SetVertices(testVertices).
		Build()
	if err == nil {
		t.Fatal("Build with non-slice vertices succeeded, want error")
	}
}

func TestVertexSliceLive(t *testing.T) {
	ctx, _ := newTestContext(t)

	tess, err := NewTessBuilder(ctx).SetVertices(testVertices).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer tess.Destroy()

	verts, err := VertexSlice[testVertex](tess)
	if err != nil {
		t.Fatalf("VertexSlice: %v", err)
	}
	verts[0].Position = f32.Vec2{9, 9}

	again, err := VertexSlice[testVertex](tess)
	if err != nil {
		t.Fatalf("VertexSlice: %v", err)
	}
	if again[0].Position != (f32.Vec2{9, 9}) {
		t.Errorf("live edit lost: %v", again[0].Position)
	}

	// Wrong element type witness.
	if _, err := VertexSlice[f32.Vec2](tess); err == nil {
		t.Error("VertexSlice with wrong type succeeded, want error")
	}
}

func TestAttributeSliceMappings(t *testing.T) {
	ctx, _ := newTestContext(t)

	positions := []f32.Vec2{{0, 0}, {1, 1}, {2, 2}}
	deinterleaved, err := NewTessBuilder(ctx).SetAttributes(0, positions).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer deinterleaved.Destroy()

	got, err := AttributeSlice[f32.Vec2](deinterleaved, 0)
	if err != nil {
		t.Fatalf("AttributeSlice: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
	if _, err := VertexSlice[f32.Vec2](deinterleaved); !errors.Is(err, ErrForbiddenDeinterleavedMapping) {
		t.Errorf("VertexSlice on deinterleaved error = %v, want ErrForbiddenDeinterleavedMapping", err)
	}

	interleaved, err := NewTessBuilder(ctx).SetVertices(testVertices).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer interleaved.Destroy()

	if _, err := AttributeSlice[f32.Vec2](interleaved, 0); !errors.Is(err, ErrForbiddenInterleavedMapping) {
		t.Errorf("AttributeSlice on interleaved error = %v, want ErrForbiddenInterleavedMapping", err)
	}
}

func TestIndexSlice(t *testing.T) {
	ctx, _ := newTestContext(t)

	indexed, err := NewTessBuilder(ctx).
		SetVertices(testVertices).
		SetIndices([]uint32{0, 1, 2}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer indexed.Destroy()

	idx, err := IndexSlice(indexed)
	if err != nil {
		t.Fatalf("IndexSlice: %v", err)
	}
	if len(idx) != 3 || idx[2] != 2 {
		t.Errorf("IndexSlice = %v", idx)
	}

	direct, err := NewTessBuilder(ctx).SetVertices(testVertices).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer direct.Destroy()

	if _, err := IndexSlice(direct); !errors.Is(err, ErrNoIndexData) {
		t.Errorf("IndexSlice on direct tess error = %v, want ErrNoIndexData", err)
	}
}
