package gpucore

import (
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

func TestSizeContains(t *testing.T) {
	s := Size{Width: 4, Height: 4}

	tests := []struct {
		name string
		off  Offset
		sub  Size
		want bool
	}{
		{"whole", Offset{}, Size{Width: 4, Height: 4}, true},
		{"inner", Offset{X: 1, Y: 1}, Size{Width: 2, Height: 2}, true},
		{"corner texel", Offset{X: 3, Y: 3}, Size{Width: 1, Height: 1}, true},
		{"too wide", Offset{}, Size{Width: 5, Height: 1}, false},
		{"pushed out", Offset{X: 3, Y: 0}, Size{Width: 2, Height: 1}, false},
		{"empty at edge", Offset{X: 4, Y: 4}, Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.off, tt.sub); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.off, tt.sub, got, tt.want)
			}
		})
	}
}

func TestSizeTexels(t *testing.T) {
	if got := (Size{Width: 800, Height: 600}).Texels(); got != 480000 {
		t.Errorf("Texels() = %d, want 480000", got)
	}
}

func TestIsDepthFormat(t *testing.T) {
	tests := []struct {
		name   string
		format PixelFormat
		want   bool
	}{
		{"depth16 unorm", gputypes.TextureFormatDepth16Unorm, true},
		{"depth24 plus", gputypes.TextureFormatDepth24Plus, true},
		{"depth24 plus stencil8", gputypes.TextureFormatDepth24PlusStencil8, true},
		{"depth32 float", gputypes.TextureFormatDepth32Float, true},
		{"depth32 float stencil8", gputypes.TextureFormatDepth32FloatStencil8, true},
		{"stencil only", gputypes.TextureFormatStencil8, false},
		{"color", gputypes.TextureFormatRGBA8Unorm, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDepthFormat(tt.format); got != tt.want {
				t.Errorf("IsDepthFormat(%v) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestVertexDescValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    VertexDesc
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", VertexDesc{
			{Index: 0, Name: "position", Format: gputypes.VertexFormatFloat32x2},
			{Index: 1, Name: "color", Format: gputypes.VertexFormatFloat32x3},
		}, false},
		{"duplicate name", VertexDesc{
			{Index: 0, Name: "position"},
			{Index: 1, Name: "position"},
		}, true},
		{"duplicate index", VertexDesc{
			{Index: 0, Name: "position"},
			{Index: 0, Name: "color"},
		}, true},
		{"empty name", VertexDesc{{Index: 0, Name: ""}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVertexDescLookup(t *testing.T) {
	desc := VertexDesc{
		{Index: 0, Name: "position"},
		{Index: 3, Name: "weight"},
	}

	if i, ok := desc.IndexOf("weight"); !ok || i != 3 {
		t.Errorf("IndexOf(weight) = %d, %v", i, ok)
	}
	if _, ok := desc.IndexOf("missing"); ok {
		t.Error("IndexOf(missing) found")
	}
	if a, ok := desc.ByIndex(3); !ok || a.Name != "weight" {
		t.Errorf("ByIndex(3) = %+v, %v", a, ok)
	}
	if _, ok := desc.ByIndex(1); ok {
		t.Error("ByIndex(1) found")
	}
}

func TestUniformTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  UniformType
		ok    bool
	}{
		{"int32", int32(1), UniformInt, true},
		{"uint32", uint32(1), UniformUInt, true},
		{"float32", float32(1), UniformFloat, true},
		{"bool", true, UniformBool, true},
		{"vec2", f32.Vec2{}, UniformVec2, true},
		{"vec3", f32.Vec3{}, UniformVec3, true},
		{"vec4", f32.Vec4{}, UniformVec4, true},
		{"mat3", f32.Mat3{}, UniformMat3, true},
		{"mat4", f32.Mat4{}, UniformMat4, true},
		{"texture binding", TextureBinding(0), UniformSampler, true},
		{"buffer binding", BufferBinding(0), UniformBufferBinding, true},
		{"float64 rejected", float64(1), 0, false},
		{"int rejected", 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := UniformTypeOf(tt.value)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("UniformTypeOf(%T) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.ok)
			}
		})
	}
}
