package glint

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/backend/trace"
	"github.com/gogpu/glint/gpucore"
)

const (
	testVertexWGSL = `
@vertex
fn vs_main(@location(0) position: vec2<f32>) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position, 0.0, 1.0);
}
`
	testFragmentWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`
)

func TestNewProgram(t *testing.T) {
	ctx, b := newTestContext(t)

	prog, warnings, err := NewProgram(ctx, "vs", "fs",
		WithUniforms(
			UniformDecl{Name: "u_time", Type: gpucore.UniformFloat},
			UniformDecl{Name: "u_proj", Type: gpucore.UniformMat4},
		),
	)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	defer prog.Destroy()

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	u, ok := prog.Uniform("u_time")
	if !ok {
		t.Fatal("Uniform(u_time) not found")
	}
	if !u.Active() {
		t.Error("u_time inactive, want active")
	}
	if got := u.Type(); got != gpucore.UniformFloat {
		t.Errorf("u_time type = %v, want float", got)
	}
	if _, ok := prog.Uniform("u_missing"); ok {
		t.Error("Uniform(u_missing) found, want miss")
	}

	// Stages do not outlive linking.
	var live int
	for _, call := range b.Calls() {
		switch call {
		case "NewStage":
			live++
		case "DropStage":
			live--
		}
	}
	if live != 0 {
		t.Errorf("%d stages still live after link", live)
	}
}

func TestNewProgramShaderValidation(t *testing.T) {
	b := trace.New() // validation on
	ctx, err := NewContext(WithBackendInstance(b))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer ctx.Close()

	prog, _, err := NewProgram(ctx, testVertexWGSL, testFragmentWGSL)
	if err != nil {
		t.Fatalf("NewProgram with valid WGSL: %v", err)
	}
	prog.Destroy()

	_, _, err = NewProgram(ctx, "this is not wgsl", testFragmentWGSL)
	var comp *CompilationError
	if !errors.As(err, &comp) {
		t.Fatalf("NewProgram with invalid vertex source error = %v, want CompilationError", err)
	}
	if comp.Type != gpucore.VertexShader {
		t.Errorf("failed stage = %v, want vertex shader", comp.Type)
	}
}

func TestNewProgramTessellationPair(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, _, err := NewProgram(ctx, "vs", "fs", WithTessellationStages("ctl", ""))
	if !errors.Is(err, ErrTessellationStagePair) {
		t.Errorf("error = %v, want ErrTessellationStagePair", err)
	}

	prog, _, err := NewProgram(ctx, "vs", "fs",
		WithTessellationStages("ctl", "eval"),
		WithGeometryStage("geom"),
	)
	if err != nil {
		t.Fatalf("NewProgram with full stage set: %v", err)
	}
	prog.Destroy()
}

func TestNewProgramInactiveUniformWarning(t *testing.T) {
	ctx, b := newTestContext(t)
	b.MarkUniformInactive("u_unused")

	prog, warnings, err := NewProgram(ctx, "vs", "fs",
		WithUniforms(UniformDecl{Name: "u_unused", Type: gpucore.UniformFloat}),
	)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	defer prog.Destroy()

	if len(warnings) != 1 || warnings[0].Kind != WarnInactiveUniform {
		t.Fatalf("warnings = %v, want one inactive uniform warning", warnings)
	}

	// The handle is usable; setting it later is a silent no-op.
	u, ok := prog.Uniform("u_unused")
	if !ok {
		t.Fatal("Uniform(u_unused) not found")
	}
	if u.Active() {
		t.Error("u_unused active, want inactive")
	}
}

func TestNewProgramUniformTypeMismatchWarning(t *testing.T) {
	ctx, b := newTestContext(t)
	b.ForceUniformType("u_scale", gpucore.UniformVec2)

	prog, warnings, err := NewProgram(ctx, "vs", "fs",
		WithUniforms(UniformDecl{Name: "u_scale", Type: gpucore.UniformFloat}),
	)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	defer prog.Destroy()

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", warnings)
	}
	w := warnings[0]
	if w.Kind != WarnUniformTypeMismatch || w.Declared != gpucore.UniformFloat || w.Reflected != gpucore.UniformVec2 {
		t.Errorf("warning = %+v, want float/vec2 mismatch", w)
	}
}

func TestNewProgramInactiveAttribWarning(t *testing.T) {
	ctx, b := newTestContext(t)
	b.MarkVertexAttribInactive("normal")

	sem := gpucore.VertexDesc{
		{Index: 0, Name: "position", Format: gputypes.VertexFormatFloat32x2},
		{Index: 1, Name: "normal", Format: gputypes.VertexFormatFloat32x3},
	}
	prog, warnings, err := NewProgram(ctx, "vs", "fs", WithSemantics(sem))
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	defer prog.Destroy()

	if len(warnings) != 1 || warnings[0].Kind != WarnInactiveVertexAttrib || warnings[0].Name != "normal" {
		t.Errorf("warnings = %v, want inactive attribute warning for normal", warnings)
	}
}

func TestNewProgramDuplicateSemantics(t *testing.T) {
	ctx, _ := newTestContext(t)

	sem := gpucore.VertexDesc{
		{Index: 0, Name: "position", Format: gputypes.VertexFormatFloat32x2},
		{Index: 0, Name: "color", Format: gputypes.VertexFormatFloat32x3},
	}
	if _, _, err := NewProgram(ctx, "vs", "fs", WithSemantics(sem)); err == nil {
		t.Error("NewProgram with duplicate semantics index succeeded, want error")
	}
}

func TestNewStageUnsupportedType(t *testing.T) {
	ctx, _ := newTestContext(t)

	if _, err := NewStage(ctx, gpucore.StageType(99), "src"); !errors.Is(err, ErrUnsupportedStageType) {
		t.Errorf("error = %v, want ErrUnsupportedStageType", err)
	}
}
