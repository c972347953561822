package glint

import (
	"errors"
	"fmt"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpucore"
)

// Shader-level errors.
var (
	// ErrProgramDestroyed is returned when operating on a destroyed
	// program.
	ErrProgramDestroyed = errors.New("glint: program destroyed")

	// ErrUnsupportedStageType is returned when a backend does not support
	// a requested shader stage type.
	ErrUnsupportedStageType = errors.New("glint: unsupported shader stage type")

	// ErrTessellationStagePair is returned when only one of the two
	// tessellation stages is supplied.
	ErrTessellationStagePair = errors.New("glint: tessellation stages must be supplied in pairs")
)

// CompilationError is returned when a shader stage fails to compile. It
// carries the backend compiler log.
type CompilationError struct {
	// Type is the stage that failed.
	Type gpucore.StageType

	// Log is the backend compiler output.
	Log string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("glint: %s compilation failed: %s", e.Type, e.Log)
}

// LinkError is returned when program linking fails. It carries the backend
// linker log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "glint: program link failed: " + e.Log
}

// Stage is one compiled shader stage. Stages are linked into a [Program]
// and may be destroyed once linked.
type Stage struct {
	ctx       *GraphicsContext
	id        backend.StageID
	ty        gpucore.StageType
	destroyed bool
}

// NewStage compiles source for the given stage type.
func NewStage(ctx *GraphicsContext, ty gpucore.StageType, source string) (*Stage, error) {
	if ctx.closed {
		return nil, ErrContextClosed
	}
	if ty < gpucore.VertexShader || ty > gpucore.FragmentShader {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStageType, ty)
	}
	id, err := ctx.backend.NewStage(ty, source)
	if err != nil {
		return nil, &CompilationError{Type: ty, Log: err.Error()}
	}
	return &Stage{ctx: ctx, id: id, ty: ty}, nil
}

// Type returns the stage type.
func (s *Stage) Type() gpucore.StageType {
	return s.ty
}

// Destroy releases the stage.
func (s *Stage) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.ctx.backend.DropStage(s.id)
}

// UniformDecl declares a uniform the host intends to set: its shader name
// and its host-side type.
type UniformDecl struct {
	Name string
	Type gpucore.UniformType
}

// Uniform is a handle to one uniform of a linked program, obtained at
// build time through [WithUniforms] or dynamically through
// [ProgramInterface.Query]. Setting an inactive uniform is a silent no-op;
// the inactivity was already reported as a [ProgramWarning].
type Uniform struct {
	name     string
	declared gpucore.UniformType
	info     backend.UniformInfo
}

// Name returns the shader name of the uniform.
func (u *Uniform) Name() string { return u.name }

// Type returns the host-declared type of the uniform.
func (u *Uniform) Type() gpucore.UniformType { return u.declared }

// Active reports whether the uniform is active in the linked program.
func (u *Uniform) Active() bool { return u.info.Active }

// ProgramWarningKind enumerates the non-fatal reflection mismatches
// reported while building a program.
type ProgramWarningKind int

// Program warning kinds.
const (
	// WarnInactiveUniform: the uniform exists in no linked stage or was
	// optimized out.
	WarnInactiveUniform ProgramWarningKind = iota

	// WarnUniformTypeMismatch: the host-declared type differs from the
	// type the compiled shader reflects.
	WarnUniformTypeMismatch

	// WarnInactiveVertexAttrib: a declared vertex attribute is not read
	// by the vertex stage.
	WarnInactiveVertexAttrib
)

// ProgramWarning is a non-fatal reflection mismatch. Warnings accompany a
// usable program; the caller decides whether to treat them as fatal.
type ProgramWarning struct {
	Kind ProgramWarningKind
	Name string

	// Declared and Reflected are set for type mismatches.
	Declared  gpucore.UniformType
	Reflected gpucore.UniformType
}

// String returns a log-friendly description of the warning.
func (w ProgramWarning) String() string {
	switch w.Kind {
	case WarnInactiveUniform:
		return fmt.Sprintf("inactive uniform %q", w.Name)
	case WarnUniformTypeMismatch:
		return fmt.Sprintf("uniform %q type mismatch (declared %s, shader has %s)", w.Name, w.Declared, w.Reflected)
	case WarnInactiveVertexAttrib:
		return fmt.Sprintf("inactive vertex attribute %q", w.Name)
	default:
		return fmt.Sprintf("unknown warning for %q", w.Name)
	}
}

// ProgramOption configures program creation.
type ProgramOption func(*programOptions)

type programOptions struct {
	tessCtl  string
	tessEval string
	hasTess  bool
	geometry string
	hasGeom  bool
	sem      gpucore.VertexDesc
	uniforms []UniformDecl
}

// WithTessellationStages adds a tessellation control / evaluation stage
// pair to the program.
func WithTessellationStages(control, evaluation string) ProgramOption {
	return func(o *programOptions) {
		o.tessCtl = control
		o.tessEval = evaluation
		o.hasTess = true
	}
}

// WithGeometryStage adds a geometry stage to the program.
func WithGeometryStage(source string) ProgramOption {
	return func(o *programOptions) {
		o.geometry = source
		o.hasGeom = true
	}
}

// WithSemantics links the program against a vertex semantics description.
// Attributes declared here but unused by the vertex stage are reported as
// warnings.
func WithSemantics(sem gpucore.VertexDesc) ProgramOption {
	return func(o *programOptions) {
		o.sem = sem
	}
}

// WithUniforms declares the uniforms the host intends to set. Each
// declaration is reflected against the linked program; inactive uniforms
// and type mismatches become warnings, never build failures.
func WithUniforms(decls ...UniformDecl) ProgramOption {
	return func(o *programOptions) {
		o.uniforms = append(o.uniforms, decls...)
	}
}

// Program is a linked shader program plus the reflected uniform interface
// used to set its inputs. The vertex and fragment stages are mandatory;
// tessellation stages come in pairs; geometry is optional.
type Program struct {
	ctx       *GraphicsContext
	id        backend.ProgramID
	sem       gpucore.VertexDesc
	uniforms  map[string]*Uniform
	destroyed bool
}

// NewProgram compiles and links a program from stage sources. Reflection
// mismatches (inactive uniform or attribute, uniform type mismatch) are
// returned as warnings alongside a usable program; only compilation and
// link failures are errors.
func NewProgram(ctx *GraphicsContext, vertexSrc, fragmentSrc string, opts ...ProgramOption) (*Program, []ProgramWarning, error) {
	if ctx.closed {
		return nil, nil, ErrContextClosed
	}

	var o programOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasTess && (o.tessCtl == "" || o.tessEval == "") {
		return nil, nil, ErrTessellationStagePair
	}
	if err := o.sem.Validate(); err != nil {
		return nil, nil, err
	}

	type stageSrc struct {
		ty  gpucore.StageType
		src string
	}
	srcs := []stageSrc{{gpucore.VertexShader, vertexSrc}}
	if o.hasTess {
		srcs = append(srcs,
			stageSrc{gpucore.TessellationControlShader, o.tessCtl},
			stageSrc{gpucore.TessellationEvaluationShader, o.tessEval},
		)
	}
	if o.hasGeom {
		srcs = append(srcs, stageSrc{gpucore.GeometryShader, o.geometry})
	}
	srcs = append(srcs, stageSrc{gpucore.FragmentShader, fragmentSrc})

	stages := make([]*Stage, 0, len(srcs))
	dropStages := func() {
		for _, s := range stages {
			s.Destroy()
		}
	}
	for _, s := range srcs {
		stage, err := NewStage(ctx, s.ty, s.src)
		if err != nil {
			dropStages()
			return nil, nil, err
		}
		stages = append(stages, stage)
	}

	ids := make([]backend.StageID, len(stages))
	for i, s := range stages {
		ids[i] = s.id
	}
	id, err := ctx.backend.NewProgram(ids, o.sem)
	// Stages are no longer needed once linked (or once linking failed).
	dropStages()
	if err != nil {
		return nil, nil, &LinkError{Log: err.Error()}
	}

	p := &Program{
		ctx:      ctx,
		id:       id,
		sem:      o.sem,
		uniforms: make(map[string]*Uniform, len(o.uniforms)),
	}

	var warnings []ProgramWarning
	log := Logger()

	for _, decl := range o.uniforms {
		u, warn := p.reflectUniform(decl.Name, decl.Type)
		p.uniforms[decl.Name] = u
		if warn != nil {
			warnings = append(warnings, *warn)
			log.Warn("program uniform warning", "warning", warn.String())
		}
	}

	for _, attr := range o.sem {
		if _, active := ctx.backend.LocateVertexAttrib(id, attr.Name); !active {
			w := ProgramWarning{Kind: WarnInactiveVertexAttrib, Name: attr.Name}
			warnings = append(warnings, w)
			log.Warn("program vertex attribute warning", "warning", w.String())
		}
	}

	return p, warnings, nil
}

// reflectUniform looks one uniform up in the linked program and reports a
// warning for inactivity or a type mismatch.
func (p *Program) reflectUniform(name string, declared gpucore.UniformType) (*Uniform, *ProgramWarning) {
	info, err := p.ctx.backend.LocateUniform(p.id, name, declared)
	if err != nil || !info.Active {
		return &Uniform{name: name, declared: declared},
			&ProgramWarning{Kind: WarnInactiveUniform, Name: name}
	}
	u := &Uniform{name: name, declared: declared, info: info}
	if info.Type != declared {
		return u, &ProgramWarning{
			Kind:      WarnUniformTypeMismatch,
			Name:      name,
			Declared:  declared,
			Reflected: info.Type,
		}
	}
	return u, nil
}

// Uniform returns the handle for a uniform declared at build time through
// [WithUniforms].
func (p *Program) Uniform(name string) (*Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

// Semantics returns the vertex semantics the program was linked against.
func (p *Program) Semantics() gpucore.VertexDesc {
	return p.sem
}

// Destroy releases the program. The program must not be used afterwards.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.ctx.backend.DropProgram(p.id)
}
