package glint

import (
	"fmt"

	"github.com/gogpu/glint/gpucore"
)

// UniformTypeError is returned when a value of the wrong type is written
// to a uniform.
type UniformTypeError struct {
	Name     string
	Declared gpucore.UniformType
	Value    any
}

func (e *UniformTypeError) Error() string {
	return fmt.Sprintf("glint: uniform %q expects %s, got %T", e.Name, e.Declared, e.Value)
}

// ShadingGate nests a pipeline into shading: each Shade call makes one
// program current and runs draw work under it.
type ShadingGate struct {
	ctx   *GraphicsContext
	scope *scope
}

// Shade makes prog the current program and runs f with the program's
// uniform interface and a [RenderGate] for nesting into render states.
// Programs may be shaded any number of times within one pipeline.
func (g *ShadingGate) Shade(prog *Program, f func(*ProgramInterface, *RenderGate) error) error {
	if !g.scope.open {
		return ErrGateClosed
	}
	if prog.destroyed {
		return ErrProgramDestroyed
	}
	if err := g.ctx.backend.ApplyShaderProgram(prog.id); err != nil {
		return fmt.Errorf("glint: cannot apply program: %w", err)
	}

	sc := &scope{open: true}
	pi := &ProgramInterface{prog: prog, scope: sc}
	rg := &RenderGate{ctx: g.ctx, scope: sc}
	defer func() { sc.open = false }()

	return f(pi, rg)
}

// ProgramInterface writes uniform values into the program currently made
// current by [ShadingGate.Shade]. It is only valid inside the Shade
// closure.
type ProgramInterface struct {
	prog  *Program
	scope *scope
}

// Set writes value to the uniform. The value's type must match the
// uniform's declared type; setting an inactive uniform is a silent no-op.
func (pi *ProgramInterface) Set(u *Uniform, value any) error {
	if !pi.scope.open {
		return ErrGateClosed
	}
	got, ok := gpucore.UniformTypeOf(value)
	if !ok || got != u.declared {
		return &UniformTypeError{Name: u.name, Declared: u.declared, Value: value}
	}
	if !u.info.Active {
		Logger().Debug("set on inactive uniform ignored", "uniform", u.name)
		return nil
	}
	return pi.prog.ctx.backend.SetUniform(pi.prog.id, u.info.Index, value)
}

// Query looks a uniform up by name at shading time, for uniforms not
// declared at program build time. The returned handle carries the given
// declared type; inactive uniforms are returned as inactive handles, not
// errors, matching the build-time behavior.
func (pi *ProgramInterface) Query(name string, ty gpucore.UniformType) (*Uniform, error) {
	if !pi.scope.open {
		return nil, ErrGateClosed
	}
	prog := pi.prog
	if u, ok := prog.uniforms[name]; ok {
		return u, nil
	}
	u, warn := prog.reflectUniform(name, ty)
	if warn != nil {
		Logger().Debug("queried uniform warning", "warning", warn.String())
	}
	prog.uniforms[name] = u
	return u, nil
}
