package glint

import (
	"fmt"

	"github.com/gogpu/glint/gpucore"
)

// RenderGate nests shading into render states: each Render call applies
// one render state (blending, depth, face culling, scissor) and runs draw
// work under it.
type RenderGate struct {
	ctx   *GraphicsContext
	scope *scope
}

// Render applies st and runs f with a [TessGate] for issuing draw calls.
func (g *RenderGate) Render(st gpucore.RenderState, f func(*TessGate) error) error {
	if !g.scope.open {
		return ErrGateClosed
	}
	if err := g.ctx.backend.EnterRenderState(st); err != nil {
		return fmt.Errorf("glint: cannot apply render state: %w", err)
	}

	sc := &scope{open: true}
	tg := &TessGate{ctx: g.ctx, scope: sc}
	defer func() { sc.open = false }()

	return f(tg)
}
