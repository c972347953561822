package glint

import "fmt"

// TessGate is the innermost gate: it draws vertex set views under the
// current framebuffer, program and render state.
type TessGate struct {
	ctx   *GraphicsContext
	scope *scope
}

// Render draws the view.
func (g *TessGate) Render(view TessView) error {
	if !g.scope.open {
		return ErrGateClosed
	}
	t := view.tess
	if t == nil {
		return fmt.Errorf("glint: cannot render zero view")
	}
	if t.destroyed {
		return ErrTessDestroyed
	}
	return g.ctx.backend.RenderTess(t.id, view.startIndex, view.vertNb, view.instNb)
}
