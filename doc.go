// Package glint provides a typed, backend-agnostic GPU rendering layer for
// Go.
//
// # Overview
//
// glint sits between application code and a concrete graphics API. Call
// sites build and issue GPU render commands — bind a framebuffer, apply a
// shader program, set render state, draw a vertex set — through a strictly
// nested gate protocol that guarantees commands reach the backend in a
// legal order, and through resource wrappers that validate every operation
// before it crosses the backend boundary. glint performs no drawing itself:
// every GPU operation is delegated to a [backend.Backend] implementation
// selected through the backend registry.
//
// # Quick start
//
//	import (
//	    "github.com/gogpu/glint"
//	    "github.com/gogpu/glint/gpucore"
//	    _ "github.com/gogpu/glint/backend/trace" // register a backend
//	)
//
//	ctx, err := glint.NewContext()
//	// handle err
//	defer ctx.Close()
//
//	fb, err := glint.BackBuffer(ctx, gpucore.Size{Width: 800, Height: 600})
//	tess, err := glint.NewTessBuilder(ctx).
//	    SetMode(gputypes.PrimitiveTopologyTriangleList).
//	    SetVertices(vertices).
//	    Build()
//
//	view, err := glint.TessViewWhole(tess)
//	// handle err
//
//	render := ctx.NewPipelineGate().Pipeline(fb, gpucore.DefaultPipelineState(),
//	    func(p *glint.Pipeline, sg *glint.ShadingGate) error {
//	        return sg.Shade(program, func(pi *glint.ProgramInterface, rg *glint.RenderGate) error {
//	            return rg.Render(gpucore.DefaultRenderState(), func(tg *glint.TessGate) error {
//	                return tg.Render(view)
//	            })
//	        })
//	    })
//	if err := render.Err(); err != nil {
//	    // a closure error or backend failure; already-issued GPU calls stand
//	}
//
// # The gate protocol
//
// Gates form a one-way traversal: a [PipelineGate] opens a pipeline over a
// [Framebuffer] and hands the closure a [Pipeline] (for binding buffers and
// textures) and a [ShadingGate]; shading with a [Program] yields a
// [RenderGate]; entering a render state yields a [TessGate]; the tess gate
// renders [TessView] values. Each gate is valid only inside the closure it
// was handed to, and every gate entry may be invoked repeatedly to branch —
// several render states under one program, several draw calls under one
// render state.
//
// # Architecture
//
// The library is organized into:
//   - Public API: GraphicsContext, Buffer, Texture, Framebuffer, Program,
//     Tess/TessView and the gates (this package)
//   - gpucore: render-state and format value types shared with backends
//   - backend: the capability contract and the backend registry
//   - backend/trace: an in-process tracing backend for tests and debugging
package glint
