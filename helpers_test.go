package glint

import (
	"testing"

	"github.com/gogpu/glint/backend/trace"
)

// newTestContext returns a context over a fresh trace backend. Shader
// validation is off so tests can use placeholder sources.
func newTestContext(t *testing.T) (*GraphicsContext, *trace.Backend) {
	t.Helper()
	b := trace.New(trace.WithoutShaderValidation())
	ctx, err := NewContext(WithBackendInstance(b))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(ctx.Close)
	return ctx, b
}
