package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// VertexAttrib describes one vertex attribute: its semantics index, the
// shader input name it binds to, and the data format of one element.
//
// The pair (Index, Name) is the stable introspectable mapping between host
// vertex layout and shader inputs; programs are linked against it without
// coupling vertex types to shader sources directly.
type VertexAttrib struct {
	// Index is the semantics index, which is also the vertex buffer slot
	// the attribute occupies.
	Index int

	// Name is the shader input name the attribute binds to.
	Name string

	// Format is the element format.
	Format gputypes.VertexFormat
}

// VertexDesc is the ordered list of attributes describing a vertex type.
// Attribute order is the deinterleaved storage order.
type VertexDesc []VertexAttrib

// IndexOf returns the semantics index bound to name.
func (d VertexDesc) IndexOf(name string) (int, bool) {
	for _, a := range d {
		if a.Name == name {
			return a.Index, true
		}
	}
	return 0, false
}

// ByIndex returns the attribute with the given semantics index.
func (d VertexDesc) ByIndex(index int) (VertexAttrib, bool) {
	for _, a := range d {
		if a.Index == index {
			return a, true
		}
	}
	return VertexAttrib{}, false
}

// Validate checks that the description has no duplicate names and no
// duplicate semantics indices.
func (d VertexDesc) Validate() error {
	names := make(map[string]struct{}, len(d))
	indices := make(map[int]struct{}, len(d))
	for _, a := range d {
		if a.Name == "" {
			return fmt.Errorf("gpucore: vertex attribute %d has an empty name", a.Index)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("gpucore: duplicate vertex attribute name %q", a.Name)
		}
		if _, dup := indices[a.Index]; dup {
			return fmt.Errorf("gpucore: duplicate vertex semantics index %d", a.Index)
		}
		names[a.Name] = struct{}{}
		indices[a.Index] = struct{}{}
	}
	return nil
}
