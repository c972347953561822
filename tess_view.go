package glint

import "fmt"

// IncorrectViewWindowError is returned when a view window does not fit the
// vertex set's capacity.
type IncorrectViewWindowError struct {
	// Capacity is the effective vertex count of the vertex set, as reported
	// by [Tess.VertNb].
	Capacity int

	// Start and Nb describe the rejected window.
	Start int
	Nb    int
}

func (e *IncorrectViewWindowError) Error() string {
	return fmt.Sprintf("glint: view window [%d, %d+%d) exceeds capacity %d", e.Start, e.Start, e.Nb, e.Capacity)
}

// TessView is a borrowed window over a [Tess]: a start offset, a vertex
// (or index) count and an instance count. Views are cheap values; creating
// one never touches the GPU. A view renders through [TessGate.Render].
type TessView struct {
	tess       *Tess
	startIndex int
	vertNb     int
	instNb     int
}

// newTessView funnels every view constructor through one bounds check.
// Windows are bounded by the effective vertex count, which already folds
// in the index count and any build-time override.
func newTessView(t *Tess, start, nb, inst int) (TessView, error) {
	if t.destroyed {
		return TessView{}, ErrTessDestroyed
	}
	capacity := t.vertNb
	if start < 0 || nb < 0 || start+nb > capacity {
		return TessView{}, &IncorrectViewWindowError{Capacity: capacity, Start: start, Nb: nb}
	}
	if inst < 0 {
		return TessView{}, &IncorrectViewWindowError{Capacity: capacity, Start: start, Nb: inst}
	}
	return TessView{tess: t, startIndex: start, vertNb: nb, instNb: inst}, nil
}

// TessViewWhole views the entire vertex set with its build-time instance
// count.
func TessViewWhole(t *Tess) (TessView, error) {
	if t.destroyed {
		return TessView{}, ErrTessDestroyed
	}
	return newTessView(t, 0, t.vertNb, t.instNb)
}

// TessViewWholeInstanced views the entire vertex set rendered inst times.
func TessViewWholeInstanced(t *Tess, inst int) (TessView, error) {
	if t.destroyed {
		return TessView{}, ErrTessDestroyed
	}
	return newTessView(t, 0, t.vertNb, inst)
}

// TessViewSub views the first nb items.
func TessViewSub(t *Tess, nb int) (TessView, error) {
	return newTessView(t, 0, nb, t.instNb)
}

// TessViewSubInstanced views the first nb items rendered inst times.
func TessViewSubInstanced(t *Tess, nb, inst int) (TessView, error) {
	return newTessView(t, 0, nb, inst)
}

// TessViewSlice views nb items starting at start.
func TessViewSlice(t *Tess, start, nb int) (TessView, error) {
	return newTessView(t, start, nb, t.instNb)
}

// TessViewSliceInstanced views nb items starting at start, rendered inst
// times.
func TessViewSliceInstanced(t *Tess, start, nb, inst int) (TessView, error) {
	return newTessView(t, start, nb, inst)
}

// Tess returns the underlying vertex set.
func (v TessView) Tess() *Tess { return v.tess }

// StartIndex returns the window start offset.
func (v TessView) StartIndex() int { return v.startIndex }

// VertNb returns the window item count.
func (v TessView) VertNb() int { return v.vertNb }

// InstNb returns the window instance count.
func (v TessView) InstNb() int { return v.instNb }
