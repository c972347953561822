package gpucore

import "github.com/gogpu/gputypes"

// DepthTest configures the depth test applied to incoming fragments.
type DepthTest struct {
	// Enabled turns the depth test on.
	Enabled bool

	// Comparison decides whether an incoming fragment passes against the
	// stored depth value. Ignored when the test is disabled.
	Comparison gputypes.CompareFunction
}

// DepthTestOff returns a disabled depth test.
func DepthTestOff() DepthTest {
	return DepthTest{}
}

// DepthTestOn returns a depth test using cmp.
func DepthTestOn(cmp gputypes.CompareFunction) DepthTest {
	return DepthTest{Enabled: true, Comparison: cmp}
}

// DepthWrite states whether fragments passing the depth test update the
// depth buffer.
type DepthWrite bool

// Depth write configurations.
const (
	DepthWriteOn  DepthWrite = true
	DepthWriteOff DepthWrite = false
)
