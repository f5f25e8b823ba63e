//go:build gpu

package bench

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/clbench/internal/cl"
)

func openDevice(t *testing.T) *cl.Context {
	t.Helper()

	rt, err := cl.NewRuntime()
	require.NoError(t, err)

	sel, err := cl.SelectDevice(rt, cl.DeviceTypeGPU)
	if errors.Is(err, cl.ErrDeviceNotFound) {
		t.Skipf("OpenCL device unavailable: %v", err)
	}
	require.NoError(t, err)

	ctx, err := rt.NewContext(sel)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, ctx.Close())
	})
	return ctx
}

func loadAPlusB(t *testing.T) string {
	t.Helper()
	src, err := LoadKernelSource("../../kernels/aplusb.cl")
	require.NoError(t, err)
	return src
}

func TestOpenCLAddKernel_SmallArrays(t *testing.T) {
	ctx := openDevice(t)

	a := []float32{1.0, 2.0, 3.0}
	b := []float32{10.0, 20.0, 30.0}

	k, err := NewOpenCLAddKernel(ctx, loadAPlusB(t), "aplusb", a, b, 128)
	require.NoError(t, err)
	assert.Equal(t, 128, k.Global)

	_, err = Run(k, a, b, 20, quietLogger())
	require.NoError(t, err)

	c := make([]float32, 3)
	require.NoError(t, k.ReadResult(c))
	assert.Equal(t, []float32{11.0, 22.0, 33.0}, c)
}

func TestOpenCLAddKernel_SubtractionIsDetected(t *testing.T) {
	ctx := openDevice(t)

	src := strings.Replace(loadAPlusB(t), "a[index] + b[index]", "a[index] - b[index]", 1)
	require.Contains(t, src, "a[index] - b[index]")

	a := []float32{1.0, 2.0, 3.0}
	b := []float32{10.0, 20.0, 30.0}
	k, err := NewOpenCLAddKernel(ctx, src, "aplusb", a, b, 128)
	require.NoError(t, err)

	_, err = Run(k, a, b, 3, quietLogger())
	var mm *MismatchError
	require.True(t, errors.As(err, &mm), "got %v", err)
	assert.Equal(t, 0, mm.Index)
}

func TestOpenCLAddKernel_BuildFailureCarriesLog(t *testing.T) {
	ctx := openDevice(t)

	_, err := NewOpenCLAddKernel(ctx, "__kernel void aplusb() { undeclared = 1; }", "aplusb",
		[]float32{1}, []float32{2}, 128)
	var be *cl.BuildError
	require.True(t, errors.As(err, &be), "got %v", err)
	assert.NotEmpty(t, be.Log)
}

func TestOpenCLAddKernel_RoundedLaunchStaysInBounds(t *testing.T) {
	ctx := openDevice(t)

	const n = 130
	global := RoundUp(n, 128)
	require.Equal(t, 256, global)

	a, b := RandomInputs(global, 1)
	sentinel := make([]float32, global)
	for i := range sentinel {
		sentinel[i] = float32(math.Inf(-1))
	}

	as, err := ctx.CreateBufferFrom(cl.ReadOnly, a)
	require.NoError(t, err)
	bs, err := ctx.CreateBufferFrom(cl.ReadOnly, b)
	require.NoError(t, err)
	cs, err := ctx.CreateBufferFrom(cl.ReadWrite, sentinel)
	require.NoError(t, err)

	program, err := ctx.BuildProgram(loadAPlusB(t))
	require.NoError(t, err)
	kernel, err := ctx.CreateKernel(program, "aplusb")
	require.NoError(t, err)
	require.NoError(t, kernel.SetArgBuffer(0, as))
	require.NoError(t, kernel.SetArgBuffer(1, bs))
	require.NoError(t, kernel.SetArgBuffer(2, cs))
	require.NoError(t, kernel.SetArgUint32(3, n))

	require.NoError(t, ctx.RunKernel(kernel, global, 128))

	out := make([]float32, global)
	require.NoError(t, ctx.ReadBuffer(cs, out))

	require.NoError(t, Verify(a[:n], b[:n], out[:n]))
	for i := n; i < global; i++ {
		assert.True(t, math.IsInf(float64(out[i]), -1), "index %d was written: %v", i, out[i])
	}
}
