package bench

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hostKernel evaluates op element-wise on the CPU in place of a device.
type hostKernel struct {
	a, b     []float32
	c        []float32
	op       func(x, y float32) float32
	launches int
	reads    int
	fail     error
}

func (h *hostKernel) Launch() error {
	if h.fail != nil {
		return h.fail
	}
	h.launches++
	h.c = make([]float32, len(h.a))
	for i := range h.a {
		h.c[i] = h.op(h.a[i], h.b[i])
	}
	return nil
}

func (h *hostKernel) ReadResult(dst []float32) error {
	h.reads++
	copy(dst, h.c)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRun_AddsAndVerifies(t *testing.T) {
	a := []float32{1.0, 2.0, 3.0}
	b := []float32{10.0, 20.0, 30.0}
	k := &hostKernel{a: a, b: b, op: func(x, y float32) float32 { return x + y }}

	report, err := Run(k, a, b, 20, quietLogger())
	require.NoError(t, err)

	assert.Equal(t, []float32{11.0, 22.0, 33.0}, k.c)
	assert.Equal(t, 20, k.launches)
	assert.Equal(t, 20, k.reads)
	assert.Equal(t, 3, report.Elements)
	assert.Equal(t, 20, report.Kernel.Samples)
	assert.Len(t, report.Kernel.Window, 12)
	assert.Equal(t, 20, report.Read.Samples)
}

func TestRun_DetectsSubtractingKernel(t *testing.T) {
	a := []float32{1.0, 2.0, 3.0}
	b := []float32{10.0, 20.0, 30.0}
	k := &hostKernel{a: a, b: b, op: func(x, y float32) float32 { return x - y }}

	report, err := Run(k, a, b, 20, quietLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataMismatch)

	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, 0, mm.Index)
	assert.Equal(t, float32(11), mm.Host)
	assert.Equal(t, float32(-9), mm.Device)

	// Timings are still reported.
	assert.Equal(t, 20, report.Kernel.Samples)
}

func TestRun_LaunchFailureStops(t *testing.T) {
	boom := errors.New("CL_OUT_OF_RESOURCES")
	k := &hostKernel{a: []float32{1}, b: []float32{2}, fail: boom}

	_, err := Run(k, k.a, k.b, 20, quietLogger())
	require.ErrorIs(t, err, boom)
	assert.Zero(t, k.reads)
}

func TestRun_LengthMismatch(t *testing.T) {
	_, err := Run(&hostKernel{}, []float32{1, 2}, []float32{1}, 1, quietLogger())
	assert.Error(t, err)
}

func TestVerify_FirstDifferingIndex(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{1, 1, 1, 1}
	c := []float32{2, 3, 5, 6}

	err := Verify(a, b, c)
	var mm *MismatchError
	require.True(t, errors.As(err, &mm))
	assert.Equal(t, 2, mm.Index)
	assert.Contains(t, err.Error(), "index 2")
}

func TestHostAdd(t *testing.T) {
	assert.Equal(t, []float32{11, 22, 33}, HostAdd([]float32{1, 2, 3}, []float32{10, 20, 30}))
}

func TestRandomInputs_Deterministic(t *testing.T) {
	a1, b1 := RandomInputs(64, 239)
	a2, b2 := RandomInputs(64, 239)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.NotEqual(t, a1, b1)
	for i := range a1 {
		assert.GreaterOrEqual(t, a1[i], float32(0))
		assert.Less(t, a1[i], float32(1))
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	r := Report{
		Kernel:          Summary{Mean: 0.01, Std: 0.001},
		GFLOPS:          10,
		KernelBandwidth: 111.759,
		Read:            Summary{Mean: 0.05},
		ReadBandwidth:   7.45,
	}
	require.NoError(t, PrintReport(&buf, r))

	out := buf.String()
	assert.Contains(t, out, "Kernel average time: 0.010000+-0.001000 s")
	assert.Contains(t, out, "GFlops: 10.000")
	assert.Contains(t, out, "VRAM bandwidth: 111.759 GB/s")
	assert.Contains(t, out, "VRAM -> RAM bandwidth: 7.450 GB/s")
}
