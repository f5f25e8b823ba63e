package bench

import (
	"fmt"
	"log/slog"
)

// AddKernel is a compiled a+b kernel with its inputs already on the device.
// Launch and ReadResult block until the device has finished.
type AddKernel interface {
	Launch() error
	ReadResult(dst []float32) error
}

// Report is the outcome of one benchmark run. Times are in seconds.
type Report struct {
	Elements    int
	Repetitions int

	Kernel          Summary
	GFLOPS          float64
	KernelBandwidth float64

	Read          Summary
	ReadBandwidth float64
}

// Run times reps launches of k, then reps read-backs of the result, and
// checks the result against a+b computed on the host. The returned report is
// filled in as far as the run got, including on a data mismatch.
func Run(k AddKernel, a, b []float32, reps int, log *slog.Logger) (Report, error) {
	if log == nil {
		log = slog.Default()
	}
	if len(a) != len(b) {
		return Report{}, fmt.Errorf("input length mismatch: %d vs %d", len(a), len(b))
	}

	n := len(a)
	report := Report{Elements: n, Repetitions: reps}

	t := NewTimer()
	for i := 0; i < reps; i++ {
		if err := k.Launch(); err != nil {
			return report, fmt.Errorf("launch %d: %w", i, err)
		}
		lap := t.NextLap()
		log.Debug("kernel lap", "iteration", i, "elapsed", lap)
	}
	report.Kernel = t.Summary()
	report.GFLOPS = GFLOPS(n, report.Kernel.Mean)
	report.KernelBandwidth = Bandwidth(KernelBytes(n), report.Kernel.Mean)

	log.Info("Kernel timed",
		"mean", report.Kernel.Mean,
		"std", report.Kernel.Std,
		"gflops", report.GFLOPS,
		"bandwidth_gbs", report.KernelBandwidth,
	)

	c := make([]float32, n)
	t = NewTimer()
	for i := 0; i < reps; i++ {
		if err := k.ReadResult(c); err != nil {
			return report, fmt.Errorf("read result %d: %w", i, err)
		}
		t.NextLap()
	}
	report.Read = t.Summary()
	report.ReadBandwidth = Bandwidth(n*float32Bytes, report.Read.Mean)

	log.Info("Read-back timed",
		"mean", report.Read.Mean,
		"std", report.Read.Std,
		"bandwidth_gbs", report.ReadBandwidth,
	)

	if err := Verify(a, b, c); err != nil {
		return report, err
	}
	return report, nil
}
