package bench

import (
	"fmt"
	"io"
)

// PrintReport writes the human readable benchmark summary.
func PrintReport(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w,
		"Kernel average time: %.6f+-%.6f s\n"+
			"GFlops: %.3f\n"+
			"VRAM bandwidth: %.3f GB/s\n"+
			"Result data transfer time: %.6f+-%.6f s\n"+
			"VRAM -> RAM bandwidth: %.3f GB/s\n",
		r.Kernel.Mean, r.Kernel.Std,
		r.GFLOPS,
		r.KernelBandwidth,
		r.Read.Mean, r.Read.Std,
		r.ReadBandwidth,
	)
	return err
}
