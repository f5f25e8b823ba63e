package bench

const (
	float32Bytes = 4
	gib          = 1 << 30
)

// RoundUp returns the smallest multiple of multiple that is >= n.
func RoundUp(n, multiple int) int {
	if multiple <= 0 {
		return n
	}
	return (n + multiple - 1) / multiple * multiple
}

// GFLOPS is the addition throughput for n elements processed in seconds,
// counting one floating point operation per element.
func GFLOPS(n int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(n) / seconds / 1e9
}

// Bandwidth converts bytes moved in seconds to GB/s (2^30 bytes).
func Bandwidth(bytes int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return float64(bytes) / seconds / gib
}

// KernelBytes is the global memory traffic of one a+b launch: two reads and
// one write per element.
func KernelBytes(n int) int {
	return 3 * n * float32Bytes
}
