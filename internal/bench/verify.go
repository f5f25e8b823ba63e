package bench

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrDataMismatch is returned when the device result differs from the host.
var ErrDataMismatch = errors.New("CPU and GPU results differ")

// MismatchError reports the first index where device and host disagree.
type MismatchError struct {
	Index  int
	Host   float32
	Device float32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v at index %d: host %v, device %v", ErrDataMismatch, e.Index, e.Host, e.Device)
}

func (e *MismatchError) Unwrap() error {
	return ErrDataMismatch
}

// HostAdd computes a[i]+b[i] on the CPU.
func HostAdd(a, b []float32) []float32 {
	c := make([]float32, len(a))
	for i := range a {
		c[i] = a[i] + b[i]
	}
	return c
}

// Verify compares the device result c with a+b computed on the host. Values
// must match exactly.
func Verify(a, b, c []float32) error {
	if len(a) != len(b) || len(a) != len(c) {
		return fmt.Errorf("%w: length mismatch a=%d b=%d c=%d", ErrDataMismatch, len(a), len(b), len(c))
	}
	for i := range a {
		host := a[i] + b[i]
		if c[i] != host {
			return &MismatchError{Index: i, Host: host, Device: c[i]}
		}
	}
	return nil
}

// RandomInputs returns two arrays of n values in [0, 1) drawn from seed.
func RandomInputs(n int, seed int64) (a, b []float32) {
	r := rand.New(rand.NewSource(seed))
	a = make([]float32, n)
	b = make([]float32, n)
	for i := 0; i < n; i++ {
		a[i] = r.Float32()
		b[i] = r.Float32()
	}
	return a, b
}
