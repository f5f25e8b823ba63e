package bench

import (
	"fmt"
	"math"

	"github.com/cwbudde/clbench/internal/cl"
)

// Device is the part of cl.Context used by the OpenCL a+b kernel.
type Device interface {
	CreateBuffer(access cl.MemAccess, n int) (*cl.Buffer, error)
	CreateBufferFrom(access cl.MemAccess, data []float32) (*cl.Buffer, error)
	BuildProgram(source string) (*cl.Program, error)
	CreateKernel(p *cl.Program, name string) (*cl.Kernel, error)
	RunKernel(k *cl.Kernel, global, local int) error
	ReadBuffer(b *cl.Buffer, dst []float32) error
}

// OpenCLAddKernel runs the aplusb kernel on an OpenCL device. Every object it
// creates belongs to the device context and is released when that closes.
type OpenCLAddKernel struct {
	dev    Device
	kernel *cl.Kernel
	c      *cl.Buffer

	// Program exposes the build log of the compiled source.
	Program *cl.Program
	Global  int
	Local   int
}

var _ AddKernel = (*OpenCLAddKernel)(nil)

// NewOpenCLAddKernel uploads a and b, allocates the output buffer, compiles
// source and binds the arguments (a, b, c, n). The launch covers len(a)
// rounded up to a multiple of workGroup.
func NewOpenCLAddKernel(dev Device, source, name string, a, b []float32, workGroup int) (*OpenCLAddKernel, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, fmt.Errorf("invalid input lengths %d and %d", len(a), len(b))
	}
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%d elements exceed the 32-bit kernel index", n)
	}

	as, err := dev.CreateBufferFrom(cl.ReadOnly, a)
	if err != nil {
		return nil, fmt.Errorf("upload a: %w", err)
	}
	bs, err := dev.CreateBufferFrom(cl.ReadOnly, b)
	if err != nil {
		return nil, fmt.Errorf("upload b: %w", err)
	}
	cs, err := dev.CreateBuffer(cl.WriteOnly, n)
	if err != nil {
		return nil, fmt.Errorf("allocate c: %w", err)
	}

	program, err := dev.BuildProgram(source)
	if err != nil {
		return nil, err
	}
	kernel, err := dev.CreateKernel(program, name)
	if err != nil {
		return nil, err
	}

	if err := kernel.SetArgBuffer(0, as); err != nil {
		return nil, fmt.Errorf("bind a: %w", err)
	}
	if err := kernel.SetArgBuffer(1, bs); err != nil {
		return nil, fmt.Errorf("bind b: %w", err)
	}
	if err := kernel.SetArgBuffer(2, cs); err != nil {
		return nil, fmt.Errorf("bind c: %w", err)
	}
	if err := kernel.SetArgUint32(3, uint32(n)); err != nil {
		return nil, fmt.Errorf("bind n: %w", err)
	}

	return &OpenCLAddKernel{
		dev:     dev,
		kernel:  kernel,
		c:       cs,
		Program: program,
		Global:  RoundUp(n, workGroup),
		Local:   workGroup,
	}, nil
}

// Launch runs the kernel once and waits for it.
func (k *OpenCLAddKernel) Launch() error {
	return k.dev.RunKernel(k.kernel, k.Global, k.Local)
}

// ReadResult copies the output buffer into dst.
func (k *OpenCLAddKernel) ReadResult(dst []float32) error {
	return k.dev.ReadBuffer(k.c, dst)
}
