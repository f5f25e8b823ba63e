//go:build !gpu

package cl

// Runtime is a placeholder when OpenCL support is not compiled.
type Runtime struct{}

// NewRuntime returns ErrNotBuilt when OpenCL support is not compiled in.
func NewRuntime() (*Runtime, error) {
	return nil, ErrNotBuilt
}

func (r *Runtime) PlatformIDs() ([]PlatformID, error)           { return nil, ErrNotBuilt }
func (r *Runtime) PlatformInfo(PlatformID) (PlatformInfo, error) { return PlatformInfo{}, ErrNotBuilt }
func (r *Runtime) DeviceIDs(PlatformID, DeviceType) ([]DeviceID, error) {
	return nil, ErrNotBuilt
}
func (r *Runtime) DeviceInfo(DeviceID) (DeviceInfo, error) { return DeviceInfo{}, ErrNotBuilt }

// NewContext returns ErrNotBuilt.
func (r *Runtime) NewContext(Selection) (*Context, error) { return nil, ErrNotBuilt }

// Context is a placeholder when OpenCL support is not compiled.
type Context struct{}

func (c *Context) Device() DeviceInfo { return DeviceInfo{} }
func (c *Context) Close() error       { return nil }

func (c *Context) CreateBuffer(MemAccess, int) (*Buffer, error)           { return nil, ErrNotBuilt }
func (c *Context) CreateBufferFrom(MemAccess, []float32) (*Buffer, error) { return nil, ErrNotBuilt }
func (c *Context) BuildProgram(string) (*Program, error)                  { return nil, ErrNotBuilt }
func (c *Context) CreateKernel(*Program, string) (*Kernel, error)         { return nil, ErrNotBuilt }
func (c *Context) RunKernel(*Kernel, int, int) error                      { return ErrNotBuilt }
func (c *Context) ReadBuffer(*Buffer, []float32) error                    { return ErrNotBuilt }

// Buffer is a placeholder when OpenCL support is not compiled.
type Buffer struct{}

func (b *Buffer) Len() int { return 0 }

// Program is a placeholder when OpenCL support is not compiled.
type Program struct {
	BuildLog string
}

// Kernel is a placeholder when OpenCL support is not compiled.
type Kernel struct{}

func (k *Kernel) SetArgBuffer(int, *Buffer) error { return ErrNotBuilt }
func (k *Kernel) SetArgUint32(int, uint32) error  { return ErrNotBuilt }
