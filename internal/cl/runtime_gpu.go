//go:build gpu

package cl

/*
#cgo LDFLAGS: -lOpenCL
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS
#include <CL/cl.h>
#include <stdlib.h>

static cl_command_queue clbench_create_queue(cl_context ctx, cl_device_id device, cl_int *status) {
	// In-order queue: no CL_QUEUE_OUT_OF_ORDER_EXEC_MODE_ENABLE.
	return clCreateCommandQueue(ctx, device, 0, status);
}

static cl_int clbench_set_mem_arg(cl_kernel kernel, cl_uint index, cl_mem mem) {
	return clSetKernelArg(kernel, index, sizeof(cl_mem), &mem);
}

static cl_context_properties clbench_platform_property(cl_platform_id platform) {
	return (cl_context_properties)platform;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

const float32Size = int(unsafe.Sizeof(float32(0)))

// Runtime talks to the installed OpenCL ICD loader. Platform and device
// handles are cached so callers only deal in small integer IDs.
type Runtime struct {
	platforms []C.cl_platform_id
	devices   []C.cl_device_id
}

// NewRuntime returns a Runtime backed by the system OpenCL library.
func NewRuntime() (*Runtime, error) {
	return &Runtime{}, nil
}

// PlatformIDs lists the installed platforms.
func (r *Runtime) PlatformIDs() ([]PlatformID, error) {
	handles, err := CountThenFill(func(dst []C.cl_platform_id) (int, error) {
		var count C.cl_uint
		var ptr *C.cl_platform_id
		if len(dst) > 0 {
			ptr = &dst[0]
		}
		status := C.clGetPlatformIDs(C.cl_uint(len(dst)), ptr, &count)
		if int(status) == statusPlatformNotFound {
			return 0, nil
		}
		if err := checkStatus("clGetPlatformIDs", int(status)); err != nil {
			return 0, err
		}
		return int(count), nil
	})
	if err != nil {
		return nil, err
	}

	r.platforms = handles
	ids := make([]PlatformID, len(handles))
	for i := range ids {
		ids[i] = PlatformID(i)
	}
	return ids, nil
}

// PlatformInfo queries name, vendor and version of a platform.
func (r *Runtime) PlatformInfo(id PlatformID) (PlatformInfo, error) {
	handle, err := r.platform(id)
	if err != nil {
		return PlatformInfo{}, err
	}

	name, err := platformString(handle, C.CL_PLATFORM_NAME)
	if err != nil {
		return PlatformInfo{}, err
	}
	vendor, err := platformString(handle, C.CL_PLATFORM_VENDOR)
	if err != nil {
		return PlatformInfo{}, err
	}
	version, err := platformString(handle, C.CL_PLATFORM_VERSION)
	if err != nil {
		return PlatformInfo{}, err
	}

	return PlatformInfo{
		Name:    name,
		Vendor:  vendor,
		Version: version,
	}, nil
}

// DeviceIDs lists the devices of a platform matching filter.
func (r *Runtime) DeviceIDs(platform PlatformID, filter DeviceType) ([]DeviceID, error) {
	handle, err := r.platform(platform)
	if err != nil {
		return nil, err
	}

	clType := deviceTypeFilter(filter)
	handles, err := CountThenFill(func(dst []C.cl_device_id) (int, error) {
		var count C.cl_uint
		var ptr *C.cl_device_id
		if len(dst) > 0 {
			ptr = &dst[0]
		}
		status := C.clGetDeviceIDs(handle, clType, C.cl_uint(len(dst)), ptr, &count)
		if int(status) == statusDeviceNotFound {
			return 0, nil
		}
		if err := checkStatus("clGetDeviceIDs", int(status)); err != nil {
			return 0, err
		}
		return int(count), nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]DeviceID, len(handles))
	for i, h := range handles {
		ids[i] = DeviceID(len(r.devices))
		r.devices = append(r.devices, h)
	}
	return ids, nil
}

// DeviceInfo queries the properties printed by the enumerator.
func (r *Runtime) DeviceInfo(id DeviceID) (DeviceInfo, error) {
	handle, err := r.device(id)
	if err != nil {
		return DeviceInfo{}, err
	}

	name, err := deviceString(handle, C.CL_DEVICE_NAME)
	if err != nil {
		return DeviceInfo{}, err
	}
	vendor, err := deviceString(handle, C.CL_DEVICE_VENDOR)
	if err != nil {
		return DeviceInfo{}, err
	}
	version, err := deviceString(handle, C.CL_DEVICE_VERSION)
	if err != nil {
		return DeviceInfo{}, err
	}

	var (
		rawType      C.cl_device_type
		computeUnits C.cl_uint
		globalMem    C.cl_ulong
		cacheSize    C.cl_ulong
		cacheLine    C.cl_uint
		localMem     C.cl_ulong
		workGroup    C.size_t
	)
	scalars := []struct {
		param C.cl_device_info
		size  uintptr
		ptr   unsafe.Pointer
	}{
		{C.CL_DEVICE_TYPE, unsafe.Sizeof(rawType), unsafe.Pointer(&rawType)},
		{C.CL_DEVICE_MAX_COMPUTE_UNITS, unsafe.Sizeof(computeUnits), unsafe.Pointer(&computeUnits)},
		{C.CL_DEVICE_GLOBAL_MEM_SIZE, unsafe.Sizeof(globalMem), unsafe.Pointer(&globalMem)},
		{C.CL_DEVICE_GLOBAL_MEM_CACHE_SIZE, unsafe.Sizeof(cacheSize), unsafe.Pointer(&cacheSize)},
		{C.CL_DEVICE_GLOBAL_MEM_CACHELINE_SIZE, unsafe.Sizeof(cacheLine), unsafe.Pointer(&cacheLine)},
		{C.CL_DEVICE_LOCAL_MEM_SIZE, unsafe.Sizeof(localMem), unsafe.Pointer(&localMem)},
		{C.CL_DEVICE_MAX_WORK_GROUP_SIZE, unsafe.Sizeof(workGroup), unsafe.Pointer(&workGroup)},
	}
	for _, q := range scalars {
		status := C.clGetDeviceInfo(handle, q.param, C.size_t(q.size), q.ptr, nil)
		if err := checkStatus(fmt.Sprintf("clGetDeviceInfo(0x%x)", int(q.param)), int(status)); err != nil {
			return DeviceInfo{}, err
		}
	}

	itemSizes, err := CountThenFill(func(dst []C.size_t) (int, error) {
		elem := C.size_t(unsafe.Sizeof(C.size_t(0)))
		var size C.size_t
		var ptr unsafe.Pointer
		if len(dst) > 0 {
			ptr = unsafe.Pointer(&dst[0])
		}
		status := C.clGetDeviceInfo(handle, C.CL_DEVICE_MAX_WORK_ITEM_SIZES, C.size_t(len(dst))*elem, ptr, &size)
		if err := checkStatus("clGetDeviceInfo(CL_DEVICE_MAX_WORK_ITEM_SIZES)", int(status)); err != nil {
			return 0, err
		}
		return int(size / elem), nil
	})
	if err != nil {
		return DeviceInfo{}, err
	}
	maxItems := make([]int, len(itemSizes))
	for i, v := range itemSizes {
		maxItems[i] = int(v)
	}

	return DeviceInfo{
		Name:               name,
		Vendor:             vendor,
		Version:            version,
		Type:               mapDeviceType(rawType),
		MaxComputeUnits:    uint32(computeUnits),
		GlobalMemSize:      uint64(globalMem),
		GlobalMemCacheSize: uint64(cacheSize),
		CacheLineSize:      uint32(cacheLine),
		LocalMemSize:       uint64(localMem),
		MaxWorkGroupSize:   int(workGroup),
		MaxWorkItemSizes:   maxItems,
	}, nil
}

func (r *Runtime) platform(id PlatformID) (C.cl_platform_id, error) {
	if int(id) < 0 || int(id) >= len(r.platforms) {
		return nil, fmt.Errorf("unknown platform id %d", id)
	}
	return r.platforms[id], nil
}

func (r *Runtime) device(id DeviceID) (C.cl_device_id, error) {
	if int(id) < 0 || int(id) >= len(r.devices) {
		return nil, fmt.Errorf("unknown device id %d", id)
	}
	return r.devices[id], nil
}

// Context owns an OpenCL context, its in-order command queue and every
// object created through it. Close releases all of them in reverse order.
type Context struct {
	scope   Scope
	device  C.cl_device_id
	context C.cl_context
	queue   C.cl_command_queue
	info    DeviceInfo
}

// NewContext creates a context and an in-order queue on the selected device.
func (r *Runtime) NewContext(sel Selection) (*Context, error) {
	platform, err := r.platform(sel.Platform)
	if err != nil {
		return nil, err
	}
	device, err := r.device(sel.Device)
	if err != nil {
		return nil, err
	}

	c := &Context{device: device, info: sel.Info}

	props := []C.cl_context_properties{
		C.CL_CONTEXT_PLATFORM, C.clbench_platform_property(platform),
		0,
	}

	var status C.cl_int
	context := C.clCreateContext(&props[0], 1, &device, nil, nil, &status)
	if err := checkStatus("clCreateContext", int(status)); err != nil {
		return nil, err
	}
	c.context = context
	c.scope.Defer("context", func() error {
		return checkStatus("clReleaseContext", int(C.clReleaseContext(context)))
	})

	queue := C.clbench_create_queue(context, device, &status)
	if err := checkStatus("clCreateCommandQueue", int(status)); err != nil {
		return nil, errors.Join(err, c.scope.Close())
	}
	c.queue = queue
	c.scope.Defer("command queue", func() error {
		return checkStatus("clReleaseCommandQueue", int(C.clReleaseCommandQueue(queue)))
	})

	return c, nil
}

// Device returns the properties of the context's device.
func (c *Context) Device() DeviceInfo {
	return c.info
}

// Close releases every object created through the context, then the queue
// and the context itself.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	return c.scope.Close()
}

// Buffer is a device allocation of float32 elements.
type Buffer struct {
	mem      C.cl_mem
	elements int
}

// Len returns the number of float32 elements the buffer holds.
func (b *Buffer) Len() int {
	return b.elements
}

// CreateBuffer allocates an uninitialised buffer of n float32 elements.
func (c *Context) CreateBuffer(access MemAccess, n int) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("create buffer: invalid element count %d", n)
	}
	return c.createBuffer(memFlags(access), n, nil)
}

// CreateBufferFrom allocates a buffer initialised with a copy of data.
func (c *Context) CreateBufferFrom(access MemAccess, data []float32) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("create buffer: empty host data")
	}
	return c.createBuffer(memFlags(access)|C.CL_MEM_COPY_HOST_PTR, len(data), unsafe.Pointer(&data[0]))
}

func (c *Context) createBuffer(flags C.cl_mem_flags, n int, host unsafe.Pointer) (*Buffer, error) {
	var status C.cl_int
	mem := C.clCreateBuffer(c.context, flags, C.size_t(n*float32Size), host, &status)
	if err := checkStatus("clCreateBuffer", int(status)); err != nil {
		return nil, err
	}
	c.scope.Defer("buffer", func() error {
		return checkStatus("clReleaseMemObject", int(C.clReleaseMemObject(mem)))
	})
	return &Buffer{mem: mem, elements: n}, nil
}

// Program is a program object built for the context's device.
type Program struct {
	program C.cl_program
	// BuildLog is the compiler output, possibly empty.
	BuildLog string
}

// BuildProgram compiles source for the context's device. A failed build
// returns a *BuildError holding the compiler log.
func (c *Context) BuildProgram(source string) (*Program, error) {
	if source == "" {
		return nil, fmt.Errorf("build program: empty source")
	}

	csrc := C.CString(source)
	defer C.free(unsafe.Pointer(csrc))

	var status C.cl_int
	program := C.clCreateProgramWithSource(c.context, 1, &csrc, nil, &status)
	if err := checkStatus("clCreateProgramWithSource", int(status)); err != nil {
		return nil, err
	}
	c.scope.Defer("program", func() error {
		return checkStatus("clReleaseProgram", int(C.clReleaseProgram(program)))
	})

	device := c.device
	buildErr := checkStatus("clBuildProgram", int(C.clBuildProgram(program, 1, &device, nil, nil, nil)))

	log, logErr := buildLog(program, device)
	if buildErr != nil {
		return nil, &BuildError{Err: errors.Join(buildErr, logErr), Log: log}
	}
	if logErr != nil {
		return nil, logErr
	}

	return &Program{program: program, BuildLog: log}, nil
}

func buildLog(program C.cl_program, device C.cl_device_id) (string, error) {
	return QueryString(func(dst []byte) (int, error) {
		var size C.size_t
		var ptr unsafe.Pointer
		if len(dst) > 0 {
			ptr = unsafe.Pointer(&dst[0])
		}
		status := C.clGetProgramBuildInfo(program, device, C.CL_PROGRAM_BUILD_LOG, C.size_t(len(dst)), ptr, &size)
		if err := checkStatus("clGetProgramBuildInfo(CL_PROGRAM_BUILD_LOG)", int(status)); err != nil {
			return 0, err
		}
		return int(size), nil
	})
}

// Kernel is a kernel object with its arguments bound positionally.
type Kernel struct {
	kernel C.cl_kernel
}

// CreateKernel creates the kernel called name. It is released with the
// owning context.
func (c *Context) CreateKernel(p *Program, name string) (*Kernel, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var status C.cl_int
	kernel := C.clCreateKernel(p.program, cname, &status)
	if err := checkStatus("clCreateKernel", int(status)); err != nil {
		return nil, err
	}
	c.scope.Defer("kernel", func() error {
		return checkStatus("clReleaseKernel", int(C.clReleaseKernel(kernel)))
	})
	return &Kernel{kernel: kernel}, nil
}

// SetArgBuffer binds b to argument index.
func (k *Kernel) SetArgBuffer(index int, b *Buffer) error {
	return checkStatus("clSetKernelArg", int(C.clbench_set_mem_arg(k.kernel, C.cl_uint(index), b.mem)))
}

// SetArgUint32 binds v as an unsigned int argument.
func (k *Kernel) SetArgUint32(index int, v uint32) error {
	arg := C.cl_uint(v)
	status := C.clSetKernelArg(k.kernel, C.cl_uint(index), C.size_t(unsafe.Sizeof(arg)), unsafe.Pointer(&arg))
	return checkStatus("clSetKernelArg", int(status))
}

// RunKernel enqueues a one-dimensional launch and blocks until it completes.
// A non-positive local size leaves the work-group size to the driver.
func (c *Context) RunKernel(k *Kernel, global, local int) error {
	g := C.size_t(global)
	l := C.size_t(local)
	lp := &l
	if local <= 0 {
		lp = nil
	}

	var event C.cl_event
	status := C.clEnqueueNDRangeKernel(c.queue, k.kernel, 1, nil, &g, lp, 0, nil, &event)
	if err := checkStatus("clEnqueueNDRangeKernel", int(status)); err != nil {
		return err
	}
	return waitAndRelease(event)
}

// ReadBuffer copies the first len(dst) elements of b into dst and blocks
// until the transfer completes.
func (c *Context) ReadBuffer(b *Buffer, dst []float32) error {
	if len(dst) == 0 {
		return nil
	}
	if len(dst) > b.elements {
		return fmt.Errorf("read buffer: %d elements requested, buffer holds %d", len(dst), b.elements)
	}

	var event C.cl_event
	status := C.clEnqueueReadBuffer(c.queue, b.mem, C.CL_TRUE, 0, C.size_t(len(dst)*float32Size), unsafe.Pointer(&dst[0]), 0, nil, &event)
	if err := checkStatus("clEnqueueReadBuffer", int(status)); err != nil {
		return err
	}
	return waitAndRelease(event)
}

func waitAndRelease(event C.cl_event) error {
	waitErr := checkStatus("clWaitForEvents", int(C.clWaitForEvents(1, &event)))
	releaseErr := checkStatus("clReleaseEvent", int(C.clReleaseEvent(event)))
	return errors.Join(waitErr, releaseErr)
}

func platformString(id C.cl_platform_id, param C.cl_platform_info) (string, error) {
	return QueryString(func(dst []byte) (int, error) {
		var size C.size_t
		var ptr unsafe.Pointer
		if len(dst) > 0 {
			ptr = unsafe.Pointer(&dst[0])
		}
		status := C.clGetPlatformInfo(id, param, C.size_t(len(dst)), ptr, &size)
		if err := checkStatus("clGetPlatformInfo", int(status)); err != nil {
			return 0, err
		}
		return int(size), nil
	})
}

func deviceString(id C.cl_device_id, param C.cl_device_info) (string, error) {
	return QueryString(func(dst []byte) (int, error) {
		var size C.size_t
		var ptr unsafe.Pointer
		if len(dst) > 0 {
			ptr = unsafe.Pointer(&dst[0])
		}
		status := C.clGetDeviceInfo(id, param, C.size_t(len(dst)), ptr, &size)
		if err := checkStatus("clGetDeviceInfo", int(status)); err != nil {
			return 0, err
		}
		return int(size), nil
	})
}

func mapDeviceType(dt C.cl_device_type) DeviceType {
	switch {
	case dt&C.CL_DEVICE_TYPE_GPU != 0:
		return DeviceTypeGPU
	case dt&C.CL_DEVICE_TYPE_CPU != 0:
		return DeviceTypeCPU
	case dt&C.CL_DEVICE_TYPE_ACCELERATOR != 0:
		return DeviceTypeAccelerator
	case dt&C.CL_DEVICE_TYPE_DEFAULT != 0:
		return DeviceTypeDefault
	default:
		return DeviceTypeUnknown
	}
}

func deviceTypeFilter(t DeviceType) C.cl_device_type {
	switch t {
	case DeviceTypeGPU:
		return C.CL_DEVICE_TYPE_GPU
	case DeviceTypeCPU:
		return C.CL_DEVICE_TYPE_CPU
	case DeviceTypeAccelerator:
		return C.CL_DEVICE_TYPE_ACCELERATOR
	case DeviceTypeDefault:
		return C.CL_DEVICE_TYPE_DEFAULT
	default:
		return C.CL_DEVICE_TYPE_ALL
	}
}

func memFlags(access MemAccess) C.cl_mem_flags {
	switch access {
	case ReadOnly:
		return C.CL_MEM_READ_ONLY
	case WriteOnly:
		return C.CL_MEM_WRITE_ONLY
	default:
		return C.CL_MEM_READ_WRITE
	}
}
