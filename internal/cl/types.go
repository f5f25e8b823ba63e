package cl

import (
	"fmt"
	"strings"
)

// DeviceType describes the class of an OpenCL device. It doubles as the
// filter passed to device queries.
type DeviceType string

const (
	DeviceTypeGPU         DeviceType = "GPU"
	DeviceTypeCPU         DeviceType = "CPU"
	DeviceTypeAccelerator DeviceType = "Accelerator"
	DeviceTypeDefault     DeviceType = "Default"
	DeviceTypeUnknown     DeviceType = "Unknown"

	// DeviceTypeAll matches every device. Only meaningful as a filter.
	DeviceTypeAll DeviceType = "All"
)

// ParseDeviceType maps user input such as "gpu" or "any" to a DeviceType.
func ParseDeviceType(name string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gpu":
		return DeviceTypeGPU, nil
	case "cpu":
		return DeviceTypeCPU, nil
	case "accelerator", "acc":
		return DeviceTypeAccelerator, nil
	case "default":
		return DeviceTypeDefault, nil
	case "all", "any":
		return DeviceTypeAll, nil
	default:
		return "", fmt.Errorf("unknown device type %q (want gpu, cpu, accelerator, default or any)", name)
	}
}

// PlatformID identifies a platform discovered by a Provider.
type PlatformID int

// DeviceID identifies a device discovered by a Provider.
type DeviceID int

// DeviceInfo captures metadata about an OpenCL device.
type DeviceInfo struct {
	Name    string
	Vendor  string
	Version string
	Type    DeviceType

	MaxComputeUnits    uint32
	GlobalMemSize      uint64
	GlobalMemCacheSize uint64
	CacheLineSize      uint32
	LocalMemSize       uint64
	MaxWorkGroupSize   int
	// MaxWorkItemSizes holds one limit per work-item dimension.
	MaxWorkItemSizes []int
}

// PlatformInfo captures metadata about an OpenCL platform and its devices.
type PlatformInfo struct {
	Name    string
	Vendor  string
	Version string
	Devices []DeviceInfo
}

// Provider is the slice of the OpenCL API needed to discover and describe
// devices. The cgo Runtime implements it; tests substitute fakes.
type Provider interface {
	PlatformIDs() ([]PlatformID, error)
	PlatformInfo(id PlatformID) (PlatformInfo, error)
	// DeviceIDs returns the devices of platform matching filter. A platform
	// with no matching device yields an empty slice and a nil error.
	DeviceIDs(platform PlatformID, filter DeviceType) ([]DeviceID, error)
	DeviceInfo(id DeviceID) (DeviceInfo, error)
}

// MemAccess is the kernel-side access mode of a buffer.
type MemAccess int

const (
	ReadWrite MemAccess = iota
	ReadOnly
	WriteOnly
)
