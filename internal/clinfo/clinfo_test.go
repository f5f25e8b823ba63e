package clinfo

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/clbench/internal/cl"
)

// countingProvider reports a fixed number of devices per platform through
// the count-then-fill pattern.
type countingProvider struct {
	devicesPerPlatform []int
}

func (p *countingProvider) PlatformIDs() ([]cl.PlatformID, error) {
	return cl.CountThenFill(func(dst []cl.PlatformID) (int, error) {
		for i := range dst {
			dst[i] = cl.PlatformID(i)
		}
		return len(p.devicesPerPlatform), nil
	})
}

func (p *countingProvider) PlatformInfo(id cl.PlatformID) (cl.PlatformInfo, error) {
	return cl.PlatformInfo{Name: "platform-" + strconv.Itoa(int(id)), Vendor: "ACME"}, nil
}

func (p *countingProvider) DeviceIDs(platform cl.PlatformID, _ cl.DeviceType) ([]cl.DeviceID, error) {
	return cl.CountThenFill(func(dst []cl.DeviceID) (int, error) {
		for i := range dst {
			dst[i] = cl.DeviceID(i)
		}
		return p.devicesPerPlatform[platform], nil
	})
}

func (p *countingProvider) DeviceInfo(id cl.DeviceID) (cl.DeviceInfo, error) {
	return cl.DeviceInfo{
		Name:               "device-" + strconv.Itoa(int(id)),
		Type:               cl.DeviceTypeGPU,
		GlobalMemSize:      8 << 30,
		GlobalMemCacheSize: 512 << 10,
		CacheLineSize:      64,
		LocalMemSize:       48 << 10,
		MaxComputeUnits:    40,
		MaxWorkGroupSize:   1024,
		MaxWorkItemSizes:   []int{1024, 1024, 64},
	}, nil
}

func TestWrite_DeviceCountsMatchQueries(t *testing.T) {
	p := &countingProvider{devicesPerPlatform: []int{2, 0, 3}}

	platforms, err := cl.Enumerate(p)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, platforms))
	out := buf.String()

	assert.Contains(t, out, "Number of OpenCL platforms: 3\n")

	re := regexp.MustCompile(`Number of platform devices: (\d+)`)
	matches := re.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 3)
	for i, m := range matches {
		ids, err := p.DeviceIDs(cl.PlatformID(i), cl.DeviceTypeAll)
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(len(ids)), m[1], "platform %d", i)
	}

	assert.Len(t, regexp.MustCompile(`Device #\d+/\d+`).FindAllString(out, -1), 5)
}

func TestWrite_DeviceProperties(t *testing.T) {
	platforms := []cl.PlatformInfo{{
		Name:   "NVIDIA CUDA",
		Vendor: "NVIDIA Corporation",
		Devices: []cl.DeviceInfo{{
			Name:               "GeForce GTX 1080",
			Type:               cl.DeviceTypeGPU,
			GlobalMemSize:      8 << 30,
			GlobalMemCacheSize: 320 << 10,
			CacheLineSize:      128,
			LocalMemSize:       48 << 10,
			MaxWorkGroupSize:   1024,
			MaxWorkItemSizes:   []int{1024, 1024, 64},
		}},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, platforms))
	out := buf.String()

	assert.Contains(t, out, "Platform #1/1\n")
	assert.Contains(t, out, "Platform vendor: NVIDIA Corporation\n")
	assert.Contains(t, out, "Device name: GeForce GTX 1080\n")
	assert.Contains(t, out, "Device type: GPU\n")
	assert.Contains(t, out, "Device global mem size: 8.0 GiB\n")
	assert.Contains(t, out, "Device global mem cacheline size: 128 B\n")
	assert.Contains(t, out, "Device local mem size: 48 KiB\n")
	assert.Contains(t, out, "Device max work item dimensions: 3\n")
	assert.Contains(t, out, "Device max work item sizes: 1024 1024 64\n")
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "CPU", TypeLabel(cl.DeviceTypeCPU))
	assert.Equal(t, "GPU", TypeLabel(cl.DeviceTypeGPU))
	assert.Equal(t, "Other", TypeLabel(cl.DeviceTypeAccelerator))
	assert.Equal(t, "Other", TypeLabel(cl.DeviceTypeUnknown))
}
