// Package clinfo prints OpenCL platform and device properties.
package clinfo

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/clbench/internal/cl"
)

// Write prints every platform and its devices as indented text.
func Write(w io.Writer, platforms []cl.PlatformInfo) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Number of OpenCL platforms: %d\n", len(platforms))
	for i, p := range platforms {
		fmt.Fprintf(bw, "Platform #%d/%d\n", i+1, len(platforms))
		fmt.Fprintf(bw, "    Platform name: %s\n", p.Name)
		fmt.Fprintf(bw, "    Platform vendor: %s\n", p.Vendor)
		fmt.Fprintf(bw, "    Platform version: %s\n", p.Version)
		fmt.Fprintf(bw, "      Number of platform devices: %d\n", len(p.Devices))

		for j, d := range p.Devices {
			fmt.Fprintf(bw, "      Device #%d/%d\n", j+1, len(p.Devices))
			writeDevice(bw, d)
		}
	}

	return bw.Flush()
}

func writeDevice(w io.Writer, d cl.DeviceInfo) {
	const indent = "          "

	fmt.Fprintf(w, "%sDevice name: %s\n", indent, d.Name)
	fmt.Fprintf(w, "%sDevice type: %s\n", indent, TypeLabel(d.Type))
	fmt.Fprintf(w, "%sDevice vendor: %s\n", indent, d.Vendor)
	fmt.Fprintf(w, "%sDevice version: %s\n", indent, d.Version)
	fmt.Fprintf(w, "%sDevice global mem size: %s\n", indent, humanize.IBytes(d.GlobalMemSize))
	fmt.Fprintf(w, "%sDevice global mem cache size: %s\n", indent, humanize.IBytes(d.GlobalMemCacheSize))
	fmt.Fprintf(w, "%sDevice global mem cacheline size: %d B\n", indent, d.CacheLineSize)
	fmt.Fprintf(w, "%sDevice local mem size: %s\n", indent, humanize.IBytes(d.LocalMemSize))
	fmt.Fprintf(w, "%sDevice max compute units: %d\n", indent, d.MaxComputeUnits)
	fmt.Fprintf(w, "%sDevice max work group size: %d\n", indent, d.MaxWorkGroupSize)
	fmt.Fprintf(w, "%sDevice max work item dimensions: %d\n", indent, len(d.MaxWorkItemSizes))
	fmt.Fprintf(w, "%sDevice max work item sizes: %s\n", indent, joinInts(d.MaxWorkItemSizes))
}

// TypeLabel collapses device types to CPU, GPU or Other.
func TypeLabel(t cl.DeviceType) string {
	switch t {
	case cl.DeviceTypeCPU, cl.DeviceTypeGPU:
		return string(t)
	default:
		return "Other"
	}
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
