package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/cl"
	"github.com/cwbudde/clbench/internal/clinfo"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List OpenCL platforms and devices",
	Long:  `Queries every installed OpenCL platform and prints the properties of its devices.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	rt, err := cl.NewRuntime()
	if err != nil {
		return err
	}

	platforms, err := cl.Enumerate(rt)
	if err != nil {
		return fmt.Errorf("enumerate devices: %w", err)
	}

	devices := 0
	for _, p := range platforms {
		devices += len(p.Devices)
	}
	slog.Debug("Enumerated OpenCL", "platforms", len(platforms), "devices", devices)

	return clinfo.Write(cmd.OutOrStdout(), platforms)
}
