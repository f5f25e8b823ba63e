package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/clbench/internal/bench"
	"github.com/cwbudde/clbench/internal/cl"
)

var (
	configPath    string
	elements      int
	repetitions   int
	workGroupSize int
	kernelPath    string
	deviceType    string
	seed          int64
)

var aplusbCmd = &cobra.Command{
	Use:   "aplusb",
	Short: "Benchmark the a+b kernel",
	Long: `Selects an OpenCL device (GPU, then CPU, then any), runs the aplusb kernel
on two random arrays, reports kernel time, GFlops and memory bandwidth, and
checks the result against the CPU.

The kernel source is read from --kernel relative to the working directory.`,
	RunE: runAPlusB,
}

func init() {
	defaults := bench.DefaultConfig()

	aplusbCmd.Flags().StringVar(&configPath, "config", "", "YAML file with benchmark settings")
	aplusbCmd.Flags().IntVarP(&elements, "elements", "n", defaults.Elements, "Number of elements per array")
	aplusbCmd.Flags().IntVar(&repetitions, "reps", defaults.Repetitions, "Timed repetitions")
	aplusbCmd.Flags().IntVar(&workGroupSize, "work-group", defaults.WorkGroupSize, "Work-group size")
	aplusbCmd.Flags().StringVar(&kernelPath, "kernel", defaults.KernelPath, "Path to the aplusb kernel source")
	aplusbCmd.Flags().StringVar(&deviceType, "device", defaults.Device, "Preferred device type: gpu, cpu, accelerator, any")
	aplusbCmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed for input data")

	rootCmd.AddCommand(aplusbCmd)
}

// benchConfig merges the config file, if any, with explicitly set flags.
func benchConfig(cmd *cobra.Command) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if configPath != "" {
		loaded, err := bench.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("elements") {
		cfg.Elements = elements
	}
	if flags.Changed("reps") {
		cfg.Repetitions = repetitions
	}
	if flags.Changed("work-group") {
		cfg.WorkGroupSize = workGroupSize
	}
	if flags.Changed("kernel") {
		cfg.KernelPath = kernelPath
	}
	if flags.Changed("device") {
		cfg.Device = deviceType
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func runAPlusB(cmd *cobra.Command, args []string) error {
	cfg, err := benchConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	preferred, err := cl.ParseDeviceType(cfg.Device)
	if err != nil {
		return err
	}

	log := slog.Default().With("run_id", uuid.NewString())
	out := cmd.OutOrStdout()

	rt, err := cl.NewRuntime()
	if err != nil {
		return err
	}
	sel, err := cl.SelectDevice(rt, preferred)
	if err != nil {
		return err
	}
	log.Info("Selected device",
		"platform", sel.PlatformInfo.Name,
		"device", sel.Info.Name,
		"type", sel.Type(),
		"requested", preferred,
	)
	fmt.Fprintf(out, "Using device: %s (%s, platform %s)\n", sel.Info.Name, sel.Type(), sel.PlatformInfo.Name)

	ctx, err := rt.NewContext(sel)
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	defer func() {
		if err := ctx.Close(); err != nil {
			log.Warn("Releasing OpenCL objects failed", "err", err)
		}
	}()

	start := time.Now()
	a, b := bench.RandomInputs(cfg.Elements, cfg.Seed)
	fmt.Fprintf(out, "Data generated for n=%d!\n", cfg.Elements)
	log.Debug("Generated inputs", "elements", cfg.Elements, "elapsed", time.Since(start))

	source, err := bench.LoadKernelSource(cfg.KernelPath)
	if err != nil {
		return err
	}

	kernel, err := bench.NewOpenCLAddKernel(ctx, source, cfg.KernelName, a, b, cfg.WorkGroupSize)
	if err != nil {
		var buildErr *cl.BuildError
		if errors.As(err, &buildErr) {
			log.Error("OpenCL build log", "log", buildErr.Log)
			fmt.Fprintf(out, "Log:\n%s\n", buildErr.Log)
		}
		return err
	}
	if len(kernel.Program.BuildLog) > 1 {
		fmt.Fprintf(out, "Log:\n%s\n", kernel.Program.BuildLog)
	}
	log.Info("Kernel ready", "global", kernel.Global, "local", kernel.Local)

	report, err := bench.Run(kernel, a, b, cfg.Repetitions, log)
	if report.Kernel.Samples > 0 {
		if perr := bench.PrintReport(out, report); perr != nil {
			return perr
		}
	}
	return err
}
