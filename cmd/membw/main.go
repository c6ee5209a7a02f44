// Command membw measures sustained memory bandwidth with the Copy, Scale,
// Add and Triad kernels, against local RAM or a memory-mapped device region.
//
// Usage:
//
//	membw [flags] [byteSize] [devicePath] [offset]
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/memlab/membw"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/cpu"
)

const hline = "-------------------------------------------------------------"

func main() {
	var (
		reps    = flag.Int("n", membw.DefaultRepetitions, "number of rounds per kernel; the first is a warm-up")
		single  = flag.Bool("single", false, "use single precision (float32) elements")
		verbose = flag.Bool("v", false, "list out-of-tolerance elements on validation failure")
	)
	flag.Parse()

	cfg := membw.DefaultConfig()
	cfg.Verbose = *verbose
	if *reps >= 2 {
		cfg.Repetitions = *reps
	}
	if *single {
		cfg.Precision = membw.Float32
	}
	cfg.BytesPerBuffer = membw.DefaultBytes(cfg.Precision)

	printUsage(cfg.BytesPerBuffer)

	args := flag.Args()
	if len(args) > 0 {
		// Malformed or non-positive sizes silently keep the default.
		if n, err := strconv.ParseInt(args[0], 10, 64); err == nil && n > 0 {
			cfg.BytesPerBuffer = n
		}
	}
	cfg.BytesPerBuffer = membw.PageRound(cfg.BytesPerBuffer)
	if len(args) > 1 {
		cfg.DevicePath = args[1]
		if len(args) > 2 {
			// Base auto-detection accepts 0x-prefixed offsets.
			if off, err := strconv.ParseInt(args[2], 0, 64); err == nil {
				cfg.DeviceOffset = off
			}
		}
	}

	if cfg.Precision == membw.Float32 {
		run[float32](cfg)
	} else {
		run[float64](cfg)
	}
}

func run[E membw.Float](cfg membw.Config) {
	h, err := membw.NewHarness[E](cfg, membw.WallClock{})
	if err != nil {
		fmt.Println(err)
		if membw.IsDeviceError(err) {
			// Device open and mapping failures end the run without a
			// distinct failure status.
			os.Exit(0)
		}
		os.Exit(1)
	}
	cfg = h.Config

	printConfig(cfg, h.Elements())

	workers := membw.CountWorkers(cfg.Workers)
	fmt.Printf("Number of workers requested = %d\n", runtime.GOMAXPROCS(0))
	fmt.Printf("Number of workers counted = %d\n", workers)

	fmt.Println(hline)
	quantum := membw.Granularity(h.Clock)
	if quantum > 1 {
		fmt.Printf("Your clock granularity/precision appears to be %d microseconds.\n", quantum)
	} else {
		fmt.Println("Your clock granularity appears to be 1 microsecond or finer.")
	}

	times, warmup := h.Run()

	warmupUsec := int(1e6 * warmup)
	fmt.Printf("Each test below will take on the order of %d microseconds.\n", warmupUsec)
	fmt.Printf("   (= %d clock ticks)\n", warmupUsec/quantum)
	fmt.Println("Increase the size of the arrays if this shows that")
	fmt.Println("you are not getting at least 20 clock ticks per test.")
	fmt.Println(hline)

	membw.WriteTable(os.Stdout, h.Summarize(times))
	fmt.Println(hline)

	printOutcome(h.Validate())
	fmt.Println(hline)

	if err := h.Close(); err != nil {
		fmt.Println(err)
	}
	os.Exit(0)
}

func printUsage(defaultBytes int64) {
	prog := os.Args[0]
	fmt.Printf("\nUsage: \t%s \t\t\t\t\t- Local RAM test with %d bytes\n", prog, defaultBytes)
	fmt.Printf("\t%s [size]\t\t\t\t- Local RAM test with [size] bytes\n", prog)
	fmt.Printf("\t%s [size] [/dev/mem]\t\t- /dev/mem test with [size] and offset=%#x\n", prog, membw.DefaultDeviceOffset)
	fmt.Printf("\t%s [size] [/dev/mem] [offset]\t- /dev/mem test with [size] and [offset]\n\n", prog)
}

func printConfig(cfg membw.Config, elements int) {
	fmt.Println(hline)
	fmt.Printf("membw: sustained memory bandwidth measurement\n")
	fmt.Println(hline)
	fmt.Printf("This system uses %d bytes per array element.\n", cfg.Precision.Size())
	fmt.Println(hline)
	fmt.Printf("Array size = %d (elements), Offset = %d (elements)\n", elements, membw.DefaultPadding)
	fmt.Printf("Memory per array = %.1f MiB (= %.1f GiB).\n",
		float64(cfg.BytesPerBuffer)/1024.0/1024.0,
		float64(cfg.BytesPerBuffer)/1024.0/1024.0/1024.0)
	fmt.Printf("Total memory required = %.1f MiB (= %.1f GiB).\n",
		3.0*float64(cfg.BytesPerBuffer)/1024.0/1024.0,
		3.0*float64(cfg.BytesPerBuffer)/1024.0/1024.0/1024.0)
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("Host memory: %.1f MiB total, %.1f MiB available.\n",
			float64(vm.Total)/1024.0/1024.0,
			float64(vm.Available)/1024.0/1024.0)
		if cfg.DevicePath == "" && 3*uint64(cfg.BytesPerBuffer) > vm.Available {
			fmt.Println("WARNING: total memory required exceeds available host memory.")
		}
	}
	if cfg.DevicePath != "" {
		fmt.Printf("Buffers are mapped from %s.\n", cfg.DevicePath)
	}
	fmt.Printf("Each kernel will be executed %d times.\n", cfg.Repetitions)
	fmt.Println(" The *best* time for each kernel (excluding the first iteration)")
	fmt.Println(" will be used to compute the reported bandwidth.")
	printCPUFeatures()
}

func printCPUFeatures() {
	if runtime.GOARCH != "amd64" {
		return
	}
	fmt.Printf("CPU features: AVX=%v AVX2=%v AVX512F=%v FMA=%v\n",
		cpu.X86.HasAVX, cpu.X86.HasAVX2, cpu.X86.HasAVX512F, cpu.X86.HasFMA)
}

func printOutcome(o membw.Outcome) {
	failed := 0
	for _, b := range o.Buffers {
		if !b.Failed {
			continue
		}
		failed++
		fmt.Printf("Failed Validation on array %s[], AvgRelAbsErr > epsilon (%e)\n", b.Name, o.Epsilon)
		fmt.Printf("     Expected Value: %e, AvgAbsErr: %e, AvgRelAbsErr: %e\n",
			b.Expected, b.AvgAbsErr, b.RelErr)
		for _, e := range b.Detail {
			fmt.Printf("         array %s: index: %d, expected: %e, observed: %e, relative error: %e\n",
				b.Name, e.Index, e.Expected, e.Observed, e.RelError)
		}
		fmt.Printf("     For array %s[], %d errors were found.\n", b.Name, b.ErrCount)
	}
	if failed == 0 {
		fmt.Printf("Solution Validates: avg error less than %e on all three arrays\n", o.Epsilon)
	}
}
