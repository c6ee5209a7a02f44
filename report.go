package membw

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KernelSummary aggregates the timing samples of one kernel over repetitions
// 1..N-1; repetition 0 is the warm-up and never counts.
type KernelSummary struct {
	Kernel   Kernel
	BestMBps float64 // bandwidth at the minimum observed time
	AvgTime  float64 // seconds
	MinTime  float64 // seconds
	MaxTime  float64 // seconds
}

// Summarize derives per-kernel statistics from the timing table. bufBytes is
// the page-rounded size of one buffer. Requires at least two repetitions.
func Summarize(times Times, bufBytes int64) [NumKernels]KernelSummary {
	var out [NumKernels]KernelSummary
	for k := range times {
		samples := times[k][1:]
		min := floats.Min(samples)
		out[k] = KernelSummary{
			Kernel:   Kernel(k),
			AvgTime:  stat.Mean(samples, nil),
			MinTime:  min,
			MaxTime:  floats.Max(samples),
			BestMBps: 1e-6 * float64(Kernel(k).BytesMoved(bufBytes)) / min,
		}
	}
	return out
}

// WriteTable prints the fixed-width summary table in the classic layout.
func WriteTable(w io.Writer, summaries [NumKernels]KernelSummary) {
	fmt.Fprintf(w, "Function    Best Rate MB/s  Avg time     Min time     Max time\n")
	for _, s := range summaries {
		fmt.Fprintf(w, "%-11s%12.1f  %11.6f  %11.6f  %11.6f\n",
			s.Kernel.String()+":", s.BestMBps, s.AvgTime, s.MinTime, s.MaxTime)
	}
}
