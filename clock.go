package membw

import "time"

// Clock returns monotonically increasing wall-clock seconds. Implementations
// must be immune to wall-clock adjustments (such as NTP skew) for the
// duration of a run.
type Clock interface {
	Now() float64
}

// wallEpoch anchors WallClock readings. time.Since uses the runtime's
// monotonic reading, so later adjustments to the system clock do not show up.
var wallEpoch = time.Now()

// WallClock measures seconds since an arbitrary process-local epoch using the
// Go runtime's monotonic clock. Resolution is nanoseconds nominal.
type WallClock struct{}

func (WallClock) Now() float64 {
	return time.Since(wallEpoch).Seconds()
}

// CounterClock converts a raw monotonically increasing hardware counter into
// seconds at a known fixed frequency. Read supplies the current counter
// value: a cycle counter on targets that expose one, or any equivalent
// free-running source.
type CounterClock struct {
	Read func() uint64
	Hz   uint64
}

func (c CounterClock) Now() float64 {
	return float64(c.Read()) / float64(c.Hz)
}

// granularitySamples is the number of distinct clock readings collected while
// estimating timer granularity.
const granularitySamples = 20

// collectTicks gathers granularitySamples strictly increasing readings from
// clk, spinning until each reading has advanced at least one microsecond past
// the previous one.
func collectTicks(clk Clock) []float64 {
	ticks := make([]float64, granularitySamples)
	for i := range ticks {
		t1 := clk.Now()
		t2 := clk.Now()
		for t2-t1 < 1e-6 {
			t2 = clk.Now()
		}
		ticks[i] = t2
	}
	return ticks
}

// Granularity estimates the smallest observable time increment of clk, in
// whole microseconds. It returns 1 when the clock resolves finer than one
// microsecond. The estimate is informational only; it never alters kernel
// execution.
func Granularity(clk Clock) int {
	ticks := collectTicks(clk)

	minDelta := 1000000
	for i := 1; i < len(ticks); i++ {
		delta := int(1e6 * (ticks[i] - ticks[i-1]))
		if delta < 0 {
			delta = 0
		}
		if delta < minDelta {
			minDelta = delta
		}
	}
	if minDelta < 1 {
		minDelta = 1
	}
	return minDelta
}
