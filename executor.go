package membw

// NumKernels is the number of timed kernels per round.
const NumKernels = 4

// Kernel identifies one of the four timed kernels.
type Kernel int

const (
	Copy Kernel = iota // C = A
	Scale              // B = s*C
	Add                // C = A + B
	Triad              // A = B + s*C
)

var kernelNames = [NumKernels]string{"Copy", "Scale", "Add", "Triad"}

// String returns the kernel name.
func (k Kernel) String() string {
	if k < 0 || int(k) >= NumKernels {
		return "Unknown"
	}
	return kernelNames[k]
}

// BytesMoved returns the bytes transferred by one execution of k over buffers
// of bufBytes bytes each: two buffer touches per element for Copy and Scale,
// three for Add and Triad.
func (k Kernel) BytesMoved(bufBytes int64) int64 {
	switch k {
	case Add, Triad:
		return 3 * bufBytes
	default:
		return 2 * bufBytes
	}
}

// Times holds one elapsed-seconds sample per kernel per repetition.
// Repetition 0 is a warm-up round, excluded from summary statistics.
type Times [NumKernels][]float64

// RunKernels executes the full measurement loop over bufs.
//
// It first initializes A=1, B=2, C=0 in parallel, then runs a separately
// timed warm-up pass A = 2*A whose elapsed seconds are returned as a rough
// per-test duration estimate. It then executes cfg.Repetitions rounds of
// Copy, Scale, Add, Triad in that fixed order, each round's kernels bracketed
// by independent clock readings that include the full worker join. One
// round's kernel must complete before the next begins: Scale reads what Copy
// wrote, Add reads what Scale wrote, Triad reads what Add wrote.
func RunKernels[E Float](bufs *Buffers, cfg Config, clk Clock) (Times, float64) {
	a := View[E](bufs.A)
	b := View[E](bufs.B)
	c := View[E](bufs.C)
	n := len(a)
	scalar := E(KernelScalar)
	workers := cfg.Workers

	parallelFor(n, workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			a[j] = 1.0
			b[j] = 2.0
			c[j] = 0.0
		}
	})

	t := clk.Now()
	parallelFor(n, workers, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			a[j] = 2.0 * a[j]
		}
	})
	warmup := clk.Now() - t

	var times Times
	for k := range times {
		times[k] = make([]float64, cfg.Repetitions)
	}

	for rep := 0; rep < cfg.Repetitions; rep++ {
		t = clk.Now()
		parallelFor(n, workers, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				c[j] = a[j]
			}
		})
		times[Copy][rep] = clk.Now() - t

		t = clk.Now()
		parallelFor(n, workers, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				b[j] = scalar * c[j]
			}
		})
		times[Scale][rep] = clk.Now() - t

		t = clk.Now()
		parallelFor(n, workers, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				c[j] = a[j] + b[j]
			}
		})
		times[Add][rep] = clk.Now() - t

		t = clk.Now()
		parallelFor(n, workers, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				a[j] = b[j] + scalar*c[j]
			}
		})
		times[Triad][rep] = clk.Now() - t
	}

	return times, warmup
}
