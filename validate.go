package membw

import (
	"math"
	"unsafe"
)

// maxElementDetail bounds the per-buffer list of offending elements collected
// in verbose mode.
const maxElementDetail = 10

// Epsilon returns the validation tolerance for element type E: 1e-6 for
// single precision, 1e-13 for double precision.
func Epsilon[E Float]() float64 {
	if unsafe.Sizeof(*new(E)) == 4 {
		return 1e-6
	}
	return 1e-13
}

// ElementError pinpoints one out-of-tolerance element. RelError is the
// element's deviation relative to the buffer's average absolute error.
type ElementError struct {
	Index    int
	Expected float64
	Observed float64
	RelError float64
}

// BufferOutcome reports how one buffer's contents compared against the
// analytically expected endpoint value.
type BufferOutcome struct {
	Name      string
	Expected  float64
	AvgAbsErr float64
	RelErr    float64
	Failed    bool

	// ErrCount is the number of individual elements whose relative
	// deviation from Expected exceeds the tolerance. Counted only for
	// failed buffers.
	ErrCount int

	// Detail lists up to maxElementDetail offending elements, populated in
	// verbose mode only.
	Detail []ElementError
}

// Outcome is the overall validation result. The run fails if any buffer
// fails; a failed validation is reported but never aborts the process.
type Outcome struct {
	Buffers [3]BufferOutcome
	Epsilon float64
}

// Failed reports whether any buffer exceeded tolerance.
func (o Outcome) Failed() bool {
	for _, b := range o.Buffers {
		if b.Failed {
			return true
		}
	}
	return false
}

// ExpectedValues replays the kernel sequence with scalar arithmetic,
// mirroring the per-element kernels exactly: initialization, the warm-up
// doubling of a, then reps rounds of Copy, Scale, Add, Triad.
//
// The replay deliberately covers all reps rounds, not reps-1, so the result
// matches the buffer state the executor leaves behind.
func ExpectedValues[E Float](reps int) (aj, bj, cj E) {
	aj, bj, cj = 1.0, 2.0, 0.0
	aj = 2.0 * aj
	scalar := E(KernelScalar)
	for k := 0; k < reps; k++ {
		cj = aj
		bj = scalar * cj
		cj = aj + bj
		aj = bj + scalar*cj
	}
	return aj, bj, cj
}

// Validate recomputes the expected endpoint values for a run of reps rounds
// and compares each buffer's contents against them within tolerance.
func Validate[E Float](bufs *Buffers, reps int, verbose bool) Outcome {
	aj, bj, cj := ExpectedValues[E](reps)
	eps := Epsilon[E]()

	out := Outcome{Epsilon: eps}
	out.Buffers[0] = checkBuffer("a", View[E](bufs.A), aj, eps, verbose)
	out.Buffers[1] = checkBuffer("b", View[E](bufs.B), bj, eps, verbose)
	out.Buffers[2] = checkBuffer("c", View[E](bufs.C), cj, eps, verbose)
	return out
}

func checkBuffer[E Float](name string, data []E, expected E, eps float64, verbose bool) BufferOutcome {
	var sumErr E
	for _, v := range data {
		d := v - expected
		if d < 0 {
			d = -d
		}
		sumErr += d
	}
	avgErr := float64(sumErr) / float64(len(data))
	exp := float64(expected)

	out := BufferOutcome{
		Name:      name,
		Expected:  exp,
		AvgAbsErr: avgErr,
		RelErr:    math.Abs(avgErr / exp),
	}
	if out.RelErr <= eps {
		return out
	}

	out.Failed = true
	for j, v := range data {
		if math.Abs(float64(v)/exp-1.0) > eps {
			out.ErrCount++
			if verbose && len(out.Detail) < maxElementDetail {
				out.Detail = append(out.Detail, ElementError{
					Index:    j,
					Expected: exp,
					Observed: float64(v),
					RelError: math.Abs((exp - float64(v)) / avgErr),
				})
			}
		}
	}
	return out
}
