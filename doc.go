// Package membw measures sustained memory-to-memory transfer bandwidth.
//
// The harness runs four synthetic elementwise kernels over three equal-sized,
// page-aligned buffers:
//
//	Copy:  C = A
//	Scale: B = s*C
//	Add:   C = A + B
//	Triad: A = B + s*C
//
// Each kernel executes for a fixed number of repetitions, its elementwise loop
// partitioned across worker goroutines. The best time per kernel (excluding
// the first, warm-up repetition) determines the reported bandwidth in MB/s.
// After the timed loop, the final buffer contents are validated against an
// analytically replayed scalar recurrence.
//
// Buffers come from process memory by default, or from a memory mapping into
// an external file or device region (such as /dev/mem) for testing
// memory-mapped hardware.
package membw
