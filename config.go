// Package membw configuration constants
package membw

// Precision selects the element type of a run.
type Precision int

const (
	// Float64 runs the kernels over double precision elements.
	Float64 Precision = iota

	// Float32 runs the kernels over single precision elements.
	Float32
)

// Size returns the element size in bytes.
func (p Precision) Size() int {
	if p == Float32 {
		return 4
	}
	return 8
}

// String returns the precision name.
func (p Precision) String() string {
	if p == Float32 {
		return "single"
	}
	return "double"
}

// Run parameters
const (
	// DefaultArraySize is the default number of elements per buffer. Large
	// enough that each buffer exceeds 4x the size of L3 caches up to 20 MB,
	// so the kernels measure memory rather than cache throughput.
	DefaultArraySize = 10_000_000

	// DefaultPadding is the number of padding elements added to
	// DefaultArraySize when sizing buffers with no explicit byte size.
	DefaultPadding = 0

	// DefaultRepetitions is the number of rounds each kernel executes. The
	// first round is a warm-up, excluded from summary statistics, so the
	// minimum useful value is 2.
	DefaultRepetitions = 10

	// KernelScalar is the fixed multiplier used by the Scale and Triad
	// kernels for the whole run.
	KernelScalar = 3.0
)

// Config carries every knob of a measurement run. It replaces the
// compile-time switches of classic implementations with explicit state.
type Config struct {
	// BytesPerBuffer is the size of each of the three buffers. Rounded up
	// to a page multiple at provisioning time.
	BytesPerBuffer int64

	// Repetitions is the number of rounds of the four kernels.
	Repetitions int

	// Workers is the number of goroutines partitioning each kernel loop.
	// Zero means GOMAXPROCS, which follows the GOMAXPROCS environment
	// variable.
	Workers int

	// Precision selects single or double precision elements.
	Precision Precision

	// Verbose lists out-of-tolerance elements on validation failure.
	Verbose bool

	// DevicePath, when non-empty, maps the buffers into this file or
	// device instead of allocating process memory.
	DevicePath string

	// DeviceOffset is the byte offset of the first buffer's mapping.
	// Non-positive values fall back to DefaultDeviceOffset.
	DeviceOffset int64
}

// DefaultBytes returns the default per-buffer byte size for p.
func DefaultBytes(p Precision) int64 {
	return int64(DefaultArraySize+DefaultPadding) * int64(p.Size())
}

// DefaultConfig returns a Config with the classic defaults: 10M double
// precision elements, 10 repetitions, one worker per available CPU.
func DefaultConfig() Config {
	return Config{
		BytesPerBuffer: DefaultBytes(Float64),
		Repetitions:    DefaultRepetitions,
		Precision:      Float64,
	}
}
