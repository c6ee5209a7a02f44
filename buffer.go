package membw

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultDeviceOffset is the byte offset of the first device mapping when the
// caller supplies none.
const DefaultDeviceOffset int64 = 0x1_0000_0000

// Float is the set of element types the kernels operate on.
type Float interface {
	~float32 | ~float64
}

// PageRound rounds n up to the next multiple of the system page size.
func PageRound(n int64) int64 {
	page := int64(unix.Getpagesize())
	return (n + page - 1) &^ (page - 1)
}

// Buffers owns the three equal-sized, page-aligned regions a measurement run
// mutates. The regions are non-overlapping and individually contiguous.
// Device-backed buffers are shared mappings into an external file or device;
// heap-backed buffers are process memory. Close releases them exactly once.
type Buffers struct {
	A, B, C []byte

	// Bytes is the page-rounded size of each region.
	Bytes int64

	file   *os.File // non-nil when device-backed
	closed bool
}

// Provision allocates three independent heap-backed buffers of byteSize bytes
// each, rounded up to a page multiple and aligned to the page size.
func Provision(byteSize int64) (*Buffers, error) {
	if byteSize <= 0 {
		return nil, ErrInvalidSize
	}
	size := PageRound(byteSize)

	bufs := &Buffers{Bytes: size}
	bufs.A = allocAligned(size)
	bufs.B = allocAligned(size)
	bufs.C = allocAligned(size)
	return bufs, nil
}

// ProvisionDevice opens path read/write and maps three adjacent byteSize
// regions into it, at offset, offset+byteSize and offset+2*byteSize.
// Non-positive offsets fall back to DefaultDeviceOffset; the offset is
// truncated to page alignment. Open and mapping failures are unrecoverable
// for the run.
func ProvisionDevice(path string, byteSize, offset int64) (*Buffers, error) {
	if byteSize <= 0 {
		return nil, ErrInvalidSize
	}
	size := PageRound(byteSize)

	if offset <= 0 {
		offset = DefaultDeviceOffset
	}
	offset &^= int64(unix.Getpagesize() - 1)

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, NewDeviceError("Open", fmt.Sprintf("%s is not opened", path), err)
	}

	bufs := &Buffers{Bytes: size, file: f}
	for i, region := range []*[]byte{&bufs.A, &bufs.B, &bufs.C} {
		m, err := unix.Mmap(int(f.Fd()), offset+int64(i)*size, int(size),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			bufs.Close()
			return nil, NewDeviceError("Mmap",
				fmt.Sprintf("mapping %s at offset %#x", path, offset+int64(i)*size), err)
		}
		*region = m
	}
	return bufs, nil
}

// Close releases the three regions: unmapping and closing the descriptor for
// device-backed buffers, dropping the allocations for heap-backed ones.
// Subsequent calls return ErrClosed.
func (bufs *Buffers) Close() error {
	if bufs.closed {
		return ErrClosed
	}
	bufs.closed = true

	var firstErr error
	if bufs.file != nil {
		for _, region := range [][]byte{bufs.A, bufs.B, bufs.C} {
			if region == nil {
				continue
			}
			if err := unix.Munmap(region); err != nil && firstErr == nil {
				firstErr = NewMemoryError("Munmap", "failed to unmap region", err)
			}
		}
		if err := bufs.file.Close(); err != nil && firstErr == nil {
			firstErr = NewDeviceError("Close", "failed to close device", err)
		}
		bufs.file = nil
	}
	bufs.A, bufs.B, bufs.C = nil, nil, nil
	return firstErr
}

// Mapped reports whether the buffers are device-backed mappings.
func (bufs *Buffers) Mapped() bool {
	return bufs.file != nil
}

// View reinterprets a region as a slice of E covering every whole element.
func View[E Float](region []byte) []E {
	elemSize := int(unsafe.Sizeof(*new(E)))
	n := len(region) / elemSize
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*E)(unsafe.Pointer(&region[0])), n)
}

// allocAligned returns a page-aligned slice of exactly size bytes. The
// returned slice keeps its (oversized) backing array alive.
func allocAligned(size int64) []byte {
	page := int64(unix.Getpagesize())
	raw := make([]byte, size+page)
	misalign := int64(uintptr(unsafe.Pointer(&raw[0])) & uintptr(page-1))
	start := int64(0)
	if misalign != 0 {
		start = page - misalign
	}
	return raw[start : start+size : start+size]
}
