package membw

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestPageRound(t *testing.T) {
	page := int64(unix.Getpagesize())
	assert.Equal(t, page, PageRound(1))
	assert.Equal(t, page, PageRound(page))
	assert.Equal(t, 2*page, PageRound(page+1))
	assert.Equal(t, 3*page, PageRound(3*page))
}

func TestProvisionRoundsAndAligns(t *testing.T) {
	bufs, err := Provision(1)
	require.NoError(t, err)
	defer bufs.Close()

	page := int64(unix.Getpagesize())
	assert.Equal(t, page, bufs.Bytes)
	for _, region := range [][]byte{bufs.A, bufs.B, bufs.C} {
		require.Len(t, region, int(page))
		addr := uintptr(unsafe.Pointer(&region[0]))
		assert.Zero(t, addr%uintptr(page), "region not page-aligned")
	}
}

func TestProvisionIdempotentSizing(t *testing.T) {
	first, err := Provision(100_000)
	require.NoError(t, err)
	defer first.Close()

	second, err := Provision(100_000)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.Bytes, second.Bytes)
	assert.Equal(t, PageRound(100_000), first.Bytes)
}

func TestProvisionNonOverlapping(t *testing.T) {
	bufs, err := Provision(4096)
	require.NoError(t, err)
	defer bufs.Close()

	for i := range bufs.A {
		bufs.A[i] = 1
	}
	for i := range bufs.B {
		bufs.B[i] = 2
	}
	for i := range bufs.C {
		bufs.C[i] = 3
	}
	for i := range bufs.A {
		if bufs.A[i] != 1 || bufs.B[i] != 2 || bufs.C[i] != 3 {
			t.Fatalf("buffers overlap at index %d", i)
		}
	}
}

func TestProvisionRejectsNonPositiveSize(t *testing.T) {
	_, err := Provision(0)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidSize, err)

	_, err = ProvisionDevice("/dev/null", -1, 0)
	assert.Equal(t, ErrInvalidSize, err)
}

func TestCloseExactlyOnce(t *testing.T) {
	bufs, err := Provision(4096)
	require.NoError(t, err)
	require.NoError(t, bufs.Close())
	assert.Equal(t, ErrClosed, bufs.Close())
}

func TestProvisionDevice(t *testing.T) {
	page := int64(unix.Getpagesize())
	size := 2 * page

	path := filepath.Join(t.TempDir(), "backing")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(page+3*size))
	require.NoError(t, f.Close())

	bufs, err := ProvisionDevice(path, size, page)
	require.NoError(t, err)
	require.True(t, bufs.Mapped())
	require.Len(t, bufs.A, int(size))
	require.Len(t, bufs.B, int(size))
	require.Len(t, bufs.C, int(size))

	// Writes through the mappings must land at adjacent file offsets.
	copy(bufs.A, []byte("alpha"))
	copy(bufs.B, []byte("bravo"))
	copy(bufs.C, []byte("candy"))
	require.NoError(t, bufs.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), data[page:page+5])
	assert.Equal(t, []byte("bravo"), data[page+size:page+size+5])
	assert.Equal(t, []byte("candy"), data[page+2*size:page+2*size+5])
}

func TestProvisionDeviceOpenFailure(t *testing.T) {
	_, err := ProvisionDevice(filepath.Join(t.TempDir(), "missing"), 4096, 4096)
	require.Error(t, err)
	assert.True(t, IsDeviceError(err))
}

func TestView(t *testing.T) {
	bufs, err := Provision(4096)
	require.NoError(t, err)
	defer bufs.Close()

	f64 := View[float64](bufs.A)
	require.Len(t, f64, int(bufs.Bytes)/8)
	f64[0] = 1.5

	f32 := View[float32](bufs.B)
	require.Len(t, f32, int(bufs.Bytes)/4)

	assert.Nil(t, View[float64](nil))
}
