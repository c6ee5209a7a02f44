package membw

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallelForCoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 16} {
		for _, n := range []int{0, 1, 5, 16, 10007} {
			visits := make([]int32, n)
			parallelFor(n, workers, func(lo, hi int) {
				for j := lo; j < hi; j++ {
					atomic.AddInt32(&visits[j], 1)
				}
			})
			for j, v := range visits {
				if v != 1 {
					t.Fatalf("workers=%d n=%d: index %d visited %d times", workers, n, j, v)
				}
			}
		}
	}
}

func TestParallelForJoinsBeforeReturning(t *testing.T) {
	const n = 1 << 16
	data := make([]float64, n)
	parallelFor(n, 8, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			data[j] = 1
		}
	})
	// All writes must be visible here without further synchronization.
	for j, v := range data {
		if v != 1 {
			t.Fatalf("index %d not written before return", j)
		}
	}
}

func TestCountWorkers(t *testing.T) {
	assert.Equal(t, 1, CountWorkers(1))
	assert.Equal(t, 4, CountWorkers(4))
	assert.GreaterOrEqual(t, CountWorkers(0), 1)
}
