package membw

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelFor partitions [0, n) into one contiguous chunk per worker and runs
// body on each chunk concurrently. It returns only after every worker has
// finished. The join is a correctness requirement, not an optimization:
// successive kernels carry true data dependencies, so one kernel's writes
// must be buffer-visible before the next kernel starts.
//
// Distinct indices map to distinct memory and iterations carry no
// cross-iteration dependency, so the chunks need no synchronization of their
// own. workers <= 0 means GOMAXPROCS.
func parallelFor(n, workers int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		body(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		go func(lo, hi int) {
			defer wg.Done()
			body(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// CountWorkers runs one trivial parallel loop and atomically counts the
// workers that actually executed. It exists purely so startup can report the
// effective parallelism; the timed kernels never touch an atomic.
func CountWorkers(workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var counted int32
	parallelFor(workers, workers, func(lo, hi int) {
		atomic.AddInt32(&counted, 1)
	})
	return int(counted)
}
