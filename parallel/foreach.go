// Package parallel contains the bounded fan-out used to score samples concurrently
package parallel

import "runtime"
import "sync"
import "sync/atomic"

import "github.com/klauspost/cpuid/v2"

// Threads reports the default number of goroutines, the logical core count.
// Can't return 0.
func Threads() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ForEach executes a for loop with a limited number of concurrent goroutines.
// The range 0 to length is split into at most limit contiguous chunks, each
// processed in order by its own goroutine.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}
	if limit > length {
		limit = length
	}
	if limit == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(limit)
	for n := 0; n < limit; n++ {
		go func(from, to int) {
			defer wg.Done()
			for i := from; i < to; i++ {
				body(i)
			}
		}(n*length/limit, (n+1)*length/limit)
	}
	wg.Wait()
}

// Count returns how many i in 0 to length satisfy pred, evaluated with ForEach.
func Count(length, limit int, pred func(i int) bool) int {
	var count atomic.Int64
	ForEach(length, limit, func(i int) {
		if pred(i) {
			count.Add(1)
		}
	})
	return int(count.Load())
}
