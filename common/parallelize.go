package common

import (
	"runtime"
	"sync"
)

// Parallelize processes the work function in parallel over [0, nbIterations),
// splitting the range into contiguous chunks, one per worker. It blocks
// until every chunk has completed.
func Parallelize(nbIterations int, work func(start, stop int), maxCPUs ...int) {
	var wg sync.WaitGroup
	nbTasks := dispatch(nbIterations, func(start, stop int) {
		wg.Add(1)
		go func() {
			work(start, stop)
			wg.Done()
		}()
	}, maxCPUs...)
	if nbTasks > 0 {
		wg.Wait()
	}
}

// ParallelizeNonBlocking dispatches the work chunks without waiting for them
// and returns the number of chunks started. Useful when the caller collects
// partial results over a channel.
func ParallelizeNonBlocking(nbIterations int, work func(start, stop int), maxCPUs ...int) int {
	return dispatch(nbIterations, func(start, stop int) {
		go work(start, stop)
	}, maxCPUs...)
}

// dispatch splits [0, nbIterations) into balanced contiguous ranges and
// hands each to run. Extra iterations that do not divide evenly are stuffed
// into the first chunks.
func dispatch(nbIterations int, run func(start, stop int), maxCPUs ...int) int {
	if nbIterations <= 0 {
		return 0
	}

	nbTasks := runtime.NumCPU()
	if len(maxCPUs) == 1 && maxCPUs[0] > 0 {
		nbTasks = maxCPUs[0]
	}
	nbIterationsPerCPU := nbIterations / nbTasks

	// more workers than iterations: a worker handles exactly one iteration
	if nbIterationsPerCPU < 1 {
		nbIterationsPerCPU = 1
		nbTasks = nbIterations
	}

	extraTasks := nbIterations - (nbTasks * nbIterationsPerCPU)
	extraTasksOffset := 0

	for i := 0; i < nbTasks; i++ {
		start := i*nbIterationsPerCPU + extraTasksOffset
		stop := start + nbIterationsPerCPU
		if extraTasks > 0 {
			stop++
			extraTasks--
			extraTasksOffset++
		}
		run(start, stop)
	}

	return nbTasks
}
