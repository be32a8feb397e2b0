// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"runtime"
	"time"

	"github.com/Thermoquad/cancrc/internal/debug"
	"golang.org/x/sync/errgroup"
)

// Engine repeats a CRC computation to measure it.
// The zero value uses GOMAXPROCS workers, DefaultParallelThreshold and the shared table.
type Engine struct {
	// Workers bounds the goroutines of the parallel path (0 = GOMAXPROCS).
	// Values above GOMAXPROCS are clamped to it.
	Workers int

	// ParallelThreshold is the iteration count from which Run fans out
	// (0 = DefaultParallelThreshold)
	ParallelThreshold uint64

	// Table overrides the shared lookup table (nil = MakeTable())
	Table *Table
}

// DefaultEngine is used by Calculate
var DefaultEngine = &Engine{}

// Run computes the CRC of bits iterations times and reports the elapsed time.
// Every iteration computes the same value; nothing is chained between them.
func (e *Engine) Run(bits Bits, iterations uint64) (Result, Report, error) {
	if err := ValidateIterations(iterations); err != nil {
		return Result{}, Report{}, err
	}
	if len(bits) > MaxBits {
		return Result{}, Report{}, newError(KindTooLong, bits.String(),
			"input too long: %d bits (max %d bits)", len(bits), MaxBits)
	}

	t := e.table()
	report := Report{Iterations: iterations, Workers: 1}

	var value uint16
	if iterations < e.threshold() {
		start := time.Now()
		value = repeat(bits, t, iterations)
		report.Total = time.Since(start)
	} else {
		workers := e.workers(iterations)
		debug.Printf("parallel run: %d iterations over %d workers", iterations, workers)

		start := time.Now()
		value = repeatParallel(bits, t, iterations, workers)
		report.Total = time.Since(start)
		report.Parallel = true
		report.Workers = workers
	}

	return Result{Value: value}, report, nil
}

func (e *Engine) table() *Table {
	if e.Table != nil {
		return e.Table
	}
	return MakeTable()
}

func (e *Engine) threshold() uint64 {
	if e.ParallelThreshold > 0 {
		return e.ParallelThreshold
	}
	return DefaultParallelThreshold
}

// workers bounds the pool by the available cores and by the iteration count
func (e *Engine) workers(iterations uint64) int {
	cores := runtime.GOMAXPROCS(0)
	n := e.Workers
	if n <= 0 || n > cores {
		n = cores
	}
	if uint64(n) > iterations {
		n = int(iterations)
	}
	return n
}

func repeat(bits Bits, t *Table, n uint64) uint16 {
	var crc uint16
	for i := uint64(0); i < n; i++ {
		crc = ComputeWithTable(bits, t)
	}
	return crc
}

// repeatParallel splits n evenly over workers, the last one taking the remainder.
// Each worker writes only its own slot.
func repeatParallel(bits Bits, t *Table, n uint64, workers int) uint16 {
	results := make([]uint16, workers)
	chunk := n / uint64(workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		share := chunk
		if w == workers-1 {
			share = n - chunk*uint64(workers-1)
		}
		g.Go(func() error {
			results[w] = repeat(bits, t, share)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return results[0]
}

// Calculate parses input and runs it through DefaultEngine
func Calculate(input string, format InputFormat, iterations uint64) (Result, Report, error) {
	if err := ValidateIterations(iterations); err != nil {
		return Result{}, Report{}, err
	}
	bits, err := Parse(input, format)
	if err != nil {
		return Result{}, Report{}, err
	}
	return DefaultEngine.Run(bits, iterations)
}
