// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"fmt"
	"strconv"
	"time"
)

// Result is the final 15-bit register value of a computation
type Result struct {
	Value uint16
}

// Hex returns the value as four upper-case hex digits
func (r Result) Hex() string {
	return fmt.Sprintf("%04X", r.Value)
}

// Decimal returns the value in base 10
func (r Result) Decimal() string {
	return strconv.FormatUint(uint64(r.Value), 10)
}

// Binary returns the value as a 15-character zero-padded bit string
func (r Result) Binary() string {
	return fmt.Sprintf("%0*b", Width, r.Value)
}

// Report carries the timing of an Engine run
type Report struct {
	Iterations uint64
	Total      time.Duration
	Parallel   bool
	Workers    int
}

// Average returns the mean wall-clock time per iteration
func (r Report) Average() time.Duration {
	if r.Iterations == 0 {
		return 0
	}
	return r.Total / time.Duration(r.Iterations)
}

// TotalMillis returns the total elapsed time in milliseconds
func (r Report) TotalMillis() float64 {
	return float64(r.Total) / float64(time.Millisecond)
}

// AverageMillis returns the mean time per iteration in milliseconds, without
// the nanosecond truncation of Average.
func (r Report) AverageMillis() float64 {
	if r.Iterations == 0 {
		return 0
	}
	return r.TotalMillis() / float64(r.Iterations)
}

// Throughput returns completed computations per second
func (r Report) Throughput() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Total.Seconds()
}
