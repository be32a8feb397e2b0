// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package cancrc computes the CAN CRC-15 checksum over short bit sequences.
//
// The bit-serial algorithm from the CAN 2.0 standard is kept as the reference
// (Compute). The byte-wise lookup table (Checksum, ComputeWithTable) is the hot
// path and must agree with it bit for bit. Engine repeats a computation many
// times to obtain stable timing figures, fanning out across CPUs for large
// iteration counts.
package cancrc

// CRC-15/CAN configuration
const (
	Polynomial = 0x4599
	Width      = 15
	Mask       = 0x7FFF
	topBit     = 0x4000
)

// Input limits
const (
	MaxBits  = 96
	MaxBytes = MaxBits / 8
)

// Iteration limits
const (
	MinIterations = 1
	MaxIterations = 1_000_000_000

	// DefaultParallelThreshold is the iteration count from which Run fans out.
	DefaultParallelThreshold = 100_000
)
