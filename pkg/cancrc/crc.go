// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

// FeedBit advances the CRC register by one input bit
func FeedBit(reg uint16, bit bool) uint16 {
	next := bit != (reg&topBit != 0)
	reg = (reg << 1) & Mask
	if next {
		reg ^= Polynomial
	}
	return reg
}

// Compute is the bit-serial CRC-15/CAN over bits, starting from a zero register.
// It is the reference every other path is checked against.
func Compute(bits Bits) uint16 {
	var reg uint16
	for _, bit := range bits {
		reg = FeedBit(reg, bit)
	}
	return reg
}
