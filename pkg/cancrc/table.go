// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import "sync"

// Table maps a byte, XORed with the top eight register bits, to the register
// contribution of shifting that byte through the polynomial.
type Table [256]uint16

var (
	canTable     *Table
	canTableOnce sync.Once
)

// MakeTable returns the process-wide CRC-15/CAN table, building it on first use
func MakeTable() *Table {
	canTableOnce.Do(func() {
		canTable = makeTable()
	})
	return canTable
}

// makeTable feeds every byte value through the bit-serial step from a zero register
func makeTable() *Table {
	t := new(Table)
	for i := range t {
		var reg uint16
		for bit := 7; bit >= 0; bit-- {
			reg = FeedBit(reg, (i>>uint(bit))&1 == 1)
		}
		t[i] = reg
	}
	return t
}

// updateByte advances the register by one whole byte
func (t *Table) updateByte(reg uint16, b byte) uint16 {
	return ((reg << 8) ^ t[byte(reg>>(Width-8))^b]) & Mask
}

// Update returns the register after feeding p, MSB of each byte first
func Update(crc uint16, t *Table, p []byte) uint16 {
	crc &= Mask
	for _, b := range p {
		crc = t.updateByte(crc, b)
	}
	return crc
}

// ComputeWithTable processes whole bytes through t and any trailing bits
// through FeedBit. The result is identical to Compute.
func ComputeWithTable(bits Bits, t *Table) uint16 {
	var reg uint16
	full := len(bits) / 8
	for i := 0; i < full; i++ {
		var b byte
		for j, bit := range bits[i*8 : i*8+8] {
			if bit {
				b |= 1 << uint(7-j)
			}
		}
		reg = t.updateByte(reg, b)
	}
	for _, bit := range bits[full*8:] {
		reg = FeedBit(reg, bit)
	}
	return reg
}

// Checksum computes the CRC-15/CAN of bits using the shared table
func Checksum(bits Bits) uint16 {
	return ComputeWithTable(bits, MakeTable())
}
