// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import "testing"

// ============================================================
// Bit-serial Tests
// ============================================================

func TestFeedBit_SingleSteps(t *testing.T) {
	tests := []struct {
		name     string
		reg      uint16
		bit      bool
		expected uint16
	}{
		{"zero register, zero bit", 0x0000, false, 0x0000},
		{"zero register, one bit", 0x0000, true, Polynomial},
		{"top bit set, zero bit", 0x4000, false, Polynomial},
		{"top bit set, one bit", 0x4000, true, 0x0000},
		{"low bits shift", 0x0001, false, 0x0002},
		{"full register", Mask, false, (Mask<<1)&Mask ^ Polynomial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeedBit(tt.reg, tt.bit)
			if got != tt.expected {
				t.Errorf("FeedBit(0x%04X, %v) = 0x%04X, expected 0x%04X", tt.reg, tt.bit, got, tt.expected)
			}
			if got > Mask {
				t.Errorf("register exceeds 15 bits: 0x%04X", got)
			}
		})
	}
}

func TestCompute_Empty(t *testing.T) {
	if crc := Compute(nil); crc != 0 {
		t.Errorf("CRC of empty input should be 0, got 0x%04X", crc)
	}
}

func TestCompute_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		bits     Bits
		expected uint16
	}{
		{
			name:     "single byte 0xAA",
			bits:     BitsFromBytes([]byte{0xAA}),
			expected: 0x4391,
		},
		{
			name:     "ASCII '123456789'",
			bits:     BitsFromBytes([]byte("123456789")),
			expected: 0x059E, // Published CRC-15/CAN check value
		},
		{
			name:     "12 bytes 0x01..0x0C",
			bits:     BitsFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}),
			expected: 0x1070,
		},
		{
			name:     "three bits 101",
			bits:     Bits{true, false, true},
			expected: 0x1D56,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crc := Compute(tt.bits)
			if crc != tt.expected {
				t.Errorf("CRC mismatch: expected 0x%04X, got 0x%04X", tt.expected, crc)
			}
		})
	}
}

func TestCompute_LeadingZerosDoNotChangeCRC(t *testing.T) {
	// A zero register stays zero while zero bits are fed
	bits := BitsFromBytes([]byte{0xDE, 0xAD})
	padded := append(Bits{false, false, false, false}, bits...)
	if Compute(bits) != Compute(padded) {
		t.Errorf("leading zeros changed CRC: 0x%04X != 0x%04X", Compute(bits), Compute(padded))
	}
}

func TestCompute_Deterministic(t *testing.T) {
	bits := BitsFromBytes([]byte{0x10, 0x30, 0x01, 0x02, 0x03, 0x04})
	crc1 := Compute(bits)
	crc2 := Compute(bits)
	if crc1 != crc2 {
		t.Errorf("CRC should be deterministic: 0x%04X != 0x%04X", crc1, crc2)
	}
}
