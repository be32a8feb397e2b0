// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"fmt"
	"strings"
	"unicode"
)

// InputFormat selects how Parse interprets its text
type InputFormat int

const (
	FormatHex InputFormat = iota
	FormatBinary
)

func (f InputFormat) String() string {
	switch f {
	case FormatHex:
		return "hex"
	case FormatBinary:
		return "bin"
	default:
		return fmt.Sprintf("InputFormat(%d)", int(f))
	}
}

// ParseInputFormat maps a user-supplied name to an InputFormat
func ParseInputFormat(s string) (InputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex", "h":
		return FormatHex, nil
	case "bin", "binary", "b":
		return FormatBinary, nil
	}
	return 0, fmt.Errorf("unknown input format %q (use hex or bin)", s)
}

// Bits is a message as an ordered bit sequence, most significant bit first.
// Values returned by Parse hold at most MaxBits bits.
type Bits []bool

// String renders the sequence as a string of 0 and 1 characters
func (b Bits) String() string {
	var s strings.Builder
	s.Grow(len(b))
	for _, bit := range b {
		if bit {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}

// BitsFromBytes expands bytes into bits, MSB first
func BitsFromBytes(data []byte) Bits {
	bits := make(Bits, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1 == 1)
		}
	}
	return bits
}

// Parse converts text in the given format into Bits.
// Whitespace between tokens is ignored. Empty input yields an empty sequence.
func Parse(input string, format InputFormat) (Bits, error) {
	switch format {
	case FormatHex:
		return ParseHex(input)
	case FormatBinary:
		return ParseBinary(input)
	default:
		return nil, newError(KindInvalidFormat, input, "unsupported input format %v", format)
	}
}

// ParseHex parses hex byte tokens ("AA BB" or "AABB")
func ParseHex(input string) (Bits, error) {
	digits, invalid := filterInput(input, isHexDigit)
	if invalid != "" {
		return nil, newError(KindInvalidFormat, input,
			"invalid characters %q (allowed: 0-9, A-F, whitespace)", invalid)
	}
	if len(digits)%2 != 0 {
		return nil, newError(KindInvalidFormat, input,
			"odd number of hex digits: %d (bytes need two digits each)", len(digits))
	}
	if n := len(digits) / 2; n > MaxBytes {
		return nil, newError(KindTooLong, input,
			"input too long: %d bytes = %d bits (max %d bytes = %d bits)", n, n*8, MaxBytes, MaxBits)
	}

	data := make([]byte, len(digits)/2)
	for i := range data {
		data[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return BitsFromBytes(data), nil
}

// ParseBinary parses groups of 0 and 1 characters ("1010 1111" or "10101111")
func ParseBinary(input string) (Bits, error) {
	digits, invalid := filterInput(input, func(r rune) bool { return r == '0' || r == '1' })
	if invalid != "" {
		return nil, newError(KindInvalidFormat, input,
			"invalid characters %q (allowed: 0, 1, whitespace)", invalid)
	}
	if len(digits) > MaxBits {
		return nil, newError(KindTooLong, input,
			"input too long: %d bits (max %d bits)", len(digits), MaxBits)
	}

	bits := make(Bits, len(digits))
	for i, c := range digits {
		bits[i] = c == '1'
	}
	return bits, nil
}

// filterInput strips whitespace and splits the rest into accepted characters
// and the first few rejected ones.
func filterInput(input string, accept func(rune) bool) (kept []byte, invalid string) {
	const maxReported = 5
	var bad []rune
	kept = make([]byte, 0, len(input))
	for _, r := range input {
		switch {
		case unicode.IsSpace(r):
		case accept(r):
			kept = append(kept, byte(r))
		case len(bad) < maxReported:
			bad = append(bad, r)
		}
	}
	return kept, string(bad)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
