// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is the machine-readable form of a computation, encoded as a CBOR map
// with small integer keys.
type Record struct {
	Value      uint16 `cbor:"0,keyasint"`
	Bits       uint8  `cbor:"1,keyasint"`
	Iterations uint64 `cbor:"2,keyasint"`
	TotalNanos int64  `cbor:"3,keyasint"`
	Parallel   bool   `cbor:"4,keyasint"`
	Workers    int    `cbor:"5,keyasint,omitempty"`
	Input      string `cbor:"6,keyasint,omitempty"`
}

// NewRecord builds a Record from the outcome of Run
func NewRecord(input string, bits Bits, res Result, rep Report) Record {
	return Record{
		Value:      res.Value,
		Bits:       uint8(len(bits)),
		Iterations: rep.Iterations,
		TotalNanos: int64(rep.Total),
		Parallel:   rep.Parallel,
		Workers:    rep.Workers,
		Input:      input,
	}
}

// Result returns the CRC part of the record
func (r Record) Result() Result {
	return Result{Value: r.Value}
}

// Report returns the timing part of the record
func (r Record) Report() Report {
	return Report{
		Iterations: r.Iterations,
		Total:      time.Duration(r.TotalNanos),
		Parallel:   r.Parallel,
		Workers:    r.Workers,
	}
}

// EncodeRecord serializes r to CBOR
func EncodeRecord(r Record) ([]byte, error) {
	data, err := cbor.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a CBOR record and checks the value fits the register
func DecodeRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, fmt.Errorf("empty CBOR payload")
	}
	var r Record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode CBOR: %w", err)
	}
	if r.Value > Mask {
		return Record{}, fmt.Errorf("CRC value out of range: 0x%04X", r.Value)
	}
	if r.Bits > MaxBits {
		return Record{}, fmt.Errorf("bit count out of range: %d", r.Bits)
	}
	return r, nil
}
