// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// cancrc - CAN CRC-15 calculator and benchmark
//
// A CLI tool for computing the CAN CRC-15 checksum of messages up to 96 bits
// and measuring how fast it can be computed.

package main

import (
	"os"

	"github.com/Thermoquad/cancrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
