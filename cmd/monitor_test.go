// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
)

func TestParseMonitorLine(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		format      cancrc.InputFormat
		input       string
		expected    uint16
		hasExpected bool
		wantErr     bool
	}{
		{"plain hex", "AA BB", cancrc.FormatHex, "AA BB", 0, false, false},
		{"with expected", "AA=4391", cancrc.FormatHex, "AA", 0x4391, true, false},
		{"expected with prefix", "AA = 0x4391", cancrc.FormatHex, "AA", 0x4391, true, false},
		{"binary prefix", "bin:1010 1010=4391", cancrc.FormatBinary, "1010 1010", 0x4391, true, false},
		{"hex prefix", "hex: 01 02", cancrc.FormatHex, "01 02", 0, false, false},
		{"bad expected", "AA=ZZZZ", cancrc.FormatHex, "", 0, false, true},
		{"expected above 15 bits", "AA=8000", cancrc.FormatHex, "", 0, false, true},
		{"unknown prefix", "oct:17", cancrc.FormatHex, "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseMonitorLine(tt.line, cancrc.FormatHex)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.format != tt.format || msg.input != tt.input {
				t.Errorf("got format %v input %q, expected %v %q", msg.format, msg.input, tt.format, tt.input)
			}
			if msg.hasExpected != tt.hasExpected || msg.expected != tt.expected {
				t.Errorf("got expected 0x%04X (%v), want 0x%04X (%v)", msg.expected, msg.hasExpected, tt.expected, tt.hasExpected)
			}
		})
	}
}

func TestCheckMessage_Outcomes(t *testing.T) {
	tests := []struct {
		line    string
		outcome cancrc.Outcome
	}{
		{"AA", cancrc.OutcomeComputed},
		{"AA=4391", cancrc.OutcomeVerified},
		{"AA=1234", cancrc.OutcomeMismatch},
		{"AG", cancrc.OutcomeParseError},
		{strings.Repeat("FF", 13), cancrc.OutcomeParseError},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, _, _, outcome, _ := checkMessage(tt.line, cancrc.FormatHex)
			if outcome != tt.outcome {
				t.Errorf("expected outcome %d, got %d", tt.outcome, outcome)
			}
		})
	}
}

// scriptedConn feeds fixed input and records everything written back
type scriptedConn struct {
	io.Reader
	written bytes.Buffer
}

func (c *scriptedConn) Write(p []byte) (int, error) {
	return c.written.Write(p)
}

func TestMonitorLoop(t *testing.T) {
	conn := &scriptedConn{Reader: strings.NewReader("AA=4391\n\n123=0000\nAA=0001\n")}
	var out bytes.Buffer
	stats := cancrc.NewStatistics()

	if err := monitorLoop(context.Background(), conn, &out, io.Discard, stats, cancrc.FormatHex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalMessages != 3 {
		t.Errorf("expected 3 messages, got %d", stats.TotalMessages)
	}
	if stats.Verified != 1 || stats.ParseErrors != 1 || stats.Mismatches != 1 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if !strings.Contains(out.String(), "MISMATCH (expected 0x0001)") {
		t.Errorf("mismatch not reported:\n%s", out.String())
	}
	if conn.written.Len() != 0 {
		t.Errorf("nothing should be echoed without --echo, got %q", conn.written.String())
	}
}

func TestMonitorLoop_Echo(t *testing.T) {
	monitorEcho = true
	defer func() { monitorEcho = false }()

	conn := &scriptedConn{Reader: strings.NewReader("AA\n31 32 33 34 35 36 37 38 39\n")}
	var out bytes.Buffer
	if err := monitorLoop(context.Background(), conn, &out, io.Discard, cancrc.NewStatistics(), cancrc.FormatHex); err != nil {
		t.Fatal(err)
	}
	if conn.written.String() != "4391\n059E\n" {
		t.Errorf("unexpected echo %q", conn.written.String())
	}
}

func TestMonitorLoop_PeriodicStatistics(t *testing.T) {
	tests := []struct {
		name      string
		reset     bool
		remaining uint64
	}{
		{"accumulate", false, 1},
		{"reset after report", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitorStatsInterval = 20 * time.Millisecond
			monitorResetStats = tt.reset
			defer func() {
				monitorStatsInterval = 0
				monitorResetStats = false
			}()

			// One message, then the connection stays open until the deadline
			pr, pw := io.Pipe()
			defer pw.Close()
			go pw.Write([]byte("AA=4391\n"))

			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()

			conn := struct {
				io.Reader
				io.Writer
			}{pr, io.Discard}
			var out, errOut bytes.Buffer
			stats := cancrc.NewStatistics()
			if err := monitorLoop(ctx, conn, &out, &errOut, stats, cancrc.FormatHex); err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(errOut.String(), fmt.Sprintf("Total Messages:  %8d", 1)) {
				t.Errorf("periodic report missing the message:\n%s", errOut.String())
			}
			if stats.TotalMessages != tt.remaining {
				t.Errorf("expected %d messages left in the counters, got %d", tt.remaining, stats.TotalMessages)
			}
		})
	}
}
