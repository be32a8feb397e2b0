// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/fsnotify/fsnotify"
)

const sampleBatch = `# CAN payloads
AA

bin: 1010 1010
hex:01 02 03
1012
`

func TestParseBatch(t *testing.T) {
	entries, err := parseBatch(strings.NewReader(sampleBatch), cancrc.FormatHex)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	want := []batchEntry{
		{line: 2, format: cancrc.FormatHex, input: "AA"},
		{line: 4, format: cancrc.FormatBinary, input: "1010 1010"},
		{line: 5, format: cancrc.FormatHex, input: "01 02 03"},
		{line: 6, format: cancrc.FormatHex, input: "1012"},
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d: got %+v, expected %+v", i, entries[i], w)
		}
	}
}

func TestComputeBatch(t *testing.T) {
	entries, err := parseBatch(strings.NewReader(sampleBatch), cancrc.FormatHex)
	if err != nil {
		t.Fatal(err)
	}
	rows := computeBatch(entries, cancrc.DefaultEngine, 1)
	if len(rows) != len(entries) {
		t.Fatalf("expected %d rows, got %d", len(entries), len(rows))
	}
	for i, row := range rows {
		if len(row) != 8 {
			t.Errorf("row %d: expected 8 columns, got %d", i, len(row))
		}
	}
	if rows[0][4] != "0x4391" || rows[1][4] != "0x4391" {
		t.Errorf("hex and binary AA should both give 0x4391: %v %v", rows[0], rows[1])
	}
	if rows[3][4] != "0x"+(cancrc.Result{Value: cancrc.Checksum(cancrc.BitsFromBytes([]byte{0x10, 0x12}))}).Hex() {
		t.Errorf("'1012' is valid hex for two bytes: %v", rows[3])
	}
}

func TestComputeBatch_InvalidLine(t *testing.T) {
	rows := computeBatch([]batchEntry{{line: 1, format: cancrc.FormatBinary, input: "1012"}}, cancrc.DefaultEngine, 1)
	if rows[0][4] != "ERROR" {
		t.Errorf("expected error row, got %v", rows[0])
	}
}

func TestWriteBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.txt")
	if err := os.WriteFile(path, []byte(sampleBatch), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := writeBatch(&out, path, cancrc.FormatHex, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0x4391") {
		t.Errorf("table missing result:\n%s", out.String())
	}
}

func TestWriteBatch_MissingFile(t *testing.T) {
	var out bytes.Buffer
	if err := writeBatch(&out, filepath.Join(t.TempDir(), "nope"), cancrc.FormatHex, 1); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSettle(t *testing.T) {
	t.Run("quiet", func(t *testing.T) {
		events := make(chan fsnotify.Event, 3)
		for i := 0; i < 3; i++ {
			events <- fsnotify.Event{Name: "batch.txt", Op: fsnotify.Write}
		}
		if !settle(events, 20*time.Millisecond) {
			t.Fatal("expected settle to report silence")
		}
		if len(events) != 0 {
			t.Errorf("expected pending events to be consumed, %d left", len(events))
		}
	})

	t.Run("closed", func(t *testing.T) {
		events := make(chan fsnotify.Event)
		close(events)

		done := make(chan bool, 1)
		go func() { done <- settle(events, time.Hour) }()

		select {
		case ok := <-done:
			if ok {
				t.Error("closed channel should not report silence")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("settle kept waiting on a closed channel")
		}
	})
}

func TestWatchBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.txt")
	if err := os.WriteFile(path, []byte("AA\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- watchBatch(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep writing until the watcher is registered and reports the change
	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for done := false; !done; {
		select {
		case <-changed:
			done = true
		case <-tick.C:
			if err := os.WriteFile(path, []byte("AA\nBB\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("watchBatch: %v", err)
	}
}
