// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
)

func TestTableRows(t *testing.T) {
	rows := tableRows(cancrc.MakeTable())
	if len(rows) != 256/tableColumns {
		t.Fatalf("expected %d rows, got %d", 256/tableColumns, len(rows))
	}
	if rows[0][0] != "0x00" || rows[0][2] != "0x4599" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1][0] != "0x08" {
		t.Errorf("second row should start at 0x08, got %s", rows[1][0])
	}
}

func TestWriteTable(t *testing.T) {
	var out bytes.Buffer
	if err := writeTable(&out, cancrc.MakeTable(), "simple"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0x4599") {
		t.Errorf("table missing polynomial entry:\n%s", out.String())
	}
	if err := writeTable(&out, cancrc.MakeTable(), "fancy"); err == nil {
		t.Error("expected error for unknown style")
	}
}
