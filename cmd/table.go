// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"
)

const tableColumns = 8

var tableStyle string

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the byte-wise CRC lookup table",
	Long: `Print the 256-entry lookup table used by the byte-wise CRC path.

Entry i is the register after shifting byte i through the polynomial from a
zero register. Rows are labelled with the index of their first entry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeTable(os.Stdout, cancrc.MakeTable(), tableStyle)
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().StringVar(&tableStyle, "style", "simple", "Table style: simple, plain or grid")
}

func tableRows(t *cancrc.Table) [][]string {
	rows := make([][]string, 0, len(t)/tableColumns)
	for base := 0; base < len(t); base += tableColumns {
		row := []string{fmt.Sprintf("0x%02X", base)}
		for i := base; i < base+tableColumns; i++ {
			row = append(row, fmt.Sprintf("0x%04X", t[i]))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeTable(w io.Writer, t *cancrc.Table, style string) error {
	switch style {
	case "simple", "plain", "grid":
	default:
		return fmt.Errorf("unknown table style %q (use simple, plain or grid)", style)
	}

	headers := []string{"index"}
	for i := 0; i < tableColumns; i++ {
		headers = append(headers, fmt.Sprintf("+%d", i))
	}

	tab := gotabulate.Create(tableRows(t))
	tab.SetHeaders(headers)
	tab.SetAlign("right")
	_, err := fmt.Fprintln(w, tab.Render(style))
	return err
}
