// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/spf13/cobra"
)

var (
	calcFormat     formatValue
	calcIterations uint64
	calcOutput     string
)

var calcCmd = &cobra.Command{
	Use:   "calc [data...]",
	Short: "Compute the CRC of one message",
	Long: `Compute the CAN CRC-15 of a message given on the command line.

Arguments are joined with spaces, so both "cancrc calc AA BB" and
"cancrc calc AABB" work. With --iterations the computation is repeated
to measure its speed; the CRC value is the same for every iteration.

Output formats:
  text - human-readable result and timing (default)
  cbor - a CBOR map with integer keys, for scripts`,
	Example: `  cancrc calc AA
  cancrc calc -f bin 1010 1010
  cancrc calc -n 1000000 01 02 03 04 05 06 07 08`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
	addFormatFlag(calcCmd.Flags(), &calcFormat)
	calcCmd.Flags().Uint64VarP(&calcIterations, "iterations", "n", 1, "Number of iterations (1 to 1 000 000 000)")
	calcCmd.Flags().StringVarP(&calcOutput, "output", "o", "text", "Output format: text or cbor")
}

func runCalc(cmd *cobra.Command, args []string) error {
	if calcOutput != "text" && calcOutput != "cbor" {
		return fmt.Errorf("unknown output format %q (use text or cbor)", calcOutput)
	}

	iterations := defaultIterations()
	if cmd.Flags().Changed("iterations") {
		iterations = calcIterations
	}
	if err := cancrc.ValidateIterations(iterations); err != nil {
		return err
	}

	format := calcFormat.resolve()
	input := strings.Join(args, " ")
	bits, err := cancrc.Parse(input, format)
	if err != nil {
		return fmt.Errorf("%w\n%s", err, inputHint(format, err))
	}

	out := cmd.OutOrStdout()
	if verbose && calcOutput == "text" {
		writeInputSummary(out, format, input, bits, iterations)
	}

	res, rep, err := newEngine().Run(bits, iterations)
	if err != nil {
		return err
	}

	if calcOutput == "cbor" {
		data, err := cancrc.EncodeRecord(cancrc.NewRecord(input, bits, res, rep))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	writeResult(out, res, rep)
	return nil
}
