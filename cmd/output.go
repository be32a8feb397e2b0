// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// newEngine returns the engine configured by environment and flags
func newEngine() *cancrc.Engine {
	if cfg == nil {
		return cancrc.DefaultEngine
	}
	return cfg.Engine()
}

// defaultIterations returns the environment default iteration count
func defaultIterations() uint64 {
	if cfg == nil {
		return 1
	}
	return cfg.Iterations
}

func renderLine(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), valueStyle.Render(value))
}

func renderFields(fields []cancrc.Field) string {
	var s strings.Builder
	for _, f := range fields {
		s.WriteString(renderLine(f.Label, f.Value))
	}
	return strings.TrimRight(s.String(), "\n")
}

// renderResult formats the CRC block
func renderResult(res cancrc.Result) string {
	return renderFields(cancrc.ResultFields(res))
}

// renderReport formats the timing block
func renderReport(rep cancrc.Report) string {
	return renderFields(cancrc.ReportFields(rep))
}

// writeResult prints the result and timing boxes
func writeResult(w io.Writer, res cancrc.Result, rep cancrc.Report) {
	fmt.Fprintln(w, titleStyle.Render("RESULT"))
	fmt.Fprintln(w, boxStyle.Render(renderResult(res)))
	fmt.Fprintln(w, titleStyle.Render("PERFORMANCE"))
	fmt.Fprintln(w, boxStyle.Render(renderReport(rep)))
	if verbose && rep.Parallel {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Parallel processing used: %d workers", rep.Workers)))
	}
}

// writeInputSummary prints what is about to be computed (verbose mode)
func writeInputSummary(w io.Writer, format cancrc.InputFormat, input string, bits cancrc.Bits, iterations uint64) {
	fmt.Fprintln(w, titleStyle.Render("CAN CRC CALCULATOR"))
	fmt.Fprint(w, renderLine("Input format:", format.String()))
	fmt.Fprint(w, renderLine("Input data:", input))
	fmt.Fprint(w, renderLine("Bit count:", fmt.Sprint(len(bits))))
	fmt.Fprint(w, renderLine("Iterations:", cancrc.FormatNumber(iterations)))
	fmt.Fprintln(w)
}

// inputHint suggests valid characters after a parse failure
func inputHint(format cancrc.InputFormat, err error) string {
	switch {
	case errors.Is(err, cancrc.ErrTooLong):
		return fmt.Sprintf("Hint: at most %d bits (%d bytes) are allowed.", cancrc.MaxBits, cancrc.MaxBytes)
	case format == cancrc.FormatBinary:
		return "Hint: use only the characters '0' and '1'."
	default:
		return "Hint: use only the characters 0-9 and A-F, two per byte."
	}
}
