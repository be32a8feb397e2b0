// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive full-screen calculator",
	Long: `Full-screen calculator: choose the input format, type the message and the
iteration count, and press Enter to compute.

Keys:
  Tab / Shift+Tab  switch between fields
  Ctrl+F           toggle hex / binary input
  Ctrl+S           cycle sample messages
  Ctrl+N           cycle iteration presets
  Enter            compute
  Esc / Ctrl+C     quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	format := cancrc.FormatHex
	if cfg != nil {
		format = cfg.InputFormat()
	}
	p := tea.NewProgram(initialCalcModel(newEngine(), format, defaultIterations()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

// Sample messages and iteration presets offered by Ctrl+S and Ctrl+N
var (
	hexSamples       = []string{"AA", "01 04 00 00", "FF EE DD CC BB AA"}
	binarySamples    = []string{"10101010", "11110000 11110000", "10011001 10011001 10011001"}
	iterationPresets = []string{"1000", "100000", "1000000", "10000000"}
)

func samplesFor(format cancrc.InputFormat) []string {
	if format == cancrc.FormatBinary {
		return binarySamples
	}
	return hexSamples
}

// nextPreset returns the entry after current, or the first entry when
// current is not in list
func nextPreset(list []string, current string) string {
	for i, v := range list {
		if v == current {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

// Focus states
const (
	focusData = iota
	focusIterations
	focusCount
)

// calcModel is the Bubble Tea model of the calculator
type calcModel struct {
	engine *cancrc.Engine
	format cancrc.InputFormat

	dataInput  textinput.Model
	iterInput  textinput.Model
	focus      int
	spinner    spinner.Model
	running    bool
	lastResult *calcDoneMsg

	width    int
	quitting bool
}

// calcDoneMsg carries the outcome of a background computation
type calcDoneMsg struct {
	input  string
	format cancrc.InputFormat
	bits   int
	res    cancrc.Result
	rep    cancrc.Report
	err    error
}

func initialCalcModel(engine *cancrc.Engine, format cancrc.InputFormat, iterations uint64) calcModel {
	data := textinput.New()
	data.Placeholder = placeholderFor(format)
	data.CharLimit = 2 * cancrc.MaxBits
	data.Width = 48
	data.Focus()

	iters := textinput.New()
	iters.Placeholder = "1"
	iters.CharLimit = 16
	iters.Width = 16
	iters.SetValue(fmt.Sprint(iterations))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = warningStyle

	return calcModel{
		engine:    engine,
		format:    format,
		dataInput: data,
		iterInput: iters,
		focus:     focusData,
		spinner:   s,
		width:     80,
	}
}

func placeholderFor(format cancrc.InputFormat) string {
	if format == cancrc.FormatBinary {
		return "101010111100..."
	}
	return "AA BB CC ..."
}

// runCalcCmd computes in the background so the spinner keeps moving
func runCalcCmd(engine *cancrc.Engine, input string, format cancrc.InputFormat, iterations uint64) tea.Cmd {
	return func() tea.Msg {
		done := calcDoneMsg{input: input, format: format}
		bits, err := cancrc.Parse(input, format)
		if err != nil {
			done.err = err
			return done
		}
		done.bits = len(bits)
		done.res, done.rep, done.err = engine.Run(bits, iterations)
		return done
	}
}

func (m calcModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m calcModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			return m.cycleFocus(1), nil

		case "shift+tab":
			return m.cycleFocus(-1), nil

		case "ctrl+f":
			if m.format == cancrc.FormatHex {
				m.format = cancrc.FormatBinary
			} else {
				m.format = cancrc.FormatHex
			}
			m.dataInput.Placeholder = placeholderFor(m.format)
			return m, nil

		case "ctrl+s":
			m.dataInput.SetValue(nextPreset(samplesFor(m.format), m.dataInput.Value()))
			m.dataInput.CursorEnd()
			return m, nil

		case "ctrl+n":
			m.iterInput.SetValue(nextPreset(iterationPresets, m.iterInput.Value()))
			m.iterInput.CursorEnd()
			return m, nil

		case "enter":
			if m.running {
				return m, nil
			}
			iterations, err := parseIterations(m.iterInput.Value())
			if err != nil {
				m.lastResult = &calcDoneMsg{err: err}
				return m, nil
			}
			m.running = true
			return m, tea.Batch(m.spinner.Tick,
				runCalcCmd(m.engine, m.dataInput.Value(), m.format, iterations))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case calcDoneMsg:
		m.running = false
		m.lastResult = &msg
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusData {
		m.dataInput, cmd = m.dataInput.Update(msg)
	} else {
		m.iterInput, cmd = m.iterInput.Update(msg)
	}
	return m, cmd
}

func (m calcModel) cycleFocus(delta int) calcModel {
	m.focus = (m.focus + delta + focusCount) % focusCount
	if m.focus == focusData {
		m.dataInput.Focus()
		m.iterInput.Blur()
	} else {
		m.iterInput.Focus()
		m.dataInput.Blur()
	}
	return m
}

// preview describes the current data field: its bit count or why it is invalid
func preview(format cancrc.InputFormat, value string) string {
	if strings.TrimSpace(value) == "" {
		return headerStyle.Render(fmt.Sprintf("Format: %s, at most %d bits", format, cancrc.MaxBits))
	}
	bits, err := cancrc.Parse(value, format)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return valueStyle.Render(fmt.Sprintf("%d bits", len(bits)))
}

func (m calcModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("CAN CRC CALCULATOR"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render("| Tab=switch Ctrl+F=format Ctrl+S=sample Ctrl+N=iterations Enter=compute Esc=quit"))
	s.WriteString("\n\n")

	formatLine := fmt.Sprintf("%s %s", labelStyle.Render("Input format:"), valueStyle.Render(m.format.String()))
	s.WriteString(formatLine)
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Data:       "))
	s.WriteString(m.dataInput.View())
	s.WriteString("\n             ")
	s.WriteString(preview(m.format, m.dataInput.Value()))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Iterations: "))
	s.WriteString(m.iterInput.View())
	s.WriteString("\n\n")

	if m.running {
		s.WriteString(m.spinner.View())
		s.WriteString(warningStyle.Render(" Computing..."))
		s.WriteString("\n")
		return s.String()
	}

	if m.lastResult != nil {
		s.WriteString(m.renderOutcome(*m.lastResult))
	}
	return s.String()
}

func (m calcModel) renderOutcome(done calcDoneMsg) string {
	if done.err != nil {
		msg := errorStyle.Render("Error: " + done.err.Error())
		var perr *cancrc.Error
		if errors.As(done.err, &perr) && perr.Kind != cancrc.KindOutOfRange {
			msg += "\n" + headerStyle.Render(inputHint(done.format, done.err))
		}
		return msg + "\n"
	}

	resultBox := boxStyle.Render(renderResult(done.res))
	reportBox := boxStyle.Render(renderReport(done.rep))
	panels := lipgloss.JoinHorizontal(lipgloss.Top, resultBox, " ", reportBox)

	mode := "sequential"
	if done.rep.Parallel {
		mode = fmt.Sprintf("parallel, %d workers", done.rep.Workers)
	}
	footer := headerStyle.Render(fmt.Sprintf("%d bits, %s iterations, %s",
		done.bits, cancrc.FormatNumber(done.rep.Iterations), mode))

	return panels + "\n" + footer + "\n"
}
