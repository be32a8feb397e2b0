// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"strings"
	"testing"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	tea "github.com/charmbracelet/bubbletea"
)

func TestCalcModel_Compute(t *testing.T) {
	m := initialCalcModel(cancrc.DefaultEngine, cancrc.FormatHex, 1)
	m.dataInput.SetValue("AA")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start a computation")
	}
	m = updated.(calcModel)
	if !m.running {
		t.Error("model should be running after enter")
	}

	done := runCalcCmd(cancrc.DefaultEngine, "AA", cancrc.FormatHex, 1)()
	updated, _ = m.Update(done)
	m = updated.(calcModel)

	view := m.View()
	for _, want := range []string{"0x4391", "17297", "100001110010001", "8 bits"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestCalcModel_ToggleFormat(t *testing.T) {
	m := initialCalcModel(cancrc.DefaultEngine, cancrc.FormatHex, 1)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	m = updated.(calcModel)
	if m.format != cancrc.FormatBinary {
		t.Errorf("ctrl+f should switch to binary, got %v", m.format)
	}
}

func TestCalcModel_CycleFocus(t *testing.T) {
	m := initialCalcModel(cancrc.DefaultEngine, cancrc.FormatHex, 1)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(calcModel)
	if m.focus != focusIterations || !m.iterInput.Focused() || m.dataInput.Focused() {
		t.Errorf("tab should focus iterations (focus=%d)", m.focus)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(calcModel)
	if m.focus != focusData {
		t.Errorf("second tab should wrap to data, got %d", m.focus)
	}
}

func TestCalcModel_InvalidIterations(t *testing.T) {
	m := initialCalcModel(cancrc.DefaultEngine, cancrc.FormatHex, 1)
	m.iterInput.SetValue("0")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(calcModel)
	if cmd != nil || m.running {
		t.Error("invalid iteration count should not start a computation")
	}
	if !strings.Contains(m.View(), "out of range") {
		t.Errorf("view should report the error:\n%s", m.View())
	}
}

func TestRunCalcCmd_ParseError(t *testing.T) {
	msg := runCalcCmd(cancrc.DefaultEngine, "1012", cancrc.FormatBinary, 1)().(calcDoneMsg)
	if msg.err == nil {
		t.Error("expected parse error")
	}
}

func TestPreview(t *testing.T) {
	if got := preview(cancrc.FormatHex, "AA BB"); !strings.Contains(got, "16 bits") {
		t.Errorf("unexpected preview %q", got)
	}
	if got := preview(cancrc.FormatBinary, "102"); !strings.Contains(got, "invalid characters") {
		t.Errorf("unexpected preview %q", got)
	}
}

func TestCalcModel_Presets(t *testing.T) {
	press := func(m calcModel, key tea.KeyType) calcModel {
		updated, _ := m.Update(tea.KeyMsg{Type: key})
		return updated.(calcModel)
	}

	m := initialCalcModel(cancrc.DefaultEngine, cancrc.FormatHex, 1)

	var samples []string
	for i := 0; i < 4; i++ {
		m = press(m, tea.KeyCtrlS)
		samples = append(samples, m.dataInput.Value())
	}
	expected := []string{"AA", "01 04 00 00", "FF EE DD CC BB AA", "AA"}
	for i := range expected {
		if samples[i] != expected[i] {
			t.Errorf("sample %d: expected %q, got %q", i, expected[i], samples[i])
		}
	}

	m = press(m, tea.KeyCtrlF)
	m = press(m, tea.KeyCtrlS)
	if m.dataInput.Value() != "10101010" {
		t.Errorf("binary sample expected after toggle, got %q", m.dataInput.Value())
	}

	var presets []string
	for i := 0; i < 5; i++ {
		m = press(m, tea.KeyCtrlN)
		presets = append(presets, m.iterInput.Value())
	}
	expected = []string{"1000", "100000", "1000000", "10000000", "1000"}
	for i := range expected {
		if presets[i] != expected[i] {
			t.Errorf("preset %d: expected %q, got %q", i, expected[i], presets[i])
		}
	}
}

func TestSamplesParse(t *testing.T) {
	for _, s := range hexSamples {
		if _, err := cancrc.Parse(s, cancrc.FormatHex); err != nil {
			t.Errorf("hex sample %q: %v", s, err)
		}
	}
	for _, s := range binarySamples {
		if _, err := cancrc.Parse(s, cancrc.FormatBinary); err != nil {
			t.Errorf("binary sample %q: %v", s, err)
		}
	}
	for _, s := range iterationPresets {
		if _, err := parseIterations(s); err != nil {
			t.Errorf("preset %q: %v", s, err)
		}
	}
}
