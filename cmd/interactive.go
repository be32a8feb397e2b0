// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Thermoquad/cancrc/internal/debug"
	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for messages in a loop",
	Long: `Repeatedly ask for an input format, the message and an iteration count,
then print the CRC and timing. Type 'exit' at the format prompt (or press
Ctrl+D) to quit.

Entered lines are kept in a history file under the XDG state directory
(override with CANCRC_HISTORY_FILE).`,
	Aliases: []string{"i"},
	RunE:    runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// prompter reads one line of user input; *liner.State implements it
type prompter interface {
	Prompt(prompt string) (string, error)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if cfg != nil {
		if p, err := cfg.HistoryPath(); err != nil {
			log.Printf("History disabled: %v", err)
		} else {
			historyPath = p
		}
	}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			n, _ := line.ReadHistory(f)
			f.Close()
			debug.Printf("loaded %d history entries from %s", n, historyPath)
		}
	}

	err := runSession(line, os.Stdout, os.Stderr, func(s string) {
		if strings.TrimSpace(s) != "" {
			line.AppendHistory(s)
		}
	})

	if historyPath != "" {
		if f, ferr := os.Create(historyPath); ferr != nil {
			log.Printf("Failed to save history: %v", ferr)
		} else {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return err
}

// runSession drives the format / data / iterations prompt loop until the user
// exits or input ends.
func runSession(p prompter, out, errOut io.Writer, record func(string)) error {
	ask := func(prompt string) (string, bool, error) {
		s, err := p.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return "", false, nil
			}
			return "", false, err
		}
		record(s)
		return strings.TrimSpace(s), true, nil
	}
	fail := func(msg string) {
		fmt.Fprintln(errOut, errorStyle.Render("Error: "+msg))
	}

	for {
		fmt.Fprintln(out)
		choice, ok, err := ask("Format ('hex', 'bin') or 'exit': ")
		if !ok {
			return err
		}
		switch strings.ToLower(choice) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		format, err := cancrc.ParseInputFormat(choice)
		if err != nil {
			fail(err.Error())
			continue
		}

		data, ok, err := ask("Data: ")
		if !ok {
			return err
		}

		countStr, ok, err := ask("Iterations (1 to 1 000 000 000): ")
		if !ok {
			return err
		}
		iterations, err := parseIterations(countStr)
		if err != nil {
			fail(err.Error())
			continue
		}

		bits, err := cancrc.Parse(data, format)
		if err != nil {
			fail(err.Error())
			fmt.Fprintln(errOut, headerStyle.Render(inputHint(format, err)))
			continue
		}

		if verbose {
			writeInputSummary(out, format, data, bits, iterations)
		}

		res, rep, err := newEngine().Run(bits, iterations)
		if err != nil {
			fail(err.Error())
			continue
		}
		writeResult(out, res, rep)
	}
}

// parseIterations accepts digits grouped with spaces, underscores or commas.
// Empty input selects the default count.
func parseIterations(s string) (uint64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', ',':
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return defaultIterations(), nil
	}

	n, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("iteration count must be a number between %d and %s",
			cancrc.MinIterations, cancrc.FormatNumber(cancrc.MaxIterations))
	}
	if err := cancrc.ValidateIterations(n); err != nil {
		return 0, err
	}
	return n, nil
}
