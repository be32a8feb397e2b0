// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/Thermoquad/cancrc/internal/debug"
	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/bndr/gotabulate"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	batchFormat     formatValue
	batchIterations uint64
	batchWatch      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Compute the CRC of every message in a file",
	Long: `Read one message per line from FILE and print a table of results.

Lines may start with "hex:" or "bin:" to override --format. Empty lines and
lines starting with '#' are skipped. Invalid lines are reported in the table
and do not stop the run.

With --watch the file is re-read and the table reprinted whenever it changes,
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addFormatFlag(batchCmd.Flags(), &batchFormat)
	batchCmd.Flags().Uint64VarP(&batchIterations, "iterations", "n", 1, "Iterations per message")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "Recompute when the file changes")
}

// batchEntry is one message line of a batch file
type batchEntry struct {
	line   int
	format cancrc.InputFormat
	input  string
}

// parseBatch reads message lines, applying per-line format prefixes
func parseBatch(r io.Reader, def cancrc.InputFormat) ([]batchEntry, error) {
	var entries []batchEntry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		entry := batchEntry{line: lineNo, format: def, input: text}
		if prefix, rest, ok := strings.Cut(text, ":"); ok {
			if f, err := cancrc.ParseInputFormat(prefix); err == nil {
				entry.format = f
				entry.input = strings.TrimSpace(rest)
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch: %w", err)
	}
	return entries, nil
}

// computeBatch runs every entry and returns one table row per entry
func computeBatch(entries []batchEntry, engine *cancrc.Engine, iterations uint64) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := []string{fmt.Sprint(e.line), e.format.String(), e.input}

		bits, err := cancrc.Parse(e.input, e.format)
		if err == nil {
			var res cancrc.Result
			var rep cancrc.Report
			res, rep, err = engine.Run(bits, iterations)
			if err == nil {
				row = append(row, fmt.Sprint(len(bits)), "0x"+res.Hex(), res.Decimal(), res.Binary(),
					fmt.Sprintf("%.3f", rep.TotalMillis()))
				rows = append(rows, row)
				continue
			}
		}
		row = append(row, "-", "ERROR", err.Error(), "", "")
		rows = append(rows, row)
	}
	return rows
}

func writeBatch(w io.Writer, path string, format cancrc.InputFormat, iterations uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	entries, err := parseBatch(f, format)
	f.Close()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s: no messages\n", path)
		return nil
	}

	tab := gotabulate.Create(computeBatch(entries, newEngine(), iterations))
	tab.SetHeaders([]string{"line", "fmt", "input", "bits", "hex", "dec", "bin", "ms"})
	tab.SetAlign("left")
	tab.SetWrapStrings(true)
	tab.SetMaxCellSize(40)
	fmt.Fprintln(w, tab.Render("simple"))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	iterations := defaultIterations()
	if cmd.Flags().Changed("iterations") {
		iterations = batchIterations
	}
	if err := cancrc.ValidateIterations(iterations); err != nil {
		return err
	}
	path := args[0]
	format := batchFormat.resolve()

	if err := writeBatch(os.Stdout, path, format, iterations); err != nil {
		return err
	}
	if !batchWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return watchBatch(ctx, path, func() {
		fmt.Printf("\n%s %s\n", headerStyle.Render(time.Now().Format("15:04:05")), labelStyle.Render(path+" changed"))
		if err := writeBatch(os.Stdout, path, format, iterations); err != nil {
			log.Printf("Batch error: %v", err)
		}
	})
}

const settleDelay = 100 * time.Millisecond

// watchBatch calls onChange after writes to path settle. The parent directory
// is watched so editors that replace the file are still followed.
func watchBatch(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to start fs watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	debug.Printf("adding '%s' to fs watcher", dir)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs || e.Op == fsnotify.Chmod {
				continue
			}
			if !settle(w.Events, settleDelay) {
				return nil
			}
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Println(err)
		}
	}
}

// settle consumes events until none have arrived for quiet. It reports
// false if events was closed meanwhile.
func settle(events <-chan fsnotify.Event, quiet time.Duration) bool {
	timer := time.NewTimer(quiet)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
			timer.Reset(quiet)
		case <-timer.C:
			return true
		}
	}
}
