// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/spf13/cobra"
)

var (
	monitorSource        sourceOptions
	monitorFormat        formatValue
	monitorStatsInterval time.Duration
	monitorResetStats    bool
	monitorEcho          bool
	monitorOutput        string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Check CRCs of messages arriving on a serial port or WebSocket",
	Long: `Read newline-delimited messages from a serial port or WebSocket and print
the CRC of each one.

Each line holds one message in the selected format, optionally prefixed with
"hex:" or "bin:", and optionally followed by "=XXXX" with the expected CRC in
hex. Messages with an expected CRC are verified and counted as matches or
mismatches. Statistics are printed on exit (Ctrl+C) and, with
--stats-interval, periodically. With --reset-stats every report covers only
the messages since the previous one.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication the password is read from CANCRC_PASSWORD, or
prompted interactively if not set.`,
	Example: `  cancrc monitor --port /dev/ttyUSB0 --stats-interval 30s
  cancrc monitor --url ws://localhost:8080/can --echo`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	addSourceFlags(monitorCmd.Flags(), &monitorSource)

	addFormatFlag(monitorCmd.Flags(), &monitorFormat)
	monitorCmd.Flags().DurationVar(&monitorStatsInterval, "stats-interval", 0, "Print statistics at this interval, e.g. 10s (0 = only on exit)")
	monitorCmd.Flags().BoolVar(&monitorResetStats, "reset-stats", false, "Start counting from zero after each periodic report")
	monitorCmd.Flags().BoolVar(&monitorEcho, "echo", false, "Write each computed CRC back to the connection as 4 hex digits")
	monitorCmd.Flags().StringVarP(&monitorOutput, "output", "o", "text", "Output format: text or cbor")
}

// monitorMessage is one parsed input line
type monitorMessage struct {
	format      cancrc.InputFormat
	input       string
	expected    uint16
	hasExpected bool
}

// parseMonitorLine splits "[fmt:]data[=crc]" into its parts
func parseMonitorLine(text string, def cancrc.InputFormat) (monitorMessage, error) {
	msg := monitorMessage{format: def}
	text = strings.TrimSpace(text)

	if data, crc, ok := strings.Cut(text, "="); ok {
		text = strings.TrimSpace(data)
		crc = strings.TrimSpace(crc)
		crc = strings.TrimPrefix(strings.TrimPrefix(crc, "0x"), "0X")
		v, err := strconv.ParseUint(crc, 16, 16)
		if err != nil || v > cancrc.Mask {
			return msg, fmt.Errorf("invalid expected CRC %q", crc)
		}
		msg.expected = uint16(v)
		msg.hasExpected = true
	}

	if prefix, rest, ok := strings.Cut(text, ":"); ok {
		f, err := cancrc.ParseInputFormat(prefix)
		if err != nil {
			return msg, err
		}
		msg.format = f
		text = strings.TrimSpace(rest)
	}

	msg.input = text
	return msg, nil
}

// checkMessage computes the CRC of one line and classifies the outcome
func checkMessage(line string, def cancrc.InputFormat) (monitorMessage, cancrc.Bits, cancrc.Result, cancrc.Outcome, error) {
	msg, err := parseMonitorLine(line, def)
	if err != nil {
		return msg, nil, cancrc.Result{}, cancrc.OutcomeParseError, err
	}
	bits, err := cancrc.Parse(msg.input, msg.format)
	if err != nil {
		return msg, nil, cancrc.Result{}, cancrc.OutcomeParseError, err
	}

	res := cancrc.Result{Value: cancrc.Checksum(bits)}
	switch {
	case !msg.hasExpected:
		return msg, bits, res, cancrc.OutcomeComputed, nil
	case res.Value == msg.expected:
		return msg, bits, res, cancrc.OutcomeVerified, nil
	default:
		return msg, bits, res, cancrc.OutcomeMismatch, nil
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if monitorOutput != "text" && monitorOutput != "cbor" {
		return fmt.Errorf("unknown output format %q (use text or cbor)", monitorOutput)
	}

	conn, connInfo, err := monitorSource.open(readPassword)
	if err != nil {
		return err
	}
	defer conn.Close()

	if monitorOutput == "text" {
		fmt.Printf("cancrc - Monitor\n")
		fmt.Printf("Connection: %s\n", connInfo)
		fmt.Printf("Press Ctrl+C to exit\n\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats := cancrc.NewStatistics()
	err = monitorLoop(ctx, conn, os.Stdout, os.Stderr, stats, monitorFormat.resolve())
	fmt.Fprint(os.Stderr, stats.String())
	return err
}

// monitorLoop processes lines from conn until ctx is cancelled or the
// connection ends. Message results go to out, periodic statistics to errOut.
func monitorLoop(ctx context.Context, conn io.ReadWriter, out, errOut io.Writer, stats *cancrc.Statistics, def cancrc.InputFormat) error {
	lines := make(chan string, 64)
	errChan := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errChan <- scanner.Err()
	}()

	var tick <-chan time.Time
	if monitorStatsInterval > 0 {
		ticker := time.NewTicker(monitorStatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick:
			fmt.Fprint(errOut, stats.String())
			if monitorResetStats {
				stats.Reset()
			}

		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-errChan:
				default:
				}
				if err == nil || errors.Is(err, ErrConnectionClosed) {
					log.Printf("Connection closed")
					return nil
				}
				return fmt.Errorf("read error: %w", err)
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := handleLine(conn, out, stats, line, def); err != nil {
				return err
			}
		}
	}
}

func handleLine(conn io.Writer, out io.Writer, stats *cancrc.Statistics, line string, def cancrc.InputFormat) error {
	msg, bits, res, outcome, err := checkMessage(line, def)
	stats.Update(outcome)

	if monitorOutput == "cbor" {
		if err != nil {
			log.Printf("%v", err)
			return nil
		}
		data, err := cancrc.EncodeRecord(cancrc.NewRecord(msg.input, bits, res, cancrc.Report{Iterations: 1}))
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, formatMonitorLine(time.Now(), msg, res, outcome, err))
	}

	if monitorEcho && err == nil {
		if _, werr := fmt.Fprintf(conn, "%s\n", res.Hex()); werr != nil {
			return fmt.Errorf("write error: %w", werr)
		}
	}
	return nil
}

func formatMonitorLine(ts time.Time, msg monitorMessage, res cancrc.Result, outcome cancrc.Outcome, err error) string {
	stamp := headerStyle.Render("[" + ts.Format("15:04:05.000") + "]")
	switch outcome {
	case cancrc.OutcomeParseError:
		return fmt.Sprintf("%s %s\n", stamp, errorStyle.Render("ERROR "+err.Error()))
	case cancrc.OutcomeVerified:
		return fmt.Sprintf("%s %s -> 0x%s %s\n", stamp, msg.input, res.Hex(), valueStyle.Render("OK"))
	case cancrc.OutcomeMismatch:
		return fmt.Sprintf("%s %s -> 0x%s %s\n", stamp, msg.input, res.Hex(),
			errorStyle.Render(fmt.Sprintf("MISMATCH (expected 0x%04X)", msg.expected)))
	default:
		return fmt.Sprintf("%s %s -> 0x%s\n", stamp, msg.input, res.Hex())
	}
}
