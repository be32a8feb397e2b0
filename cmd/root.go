// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/cancrc/internal/config"
	"github.com/Thermoquad/cancrc/internal/debug"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	debugMode bool
	workers   int

	// Environment defaults, loaded before any command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cancrc",
	Short: "CAN CRC-15 calculator and benchmark",
	Long: `cancrc - compute the CAN CRC-15 checksum (polynomial 0x4599) of messages
up to 96 bits long, and repeat the computation to benchmark it.

Input is given as hex bytes ("AA BB CC") or binary digits ("1010 1100").
Iteration counts of 100 000 and above run in parallel on all CPUs.

Defaults can be set in the environment:
  CANCRC_FORMAT      hex or bin
  CANCRC_ITERATIONS  1 to 1 000 000 000
  CANCRC_WORKERS     parallel workers (0 = all CPUs)
  CANCRC_THRESHOLD   iteration count from which runs go parallel
  CANCRC_PASSWORD    WebSocket password for monitor
  CANCRC_DEBUG       enable debug logging`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			c.Workers = workers
		}
		cfg = c
		if debugMode {
			debug.SetEnabled(true)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed information")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Parallel workers (0 = all CPUs)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
