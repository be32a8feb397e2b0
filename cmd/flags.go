// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/spf13/pflag"
)

// formatValue is a pflag.Value selecting the input format
type formatValue struct {
	format cancrc.InputFormat
	set    bool
}

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string {
	return f.format.String()
}

func (f *formatValue) Set(s string) error {
	format, err := cancrc.ParseInputFormat(s)
	if err != nil {
		return err
	}
	f.format = format
	f.set = true
	return nil
}

func (f *formatValue) Type() string {
	return "hex|bin"
}

// resolve returns the flag value when given, otherwise the environment default
func (f *formatValue) resolve() cancrc.InputFormat {
	if f.set || cfg == nil {
		return f.format
	}
	return cfg.InputFormat()
}

// addFormatFlag registers --format/-f on fs
func addFormatFlag(fs *pflag.FlagSet, f *formatValue) {
	fs.VarP(f, "format", "f", "Input format: hex or bin (default from CANCRC_FORMAT, else hex)")
}
