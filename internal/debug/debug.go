// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package debug prints diagnostics when CANCRC_DEBUG is set to a true value.
package debug

import (
	"log"
	"os"
	"strconv"
)

const (
	EnvVar = "CANCRC_DEBUG"
	Prefix = "[DEBUG] "
)

var enabled bool

func init() {
	enabled, _ = strconv.ParseBool(os.Getenv(EnvVar))
}

func Enabled() bool { return enabled }

// SetEnabled overrides the environment setting (used by --debug)
func SetEnabled(v bool) { enabled = v }

func Printf(format string, v ...interface{}) {
	if !enabled {
		return
	}
	log.Printf(Prefix+format, v...)
}
