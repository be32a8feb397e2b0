// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads defaults from CANCRC_* environment variables.
// Command-line flags take precedence over everything loaded here.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/Thermoquad/cancrc/pkg/cancrc"
	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix
const Prefix = "cancrc"

const appDir = "cancrc"

// Config holds environment-provided defaults
type Config struct {
	Format     string `envconfig:"FORMAT" default:"hex"`
	Iterations uint64 `envconfig:"ITERATIONS" default:"1"`
	Workers    int    `envconfig:"WORKERS" default:"0"`
	Threshold  uint64 `envconfig:"THRESHOLD" default:"100000"`

	// Password for WebSocket basic auth; prompted for when empty
	Password string `envconfig:"PASSWORD"`

	// HistoryFile overrides the interactive history location
	HistoryFile string `envconfig:"HISTORY_FILE"`
}

// Load reads the environment and validates the result
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every value is usable by the engine
func (c *Config) Validate() error {
	if _, err := cancrc.ParseInputFormat(c.Format); err != nil {
		return fmt.Errorf("CANCRC_FORMAT: %w", err)
	}
	if err := cancrc.ValidateIterations(c.Iterations); err != nil {
		return fmt.Errorf("CANCRC_ITERATIONS: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("CANCRC_WORKERS: must not be negative, got %d", c.Workers)
	}
	if c.Threshold == 0 {
		return fmt.Errorf("CANCRC_THRESHOLD: must be at least 1")
	}
	return nil
}

// InputFormat returns the parsed default format
func (c *Config) InputFormat() cancrc.InputFormat {
	f, _ := cancrc.ParseInputFormat(c.Format)
	return f
}

// Engine returns an engine configured from the environment
func (c *Config) Engine() *cancrc.Engine {
	return &cancrc.Engine{
		Workers:           c.Workers,
		ParallelThreshold: c.Threshold,
	}
}

// HistoryPath returns the interactive history file, creating its directory
// under the XDG state home when needed.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	return xdg.StateFile(filepath.Join(appDir, "history"))
}
