// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"fmt"
	"time"
)

// Outcome classifies one checked message
type Outcome int

const (
	// OutcomeComputed: CRC computed, nothing to compare against
	OutcomeComputed Outcome = iota
	// OutcomeVerified: CRC matched the expected value
	OutcomeVerified
	// OutcomeMismatch: CRC differed from the expected value
	OutcomeMismatch
	// OutcomeParseError: message rejected by the bit source
	OutcomeParseError
)

// Statistics tracks message counts and rates for a monitoring session
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalMessages uint64
	Computed      uint64
	Verified      uint64
	Mismatches    uint64
	ParseErrors   uint64

	// Rates (calculated)
	MessageRate float64 // messages/sec
	ErrorRate   float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update counts one message
func (s *Statistics) Update(o Outcome) {
	s.TotalMessages++
	switch o {
	case OutcomeComputed:
		s.Computed++
	case OutcomeVerified:
		s.Verified++
	case OutcomeMismatch:
		s.Mismatches++
	case OutcomeParseError:
		s.ParseErrors++
	}
	s.LastUpdateTime = time.Now()
}

// Errors returns mismatches plus parse errors
func (s *Statistics) Errors() uint64 {
	return s.Mismatches + s.ParseErrors
}

// CalculateRates calculates message and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.MessageRate = float64(s.TotalMessages) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	percent := func(n uint64) float64 {
		if s.TotalMessages == 0 {
			return 0
		}
		return float64(n) * 100.0 / float64(s.TotalMessages)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Messages:  %8d\n", s.TotalMessages)
	result += fmt.Sprintf("Computed:        %8d (%.1f%%)\n", s.Computed, percent(s.Computed))
	result += fmt.Sprintf("Verified:        %8d (%.1f%%)\n", s.Verified, percent(s.Verified))
	if s.Mismatches > 0 {
		result += fmt.Sprintf("CRC Mismatches:  %8d (%.1f%%)\n", s.Mismatches, percent(s.Mismatches))
	}
	if s.ParseErrors > 0 {
		result += fmt.Sprintf("Parse Errors:    %8d (%.1f%%)\n", s.ParseErrors, percent(s.ParseErrors))
	}
	result += fmt.Sprintf("Message Rate:    %8.1f msgs/sec\n", s.MessageRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	*s = *NewStatistics()
}
