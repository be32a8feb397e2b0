// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cancrc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported to callers
type ErrorKind int

const (
	KindInvalidFormat ErrorKind = iota
	KindTooLong
	KindOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid format"
	case KindTooLong:
		return "too long"
	case KindOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is
var (
	ErrInvalidFormat = errors.New("invalid format")
	ErrTooLong       = errors.New("input too long")
	ErrOutOfRange    = errors.New("out of range")
)

// Error is returned for any caller-supplied input the core rejects
type Error struct {
	Kind    ErrorKind
	Input   string
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the sentinel matching e.Kind
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindInvalidFormat:
		return target == ErrInvalidFormat
	case KindTooLong:
		return target == ErrTooLong
	case KindOutOfRange:
		return target == ErrOutOfRange
	}
	return false
}

func newError(kind ErrorKind, input, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Input:   input,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidateIterations checks that n lies within [MinIterations, MaxIterations]
func ValidateIterations(n uint64) error {
	if n < MinIterations || n > MaxIterations {
		return newError(KindOutOfRange, fmt.Sprint(n),
			"iteration count %d out of range (allowed: %d to %d)", n, MinIterations, MaxIterations)
	}
	return nil
}
