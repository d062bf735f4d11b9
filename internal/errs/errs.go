// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package errs defines the error taxonomy shared across Indicium.
//
// Errors carry a stable Kind string that upstream callers branch on and the
// API layer maps to HTTP status codes. Kinds are coarse by design: they
// classify how a failure should be handled (retry, serve cache, abort), not
// where it happened — the wrapped cause keeps that detail.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling and for the stable code surfaced
// in API responses.
type Kind string

const (
	// KindConfig marks invalid startup configuration. Fatal at boot.
	KindConfig Kind = "CONFIG"

	// KindTransient marks retriable upstream I/O failures.
	KindTransient Kind = "TRANSIENT"

	// KindBudgetExhausted marks a reputation call rejected by the daily budget.
	KindBudgetExhausted Kind = "BUDGET_EXHAUSTED"

	// KindNotFound marks a missing resource (collection, indicator, cache key).
	KindNotFound Kind = "NOT_FOUND"

	// KindUnavailable marks an unreachable cache or an absent snapshot.
	// Consumers should retry after a delay.
	KindUnavailable Kind = "SERVICE_UNAVAILABLE"

	// KindFatal marks an invariant violation. The affected operation aborts.
	KindFatal Kind = "FATAL"
)

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so sentinel-style checks work:
//
//	errors.Is(err, &errs.Error{Kind: errs.KindBudgetExhausted})
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around a cause. A nil cause
// yields a plain kinded error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Config creates a CONFIG error.
func Config(format string, args ...interface{}) *Error {
	return New(KindConfig, format, args...)
}

// Transient wraps a retriable upstream failure.
func Transient(err error, format string, args ...interface{}) *Error {
	return Wrap(KindTransient, err, format, args...)
}

// BudgetExhausted creates a BUDGET_EXHAUSTED error.
func BudgetExhausted(format string, args ...interface{}) *Error {
	return New(KindBudgetExhausted, format, args...)
}

// NotFound creates a NOT_FOUND error.
func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

// Unavailable wraps a cache/snapshot availability failure.
func Unavailable(err error, format string, args ...interface{}) *Error {
	return Wrap(KindUnavailable, err, format, args...)
}

// Fatal wraps an invariant violation.
func Fatal(err error, format string, args ...interface{}) *Error {
	return Wrap(KindFatal, err, format, args...)
}

// KindOf extracts the Kind from an error chain. Unclassified errors
// report an empty Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
