/*******************************************************************************
*
* Copyright 2026 Acacia Linux contributors
*
* This file is part of Acacia Build.
*
* Acacia Build is free software: you can redistribute it and/or modify it
* under the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* Acacia Build is distributed in the hope that it will be useful, but WITHOUT
* ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
* FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for
* more details.
*
* You should have received a copy of the GNU General Public License along
* with Acacia Build. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package errs defines the error taxonomy shared by every component of the
// tooling: a single concrete Error type tagged with a Kind per row of the
// error-handling design, optionally carrying a captured stack trace.
package errs

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind is a tag identifying which row of the error taxonomy an error
// belongs to, independent of its concrete Go type.
type Kind string

const (
	KindInvalidInput     Kind = "InvalidInput"
	KindNotFound         Kind = "NotFound"
	KindCorrupt          Kind = "Corrupt"
	KindIoError          Kind = "IoError"
	KindIndexEscape      Kind = "IndexEscape"
	KindMountFailed      Kind = "MountFailed"
	KindUnmountFailed    Kind = "UnmountFailed"
	KindFetchFailed      Kind = "FetchFailed"
	KindExtractFailed    Kind = "ExtractFailed"
	KindStageFailed      Kind = "StageFailed"
	KindValidationFailed Kind = "ValidationFailed"
	KindPeerUnreachable  Kind = "PeerUnreachable"
	KindCancelled        Kind = "Cancelled"
)

// Error is the concrete error type used across the tooling. It carries a
// Kind, free-form context fields (component, build-id, path, OID hex), and
// an optional stack-capturing wrapped cause.
type Error struct {
	Kind      Kind
	Component string
	Context   map[string]string
	Cause     error
	stack     *goerrors.Error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Component, e.Kind)
	for k, v := range e.Context {
		msg += fmt.Sprintf(" %s=%s", k, v)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// StackTrace returns a formatted stack trace if this error was constructed
// with stack capture (fatal kinds), or the empty string otherwise.
func (e *Error) StackTrace() string {
	if e.stack == nil {
		return ""
	}
	return string(e.stack.Stack())
}

// New constructs a plain, non-fatal error of the given kind.
func New(kind Kind, component string, context map[string]string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Context: context, Cause: cause}
}

// NewFatal constructs an error of the given kind with a captured stack
// trace. Only StageFailed errors are built this way; MountFailed,
// UnmountFailed and Corrupt errors are constructed with New and carry no
// stack trace.
func NewFatal(kind Kind, component string, context map[string]string, cause error) *Error {
	var stack *goerrors.Error
	if cause != nil {
		stack = goerrors.Wrap(cause, 1)
	} else {
		stack = goerrors.Wrap(fmt.Errorf("%s", kind), 1)
	}
	return &Error{Kind: kind, Component: component, Context: context, Cause: cause, stack: stack}
}

// StageFailed builds the StageFailed(stage, exit_code) error named in
// spec.md §4.F / §7.
func StageFailed(stage string, exitCode int, buildID string) *Error {
	return NewFatal(KindStageFailed, "executor", map[string]string{
		"stage":     stage,
		"exit_code": fmt.Sprintf("%d", exitCode),
		"build_id":  buildID,
	}, fmt.Errorf("stage %q exited with code %d", stage, exitCode))
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
