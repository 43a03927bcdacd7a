// vmailmgr
// Copyright 2026 Blue Static <https://www.bluestatic.org>
// This program is free software licensed under the GNU General Public License,
// version 3.0. The full text of the license can be found in LICENSE.txt.
// SPDX-License-Identifier: GPL-3.0-only

package vmailmgr

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedBuffer          = errors.New("truncated buffer")
	ErrUnsupportedRecordVersion = errors.New("unsupported record version")
	ErrChunkTooLarge            = errors.New("chunk too large")
	ErrTooManyArguments         = errors.New("too many arguments")
	ErrUnknownAttribute         = errors.New("unknown attribute")
	ErrMalformedRequest         = errors.New("malformed request")
)

// ProtocolError reports a framing or schema violation. Kind is one of the
// Err* sentinels, so callers can match it with errors.Is.
type ProtocolError struct {
	Kind   error
	Offset int
	Value  any
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v at offset %d (%v)", e.Kind, e.Offset, e.Value)
}

func (e *ProtocolError) Unwrap() error { return e.Kind }

func truncated(offset, want, have int) error {
	return &ProtocolError{
		Kind:   ErrTruncatedBuffer,
		Offset: offset,
		Value:  fmt.Sprintf("need %d bytes, have %d", want, have),
	}
}

// DaemonError is a nonzero result code returned by the daemon.
type DaemonError struct {
	Code    ResultCode
	Message string
}

func (e *DaemonError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon error: %s", e.Code)
	}
	return fmt.Sprintf("daemon error: %s: %s", e.Code, e.Message)
}
