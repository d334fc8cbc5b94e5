// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

import "fmt"

// ErrKind identifies the category of a decode failure.
type ErrKind int

const (
	// ErrKindTooShort indicates an input shorter than the minimum
	// possible GZIP member (10 byte header + 8 byte footer).
	ErrKindTooShort ErrKind = iota
	// ErrKindBadMagic indicates the first two bytes were not 0x1f 0x8b.
	ErrKindBadMagic
	// ErrKindUnsupportedMethod indicates a compression method other than 8 (deflate).
	ErrKindUnsupportedMethod
	// ErrKindBadHeader indicates a truncated or malformed optional header field.
	ErrKindBadHeader
	// ErrKindBadBlockType indicates the reserved DEFLATE block type 11.
	ErrKindBadBlockType
	// ErrKindMalformedStream indicates an invalid DEFLATE bitstream: an
	// out-of-range symbol, a premature end of stream, an invalid
	// back-reference, or an oversubscribed Huffman code.
	ErrKindMalformedStream
	// ErrKindBadChecksum indicates the computed CRC-32 did not match the footer.
	ErrKindBadChecksum
	// ErrKindOutOfMemory indicates an output allocation could not proceed safely.
	ErrKindOutOfMemory
	// ErrKindTrailingData indicates bytes remained after a complete member.
	ErrKindTrailingData
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTooShort:
		return "input too short"
	case ErrKindBadMagic:
		return "bad magic"
	case ErrKindUnsupportedMethod:
		return "unsupported compression method"
	case ErrKindBadHeader:
		return "bad header"
	case ErrKindBadBlockType:
		return "bad block type"
	case ErrKindMalformedStream:
		return "malformed stream"
	case ErrKindBadChecksum:
		return "checksum mismatch"
	case ErrKindOutOfMemory:
		return "out of memory"
	case ErrKindTrailingData:
		return "trailing data after member"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by every fallible operation in this
// package. It carries a Kind so callers can branch on failure category with
// errors.Is against the Err* sentinels below, and an optional Detail string
// with human-readable context.
type Error struct {
	Kind   ErrKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return "gzcat: " + e.Kind.String()
	}
	return fmt.Sprintf("gzcat: %s: %s", e.Kind, e.Detail)
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, gzcat.ErrBadChecksum) works regardless of Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind ErrKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func newErrf(kind ErrKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Sentinel errors for use with errors.Is. Detail is empty on these; decode
// failures construct their own *Error with a populated Detail and the same
// Kind, which compares equal via Error.Is.
var (
	ErrTooShort          = &Error{Kind: ErrKindTooShort}
	ErrBadMagic          = &Error{Kind: ErrKindBadMagic}
	ErrUnsupportedMethod = &Error{Kind: ErrKindUnsupportedMethod}
	ErrBadHeader         = &Error{Kind: ErrKindBadHeader}
	ErrBadBlockType      = &Error{Kind: ErrKindBadBlockType}
	ErrMalformedStream   = &Error{Kind: ErrKindMalformedStream}
	ErrBadChecksum       = &Error{Kind: ErrKindBadChecksum}
	ErrOutOfMemory       = &Error{Kind: ErrKindOutOfMemory}
	ErrTrailingData      = &Error{Kind: ErrKindTrailingData}
)
