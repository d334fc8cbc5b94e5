// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

import (
	"encoding/binary"
	"strings"
	"time"
)

// GZIP fixed-header constants, named after coreos-pkg/gzran/gzip/gunzip.go's
// gzipID1/gzipID2/gzipDeflate/flag* constants.
const (
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8

	flagText    = 1 << 0
	flagHdrCRC  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
	flagReserved = 0xe0 // bits 5-7

	gzipFixedHeaderLen = 10
)

// ExtraField is the single FEXTRA subfield this format's header parser
// reads: a two-byte subfield ID and its payload. Grounded on
// original_source/src/header.rs's get_extra, which reads one
// ID(2)+LEN(2)+payload(LEN) triple with no separate outer XLEN — spec.md
// §4.4 step 5 mandates this exact procedure (confirmed by the 33-byte
// header_len in spec.md §8 scenario 4), so this type names the result
// rather than changing what is read.
type ExtraField struct {
	ID      [2]byte
	Payload []byte
}

// Header is the parsed GZIP fixed header plus whichever optional fields
// were present, named after coreos-pkg/gzran/gzip.Header's field choices
// (Comment, Extra, ModTime, Name, OS).
type Header struct {
	Text    bool // FTEXT: hints the payload is ASCII text
	ModTime time.Time
	XFL     byte
	OS      byte

	Extra *ExtraField

	HasName bool
	Name    string // Latin-1 decoded, per Open Question 5

	HasComment bool
	Comment    string // Latin-1 decoded, per Open Question 5

	HasCRC16 bool
	CRC16    uint16 // parsed only; never verified, per spec.md's Non-goals

	// HeaderLen is the number of input bytes consumed by the header,
	// i.e. the offset at which the DEFLATE payload begins.
	HeaderLen int
}

// ParseHeader parses the GZIP fixed header and any optional fields present
// at the start of input, per spec.md §4.4. It does not require the full
// member (footer included) to be present, so it can be used to inspect a
// member's metadata without inflating it.
func ParseHeader(input []byte) (Header, error) {
	var h Header
	if len(input) < gzipFixedHeaderLen {
		return h, newErr(ErrKindBadHeader, "input shorter than the fixed header")
	}
	if input[0] != gzipID1 || input[1] != gzipID2 {
		return h, newErr(ErrKindBadMagic, "missing gzip magic bytes")
	}
	method := input[2]
	if method != gzipDeflate {
		return h, newErrf(ErrKindUnsupportedMethod, "method %d", method)
	}
	flags := input[3]
	if flags&flagReserved != 0 {
		return h, newErr(ErrKindBadHeader, "reserved flag bits set")
	}
	h.Text = flags&flagText != 0
	mtime := binary.LittleEndian.Uint32(input[4:8])
	if mtime != 0 {
		h.ModTime = time.Unix(int64(mtime), 0)
	}
	h.XFL = input[8]
	h.OS = input[9]

	pos := gzipFixedHeaderLen

	if flags&flagExtra != 0 {
		var ef ExtraField
		if pos+4 > len(input) {
			return h, newErr(ErrKindBadHeader, "truncated FEXTRA id/length")
		}
		ef.ID[0], ef.ID[1] = input[pos], input[pos+1]
		length := binary.LittleEndian.Uint16(input[pos+2 : pos+4])
		pos += 4
		if pos+int(length) > len(input) {
			return h, newErr(ErrKindBadHeader, "truncated FEXTRA payload")
		}
		ef.Payload = append([]byte(nil), input[pos:pos+int(length)]...)
		pos += int(length)
		h.Extra = &ef
	}

	if flags&flagName != 0 {
		s, next, err := readCString(input, pos)
		if err != nil {
			return h, err
		}
		h.HasName = true
		h.Name = latin1ToString(s)
		pos = next
	}

	if flags&flagComment != 0 {
		s, next, err := readCString(input, pos)
		if err != nil {
			return h, err
		}
		h.HasComment = true
		h.Comment = latin1ToString(s)
		pos = next
	}

	if flags&flagHdrCRC != 0 {
		if pos+2 > len(input) {
			return h, newErr(ErrKindBadHeader, "truncated FHCRC")
		}
		h.CRC16 = binary.LittleEndian.Uint16(input[pos : pos+2])
		h.HasCRC16 = true
		pos += 2
	}

	h.HeaderLen = pos
	return h, nil
}

// readCString reads bytes from input[from:] up to and including a 0x00
// terminator, returning the bytes before the terminator and the offset
// just past it.
func readCString(input []byte, from int) ([]byte, int, *Error) {
	for i := from; i < len(input); i++ {
		if input[i] == 0x00 {
			return input[from:i], i + 1, nil
		}
	}
	return nil, 0, newErr(ErrKindBadHeader, "unterminated string field")
}

// latin1ToString decodes a byte slice as ISO-8859-1 (RFC 1952's declared
// encoding for FNAME/FCOMMENT) into a Go string, per Open Question 5: every
// byte maps directly to the identically-numbered Unicode code point, so
// this can never fail the way a strict UTF-8 decode could.
func latin1ToString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
