// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gzcat decodes a single GZIP member (RFC 1952) whose payload uses
// the DEFLATE method (RFC 1951), built from scratch rather than delegating
// to compress/gzip or compress/flate.
package gzcat

import "encoding/binary"

// minMemberLen is the smallest possible GZIP member: a 10-byte fixed
// header, a zero-length DEFLATE stream, and an 8-byte footer.
const minMemberLen = 18

// Decompress decodes a single GZIP member and returns the uncompressed
// bytes, following the sequencing of original_source/src/gz.rs's
// decompress_gz (length check, footer fields, header, inflate, checksum).
// It is an error for any bytes to remain in input after the member's
// footer.
func Decompress(input []byte) ([]byte, error) {
	out, _, err := decompress(input)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecompressWithHeader decodes a single GZIP member as Decompress does, and
// additionally returns the parsed header, letting a caller inspect metadata
// (name, comment, modification time, extra field) alongside the
// decompressed payload.
func DecompressWithHeader(input []byte) ([]byte, Header, error) {
	out, hdr, err := decompress(input)
	if err != nil {
		return nil, Header{}, err
	}
	return out, hdr, nil
}

// decompress implements spec.md §4.7 step by step.
func decompress(input []byte) ([]byte, Header, *Error) {
	if len(input) < minMemberLen {
		return nil, Header{}, ErrTooShort
	}

	n := len(input)
	footerCRC := binary.LittleEndian.Uint32(input[n-8 : n-4])
	isize := binary.LittleEndian.Uint32(input[n-4:])

	hdr, err := ParseHeader(input)
	if err != nil {
		return nil, Header{}, err.(*Error)
	}
	if hdr.HeaderLen > n-8 {
		return nil, Header{}, newErr(ErrKindBadHeader, "header overruns the footer")
	}

	out, oerr := newOutputBuffer(isize)
	if oerr != nil {
		return nil, Header{}, oerr
	}

	stream := newBitReader(input, hdr.HeaderLen, n-8)
	if ierr := inflate(stream, out); ierr != nil {
		return nil, Header{}, ierr
	}

	if stream.pos != stream.end {
		return nil, Header{}, ErrTrailingData
	}

	computed := crc32Sum(out.bytes())
	if computed != footerCRC {
		return nil, Header{}, ErrBadChecksum
	}

	return out.bytes(), hdr, nil
}
