// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

// maxOutputBytes bounds the size an output buffer may grow to through
// appendByte and copyBack. It is larger than any uint32 value, so the
// ISIZE-derived capacity hint passed to newOutputBuffer is never rejected
// by it; a hint of up to 4 GiB is allocated as given.
const maxOutputBytes = 1 << 34

// outputBuffer is the growable, owning byte sequence that the inflater
// writes literals and back-references into. It mirrors the operations
// original_source/src/cvec.rs defines on its Buf: appendByte is cvec's
// push, copyBack is its copy_back_pointer. append's built-in grow-and-copy
// behavior already gives the doubling growth spec.md's byte buffer module
// asks for, so there is no separate capacity-management routine here.
type outputBuffer struct {
	b []byte
}

func newOutputBuffer(capacityHint uint32) (*outputBuffer, *Error) {
	if uint64(capacityHint) > maxOutputBytes {
		return nil, newErrf(ErrKindOutOfMemory, "capacity hint %d exceeds limit", capacityHint)
	}
	return &outputBuffer{b: make([]byte, 0, capacityHint)}, nil
}

func (o *outputBuffer) len() int { return len(o.b) }

func (o *outputBuffer) bytes() []byte { return o.b }

func (o *outputBuffer) appendByte(c byte) *Error {
	if uint64(len(o.b))+1 > maxOutputBytes {
		return newErr(ErrKindOutOfMemory, "output exceeded size limit")
	}
	o.b = append(o.b, c)
	return nil
}

// copyBack appends length bytes read starting distance bytes before the
// current end of the buffer. distance is 1-based: distance == 1 repeats the
// most recently written byte. Reads must observe writes performed earlier
// in the same call, since the ranges overlap whenever distance < length
// (the back-reference repeats the tail it is itself extending) — this is
// why the copy proceeds one byte at a time rather than via a bulk copy of
// a snapshotted source range, exactly as original_source/src/cvec.rs's
// copy_back_pointer does.
func (o *outputBuffer) copyBack(distance, length int) *Error {
	if distance <= 0 || distance > len(o.b) {
		return newErrf(ErrKindMalformedStream, "back-reference distance %d exceeds output length %d", distance, len(o.b))
	}
	if uint64(len(o.b))+uint64(length) > maxOutputBytes {
		return newErr(ErrKindOutOfMemory, "output exceeded size limit")
	}
	src := len(o.b) - distance
	for i := 0; i < length; i++ {
		o.b = append(o.b, o.b[src+i])
	}
	return nil
}
