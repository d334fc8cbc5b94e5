// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

import (
	"bytes"
	"errors"
	"testing"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	if len(s)%2 != 0 {
		t.Fatalf("odd-length hex string %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		var b byte
		for j := 0; j < 2; j++ {
			c := s[i*2+j]
			var v byte
			switch {
			case c >= '0' && c <= '9':
				v = c - '0'
			case c >= 'a' && c <= 'f':
				v = c - 'a' + 10
			default:
				t.Fatalf("bad hex digit %q in %q", c, s)
			}
			b = b<<4 | v
		}
		out[i] = b
	}
	return out
}

// Scenario 1 from spec.md §8: the canonical empty-payload gzip member.
func TestDecompressEmpty(t *testing.T) {
	member := hexBytes(t, "1f8b080000000000000303000000000000000000")
	out, err := Decompress(member)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("output = %v, want empty", out)
	}
}

// Scenario 2: "hello world\n" via a BTYPE 00 stored block.
func TestDecompressHelloWorldStoredBlock(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	out, err := Decompress(member)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "hello world\n" {
		t.Fatalf("output = %q, want %q", out, "hello world\n")
	}
}

// Scenario 3: a fixed Huffman block encoding one literal 'a' followed by a
// length-7 distance-1 back-reference, producing eight 'a' bytes.
func TestDecompressFixedHuffmanBackReference(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff4b840200468084bf08000000")
	out, err := Decompress(member)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != "aaaaaaaa" {
		t.Fatalf("output = %q, want %q", out, "aaaaaaaa")
	}
}

// A real dynamic-Huffman (BTYPE 10) member, produced by Python's gzip
// module at compresslevel 6 over 80 random words drawn from an 11-word
// vocabulary (enough repetition to make dynamic trees worthwhile, few
// enough distinct symbols that most of the 286-entry literal/length
// alphabet is unused — exercising the HCLEN code-length alphabet, the
// repeat-code expansions for symbols 16/17/18, and the HLIT/HDIST split),
// then cross-checked against Python's zlib.decompress as an independent
// oracle. This is the block type real gzip output actually uses, unlike
// the stored and fixed-Huffman fixtures above.
func TestDecompressDynamicHuffmanBlock(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff6d50410e80200cfb0a5f9b91281184c49d78bd610537820796b2aea5a37a2677504ae41aa2584e725b83217347b5958b4a19bc50bb8fb3601cb980552335879119b2cec0a82ab14f895b0f5c9e10f3ed7405cddc2dfa8411191615e6d5f3b2f71a0cb37c4e6b89143d4c014b7b04801009ccd7fca43462c0c19a7ffb72be3a44e333be010000")
	want := "zeta gamma eta alpha beta iota beta zeta kappa alpha iota delta alpha beta eta eta beta delta beta iota eta alpha kappa beta delta kappa alpha kappa kappa eta alpha delta alpha iota gamma epsilon eta gamma iota beta kappa epsilon iota gamma beta kappa kappa delta zeta beta iota beta kappa alpha kappa delta theta iota eta zeta theta kappa theta zeta epsilon delta gamma delta beta kappa epsilon iota theta zeta theta epsilon kappa beta beta iota"

	out, err := Decompress(member)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(out) != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

// Scenario 4: header_len varies with FEXTRA presence; exercised directly
// against ParseHeader in header_test.go (TestParseHeaderComplex,
// TestParseHeaderPartial). Verified again here through the full
// DecompressWithHeader path using the stored-block member, whose header
// carries neither FNAME, FCOMMENT nor FEXTRA.
func TestDecompressWithHeaderExposesHeader(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	out, hdr, err := DecompressWithHeader(member)
	if err != nil {
		t.Fatalf("DecompressWithHeader: %v", err)
	}
	if string(out) != "hello world\n" {
		t.Fatalf("output = %q, want %q", out, "hello world\n")
	}
	if hdr.HeaderLen != 10 {
		t.Fatalf("HeaderLen = %d, want 10", hdr.HeaderLen)
	}
	if hdr.Extra != nil || hdr.HasName || hdr.HasComment {
		t.Fatalf("unexpected optional header fields: %+v", hdr)
	}
}

// Scenario 5: altering the footer's CRC-32 byte fails with ErrBadChecksum
// and returns no output.
func TestDecompressBadChecksum(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	corrupt := append([]byte(nil), member...)
	corrupt[len(corrupt)-8] ^= 0xff

	out, err := Decompress(corrupt)
	if out != nil {
		t.Fatalf("output = %v, want nil on failure", out)
	}
	if !errors.Is(err, ErrBadChecksum) {
		t.Fatalf("err = %v, want ErrBadChecksum", err)
	}
}

// Scenario 6: truncating a member mid-payload fails with ErrMalformedStream.
func TestDecompressTruncatedPayload(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	truncated := member[:len(member)-10]

	if _, err := Decompress(truncated); !errors.Is(err, ErrMalformedStream) {
		t.Fatalf("err = %v, want ErrMalformedStream", err)
	}
}

func TestDecompressTooShort(t *testing.T) {
	if _, err := Decompress([]byte{0x1f, 0x8b, 0x08}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
}

func TestDecompressTrailingData(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	withTrailer := append(append([]byte(nil), member...), 0x00)

	if _, err := Decompress(withTrailer); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("err = %v, want ErrTrailingData", err)
	}

	// Stripping the trailing byte back off must succeed.
	if _, err := Decompress(member); err != nil {
		t.Fatalf("Decompress without the trailing byte: %v", err)
	}
}

func TestDecompressBadMagic(t *testing.T) {
	member := hexBytes(t, "1f8c08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	if _, err := Decompress(member); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}

func TestDecompressRoundTripBytesEqual(t *testing.T) {
	member := hexBytes(t, "1f8b08000000000000ff010c00f3ff68656c6c6f20776f726c640a2d3b08af0c000000")
	out, err := Decompress(member)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, []byte("hello world\n")) {
		t.Fatalf("output = %q", out)
	}
}
