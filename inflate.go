// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

// These tables are defined by RFC 1951. codeLengthOrder is the permutation
// in which the three-bit code lengths for the code-length alphabet itself
// are transmitted (§3.2.7). extraLengthAddend/extraDistAddend hold the base
// values for length/distance codes that carry extra bits.
//
// Per spec.md's Open Question 1 (see DESIGN.md), extraDistAddend uses the
// RFC 1951 values [5,7,9,13,...] — original_source/src/inflate.rs's
// EXTRA_DIST_ADDEND begins [4,6,8,12,...], an off-by-one bug this
// implementation does not reproduce.
var (
	codeLengthOrder = [19]uint32{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

	extraLengthAddend = [20]uint32{
		11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227,
	}

	extraDistAddend = [26]uint32{
		5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
		1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
	}

	fixedTreeRanges = []HuffmanRange{
		{End: 143, BitLength: 8},
		{End: 255, BitLength: 9},
		{End: 279, BitLength: 7},
		{End: 287, BitLength: 8},
	}
)

// inflate decodes a DEFLATE stream, per spec.md §4.6, appending literal
// bytes and back-reference expansions to out. stream must be positioned at
// the first block header.
func inflate(stream *bitReader, out *outputBuffer) *Error {
	fixedTree, err := buildHuffmanTree(fixedTreeRanges)
	if err != nil {
		return err
	}

	for {
		bfinal, ok := stream.readBits(1)
		if !ok {
			return stream.Err()
		}
		btype, ok := stream.readBits(2)
		if !ok {
			return stream.Err()
		}

		switch btype {
		case 0:
			if err := inflateStoredBlock(stream, out); err != nil {
				return err
			}
		case 1:
			if err := inflateSymbols(stream, fixedTree, nil, out); err != nil {
				return err
			}
		case 2:
			litTree, distTree, err := readDynamicTrees(stream)
			if err != nil {
				return err
			}
			if err := inflateSymbols(stream, litTree, distTree, out); err != nil {
				return err
			}
		default:
			return newErr(ErrKindBadBlockType, "reserved BTYPE 11")
		}

		if bfinal == 1 {
			return nil
		}
	}
}

// inflateStoredBlock implements RFC 1951 §3.2.4 (BTYPE 00): discard any
// partially-read bits to reach a byte boundary, read LEN/NLEN, verify they
// are complements, then copy LEN raw bytes straight into the output. Per
// spec.md's Open Question 2, stored blocks are supported (the original
// source this spec was distilled from rejected them; spec.md treats that
// as a bug to fix).
func inflateStoredBlock(stream *bitReader, out *outputBuffer) *Error {
	stream.alignToByte()
	raw, ok := stream.readRawBytes(4)
	if !ok {
		return stream.Err()
	}
	length := uint16(raw[0]) | uint16(raw[1])<<8
	nlength := uint16(raw[2]) | uint16(raw[3])<<8
	if nlength != ^length {
		return newErr(ErrKindMalformedStream, "stored block LEN/NLEN mismatch")
	}
	data, ok := stream.readRawBytes(int(length))
	if !ok {
		return stream.Err()
	}
	for _, b := range data {
		if err := out.appendByte(b); err != nil {
			return err
		}
	}
	return nil
}

// buildCodeLengthTree reads the code-length alphabet's own code lengths
// (hclen+4 3-bit values, in the fixed permutation order) and builds the
// tree used to decode the literal/length and distance alphabets, per
// spec.md §4.6 step 4 and original_source/src/inflate.rs's
// build_code_length_tree.
func buildCodeLengthTree(stream *bitReader, hclen uint32) (*huffmanTree, *Error) {
	var lengths [19]uint32
	for i := uint32(0); i < hclen+4; i++ {
		v, ok := stream.readBits(3)
		if !ok {
			return nil, stream.Err()
		}
		lengths[codeLengthOrder[i]] = v
	}
	return buildHuffmanTree(rangesFromLengths(lengths[:]))
}

// readDynamicTrees reads a dynamic block's header (HLIT/HDIST/HCLEN), the
// code-length alphabet, and then the literal/length and distance code
// length arrays it encodes, building both final trees. Grounded on
// original_source/src/inflate.rs's read_huffman_tree.
func readDynamicTrees(stream *bitReader) (lit *huffmanTree, dist *huffmanTree, rerr *Error) {
	hlit, ok := stream.readBits(5)
	if !ok {
		return nil, nil, stream.Err()
	}
	hdist, ok := stream.readBits(5)
	if !ok {
		return nil, nil, stream.Err()
	}
	hclen, ok := stream.readBits(4)
	if !ok {
		return nil, nil, stream.Err()
	}

	codeLenTree, err := buildCodeLengthTree(stream, hclen)
	if err != nil {
		return nil, nil, err
	}

	total := hlit + hdist + 258
	alphabet := make([]uint32, 0, total)
	for uint32(len(alphabet)) < total {
		code, ok := codeLenTree.decode(stream)
		if !ok {
			return nil, nil, stream.Err()
		}
		switch {
		case code <= 15:
			alphabet = append(alphabet, code)
		case code == 16:
			if len(alphabet) == 0 {
				return nil, nil, newErr(ErrKindMalformedStream, "repeat code 16 with no previous length")
			}
			n, ok := stream.readBits(2)
			if !ok {
				return nil, nil, stream.Err()
			}
			prev := alphabet[len(alphabet)-1]
			for i := uint32(0); i < n+3; i++ {
				alphabet = append(alphabet, prev)
			}
		case code == 17:
			n, ok := stream.readBits(3)
			if !ok {
				return nil, nil, stream.Err()
			}
			for i := uint32(0); i < n+3; i++ {
				alphabet = append(alphabet, 0)
			}
		case code == 18:
			n, ok := stream.readBits(7)
			if !ok {
				return nil, nil, stream.Err()
			}
			for i := uint32(0); i < n+11; i++ {
				alphabet = append(alphabet, 0)
			}
		default:
			return nil, nil, newErrf(ErrKindMalformedStream, "invalid code-length symbol %d", code)
		}
	}
	if uint32(len(alphabet)) != total {
		return nil, nil, newErr(ErrKindMalformedStream, "code length alphabet overran its declared size")
	}

	litLengths := alphabet[:hlit+257]
	distLengths := alphabet[hlit+257:]

	lit, err = buildHuffmanTree(rangesFromLengths(litLengths))
	if err != nil {
		return nil, nil, err
	}
	dist, err = buildHuffmanTree(rangesFromLengths(distLengths))
	if err != nil {
		return nil, nil, err
	}
	return lit, dist, nil
}

// inflateSymbols runs the symbol decode loop common to fixed and dynamic
// blocks (spec.md §4.6, "Symbol decode loop for types 01/10"). distTree is
// nil for fixed blocks, where the distance code is instead a raw 5-bit
// value read most-significant-bit first.
func inflateSymbols(stream *bitReader, litTree, distTree *huffmanTree, out *outputBuffer) *Error {
	for {
		sym, ok := litTree.decode(stream)
		if !ok {
			if err := stream.Err(); err != nil {
				return err
			}
			return newErr(ErrKindMalformedStream, "end of stream before end-of-block symbol")
		}

		switch {
		case sym <= 255:
			if err := out.appendByte(byte(sym)); err != nil {
				return err
			}
		case sym == 256:
			return nil
		case sym <= 285:
			length, err := decodeLength(stream, sym)
			if err != nil {
				return err
			}
			var distSym uint32
			if distTree != nil {
				distSym, ok = distTree.decode(stream)
				if !ok {
					if err := stream.Err(); err != nil {
						return err
					}
					return newErr(ErrKindMalformedStream, "truncated distance code")
				}
			} else {
				distSym, ok = stream.readBitsReversed(5)
				if !ok {
					return stream.Err()
				}
			}
			distance, err := decodeDistance(stream, distSym)
			if err != nil {
				return err
			}
			if err := out.copyBack(distance, length); err != nil {
				return err
			}
		default:
			return newErrf(ErrKindMalformedStream, "literal/length symbol %d out of range", sym)
		}
	}
}

// decodeLength maps a length symbol (257-285) to a byte count, per
// spec.md §4.6.
func decodeLength(stream *bitReader, sym uint32) (int, *Error) {
	switch {
	case sym <= 264:
		return int(sym - 254), nil
	case sym == 285:
		return 258, nil
	default: // 265..284
		extra := (sym - 261) >> 2
		v, ok := stream.readBits(uint(extra))
		if !ok {
			return 0, stream.Err()
		}
		return int(extraLengthAddend[sym-265] + v), nil
	}
}

// decodeDistance maps a distance symbol (0-29) to a byte distance, per
// spec.md §4.6.
func decodeDistance(stream *bitReader, sym uint32) (int, *Error) {
	if sym <= 3 {
		return int(sym + 1), nil
	}
	if sym > 29 {
		return 0, newErrf(ErrKindMalformedStream, "distance symbol %d out of range", sym)
	}
	extra := (sym - 2) >> 1
	v, ok := stream.readBits(uint(extra))
	if !ok {
		return 0, stream.Err()
	}
	return int(extraDistAddend[sym-4] + v), nil
}
