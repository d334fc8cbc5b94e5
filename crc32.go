// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

import "sync"

// crc32IEEE is the reflected IEEE 802.3 polynomial GZIP uses for its
// footer checksum. Grounded on original_source/src/crc32.rs: the table is
// built once (there as part of Crc32::new, here guarded by sync.Once since
// this package may be used concurrently by independent decodes), the
// running value starts at 0xffffffff, and the final value is XORed with
// 0xffffffff.
const crc32IEEE = 0xedb88320

var (
	crc32TableOnce sync.Once
	crc32Table     [256]uint32
)

func crc32Tab() [256]uint32 {
	crc32TableOnce.Do(func() {
		for i := 0; i < 256; i++ {
			v := uint32(i)
			for b := 0; b < 8; b++ {
				if v&1 != 0 {
					v = crc32IEEE ^ (v >> 1)
				} else {
					v >>= 1
				}
			}
			crc32Table[i] = v
		}
	})
	return crc32Table
}

// crc32Sum computes the IEEE CRC-32 of buf.
func crc32Sum(buf []byte) uint32 {
	tab := crc32Tab()
	value := uint32(0xffffffff)
	for _, b := range buf {
		value = tab[(value^uint32(b))&0xff] ^ (value >> 8)
	}
	return value ^ 0xffffffff
}
