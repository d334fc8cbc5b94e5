// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package gzcat

import "testing"

// Vectors carried forward from spec.md §8.
func TestCRC32Sum(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint32
	}{
		{"empty", nil, 0x00000000},
		{"a", []byte("a"), 0xE8B7BE43},
		{"123456789", []byte("123456789"), 0xCBF43926},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := crc32Sum(c.in); got != c.want {
				t.Errorf("crc32Sum(%q) = 0x%08x, want 0x%08x", c.in, got, c.want)
			}
		})
	}
}
