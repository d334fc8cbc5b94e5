// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/cosnicolaou/gzcat"
)

// headerFile parses and prints one file's header fields without inflating
// the payload, the GZIP analogue of the teacher's scanFile (which walks
// bzip2 block boundaries via pbzip2.NewScanner).
func headerFile(ctx context.Context, name string) error {
	rd, _, cleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	buf, err := ioutil.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	hdr, err := gzcat.ParseHeader(buf)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Printf("=== %s ===\n", name)
	fmt.Printf("ModTime      : %v\n", hdr.ModTime)
	fmt.Printf("OS           : %d\n", hdr.OS)
	fmt.Printf("XFL          : %d\n", hdr.XFL)
	fmt.Printf("Text         : %v\n", hdr.Text)
	if hdr.Extra != nil {
		fmt.Printf("Extra        : id=%q len=%d\n", hdr.Extra.ID[:], len(hdr.Extra.Payload))
	}
	if hdr.HasName {
		fmt.Printf("Name         : %s\n", hdr.Name)
	}
	if hdr.HasComment {
		fmt.Printf("Comment      : %s\n", hdr.Comment)
	}
	if hdr.HasCRC16 {
		fmt.Printf("CRC16        : 0x%04x\n", hdr.CRC16)
	}
	fmt.Printf("HeaderLen    : %d\n", hdr.HeaderLen)
	return nil
}

func header(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(headerFile(ctx, arg))
	}
	return errs.Err()
}

// verifyFile decompresses name and reports whether its CRC-32 and ISIZE
// match the footer, the GZIP analogue of the teacher's bz2StatsFile.
func verifyFile(ctx context.Context, name string) error {
	rd, _, cleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup(ctx)

	buf, err := ioutil.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	out, err := gzcat.Decompress(buf)
	if err != nil {
		fmt.Printf("%-40s FAIL  %v\n", name, err)
		return err
	}

	isize := binary.LittleEndian.Uint32(buf[len(buf)-4:])
	if uint32(len(out)) != isize {
		err := fmt.Errorf("%s: output length %d does not match ISIZE %d", name, len(out), isize)
		fmt.Printf("%-40s FAIL  %v\n", name, err)
		return err
	}
	fmt.Printf("%-40s PASS  %d bytes (ISIZE %d)\n", name, len(out), isize)
	return nil
}

func verify(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(verifyFile(ctx, arg))
	}
	return errs.Err()
}
