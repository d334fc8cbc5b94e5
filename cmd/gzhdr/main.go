// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/cosnicolaou/gzcat"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/must"
	"v.io/x/lib/cmd/flagvar"
)

var commandline struct {
	InputFile string `cmd:"input,,'input file, s3 path, or url'"`
}

func init() {
	must.Nil(flagvar.RegisterFlagsInStruct(flag.CommandLine, "cmd", &commandline,
		nil, nil))
}

func main() {
	ctx := context.Background()
	flag.Parse()

	f, err := file.Open(ctx, commandline.InputFile)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	buf, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		log.Fatalf("read: %v: %v", commandline.InputFile, err)
	}
	hdr, err := gzcat.ParseHeader(buf)
	if err != nil {
		log.Fatalf("parse header: %v: %v", commandline.InputFile, err)
	}
	fmt.Printf("=== %v ===\n", commandline.InputFile)
	fmt.Printf("ModTime   : %v\n", hdr.ModTime)
	fmt.Printf("OS        : %d\n", hdr.OS)
	fmt.Printf("XFL       : %d\n", hdr.XFL)
	fmt.Printf("Text      : %v\n", hdr.Text)
	if hdr.Extra != nil {
		fmt.Printf("Extra     : id=%q payload=% x\n", hdr.Extra.ID[:], hdr.Extra.Payload)
	}
	if hdr.HasName {
		fmt.Printf("Name      : %s\n", hdr.Name)
	}
	if hdr.HasComment {
		fmt.Printf("Comment   : %s\n", hdr.Comment)
	}
	if hdr.HasCRC16 {
		fmt.Printf("CRC16     : 0x%04x\n", hdr.CRC16)
	}
	fmt.Printf("HeaderLen : %d\n", hdr.HeaderLen)
}
