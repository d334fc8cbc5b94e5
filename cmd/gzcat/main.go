// Copyright 2024 The gzcat Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff/v3"
	"github.com/cosnicolaou/gzcat"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// CommonFlags are shared by every subcommand, mirroring the teacher's
// CommonFlags in cmd/pbzip2/main.go.
type CommonFlags struct {
	Verbose bool `subcmd:"verbose,false,verbose debug/trace information"`
}

type catFlags struct {
	CommonFlags
}

type gunzipFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

type noFlags struct{}

var cmdSet *subcmd.CommandSet

func init() {
	catCmd := subcmd.NewCommand("cat",
		subcmd.MustRegisterFlagStruct(&catFlags{}, nil, nil),
		cat, subcmd.AtLeastNArguments(0))
	catCmd.Document(`decompress gzip files or stdin to stdout. Files may be local, on S3 or a URL.`)

	gunzipCmd := subcmd.NewCommand("gunzip",
		subcmd.MustRegisterFlagStruct(&gunzipFlags{}, nil, nil),
		gunzip, subcmd.ExactlyNumArguments(1))
	gunzipCmd.Document(`decompress a single gzip file to an output file or stdout.`)

	headerCmd := subcmd.NewCommand("header",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		header, subcmd.AtLeastNArguments(1))
	headerCmd.Document(`parse and print the gzip header fields of each file without inflating it.`)

	verifyCmd := subcmd.NewCommand("verify",
		subcmd.MustRegisterFlagStruct(&noFlags{}, nil, nil),
		verify, subcmd.AtLeastNArguments(1))
	verifyCmd.Document(`decompress and report CRC-32/ISIZE pass or fail for each file.`)

	cmdSet = subcmd.NewCommandSet(catCmd, gunzipCmd, headerCmd, verifyCmd)
	cmdSet.Document(`decompress and inspect gzip files. Files may be local, on S3 or a URL.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

// openFileOrURL opens a local path, an http(s) URL, or anything registered
// with grailbio's file package (s3:// in particular). Every open, local
// paths included, is retried up to 3 times with exponential backoff, since
// S3/HTTP is the one place this CLI talks to flaky infrastructure; the core
// decoder itself never retries anything.
func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		var resp *http.Response
		err := backoff.Retry(func() error {
			r, err := http.Get(name)
			if err != nil {
				return err
			}
			resp = r
			return nil
		}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body, resp.ContentLength, func(context.Context) error {
			return resp.Body.Close()
		}, nil
	}

	var (
		reader io.Reader
		size   int64
		closer func(context.Context) error
	)
	err := backoff.Retry(func() error {
		info, err := file.Stat(ctx, name)
		if err != nil {
			return err
		}
		f, err := file.Open(ctx, name)
		if err != nil {
			return err
		}
		reader = f.Reader(ctx)
		size = info.Size()
		closer = f.Close
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		return nil, 0, nil, err
	}
	return reader, size, closer, nil
}

func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout, func(context.Context) error { return nil }, nil
	}
	f, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return f.Writer(ctx), f.Close, nil
}

func cat(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*catFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	if len(args) == 0 {
		return decompressTo(ctx, os.Stdin, os.Stdout, "<stdin>", cl.Verbose)
	}

	errs := &errors.M{}
	for _, inputFile := range args {
		rd, _, cleanup, err := openFileOrURL(ctx, inputFile)
		if err != nil {
			errs.Append(err)
			continue
		}
		errs.Append(decompressTo(ctx, rd, os.Stdout, inputFile, cl.Verbose))
		errs.Append(cleanup(ctx))
	}
	return errs.Err()
}

func decompressTo(ctx context.Context, rd io.Reader, wr io.Writer, name string, verbose bool) error {
	start := time.Now()
	buf, err := ioutil.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	out, err := gzcat.Decompress(buf)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if verbose {
		log.Printf("%s: decompressed %d -> %d bytes in %s", name, len(buf), len(out), time.Since(start))
	}
	_, err = wr.Write(out)
	return err
}

func gunzip(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	cl := values.(*gunzipFlags)

	rd, size, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	progressBarWr := os.Stdout
	if len(cl.OutputFile) > 0 || !isTTY {
		progressBarWr = os.Stderr
	}

	var src io.Reader = rd
	showProgress := cl.ProgressBar && size > 0
	if showProgress {
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetBytes64(size),
			progressbar.OptionSetWriter(progressBarWr),
			progressbar.OptionSetPredictTime(true))
		bar.RenderBlank()
		src = io.TeeReader(rd, bar)
	}

	errs := &errors.M{}
	errs.Append(decompressTo(ctx, src, wr, args[0], cl.Verbose))
	errs.Append(writerCleanup(ctx))
	if showProgress {
		fmt.Fprintf(progressBarWr, "\n")
	}
	return errs.Err()
}
