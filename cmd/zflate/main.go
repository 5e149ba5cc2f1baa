// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cosnicolaou/zflate"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

type commonFlags struct {
	WindowBits int  `subcmd:"window-bits,15,'base-2 log of the sliding window size, 8-15'"`
	Verbose    bool `subcmd:"verbose,false,verbose debug/trace information"`
}

type deflateFlags struct {
	commonFlags
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
}

type inflateFlags struct {
	commonFlags
	OutputFile string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

type inspectFlags struct{}

var cmdSet *subcmd.CommandSet

func init() {
	deflateCmd := subcmd.NewCommand("deflate",
		subcmd.MustRegisterFlagStruct(&deflateFlags{}, nil, nil),
		deflate, subcmd.AtMostNArguments(1))
	deflateCmd.Document(`compress a file or stdin to zlib-framed DEFLATE. Files may be local or on S3.`)

	inflateCmd := subcmd.NewCommand("inflate",
		subcmd.MustRegisterFlagStruct(&inflateFlags{}, nil, nil),
		inflate, subcmd.ExactlyNumArguments(1))
	inflateCmd.Document(`decompress a zlib-framed DEFLATE file.`)

	inspectCmd := subcmd.NewCommand("inspect",
		subcmd.MustRegisterFlagStruct(&inspectFlags{}, nil, nil),
		inspect, subcmd.AtLeastNArguments(1))
	inspectCmd.Document(`print the compressed and decompressed sizes and verify the Adler-32 trailer of one or more files, without writing decompressed output anywhere.`)

	cmdSet = subcmd.NewCommandSet(deflateCmd, inflateCmd, inspectCmd)
	cmdSet.Document(`compress, decompress, and inspect zlib-framed DEFLATE streams. Files may be local or on S3.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		// HTTP(S) sources are rejected; only local and S3 paths are read.
		return nil, 0, nil, fmt.Errorf("zflate: http sources are not yet supported")
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
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

func main() {
	cmdSet.MustDispatch(context.Background())
}

func deflate(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*deflateFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	var rd io.Reader = os.Stdin
	var size int64
	if len(args) == 1 {
		f, n, cleanup, err := openFileOrURL(ctx, args[0])
		if err != nil {
			return err
		}
		defer cleanup(ctx)
		rd, size = f, n
	}

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}
	defer writerCleanup(ctx)

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	if cl.ProgressBar && size > 0 && (len(cl.OutputFile) > 0 || !isTTY) {
		progressWr := os.Stdout
		if isTTY {
			progressWr = os.Stdout
		} else {
			progressWr = os.Stderr
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetBytes64(size),
			progressbar.OptionSetWriter(progressWr),
			progressbar.OptionSetPredictTime(true))
		rd = io.TeeReader(rd, progressWriter{bar})
	}

	zw := zflate.NewWriter(wr, zflate.WindowSize(cl.WindowBits), zflate.WriterVerbose(cl.Verbose))
	if _, err := io.Copy(zw, rd); err != nil {
		return fmt.Errorf("zflate: compressing: %w", err)
	}
	return zw.Close()
}

// progressWriter adapts a progressbar.ProgressBar to io.Writer so it can sit
// behind an io.TeeReader.
type progressWriter struct {
	bar *progressbar.ProgressBar
}

func (p progressWriter) Write(b []byte) (int, error) {
	p.bar.Add(len(b))
	return len(b), nil
}

func inflate(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*inflateFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	rd, _, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}
	defer writerCleanup(ctx)

	zr, err := zflate.NewReader(rd, zflate.ReaderVerbose(cl.Verbose))
	if err != nil {
		return fmt.Errorf("zflate: decompressing: %w", err)
	}
	defer zr.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var copyErr error
	go func() {
		defer wg.Done()
		_, copyErr = io.Copy(wr, zr)
	}()
	wg.Wait()
	return copyErr
}
