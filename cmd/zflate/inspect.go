// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/cosnicolaou/zflate"
)

func inspectFile(ctx context.Context, name string) error {
	rd, compressedSize, readerCleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	zr, err := zflate.NewReader(rd)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	defer zr.Close()

	n, err := io.Copy(io.Discard, zr)
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}

	fmt.Printf("=== %v ===\n", name)
	fmt.Printf("Compressed size      : %v\n", compressedSize)
	fmt.Printf("Decompressed size    : %v\n", n)
	fmt.Printf("Adler-32 trailer     : verified\n")
	return nil
}

func inspect(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	cmdutil.HandleSignals(cancel, os.Interrupt)
	errs := errors.M{}
	for _, arg := range args {
		errs.Append(inspectFile(ctx, arg))
	}
	return errs.Err()
}
