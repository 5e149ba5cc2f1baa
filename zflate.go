// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package zflate implements a zlib-framed (RFC 1950) DEFLATE (RFC 1951)
// codec: a streaming Writer that compresses into that framing and a Reader
// that inflates it back, verifying the trailing Adler-32 checksum.
package zflate

import "log"

// chunkSize is the amount of input the Writer accumulates before it cuts a
// new DEFLATE block, mirroring the fixed-size buffering the original codec
// reads and compresses a region at a time.
const chunkSize = 1 << 17

// vlogf logs block-level diagnostics (block type chosen, token counts) for
// a Writer whose verbose option is set.
func (w *Writer) vlogf(format string, args ...interface{}) {
	if w.opts.verbose {
		log.Printf(format, args...)
	}
}

// vlogf logs block-level diagnostics for a Reader whose verbose option is
// set.
func (z *Reader) vlogf(format string, args ...interface{}) {
	if z.opts.verbose {
		log.Printf(format, args...)
	}
}
