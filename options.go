// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

// readerOptions holds Reader configuration assembled from ReaderOptions.
type readerOptions struct {
	verbose bool
}

func defaultReaderOptions() readerOptions { return readerOptions{} }

// ReaderOption configures a Reader constructed by NewReader.
type ReaderOption func(*readerOptions)

// ReaderVerbose turns on diagnostic logging for this Reader's decode pass.
func ReaderVerbose(v bool) ReaderOption {
	return func(o *readerOptions) { o.verbose = v }
}

// writerOptions holds Writer configuration assembled from WriterOptions.
type writerOptions struct {
	windowBits int
	verbose    bool
}

func defaultWriterOptions() writerOptions { return writerOptions{windowBits: 15} }

// WriterOption configures a Writer constructed by NewWriter.
type WriterOption func(*writerOptions)

// WindowSize sets the base-2 log of the sliding window size advertised in
// the zlib header's CINFO field, in [8, 15] (256 bytes to 32 KiB). The
// match finder's effective window shrinks to match.
func WindowSize(bits int) WriterOption {
	return func(o *writerOptions) { o.windowBits = bits }
}

// WriterVerbose turns on diagnostic logging for this Writer's encode pass.
func WriterVerbose(v bool) WriterOption {
	return func(o *writerOptions) { o.verbose = v }
}

// Stats reports counters from one Writer's encoding pass, useful for
// understanding how well a given input compressed.
type Stats struct {
	BytesIn  int
	Literals int
	Matches  int
	Blocks   int
}
