// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import (
	"io"

	"github.com/cosnicolaou/zflate/internal/bitio"
)

// growChunk is how much a write Stream grows by whenever a write runs past
// its current buffer; the Writer encodes a whole block into one growing
// buffer rather than fixed regions, so this is just an allocation
// granularity, not a protocol constant.
const growChunk = 4096

// writeBitsLSBF writes n bits of value, least-significant-bit first,
// growing the stream's buffer as needed.
func writeBitsLSBF(s *bitio.Stream, value uint32, n int) {
	for {
		missing, _ := s.WriteLSBF(value, n)
		if missing == 0 {
			return
		}
		s.GrowBy(growChunk)
		value >>= uint(n - missing)
		n = missing
	}
}

// writeBitsMSBF writes n bits of value, most-significant-bit first (the
// order DEFLATE packs Huffman codewords in), growing the buffer as needed.
func writeBitsMSBF(s *bitio.Stream, value uint32, n int) {
	for {
		missing, _ := s.WriteMSBF(value, n)
		if missing == 0 {
			return
		}
		s.GrowBy(growChunk)
		n = missing
	}
}

// readBitsLSBF reads n bits, least-significant-bit first. Because a Reader
// parses a fully buffered stream, running out of bits mid-read always means
// a truncated or corrupt stream, not a pause to wait out; it is reported as
// ErrStreamTooShort wrapping io.ErrUnexpectedEOF.
func readBitsLSBF(s *bitio.Stream, n int) (uint32, error) {
	v, missing, err := s.ReadLSBF(n)
	if err != nil {
		return 0, err
	}
	if missing != 0 {
		return 0, ErrStreamTooShort.wrap(io.ErrUnexpectedEOF)
	}
	return v, nil
}

// bitSource adapts a bitio.Stream to huffman.BitSource: DEFLATE codewords
// are read one raw stream bit at a time, in the same order they were
// written by writeBitsMSBF, so LSBF-with-width-1 and MSBF-with-width-1
// fetch the identical next bit; ReadLSBF(1) is used arbitrarily.
type bitSource struct{ s *bitio.Stream }

func (b bitSource) ReadBit() (int, error) {
	v, missing, err := b.s.ReadLSBF(1)
	if err != nil {
		return 0, err
	}
	if missing != 0 {
		return 0, ErrStreamTooShort.wrap(io.ErrUnexpectedEOF)
	}
	return int(v), nil
}
