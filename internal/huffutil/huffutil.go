// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package huffutil implements a standalone single-static-tree Huffman
// archiver: one canonical code built over the whole input's byte
// frequencies (plus an end-of-stream symbol), a run-length-encoded header
// carrying its code lengths, followed by the body. Unlike the DEFLATE
// block coder in the parent package, there is exactly one tree for the
// entire stream and no LZ77 matching.
package huffutil

import (
	"bytes"
	"errors"

	"github.com/cosnicolaou/zflate/internal/bitio"
	"github.com/cosnicolaou/zflate/internal/huffman"
)

const (
	// maxCodeLen bounds a code length the run-length header can transmit
	// literally; values above it are run-length escapes.
	maxCodeLen = 32
	// maxRepeatLen is the longest run a single escape byte can cover.
	maxRepeatLen = 223
	// endOfStream is the symbol marking the end of the encoded body.
	endOfStream = 256
	// alphabetSize is 256 byte values plus the end-of-stream symbol.
	alphabetSize = 257
)

// ErrCorrupt is returned by Decode when the code-length header or encoded
// body is malformed or truncated.
var ErrCorrupt = errors.New("huffutil: corrupt stream")

// Encode returns data compressed as a code-length header followed by a
// single Huffman-coded body terminated by an end-of-stream symbol.
func Encode(data []byte) []byte {
	weights := make([]int, alphabetSize)
	weights[endOfStream] = 1
	for _, b := range data {
		weights[b]++
	}
	lengths, err := huffman.BuildLengths(weights, maxCodeLen)
	if err != nil {
		// weights[endOfStream] is always 1, so BuildLengths always has at
		// least one symbol to work with.
		panic("huffutil: " + err.Error())
	}

	var out bytes.Buffer
	out.Write(encodeCodeLengths(lengths))

	idx := make([]huffman.CodeTuple, alphabetSize)
	for _, c := range huffman.Canonical(lengths) {
		idx[c.Symbol] = c
	}

	s := bitio.New(make([]byte, 0, len(data)/2+16), bitio.ModeWrite)
	for _, b := range data {
		c := idx[b]
		writeMSBF(s, c.Code, int(c.Length))
	}
	eof := idx[endOfStream]
	writeMSBF(s, eof.Code, int(eof.Length))
	out.Write(s.Bytes())
	return out.Bytes()
}

// Decode reverses Encode.
func Decode(encoded []byte) ([]byte, error) {
	lengths, consumed, err := decodeCodeLengths(encoded)
	if err != nil {
		return nil, err
	}
	tree := huffman.NewDecoderTree(huffman.Canonical(lengths))

	s := bitio.New(encoded[consumed:], bitio.ModeRead)
	bs := bitSource{s}
	var out bytes.Buffer
	for {
		sym, err := tree.Decode(bs)
		if err != nil {
			return nil, ErrCorrupt
		}
		if sym == endOfStream {
			break
		}
		out.WriteByte(byte(sym))
	}
	return out.Bytes(), nil
}

// encodeCodeLengths run-length encodes the 257 code lengths: a byte <=
// maxCodeLen is a literal length, a byte above it means "repeat the
// previous literal length (byte - maxCodeLen) times".
func encodeCodeLengths(lengths []uint8) []byte {
	out := make([]byte, 0, alphabetSize)
	out = append(out, lengths[0])
	last := lengths[0]
	repeat := 0
	for i := 1; i < alphabetSize; i++ {
		v := lengths[i]
		switch {
		case repeat == maxRepeatLen:
			out = append(out, byte(maxRepeatLen+maxCodeLen))
			repeat = 0
			out = append(out, v)
			last = v
		case v == last:
			repeat++
		case repeat > 0:
			out = append(out, byte(repeat+maxCodeLen))
			repeat = 0
			out = append(out, v)
			last = v
		default:
			out = append(out, v)
			last = v
		}
	}
	if repeat > 0 {
		out = append(out, byte(repeat+maxCodeLen))
	}
	return out
}

// decodeCodeLengths reverses encodeCodeLengths, returning the 257 lengths
// and the number of header bytes consumed.
func decodeCodeLengths(encoded []byte) ([]uint8, int, error) {
	lengths := make([]uint8, 0, alphabetSize)
	i := 0
	for len(lengths) < alphabetSize {
		if i >= len(encoded) {
			return nil, 0, ErrCorrupt
		}
		b := encoded[i]
		i++
		if int(b) <= maxCodeLen {
			lengths = append(lengths, b)
			continue
		}
		if len(lengths) == 0 {
			return nil, 0, ErrCorrupt
		}
		last := lengths[len(lengths)-1]
		repeat := int(b) - maxCodeLen
		for k := 0; k < repeat && len(lengths) < alphabetSize; k++ {
			lengths = append(lengths, last)
		}
	}
	return lengths, i, nil
}

const growChunk = 256

func writeMSBF(s *bitio.Stream, value uint32, n int) {
	for {
		missing, _ := s.WriteMSBF(value, n)
		if missing == 0 {
			return
		}
		s.GrowBy(growChunk)
		n = missing
	}
}

// bitSource adapts a read-mode bitio.Stream to huffman.BitSource.
type bitSource struct{ s *bitio.Stream }

func (b bitSource) ReadBit() (int, error) {
	v, missing, err := b.s.ReadLSBF(1)
	if err != nil {
		return 0, err
	}
	if missing != 0 {
		return 0, ErrCorrupt
	}
	return int(v), nil
}
