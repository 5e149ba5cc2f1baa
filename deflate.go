// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cosnicolaou/zflate/internal/bitio"
	"github.com/cosnicolaou/zflate/internal/dtables"
	"github.com/cosnicolaou/zflate/internal/huffman"
	"github.com/cosnicolaou/zflate/internal/lzmatch"
	"github.com/cosnicolaou/zflate/internal/window"
)

// token is one emitted symbol: either a literal byte or a length/distance
// back-reference.
type token struct {
	literal  byte
	isMatch  bool
	length   int
	distance int
}

// Writer compresses what is written to it into zlib-framed DEFLATE, writing
// the result to the wrapped io.Writer. It buffers the full encoded
// bitstream in memory and emits it, header through trailer, on Close; this
// trades the bounded memory of a fully incremental encoder for a
// single-pass implementation that is far simpler to get right.
type Writer struct {
	w    io.Writer
	opts writerOptions

	pending    []byte
	totalOut   int
	windowSize int
	hist       *window.Buffer
	finder     *lzmatch.Finder
	backlog    lzmatch.BacklinkLog

	bits   *bitio.Stream
	adler  hashSum32
	stats  Stats
	closed bool
}

// NewWriter returns a Writer that streams zlib-framed DEFLATE output to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	o := defaultWriterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	windowSize := 1 << uint(o.windowBits)
	return &Writer{
		w:          w,
		opts:       o,
		windowSize: windowSize,
		hist:       window.New(windowSize),
		finder:     &lzmatch.Finder{},
		bits:       bitio.New(make([]byte, 0, growChunk), bitio.ModeWrite),
		adler:      newAdler(),
	}
}

// Write buffers p and cuts complete chunkSize-sized blocks as they fill.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrSourceSink
	}
	w.adler.Write(p)
	w.stats.BytesIn += len(p)
	w.pending = append(w.pending, p...)
	for len(w.pending) >= chunkSize {
		if err := w.encodeBlock(w.pending[:chunkSize], false); err != nil {
			return 0, err
		}
		w.pending = w.pending[chunkSize:]
	}
	return len(p), nil
}

// Close flushes any remaining buffered input as the final block and writes
// the zlib header, the full compressed body, and the Adler-32 trailer to
// the wrapped writer. Close must be called exactly once; it is not safe to
// write after Close.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.encodeBlock(w.pending, true); err != nil {
		return err
	}
	w.pending = nil

	if _, err := w.w.Write(zlibHeader(w.opts.windowBits)); err != nil {
		return fmt.Errorf("zflate: writing header: %w", wrapSourceSink(err))
	}
	if _, err := w.w.Write(w.bits.Bytes()); err != nil {
		return fmt.Errorf("zflate: writing body: %w", wrapSourceSink(err))
	}
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], w.adler.Sum32())
	if _, err := w.w.Write(trailer[:]); err != nil {
		return fmt.Errorf("zflate: writing trailer: %w", wrapSourceSink(err))
	}
	return nil
}

// Stats reports counters accumulated so far.
func (w *Writer) Stats() Stats { return w.stats }

// zlibHeader builds the 2-byte RFC 1950 header for the given window-size
// log2, choosing the FLG byte so the 16-bit header is a multiple of 31 with
// FDICT unset and FLEVEL set to 2 (default compression), which gives the
// familiar 0x78 0x9C header for a 32 KiB window.
func zlibHeader(windowBits int) []byte {
	cmf := byte((windowBits-8)<<4 | 8)
	flg := byte(0x80)
	for (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		flg++
	}
	return []byte{cmf, flg}
}

// tokenize scans chunk for literal and back-reference tokens, sliding the
// match finder's view forward by exactly the bytes it covers, then folds
// chunk into the history window for subsequent blocks. Every back-reference
// found is also logged into w.backlog, reset at the start of the block, so
// encodeBlock can tally length/distance symbol frequencies straight from the
// log rather than re-deriving them from the token slice.
func (w *Writer) tokenize(chunk []byte) []token {
	chunkStart := w.totalOut
	limit := chunkStart + len(chunk)
	byteAt := func(pos int) byte {
		if pos >= chunkStart {
			return chunk[pos-chunkStart]
		}
		return w.hist.GetFromBack(chunkStart - pos - 1)
	}

	w.backlog.Reset()
	var tokens []token
	pos := chunkStart
	for pos < limit {
		if evictPos := pos - w.windowSize; evictPos >= 0 {
			w.finder.Evict(byteAt, evictPos, limit)
		}
		m, ok := w.finder.Find(byteAt, pos, limit)
		if ok {
			tokens = append(tokens, token{isMatch: true, length: m.Length, distance: m.Distance})
			w.backlog.Push(pos-chunkStart, m.Distance, m.Length)
			end := pos + m.Length
			for p := pos; p < end; p++ {
				if p != pos {
					if evictPos := p - w.windowSize; evictPos >= 0 {
						w.finder.Evict(byteAt, evictPos, limit)
					}
				}
				w.finder.Insert(byteAt, p, limit)
			}
			w.stats.Matches++
			pos = end
		} else {
			tokens = append(tokens, token{literal: chunk[pos-chunkStart]})
			w.finder.Insert(byteAt, pos, limit)
			w.stats.Literals++
			pos++
		}
	}
	w.totalOut = limit
	for _, b := range chunk {
		w.hist.Push(b)
	}
	return tokens
}

// encodeBlock tokenizes chunk and emits it as one DEFLATE block: fixed
// Huffman for small chunks, dynamic Huffman otherwise, matching the
// original's "small inputs aren't worth a custom table" rule of thumb.
func (w *Writer) encodeBlock(chunk []byte, final bool) error {
	tokens := w.tokenize(chunk)
	w.stats.Blocks++

	litlenWeights := make([]int, 286)
	distWeights := make([]int, 30)
	litlenWeights[256] = 1
	for _, t := range tokens {
		if !t.isMatch {
			litlenWeights[int(t.literal)]++
		}
	}
	for i := 0; i < w.backlog.Len(); i++ {
		_, dist, length := w.backlog.Get(i)
		code, _, _ := dtables.LengthSymbol(length)
		litlenWeights[257+code]++
		dcode, _, _ := dtables.DistanceSymbol(dist)
		distWeights[dcode]++
	}

	useDynamic := len(chunk) > 1024
	w.vlogf("zflate: block of %d bytes, %d tokens, dynamic=%v", len(chunk), len(tokens), useDynamic)

	var bfinal uint32
	if final {
		bfinal = 1
	}
	var btype uint32 = 1
	if useDynamic {
		btype = 2
	}
	writeBitsLSBF(w.bits, bfinal|btype<<1, 3)

	var litlenIdx, distIdx []huffman.CodeTuple
	if useDynamic {
		litlenLens, err := huffman.BuildLengths(litlenWeights, 15)
		if err != nil {
			return err
		}
		distLens, err := huffman.BuildLengths(ensureNonEmpty(distWeights), 15)
		if err != nil {
			return err
		}
		writeDynamicHeader(w.bits, litlenLens, distLens)
		litlenIdx = codeIndex(huffman.Canonical(litlenLens), 286)
		distIdx = codeIndex(huffman.Canonical(distLens), 30)
	} else {
		ensureFixed()
		litlenIdx = fixedLitLenIdx
		distIdx = fixedDistIdx
	}

	for _, t := range tokens {
		if t.isMatch {
			code, extra, extraVal := dtables.LengthSymbol(t.length)
			c := litlenIdx[257+code]
			writeBitsMSBF(w.bits, c.Code, int(c.Length))
			if extra > 0 {
				writeBitsLSBF(w.bits, uint32(extraVal), extra)
			}
			dcode, dextra, dextraVal := dtables.DistanceSymbol(t.distance)
			dc := distIdx[dcode]
			writeBitsMSBF(w.bits, dc.Code, int(dc.Length))
			if dextra > 0 {
				writeBitsLSBF(w.bits, uint32(dextraVal), dextra)
			}
		} else {
			c := litlenIdx[int(t.literal)]
			writeBitsMSBF(w.bits, c.Code, int(c.Length))
		}
	}
	eob := litlenIdx[256]
	writeBitsMSBF(w.bits, eob.Code, int(eob.Length))
	return nil
}

// writeDynamicHeader emits a dynamic block's HLIT/HDIST/HCLEN fields, the
// 19 code-length-alphabet lengths (always FixedCLenLengths; see its doc in
// the dtables package), and the RLE-encoded literal/length and distance
// code lengths. Trailing unused symbols are dropped, so HLIT and HDIST
// cover only up to the highest used symbol (at least 257 and 1 codes).
func writeDynamicHeader(s *bitio.Stream, litlenLens, distLens []uint8) {
	nlit := len(litlenLens)
	for nlit > 257 && litlenLens[nlit-1] == 0 {
		nlit--
	}
	ndist := len(distLens)
	for ndist > 1 && distLens[ndist-1] == 0 {
		ndist--
	}
	litlenLens, distLens = litlenLens[:nlit], distLens[:ndist]
	hlit := len(litlenLens) - 257
	hdist := len(distLens) - 1
	writeBitsLSBF(s, uint32(hlit), 5)
	writeBitsLSBF(s, uint32(hdist), 5)
	writeBitsLSBF(s, uint32(len(dtables.CLenPermutation)-4), 4)

	clLens := make([]uint8, 19)
	for i, sym := range dtables.CLenPermutation {
		clLens[sym] = dtables.FixedCLenLengths[i]
	}
	for _, sym := range dtables.CLenPermutation {
		writeBitsLSBF(s, uint32(clLens[sym]), 3)
	}
	clIdx := codeIndex(huffman.Canonical(clLens), 19)

	all := make([]uint8, 0, len(litlenLens)+len(distLens))
	all = append(all, litlenLens...)
	all = append(all, distLens...)
	for _, e := range rleCodeLengths(all) {
		c := clIdx[e.sym]
		writeBitsMSBF(s, c.Code, int(c.Length))
		if e.sym >= 16 {
			writeBitsLSBF(s, uint32(e.extra), dtables.CLenExtraBits(e.sym))
		}
	}
}
