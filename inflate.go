// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cosnicolaou/zflate/internal/bitio"
	"github.com/cosnicolaou/zflate/internal/dtables"
	"github.com/cosnicolaou/zflate/internal/huffman"
	"github.com/cosnicolaou/zflate/internal/window"
)

// Reader inflates a zlib-framed DEFLATE stream. It reads and decodes the
// entire input the first time it is needed (in NewReader) rather than
// incrementally, so header and checksum errors surface from NewReader
// itself rather than partway through a Read loop.
type Reader struct {
	opts readerOptions
	out  bytes.Buffer
	hist *window.Buffer
	bits *bitio.Stream
}

// NewReader reads all of r, validates the zlib header and trailer, and
// inflates the body. It returns an error immediately if the stream is too
// short, the header is corrupt, a preset dictionary is requested, or the
// Adler-32 trailer does not match the decoded bytes.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	o := defaultReaderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zflate: %w", wrapSourceSink(err))
	}
	z := &Reader{opts: o}
	if err := z.decode(raw); err != nil {
		return nil, err
	}
	return z, nil
}

// Read serves bytes from the already-decoded output.
func (z *Reader) Read(p []byte) (int, error) { return z.out.Read(p) }

// Close is a no-op; decoding already completed in NewReader.
func (z *Reader) Close() error { return nil }

func (z *Reader) decode(raw []byte) error {
	if len(raw) < 6 {
		return ErrStreamTooShort
	}
	cmf, flg := raw[0], raw[1]
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return ErrCorruptHeader
	}
	if cmf&0x0f != 8 {
		return ErrInvalidCompMethod
	}
	windowBits := int(cmf>>4) + 8
	if windowBits < 8 || windowBits > 15 {
		return ErrInvalidWindowSize
	}
	if flg&0x20 != 0 {
		return ErrDictNotSupported
	}

	body := raw[2:]
	payload := body[:len(body)-4]
	trailer := body[len(body)-4:]

	z.hist = window.New(1 << uint(windowBits))
	z.bits = bitio.New(payload, bitio.ModeRead)

	for blockNo := 0; ; blockNo++ {
		final, err := z.decodeBlock()
		if err != nil {
			return err
		}
		z.vlogf("zflate: decoded block %d, final=%v, %d bytes out so far", blockNo, final, z.out.Len())
		if final {
			break
		}
	}

	want := binary.BigEndian.Uint32(trailer)
	sum := newAdler()
	sum.Write(z.out.Bytes())
	if got := sum.Sum32(); got != want {
		return ErrAdlerMismatch
	}
	return nil
}

func (z *Reader) emit(b byte) {
	z.out.WriteByte(b)
	z.hist.Push(b)
}

func (z *Reader) decodeBlock() (final bool, err error) {
	hdr, err := readBitsLSBF(z.bits, 3)
	if err != nil {
		return false, fmt.Errorf("zflate: reading block header: %w", err)
	}
	final = hdr&1 != 0
	btype := (hdr >> 1) & 3
	switch btype {
	case 0:
		err = z.decodeStored()
	case 1:
		ensureFixed()
		err = z.decodeHuffmanBlock(fixedLitLen, fixedDist)
	case 2:
		var litlenCodes, distCodes []huffman.CodeTuple
		litlenCodes, distCodes, err = z.readDynamicTables()
		if err == nil {
			err = z.decodeHuffmanBlock(litlenCodes, distCodes)
		}
	default:
		err = ErrIllegalBlockType
	}
	return final, err
}

func (z *Reader) decodeStored() error {
	z.bits.Flush()
	length, err := readBitsLSBF(z.bits, 16)
	if err != nil {
		return err
	}
	nlength, err := readBitsLSBF(z.bits, 16)
	if err != nil {
		return err
	}
	if length^0xFFFF != nlength {
		return ErrLenCheckFailed
	}
	for i := uint32(0); i < length; i++ {
		b, err := readBitsLSBF(z.bits, 8)
		if err != nil {
			return err
		}
		z.emit(byte(b))
	}
	return nil
}

func (z *Reader) decodeHuffmanBlock(litlenCodes, distCodes []huffman.CodeTuple) error {
	litlenTree := huffman.NewDecoderTree(litlenCodes)
	distTree := huffman.NewDecoderTree(distCodes)
	bs := bitSource{z.bits}
	for {
		sym, err := litlenTree.Decode(bs)
		if err != nil {
			return fmt.Errorf("zflate: decoding literal/length symbol: %w", err)
		}
		switch {
		case sym < 256:
			z.emit(byte(sym))
		case sym == 256:
			return nil
		default:
			code := sym - 257
			if code < 0 || code >= dtables.NumLengthCodes {
				return ErrInvalidMatchLen
			}
			extraVal, err := readExtra(z.bits, dtables.LenExtraBits(code))
			if err != nil {
				return err
			}
			length := dtables.LengthBase(code) + extraVal
			if length > dtables.MaxMatchLen {
				return ErrInvalidMatchLen
			}

			dsym, err := distTree.Decode(bs)
			if err != nil {
				return fmt.Errorf("zflate: decoding distance symbol: %w", err)
			}
			if dsym < 0 || dsym >= dtables.NumDistCodes {
				return ErrInvalidMatchLen
			}
			dextraVal, err := readExtra(z.bits, dtables.DistExtraBits(dsym))
			if err != nil {
				return err
			}
			distance := dtables.DistanceBase(dsym) + dextraVal
			if err := z.copyMatch(distance, length); err != nil {
				return err
			}
		}
	}
}

func readExtra(s *bitio.Stream, n int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := readBitsLSBF(s, n)
	return int(v), err
}

// copyMatch replays a length/distance back-reference. Because every
// emitted byte, from any block, is pushed into the same sliding window,
// self-overlapping matches (distance < length) resolve correctly: each
// copied byte becomes visible to GetFromBack before the next one is read.
func (z *Reader) copyMatch(distance, length int) error {
	if distance < 1 || distance > z.hist.Len() {
		return ErrInvalidMatchLen
	}
	for i := 0; i < length; i++ {
		z.emit(z.hist.GetFromBack(distance - 1))
	}
	return nil
}

func (z *Reader) readDynamicTables() (litlenCodes, distCodes []huffman.CodeTuple, err error) {
	hlitV, err := readBitsLSBF(z.bits, 5)
	if err != nil {
		return nil, nil, err
	}
	hdistV, err := readBitsLSBF(z.bits, 5)
	if err != nil {
		return nil, nil, err
	}
	hclenV, err := readBitsLSBF(z.bits, 4)
	if err != nil {
		return nil, nil, err
	}
	hlit := int(hlitV) + 257
	hdist := int(hdistV) + 1
	hclen := int(hclenV) + 4

	clLens := make([]uint8, 19)
	for i := 0; i < hclen; i++ {
		v, err := readBitsLSBF(z.bits, 3)
		if err != nil {
			return nil, nil, err
		}
		clLens[dtables.CLenPermutation[i]] = uint8(v)
	}
	clTree := huffman.NewDecoderTree(huffman.Canonical(clLens))
	bs := bitSource{z.bits}

	total := hlit + hdist
	lens := make([]uint8, 0, total)
	var prev uint8
	for len(lens) < total {
		sym, err := clTree.Decode(bs)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			lens = append(lens, uint8(sym))
			prev = uint8(sym)
		case sym == 16:
			v, err := readBitsLSBF(z.bits, 2)
			if err != nil {
				return nil, nil, err
			}
			for i := 0; i < int(v)+3; i++ {
				lens = append(lens, prev)
			}
		case sym == 17:
			v, err := readBitsLSBF(z.bits, 3)
			if err != nil {
				return nil, nil, err
			}
			for i := 0; i < int(v)+3; i++ {
				lens = append(lens, 0)
			}
			prev = 0
		case sym == 18:
			v, err := readBitsLSBF(z.bits, 7)
			if err != nil {
				return nil, nil, err
			}
			for i := 0; i < int(v)+11; i++ {
				lens = append(lens, 0)
			}
			prev = 0
		default:
			return nil, nil, ErrCorruptHeader
		}
	}
	if len(lens) != total {
		return nil, nil, ErrCorruptHeader
	}
	return huffman.Canonical(lens[:hlit]), huffman.Canonical(lens[hlit:]), nil
}
