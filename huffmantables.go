// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import (
	"sync"

	"github.com/cosnicolaou/zflate/internal/huffman"
)

// fixedLitLenLengths and fixedDistLengths are the hardcoded code lengths
// RFC 1951 assigns for BTYPE=01 blocks: literal/length codes 0-143 get 8
// bits, 144-255 get 9, 256-279 (the length codes' low end plus the
// end-of-block symbol) get 7, and 280-287 get 8; every distance code gets
// 5 bits. Symbols 286 and 287 are never emitted but still occupy slots in
// this fixed, complete code.
func fixedLitLenLengths() []uint8 {
	lengths := make([]uint8, 288)
	for i := 0; i <= 143; i++ {
		lengths[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lengths[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lengths[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lengths[i] = 8
	}
	return lengths
}

func fixedDistLengths() []uint8 {
	lengths := make([]uint8, 30)
	for i := range lengths {
		lengths[i] = 5
	}
	return lengths
}

var (
	fixedOnce      sync.Once
	fixedLitLen    []huffman.CodeTuple
	fixedDist      []huffman.CodeTuple
	fixedLitLenIdx []huffman.CodeTuple
	fixedDistIdx   []huffman.CodeTuple
)

func ensureFixed() {
	fixedOnce.Do(func() {
		fixedLitLen = huffman.Canonical(fixedLitLenLengths())
		fixedDist = huffman.Canonical(fixedDistLengths())
		fixedLitLenIdx = codeIndex(fixedLitLen, 288)
		fixedDistIdx = codeIndex(fixedDist, 30)
	})
}

// codeIndex rearranges a canonical code table (sorted by symbol, as
// Canonical returns it) into an array directly indexable by symbol value.
// Entries for symbols that never occurred are left as the zero CodeTuple
// (Length 0), which a caller must never look up.
func codeIndex(codes []huffman.CodeTuple, numSymbols int) []huffman.CodeTuple {
	idx := make([]huffman.CodeTuple, numSymbols)
	for _, c := range codes {
		idx[c.Symbol] = c
	}
	return idx
}

// ensureNonEmpty guarantees BuildLengths has at least one symbol to work
// with, for the case a block contains no back-references at all and the
// distance alphabet would otherwise be entirely zero-weight. The dummy
// weight lands on symbol 0, which the block body never actually emits.
func ensureNonEmpty(weights []int) []int {
	for _, w := range weights {
		if w > 0 {
			return weights
		}
	}
	out := make([]int, len(weights))
	copy(out, weights)
	out[0] = 1
	return out
}
