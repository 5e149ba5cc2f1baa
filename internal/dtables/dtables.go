// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dtables builds the RFC 1951 length and distance code tables that
// map a match length or distance to its symbol, base value, and extra-bit
// width. The base-value tables are derived by formula at first use rather
// than hand-transcribed as literal slices, the same way the original
// implementation's luts_init lazily fills len_lookup_table/dist_lookup_table
// once on first call.
package dtables

import "sync"

const (
	// NumLengthCodes is the number of length symbols, 257..285.
	NumLengthCodes = 29
	// NumDistCodes is the number of distance symbols, 0..29.
	NumDistCodes = 30
	// MaxMatchLen is the longest match length DEFLATE can encode.
	MaxMatchLen = 258
	// MaxDistance is the longest back-reference distance this codec
	// supports (32 KiB window).
	MaxDistance = 32768
)

var (
	once     sync.Once
	lenBase  [NumLengthCodes]int
	distBase [NumDistCodes]int
)

// LenExtraBits returns the number of extra bits following length symbol
// code (code in [0, NumLengthCodes)).
func LenExtraBits(code int) int {
	if code < 4 || code == NumLengthCodes-1 {
		return 0
	}
	return (code >> 2) - 1
}

// DistExtraBits returns the number of extra bits following distance symbol
// code (code in [0, NumDistCodes)).
func DistExtraBits(code int) int {
	if code < 2 {
		return 0
	}
	return (code >> 1) - 1
}

func build() {
	lenBase[0] = 3
	for i := 1; i < NumLengthCodes-1; i++ {
		if i < 8 {
			lenBase[i] = i + 3
		} else {
			lenBase[i] = lenBase[i-1] + (1 << LenExtraBits(i-1))
		}
	}
	lenBase[NumLengthCodes-1] = MaxMatchLen

	distBase[0] = 1
	for i := 1; i < NumDistCodes; i++ {
		if i < 4 {
			distBase[i] = i + 1
		} else {
			distBase[i] = distBase[i-1] + (1 << DistExtraBits(i-1))
		}
	}
}

func ensure() { once.Do(build) }

// LengthBase returns the smallest match length encoded by length symbol
// code.
func LengthBase(code int) int {
	ensure()
	return lenBase[code]
}

// DistanceBase returns the smallest distance encoded by distance symbol
// code.
func DistanceBase(code int) int {
	ensure()
	return distBase[code]
}

// LengthSymbol returns the length-alphabet symbol (257-based code, i.e. the
// value to add 257 to) and extra-bit count for a match length in
// [3, MaxMatchLen].
func LengthSymbol(length int) (code, extra, extraVal int) {
	ensure()
	for code = NumLengthCodes - 1; code > 0; code-- {
		if length >= lenBase[code] {
			break
		}
	}
	extra = LenExtraBits(code)
	extraVal = length - lenBase[code]
	return code, extra, extraVal
}

// DistanceSymbol returns the distance-alphabet symbol and extra-bit count
// for a distance in [1, MaxDistance].
func DistanceSymbol(dist int) (code, extra, extraVal int) {
	ensure()
	for code = NumDistCodes - 1; code > 0; code-- {
		if dist >= distBase[code] {
			break
		}
	}
	extra = DistExtraBits(code)
	extraVal = dist - distBase[code]
	return code, extra, extraVal
}

// CLenPermutation is the fixed order in which code-length-alphabet code
// lengths are transmitted in a dynamic block header.
var CLenPermutation = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// CLenExtraBits returns the extra-bit width for code-length-alphabet RLE
// symbol sym (16, 17, or 18).
func CLenExtraBits(sym int) int {
	switch sym {
	case 16:
		return 2
	case 17:
		return 3
	default:
		return 7
	}
}

// FixedCLenLengths are the hardcoded code-length-alphabet code lengths this
// codec always emits for dynamic blocks, in CLenPermutation order,
// regardless of the observed code-length frequencies. HCLEN is always 15
// (19 codes). This matches the original implementation's gen_clen_codes
// exactly; see design notes on the open question this resolves.
var FixedCLenLengths = [19]uint8{3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
