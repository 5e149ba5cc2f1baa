// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import "hash/adler32"

// newAdler returns the running checksum this codec trails every stream
// with. Adler-32 is already an exact standard-library primitive (it backs
// zlib's own checksum), so this reaches for hash/adler32 rather than
// re-deriving the mod-65521 rolling sum by hand.
func newAdler() hashSum32 { return adler32.New() }

// hashSum32 narrows hash.Hash32 to the subset this package uses.
type hashSum32 interface {
	Write(p []byte) (int, error)
	Sum32() uint32
	Reset()
}
