// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package zlibtest holds small helpers shared by this module's tests:
// deterministic pseudo-random payloads, so a round-trip test is
// reproducible across runs without checking a binary fixture into the
// tree.
package zlibtest

import "math/rand"

// fixedRandSeed seeds GenPredictableRandomData; changing it changes every
// test that relies on the exact bytes it produces.
const fixedRandSeed = 0x1234

// GenPredictableRandomData generates size bytes of pseudo-random data from
// a fixed seed, so repeated calls and repeated test runs produce identical
// output.
func GenPredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(fixedRandSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// GenRepetitiveData generates size bytes by repeating pattern, useful for
// exercising the match finder's back-reference path.
func GenRepetitiveData(pattern []byte, size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = pattern[i%len(pattern)]
	}
	return out
}
