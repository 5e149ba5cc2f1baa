// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package huffutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"a",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		strings.Repeat("the quick brown fox jumps over the lazy dog. ", 100),
	}
	for _, c := range cases {
		encoded := Encode([]byte(c))
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q): %v", c, err)
		}
		if !bytes.Equal(decoded, []byte(c)) {
			t.Errorf("round trip mismatch for %q: got %q", c, decoded)
		}
	}
}

func TestRoundTripBinary(t *testing.T) {
	data := make([]byte, 5000)
	x := uint32(987654321)
	for i := range data {
		x = x*1103515245 + 12345
		data[i] = byte(x >> 16)
	}
	encoded := Encode(data)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch for binary input")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err == nil {
		t.Error("expected an error decoding a truncated header")
	}
}

func TestCodeLengthRunLength(t *testing.T) {
	lengths := make([]uint8, alphabetSize)
	for i := range lengths {
		lengths[i] = 8
	}
	lengths[300%alphabetSize] = 4
	header := encodeCodeLengths(lengths)
	got, consumed, err := decodeCodeLengths(header)
	if err != nil {
		t.Fatalf("decodeCodeLengths: %v", err)
	}
	if consumed != len(header) {
		t.Errorf("consumed = %v, want %v", consumed, len(header))
	}
	for i := range lengths {
		if got[i] != lengths[i] {
			t.Errorf("length[%d] = %v, want %v", i, got[i], lengths[i])
		}
	}
}
