// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zflate

import (
	"bytes"
	"io"
	"testing"

	"github.com/cosnicolaou/zflate/internal/zlibtest"
)

func TestRoundTripPredictableRandomData(t *testing.T) {
	for _, size := range []int{0, 1, 100, 5000, 300000} {
		data := zlibtest.GenPredictableRandomData(size)
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			t.Fatalf("size %d: Write: %v", size, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("size %d: Close: %v", size, err)
		}
		r, err := NewReader(&buf)
		if err != nil {
			t.Fatalf("size %d: NewReader: %v", size, err)
		}
		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("size %d: ReadAll: %v", size, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("size %d: round trip mismatch", size)
		}
	}
}

func TestRoundTripRepetitiveData(t *testing.T) {
	data := zlibtest.GenRepetitiveData([]byte("0123456789"), 400000)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Write(data)
	w.Close()
	compressedSize := buf.Len()
	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("round trip mismatch for repetitive data")
	}
	// Highly repetitive input spanning multiple chunkSize blocks should
	// compress substantially.
	if compressedSize >= len(data)/4 {
		t.Errorf("compressed size %d not much smaller than input %d", compressedSize, len(data))
	}
}
