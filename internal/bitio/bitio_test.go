// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import "testing"

func TestReadWriteLSBF(t *testing.T) {
	for _, tc := range []struct {
		value uint32
		n     int
	}{
		{0, 1},
		{1, 1},
		{0x5, 3},
		{0x1ff, 9},
		{0xdeadbeef, 32},
		{0, 32},
		{0xffffffff, 32},
	} {
		buf := make([]byte, 8)
		w := New(buf, ModeWrite)
		if missing, err := w.WriteLSBF(tc.value, tc.n); missing != 0 || err != nil {
			t.Errorf("value=%#x n=%v: write failed: missing=%v err=%v", tc.value, tc.n, missing, err)
		}
		r := New(buf, ModeRead)
		got, missing, err := r.ReadLSBF(tc.n)
		if err != nil || missing != 0 {
			t.Errorf("value=%#x n=%v: read failed: missing=%v err=%v", tc.value, tc.n, missing, err)
		}
		mask := uint32(1)<<uint(tc.n) - 1
		if tc.n == 32 {
			mask = 0xffffffff
		}
		if want := tc.value & mask; got != want {
			t.Errorf("value=%#x n=%v: got %#x, want %#x", tc.value, tc.n, got, want)
		}
	}
}

func TestReadWriteMSBF(t *testing.T) {
	for _, tc := range []struct {
		value uint32
		n     int
	}{
		{0, 1},
		{1, 1},
		{0x5, 3},
		{0x1ff, 9},
		{0xdeadbeef, 32},
		{0, 32},
		{0xffffffff, 32},
	} {
		buf := make([]byte, 8)
		w := New(buf, ModeWrite)
		if missing, err := w.WriteMSBF(tc.value, tc.n); missing != 0 || err != nil {
			t.Errorf("value=%#x n=%v: write failed: missing=%v err=%v", tc.value, tc.n, missing, err)
		}
		r := New(buf, ModeRead)
		got, missing, err := r.ReadMSBF(tc.n)
		if err != nil || missing != 0 {
			t.Errorf("value=%#x n=%v: read failed: missing=%v err=%v", tc.value, tc.n, missing, err)
		}
		mask := uint32(1)<<uint(tc.n) - 1
		if tc.n == 32 {
			mask = 0xffffffff
		}
		if want := tc.value & mask; got != want {
			t.Errorf("value=%#x n=%v: got %#x, want %#x", tc.value, tc.n, got, want)
		}
	}
}

func TestWrongMode(t *testing.T) {
	buf := make([]byte, 1)
	r := New(buf, ModeRead)
	if _, err := r.WriteLSBF(1, 1); err != ErrWrongMode {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
	if _, err := r.WriteMSBF(1, 1); err != ErrWrongMode {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
	w := New(buf, ModeWrite)
	if _, _, err := w.ReadLSBF(1); err != ErrWrongMode {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
	if _, _, err := w.ReadMSBF(1); err != ErrWrongMode {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
}

func TestEOSContinuationLSBF(t *testing.T) {
	// 12 bits requested from a 1-byte buffer: 8 bits available, 4 missing.
	buf := []byte{0xAB}
	r := New(buf, ModeRead)
	v1, missing, err := r.ReadLSBF(12)
	if err != nil || missing != 4 {
		t.Fatalf("got missing=%v err=%v, want missing=4", missing, err)
	}
	buf2 := []byte{0x0C} // low nibble 0xC supplies the remaining 4 bits
	r2 := New(buf2, ModeRead)
	v2, missing2, err := r2.ReadLSBF(missing)
	if err != nil || missing2 != 0 {
		t.Fatalf("continuation read failed: missing=%v err=%v", missing2, err)
	}
	full := v1 | v2<<uint(12-missing)
	if want := uint32(0xCAB); full != want {
		t.Errorf("got %#x, want %#x", full, want)
	}
}

func TestFlush(t *testing.T) {
	buf := make([]byte, 2)
	w := New(buf, ModeWrite)
	w.WriteLSBF(1, 3)
	if w.BitsUsed() != 1 {
		t.Fatalf("got %v, want 1", w.BitsUsed())
	}
	w.Flush()
	if w.idx != 8 {
		t.Errorf("got idx=%v, want 8", w.idx)
	}
	// Flushing an already-aligned cursor is a no-op.
	w.Flush()
	if w.idx != 8 {
		t.Errorf("got idx=%v, want 8", w.idx)
	}
}
