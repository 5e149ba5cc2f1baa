// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dtables

import "testing"

func TestLengthRoundTrip(t *testing.T) {
	for length := 3; length <= MaxMatchLen; length++ {
		code, extra, extraVal := LengthSymbol(length)
		if extraVal < 0 || extraVal >= (1<<uint(extra)) && extra > 0 {
			t.Errorf("length=%v: extraVal %v out of range for %v extra bits", length, extraVal, extra)
		}
		got := LengthBase(code) + extraVal
		if got != length {
			t.Errorf("length=%v: reconstructed %v (code=%v extra=%v extraVal=%v)", length, got, code, extra, extraVal)
		}
	}
}

func TestDistanceRoundTrip(t *testing.T) {
	for _, dist := range []int{1, 2, 3, 4, 5, 6, 100, 1000, 32767, 32768} {
		code, extra, extraVal := DistanceSymbol(dist)
		got := DistanceBase(code) + extraVal
		if got != dist {
			t.Errorf("dist=%v: reconstructed %v (code=%v extra=%v extraVal=%v)", dist, got, code, extra, extraVal)
		}
	}
}

func TestKnownBases(t *testing.T) {
	if got := LengthBase(0); got != 3 {
		t.Errorf("LengthBase(0) = %v, want 3", got)
	}
	if got := LengthBase(NumLengthCodes - 1); got != 258 {
		t.Errorf("LengthBase(last) = %v, want 258", got)
	}
	if got := DistanceBase(0); got != 1 {
		t.Errorf("DistanceBase(0) = %v, want 1", got)
	}
	if got := DistanceBase(NumDistCodes - 1); got != 24577 {
		t.Errorf("DistanceBase(last) = %v, want 24577", got)
	}
}
