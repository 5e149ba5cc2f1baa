// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzmatch

import "testing"

func TestFindSimpleRepeat(t *testing.T) {
	data := []byte("abcabcabcabc")
	byteAt := func(pos int) byte { return data[pos] }

	f := &Finder{}
	var match Match
	var ok bool
	for pos := 0; pos < len(data); pos++ {
		if pos >= 2 {
			match, ok = f.Find(byteAt, pos, len(data))
			if ok && match.Distance == 3 {
				break
			}
		}
		f.Insert(byteAt, pos, len(data))
	}
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Distance != 3 {
		t.Errorf("distance = %v, want 3", match.Distance)
	}
	if match.Length < MinMatchLen {
		t.Errorf("length = %v, want >= %v", match.Length, MinMatchLen)
	}
}

func TestNoMatchBelowThreshold(t *testing.T) {
	data := []byte("ababXYZ")
	byteAt := func(pos int) byte { return data[pos] }
	f := &Finder{}
	f.Insert(byteAt, 0, len(data))
	// "ab" recurs at position 2, but the match length is only 2 bytes
	// ("ab") which is below MinMatchLen.
	f.Insert(byteAt, 1, len(data))
	_, ok := f.Find(byteAt, 2, len(data))
	if ok {
		t.Errorf("expected no match below MinMatchLen")
	}
}

func TestBacklinkLog(t *testing.T) {
	var l BacklinkLog
	l.Push(10, 3, 6)
	l.Push(20, 32768, 258)
	l.Push(0, 1, 3)
	if got := l.Len(); got != 3 {
		t.Fatalf("Len() = %v, want 3", got)
	}
	for i, want := range [][3]int{{10, 3, 6}, {20, 32768, 258}, {0, 1, 3}} {
		pos, dist, length := l.Get(i)
		if pos != want[0] || dist != want[1] || length != want[2] {
			t.Errorf("Get(%v) = (%v,%v,%v), want (%v,%v,%v)", i, pos, dist, length, want[0], want[1], want[2])
		}
	}
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Len() after Reset = %v, want 0", l.Len())
	}
}

func TestChainEviction(t *testing.T) {
	var table Table
	const extra = 10
	for pos := 0; pos < MaxMarks+extra; pos++ {
		table.Insert('x', 'y', pos)
	}
	if got := table.Len('x', 'y'); got != MaxMarks {
		t.Errorf("Len = %v, want %v", got, MaxMarks)
	}
	if newest := table.At('x', 'y', 0); newest != MaxMarks+extra-1 {
		t.Errorf("newest entry = %v, want %v", newest, MaxMarks+extra-1)
	}
	if oldest := table.At('x', 'y', MaxMarks-1); oldest != extra {
		t.Errorf("oldest retained entry = %v, want %v", oldest, extra)
	}
}
