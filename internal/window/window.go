// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package window implements the fixed-capacity sliding window DEFLATE uses
// to resolve back-references: a ring buffer that silently evicts its oldest
// byte once full.
package window

// Buffer is a fixed-capacity circular FIFO of bytes.
type Buffer struct {
	buf               []byte
	capacity          int
	size              int
	readIdx, writeIdx int
}

// New returns an empty Buffer with the given capacity.
func New(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, capacity), capacity: capacity}
}

// Capacity returns the buffer's fixed capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Len returns the number of bytes currently held, 0 <= Len() <= Capacity().
func (b *Buffer) Len() int { return b.size }

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool { return b.size == 0 }

// IsFull reports whether the buffer is at capacity.
func (b *Buffer) IsFull() bool { return b.size == b.capacity }

// Push appends val, evicting the oldest byte if the buffer is already full.
func (b *Buffer) Push(val byte) {
	b.buf[b.writeIdx] = val
	b.writeIdx++
	if b.writeIdx == b.capacity {
		b.writeIdx = 0
	}
	if b.size == b.capacity {
		b.readIdx++
		if b.readIdx == b.capacity {
			b.readIdx = 0
		}
	} else {
		b.size++
	}
}

// Get returns the byte at 0-based index i, counting from the oldest byte
// still held.
func (b *Buffer) Get(i int) byte {
	idx := b.readIdx + i
	if idx >= b.capacity {
		idx -= b.capacity
	}
	return b.buf[idx]
}

// GetFromBack returns the byte at 0-based index i counting from the most
// recently pushed byte (i=0 is the newest).
func (b *Buffer) GetFromBack(i int) byte {
	return b.Get(b.size - i - 1)
}
